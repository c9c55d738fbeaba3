package domain

// RunStatus represents the lifecycle of a pipeline run.
type RunStatus string

const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// RateCutoverYear is the period year at which base resolution switches from
// the legacy rate column to the current one.
const RateCutoverYear = 2024

// ExemptRateTokens are the literal rate values that never receive the
// simplified-regime surcharge and never produce a computed result.
var ExemptRateTokens = map[string]bool{
	"ST":     true,
	"ISENTO": true,
	"PAUTA":  true,
	"":       true,
}

// EligibleCFOPs are the operation codes whose C170 registers become line
// items; everything else is ignored by the clone step.
var EligibleCFOPs = []string{"1101", "1401", "1102", "1403", "1910", "1116"}

// SimplesSurchargePoints is the additive percentage-point surcharge applied
// to numeric rates of simplified-regime suppliers.
const SimplesSurchargePoints = 3.0
