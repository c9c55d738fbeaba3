package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"spedflow/internal/domain"
	"spedflow/internal/port"
	"spedflow/internal/sped"
)

// ResolutionEngine fills in line-item rates and results. Rates live as
// text because the tax table mixes numeric percentages with the literal
// exemption tokens; arithmetic happens on decimals, storage stays textual.
type ResolutionEngine struct {
	lineItems port.LineItemRepository
	batchSize int
}

// NewResolutionEngine creates a ResolutionEngine. batchSize bounds the IDs
// per bulk update statement.
func NewResolutionEngine(lineItems port.LineItemRepository, batchSize int) *ResolutionEngine {
	if batchSize <= 0 {
		batchSize = 5000
	}
	return &ResolutionEngine{lineItems: lineItems, batchSize: batchSize}
}

// ResolveBase applies tax-table rates to unrated line items. The rate
// column depends on the year of the most recently staged period: the
// current column from the cutover year onward, the legacy column before.
func (e *ResolutionEngine) ResolveBase(ctx context.Context, empresaID int64) (int, error) {
	dtIni, err := e.lineItems.LatestDtIni(ctx, empresaID)
	if err != nil {
		return 0, fmt.Errorf("resolution.ResolveBase: %w", err)
	}
	useCurrent := sped.PeriodYear(dtIni) >= domain.RateCutoverYear

	updates, err := e.lineItems.UnratedMatches(ctx, empresaID, useCurrent)
	if err != nil {
		return 0, fmt.Errorf("resolution.ResolveBase: %w", err)
	}
	if err := e.applyRates(ctx, updates); err != nil {
		return 0, fmt.Errorf("resolution.ResolveBase: %w", err)
	}
	log.Printf("resolution.ResolveBase: empresa=%d atual=%t aplicadas=%d", empresaID, useCurrent, len(updates))
	return len(updates), nil
}

// ApplySurcharge adds the simplified-regime surcharge to the period's
// rated items whose supplier is in that regime. Exemption tokens pass
// through untouched; a malformed numeric rate is skipped with a warning.
func (e *ResolutionEngine) ApplySurcharge(ctx context.Context, empresaID int64, periodo string) (int, error) {
	rows, err := e.lineItems.SimplesCandidates(ctx, empresaID, periodo)
	if err != nil {
		return 0, fmt.Errorf("resolution.ApplySurcharge: %w", err)
	}

	surcharge := decimal.NewFromFloat(domain.SimplesSurchargePoints)
	var updates []port.RateUpdate
	for _, row := range rows {
		if row.Aliquota == nil {
			continue
		}
		token := strings.ToUpper(strings.TrimSpace(*row.Aliquota))
		if domain.ExemptRateTokens[token] {
			continue
		}
		rate, err := sped.ParseDecimal(*row.Aliquota)
		if err != nil {
			log.Printf("resolution.ApplySurcharge: item %d com alíquota ilegível %q; ignorando", row.ID, *row.Aliquota)
			continue
		}
		updates = append(updates, port.RateUpdate{
			ID:       row.ID,
			Aliquota: sped.FormatRate(rate.Add(surcharge)),
		})
	}
	if err := e.applyRates(ctx, updates); err != nil {
		return 0, fmt.Errorf("resolution.ApplySurcharge: %w", err)
	}
	log.Printf("resolution.ApplySurcharge: empresa=%d periodo=%s acrescidas=%d", empresaID, periodo, len(updates))
	return len(updates), nil
}

// ComputeResults computes the monetary result of every rated line item of
// the company: (vl_item - vl_desc) * rate / 100, rounded to two decimals.
// Exemption tokens produce no result; unparseable amounts are counted and
// skipped, never fatal.
func (e *ResolutionEngine) ComputeResults(ctx context.Context, empresaID int64) (applied, skipped int, err error) {
	rows, err := e.lineItems.ResultInputs(ctx, empresaID)
	if err != nil {
		return 0, 0, fmt.Errorf("resolution.ComputeResults: %w", err)
	}

	hundred := decimal.NewFromInt(100)
	var updates []port.ResultUpdate
	for _, row := range rows {
		if row.Aliquota == nil {
			continue
		}
		token := strings.ToUpper(strings.TrimSpace(*row.Aliquota))
		if domain.ExemptRateTokens[token] {
			continue
		}
		rate, rateErr := sped.ParseDecimal(*row.Aliquota)
		if rateErr != nil {
			skipped++
			continue
		}
		vlItem, itemErr := sped.ParseDecimal(row.VlItem)
		if itemErr != nil {
			skipped++
			continue
		}
		vlDesc := decimal.Zero
		if strings.TrimSpace(row.VlDesc) != "" {
			var descErr error
			vlDesc, descErr = sped.ParseDecimal(row.VlDesc)
			if descErr != nil {
				skipped++
				continue
			}
		}
		resultado := vlItem.Sub(vlDesc).Mul(rate).Div(hundred).Round(2)
		f, _ := resultado.Float64()
		updates = append(updates, port.ResultUpdate{ID: row.ID, Resultado: f})
	}

	for i := 0; i < len(updates); i += e.batchSize {
		end := i + e.batchSize
		if end > len(updates) {
			end = len(updates)
		}
		if err := e.lineItems.UpdateResults(ctx, updates[i:end]); err != nil {
			return 0, skipped, fmt.Errorf("resolution.ComputeResults: %w", err)
		}
	}
	if skipped > 0 {
		log.Printf("resolution.ComputeResults: empresa=%d %d itens com valores ilegíveis ignorados", empresaID, skipped)
	}
	return len(updates), skipped, nil
}

func (e *ResolutionEngine) applyRates(ctx context.Context, updates []port.RateUpdate) error {
	for i := 0; i < len(updates); i += e.batchSize {
		end := i + e.batchSize
		if end > len(updates) {
			end = len(updates)
		}
		if err := e.lineItems.UpdateRates(ctx, updates[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// categoryRates maps normalized current rates to their fiscal category.
var categoryRates = map[string]string{
	"17":    "20RegraGeral",
	"12":    "20RegraGeral",
	"4":     "20RegraGeral",
	"5.95":  "7CestaBasica",
	"4.2":   "7CestaBasica",
	"1.54":  "7CestaBasica",
	"10.2":  "12CestaBasica",
	"7.2":   "12CestaBasica",
	"2.63":  "12CestaBasica",
	"37.8":  "28BebidaAlcoolica",
	"30.39": "28BebidaAlcoolica",
	"8.13":  "28BebidaAlcoolica",
}

// CategoriaForRate classifies a rate into the fiscal category stored next
// to it in the tax table.
func CategoriaForRate(aliquota string) string {
	token := strings.ToUpper(strings.TrimSpace(aliquota))
	if token == "ST" || token == "ISENTO" {
		return "ST"
	}
	d, err := sped.ParseDecimal(aliquota)
	if err != nil {
		return "regraGeral"
	}
	if d.IsZero() {
		return "ST"
	}
	if cat, ok := categoryRates[d.String()]; ok {
		return cat
	}
	return "regraGeral"
}
