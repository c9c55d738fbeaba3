package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spedflow/internal/port"
	"spedflow/mocks"
)

func strPtr(s string) *string { return &s }

func TestResolveBase_CutoverSelectsRateColumn(t *testing.T) {
	cases := []struct {
		name       string
		dtIni      string
		useCurrent bool
	}{
		{"legacy column before cutover", "01122023", false},
		{"current column from cutover on", "01012024", true},
		{"current column after cutover", "01062025", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mocks.MockLineItemRepo)
			repo.On("LatestDtIni", mock.Anything, int64(1)).Return(tc.dtIni, nil)
			repo.On("UnratedMatches", mock.Anything, int64(1), tc.useCurrent).
				Return([]port.RateUpdate{{ID: 10, Aliquota: "17%"}}, nil)
			repo.On("UpdateRates", mock.Anything, []port.RateUpdate{{ID: 10, Aliquota: "17%"}}).Return(nil)

			engine := NewResolutionEngine(repo, 5000)
			applied, err := engine.ResolveBase(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, 1, applied)
			repo.AssertExpectations(t)
		})
	}
}

func TestApplySurcharge(t *testing.T) {
	repo := new(mocks.MockLineItemRepo)
	repo.On("SimplesCandidates", mock.Anything, int64(1), "01/2024").Return([]port.RateRow{
		{ID: 1, Aliquota: strPtr("10,00%")},
		{ID: 2, Aliquota: strPtr("ST")},
		{ID: 3, Aliquota: strPtr("ISENTO")},
		{ID: 4, Aliquota: strPtr("PAUTA")},
		{ID: 5, Aliquota: strPtr("")},
		{ID: 6, Aliquota: nil},
		{ID: 7, Aliquota: strPtr("lixo")},
		{ID: 8, Aliquota: strPtr("4.25%")},
	}, nil)
	repo.On("UpdateRates", mock.Anything, []port.RateUpdate{
		{ID: 1, Aliquota: "13,00%"},
		{ID: 8, Aliquota: "7,25%"},
	}).Return(nil)

	engine := NewResolutionEngine(repo, 5000)
	applied, err := engine.ApplySurcharge(context.Background(), 1, "01/2024")
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	repo.AssertExpectations(t)
}

func TestComputeResults(t *testing.T) {
	repo := new(mocks.MockLineItemRepo)
	repo.On("ResultInputs", mock.Anything, int64(1)).Return([]port.ResultInput{
		{ID: 1, VlItem: "100,00", VlDesc: "10,00", Aliquota: strPtr("17%")},
		{ID: 2, VlItem: "50,00", VlDesc: "", Aliquota: strPtr("12%")},
		{ID: 3, VlItem: "80,00", VlDesc: "0,00", Aliquota: strPtr("ST")},
		{ID: 4, VlItem: "lixo", VlDesc: "", Aliquota: strPtr("17%")},
		{ID: 5, VlItem: "30,00", VlDesc: "", Aliquota: nil},
	}, nil)
	repo.On("UpdateResults", mock.Anything, []port.ResultUpdate{
		{ID: 1, Resultado: 15.3},
		{ID: 2, Resultado: 6},
	}).Return(nil)

	engine := NewResolutionEngine(repo, 5000)
	applied, skipped, err := engine.ComputeResults(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.Equal(t, 1, skipped)
	repo.AssertExpectations(t)
}

// Batch size must change only how many statements run, not which rows end
// up updated.
func TestApplyRates_BatchSizeIndependence(t *testing.T) {
	updates := make([]port.RateUpdate, 7)
	for i := range updates {
		updates[i] = port.RateUpdate{ID: int64(i + 1), Aliquota: "17%"}
	}

	for _, batch := range []int{2, 100} {
		repo := new(mocks.MockLineItemRepo)
		repo.On("LatestDtIni", mock.Anything, int64(1)).Return("01012024", nil)
		repo.On("UnratedMatches", mock.Anything, int64(1), true).Return(updates, nil)

		var got []port.RateUpdate
		repo.On("UpdateRates", mock.Anything, mock.AnythingOfType("[]port.RateUpdate")).
			Run(func(args mock.Arguments) {
				got = append(got, args.Get(1).([]port.RateUpdate)...)
			}).Return(nil)

		engine := NewResolutionEngine(repo, batch)
		applied, err := engine.ResolveBase(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 7, applied)
		assert.Equal(t, updates, got, "batch=%d", batch)

		wantCalls := (len(updates) + batch - 1) / batch
		repo.AssertNumberOfCalls(t, "UpdateRates", wantCalls)
	}
}

func TestCategoriaForRate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ST", "ST"},
		{"isento", "ST"},
		{"0", "ST"},
		{"17%", "20RegraGeral"},
		{"12%", "20RegraGeral"},
		{"4%", "20RegraGeral"},
		{"5.95%", "7CestaBasica"},
		{"4.20%", "7CestaBasica"},
		{"1.54%", "7CestaBasica"},
		{"10.20%", "12CestaBasica"},
		{"7.20%", "12CestaBasica"},
		{"2.63%", "12CestaBasica"},
		{"37.80%", "28BebidaAlcoolica"},
		{"30.39%", "28BebidaAlcoolica"},
		{"8.13%", "28BebidaAlcoolica"},
		{"25%", "regraGeral"},
		{"PAUTA", "regraGeral"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CategoriaForRate(tc.in), "rate %q", tc.in)
	}
}

