package xlsxport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReportWriter(t *testing.T) {
	w, err := NewReportWriter()
	require.NoError(t, err)

	require.NoError(t, w.WriteTitle("EMPRESA TESTE LTDA", "Período: 01/01/2024 a 31/01/2024",
		[]string{"id", "produto", "vl_item"}))
	require.NoError(t, w.WriteRow([]interface{}{int64(1), "ARROZ BRANCO", "100,00"}))
	require.NoError(t, w.WriteRow([]interface{}{int64(2), "SAL", "20,00"}))

	var buf bytes.Buffer
	require.NoError(t, w.Flush(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	assert.Equal(t, "Relatório", sheet)

	a1, _ := f.GetCellValue(sheet, "A1")
	assert.Equal(t, "EMPRESA TESTE LTDA", a1)
	a2, _ := f.GetCellValue(sheet, "A2")
	assert.Equal(t, "Período: 01/01/2024 a 31/01/2024", a2)
	b3, _ := f.GetCellValue(sheet, "B3")
	assert.Equal(t, "produto", b3)
	b4, _ := f.GetCellValue(sheet, "B4")
	assert.Equal(t, "ARROZ BRANCO", b4)
	c5, _ := f.GetCellValue(sheet, "C5")
	assert.Equal(t, "20,00", c5)

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}
