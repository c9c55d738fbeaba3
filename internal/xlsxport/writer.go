// Package xlsxport writes the period report spreadsheet. Rows go through
// the excelize stream writer so large periods never materialize in memory.
package xlsxport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheet = "Relatório"

// ReportWriter streams one report sheet: two title rows, a header row and
// then data rows appended in order.
type ReportWriter struct {
	file   *excelize.File
	stream *excelize.StreamWriter
	row    int
}

// NewReportWriter opens a fresh workbook with the report sheet active.
func NewReportWriter() (*ReportWriter, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsxport: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsxport: %w", err)
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsxport: %w", err)
	}
	return &ReportWriter{file: f, stream: sw, row: 1}, nil
}

// WriteTitle writes the two title rows (company name and period label)
// followed by the column header row.
func (w *ReportWriter) WriteTitle(company, period string, columns []string) error {
	if err := w.writeRow([]interface{}{company}); err != nil {
		return err
	}
	if err := w.writeRow([]interface{}{period}); err != nil {
		return err
	}
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	return w.writeRow(header)
}

// WriteRow appends one data row.
func (w *ReportWriter) WriteRow(cells []interface{}) error {
	return w.writeRow(cells)
}

func (w *ReportWriter) writeRow(cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return fmt.Errorf("xlsxport: %w", err)
	}
	if err := w.stream.SetRow(cell, cells); err != nil {
		return fmt.Errorf("xlsxport: linha %d: %w", w.row, err)
	}
	w.row++
	return nil
}

// Flush finalizes the stream and writes the workbook to out.
func (w *ReportWriter) Flush(out io.Writer) error {
	if err := w.stream.Flush(); err != nil {
		return fmt.Errorf("xlsxport: %w", err)
	}
	if err := w.file.Write(out); err != nil {
		return fmt.Errorf("xlsxport: %w", err)
	}
	return w.file.Close()
}
