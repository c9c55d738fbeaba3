package sped

import (
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"spedflow/internal/domain"
)

// Scanner walks the lines of one SPED file and yields typed records in
// source order. It holds no external state, so Reset makes the sequence
// restartable and two passes over the same content yield identical records.
type Scanner struct {
	lines []string
	pos   int
}

// NewScanner creates a Scanner over already-decoded file content.
func NewScanner(content string) *Scanner {
	content = strings.TrimSpace(content)
	var lines []string
	if content != "" {
		lines = strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	}
	return &Scanner{lines: lines}
}

// Reset rewinds the scanner to the first line.
func (s *Scanner) Reset() { s.pos = 0 }

// Next returns the next recognized record. It skips unknown register tags
// and under-filled lines (with a warning), truncates overflowing lines, and
// returns (nil, nil) at end of input. A structurally invalid 0000 register
// yields a *domain.MalformedRecordError.
func (s *Scanner) Next() (Record, error) {
	for s.pos < len(s.lines) {
		lineNo := s.pos + 1
		raw := strings.TrimSpace(s.lines[s.pos])
		s.pos++

		if raw == "" {
			continue
		}

		// SPED lines open and close with a pipe, so the register tag is
		// the second split field.
		parts := strings.Split(raw, "|")
		if len(parts) < 3 {
			continue
		}
		kind := RecordKind(strings.ToUpper(parts[1]))

		min, known := minFields[kind]
		if !known {
			continue
		}
		if len(parts)-1 < min {
			log.Printf("sped.Scanner: linha %d (%s) com %d campos, esperado %d; ignorando",
				lineNo, kind, len(parts)-1, min)
			continue
		}

		switch kind {
		case Kind0000:
			rec := Reg0000{
				Line:  lineNo,
				DtIni: parts[4],
				DtFin: parts[5],
				Nome:  parts[6],
				CNPJ:  sanitizeCNPJ(parts[7]),
			}
			if err := validatePeriodRange(rec.DtIni, rec.DtFin); err != nil {
				return nil, &domain.MalformedRecordError{Line: lineNo, Kind: string(kind), Msg: err.Error()}
			}
			return rec, nil
		case Kind0150:
			return Reg0150{
				Line:    lineNo,
				CodPart: parts[2],
				Nome:    parts[3],
				CNPJ:    sanitizeCNPJ(parts[5]),
			}, nil
		case Kind0200:
			return Reg0200{
				Line:      lineNo,
				CodItem:   parts[2],
				DescrItem: parts[3],
				UnidInv:   parts[6],
				TipoItem:  parts[7],
				CodNCM:    parts[8],
			}, nil
		case KindC100:
			return RegC100{
				Line:    lineNo,
				IndOper: parts[2],
				IndEmit: parts[3],
				CodPart: parts[4],
				CodMod:  parts[5],
				CodSit:  parts[6],
				Ser:     parts[7],
				NumDoc:  parts[8],
				ChvNfe:  parts[9],
				DtDoc:   parts[10],
				VlDoc:   parts[12],
			}, nil
		case KindC170:
			return RegC170{
				Line:       lineNo,
				NumItem:    parts[2],
				CodItem:    parts[3],
				DescrCompl: parts[4],
				Qtd:        parts[5],
				Unid:       parts[6],
				VlItem:     parts[7],
				VlDesc:     parts[8],
				CST:        parts[10],
				CFOP:       parts[11],
			}, nil
		}
	}
	return nil, nil
}

// Parse consumes the whole scanner and returns the record sequence.
func Parse(content string) ([]Record, error) {
	sc := NewScanner(content)
	var records []Record
	for {
		rec, err := sc.Next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return records, nil
		}
		records = append(records, rec)
	}
}

// ReadFile reads a SPED file from disk. Files are UTF-8 best-effort:
// content that fails UTF-8 validation is decoded as ISO8859-1, the usual
// encoding of EFD ICMS exports.
func ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err == nil {
			raw = decoded
		}
	}
	return strings.TrimSpace(string(raw)), nil
}

func sanitizeCNPJ(s string) string {
	r := strings.NewReplacer(".", "", "/", "", "-", "")
	return r.Replace(strings.TrimSpace(s))
}
