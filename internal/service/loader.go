package service

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/google/uuid"

	"spedflow/internal/domain"
	"spedflow/internal/port"
	"spedflow/internal/sped"
)

// LoadStats summarizes one file's staging pass.
type LoadStats struct {
	Arquivo      string
	Periodo      string
	DtIni        string
	DtFin        string
	Participants int
	Items        int
	Documents    int
	Lines        int
	Dangling     int
}

// Loader stages the registers of one SPED file. Inserts run per table in
// fixed-size chunks, one transaction per chunk, so a mid-file failure
// loses at most the chunk in flight.
type Loader struct {
	staging   port.StagingRepository
	batchSize int
	strict    bool
}

// NewLoader creates a Loader. batchSize bounds rows per insert transaction;
// strict turns dangling C170 references into fatal errors.
func NewLoader(staging port.StagingRepository, batchSize int, strict bool) *Loader {
	if batchSize <= 0 {
		batchSize = 3000
	}
	return &Loader{staging: staging, batchSize: batchSize, strict: strict}
}

// LoadFile reads, parses and stages one file for the company. The returned
// stats carry the period derived from the file's 0000 register.
func (l *Loader) LoadFile(ctx context.Context, empresaID int64, path string) (*LoadStats, error) {
	content, err := sped.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader.LoadFile: %w", err)
	}
	return l.LoadContent(ctx, empresaID, filepath.Base(path), content)
}

// LoadContent stages already-decoded file content under the given name.
func (l *Loader) LoadContent(ctx context.Context, empresaID int64, name, content string) (*LoadStats, error) {
	records, err := sped.Parse(content)
	if err != nil {
		return nil, err
	}

	stats := &LoadStats{Arquivo: name}

	var (
		header       *domain.PeriodHeader
		participants []port.Reg0150Row
		items        []port.Reg0200Row
		documents    []port.RegC100Row
		lines        []port.RegC170Row
		current      *port.RegC100Row
		filial       string
	)

	for _, rec := range records {
		switch r := rec.(type) {
		case sped.Reg0000:
			// Later 0000 registers in the same file are ignored; the
			// first one defines the period.
			if header != nil {
				continue
			}
			header = &domain.PeriodHeader{
				EmpresaID: empresaID,
				Periodo:   sped.PeriodFromDtIni(r.DtIni),
				DtIni:     r.DtIni,
				DtFin:     r.DtFin,
				Nome:      r.Nome,
				CNPJ:      r.CNPJ,
				Arquivo:   name,
			}
			filial = r.CNPJ
			stats.Periodo = header.Periodo
			stats.DtIni = r.DtIni
			stats.DtFin = r.DtFin
		case sped.Reg0150:
			participants = append(participants, port.Reg0150Row{
				EmpresaID: empresaID,
				Periodo:   stats.Periodo,
				CodPart:   r.CodPart,
				Nome:      r.Nome,
				CNPJ:      r.CNPJ,
			})
		case sped.Reg0200:
			items = append(items, port.Reg0200Row{
				EmpresaID: empresaID,
				Periodo:   stats.Periodo,
				CodItem:   r.CodItem,
				DescrItem: r.DescrItem,
				UnidInv:   r.UnidInv,
				TipoItem:  r.TipoItem,
				CodNCM:    r.CodNCM,
			})
		case sped.RegC100:
			doc := port.RegC100Row{
				ID:        uuid.New(),
				EmpresaID: empresaID,
				Periodo:   stats.Periodo,
				Filial:    filial,
				IndOper:   r.IndOper,
				IndEmit:   r.IndEmit,
				CodPart:   r.CodPart,
				CodMod:    r.CodMod,
				CodSit:    r.CodSit,
				Ser:       r.Ser,
				NumDoc:    r.NumDoc,
				ChvNfe:    r.ChvNfe,
				DtDoc:     r.DtDoc,
				VlDoc:     r.VlDoc,
			}
			documents = append(documents, doc)
			current = &documents[len(documents)-1]
		case sped.RegC170:
			if current == nil {
				if l.strict {
					return nil, &domain.DanglingReferenceError{File: name, Line: r.Line}
				}
				stats.Dangling++
				log.Printf("loader.LoadContent: C170 sem C100 pai (arquivo %s, linha %d); ignorando", name, r.Line)
				continue
			}
			lines = append(lines, port.RegC170Row{
				EmpresaID:  empresaID,
				Periodo:    stats.Periodo,
				IDC100:     current.ID,
				Filial:     current.Filial,
				IndOper:    current.IndOper,
				NumItem:    r.NumItem,
				CodItem:    r.CodItem,
				DescrCompl: r.DescrCompl,
				Qtd:        r.Qtd,
				Unid:       r.Unid,
				VlItem:     r.VlItem,
				VlDesc:     r.VlDesc,
				CST:        r.CST,
				CFOP:       r.CFOP,
				CodPart:    current.CodPart,
				NumDoc:     current.NumDoc,
				ChvNfe:     current.ChvNfe,
			})
		}
	}

	if header == nil {
		return nil, &domain.MalformedRecordError{Line: 1, Kind: "0000", Msg: "arquivo sem registro 0000"}
	}

	if err := l.staging.InsertHeaders(ctx, []domain.PeriodHeader{*header}); err != nil {
		return nil, fmt.Errorf("loader: inserindo 0000: %w", err)
	}
	if err := insertChunks(ctx, participants, l.batchSize, l.staging.InsertParticipants); err != nil {
		return nil, fmt.Errorf("loader: inserindo 0150: %w", err)
	}
	if err := insertChunks(ctx, items, l.batchSize, l.staging.InsertItems); err != nil {
		return nil, fmt.Errorf("loader: inserindo 0200: %w", err)
	}
	if err := insertChunks(ctx, documents, l.batchSize, l.staging.InsertDocuments); err != nil {
		return nil, fmt.Errorf("loader: inserindo C100: %w", err)
	}
	if err := insertChunks(ctx, lines, l.batchSize, l.staging.InsertLines); err != nil {
		return nil, fmt.Errorf("loader: inserindo C170: %w", err)
	}

	stats.Participants = len(participants)
	stats.Items = len(items)
	stats.Documents = len(documents)
	stats.Lines = len(lines)

	log.Printf("loader.LoadContent: %s periodo=%s 0150=%d 0200=%d C100=%d C170=%d dangling=%d",
		name, stats.Periodo, stats.Participants, stats.Items, stats.Documents, stats.Lines, stats.Dangling)
	return stats, nil
}

// insertChunks slices rows into batches and hands each batch to insert. An
// error reports how many batches had already committed.
func insertChunks[T any](ctx context.Context, rows []T, size int, insert func(context.Context, []T) error) error {
	for i := 0; i < len(rows); i += size {
		end := i + size
		if end > len(rows) {
			end = len(rows)
		}
		if err := insert(ctx, rows[i:end]); err != nil {
			return fmt.Errorf("lote %d (linhas %d-%d): %w", i/size+1, i+1, end, err)
		}
	}
	return nil
}
