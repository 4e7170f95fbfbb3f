// Package ingest turns parsed spreadsheet rows into hierarchy nodes and
// immutable ledger entries, one batch per imported file.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diwan-dev/diwan/internal/hierarchy"
	"github.com/diwan-dev/diwan/internal/id"
	"github.com/diwan-dev/diwan/internal/importer"
	"github.com/diwan-dev/diwan/internal/metrics"
	"github.com/diwan-dev/diwan/internal/model"
)

// Store is the persistence surface the ingester needs. *sqlite.DB
// satisfies it; tests may use a fresh store per test.
type Store interface {
	hierarchy.NodeStore
	FindOrCreateDirectorate(ctx context.Context, name string) (model.Directorate, error)
	FindOrCreateOffice(ctx context.Context, directorateID int64, name string) (model.Office, error)
	AppendEntries(ctx context.Context, entries []model.LedgerEntry) error
	NextBatchSeq(ctx context.Context, year, month int) (int, error)
	InsertBatch(ctx context.Context, b model.ImportBatch) error
}

// DefaultOffice is used when an import names no office.
const DefaultOffice = "Default Office"

// Service ingests parsed rows.
type Service struct {
	store    Store
	resolver *hierarchy.Resolver
	log      zerolog.Logger
}

// NewService creates an ingest Service.
func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		resolver: hierarchy.NewResolver(store),
		log:      log,
	}
}

// Params describes one import: where the rows came from and which
// reporting month they cover.
type Params struct {
	FileName    string
	Directorate string
	Office      string // empty = DefaultOffice
	Month       int
	Year        int
	Rows        *importer.ParseResult
}

// Ingest records one parsed workbook as a batch of ledger entries, all
// dated the first day of the reporting month. Non-positive hierarchy
// amounts are dropped and counted, never fatal.
func (s *Service) Ingest(ctx context.Context, p Params) (model.ImportBatch, error) {
	if p.Month < 1 || p.Month > 12 {
		return model.ImportBatch{}, fmt.Errorf("month %d out of range", p.Month)
	}
	if p.Directorate == "" {
		return model.ImportBatch{}, fmt.Errorf("directorate name is required")
	}

	dir, err := s.store.FindOrCreateDirectorate(ctx, p.Directorate)
	if err != nil {
		return model.ImportBatch{}, err
	}
	officeName := p.Office
	if officeName == "" {
		officeName = DefaultOffice
	}
	office, err := s.store.FindOrCreateOffice(ctx, dir.ID, officeName)
	if err != nil {
		return model.ImportBatch{}, err
	}

	date := model.MonthStart(p.Year, p.Month)
	skipped := p.Rows.Skipped
	var entries []model.LedgerEntry

	for _, row := range p.Rows.Hierarchy {
		if !row.Amount.IsPositive() {
			skipped++
			continue
		}
		ks, err := s.resolver.Resolve(ctx, row.Identifier, row.Name)
		if err != nil {
			// A malformed identifier is one bad row in a big sheet: drop
			// and count. Store failures stay fatal.
			if errors.Is(err, hierarchy.ErrInvalidIdentifier) {
				skipped++
				continue
			}
			return model.ImportBatch{}, err
		}
		entries = append(entries, model.LedgerEntry{
			OfficeID:      office.ID,
			DirectorateID: dir.ID,
			LeafKey:       ks.Type,
			Flow:          model.FlowValue,
			Amount:        row.Amount,
			Date:          date,
		})
	}

	for _, row := range p.Rows.Accounts {
		if row.Debit.IsNegative() || row.Credit.IsNegative() {
			skipped++
			continue
		}
		if row.Debit.IsPositive() {
			entries = append(entries, model.LedgerEntry{
				OfficeID:      office.ID,
				DirectorateID: dir.ID,
				Account:       row.Name,
				Flow:          model.FlowDebit,
				Amount:        row.Debit,
				Date:          date,
			})
		}
		if row.Credit.IsPositive() {
			entries = append(entries, model.LedgerEntry{
				OfficeID:      office.ID,
				DirectorateID: dir.ID,
				Account:       row.Name,
				Flow:          model.FlowCredit,
				Amount:        row.Credit,
				Date:          date,
			})
		}
	}

	seq, err := s.store.NextBatchSeq(ctx, p.Year, p.Month)
	if err != nil {
		return model.ImportBatch{}, err
	}
	batch := model.ImportBatch{
		ID:          uuid.NewString(),
		Number:      id.FormatBatchNumber(p.Year, p.Month, seq),
		FileName:    p.FileName,
		Directorate: p.Directorate,
		Month:       p.Month,
		Year:        p.Year,
		Imported:    len(entries),
		Skipped:     skipped,
		Status:      model.BatchImported,
	}

	for i := range entries {
		entries[i].BatchID = batch.ID
	}
	if err := s.store.AppendEntries(ctx, entries); err != nil {
		return model.ImportBatch{}, err
	}
	if err := s.store.InsertBatch(ctx, batch); err != nil {
		return model.ImportBatch{}, err
	}

	metrics.EntriesIngested.Add(float64(len(entries)))
	metrics.RowsSkipped.Add(float64(skipped))
	metrics.BatchesImported.Inc()

	s.log.Info().
		Str("batch", batch.Number).
		Str("file", batch.FileName).
		Str("directorate", batch.Directorate).
		Int("imported", batch.Imported).
		Int("skipped", batch.Skipped).
		Msg("batch ingested")

	return batch, nil
}
