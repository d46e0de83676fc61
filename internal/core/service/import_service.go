package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
	"github.com/Michelc16/catalogo-online/internal/core/ports"
)

// ImportService is the bulk ingestion pipeline: parse a header-delimited
// CSV, validate each row independently, persist the valid subset, and
// report every failure with its row number. Partial success is the design:
// one malformed row never blocks the rows around it.
type ImportService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
}

func NewImportService(repo ports.ProductRepository, logger zerolog.Logger) *ImportService {
	return &ImportService{repo: repo, logger: logger}
}

// ImportProducts runs the pipeline. Only an unreadable header is a
// pipeline-level error; everything after that is per-row. Persistence is
// row-by-row (the document store offers no batch atomicity), and storage
// failures are recorded exactly like validation failures.
func (s *ImportService) ImportProducts(ctx context.Context, r io.Reader) (*domain.ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &domain.ProcessingError{Op: "read csv header", Err: err}
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	summary := &domain.ImportSummary{}
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			summary.Failures = append(summary.Failures, domain.ImportFailure{Row: row, Reason: err.Error()})
			continue
		}

		product, err := s.rowToProduct(columns, record)
		if err != nil {
			summary.Failures = append(summary.Failures, domain.ImportFailure{Row: row, Reason: err.Error()})
			continue
		}

		if _, err := s.repo.Create(ctx, product); err != nil {
			s.logger.Warn().Err(err).Int("row", row).Msg("import row persist failed")
			summary.Failures = append(summary.Failures, domain.ImportFailure{Row: row, Reason: "could not be stored"})
			continue
		}
		summary.Persisted++
	}

	s.logger.Info().
		Int("persisted", summary.Persisted).
		Int("failed", len(summary.Failures)).
		Msg("bulk import finished")

	return summary, nil
}

// rowToProduct maps a CSV record onto a validated product. Rows without the
// required name/price columns are rejected with an explicit reason rather
// than skipped silently.
func (s *ImportService) rowToProduct(columns map[string]int, record []string) (*domain.Product, error) {
	name, okName := cell(columns, record, "name")
	priceRaw, okPrice := cell(columns, record, "price")
	if !okName || !okPrice {
		return nil, errors.New("missing required name/price columns")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(priceRaw), 64)
	if err != nil {
		return nil, fmt.Errorf("price %q is not a number", strings.TrimSpace(priceRaw))
	}

	description, _ := cell(columns, record, "description")
	category, _ := cell(columns, record, "category")
	imageURL, _ := cell(columns, record, "image_url")

	now := time.Now().UTC()
	product := &domain.Product{
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	product.Normalize()
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// cell looks up a column value; ok is false when the column is absent from
// the header or the record is too short to contain it.
func cell(columns map[string]int, record []string, name string) (string, bool) {
	idx, ok := columns[name]
	if !ok || idx >= len(record) {
		return "", false
	}
	return record[idx], true
}
