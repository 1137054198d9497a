package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
)

var (
	ErrImportEmptyFile   = errors.New("csv file is empty")
	ErrImportTooLarge    = errors.New("csv file exceeds maximum size")
	ErrImportBadHeaders  = errors.New("csv headers missing required columns")
	ErrImportTooManyRows = errors.New("csv exceeds maximum allowed rows")
)

var requiredImportColumns = []string{"title", "property_type", "city", "price"}

type ImportRowStatus string

const (
	ImportRowCreated ImportRowStatus = "created"
	ImportRowValid   ImportRowStatus = "valid"
	ImportRowFailed  ImportRowStatus = "failed"
)

type ImportRow struct {
	Line       int             `json:"line"`
	Title      string          `json:"title"`
	Slug       string          `json:"slug,omitempty"`
	Status     ImportRowStatus `json:"status"`
	Errors     []string        `json:"errors,omitempty"`
	PropertyID string          `json:"propertyId,omitempty"`
}

type ImportReport struct {
	DryRun    bool        `json:"dryRun"`
	FileKey   string      `json:"fileKey,omitempty"`
	TotalRows int         `json:"totalRows"`
	Created   int         `json:"created"`
	Failed    int         `json:"failed"`
	Rows      []ImportRow `json:"rows"`
}

type PropertyImportConfig struct {
	Bucket       string
	MaxRows      int
	MaxFileBytes int64
}

// PropertyImportService bulk-creates listings from a CSV export. Each row is
// validated on its own; a bad row never blocks the others.
type PropertyImportService struct {
	properties *PropertyService
	lookup     ports.PropertyRepository
	storage    ports.ObjectStorage
	logger     *zap.Logger
	bucket     string
	maxRows    int
	maxBytes   int64
	now        func() time.Time
}

func NewPropertyImportService(properties *PropertyService, lookup ports.PropertyRepository, storage ports.ObjectStorage, logger *zap.Logger, cfg PropertyImportConfig) *PropertyImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxRows := cfg.MaxRows
	if maxRows <= 0 {
		maxRows = 500
	}
	maxBytes := cfg.MaxFileBytes
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	return &PropertyImportService{
		properties: properties,
		lookup:     lookup,
		storage:    storage,
		logger:     logger,
		bucket:     cfg.Bucket,
		maxRows:    maxRows,
		maxBytes:   maxBytes,
		now:        time.Now,
	}
}

func (s *PropertyImportService) Import(ctx context.Context, filename string, contents []byte, dryRun bool) (*ImportReport, error) {
	if len(contents) == 0 {
		return nil, ErrImportEmptyFile
	}
	if int64(len(contents)) > s.maxBytes {
		return nil, ErrImportTooLarge
	}
	header, records, err := readCSV(contents)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrImportEmptyFile
	}
	if len(records) > s.maxRows {
		return nil, ErrImportTooManyRows
	}
	if missing := missingColumns(header, requiredImportColumns); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrImportBadHeaders, strings.Join(missing, ", "))
	}

	report := &ImportReport{DryRun: dryRun, TotalRows: len(records), Rows: make([]ImportRow, 0, len(records))}
	if !dryRun {
		report.FileKey = s.archive(ctx, filename, contents)
	}

	seen := make(map[string]int)
	for _, record := range records {
		line := record.line
		values := rowValues(header, record.fields)
		row := ImportRow{Line: line, Title: values["title"]}

		input, problems := propertyInputFromRow(values)
		if len(problems) == 0 {
			normalized, slug, err := normalizePropertyInput(input)
			if err != nil {
				problems = append(problems, strings.TrimPrefix(err.Error(), ErrValidation.Error()+": "))
			} else {
				input = normalized
				row.Slug = slug
				problems = append(problems, s.slugProblems(ctx, slug, line, seen)...)
			}
		}

		switch {
		case len(problems) > 0:
			row.Status = ImportRowFailed
			row.Errors = problems
		case dryRun:
			row.Status = ImportRowValid
		default:
			property, err := s.properties.Create(ctx, input)
			switch {
			case errors.Is(err, ErrSlugTaken) || errors.Is(err, ErrValidation):
				row.Status = ImportRowFailed
				row.Errors = []string{err.Error()}
			case err != nil:
				s.logger.Error("import row not saved", zap.Int("line", line), zap.String("slug", row.Slug), zap.Error(err))
				row.Status = ImportRowFailed
				row.Errors = []string{"listing could not be saved, retry this row"}
			default:
				row.Status = ImportRowCreated
				row.PropertyID = property.ID.String()
			}
		}

		if row.Status == ImportRowFailed {
			report.Failed++
		} else if row.Status == ImportRowCreated {
			report.Created++
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

func (s *PropertyImportService) slugProblems(ctx context.Context, slug string, line int, seen map[string]int) []string {
	if prev, ok := seen[slug]; ok {
		return []string{fmt.Sprintf("duplicates the listing on line %d", prev)}
	}
	seen[slug] = line
	if _, err := s.lookup.FindBySlug(ctx, slug, false); err == nil {
		return []string{"a listing with this title and city already exists"}
	} else if !isNotFound(err) {
		s.logger.Warn("import slug lookup failed", zap.String("slug", slug), zap.Error(err))
	}
	return nil
}

// archive keeps the uploaded file next to the listing media. Failures are
// logged and the import continues.
func (s *PropertyImportService) archive(ctx context.Context, filename string, contents []byte) string {
	if s.storage == nil || s.bucket == "" {
		return ""
	}
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == "/" || name == "" {
		name = "properties.csv"
	}
	key := fmt.Sprintf("imports/properties/%s_%s", s.now().UTC().Format("20060102T150405Z"), strings.ReplaceAll(name, " ", "_"))
	if _, err := s.storage.Upload(ctx, s.bucket, key, "text/csv", bytes.NewReader(contents), int64(len(contents))); err != nil {
		s.logger.Warn("archive property import failed", zap.String("object", key), zap.Error(err))
		return ""
	}
	return key
}

func propertyInputFromRow(values map[string]string) (domain.PropertyInput, []string) {
	var problems []string
	input := domain.PropertyInput{
		Title:         values["title"],
		Description:   optionalValue(values["description"]),
		PropertyType:  domain.PropertyType(strings.ToLower(values["property_type"])),
		City:          values["city"],
		Address:       optionalValue(values["address"]),
		DeveloperName: optionalValue(values["developer_name"]),
		Currency:      values["currency"],
	}

	price, err := decimal.NewFromString(strings.ReplaceAll(values["price"], ",", ""))
	if err != nil {
		problems = append(problems, "price must be a number")
	}
	input.Price = price

	counts := []struct {
		column string
		dst    **int
	}{
		{"bedrooms", &input.Bedrooms},
		{"bathrooms", &input.Bathrooms},
		{"area_sqft", &input.AreaSqft},
	}
	for _, c := range counts {
		raw := values[c.column]
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			problems = append(problems, c.column+" must be a whole number")
			continue
		}
		*c.dst = &n
	}

	flags := []struct {
		column string
		dst    *bool
	}{
		{"featured", &input.Featured},
		{"published", &input.Published},
	}
	for _, f := range flags {
		raw := values[f.column]
		if raw == "" {
			continue
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, f.column+" must be true or false")
			continue
		}
		*f.dst = b
	}
	return input, problems
}

type csvRecord struct {
	line   int
	fields []string
}

func readCSV(contents []byte) ([]string, []csvRecord, error) {
	reader := csv.NewReader(bytes.NewReader(contents))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrImportEmptyFile
		}
		return nil, nil, validationError("malformed csv: %v", err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	var rows []csvRecord
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, validationError("malformed csv: %v", err)
		}
		if isBlankRecord(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, csvRecord{line: line, fields: record})
	}
	return header, rows, nil
}

func missingColumns(header, required []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

func rowValues(header, record []string) map[string]string {
	out := make(map[string]string, len(header))
	for i, key := range header {
		if i < len(record) {
			out[key] = strings.TrimSpace(record[i])
		}
	}
	return out
}

func isBlankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func optionalValue(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
