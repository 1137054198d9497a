package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
)

type takenSlugRepo struct {
	fakePropertyRepo
	taken string
}

func (r *takenSlugRepo) FindBySlug(ctx context.Context, slug string, publicOnly bool) (*domain.Property, error) {
	if slug == r.taken {
		return &domain.Property{ID: uuid.New(), Slug: slug}, nil
	}
	return nil, sql.ErrNoRows
}

type flakyPropertyRepo struct {
	takenSlugRepo
	failSlug string
}

func (r *flakyPropertyRepo) Create(ctx context.Context, input domain.PropertyInput, slug string) (*domain.Property, error) {
	if slug == r.failSlug {
		return nil, errors.New("connection reset by peer")
	}
	return r.takenSlugRepo.Create(ctx, input, slug)
}

const propertyCSV = `Title,Property_Type,City,Price,Bedrooms,Published
Palm Villa,villa,Dubai,"4,500,000",5,true
Creek Loft,apartment,Dubai,abc,2,false
Palm Villa,villa,Dubai,4200000,4,true
Old Tower,office,Sharjah,900000,,false

Desert Plot,castle,Al Ain,100000,,true
`

func newImportFixture(taken string) (*PropertyImportService, *fakeStorage) {
	repo := &takenSlugRepo{taken: taken}
	storage := &fakeStorage{}
	properties := NewPropertyService(repo, storage, nil, "media")
	return NewPropertyImportService(properties, repo, storage, nil, PropertyImportConfig{Bucket: "media"}), storage
}

func TestPropertyImportCreatesValidRows(t *testing.T) {
	svc, storage := newImportFixture("old-tower-sharjah")

	report, err := svc.Import(context.Background(), "March listings.csv", []byte(propertyCSV), false)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if report.TotalRows != 5 || report.Created != 1 || report.Failed != 4 {
		t.Fatalf("unexpected totals %+v", report)
	}

	want := []ImportRowStatus{ImportRowCreated, ImportRowFailed, ImportRowFailed, ImportRowFailed, ImportRowFailed}
	for i, status := range want {
		if report.Rows[i].Status != status {
			t.Fatalf("row %d: expected %s, got %s (%v)", i, status, report.Rows[i].Status, report.Rows[i].Errors)
		}
	}
	if report.Rows[0].Slug != "palm-villa-dubai" || report.Rows[0].PropertyID == "" {
		t.Fatalf("unexpected first row %+v", report.Rows[0])
	}
	if !strings.Contains(strings.Join(report.Rows[2].Errors, ";"), "line 2") {
		t.Fatalf("expected duplicate row to point at line 2, got %v", report.Rows[2].Errors)
	}
	if report.Rows[4].Line != 7 {
		t.Fatalf("expected blank lines to keep file line numbers, got %d", report.Rows[4].Line)
	}

	if len(storage.uploaded) != 1 || !strings.HasSuffix(storage.uploaded[0].objectName, "_March_listings.csv") {
		t.Fatalf("expected archived csv, got %+v", storage.uploaded)
	}
	if report.FileKey == "" {
		t.Fatal("expected file key on report")
	}
}

func TestPropertyImportDryRunCreatesNothing(t *testing.T) {
	svc, storage := newImportFixture("")

	report, err := svc.Import(context.Background(), "listings.csv", []byte(propertyCSV), true)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if report.Created != 0 || report.Rows[0].Status != ImportRowValid || report.Rows[3].Status != ImportRowValid {
		t.Fatalf("unexpected dry run report %+v", report)
	}
	if len(storage.uploaded) != 0 {
		t.Fatal("dry run must not archive the file")
	}
}

func TestPropertyImportRejectsBadFiles(t *testing.T) {
	svc, _ := newImportFixture("")
	ctx := context.Background()

	if _, err := svc.Import(ctx, "x.csv", nil, true); !errors.Is(err, ErrImportEmptyFile) {
		t.Fatalf("expected ErrImportEmptyFile, got %v", err)
	}
	if _, err := svc.Import(ctx, "x.csv", []byte("title,city\n"), true); !errors.Is(err, ErrImportEmptyFile) {
		t.Fatalf("expected ErrImportEmptyFile for header only, got %v", err)
	}
	if _, err := svc.Import(ctx, "x.csv", []byte("title,city\nA,Dubai\n"), true); !errors.Is(err, ErrImportBadHeaders) {
		t.Fatalf("expected ErrImportBadHeaders, got %v", err)
	}

	svc.maxRows = 1
	if _, err := svc.Import(ctx, "x.csv", []byte(propertyCSV), true); !errors.Is(err, ErrImportTooManyRows) {
		t.Fatalf("expected ErrImportTooManyRows, got %v", err)
	}
}

func TestPropertyImportKeepsGoingAfterStoreFailure(t *testing.T) {
	repo := &flakyPropertyRepo{failSlug: "creek-loft-dubai"}
	storage := &fakeStorage{}
	properties := NewPropertyService(repo, storage, nil, "media")
	svc := NewPropertyImportService(properties, repo, storage, nil, PropertyImportConfig{Bucket: "media"})

	csv := "title,property_type,city,price\nCreek Loft,apartment,Dubai,900000\nHarbour House,villa,Dubai,3100000\n"
	report, err := svc.Import(context.Background(), "listings.csv", []byte(csv), false)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if report.Created != 1 || report.Failed != 1 {
		t.Fatalf("unexpected totals %+v", report)
	}
	if report.Rows[0].Status != ImportRowFailed || len(report.Rows[0].Errors) != 1 {
		t.Fatalf("expected first row to record the store failure, got %+v", report.Rows[0])
	}
	if report.Rows[1].Status != ImportRowCreated || report.Rows[1].PropertyID == "" {
		t.Fatalf("expected second row to be created, got %+v", report.Rows[1])
	}
	if report.FileKey == "" {
		t.Fatal("expected archived file key on partial import")
	}
}
