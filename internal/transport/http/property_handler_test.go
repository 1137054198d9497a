package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
)

func TestParsePropertyFilter(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/properties", nil)
	q := req.URL.Query()
	q.Set("city", "  Abu Dhabi ")
	q.Set("type", "Villa")
	q.Set("minPrice", "1250000.50")
	q.Set("maxPrice", "4000000")
	q.Set("limit", "10")
	q.Set("offset", "30")
	req.URL.RawQuery = q.Encode()
	c := e.NewContext(req, httptest.NewRecorder())

	filter, err := parsePropertyFilter(c)
	if err != nil {
		t.Fatalf("parsePropertyFilter returned error: %v", err)
	}
	if filter.City != "Abu Dhabi" {
		t.Fatalf("expected trimmed city, got %q", filter.City)
	}
	if filter.PropertyType != domain.PropertyTypeVilla {
		t.Fatalf("expected villa, got %q", filter.PropertyType)
	}
	if filter.MinPrice == nil || filter.MinPrice.String() != "1250000.5" {
		t.Fatalf("unexpected min price %v", filter.MinPrice)
	}
	if filter.MaxPrice == nil || filter.MaxPrice.String() != "4000000" {
		t.Fatalf("unexpected max price %v", filter.MaxPrice)
	}
	if filter.Limit != 10 || filter.Offset != 30 {
		t.Fatalf("unexpected pagination %d/%d", filter.Limit, filter.Offset)
	}
}

func TestParsePropertyFilterRejectsBadPrice(t *testing.T) {
	e := echo.New()
	for _, query := range []string{"minPrice=abc", "maxPrice=-5"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/properties?"+query, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if _, err := parsePropertyFilter(c); err == nil {
			t.Fatalf("expected error for %q", query)
		}
	}
}
