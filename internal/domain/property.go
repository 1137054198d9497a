package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type PropertyType string

const (
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeVilla     PropertyType = "villa"
	PropertyTypeTownhouse PropertyType = "townhouse"
	PropertyTypeOffice    PropertyType = "office"
	PropertyTypeLand      PropertyType = "land"
	PropertyTypePenthouse PropertyType = "penthouse"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeVilla, PropertyTypeTownhouse, PropertyTypeOffice, PropertyTypeLand, PropertyTypePenthouse:
		return true
	}
	return false
}

type Property struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	Title         string          `db:"title" json:"title"`
	Slug          string          `db:"slug" json:"slug"`
	Description   *string         `db:"description" json:"description,omitempty"`
	PropertyType  PropertyType    `db:"property_type" json:"propertyType"`
	City          string          `db:"city" json:"city"`
	Address       *string         `db:"address" json:"address,omitempty"`
	DeveloperName *string         `db:"developer_name" json:"developerName,omitempty"`
	Price         decimal.Decimal `db:"price" json:"price"`
	Currency      string          `db:"currency" json:"currency"`
	Bedrooms      *int            `db:"bedrooms" json:"bedrooms,omitempty"`
	Bathrooms     *int            `db:"bathrooms" json:"bathrooms,omitempty"`
	AreaSqft      *int            `db:"area_sqft" json:"areaSqft,omitempty"`
	Gallery       pq.StringArray  `db:"gallery" json:"gallery"`
	Featured      bool            `db:"featured" json:"featured"`
	Published     bool            `db:"published" json:"published"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
	DeletedAt     *time.Time      `db:"deleted_at" json:"-"`
}

type PropertyInput struct {
	Title         string
	Description   *string
	PropertyType  PropertyType
	City          string
	Address       *string
	DeveloperName *string
	Price         decimal.Decimal
	Currency      string
	Bedrooms      *int
	Bathrooms     *int
	AreaSqft      *int
	Featured      bool
	Published     bool
}

type PropertyFilter struct {
	City         string
	PropertyType PropertyType
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	PublicOnly   bool
	Limit        int
	Offset       int
}
