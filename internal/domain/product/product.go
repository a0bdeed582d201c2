package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase.
type Product struct {
	ID          int64
	SKU         string
	Name        string
	Price       decimal.Decimal
	SalePercent int
	Capacity    string
	Color       string
	Line        string
	Category    string
	// SalePrice is the displayed price after the catalog sale percentage,
	// rounded to whole currency units.
	SalePrice decimal.Decimal
	// Image is the primary image filename (lowest-id image row), empty when
	// the product has no images.
	Image string
}

// Sort enumerates the supported catalog orderings.
type Sort string

const (
	// SortFeatured orders newest products first.
	SortFeatured Sort = "featured"
	// SortPriceAsc orders by discounted price, cheapest first.
	SortPriceAsc Sort = "price_asc"
	// SortPriceDesc orders by discounted price, most expensive first.
	SortPriceDesc Sort = "price_desc"
)

// ParseSort maps a request parameter to a known Sort, defaulting to featured.
func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortPriceAsc, SortPriceDesc:
		return Sort(s)
	default:
		return SortFeatured
	}
}

// ListParams filters and orders a catalog listing.
type ListParams struct {
	Category string
	Line     string
	Sort     Sort
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context, params ListParams) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
}
