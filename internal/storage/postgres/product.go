package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/topzone/storefront/internal/domain/product"
)

const (
	// The primary image is the product's lowest-id image row; the displayed
	// price applies the catalog sale percentage rounded to whole units.
	productColumns = `p.id, p.sku, p.name, p.price, p.sale_percent, p.capacity, p.color, p.line, p.category,
		ROUND(p.price * (100 - p.sale_percent) / 100.0) AS sale_price,
		COALESCE(img.filename, '') AS image`

	productJoins = `FROM products p
		LEFT JOIN (
			SELECT product_id, MIN(id) AS min_id
			FROM product_images
			GROUP BY product_id
		) pm ON p.id = pm.product_id
		LEFT JOIN product_images img ON img.id = pm.min_id`

	listProductsSQL = `SELECT ` + productColumns + ` ` + productJoins + `
		WHERE ($1 = '' OR p.category = $1) AND ($2 = '' OR p.line = $2)`

	getProductByIDSQL = `SELECT ` + productColumns + ` ` + productJoins + `
		WHERE p.id = $1`
)

// orderings whitelists the ORDER BY clause per sort key. User input never
// reaches the SQL text directly.
var orderings = map[product.Sort]string{
	product.SortFeatured:  "p.id DESC",
	product.SortPriceAsc:  "sale_price ASC",
	product.SortPriceDesc: "sale_price DESC",
}

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	db DB
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(db DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns catalog products matching the params.
func (r *ProductRepository) List(ctx context.Context, params product.ListParams) ([]product.Product, error) {
	orderBy, ok := orderings[params.Sort]
	if !ok {
		orderBy = orderings[product.SortFeatured]
	}

	rows, err := r.db.Query(ctx, listProductsSQL+" ORDER BY "+orderBy, params.Category, params.Line)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	rows, err := r.db.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return &p, nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		out         product.Product
		price       decimal.Decimal
		salePercent int32
		salePrice   decimal.Decimal
	)
	err := row.Scan(
		&out.ID, &out.SKU, &out.Name, &price, &salePercent,
		&out.Capacity, &out.Color, &out.Line, &out.Category,
		&salePrice, &out.Image,
	)
	out.Price = price
	out.SalePercent = int(salePercent)
	out.SalePrice = salePrice
	return out, err
}
