// Command seed-db loads demo catalog data, discount codes, and a demo user
// with addresses, and binds a demo session token in Redis so the API is
// usable right after startup.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/topzone/storefront/internal/storage/postgres"
)

type productJSON struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	SalePercent int             `json:"sale_percent"`
	Capacity    string          `json:"capacity"`
	Color       string          `json:"color"`
	Line        string          `json:"line"`
	Category    string          `json:"category"`
	Images      []string        `json:"images"`
}

func main() {
	var (
		databaseURL  string
		redisURL     string
		productsFile string
		sessionToken string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&redisURL, "redis-url", "", "Redis URL for the demo session binding (or REDIS_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&sessionToken, "session-token", "demo-session", "session token to bind to the demo user")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if redisURL == "" {
		redisURL = os.Getenv("REDIS_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, redisURL, productsFile, sessionToken); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, redisURL, productsFile, sessionToken string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedDiscountCodes(ctx, pool); err != nil {
		return errors.Wrap(err, "seed discount codes")
	}

	userID, err := seedDemoUser(ctx, pool)
	if err != nil {
		return errors.Wrap(err, "seed demo user")
	}

	if redisURL == "" {
		slog.Info("no redis URL given, skipping session binding")
		return nil
	}
	if err := bindDemoSession(ctx, redisURL, sessionToken, userID); err != nil {
		return errors.Wrap(err, "bind demo session")
	}

	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	const upsertProduct = `
INSERT INTO products (sku, name, price, sale_percent, capacity, color, line, category)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    sale_percent = EXCLUDED.sale_percent,
    capacity = EXCLUDED.capacity,
    color = EXCLUDED.color,
    line = EXCLUDED.line,
    category = EXCLUDED.category
RETURNING id`

	const insertImage = `
INSERT INTO product_images (product_id, filename)
SELECT $1, $2
WHERE NOT EXISTS (
    SELECT 1 FROM product_images WHERE product_id = $1 AND filename = $2
)`

	for _, p := range products {
		var productID int64
		err := pool.QueryRow(ctx, upsertProduct,
			p.SKU, p.Name, p.Price, p.SalePercent, p.Capacity, p.Color, p.Line, p.Category,
		).Scan(&productID)
		if err != nil {
			return errors.Wrapf(err, "upsert product %s", p.SKU)
		}

		for _, img := range p.Images {
			if _, err := pool.Exec(ctx, insertImage, productID, img); err != nil {
				return errors.Wrapf(err, "insert image %s for product %s", img, p.SKU)
			}
		}

		slog.Info("upserted product", slog.String("sku", p.SKU), slog.String("name", p.Name))
	}

	return nil
}

type codeSeed struct {
	code        string
	percent     string
	minOrder    string
	maxUses     int
	days        int
	description string
}

func seedDiscountCodes(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding discount codes")

	codes := []codeSeed{
		{code: "SALE10", percent: "10", minOrder: "10000000", maxUses: 100, days: 30, description: "10% off orders from 10,000,000"},
		{code: "VIP20", percent: "20", minOrder: "25000000", maxUses: 10, days: 14, description: "20% off orders from 25,000,000"},
		{code: "WELCOME5", percent: "5", minOrder: "0", maxUses: 1000, days: 90, description: "5% off your first order"},
		{code: "EXPIRED15", percent: "15", minOrder: "0", maxUses: 100, days: -1, description: "Past promotion, kept for testing"},
	}

	const upsertCode = `
INSERT INTO discount_codes (code, active, percent, min_order, max_uses, uses, starts_on, ends_on, description)
VALUES ($1, TRUE, $2, $3, $4, 0, $5, $6, $7)
ON CONFLICT (code) DO UPDATE SET
    active = TRUE,
    percent = EXCLUDED.percent,
    min_order = EXCLUDED.min_order,
    max_uses = EXCLUDED.max_uses,
    starts_on = EXCLUDED.starts_on,
    ends_on = EXCLUDED.ends_on,
    description = EXCLUDED.description`

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, c := range codes {
		startsOn := today.AddDate(0, 0, -30)
		endsOn := today.AddDate(0, 0, c.days)
		if _, err := pool.Exec(ctx, upsertCode,
			c.code, c.percent, c.minOrder, c.maxUses, startsOn, endsOn, c.description,
		); err != nil {
			return errors.Wrapf(err, "upsert discount code %s", c.code)
		}

		slog.Info("upserted discount code", slog.String("code", c.code), slog.String("description", c.description))
	}

	return nil
}

func seedDemoUser(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	slog.Info("seeding demo user")

	const upsertUser = `
INSERT INTO users (email, full_name)
VALUES ($1, $2)
ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name
RETURNING id`

	var userID int64
	if err := pool.QueryRow(ctx, upsertUser, "demo@example.com", "Demo Customer").Scan(&userID); err != nil {
		return 0, errors.Wrap(err, "upsert demo user")
	}

	const insertAddress = `
INSERT INTO addresses (user_id, recipient, address_line, phone)
SELECT $1, $2, $3, $4
WHERE NOT EXISTS (
    SELECT 1 FROM addresses WHERE user_id = $1 AND address_line = $3
)`

	addresses := []struct {
		recipient, line, phone string
	}{
		{"Demo Customer", "12 Nguyen Hue, District 1, Ho Chi Minh City", "0901234567"},
		{"Demo Customer", "45 Tran Phu, Ha Dong, Hanoi", "0907654321"},
	}
	for _, a := range addresses {
		if _, err := pool.Exec(ctx, insertAddress, userID, a.recipient, a.line, a.phone); err != nil {
			return 0, errors.Wrapf(err, "insert address %q", a.line)
		}
	}

	slog.Info("seeded demo user", slog.Int64("user_id", userID))
	return userID, nil
}

func bindDemoSession(ctx context.Context, redisURL, token string, userID int64) error {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return errors.Wrap(err, "parse redis URL")
	}
	client := goredis.NewClient(opts)
	defer client.Close()

	if err := client.Set(ctx, "session:"+token, strconv.FormatInt(userID, 10), 0).Err(); err != nil {
		return errors.Wrap(err, "set session binding")
	}

	slog.Info("bound demo session", slog.String("token", token), slog.Int64("user_id", userID))
	return nil
}
