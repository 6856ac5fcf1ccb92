package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/orderdesk/orderdesk/internal/domain/customer"
	"github.com/orderdesk/orderdesk/internal/domain/product"
	"github.com/orderdesk/orderdesk/internal/repository"
)

type customerJSON struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type productJSON struct {
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

func main() {
	var (
		databaseURL   string
		customersFile string
		productsFile  string
		apiKey        string
		apiKeyPepper  string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&customersFile, "customers-file", "db/seed/customers.json", "path to customers JSON file (optionally .gz)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file (optionally .gz)")
	flag.StringVar(&apiKey, "api-key", "", "API key to seed (or ORDERS_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or ORDERS_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("ORDERS_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or ORDERS_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("ORDERS_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, customersFile, productsFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, customersFile, productsFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedCustomers(ctx, pool, customersFile); err != nil {
		return errors.Wrap(err, "seed customers")
	}

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedAPIKey(ctx, pool, apiKey, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

// readSeedFile reads a JSON seed file, transparently decompressing files with
// a .gz suffix.
func readSeedFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open seed file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip reader")
		}
		defer gz.Close()
		r = gz
	}

	return io.ReadAll(r)
}

func seedCustomers(ctx context.Context, pool *pgxpool.Pool, path string) error {
	slog.Info("reading customers file", slog.String("path", path))

	data, err := readSeedFile(path)
	if err != nil {
		return err
	}

	var entries []customerJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return errors.Wrap(err, "parse customers JSON")
	}

	repo := repository.NewCustomerRepository(pool)
	slog.Info("inserting customers", slog.Int("count", len(entries)))

	for _, e := range entries {
		c := customer.Customer{Name: e.Name, Email: e.Email}
		if err := repo.Create(ctx, &c); err != nil {
			// Unique email violations mean the customer is already seeded.
			slog.Warn("skipping customer", slog.String("email", e.Email), slog.String("error", err.Error()))
			continue
		}
		slog.Info("inserted customer", slog.Int64("id", c.ID), slog.String("email", c.Email))
	}

	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, path string) error {
	slog.Info("reading products file", slog.String("path", path))

	data, err := readSeedFile(path)
	if err != nil {
		return err
	}

	var entries []productJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	repo := repository.NewProductRepository(pool)
	slog.Info("inserting products", slog.Int("count", len(entries)))

	for _, e := range entries {
		p := product.Product{Description: e.Description, Price: e.Price}
		if err := p.Validate(); err != nil {
			return errors.Wrapf(err, "invalid product %q", e.Description)
		}
		if err := repo.Create(ctx, &p); err != nil {
			return errors.Wrapf(err, "insert product %q", e.Description)
		}
		slog.Info("inserted product", slog.Int64("id", p.ID), slog.String("description", p.Description))
	}

	return nil
}

const upsertAPIKeySQL = `INSERT INTO api_keys (id, key_hash, name, scopes, active)
	VALUES ($1, $2, $3, $4, TRUE)
	ON CONFLICT (id) DO UPDATE SET key_hash = EXCLUDED.key_hash, active = TRUE`

func seedAPIKey(ctx context.Context, pool *pgxpool.Pool, apiKey, pepper string) error {
	slog.Info("seeding default API key")

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(apiKey))
	keyHash := hex.EncodeToString(mac.Sum(nil))

	_, err := pool.Exec(ctx, upsertAPIKeySQL, "default", keyHash, "Default test key", []string{"create_order"})
	if err != nil {
		return errors.Wrap(err, "upsert default API key")
	}

	slog.Info("upserted API key", slog.String("id", "default"))
	return nil
}
