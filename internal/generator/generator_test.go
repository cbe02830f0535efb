package generator

import (
	"context"
	"io"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retail-datagen/internal/config"
	"retail-datagen/internal/errors"
	"retail-datagen/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.GeneratorConfig {
	return config.GeneratorConfig{
		Customers:    50,
		Stores:       10,
		Transactions: 2000,
		SampleSize:   100,
		OutputDir:    "unused",
		Seed:         42,
	}
}

func newTestGenerator(t *testing.T, cfg config.GeneratorConfig, catalog Catalog) *Generator {
	t.Helper()
	g, err := New(cfg, catalog, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}

func TestNew_InvalidCatalog(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Catalog)
		want   string
	}{
		{
			name: "country without currency",
			mutate: func(c *Catalog) {
				c.Regions = append(c.Regions, Region{"Atlantis", []string{"Atlantis"}})
			},
			want: "Atlantis has no currency",
		},
		{
			name: "country in two regions",
			mutate: func(c *Catalog) {
				c.Regions[1].Countries = append(c.Regions[1].Countries, "USA")
			},
			want: "USA listed in both",
		},
		{
			name:   "no products",
			mutate: func(c *Catalog) { c.Products = nil },
			want:   "no products",
		},
		{
			name:   "no payment methods",
			mutate: func(c *Catalog) { c.PaymentMethods = nil },
			want:   "no payment methods",
		},
		{
			name:   "segment without loyalty rate",
			mutate: func(c *Catalog) { c.LoyaltyRate = map[models.Segment]float64{models.SegmentPremium: 0.85} },
			want:   "Standard has no loyalty rate",
		},
		{
			name: "reversed signup range",
			mutate: func(c *Catalog) {
				c.SignupRange = DateRange{day(2022, 1, 1), day(2021, 1, 1)}
			},
			want: "signup date range",
		},
		{
			name:   "zero quantity",
			mutate: func(c *Catalog) { c.MinQuantity = 0 },
			want:   "quantity range",
		},
		{
			name: "zero store size weight",
			mutate: func(c *Catalog) {
				c.StoreSizes = []Weighted[models.StoreSize]{{models.StoreSizeSmall, 0}}
			},
			want: "store sizes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultCatalog()
			tt.mutate(&c)

			_, err := New(testConfig(), c, testLogger())
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.CodeOf(err) != errors.CodeConfiguration {
				t.Errorf("code = %s, want %s", errors.CodeOf(err), errors.CodeConfiguration)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Stores = 0

	_, err := New(cfg, DefaultCatalog(), testLogger())
	if err == nil {
		t.Fatal("expected error for zero stores")
	}
	if errors.CodeOf(err) != errors.CodeConfiguration {
		t.Errorf("code = %s, want %s", errors.CodeOf(err), errors.CodeConfiguration)
	}
	if !strings.Contains(err.Error(), "store count") {
		t.Errorf("error = %q", err)
	}
}

func TestGenerate_Counts(t *testing.T) {
	cfg := testConfig()
	g := newTestGenerator(t, cfg, DefaultCatalog())

	ds, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(ds.Customers) != cfg.Customers {
		t.Errorf("customers = %d, want %d", len(ds.Customers), cfg.Customers)
	}
	if len(ds.Stores) != cfg.Stores {
		t.Errorf("stores = %d, want %d", len(ds.Stores), cfg.Stores)
	}
	if len(ds.Transactions) != cfg.Transactions {
		t.Errorf("transactions = %d, want %d", len(ds.Transactions), cfg.Transactions)
	}
}

func TestGenerate_SameSeedSameDataset(t *testing.T) {
	a, err := newTestGenerator(t, testConfig(), DefaultCatalog()).Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	b, err := newTestGenerator(t, testConfig(), DefaultCatalog()).Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different datasets")
	}

	other := testConfig()
	other.Seed = 43
	c, err := newTestGenerator(t, other, DefaultCatalog()).Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if c.Transactions[0].TransactionID == a.Transactions[0].TransactionID {
		t.Error("different seeds produced the same first transaction id")
	}
}

func TestCustomers(t *testing.T) {
	g := newTestGenerator(t, testConfig(), DefaultCatalog())
	catalog := DefaultCatalog()

	customers, err := g.Customers(200)
	if err != nil {
		t.Fatal(err)
	}

	if customers[0].CustomerID != "C001" || customers[0].CustomerName != "Customer_1" {
		t.Errorf("first customer = %+v", customers[0])
	}
	if customers[199].CustomerID != "C200" {
		t.Errorf("last customer id = %s", customers[199].CustomerID)
	}

	for _, c := range customers {
		if c.SignupDate.Before(catalog.SignupRange.Start) || c.SignupDate.After(catalog.SignupRange.End) {
			t.Errorf("%s signup %v outside range", c.CustomerID, c.SignupDate)
		}
		if c.LoyaltyProgramMember != models.Yes && c.LoyaltyProgramMember != models.No {
			t.Errorf("%s loyalty flag = %q", c.CustomerID, c.LoyaltyProgramMember)
		}
		if c.CustomerSegment != models.SegmentPremium && c.CustomerSegment != models.SegmentStandard {
			t.Errorf("%s segment = %q", c.CustomerID, c.CustomerSegment)
		}
	}
}

func TestCustomers_LoyaltyBySegment(t *testing.T) {
	tests := []struct {
		segment models.Segment
		want    float64
	}{
		{models.SegmentPremium, 0.85},
		{models.SegmentStandard, 0.40},
	}

	for _, tt := range tests {
		t.Run(string(tt.segment), func(t *testing.T) {
			catalog := DefaultCatalog()
			catalog.Segments = []models.Segment{tt.segment}
			g := newTestGenerator(t, testConfig(), catalog)

			customers, err := g.Customers(10000)
			if err != nil {
				t.Fatal(err)
			}

			members := 0
			for _, c := range customers {
				if c.LoyaltyProgramMember.Bool() {
					members++
				}
			}
			got := float64(members) / float64(len(customers))
			if math.Abs(got-tt.want) > 0.02 {
				t.Errorf("loyalty rate = %.3f, want %.2f ± 0.02", got, tt.want)
			}
		})
	}
}

func TestStores_RegionAndCurrency(t *testing.T) {
	catalog := DefaultCatalog()
	g := newTestGenerator(t, testConfig(), catalog)

	stores, err := g.Stores(500)
	if err != nil {
		t.Fatal(err)
	}

	regionOf := make(map[string]string)
	for _, r := range catalog.Regions {
		for _, c := range r.Countries {
			regionOf[c] = r.Name
		}
	}

	for _, s := range stores {
		if s.Region != regionOf[s.Country] {
			t.Errorf("%s: region %q for country %q", s.StoreID, s.Region, s.Country)
		}
		if s.Currency != catalog.Currencies[s.Country] {
			t.Errorf("%s: currency %q for country %q", s.StoreID, s.Currency, s.Country)
		}
		if s.StoreOpenDate.Before(catalog.StoreOpenRange.Start) || s.StoreOpenDate.After(catalog.StoreOpenRange.End) {
			t.Errorf("%s: open date %v outside range", s.StoreID, s.StoreOpenDate)
		}
	}

	if stores[12].State != "State_3" {
		t.Errorf("State = %q, want State_3", stores[12].State)
	}
}

func TestStores_SizeMix(t *testing.T) {
	g := newTestGenerator(t, testConfig(), DefaultCatalog())

	stores, err := g.Stores(10000)
	if err != nil {
		t.Fatal(err)
	}

	counts := make(map[models.StoreSize]int)
	for _, s := range stores {
		counts[s.StoreSize]++
	}
	medium := float64(counts[models.StoreSizeMedium]) / float64(len(stores))
	if math.Abs(medium-0.6) > 0.03 {
		t.Errorf("medium share = %.3f, want 0.60 ± 0.03", medium)
	}
}

func TestTransactions_Invariants(t *testing.T) {
	catalog := DefaultCatalog()
	g := newTestGenerator(t, testConfig(), catalog)

	customers, err := g.Customers(20)
	if err != nil {
		t.Fatal(err)
	}
	stores, err := g.Stores(5)
	if err != nil {
		t.Fatal(err)
	}

	txs, err := g.Transactions(context.Background(), 5000, customers, stores)
	if err != nil {
		t.Fatal(err)
	}

	customerByID := make(map[string]models.Customer)
	for _, c := range customers {
		customerByID[c.CustomerID] = c
	}
	storeByID := make(map[string]models.Store)
	for _, s := range stores {
		storeByID[s.StoreID] = s
	}

	minPrice := decimal.NewFromFloat(catalog.MinUnitPrice)
	maxPrice := decimal.NewFromFloat(catalog.MaxUnitPrice)

	for _, tx := range txs {
		if _, err := uuid.Parse(tx.TransactionID); err != nil {
			t.Fatalf("TransactionID %q is not a uuid: %v", tx.TransactionID, err)
		}

		s, ok := storeByID[tx.StoreID]
		if !ok {
			t.Fatalf("unknown store %s", tx.StoreID)
		}
		if tx.Country != s.Country || tx.Region != s.Region || tx.Currency != s.Currency || tx.City != s.City {
			t.Errorf("%s: store fields do not match %s", tx.TransactionID, s.StoreID)
		}

		c, ok := customerByID[tx.CustomerID]
		if !ok {
			t.Fatalf("unknown customer %s", tx.CustomerID)
		}
		if tx.CustomerSegment != c.CustomerSegment || tx.AgeGroup != c.AgeGroup || tx.Gender != c.Gender {
			t.Errorf("%s: customer fields do not match %s", tx.TransactionID, c.CustomerID)
		}

		if tx.Quantity < 1 || tx.Quantity > 5 {
			t.Errorf("%s: quantity %d", tx.TransactionID, tx.Quantity)
		}
		if tx.UnitPrice.LessThan(minPrice) || tx.UnitPrice.GreaterThan(maxPrice) {
			t.Errorf("%s: unit price %s", tx.TransactionID, tx.UnitPrice)
		}
		want := tx.UnitPrice.Mul(decimal.NewFromInt(int64(tx.Quantity))).Round(2)
		if !tx.Price.Equal(want) {
			t.Errorf("%s: price %s, want %s", tx.TransactionID, tx.Price, want)
		}
		if tx.TransactionDate.Before(catalog.TransactionRange.Start) || tx.TransactionDate.After(catalog.TransactionRange.End) {
			t.Errorf("%s: date %v outside range", tx.TransactionID, tx.TransactionDate)
		}
	}
}

func TestTransactions_UniqueIDs(t *testing.T) {
	g := newTestGenerator(t, testConfig(), DefaultCatalog())
	customers, _ := g.Customers(10)
	stores, _ := g.Stores(10)

	txs, err := g.Transactions(context.Background(), 100_000, customers, stores)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]struct{}, len(txs))
	for _, tx := range txs {
		if _, dup := seen[tx.TransactionID]; dup {
			t.Fatalf("duplicate transaction id %s", tx.TransactionID)
		}
		seen[tx.TransactionID] = struct{}{}
	}
}

// Ids are read from the generator's seeded stream. A million raw draws stand in
// for a million-row Transactions run, which TestTransactions_UniqueIDs checks
// at a smaller size.
func TestTransactionIDStream_MillionUnique(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping million-id check in short mode")
	}

	r := NewRand(42)
	seen := make(map[uuid.UUID]struct{}, 1_000_000)
	for i := 0; i < 1_000_000; i++ {
		id, err := uuid.NewRandomFromReader(r)
		if err != nil {
			t.Fatal(err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s at draw %d", id, i)
		}
		seen[id] = struct{}{}
	}
}

func TestTransactions_EmptyInputs(t *testing.T) {
	g := newTestGenerator(t, testConfig(), DefaultCatalog())
	customers, _ := g.Customers(3)
	stores, _ := g.Stores(3)

	tests := []struct {
		name      string
		customers []models.Customer
		stores    []models.Store
	}{
		{"no customers", nil, stores},
		{"no stores", customers, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Transactions(context.Background(), 10, tt.customers, tt.stores)
			if errors.CodeOf(err) != errors.CodeConfiguration {
				t.Errorf("error = %v, want configuration error", err)
			}
		})
	}

	txs, err := g.Transactions(context.Background(), 0, nil, nil)
	if err != nil || len(txs) != 0 {
		t.Errorf("zero transactions = %d, %v", len(txs), err)
	}
}

func TestTransactions_Cancelled(t *testing.T) {
	g := newTestGenerator(t, testConfig(), DefaultCatalog())
	customers, _ := g.Customers(3)
	stores, _ := g.Stores(3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Transactions(ctx, 10, customers, stores); err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
