package generator

import (
	"fmt"
	"time"

	"retail-datagen/internal/errors"
	"retail-datagen/internal/models"
)

type Region struct {
	Name      string
	Countries []string
}

// Catalog holds the fixed lookup tables and rates a dataset is drawn from.
// Slice order matters: it fixes the draw order and therefore the output for
// a given seed.
type Catalog struct {
	Regions        []Region
	Currencies     map[string]string
	Products       []models.Product
	PaymentMethods []string

	Segments   []models.Segment
	AgeGroups  []string
	Genders    []string
	StoreSizes []Weighted[models.StoreSize]

	LoyaltyRate    map[models.Segment]float64
	EmailOptInRate float64
	CampaignRate   float64

	SignupRange      DateRange
	StoreOpenRange   DateRange
	TransactionRange DateRange

	MinQuantity  int
	MaxQuantity  int
	MinUnitPrice float64
	MaxUnitPrice float64
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DefaultCatalog returns the reference retail tables.
func DefaultCatalog() Catalog {
	return Catalog{
		Regions: []Region{
			{"North America", []string{"USA", "Canada", "Mexico"}},
			{"Europe", []string{"UK", "Germany", "France", "Spain", "Italy", "Netherlands", "Sweden"}},
			{"Asia", []string{"India", "Japan", "China", "South Korea", "Singapore"}},
			{"South America", []string{"Brazil", "Argentina", "Chile"}},
			{"Africa", []string{"South Africa", "Nigeria", "Egypt"}},
			{"Oceania", []string{"Australia", "New Zealand"}},
		},
		Currencies: map[string]string{
			"USA": "USD", "Canada": "CAD", "Mexico": "MXN",
			"UK": "GBP", "Germany": "EUR", "France": "EUR", "Spain": "EUR", "Italy": "EUR", "Netherlands": "EUR", "Sweden": "SEK",
			"India": "INR", "Japan": "JPY", "China": "CNY", "South Korea": "KRW", "Singapore": "SGD",
			"Brazil": "BRL", "Argentina": "ARS", "Chile": "CLP",
			"South Africa": "ZAR", "Nigeria": "NGN", "Egypt": "EGP",
			"Australia": "AUD", "New Zealand": "NZD",
		},
		Products:       Products(25),
		PaymentMethods: []string{"Credit Card", "PayPal", "Bank Transfer", "Gift Card"},

		Segments:  []models.Segment{models.SegmentPremium, models.SegmentStandard},
		AgeGroups: []string{"20-29", "30-39", "40-49", "50-59"},
		Genders:   []string{"Male", "Female"},
		StoreSizes: []Weighted[models.StoreSize]{
			{models.StoreSizeSmall, 0.2},
			{models.StoreSizeMedium, 0.6},
			{models.StoreSizeLarge, 0.2},
		},

		LoyaltyRate: map[models.Segment]float64{
			models.SegmentPremium:  0.85,
			models.SegmentStandard: 0.40,
		},
		EmailOptInRate: 0.7,
		CampaignRate:   0.1,

		SignupRange:      DateRange{day(2010, 1, 1), day(2022, 12, 31)},
		StoreOpenRange:   DateRange{day(2000, 1, 1), day(2022, 12, 31)},
		TransactionRange: DateRange{day(2015, 1, 1), day(2025, 12, 31)},

		MinQuantity:  1,
		MaxQuantity:  5,
		MinUnitPrice: 50,
		MaxUnitPrice: 1500,
	}
}

// Products builds the product pool. Department, category and subcategory
// follow from the index alone.
func Products(n int) []models.Product {
	products := make([]models.Product, 0, n)
	for i := 1; i <= n; i++ {
		products = append(products, models.Product{
			ProductID:   fmt.Sprintf("P%03d", i),
			ProductName: fmt.Sprintf("Product_%d", i),
			Department:  fmt.Sprintf("Department_%d", i%3),
			Category:    fmt.Sprintf("Category_%d", i%5),
			SubCategory: fmt.Sprintf("SubCategory_%d", i%10),
		})
	}
	return products
}

// compiledCatalog is a Catalog that passed validation, with lookups built.
type compiledCatalog struct {
	Catalog
	countries  []string
	regionOf   map[string]string
	storeSizes *WeightedTable[models.StoreSize]
}

func (c Catalog) compile() (*compiledCatalog, error) {
	cc := &compiledCatalog{
		Catalog:  c,
		regionOf: make(map[string]string),
	}

	for _, region := range c.Regions {
		for _, country := range region.Countries {
			if prev, dup := cc.regionOf[country]; dup {
				return nil, errors.Configurationf("country %s listed in both %s and %s", country, prev, region.Name)
			}
			if _, ok := c.Currencies[country]; !ok {
				return nil, errors.Configurationf("country %s has no currency", country)
			}
			cc.regionOf[country] = region.Name
			cc.countries = append(cc.countries, country)
		}
	}

	if len(cc.countries) == 0 {
		return nil, errors.Configuration("catalog has no countries")
	}

	pools := []struct {
		name string
		size int
	}{
		{"products", len(c.Products)},
		{"payment methods", len(c.PaymentMethods)},
		{"segments", len(c.Segments)},
		{"age groups", len(c.AgeGroups)},
		{"genders", len(c.Genders)},
	}
	for _, p := range pools {
		if p.size == 0 {
			return nil, errors.Configurationf("catalog has no %s", p.name)
		}
	}

	for _, s := range c.Segments {
		if _, ok := c.LoyaltyRate[s]; !ok {
			return nil, errors.Configurationf("segment %s has no loyalty rate", s)
		}
	}

	for name, r := range map[string]DateRange{
		"signup":      c.SignupRange,
		"store open":  c.StoreOpenRange,
		"transaction": c.TransactionRange,
	} {
		if r.End.Before(r.Start) {
			return nil, errors.Configurationf("%s date range ends before it starts", name)
		}
	}

	if c.MinQuantity < 1 || c.MaxQuantity < c.MinQuantity {
		return nil, errors.Configurationf("invalid quantity range [%d, %d]", c.MinQuantity, c.MaxQuantity)
	}

	if c.MinUnitPrice <= 0 || c.MaxUnitPrice < c.MinUnitPrice {
		return nil, errors.Configurationf("invalid unit price range [%v, %v]", c.MinUnitPrice, c.MaxUnitPrice)
	}

	sizes, err := NewWeightedTable(c.StoreSizes)
	if err != nil {
		return nil, fmt.Errorf("store sizes: %w", err)
	}
	cc.storeSizes = sizes

	return cc, nil
}

// Locate returns the region and currency of a country.
func (cc *compiledCatalog) Locate(country string) (region, currency string, err error) {
	region, ok := cc.regionOf[country]
	if !ok {
		return "", "", errors.Configurationf("country %s has no region", country)
	}
	currency, ok = cc.Currencies[country]
	if !ok {
		return "", "", errors.Configurationf("country %s has no currency", country)
	}
	return region, currency, nil
}
