package generator

import (
	"fmt"

	"retail-datagen/internal/models"
)

// Stores returns n stores numbered from S001.
func (g *Generator) Stores(n int) ([]models.Store, error) {
	c := g.catalog
	stores := make([]models.Store, 0, n)

	for i := 1; i <= n; i++ {
		country := Choice(g.rng, c.countries)
		region, currency, err := c.Locate(country)
		if err != nil {
			return nil, err
		}

		opened, err := g.rng.DateBetween(c.StoreOpenRange.Start, c.StoreOpenRange.End)
		if err != nil {
			return nil, err
		}

		stores = append(stores, models.Store{
			StoreID:       fmt.Sprintf("S%03d", i),
			StoreName:     fmt.Sprintf("Store_%d", i),
			City:          fmt.Sprintf("City_%d", i),
			State:         fmt.Sprintf("State_%d", i%10),
			Country:       country,
			Region:        region,
			Currency:      currency,
			StoreOpenDate: models.Date{Time: opened},
			StoreSize:     c.storeSizes.Pick(g.rng),
		})
	}

	return stores, nil
}
