package generator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retail-datagen/internal/errors"
	"retail-datagen/internal/models"
)

// checkEvery is how many transactions are generated between context checks.
const checkEvery = 10000

// Transactions returns n transactions, each drawn against a random customer,
// store and product.
func (g *Generator) Transactions(ctx context.Context, n int, customers []models.Customer, stores []models.Store) ([]models.Transaction, error) {
	if n > 0 && len(customers) == 0 {
		return nil, errors.Configuration("transactions need at least one customer")
	}
	if n > 0 && len(stores) == 0 {
		return nil, errors.Configuration("transactions need at least one store")
	}

	c := g.catalog
	transactions := make([]models.Transaction, 0, n)

	for i := 0; i < n; i++ {
		if i%checkEvery == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		id, err := uuid.NewRandomFromReader(g.rng)
		if err != nil {
			return nil, fmt.Errorf("transaction id: %w", err)
		}

		store := Choice(g.rng, stores)
		customer := Choice(g.rng, customers)
		product := Choice(g.rng, c.Products)

		at, err := g.rng.DateBetween(c.TransactionRange.Start, c.TransactionRange.End)
		if err != nil {
			return nil, err
		}

		quantity := g.rng.IntBetween(c.MinQuantity, c.MaxQuantity)
		unit := decimal.NewFromFloat(g.rng.Uniform(c.MinUnitPrice, c.MaxUnitPrice)).Round(2)
		total := unit.Mul(decimal.NewFromInt(int64(quantity))).Round(2)

		transactions = append(transactions, models.Transaction{
			TransactionID: id.String(),

			StoreID:   store.StoreID,
			StoreName: store.StoreName,
			City:      store.City,
			State:     store.State,
			Country:   store.Country,
			Region:    store.Region,
			Currency:  store.Currency,

			CustomerID:      customer.CustomerID,
			CustomerName:    customer.CustomerName,
			CustomerSegment: customer.CustomerSegment,
			AgeGroup:        customer.AgeGroup,
			Gender:          customer.Gender,

			ProductID:   product.ProductID,
			ProductName: product.ProductName,
			Department:  product.Department,
			Category:    product.Category,
			SubCategory: product.SubCategory,

			Quantity:        quantity,
			UnitPrice:       models.NewMoney(unit),
			Price:           models.NewMoney(total),
			TransactionDate: models.DateTime{Time: at},
			PaymentMethod:   Choice(g.rng, c.PaymentMethods),
			CampaignFlag:    models.FlagOf(g.rng.Chance(c.CampaignRate)),
		})
	}

	return transactions, nil
}
