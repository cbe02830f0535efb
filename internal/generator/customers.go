package generator

import (
	"fmt"

	"retail-datagen/internal/models"
)

// Customers returns n customers numbered from C001.
func (g *Generator) Customers(n int) ([]models.Customer, error) {
	c := g.catalog
	customers := make([]models.Customer, 0, n)

	for i := 1; i <= n; i++ {
		segment := Choice(g.rng, c.Segments)

		signup, err := g.rng.DateBetween(c.SignupRange.Start, c.SignupRange.End)
		if err != nil {
			return nil, err
		}

		loyal := g.rng.Chance(c.LoyaltyRate[segment])
		optIn := g.rng.Chance(c.EmailOptInRate)

		customers = append(customers, models.Customer{
			CustomerID:           fmt.Sprintf("C%03d", i),
			CustomerName:         fmt.Sprintf("Customer_%d", i),
			CustomerSegment:      segment,
			AgeGroup:             Choice(g.rng, c.AgeGroups),
			Gender:               Choice(g.rng, c.Genders),
			SignupDate:           models.Date{Time: signup},
			LoyaltyProgramMember: models.FlagOf(loyal),
			EmailOptIn:           models.FlagOf(optIn),
		})
	}

	return customers, nil
}
