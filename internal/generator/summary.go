package generator

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"retail-datagen/internal/models"
)

// Summary describes a generated dataset for the end-of-run report.
type Summary struct {
	Customers    int `json:"customers"`
	Stores       int `json:"stores"`
	Transactions int `json:"transactions"`

	MeanTicket   float64 `json:"mean_ticket"`
	MedianTicket float64 `json:"median_ticket"`
	P95Ticket    float64 `json:"p95_ticket"`
	MeanQuantity float64 `json:"mean_quantity"`
	CampaignRate float64 `json:"campaign_rate"`

	LoyaltyRate map[models.Segment]float64 `json:"loyalty_rate"`
	StoreSizes  map[models.StoreSize]int   `json:"store_sizes"`
	Payments    map[string]int             `json:"payments"`
}

// Summarize computes ticket statistics and attribute mixes. Ticket figures
// are zero when there are no transactions.
func Summarize(ds *Dataset) (*Summary, error) {
	s := &Summary{
		Customers:    len(ds.Customers),
		Stores:       len(ds.Stores),
		Transactions: len(ds.Transactions),
		LoyaltyRate:  make(map[models.Segment]float64),
		StoreSizes:   make(map[models.StoreSize]int),
		Payments:     make(map[string]int),
	}

	members := make(map[models.Segment]int)
	totals := make(map[models.Segment]int)
	for _, c := range ds.Customers {
		totals[c.CustomerSegment]++
		if c.LoyaltyProgramMember.Bool() {
			members[c.CustomerSegment]++
		}
	}
	for seg, n := range totals {
		s.LoyaltyRate[seg] = float64(members[seg]) / float64(n)
	}

	for _, st := range ds.Stores {
		s.StoreSizes[st.StoreSize]++
	}

	if len(ds.Transactions) == 0 {
		return s, nil
	}

	tickets := make(stats.Float64Data, 0, len(ds.Transactions))
	quantities := make(stats.Float64Data, 0, len(ds.Transactions))
	campaigns := 0
	for _, t := range ds.Transactions {
		tickets = append(tickets, t.Price.InexactFloat64())
		quantities = append(quantities, float64(t.Quantity))
		if t.CampaignFlag.Bool() {
			campaigns++
		}
		s.Payments[t.PaymentMethod]++
	}
	s.CampaignRate = float64(campaigns) / float64(len(ds.Transactions))

	var err error
	if s.MeanTicket, err = tickets.Mean(); err != nil {
		return nil, fmt.Errorf("mean ticket: %w", err)
	}
	if s.MedianTicket, err = tickets.Median(); err != nil {
		return nil, fmt.Errorf("median ticket: %w", err)
	}
	if s.P95Ticket, err = tickets.Percentile(95); err != nil {
		return nil, fmt.Errorf("p95 ticket: %w", err)
	}
	if s.MeanQuantity, err = quantities.Mean(); err != nil {
		return nil, fmt.Errorf("mean quantity: %w", err)
	}

	for _, v := range []*float64{&s.MeanTicket, &s.MedianTicket, &s.P95Ticket, &s.MeanQuantity} {
		*v, _ = stats.Round(*v, 2)
	}

	return s, nil
}
