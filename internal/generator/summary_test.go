package generator

import (
	"testing"

	"github.com/shopspring/decimal"

	"retail-datagen/internal/models"
)

func tx(price string, quantity int, payment string, campaign bool) models.Transaction {
	return models.Transaction{
		Price:         models.NewMoney(decimal.RequireFromString(price)),
		Quantity:      quantity,
		PaymentMethod: payment,
		CampaignFlag:  models.FlagOf(campaign),
	}
}

func TestSummarize(t *testing.T) {
	ds := &Dataset{
		Customers: []models.Customer{
			{CustomerSegment: models.SegmentPremium, LoyaltyProgramMember: models.Yes},
			{CustomerSegment: models.SegmentPremium, LoyaltyProgramMember: models.No},
			{CustomerSegment: models.SegmentStandard, LoyaltyProgramMember: models.No},
		},
		Stores: []models.Store{
			{StoreSize: models.StoreSizeMedium},
			{StoreSize: models.StoreSizeMedium},
			{StoreSize: models.StoreSizeLarge},
		},
		Transactions: []models.Transaction{
			tx("100.00", 1, "PayPal", false),
			tx("200.00", 2, "PayPal", true),
			tx("300.00", 3, "Gift Card", false),
			tx("400.00", 4, "Credit Card", false),
		},
	}

	s, err := Summarize(ds)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if s.Customers != 3 || s.Stores != 3 || s.Transactions != 4 {
		t.Errorf("counts = %d/%d/%d", s.Customers, s.Stores, s.Transactions)
	}
	if s.MeanTicket != 250 {
		t.Errorf("MeanTicket = %v, want 250", s.MeanTicket)
	}
	if s.MedianTicket != 250 {
		t.Errorf("MedianTicket = %v, want 250", s.MedianTicket)
	}
	if s.MeanQuantity != 2.5 {
		t.Errorf("MeanQuantity = %v, want 2.5", s.MeanQuantity)
	}
	if s.CampaignRate != 0.25 {
		t.Errorf("CampaignRate = %v, want 0.25", s.CampaignRate)
	}
	if s.LoyaltyRate[models.SegmentPremium] != 0.5 || s.LoyaltyRate[models.SegmentStandard] != 0 {
		t.Errorf("LoyaltyRate = %v", s.LoyaltyRate)
	}
	if s.StoreSizes[models.StoreSizeMedium] != 2 || s.StoreSizes[models.StoreSizeLarge] != 1 {
		t.Errorf("StoreSizes = %v", s.StoreSizes)
	}
	if s.Payments["PayPal"] != 2 || s.Payments["Gift Card"] != 1 {
		t.Errorf("Payments = %v", s.Payments)
	}
}

func TestSummarize_NoTransactions(t *testing.T) {
	s, err := Summarize(&Dataset{
		Customers: []models.Customer{{CustomerSegment: models.SegmentStandard, LoyaltyProgramMember: models.Yes}},
	})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if s.MeanTicket != 0 || s.P95Ticket != 0 {
		t.Errorf("ticket stats = %v/%v, want zero", s.MeanTicket, s.P95Ticket)
	}
	if s.LoyaltyRate[models.SegmentStandard] != 1 {
		t.Errorf("LoyaltyRate = %v", s.LoyaltyRate)
	}
}
