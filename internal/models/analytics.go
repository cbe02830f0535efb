package models

import "time"

// Sale is the subset of a transactions.csv row the dashboard aggregates.
type Sale struct {
	Date          time.Time
	Country       string
	Region        string
	Currency      string
	ProductName   string
	Department    string
	Category      string
	Quantity      int
	Price         float64
	PaymentMethod string
}

type CountryRevenue struct {
	Country      string  `json:"country"`
	Currency     string  `json:"currency"`
	ProductName  string  `json:"product_name"`
	Category     string  `json:"category"`
	TotalRevenue float64 `json:"total_revenue"`
	Transactions int     `json:"transactions"`
}

type ProductFrequency struct {
	ProductName string `json:"product_name"`
	Department  string `json:"department"`
	Category    string `json:"category"`
	Frequency   int    `json:"frequency"`
	UnitsSold   int    `json:"units_sold"`
}

type MonthlyData struct {
	Month  string  `json:"month"`
	Volume float64 `json:"volume"`
}

type RegionRevenue struct {
	Region    string  `json:"region"`
	Revenue   float64 `json:"total_revenue"`
	ItemsSold int     `json:"items_sold"`
}

type PaymentMix struct {
	Method       string  `json:"payment_method"`
	Transactions int     `json:"transactions"`
	Revenue      float64 `json:"total_revenue"`
}
