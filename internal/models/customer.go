package models

type Segment string

const (
	SegmentPremium  Segment = "Premium"
	SegmentStandard Segment = "Standard"
)

// Customer field order is the customers.csv column order.
type Customer struct {
	CustomerID           string  `csv:"CustomerID"`
	CustomerName         string  `csv:"CustomerName"`
	CustomerSegment      Segment `csv:"CustomerSegment"`
	AgeGroup             string  `csv:"AgeGroup"`
	Gender               string  `csv:"Gender"`
	SignupDate           Date    `csv:"SignupDate"`
	LoyaltyProgramMember Flag    `csv:"LoyaltyProgramMember"`
	EmailOptIn           Flag    `csv:"EmailOptIn"`
}
