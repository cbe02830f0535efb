package models

// Transaction is one sales line. Store, customer and product fields are
// copied from the referenced records when the transaction is generated.
// Field order is the sales_transactions.csv column order.
type Transaction struct {
	TransactionID string `csv:"TransactionID"`

	StoreID   string `csv:"StoreID"`
	StoreName string `csv:"StoreName"`
	City      string `csv:"City"`
	State     string `csv:"State"`
	Country   string `csv:"Country"`
	Region    string `csv:"Region"`
	Currency  string `csv:"Currency"`

	CustomerID      string  `csv:"CustomerID"`
	CustomerName    string  `csv:"CustomerName"`
	CustomerSegment Segment `csv:"CustomerSegment"`
	AgeGroup        string  `csv:"AgeGroup"`
	Gender          string  `csv:"Gender"`

	ProductID   string `csv:"ProductID"`
	ProductName string `csv:"ProductName"`
	Department  string `csv:"Department"`
	Category    string `csv:"Category"`
	SubCategory string `csv:"SubCategory"`

	Quantity        int      `csv:"Quantity"`
	UnitPrice       Money    `csv:"-"`
	Price           Money    `csv:"Price"`
	TransactionDate DateTime `csv:"TransactionDate"`
	PaymentMethod   string   `csv:"PaymentMethod"`
	CampaignFlag    Flag     `csv:"CampaignFlag"`
}
