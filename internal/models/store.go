package models

type StoreSize string

const (
	StoreSizeSmall  StoreSize = "Small"
	StoreSizeMedium StoreSize = "Medium"
	StoreSizeLarge  StoreSize = "Large"
)

// Store field order is the stores.csv column order. Region and Currency are
// derived from Country.
type Store struct {
	StoreID       string    `csv:"StoreID"`
	StoreName     string    `csv:"StoreName"`
	City          string    `csv:"City"`
	State         string    `csv:"State"`
	Country       string    `csv:"Country"`
	Region        string    `csv:"Region"`
	Currency      string    `csv:"Currency"`
	StoreOpenDate Date      `csv:"StoreOpenDate"`
	StoreSize     StoreSize `csv:"StoreSize"`
}
