package models

type Product struct {
	ProductID   string
	ProductName string
	Department  string
	Category    string
	SubCategory string
}
