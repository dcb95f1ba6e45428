package models

import "github.com/shopspring/decimal"

func init() {
	// Prices are stored as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Service is a bookable offering. Duration is free text ("2 hours", "Full day").
type Service struct {
	ID          ID              `json:"id"`
	Name        string          `json:"name"`
	Duration    string          `json:"duration"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}
