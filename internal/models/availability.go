package models

// AvailabilityOverride is an explicit exception to the default-open policy
// for a single calendar day. Date is YYYY-MM-DD.
type AvailabilityOverride struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}
