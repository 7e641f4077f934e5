package types

import "strings"

// Address is the delivery address collected before checkout. The field set
// matches what the store backend persists on an order.
type Address struct {
	City     string `json:"city"`
	Barangay string `json:"barangay"`
	Block    string `json:"block"`
	Lot      string `json:"lot"`
	Province string `json:"province"`
}

// Complete reports whether every address field is filled in.
func (a Address) Complete() bool {
	for _, field := range []string{a.City, a.Barangay, a.Block, a.Lot, a.Province} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}
