package view

import "strconv"

// ServiceRecord is one priced service line, in visible-column order.
type ServiceRecord struct {
	Category   string  `json:"category" validate:"required"`
	Item       string  `json:"item" validate:"required"`
	Price      float64 `json:"price" validate:"gte=0"`
	Turnaround string  `json:"turnaround"`
	Notes      string  `json:"notes"`
}

// ToRow returns the record as the five ordered cells the sheet stores.
func (r ServiceRecord) ToRow() []interface{} {
	return []interface{}{
		r.Category,
		r.Item,
		r.Price,
		r.Turnaround,
		r.Notes,
	}
}

// PriceString renders the price with two decimals, the format exports use.
func (r ServiceRecord) PriceString() string {
	return strconv.FormatFloat(r.Price, 'f', 2, 64)
}
