package domain

// OrderLine is a requested quantity of a SKU for one order. It is compared by
// value, so two lines with the same fields are the same line.
type OrderLine struct {
	OrderID string
	SKU     string
	Qty     int
}
