package dataset

import "time"

// OrderLine is one row of the joined order/item/payment/review/customer
// dataset. Optional fields are pointers; a nil pointer means the source cell
// was empty or could not be parsed. PaymentValue is normalized at load time
// (missing or negative values become 0), so aggregations can consume it
// without re-checking.
type OrderLine struct {
	OrderID         string
	CustomerID      string
	CustomerState   string
	ApprovedAt      *time.Time
	PaymentValue    float64
	Price           *float64
	ProductCategory string
	Status          string
	ReviewScore     *int
}

// Approved reports whether the order has an approval timestamp.
func (l OrderLine) Approved() bool {
	return l.ApprovedAt != nil
}

// GeoPoint is one geolocation sample. Multiple samples may share a prefix;
// the geo resolver picks one representative point per prefix.
type GeoPoint struct {
	ZipPrefix string
	Latitude  float64
	Longitude float64
}
