package models

// Supplier is an explicit registry entry. It lets a supplier exist before
// any product carries its offer; the summary view merges registry names with
// the names found on product offers.
type Supplier struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	Name      string `bson:"name"          json:"name"`
	CreatedAt int64  `bson:"createdAt"     json:"createdAt"` // unix millis
}
