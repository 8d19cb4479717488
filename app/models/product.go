package models

// SupplierOffer is a (supplier name, purchase price) pair attached to a
// product. The name is free text matched by exact string equality — there is
// no foreign key to the supplier registry.
type SupplierOffer struct {
	ID    string  `bson:"id"    json:"id"`
	Name  string  `bson:"name"  json:"name"`
	Price float64 `bson:"price" json:"price"`
}

// Product is one catalog entry. Offers may be empty and may repeat a
// supplier name; aggregation merges duplicates by taking the cheapest.
type Product struct {
	ID         string          `bson:"_id,omitempty" json:"id"`
	Barcode    string          `bson:"barcode"       json:"barcode"`
	Brand      string          `bson:"brand"         json:"brand"`
	Name       string          `bson:"name"          json:"name"`
	Weight     string          `bson:"weight"        json:"weight"`
	SalesPrice float64         `bson:"salesPrice"    json:"salesPrice"`
	Suppliers  []SupplierOffer `bson:"suppliers"     json:"suppliers"`
	CreatedAt  int64           `bson:"createdAt"     json:"createdAt"` // unix millis
}
