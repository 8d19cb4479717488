package models

// ReturnItem records goods sent back to a supplier. The supplier association
// is the display name at the time of the return; deleting or renaming the
// supplier later leaves the record untouched.
type ReturnItem struct {
	ID           string `bson:"_id,omitempty" json:"id"`
	SupplierName string `bson:"supplierName"  json:"supplierName"`
	Brand        string `bson:"brand"         json:"brand"`
	ProductName  string `bson:"productName"   json:"productName"`
	Weight       string `bson:"weight"        json:"weight"`
	Quantity     int    `bson:"quantity"      json:"quantity"`
	Date         int64  `bson:"date"          json:"date"` // unix millis
	IsReturned   bool   `bson:"isReturned"    json:"isReturned"`
	Image        string `bson:"image,omitempty" json:"image,omitempty"` // data URI, already downscaled
}
