package models

// SupplierPhoto is photo evidence attached to a supplier by display name.
type SupplierPhoto struct {
	ID           string `bson:"_id,omitempty" json:"id"`
	SupplierName string `bson:"supplierName"  json:"supplierName"`
	Name         string `bson:"name"          json:"name"`
	Image        string `bson:"image"         json:"image"` // data URI, already downscaled
	ArchivePath  string `bson:"archivePath,omitempty" json:"archivePath,omitempty"`
	Date         int64  `bson:"date"          json:"date"` // unix millis
}
