package repositories

import (
	"context"
	"time"

	"markettakip/app/models"
	"markettakip/pkg/store"
)

// PhotoRepository handles store operations for SupplierPhoto.
type PhotoRepository struct {
	driver store.Driver
}

func NewPhotoRepository(driver store.Driver) *PhotoRepository {
	return &PhotoRepository{driver: driver}
}

// Create persists a new photo record (image already downscaled, original
// archived separately under ArchivePath).
func (r *PhotoRepository) Create(ctx context.Context, photo *models.SupplierPhoto) error {
	photo.ID = ""
	if photo.Date == 0 {
		photo.Date = time.Now().UnixMilli()
	}

	id, err := r.driver.Create(ctx, store.SupplierPhotos, photo)
	if err != nil {
		return err
	}
	photo.ID = id
	return nil
}

// Delete removes a photo record.
func (r *PhotoRepository) Delete(ctx context.Context, id string) error {
	return r.driver.Delete(ctx, store.SupplierPhotos, id)
}

// All returns every photo record, newest first.
func (r *PhotoRepository) All(ctx context.Context) ([]models.SupplierPhoto, error) {
	var photos []models.SupplierPhoto
	err := r.driver.FindAll(ctx, store.SupplierPhotos, "date", true, &photos)
	return photos, err
}
