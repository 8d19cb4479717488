package repositories

import (
	"context"
	"time"

	"markettakip/app/models"
	"markettakip/pkg/store"
)

// ReturnRepository handles store operations for ReturnItem.
type ReturnRepository struct {
	driver store.Driver
}

func NewReturnRepository(driver store.Driver) *ReturnRepository {
	return &ReturnRepository{driver: driver}
}

// Create persists a new return record. New records always start
// not-yet-returned; the image, when present, is already downscaled.
func (r *ReturnRepository) Create(ctx context.Context, item *models.ReturnItem) error {
	item.ID = ""
	item.IsReturned = false
	if item.Date == 0 {
		item.Date = time.Now().UnixMilli()
	}

	id, err := r.driver.Create(ctx, store.Returns, item)
	if err != nil {
		return err
	}
	item.ID = id
	return nil
}

// Update merges the given fields into a return record.
func (r *ReturnRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.driver.Update(ctx, store.Returns, id, fields)
}

// Delete removes a return record.
func (r *ReturnRepository) Delete(ctx context.Context, id string) error {
	return r.driver.Delete(ctx, store.Returns, id)
}

// All returns every return record, newest first.
func (r *ReturnRepository) All(ctx context.Context) ([]models.ReturnItem, error) {
	var items []models.ReturnItem
	err := r.driver.FindAll(ctx, store.Returns, "date", true, &items)
	return items, err
}
