package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"markettakip/app/models"
	"markettakip/app/repositories"
	"markettakip/pkg/imaging"
	"markettakip/pkg/logger"
	"markettakip/pkg/metrics"
	"markettakip/pkg/storage"
)

// PhotoService owns the two-sided photo write: the downscaled data URI goes
// into the store record, the untouched original into the storage disk.
type PhotoService struct {
	photos *repositories.PhotoRepository
}

func NewPhotoService(photos *repositories.PhotoRepository) *PhotoService {
	return &PhotoService{photos: photos}
}

// Create downscales the uploaded image, archives the original under
// photos/<uuid>.<ext>, and persists the photo record. A failed archive only
// logs — the downscaled evidence in the store is the part that matters.
func (s *PhotoService) Create(ctx context.Context, supplierName, displayName, rawImage string) (models.SupplierPhoto, error) {
	data, ext, err := imaging.ParseDataURI(rawImage)
	if err != nil {
		return models.SupplierPhoto{}, err
	}

	start := time.Now()
	downscaled, err := imaging.Downscale(data)
	if err != nil {
		return models.SupplierPhoto{}, err
	}
	metrics.ImageDownscaleDuration.Observe(time.Since(start).Seconds())

	archivePath := fmt.Sprintf("photos/%s.%s", uuid.NewString(), ext)
	if err := storage.Put(archivePath, data); err != nil {
		logger.Warn("photo: archive failed", "path", archivePath, "error", err)
		archivePath = ""
	}

	photo := models.SupplierPhoto{
		SupplierName: supplierName,
		Name:         displayName,
		Image:        downscaled,
		ArchivePath:  archivePath,
	}
	if err := s.photos.Create(ctx, &photo); err != nil {
		// The record is the source of truth; drop the orphaned archive.
		if archivePath != "" {
			if derr := storage.Delete(archivePath); derr != nil {
				logger.Warn("photo: orphan cleanup failed", "path", archivePath, "error", derr)
			}
		}
		return models.SupplierPhoto{}, err
	}

	return photo, nil
}

// Delete removes the photo record and, best-effort, its archived original.
func (s *PhotoService) Delete(ctx context.Context, photo models.SupplierPhoto) error {
	if err := s.photos.Delete(ctx, photo.ID); err != nil {
		return err
	}

	if photo.ArchivePath != "" {
		if err := storage.Delete(photo.ArchivePath); err != nil {
			logger.Warn("photo: archive delete failed", "path", photo.ArchivePath, "error", err)
		}
	}
	return nil
}
