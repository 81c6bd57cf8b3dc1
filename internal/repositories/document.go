package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/semwett0301/rcruit-flow-sub001/internal/models"
)

// DocumentRepository records which storage keys were issued for which uploads.
type DocumentRepository interface {
	Create(document *models.Document) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create implements DocumentRepository.
func (d *documentRepository) Create(document *models.Document) error {
	if err := d.db.Create(document).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}
