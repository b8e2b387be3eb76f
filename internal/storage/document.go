package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DocumentRecord is one stored document. Body holds the full JSON of the item.
type DocumentRecord struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	SortKey   string    `gorm:"size:32;index" json:"sort_key"`
	Body      string    `gorm:"type:jsonb;not null" json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DocumentRecord) TableName() string {
	return "reservations"
}

// DocumentStore is the remote collection in Postgres. Every save replaces the
// whole table in one transaction; loads come back ordered by sort key.
type DocumentStore[T Document] struct {
	db        *gorm.DB
	batchSize int
}

func NewDocumentStore[T Document](db *gorm.DB) *DocumentStore[T] {
	return &DocumentStore[T]{db: db, batchSize: 100}
}

func (s *DocumentStore[T]) LoadAll(ctx context.Context) ([]T, error) {
	var records []DocumentRecord
	if err := s.db.WithContext(ctx).Order("sort_key asc").Order("id asc").Find(&records).Error; err != nil {
		return nil, &PersistenceError{Op: "load", Backend: "postgres", Err: err}
	}

	items := make([]T, 0, len(records))
	for _, rec := range records {
		var item T
		if err := json.Unmarshal([]byte(rec.Body), &item); err != nil {
			return nil, &PersistenceError{Op: "load", Backend: "postgres", Err: fmt.Errorf("document %s: %w", rec.ID, err)}
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *DocumentStore[T]) SaveAll(ctx context.Context, items []T) error {
	records := make([]DocumentRecord, 0, len(items))
	for _, item := range items {
		body, err := json.Marshal(item)
		if err != nil {
			return &PersistenceError{Op: "save", Backend: "postgres", Err: fmt.Errorf("document %s: %w", item.DocumentID(), err)}
		}
		records = append(records, DocumentRecord{
			ID:      item.DocumentID(),
			SortKey: item.DocumentSortKey(),
			Body:    string(body),
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&DocumentRecord{}).Error; err != nil {
			return fmt.Errorf("clear documents: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(records, s.batchSize).Error; err != nil {
			return fmt.Errorf("write documents: %w", err)
		}
		return nil
	})
	if err != nil {
		return &PersistenceError{Op: "save", Backend: "postgres", Err: err}
	}
	return nil
}
