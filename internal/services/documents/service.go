// Package documents creates and maintains CoCoTangki documents and their
// tank line items, with an audit trail of every mutation.
package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/anhardeni/tps40-merak-sub001/internal/codec/cocotangki"
	"github.com/anhardeni/tps40-merak-sub001/internal/database"
	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"github.com/anhardeni/tps40-merak-sub001/internal/refnumber"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxCreateAttempts = 5

var (
	// ErrNotFound is returned when the document does not exist
	ErrNotFound = errors.New("document not found")
	// ErrHasTransmissions blocks deleting a document whose attempts are on record
	ErrHasTransmissions = errors.New("document has transmission history and cannot be deleted")
)

// FieldError rejects a line item value that cannot be stored as given
type FieldError struct {
	NoTangki string
	Field    string
	Message  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("tangki %s: %s %s", e.NoTangki, e.Field, e.Message)
}

// RefAllocator hands out reference numbers inside the insert transaction
type RefAllocator interface {
	Generate(tx *gorm.DB, created time.Time) (string, error)
}

// Filter narrows List results
type Filter struct {
	Status       string
	Transmission string // not_sent, sent or error
	Search       string
	Limit        int
	Offset       int
}

// Service manages documents
type Service struct {
	db   *database.DB
	refs RefAllocator
	now  func() time.Time
}

// NewService creates the document service
func NewService(db *database.DB, refs RefAllocator) *Service {
	return &Service{db: db, refs: refs, now: time.Now}
}

// Create inserts a document with its line items under a freshly allocated
// reference number. A number that turns out to be taken is replaced silently.
func (s *Service) Create(ctx context.Context, doc *models.Document, actor string) (*models.Document, error) {
	items := doc.Tangki

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			ref, err := s.refs.Generate(tx, s.now())
			if err != nil {
				return err
			}

			doc.ID = 0
			doc.RefNumber = ref
			doc.Tangki = nil
			doc.CocotangkiStatus = models.StateNotSent
			doc.CreatedBy = actor
			doc.UpdatedBy = actor
			if doc.Status == "" {
				doc.Status = models.DocumentStatusDraft
			}

			if err := tx.Omit(clause.Associations).Create(doc).Error; err != nil {
				if database.IsUniqueViolation(err) {
					return &refnumber.SequenceCollisionError{RefNumber: ref}
				}
				return err
			}

			created := make([]models.Tangki, 0, len(items))
			for i, item := range items {
				if item.Urutan == 0 {
					item.Urutan = i + 1
				}
				if err := insertItem(tx, doc.ID, &item); err != nil {
					return err
				}
				created = append(created, item)
			}
			doc.Tangki = created

			return writeAudit(tx, doc, "create", nil, doc, actor)
		})

		var collision *refnumber.SequenceCollisionError
		if errors.As(err, &collision) {
			log.Printf("⚠️ Reference number %s already taken, allocating another (attempt %d/%d)", collision.RefNumber, attempt, maxCreateAttempts)
			continue
		}
		if err != nil {
			doc.Tangki = items
			return nil, fmt.Errorf("failed to create document: %w", err)
		}

		log.Printf("✅ Document %s created by %s with %d tangki", doc.RefNumber, actor, len(doc.Tangki))
		return doc, nil
	}

	doc.Tangki = items
	return nil, fmt.Errorf("failed to allocate a unique reference number after %d attempts", maxCreateAttempts)
}

// AddLineItem appends a tank to a document. The activity sequence continues
// from the highest one recorded for that tank number.
func (s *Service) AddLineItem(ctx context.Context, docID uint, item models.Tangki, actor string) (*models.Tangki, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		if err := tx.Select("id", "ref_number").First(&doc, docID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if item.Urutan == 0 {
			var last int
			if err := tx.Model(&models.Tangki{}).
				Where("document_id = ?", docID).
				Select("COALESCE(MAX(urutan), 0)").
				Scan(&last).Error; err != nil {
				return err
			}
			item.Urutan = last + 1
		}

		if err := insertItem(tx, docID, &item); err != nil {
			return err
		}
		if err := tx.Model(&models.Document{}).Where("id = ?", docID).Update("updated_by", actor).Error; err != nil {
			return err
		}
		return writeAudit(tx, item, "create", nil, item, actor)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// checkPrecision rejects decimals the numeric columns would round on insert
func checkPrecision(item *models.Tangki) error {
	fields := []struct {
		name   string
		value  decimal.Decimal
		places int32
	}{
		{"jmlSatuan", item.JmlSatuan, models.QuantityPlaces},
		{"kapasitas", item.Kapasitas, models.QuantityPlaces},
		{"volume", item.Volume, models.QuantityPlaces},
		{"panjang", item.Panjang, models.DimensionPlaces},
		{"lebar", item.Lebar, models.DimensionPlaces},
		{"tinggi", item.Tinggi, models.DimensionPlaces},
		{"berat", item.Berat, models.DimensionPlaces},
		{"bruto", item.Bruto, models.DimensionPlaces},
		{"netto", item.Netto, models.DimensionPlaces},
	}
	for _, f := range fields {
		if !cocotangki.FitsPrecision(f.value, f.places) {
			return &FieldError{
				NoTangki: item.NoTangki,
				Field:    f.name,
				Message:  fmt.Sprintf("%s has more than %d decimal places", f.value.String(), f.places),
			}
		}
	}
	return nil
}

func insertItem(tx *gorm.DB, docID uint, item *models.Tangki) error {
	if err := checkPrecision(item); err != nil {
		return err
	}

	var known int64
	if err := tx.Model(&models.DocumentType{}).Where("code = ?", item.KdDokInout).Count(&known).Error; err != nil {
		return fmt.Errorf("failed to look up document type %q: %w", item.KdDokInout, err)
	}
	if known == 0 {
		return unknownDokInout(item)
	}

	var last int
	if err := tx.Model(&models.Tangki{}).
		Where("no_tangki = ?", item.NoTangki).
		Select("COALESCE(MAX(seq_aktivitas), 0)").
		Scan(&last).Error; err != nil {
		return fmt.Errorf("failed to read activity sequence of %s: %w", item.NoTangki, err)
	}

	item.ID = 0
	item.DocumentID = docID
	item.SeqAktivitas = last + 1
	item.DokInout = nil
	if err := tx.Create(item).Error; err != nil {
		// the type may have been removed since the lookup
		if database.IsForeignKeyViolation(err) {
			return unknownDokInout(item)
		}
		return fmt.Errorf("failed to insert tangki %s: %w", item.NoTangki, err)
	}
	return nil
}

func unknownDokInout(item *models.Tangki) error {
	return &FieldError{
		NoTangki: item.NoTangki,
		Field:    "kdDokInout",
		Message:  fmt.Sprintf("%q is not a known document type", item.KdDokInout),
	}
}

// Get loads a document with its line items in stored order
func (s *Service) Get(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	err := s.db.WithContext(ctx).
		Preload("Tangki", func(db *gorm.DB) *gorm.DB {
			return db.Order("urutan ASC, id ASC")
		}).
		First(&doc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns documents matching the filter, newest first, with the total count
func (s *Service) List(ctx context.Context, f Filter) ([]models.Document, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Document{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Transmission != "" {
		state, err := models.ParseTransmissionState(f.Transmission)
		if err != nil {
			return nil, 0, err
		}
		if state == models.StateNotSent {
			q = q.Where("cocotangki_status IS NULL")
		} else {
			q = q.Where("cocotangki_status = ?", state.String())
		}
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("ref_number LIKE ? OR nm_angkut LIKE ? OR no_voy_flight LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var docs []models.Document
	err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(f.Offset).Find(&docs).Error
	return docs, total, err
}

// Delete removes a document and its line items. Documents with transmission
// attempts are kept because their history must survive.
func (s *Service) Delete(ctx context.Context, id uint, actor string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		if err := tx.Preload("Tangki").First(&doc, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var attempts int64
		if err := tx.Model(&models.TransmissionLog{}).Where("document_id = ?", id).Count(&attempts).Error; err != nil {
			return err
		}
		if attempts > 0 {
			return ErrHasTransmissions
		}

		if err := tx.Where("document_id = ?", id).Delete(&models.Tangki{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Document{}, id).Error; err != nil {
			return err
		}
		log.Printf("🗑️ Document %s deleted by %s", doc.RefNumber, actor)
		return writeAudit(tx, doc, "delete", doc, nil, actor)
	})
}

// writeAudit stores before/after snapshots of an entity
func writeAudit(tx *gorm.DB, entity models.AuditableEntity, action string, before, after interface{}, actor string) error {
	entry := models.AuditLog{
		EntityType: entity.GetEntityType(),
		EntityID:   entity.GetEntityID(),
		Action:     action,
		Actor:      actor,
	}
	var err error
	if entry.Before, err = snapshot(before); err != nil {
		return err
	}
	if entry.After, err = snapshot(after); err != nil {
		return err
	}
	return tx.Create(&entry).Error
}

func snapshot(v interface{}) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot for audit: %w", err)
	}
	return datatypes.JSON(b), nil
}
