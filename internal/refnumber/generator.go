// Package refnumber allocates date-scoped document reference numbers.
//
// A reference number is a 4 character prefix, the creation date as YYMMDD and
// a 6 digit sequence that restarts every calendar day: TPSO251101000001.
package refnumber

import (
	"fmt"
	"strconv"
	"time"

	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	prefixLen = 4
	dateLen   = 6
	seqLen    = 6
	maxSeq    = 999999

	// Length is the total length of a reference number
	Length = prefixLen + dateLen + seqLen
)

// SequenceCollisionError means a freshly allocated number already exists.
// Callers retry with a new number; it is never shown to users.
type SequenceCollisionError struct {
	RefNumber string
}

func (e *SequenceCollisionError) Error() string {
	return fmt.Sprintf("reference number %s already in use", e.RefNumber)
}

// Generator allocates reference numbers from the per-day counter table
type Generator struct {
	prefix string
	loc    *time.Location
}

// NewGenerator creates a generator; dates are taken in loc so "same day"
// means the same business day at the terminal.
func NewGenerator(prefix string, loc *time.Location) (*Generator, error) {
	if len(prefix) != prefixLen {
		return nil, fmt.Errorf("reference prefix must be %d characters, got %q", prefixLen, prefix)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{prefix: prefix, loc: loc}, nil
}

// DayKey returns the counter key (prefix + YYMMDD) for a creation time
func (g *Generator) DayKey(created time.Time) string {
	return g.prefix + created.In(g.loc).Format("060102")
}

// Generate allocates the next number for the day of created. It must run in
// the same transaction as the document insert: the counter row stays locked
// until that transaction ends, which serializes allocations per day.
func (g *Generator) Generate(tx *gorm.DB, created time.Time) (string, error) {
	dayKey := g.DayKey(created)

	floor, err := g.issued(tx, dayKey)
	if err != nil {
		return "", err
	}

	counter := models.RefCounter{DayKey: dayKey, LastSeq: floor + 1}
	err = tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "day_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_seq": gorm.Expr("ref_counters.last_seq + 1"),
		}),
	}).Create(&counter).Error
	if err != nil {
		return "", fmt.Errorf("failed to advance counter %s: %w", dayKey, err)
	}

	if err := tx.Where("day_key = ?", dayKey).First(&counter).Error; err != nil {
		return "", fmt.Errorf("failed to read counter %s: %w", dayKey, err)
	}

	// A counter behind the documents (rows imported by hand) catches up here
	if counter.LastSeq <= floor {
		counter.LastSeq = floor + 1
		if err := tx.Model(&counter).Update("last_seq", counter.LastSeq).Error; err != nil {
			return "", fmt.Errorf("failed to advance counter %s: %w", dayKey, err)
		}
	}
	if counter.LastSeq > maxSeq {
		return "", fmt.Errorf("daily sequence exhausted for %s", dayKey)
	}

	return fmt.Sprintf("%s%0*d", dayKey, seqLen, counter.LastSeq), nil
}

// issued returns the highest sequence already used on the day: the number of
// documents of that day or the largest suffix found, whichever is greater.
// Documents created before the counter existed still count towards the day.
func (g *Generator) issued(tx *gorm.DB, dayKey string) (int, error) {
	var existing int64
	if err := tx.Model(&models.Document{}).
		Where("ref_number LIKE ?", dayKey+"%").
		Count(&existing).Error; err != nil {
		return 0, fmt.Errorf("failed to count documents for %s: %w", dayKey, err)
	}
	if existing == 0 {
		return 0, nil
	}

	// Fixed width suffixes sort numerically
	var last []string
	if err := tx.Model(&models.Document{}).
		Where("ref_number LIKE ?", dayKey+"%").
		Order("ref_number DESC").
		Limit(1).
		Pluck("ref_number", &last).Error; err != nil {
		return 0, fmt.Errorf("failed to read last reference for %s: %w", dayKey, err)
	}

	highest := int(existing)
	if len(last) == 0 {
		return highest, nil
	}
	if p, err := Parse(last[0]); err == nil && p.Sequence > highest {
		highest = p.Sequence
	}
	return highest, nil
}

// Parts is a decoded reference number
type Parts struct {
	Prefix   string
	Date     time.Time
	Sequence int
}

// Parse splits a reference number into its prefix, date and sequence
func Parse(ref string) (Parts, error) {
	if len(ref) != Length {
		return Parts{}, fmt.Errorf("reference number must be %d characters, got %d", Length, len(ref))
	}
	date, err := time.Parse("060102", ref[prefixLen:prefixLen+dateLen])
	if err != nil {
		return Parts{}, fmt.Errorf("invalid date in reference number %s: %w", ref, err)
	}
	seq, err := strconv.Atoi(ref[prefixLen+dateLen:])
	if err != nil || seq < 1 {
		return Parts{}, fmt.Errorf("invalid sequence in reference number %s", ref)
	}
	return Parts{Prefix: ref[:prefixLen], Date: date, Sequence: seq}, nil
}
