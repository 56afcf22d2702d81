package database_test

import (
	"errors"
	"testing"

	"github.com/anhardeni/tps40-merak-sub001/internal/database"
	"github.com/anhardeni/tps40-merak-sub001/internal/database/dbtest"
	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestConstraintErrors(t *testing.T) {
	db := dbtest.Open(t)

	err := db.Create(&models.DocumentType{Code: "BC16", Name: "BC 1.6"}).Error
	assert.NoError(t, err)
	err = db.Create(&models.DocumentType{Code: "BC16", Name: "again"}).Error
	assert.True(t, database.IsUniqueViolation(err))
	assert.False(t, database.IsForeignKeyViolation(err))

	doc := models.Document{RefNumber: "TPSO251101000001", KdDok: "1", KdTps: "MRK1", KdGudang: "GD01"}
	assert.NoError(t, db.Create(&doc).Error)
	err = db.Create(&models.Tangki{
		DocumentID: doc.ID,
		NoTangki:   "TK-001",
		KdDokInout: "BC99",
		JmlSatuan:  decimal.NewFromInt(1),
	}).Error
	assert.True(t, database.IsForeignKeyViolation(err))
	assert.False(t, database.IsUniqueViolation(err))

	assert.True(t, database.IsForeignKeyViolation(gorm.ErrForeignKeyViolated))
	assert.False(t, database.IsForeignKeyViolation(errors.New("connection refused")))
	assert.False(t, database.IsForeignKeyViolation(nil))
}
