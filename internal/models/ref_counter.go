package models

// RefCounter is the per-day allocation counter for document reference numbers
type RefCounter struct {
	DayKey  string `gorm:"primaryKey;type:varchar(10)"` // prefix + YYMMDD
	LastSeq int    `gorm:"not null"`
}

func (RefCounter) TableName() string { return "ref_counters" }
