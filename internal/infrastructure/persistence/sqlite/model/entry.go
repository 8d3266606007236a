package model

// Entry is the storage row for one symptom event. Queryable fields are
// extracted into columns; Doc keeps the full JSON document as indexed.
type Entry struct {
	EntryID          string `gorm:"column:entry_id;type:text;primaryKey"`
	UserID           string `gorm:"column:user_id;type:text"`
	Timestamp        string `gorm:"column:timestamp;type:text;not null;index"`
	Symptom          string `gorm:"column:symptom;type:text;not null"`
	Severity         int    `gorm:"column:severity;not null"`
	OnMedication     *bool  `gorm:"column:on_medication"`
	MediationAttempt string `gorm:"column:mediation_attempt;type:text"`
	EventComplete    *bool  `gorm:"column:event_complete"`
	RawNotes         string `gorm:"column:raw_notes;type:text"`
	Doc              string `gorm:"column:doc;type:text;not null"`
	CreatedAt        string `gorm:"column:created_at;type:text;not null"`
	UpdatedAt        string `gorm:"column:updated_at;type:text;not null"`
}

func (Entry) TableName() string {
	return "symptom_entries"
}
