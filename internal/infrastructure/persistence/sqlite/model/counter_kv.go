package model

// CounterKV backs the durable trigger counter: one row per named counter.
type CounterKV struct {
	Key       string `gorm:"column:key;type:text;primaryKey"`
	Value     int64  `gorm:"column:value;type:integer;not null"`
	UpdatedAt string `gorm:"column:updated_at;type:text;not null"`
}

func (CounterKV) TableName() string {
	return "counter_kv"
}
