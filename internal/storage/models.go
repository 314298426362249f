package storage

import (
	"time"

	"cryptomax/internal/rates"
)

// StoredRecord is one persisted rate record, grouped by collection run.
type StoredRecord struct {
	ID        int64
	RunTS     time.Time
	Record    rates.RateRecord
	CreatedAt time.Time
}
