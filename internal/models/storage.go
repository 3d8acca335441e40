package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// RecordRow is the persisted form of a TestRecord. Scores keep their full
// document shape as jsonb so that re-hydration loses nothing.
type RecordRow struct {
	ID        int `gorm:"primaryKey"`
	UserID    int
	TestName  string
	Type      string `gorm:"column:test_type"`
	Date      string `gorm:"column:test_date"`
	Timestamp string
	Scores    json.RawMessage `gorm:"type:jsonb"`
	FileName  string
	SessionID string
	CreatedAt time.Time
}

// SessionRow is the persisted summary of a complete battery session.
type SessionRow struct {
	ID           int `gorm:"primaryKey"`
	UserID       int
	Date         string
	TestTypes    pq.StringArray `gorm:"type:text[]"`
	TestCount    int
	Completeness float64
	AverageScore float64
	CreatedAt    time.Time
}

// BackupBlob is one best-effort off-device backup posted by a client.
type BackupBlob struct {
	ID        int `gorm:"primaryKey"`
	UserName  string
	TestData  json.RawMessage `gorm:"type:jsonb"`
	Timestamp string
	CreatedAt time.Time
}

// ToRow converts a TestRecord for storage.
func (r *TestRecord) ToRow(userID int) RecordRow {
	scores, err := json.Marshal(r.Scores)
	if err != nil {
		scores = json.RawMessage("{}")
	}
	return RecordRow{
		UserID:    userID,
		TestName:  r.TestName,
		Type:      r.Type,
		Date:      r.Date,
		Timestamp: r.Timestamp,
		Scores:    scores,
		FileName:  r.Metadata.FileName,
		SessionID: r.Metadata.SessionID,
	}
}

// ToRecord re-hydrates a stored row into the in-memory record form.
func (row *RecordRow) ToRecord() (TestRecord, error) {
	rec := TestRecord{
		TestName:  row.TestName,
		Type:      row.Type,
		Date:      row.Date,
		Timestamp: row.Timestamp,
		Metadata: Metadata{
			FileName:  row.FileName,
			SessionID: row.SessionID,
		},
	}
	if len(row.Scores) > 0 {
		if err := json.Unmarshal(row.Scores, &rec.Scores); err != nil {
			return rec, err
		}
	}
	return rec, nil
}
