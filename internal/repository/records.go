package repository

import (
	"context"

	"mccb-go/internal/database"
	"mccb-go/internal/models"

	"gorm.io/gorm"
)

// SaveRecords persists a batch of imported records for a user in a single
// transaction. The rows are append-only; dedup happens at categorization.
func SaveRecords(ctx context.Context, userID int, records []models.TestRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]models.RecordRow, 0, len(records))
	for i := range records {
		rows = append(rows, records[i].ToRow(userID))
	}
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
}

// LoadRecords re-hydrates the full record collection for a user. Rows whose
// stored scores fail to decode are skipped rather than aborting the load.
func LoadRecords(ctx context.Context, userID int) ([]models.TestRecord, error) {
	var rows []models.RecordRow
	result := database.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("test_type, test_date").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	records := make([]models.TestRecord, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].ToRecord()
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// DeleteRecords drops all stored records and session summaries for a user.
func DeleteRecords(ctx context.Context, userID int) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.RecordRow{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&models.SessionRow{}).Error
	})
}

// ReplaceSessions rewrites a user's complete-session summaries from the
// engine's current categorization. Sessions are derived data, so replace
// rather than merge.
func ReplaceSessions(ctx context.Context, userID int, sessions []models.Session, average func(*models.Session) float64) error {
	rows := make([]models.SessionRow, 0, len(sessions))
	for i := range sessions {
		rows = append(rows, models.SessionRow{
			UserID:       userID,
			Date:         sessions[i].Date,
			TestTypes:    sessions[i].TestTypes,
			TestCount:    len(sessions[i].Tests),
			Completeness: sessions[i].Completeness,
			AverageScore: average(&sessions[i]),
		})
	}
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.SessionRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// SyncRecords rewrites a user's stored records from the engine's live
// collection. Used by the snapshot sweep to catch up after a failed
// import-time write; the delete-and-insert keeps the rows an exact mirror.
func SyncRecords(ctx context.Context, userID int, records []models.TestRecord) error {
	rows := make([]models.RecordRow, 0, len(records))
	for i := range records {
		rows = append(rows, records[i].ToRow(userID))
	}
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.RecordRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// CountRecords returns the number of stored records for a user.
func CountRecords(ctx context.Context, userID int) (int64, error) {
	var count int64
	err := database.DB.WithContext(ctx).
		Model(&models.RecordRow{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
