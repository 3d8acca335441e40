package repository

import (
	"context"
	"encoding/json"
	"time"

	"mccb-go/internal/database"
	"mccb-go/internal/models"
)

// SaveBackup stores one client-posted backup blob. The payload is kept
// verbatim; backups are write-mostly and never interpreted server-side.
func SaveBackup(ctx context.Context, userName string, testData json.RawMessage, timestamp string) error {
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	blob := models.BackupBlob{
		UserName:  userName,
		TestData:  testData,
		Timestamp: timestamp,
	}
	return database.DB.WithContext(ctx).Create(&blob).Error
}

// ListBackups returns the most recent backups for a user, newest first.
func ListBackups(ctx context.Context, userName string, limit int) ([]models.BackupBlob, error) {
	var blobs []models.BackupBlob
	query := database.DB.WithContext(ctx).
		Where("user_name = ?", userName).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&blobs).Error
	return blobs, err
}
