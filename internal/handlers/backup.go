package handlers

import (
	"encoding/json"
	"net/http"

	"mccb-go/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BackupHandler accepts best-effort off-device backups posted by clients.
// Failures are logged and reported but never block the client's workflow.
type BackupHandler struct {
	log *zap.Logger
}

func NewBackupHandler(log *zap.Logger) *BackupHandler {
	return &BackupHandler{log: log}
}

type backupRequest struct {
	UserName  string          `json:"userName" binding:"required"`
	TestData  json.RawMessage `json:"testData" binding:"required"`
	Timestamp string          `json:"timestamp"`
}

func (h *BackupHandler) Save(c *gin.Context) {
	var req backupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userName and testData are required"})
		return
	}

	if err := repository.SaveBackup(c, req.UserName, req.TestData, req.Timestamp); err != nil {
		h.log.Warn("Failed to store backup blob",
			zap.Error(err),
			zap.String("userName", req.UserName))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Backup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (h *BackupHandler) List(c *gin.Context) {
	userName := c.Query("userName")
	if userName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userName parameter"})
		return
	}

	blobs, err := repository.ListBackups(c, userName, 20)
	if err != nil {
		h.log.Error("Failed to list backups", zap.Error(err), zap.String("userName", userName))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load backups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"backups": blobs})
}
