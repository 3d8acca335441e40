package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"mccb-go/internal/analytics"
	"mccb-go/internal/config"
	"mccb-go/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExportHandler serves the XML export and merge documents as downloads.
type ExportHandler struct {
	log     *zap.Logger
	engines *analytics.Manager
}

func NewExportHandler(log *zap.Logger, engines *analytics.Manager) *ExportHandler {
	return &ExportHandler{log: log, engines: engines}
}

// Export streams the full MCCB_Exported_Results document. Re-importing it
// reproduces the collection.
func (h *ExportHandler) Export(c *gin.Context) {
	h.serve(c, "MCCB_Results", func(x *analytics.Exporter, userName string) (string, error) {
		return x.Export(userName)
	})
}

// Merge streams the MCCB_Merged_Results document, the identity-free variant
// meant for handing records to another practice.
func (h *ExportHandler) Merge(c *gin.Context) {
	h.serve(c, "MCCB_Merged", func(x *analytics.Exporter, userName string) (string, error) {
		return x.Merge(userName)
	})
}

// SaveMerged persists the merged document server-side. If the write fails,
// the document comes back in the response body so the client can fall back
// to a local download.
func (h *ExportHandler) SaveMerged(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	userName := ""
	if user, err := repository.GetUserByID(c, userID); err == nil {
		userName = user.DisplayName
	}

	exporter := analytics.NewExporter(h.engines.ForUser(userID))
	xml, err := exporter.Merge(userName)
	if err != nil {
		h.log.Error("Failed to build merge document", zap.Error(err), zap.Int("userID", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build merge"})
		return
	}

	fileName := analytics.ExportFileName("MCCB_Merged", userName)
	dir := config.Conf.Analytics.ExportDir
	path := filepath.Join(dir, fileName)
	if err := os.MkdirAll(dir, 0755); err == nil {
		err = os.WriteFile(path, []byte(xml), 0644)
	}
	if err != nil {
		h.log.Warn("Failed to save merged document, returning for download",
			zap.Error(err),
			zap.String("path", path))
		c.JSON(http.StatusOK, gin.H{"saved": false, "fileName": fileName, "document": xml})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": true, "fileName": fileName})
}

func (h *ExportHandler) serve(c *gin.Context, prefix string, build func(*analytics.Exporter, string) (string, error)) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	userName := ""
	if user, err := repository.GetUserByID(c, userID); err == nil {
		userName = user.DisplayName
	}

	exporter := analytics.NewExporter(h.engines.ForUser(userID))
	xml, err := build(exporter, userName)
	if err != nil {
		h.log.Error("Failed to build export document", zap.Error(err), zap.Int("userID", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	fileName := analytics.ExportFileName(prefix, userName)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(xml))
}
