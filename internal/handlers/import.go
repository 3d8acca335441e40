package handlers

import (
	"errors"
	"io"
	"net/http"

	"mccb-go/internal/analytics"
	"mccb-go/internal/models"
	"mccb-go/internal/parser"
	"mccb-go/internal/repository"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImportHandler accepts batches of result XML files. A malformed file never
// aborts the batch: it is reported per file and the rest continues.
type ImportHandler struct {
	log     *zap.Logger
	parser  *parser.Parser
	engines *analytics.Manager
}

func NewImportHandler(log *zap.Logger, p *parser.Parser, engines *analytics.Manager) *ImportHandler {
	return &ImportHandler{log: log, parser: p, engines: engines}
}

type importFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

func (h *ImportHandler) ImportFiles(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}

	// One batch ID ties all records of this upload together.
	batchID := uuid.NewString()

	var imported []models.TestRecord
	var failures []importFailure
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			failures = append(failures, importFailure{File: fileHeader.Filename, Error: err.Error()})
			continue
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			failures = append(failures, importFailure{File: fileHeader.Filename, Error: err.Error()})
			continue
		}

		records, err := h.parser.Parse(string(data), fileHeader.Filename)
		if err != nil {
			var parseErr *parser.ParseError
			if errors.As(err, &parseErr) {
				h.log.Warn("Skipping malformed result file",
					zap.String("file", parseErr.FileName),
					zap.Error(parseErr.Err))
			}
			failures = append(failures, importFailure{File: fileHeader.Filename, Error: err.Error()})
			continue
		}
		for i := range records {
			if records[i].Metadata.SessionID == "" {
				records[i].Metadata.SessionID = batchID
			}
		}
		imported = append(imported, records...)
	}

	engine := h.engines.ForUser(userID)
	total := engine.Add(imported...)

	// Persistence is best effort: the in-memory collection is already live,
	// and the snapshot sweep resyncs any rows this write misses.
	if err := repository.SaveRecords(c, userID, imported); err != nil {
		h.log.Error("Failed to persist imported records", zap.Error(err), zap.Int("userID", userID))
	}
	if err := repository.ReplaceSessions(c, userID, engine.CompleteSessions(), analytics.SessionAverage); err != nil {
		h.log.Error("Failed to persist session summaries", zap.Error(err), zap.Int("userID", userID))
	}

	c.JSON(http.StatusOK, gin.H{
		"imported":      len(imported),
		"failedFiles":   len(failures),
		"failures":      failures,
		"totalRecords":  total,
		"unifyingScore": engine.UnifyingScore(),
	})
}

// currentUserID reads the authenticated user from the session cookie.
func currentUserID(c *gin.Context) (int, bool) {
	session := sessions.Default(c)
	userID, ok := session.Get("userID").(int)
	return userID, ok
}
