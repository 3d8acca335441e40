package handlers

import (
	"net/http"

	"mccb-go/internal/analytics"
	"mccb-go/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ResultsHandler struct {
	log     *zap.Logger
	engines *analytics.Manager
}

func NewResultsHandler(log *zap.Logger, engines *analytics.Manager) *ResultsHandler {
	return &ResultsHandler{log: log, engines: engines}
}

// Summary is the headline view: the unifying score, its interpretation and
// the collection counters.
func (h *ResultsHandler) Summary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	engine := h.engines.ForUser(userID)

	score := engine.UnifyingScore()
	c.JSON(http.StatusOK, gin.H{
		"totalRecords":     len(engine.Records()),
		"improvementPool":  len(engine.Improvement()),
		"completeSessions": len(engine.CompleteSessions()),
		"unifyingScore":    score,
		"interpretation":   analytics.Interpretation(score),
		"distribution":     engine.ScoreDistribution(),
	})
}

type recordView struct {
	TestName         string  `json:"testName"`
	Type             string  `json:"type"`
	Date             string  `json:"date"`
	Timestamp        string  `json:"timestamp"`
	Score            float64 `json:"score"`
	PerformanceLabel string  `json:"performanceLabel"`
	FileName         string  `json:"fileName"`
}

// Records lists every stored administration with its comparable score.
func (h *ResultsHandler) Records(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	records := h.engines.ForUser(userID).Records()

	views := make([]recordView, 0, len(records))
	for i := range records {
		score := analytics.ScoreOf(&records[i])
		views = append(views, recordView{
			TestName:         records[i].TestName,
			Type:             records[i].Type,
			Date:             records[i].Date,
			Timestamp:        records[i].Timestamp,
			Score:            score,
			PerformanceLabel: analytics.PerformanceLabel(score),
			FileName:         records[i].Metadata.FileName,
		})
	}
	c.JSON(http.StatusOK, gin.H{"records": views})
}

// TypeStatistics returns the per-instrument breakdown.
func (h *ResultsHandler) TypeStatistics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"types": h.engines.ForUser(userID).TypeStatistics()})
}

// ImprovementTrends returns per-type first-vs-last progress.
func (h *ResultsHandler) ImprovementTrends(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": h.engines.ForUser(userID).ImprovementTrends()})
}

type sessionView struct {
	Date         string   `json:"date"`
	TestTypes    []string `json:"testTypes"`
	TestCount    int      `json:"testCount"`
	Completeness float64  `json:"completeness"`
	AverageScore float64  `json:"averageScore"`
}

// Sessions lists the complete battery sessions.
func (h *ResultsHandler) Sessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	sessions := h.engines.ForUser(userID).CompleteSessions()

	views := make([]sessionView, 0, len(sessions))
	for i := range sessions {
		views = append(views, sessionView{
			Date:         sessions[i].Date,
			TestTypes:    sessions[i].TestTypes,
			TestCount:    len(sessions[i].Tests),
			Completeness: sessions[i].Completeness,
			AverageScore: analytics.SessionAverage(&sessions[i]),
		})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": views})
}

// Clear drops the user's full collection, in memory and in storage.
func (h *ResultsHandler) Clear(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	h.engines.ForUser(userID).Clear()
	if err := repository.DeleteRecords(c, userID); err != nil {
		h.log.Error("Failed to delete stored records", zap.Error(err), zap.Int("userID", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear results"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
