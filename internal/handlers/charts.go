package handlers

import (
	"net/http"

	"mccb-go/internal/analytics"
	"mccb-go/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartsHandler serves ready-to-render ECharts option documents. The client
// feeds them straight into echarts.setOption.
type ChartsHandler struct {
	log     *zap.Logger
	engines *analytics.Manager
}

func NewChartsHandler(log *zap.Logger, engines *analytics.Manager) *ChartsHandler {
	return &ChartsHandler{log: log, engines: engines}
}

// ScoreTimeline charts one instrument type's comparable score over time.
func (h *ChartsHandler) ScoreTimeline(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	testType := c.Query("type")
	if testType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing type parameter"})
		return
	}

	data, err := repository.GetScoreTimeline(c, userID, testType)
	if err != nil {
		h.log.Error("Failed to get score timeline", zap.Error(err), zap.String("type", testType))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load timeline data"})
		return
	}

	c.JSON(http.StatusOK, generateTimelineChart(data, testType).JSON())
}

// SessionHistory charts the average score of every complete battery session.
func (h *ChartsHandler) SessionHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	data, err := repository.GetSessionHistory(c, userID)
	if err != nil {
		h.log.Error("Failed to get session history", zap.Error(err), zap.Int("userID", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session data"})
		return
	}

	c.JSON(http.StatusOK, generateSessionChart(data).JSON())
}

// TypeComparison charts the mean comparable score per instrument type.
func (h *ChartsHandler) TypeComparison(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	stats := h.engines.ForUser(userID).TypeStatistics()
	c.JSON(http.StatusOK, generateComparisonChart(stats).JSON())
}

// ErrorAnalysis charts the failed/low/acceptable score distribution.
func (h *ChartsHandler) ErrorAnalysis(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	dist := h.engines.ForUser(userID).ScoreDistribution()
	c.JSON(http.StatusOK, generateDistributionChart(dist).JSON())
}

func generateTimelineChart(data []repository.TimelineDataPoint, testType string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Score Over Time",
			Subtitle: testType,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	items := make([]opts.LineData, 0)
	for _, point := range data {
		items = append(items, opts.LineData{Value: []interface{}{point.Date, point.Value}})
	}

	line.AddSeries(testType, items).SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}

func generateSessionChart(data []repository.SessionDataPoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Complete Session Averages",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	dates := make([]string, 0, len(data))
	averages := make([]opts.LineData, 0, len(data))
	completeness := make([]opts.LineData, 0, len(data))
	for _, point := range data {
		dates = append(dates, point.Date)
		averages = append(averages, opts.LineData{Value: point.AverageScore})
		completeness = append(completeness, opts.LineData{Value: point.Completeness * 100})
	}

	line.SetXAxis(dates).
		AddSeries("Average Score", averages).
		AddSeries("Completeness %", completeness)
	return line
}

func generateComparisonChart(stats []analytics.TypeStats) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Mean Score by Instrument",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	types := make([]string, 0, len(stats))
	means := make([]opts.BarData, 0, len(stats))
	for _, st := range stats {
		types = append(types, st.Type)
		means = append(means, opts.BarData{Value: st.Mean})
	}

	bar.SetXAxis(types).AddSeries("Mean Score", means)
	return bar
}

func generateDistributionChart(dist analytics.Distribution) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Score Distribution",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	pie.AddSeries("Scores", []opts.PieData{
		{Name: "Failed (<20)", Value: dist.Failed},
		{Name: "Low (20-49)", Value: dist.Low},
		{Name: "Acceptable (50+)", Value: dist.Acceptable},
	})
	return pie
}
