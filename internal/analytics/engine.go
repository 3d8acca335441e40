package analytics

import (
	"sort"
	"sync"

	"mccb-go/internal/models"

	"go.uber.org/zap"
)

// completeThreshold is the minimum number of distinct canonical instrument
// types a single-day group must cover to count as a complete battery session.
const completeThreshold = 7

// Engine owns the in-memory record collection and its derived views: the
// complete-session list and the deduplicated improvement pool. Categorize is
// a pure recompute over the full record set; repeated identical imports are
// made harmless by the dedup step, not by insertion logic.
type Engine struct {
	mu      sync.Mutex
	log     *zap.Logger
	battery *models.Battery

	records     []models.TestRecord
	improvement []models.TestRecord
	complete    []models.Session
}

func NewEngine(log *zap.Logger, battery *models.Battery) *Engine {
	return &Engine{log: log, battery: battery}
}

// Add appends imported records and recategorizes. It returns the new total.
func (e *Engine) Add(records ...models.TestRecord) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = append(e.records, records...)
	e.categorizeLocked()
	return len(e.records)
}

// Replace swaps in a freshly loaded record collection and recategorizes.
func (e *Engine) Replace(records []models.TestRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = append([]models.TestRecord(nil), records...)
	e.categorizeLocked()
}

// HydrateIfEmpty loads a stored collection into an engine that has no live
// records yet. A non-empty engine may hold imports that never reached
// storage, so it is never overwritten; the return reports whether the load
// happened.
func (e *Engine) HydrateIfEmpty(records []models.TestRecord) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.records) > 0 {
		return false
	}
	e.records = append([]models.TestRecord(nil), records...)
	e.categorizeLocked()
	return true
}

// Clear drops all state.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = nil
	e.improvement = nil
	e.complete = nil
}

func (e *Engine) Records() []models.TestRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.TestRecord(nil), e.records...)
}

// Improvement returns the deduplicated, type-then-date sorted flat record
// list used for trend analysis.
func (e *Engine) Improvement() []models.TestRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.TestRecord(nil), e.improvement...)
}

func (e *Engine) CompleteSessions() []models.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Session(nil), e.complete...)
}

// Categorize recomputes both derived views and returns them.
func (e *Engine) Categorize() ([]models.TestRecord, []models.Session) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.categorizeLocked()
	return append([]models.TestRecord(nil), e.improvement...),
		append([]models.Session(nil), e.complete...)
}

func (e *Engine) categorizeLocked() {
	e.improvement = nil
	e.complete = nil

	canonical := make(map[string]bool)
	for _, t := range e.battery.CanonicalTypes() {
		canonical[t] = true
	}
	canonicalCount := len(canonical)

	// Group records by calendar day, preserving first-seen date order so
	// that session output is stable across runs.
	groups := make(map[string][]models.TestRecord)
	var dateOrder []string
	for _, rec := range e.records {
		key := rec.DateKey()
		if _, seen := groups[key]; !seen {
			dateOrder = append(dateOrder, key)
		}
		groups[key] = append(groups[key], rec)
	}

	var working []models.TestRecord
	for _, date := range dateOrder {
		group := groups[date]

		var testTypes []string
		seenType := make(map[string]bool)
		for _, rec := range group {
			if !seenType[rec.Type] {
				seenType[rec.Type] = true
				testTypes = append(testTypes, rec.Type)
			}
		}

		// Only canonical instruments count toward completeness; a pile of
		// "Other" records never promotes a group to a session.
		mccbCount := 0
		for _, t := range testTypes {
			if canonical[t] {
				mccbCount++
			}
		}

		if mccbCount >= completeThreshold {
			e.complete = append(e.complete, models.Session{
				Date:         date,
				Tests:        append([]models.TestRecord(nil), group...),
				TestTypes:    testTypes,
				Completeness: float64(mccbCount) / float64(canonicalCount),
			})
		} else {
			working = append(working, group...)
		}
	}

	// Complete-session records are copied into the improvement pool too:
	// the same administration feeds both the session view and the per-type
	// trend view.
	for _, session := range e.complete {
		for i := range session.Tests {
			working = append(working, session.Tests[i].Clone())
		}
	}

	sort.SliceStable(working, func(i, j int) bool {
		if working[i].Type != working[j].Type {
			return working[i].Type < working[j].Type
		}
		return working[i].DateValue().Before(working[j].DateValue())
	})

	seen := make(map[string]bool, len(working))
	for i := range working {
		key := working[i].DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		e.improvement = append(e.improvement, working[i])
	}

	e.log.Debug("Categorized record collection",
		zap.Int("records", len(e.records)),
		zap.Int("improvement", len(e.improvement)),
		zap.Int("completeSessions", len(e.complete)))
}
