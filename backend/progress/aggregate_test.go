package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fuxconcurseiro/spartajus-backend/backend/models"
)

func sampleLogs() []models.StudyLog {
	return []models.StudyLog{
		{Date: "2026-08-01", Questions: 8, Breakdown: map[string]int{"A": 5, "B": 3}},
		{Date: "2026-08-02", Questions: 2, Breakdown: map[string]int{"A": 2}},
		{Date: "2026-08-03", Questions: 4}, // no breakdown
	}
}

func TestAggregateSubjectsFiltered(t *testing.T) {
	got := AggregateSubjects(sampleLogs(), map[string]bool{"A": true})
	assert.Equal(t, map[string]int{"A": 7}, got)
}

func TestAggregateSubjectsAll(t *testing.T) {
	got := AggregateSubjects(sampleLogs(), nil)
	assert.Equal(t, map[string]int{"A": 7, "B": 3}, got)
}

func TestAggregateSubjectsToleratesMissingBreakdown(t *testing.T) {
	got := AggregateSubjects([]models.StudyLog{{Date: "2026-08-03", Questions: 4}}, nil)
	assert.Empty(t, got)
}

func TestFilterRange(t *testing.T) {
	logs := sampleLogs()

	assert.Len(t, FilterRange(logs, "", ""), 3)
	assert.Len(t, FilterRange(logs, "2026-08-02", ""), 2)
	assert.Len(t, FilterRange(logs, "", "2026-08-01"), 1)
	assert.Len(t, FilterRange(logs, "2026-08-02", "2026-08-02"), 1)
	assert.Empty(t, FilterRange(logs, "2026-09-01", ""))
}

func TestAggregateMinutes(t *testing.T) {
	logs := []models.StudyLog{
		{Date: "2026-08-01", Durations: map[string]string{"A": "1h30m", "B": "nonsense"}},
		{Date: "2026-08-02", Durations: map[string]string{"A": "45m"}},
	}
	got := AggregateMinutes(logs)
	assert.Equal(t, map[string]int{"A": 135}, got)
	assert.Equal(t, 135, TotalMinutes(logs))
}

func TestDailySeries(t *testing.T) {
	series := DailySeries(sampleLogs())
	assert.Equal(t, []DayTotal{
		{Date: "2026-08-01", Questions: 8},
		{Date: "2026-08-02", Questions: 2},
		{Date: "2026-08-03", Questions: 4},
	}, series)
}

func TestSubjectLabelsStableOrder(t *testing.T) {
	agg := map[string]int{"Penal": 1, "Civil": 2, "Administrativo": 3}
	assert.Equal(t, []string{"Administrativo", "Civil", "Penal"}, SubjectLabels(agg))
	// Same input, same order, every time.
	assert.Equal(t, SubjectLabels(agg), SubjectLabels(agg))
}
