package progress

import (
	"sort"

	"github.com/fuxconcurseiro/spartajus-backend/backend/models"
)

// DayTotal is one point of the question-evolution series.
type DayTotal struct {
	Date      string `json:"date"`
	Questions int    `json:"questions"`
}

// FilterRange keeps the logs whose date falls inside [from, to]. Empty
// bounds are open. ISO dates compare correctly as strings.
func FilterRange(logs []models.StudyLog, from, to string) []models.StudyLog {
	out := make([]models.StudyLog, 0, len(logs))
	for _, l := range logs {
		if from != "" && l.Date < from {
			continue
		}
		if to != "" && l.Date > to {
			continue
		}
		out = append(out, l)
	}
	return out
}

// AggregateSubjects sums answered questions per subject over the given
// logs. A nil selection means every subject; entries without a breakdown
// contribute nothing.
func AggregateSubjects(logs []models.StudyLog, selected map[string]bool) map[string]int {
	out := make(map[string]int)
	for _, l := range logs {
		for subject, n := range l.Breakdown {
			if selected != nil && !selected[subject] {
				continue
			}
			out[subject] += n
		}
	}
	return out
}

// AggregateMinutes sums parsed study time per subject. Unparseable
// duration strings contribute zero and are dropped.
func AggregateMinutes(logs []models.StudyLog) map[string]int {
	out := make(map[string]int)
	for _, l := range logs {
		for subject, raw := range l.Durations {
			if mins := ParseDuration(raw); mins > 0 {
				out[subject] += mins
			}
		}
	}
	return out
}

// TotalMinutes sums every parseable duration across the given logs.
func TotalMinutes(logs []models.StudyLog) int {
	total := 0
	for _, m := range AggregateMinutes(logs) {
		total += m
	}
	return total
}

// DailySeries groups question totals by date, ascending. Dates are
// unique per user by construction, but grouping keeps the series correct
// even over a raw edited collection.
func DailySeries(logs []models.StudyLog) []DayTotal {
	byDate := make(map[string]int)
	for _, l := range logs {
		byDate[l.Date] += l.Questions
	}
	out := make([]DayTotal, 0, len(byDate))
	for d, q := range byDate {
		out = append(out, DayTotal{Date: d, Questions: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// SubjectLabels returns the subjects of an aggregate in a stable order,
// so the same filtered set always renders the same way.
func SubjectLabels(agg map[string]int) []string {
	labels := make([]string, 0, len(agg))
	for s := range agg {
		labels = append(labels, s)
	}
	sort.Strings(labels)
	return labels
}
