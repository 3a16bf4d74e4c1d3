package progress

import (
	"sort"
	"time"

	"github.com/fuxconcurseiro/spartajus-backend/backend/models"
)

const dateLayout = "2006-01-02"

// Brasilia is the fixed reference zone for "today". Streaks must not
// flip depending on where the server runs.
var Brasilia = time.FixedZone("UTC-3", -3*60*60)

// Streak counts consecutive studied calendar days ending at today or
// yesterday relative to now. Duplicate dates are deduplicated before the
// walk; a gap of more than one day before now breaks the streak to 0.
func Streak(now time.Time, logs []models.StudyLog) int {
	seen := make(map[string]bool)
	var dates []string
	for _, l := range logs {
		if l.Studied && !seen[l.Date] {
			seen[l.Date] = true
			dates = append(dates, l.Date)
		}
	}
	if len(dates) == 0 {
		return 0
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	last, err := time.Parse(dateLayout, dates[0])
	if err != nil {
		return 0
	}

	local := now.In(Brasilia)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	if int(today.Sub(last).Hours()/24) > 1 {
		return 0
	}

	streak := 0
	cursor := last
	for _, ds := range dates {
		d, err := time.Parse(dateLayout, ds)
		if err != nil {
			continue
		}
		if d.Equal(cursor) {
			streak++
			cursor = cursor.AddDate(0, 0, -1)
		} else if d.Before(cursor) {
			break
		}
	}
	return streak
}
