package progress

import (
	"sort"
	"strconv"
	"strings"

	"github.com/fuxconcurseiro/spartajus-backend/backend/models"
)

// Studied is the study-day predicate: any pages read or questions
// answered make the day count.
func Studied(pages, questions int) bool {
	return pages > 0 || questions > 0
}

// ParseBreakdown parses "Direito Penal: 30, Constitucional: 15" into a
// subject -> question count map. Tokens without a colon are skipped;
// non-numeric counts default to 0.
func ParseBreakdown(raw string) map[string]int {
	out := make(map[string]int)
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" || !strings.Contains(tok, ":") {
			continue
		}
		parts := strings.SplitN(tok, ":", 2)
		name := strings.TrimSpace(parts[0])
		if name == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || n < 0 {
			n = 0
		}
		out[name] += n
	}
	return out
}

// SumBreakdown returns the canonical questions total for a log that
// carries a per-subject breakdown.
func SumBreakdown(breakdown map[string]int) int {
	total := 0
	for _, n := range breakdown {
		total += n
	}
	return total
}

// Normalize recomputes the derived fields of a log entry. When a
// breakdown is present the questions total is taken from it, so the two
// representations cannot drift apart. A legacy entry already flagged as
// studied keeps its flag even if its counters are zero.
func Normalize(entry *models.StudyLog) {
	if len(entry.Breakdown) > 0 {
		entry.Questions = SumBreakdown(entry.Breakdown)
	}
	if entry.Pages < 0 {
		entry.Pages = 0
	}
	if entry.Questions < 0 {
		entry.Questions = 0
	}
	if entry.WorkoutSets < 0 {
		entry.WorkoutSets = 0
	}
	entry.Studied = entry.Studied || Studied(entry.Pages, entry.Questions)
}

// TreeDelta is the per-day tree adjustment: a studied day grows one
// branch, a wasted day costs two.
func TreeDelta(studied bool) int {
	if studied {
		return 1
	}
	return -2
}

// ClampTree keeps the counter from going negative.
func ClampTree(branches int) int {
	if branches < 0 {
		return 0
	}
	return branches
}

// RebuildTree recomputes the tree counter from scratch by replaying the
// whole history in date order from a base of 1, clamping at every step.
func RebuildTree(logs []models.StudyLog) int {
	ordered := make([]models.StudyLog, len(logs))
	copy(ordered, logs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Date < ordered[j].Date })

	branches := 1
	for _, l := range ordered {
		branches = ClampTree(branches + TreeDelta(l.Studied))
	}
	return branches
}
