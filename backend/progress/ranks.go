package progress

// Patent tiers, one every 5000 questions. The last tier absorbs
// everything above 20000.
var patents = [...]string{
	"Andarilho de Vade Mecum",
	"Saco de Pancada da Banca",
	"Cadastro de Reserva",
	"Titã Nota de Corte",
	"Espartano Jurídico",
}

const patentStep = 5000

// Patent maps a cumulative question total to its rank label.
func Patent(totalQuestions int) string {
	idx := totalQuestions / patentStep
	if idx < 0 {
		idx = 0
	}
	if idx > len(patents)-1 {
		idx = len(patents) - 1
	}
	return patents[idx]
}

// Level is the coarse dashboard level, one per 1000 questions.
func Level(totalQuestions int) int {
	if totalQuestions < 0 {
		return 0
	}
	return totalQuestions / 1000
}

// NextPatent reports progress toward the next rank tier.
func NextPatent(totalQuestions int) (percent float64, current, remaining int) {
	current = totalQuestions % patentStep
	percent = float64(current) / patentStep * 100
	remaining = patentStep - current
	return percent, current, remaining
}

// Stars converts cumulative pages read into a gold/silver/bronze triple.
// One bronze unit per 1000 pages, three bronze to a silver, three silver
// to a gold (nine units), capped at exactly three gold.
func Stars(totalPages int) (gold, silver, bronze int) {
	unit := totalPages / 1000
	gold = unit / 9
	if gold >= 3 {
		return 3, 0, 0
	}
	rem := unit % 9
	return gold, rem / 3, rem % 3
}
