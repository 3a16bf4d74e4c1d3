package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatentBoundaries(t *testing.T) {
	assert.Equal(t, "Andarilho de Vade Mecum", Patent(0))
	assert.Equal(t, "Andarilho de Vade Mecum", Patent(4999))
	assert.Equal(t, "Saco de Pancada da Banca", Patent(5000))
	assert.Equal(t, "Cadastro de Reserva", Patent(10000))
	assert.Equal(t, "Titã Nota de Corte", Patent(15000))
	assert.Equal(t, "Espartano Jurídico", Patent(20000))
	// The last tier absorbs everything above it.
	assert.Equal(t, "Espartano Jurídico", Patent(25000))
	assert.Equal(t, "Espartano Jurídico", Patent(1000000))
}

func TestLevel(t *testing.T) {
	assert.Equal(t, 0, Level(999))
	assert.Equal(t, 1, Level(1000))
	assert.Equal(t, 12, Level(12500))
}

func TestNextPatent(t *testing.T) {
	percent, current, remaining := NextPatent(1234)
	assert.InDelta(t, 24.68, percent, 0.001)
	assert.Equal(t, 1234, current)
	assert.Equal(t, 3766, remaining)

	percent, current, remaining = NextPatent(5000)
	assert.Equal(t, 0.0, percent)
	assert.Equal(t, 0, current)
	assert.Equal(t, 5000, remaining)
}

func TestStars(t *testing.T) {
	cases := []struct {
		pages  int
		gold   int
		silver int
		bronze int
	}{
		{0, 0, 0, 0},
		{999, 0, 0, 0},
		{1000, 0, 0, 1},
		{2999, 0, 0, 2},
		{3000, 0, 1, 0},
		{4000, 0, 1, 1},
		{9000, 1, 0, 0},
		{12000, 1, 1, 0},
		{18000, 2, 0, 0},
		{26999, 2, 2, 2},
		{27000, 3, 0, 0},
		// Cap at three gold, no spillover.
		{100000, 3, 0, 0},
	}

	for _, tc := range cases {
		g, s, b := Stars(tc.pages)
		assert.Equal(t, tc.gold, g, "pages %d gold", tc.pages)
		assert.Equal(t, tc.silver, s, "pages %d silver", tc.pages)
		assert.Equal(t, tc.bronze, b, "pages %d bronze", tc.pages)
	}
}
