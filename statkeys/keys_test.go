package statkeys

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDay_UsesUTC(t *testing.T) {
	kyiv := time.FixedZone("EEST", 3*60*60)
	at := time.Date(2026, 5, 5, 1, 30, 0, 0, kyiv)

	assert.Equal(t, "2026-05-04", Day(at))
	assert.Equal(t, "analytics:dishes:daily:2026-05-04", DailyDishes(Day(at)))
}
