package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatHistory(t *testing.T) {
	// выборка приходит новыми вперёд
	rows := []historyRow{
		{price: 4990, checkedAt: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)},
		{price: 5200, checkedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		{price: 5500, checkedAt: time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)},
	}

	points := formatHistory(rows)

	assert.Len(t, points, 3)

	// хронологический порядок, дата без года
	assert.Equal(t, "27.02", points[0].Date)
	assert.Equal(t, 5500, points[0].Price)
	assert.Equal(t, "01.03", points[1].Date)
	assert.Equal(t, "02.03", points[2].Date)
	assert.Equal(t, 4990, points[2].Price)
}

func TestFormatHistory_Empty(t *testing.T) {
	points := formatHistory(nil)

	assert.NotNil(t, points)
	assert.Empty(t, points)
}
