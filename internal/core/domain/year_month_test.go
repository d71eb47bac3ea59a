package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearMonthOf(t *testing.T) {
	assert.Equal(t, YearMonth("2024-03"), YearMonthOf(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)))

	// 2024-04-01 01:00 in UTC+8 is still March in UTC
	shanghai := time.FixedZone("UTC+8", 8*3600)
	assert.Equal(t, YearMonth("2024-03"), YearMonthOf(time.Date(2024, 4, 1, 1, 0, 0, 0, shanghai)))
}

func TestParseYearMonth(t *testing.T) {
	ym, err := ParseYearMonth("2024-03")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", ym.String())

	for _, bad := range []string{"", "2024-3", "2024-13", "03-2024", "2024-03-01"} {
		_, err := ParseYearMonth(bad)
		assert.Error(t, err, bad)
	}
}
