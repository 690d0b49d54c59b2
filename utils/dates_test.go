package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-06-06 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-06-06T23:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-06", FormatDate(d))

	_, err = ParseDate("06/06/2024")
	assert.Error(t, err)
}

func TestNightsAndEachNight(t *testing.T) {
	in := time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC)
	out := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, Nights(in, out))
	assert.Equal(t, 0, Nights(out, in))
	assert.Equal(t, 0, Nights(in, in))
	assert.Equal(t, 1, Nights(in, in.Add(2*time.Hour)))

	nights := EachNight(in, out)
	require.Len(t, nights, 3)
	assert.Equal(t, "2024-06-08", FormatDate(nights[2]))
	assert.Empty(t, EachNight(out, in))
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 200.0, RoundMoney(199.999))
	assert.Equal(t, 12.35, RoundMoney(12.346))
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"hu", "en"}, SplitCSV(" hu, ,en,"))
	assert.Empty(t, SplitCSV(""))
}
