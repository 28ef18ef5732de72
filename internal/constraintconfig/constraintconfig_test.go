package constraintconfig_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolsched/schoolsched/internal/constraintconfig"
)

func TestParseCollectsKnownAndCustomTags(t *testing.T) {
	doc := `
# weekly policy
HARD: NO_TEACHER_CONFLICT | teachers never double-booked
HARD: LUNCH_BLOCK_RESERVED | period 4 reserved for lunch
SOFT: BALANCED_SECTIONS | keep section sizes even | weight=0.6
GOAL: minimize unassigned electives
CONFIG: PERIODS_PER_DAY=7
CONFIG: DAYS_PER_WEEK=5
CONFIG: ROOM_BUFFER_MINUTES=10
`
	manifest, overrides, err := constraintconfig.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	require.Len(t, manifest.Hard, 1)
	assert.Equal(t, "NO_TEACHER_CONFLICT", manifest.Hard[0].Name)
	assert.Equal(t, "teachers never double-booked", manifest.Hard[0].Description)

	require.Len(t, manifest.Soft, 1)
	assert.Equal(t, "BALANCED_SECTIONS", manifest.Soft[0].Name)
	assert.Equal(t, 0.6, manifest.Soft[0].Weight)

	assert.Equal(t, []string{"LUNCH_BLOCK_RESERVED"}, manifest.Custom)
	assert.Equal(t, []string{"minimize unassigned electives"}, manifest.Goals)

	require.NotNil(t, overrides.PeriodsPerDay)
	assert.Equal(t, 7, *overrides.PeriodsPerDay)
	require.NotNil(t, overrides.DaysPerWeek)
	assert.Equal(t, 5, *overrides.DaysPerWeek)
}

func TestParseBareNameWithNoDescription(t *testing.T) {
	manifest, _, err := constraintconfig.Parse(strings.NewReader("HARD: ROOM_CAPACITY\n"))
	require.NoError(t, err)
	require.Len(t, manifest.Hard, 1)
	assert.Equal(t, "ROOM_CAPACITY", manifest.Hard[0].Name)
	assert.Empty(t, manifest.Hard[0].Description)
}

func TestParseIgnoresUnknownConfigKey(t *testing.T) {
	manifest, overrides, err := constraintconfig.Parse(strings.NewReader("CONFIG: SOME_FUTURE_KEY=banana\n"))
	require.NoError(t, err)
	assert.Nil(t, overrides.PeriodsPerDay)
	assert.Nil(t, overrides.DaysPerWeek)
	assert.Empty(t, manifest.Hard)
}

func TestParseRejectsSoftWeightOutsideUnitInterval(t *testing.T) {
	_, _, err := constraintconfig.Parse(strings.NewReader("SOFT: MINIMIZE_GAPS | keep gaps small | weight=1.5\n"))
	require.Error(t, err)
}

func TestParseRejectsUnrecognizedDirective(t *testing.T) {
	_, _, err := constraintconfig.Parse(strings.NewReader("WEIRD: whatever\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestParseRejectsMalformedConfigValue(t *testing.T) {
	_, _, err := constraintconfig.Parse(strings.NewReader("CONFIG: PERIODS_PER_DAY=eight\n"))
	require.Error(t, err)
}
