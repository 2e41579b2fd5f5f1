package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarDate_String(t *testing.T) {
	assert.Equal(t, "05-Mar-2024", NewCalendarDate(2024, time.March, 5).String())
	assert.Equal(t, "31-Dec-1999", NewCalendarDate(1999, time.December, 31).String())
	assert.Equal(t, "2024-03-05", NewCalendarDate(2024, time.March, 5).ISO())
}

func TestCalendarDate_Compare(t *testing.T) {
	a := NewCalendarDate(2024, time.February, 10)
	b := NewCalendarDate(2024, time.April, 1)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, 1, NewCalendarDate(2025, time.January, 1).Compare(b))
}

func TestCalendarDate_AddDays(t *testing.T) {
	d := NewCalendarDate(2024, time.February, 28)

	assert.Equal(t, NewCalendarDate(2024, time.February, 29), d.AddDays(1))
	assert.Equal(t, NewCalendarDate(2024, time.March, 1), d.AddDays(2))
	assert.Equal(t, NewCalendarDate(2024, time.January, 31), d.AddDays(-28))
}

func TestCalendarDate_JSONMapKey(t *testing.T) {
	d := NewCalendarDate(2024, time.March, 5)
	data, err := json.Marshal(map[CalendarDate]int{d: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"2024-03-05": 2}`, string(data))

	var back map[CalendarDate]int
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 2, back[d])
}

func TestIsCompletedText(t *testing.T) {
	assert.True(t, IsCompletedText("[x] Done"))
	assert.True(t, IsCompletedText("- [x] Done"))
	assert.False(t, IsCompletedText("[X] Upper case is not a marker"))
	assert.False(t, IsCompletedText("- [ ] Open"))
	assert.False(t, IsCompletedText("Done [x]"))
}

func TestPreferences_Clone(t *testing.T) {
	prefs := NewPreferences()
	prefs.TagOrder = append(prefs.TagOrder, "#Work")
	prefs.TagColors["Work"] = "#112233"

	clone := prefs.Clone()
	clone.TagOrder[0] = "#Home"
	clone.TagColors["Work"] = "#000000"

	assert.Equal(t, "#Work", prefs.TagOrder[0])
	assert.Equal(t, "#112233", prefs.TagColors["Work"])
	assert.Equal(t, DefaultTagColor, clone.DefaultColor)
}

func TestPreferences_CloneNil(t *testing.T) {
	var prefs *Preferences
	clone := prefs.Clone()
	require.NotNil(t, clone)
	assert.Empty(t, clone.TagOrder)
	assert.Equal(t, DefaultTagColor, clone.DefaultColor)
}
