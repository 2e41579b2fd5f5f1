package tags

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/tasktimeline/internal/domain"
)

var hexColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestHashColor_KnownValues(t *testing.T) {
	tests := map[string]string{
		"#Work":                                "#70717a",
		"#Home":                                "#a29f73",
		"Work":                                 "#959f8d",
		"#a_very_long_tag_name_that_overflows": "#6daac7",
		"#Ünïcode":                             "#6bc2af",
		"😀":                                    "#c7717f",
	}

	for tag, want := range tests {
		assert.Equal(t, want, HashColor(tag), tag)
	}
}

func TestHashColor_Shape(t *testing.T) {
	for _, tag := range []string{"", "#a", "#Work", "#some-really-long-tag-with-many-characters"} {
		c := HashColor(tag)
		require.Regexp(t, hexColor, c)
		for i := 1; i < 7; i += 2 {
			channel, err := strconv.ParseInt(c[i:i+2], 16, 64)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, channel, int64(100))
			assert.LessOrEqual(t, channel, int64(199))
		}
	}
}

func TestColorFor(t *testing.T) {
	overrides := map[string]string{"Work": "#ff0000"}

	assert.Equal(t, HashColor("#Work"), ColorFor("#Work", overrides, false, "#5a8eee"))
	assert.Equal(t, ColorFor("#Work", nil, false, "#5a8eee"), ColorFor("#Work", nil, false, "#5a8eee"))
	assert.NotEqual(t, ColorFor("#Work", nil, false, "#5a8eee"), ColorFor("#Home", nil, false, "#5a8eee"))

	assert.Equal(t, "#ff0000", ColorFor("#Work", overrides, true, "#5a8eee"))
	assert.Equal(t, "#ff0000", ColorFor("Work", overrides, true, "#5a8eee"))
	assert.Equal(t, "#5a8eee", ColorFor("#Home", overrides, true, "#5a8eee"))
	assert.Equal(t, domain.DefaultTagColor, ColorFor("#Home", overrides, true, ""))
}

func TestColorFor_StripsOnlyOneHash(t *testing.T) {
	overrides := map[string]string{"#Work": "#00ff00"}
	assert.Equal(t, "#00ff00", ColorFor("##Work", overrides, true, "#5a8eee"))
	assert.Equal(t, "#5a8eee", ColorFor("#Work", overrides, true, "#5a8eee"))
}

func TestNormalizeColor(t *testing.T) {
	c, err := NormalizeColor("#FF8800")
	require.NoError(t, err)
	assert.Equal(t, "#ff8800", c)

	_, err = NormalizeColor("orange")
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestWithColor(t *testing.T) {
	prefs := domain.NewPreferences()

	next, err := WithColor(prefs, "#Work", "#123456")
	require.NoError(t, err)

	assert.True(t, next.UseCustomColors)
	assert.Equal(t, "#123456", next.TagColors["Work"])
	// The caller's preferences are untouched.
	assert.False(t, prefs.UseCustomColors)
	assert.Empty(t, prefs.TagColors)

	_, err = WithColor(prefs, "#Work", "not-a-color")
	assert.Error(t, err)
}

func TestWithoutColor(t *testing.T) {
	prefs := domain.NewPreferences()
	prefs.TagColors["Work"] = "#123456"

	next := WithoutColor(prefs, "#Work")
	assert.Empty(t, next.TagColors)
	assert.Equal(t, "#123456", prefs.TagColors["Work"])
}

func TestWithMove(t *testing.T) {
	prefs := domain.NewPreferences()
	prefs.TagOrder = []string{"#A", "#B", "#C"}

	next := WithMove(prefs, "#C", "#A")
	assert.Equal(t, []string{"#C", "#A", "#B"}, next.TagOrder)
	assert.Equal(t, []string{"#A", "#B", "#C"}, prefs.TagOrder)
}

func TestColorize(t *testing.T) {
	prefs := domain.NewPreferences()
	prefs.UseCustomColors = true
	prefs.TagColors["Work"] = "#abcdef"

	groups := Colorize([]domain.TagGroup{{Tag: "#Work"}, {Tag: "#Home"}}, prefs)
	assert.Equal(t, "#abcdef", groups[0].Color)
	assert.Equal(t, domain.DefaultTagColor, groups[1].Color)

	groups = Colorize([]domain.TagGroup{{Tag: "#Work"}}, nil)
	assert.Equal(t, "#70717a", groups[0].Color)
}
