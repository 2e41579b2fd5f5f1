package pattern

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_DefaultPattern(t *testing.T) {
	compiled, err := Compile(DefaultPattern)
	require.NoError(t, err)

	assert.Equal(t, DefaultPattern, compiled.Source())
	assert.Equal(t, DefaultMatchTimeout, compiled.Regexp().MatchTimeout)

	m, err := compiled.Regexp().FindStringMatch("Ship it -> _05-Mar-2024_ #Work")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "Ship it", m.GroupByNumber(1).String())
	assert.Equal(t, "05-Mar-2024", m.GroupByNumber(2).String())
	assert.Equal(t, "#Work", m.GroupByNumber(3).String())
}

func TestCompile_InvalidSyntax(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty", ""},
		{"unbalanced paren", `(.+?`},
		{"unterminated class", `(a)(b)([c)`},
		{"too few groups", `(.+?)\s*->\s*(#\w+)`},
		{"too many groups", `(a)(b)(c)(d)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled, err := Compile(tt.source)
			assert.Nil(t, compiled)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSyntax))

			var perr *Error
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, InvalidSyntax, perr.Kind)
			assert.Equal(t, tt.source, perr.Source)
		})
	}
}

func TestCompile_NonCapturingGroupsDoNotCount(t *testing.T) {
	_, err := Compile(`(?:- )?(.+?) (\d{1,2}-\w{3}-\d{4}) (#\w+)`)
	assert.NoError(t, err)
}

func TestCompile_MatchTimeoutOption(t *testing.T) {
	compiled, err := Compile(DefaultPattern, WithMatchTimeout(50*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, compiled.Regexp().MatchTimeout)
}

func TestHolder_KeepsLastKnownGood(t *testing.T) {
	holder := NewHolder()
	assert.Nil(t, holder.Current())

	good, err := holder.Update(DefaultPattern)
	require.NoError(t, err)
	require.NotNil(t, good)

	// A broken edit reports the error but keeps the previous pattern.
	current, err := holder.Update(`(broken`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSyntax)
	assert.Same(t, good, current)
	assert.Same(t, good, holder.Current())

	// Same source is not recompiled.
	again, err := holder.Update(DefaultPattern)
	require.NoError(t, err)
	assert.Same(t, good, again)
}

func TestHolder_NoPatternYet(t *testing.T) {
	holder := NewHolder()

	current, err := holder.Update(`(only)(two)`)
	assert.Error(t, err)
	assert.Nil(t, current)
}
