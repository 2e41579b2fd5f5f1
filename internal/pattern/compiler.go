// Package pattern compiles user-supplied task extraction patterns.
//
// Patterns are written in the ECMAScript regular expression dialect and must
// define exactly three capture groups, in order: task text, date token, tag.
package pattern

import (
	"errors"
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// RequiredGroups is the number of capture groups a pattern must define.
const RequiredGroups = 3

// DefaultMatchTimeout bounds a single match attempt.
const DefaultMatchTimeout = 2 * time.Second

type ErrorKind string

const InvalidSyntax ErrorKind = "InvalidSyntax"

// ErrInvalidSyntax matches any *Error of kind InvalidSyntax via errors.Is.
var ErrInvalidSyntax = errors.New("invalid pattern syntax")

// Error reports a pattern that could not be compiled.
type Error struct {
	Kind   ErrorKind
	Source string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pattern %q: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == ErrInvalidSyntax && e.Kind == InvalidSyntax
}

// Compiled is a validated extraction pattern. It is safe for concurrent use.
type Compiled struct {
	source string
	re     *regexp2.Regexp
}

func (c *Compiled) Source() string { return c.source }

// Regexp exposes the underlying matcher to the extractor.
func (c *Compiled) Regexp() *regexp2.Regexp { return c.re }

type options struct {
	matchTimeout time.Duration
}

type Option func(*options)

// WithMatchTimeout sets the per-match timeout. Zero or negative disables it.
func WithMatchTimeout(d time.Duration) Option {
	return func(o *options) { o.matchTimeout = d }
}

// Compile validates source and returns a compiled pattern or an *Error.
func Compile(source string, opts ...Option) (*Compiled, error) {
	o := options{matchTimeout: DefaultMatchTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	if source == "" {
		return nil, &Error{Kind: InvalidSyntax, Source: source, Err: errors.New("empty pattern")}
	}

	re, err := regexp2.Compile(source, regexp2.ECMAScript)
	if err != nil {
		return nil, &Error{Kind: InvalidSyntax, Source: source, Err: err}
	}

	// GetGroupNumbers includes group 0, the whole match.
	if groups := len(re.GetGroupNumbers()) - 1; groups != RequiredGroups {
		return nil, &Error{
			Kind:   InvalidSyntax,
			Source: source,
			Err:    fmt.Errorf("expected %d capture groups (text, date, tag), found %d", RequiredGroups, groups),
		}
	}

	if o.matchTimeout > 0 {
		re.MatchTimeout = o.matchTimeout
	}

	return &Compiled{source: source, re: re}, nil
}
