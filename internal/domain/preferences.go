package domain

// DefaultTagColor is used for tags without a custom color.
const DefaultTagColor = "#5a8eee"

// Preferences is the caller-owned state the engine reads at the start of a
// pass and proposes changes to. Tag colors are keyed by tag name without the
// leading '#'.
type Preferences struct {
	TagOrder        []string          `json:"tagOrder" yaml:"tagOrder"`
	TagColors       map[string]string `json:"tagColors" yaml:"tagColors"`
	UseCustomColors bool              `json:"useCustomColors" yaml:"useCustomColors"`
	DefaultColor    string            `json:"defaultColor" yaml:"defaultColor"`
}

func NewPreferences() *Preferences {
	return &Preferences{
		TagOrder:     make([]string, 0),
		TagColors:    make(map[string]string),
		DefaultColor: DefaultTagColor,
	}
}

// Clone returns a deep copy so proposals never alias caller state.
func (p *Preferences) Clone() *Preferences {
	if p == nil {
		return NewPreferences()
	}
	c := &Preferences{
		TagOrder:        append(make([]string, 0, len(p.TagOrder)), p.TagOrder...),
		TagColors:       make(map[string]string, len(p.TagColors)),
		UseCustomColors: p.UseCustomColors,
		DefaultColor:    p.DefaultColor,
	}
	for k, v := range p.TagColors {
		c.TagColors[k] = v
	}
	if c.DefaultColor == "" {
		c.DefaultColor = DefaultTagColor
	}
	return c
}
