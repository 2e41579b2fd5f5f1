package pattern

import "sync"

// Holder keeps the last successfully compiled pattern so a bad edit never
// leaves the caller without a working pattern.
type Holder struct {
	mu      sync.RWMutex
	current *Compiled
	opts    []Option
}

func NewHolder(opts ...Option) *Holder {
	return &Holder{opts: opts}
}

// Update compiles source unless it is already current. On failure the
// previous pattern stays current and is returned together with the error;
// it is nil if no pattern ever compiled.
func (h *Holder) Update(source string) (*Compiled, error) {
	h.mu.RLock()
	current := h.current
	h.mu.RUnlock()

	if current != nil && current.Source() == source {
		return current, nil
	}

	compiled, err := Compile(source, h.opts...)
	if err != nil {
		return current, err
	}

	h.mu.Lock()
	h.current = compiled
	h.mu.Unlock()

	return compiled, nil
}

func (h *Holder) Current() *Compiled {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}
