package service

import (
	"context"
	"fmt"

	"github.com/rcliao/tasktimeline/internal/domain"
)

// Settings are the view knobs a workspace passes to every pass.
type Settings struct {
	Pattern          string
	Sort             domain.SortPolicy
	IncludeCompleted bool
	MaxVisible       int
}

// Workspace binds a document source, stored preferences and settings to a
// timeline service, so a pass can be run with only a date.
type Workspace struct {
	source   DocumentSource
	prefs    PreferenceStorage
	timeline *TimelineService
	settings Settings
}

func NewWorkspace(source DocumentSource, prefs PreferenceStorage, timeline *TimelineService, settings Settings) *Workspace {
	return &Workspace{
		source:   source,
		prefs:    prefs,
		timeline: timeline,
		settings: settings,
	}
}

// Refresh loads documents and preferences and runs one pass. A zero today
// uses the timeline clock. Documents that failed to load are reported as
// warnings on the pass.
func (w *Workspace) Refresh(ctx context.Context, today domain.CalendarDate) (*Pass, error) {
	docs, loadErrs, err := w.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	prefs, err := w.prefs.LoadPreferences()
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	pass, err := w.timeline.Refresh(ctx, Request{
		Documents:        docs,
		Pattern:          w.settings.Pattern,
		Preferences:      prefs,
		Sort:             w.settings.Sort,
		IncludeCompleted: w.settings.IncludeCompleted,
		MaxVisible:       w.settings.MaxVisible,
		Today:            today,
	})
	if err != nil {
		return nil, err
	}
	for _, loadErr := range loadErrs {
		pass.Warnings = append(pass.Warnings, Warning{Kind: WarningDocument, Message: loadErr.Error()})
		pass.Stats.DocumentErrors++
	}
	return pass, nil
}

// RefreshFunc adapts the workspace for a Refresher, pinning today when set.
func (w *Workspace) RefreshFunc(today domain.CalendarDate) RefreshFunc {
	return func(ctx context.Context) (*Pass, error) {
		return w.Refresh(ctx, today)
	}
}
