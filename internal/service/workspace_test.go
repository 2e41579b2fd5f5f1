package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/tasktimeline/internal/domain"
	"github.com/rcliao/tasktimeline/internal/pattern"
	"github.com/rcliao/tasktimeline/internal/storage"
)

type staticSource struct {
	docs []domain.Document
	errs []error
	err  error
}

func (s staticSource) Load(context.Context) ([]domain.Document, []error, error) {
	return s.docs, s.errs, s.err
}

func TestWorkspace_Refresh(t *testing.T) {
	prefs := domain.NewPreferences()
	prefs.TagOrder = []string{"#Work"}

	ws := NewWorkspace(
		staticSource{docs: sampleDocuments(), errs: []error{errors.New("unreadable.md: permission denied")}},
		storage.NewMemoryStorage(prefs),
		NewTimelineService(nil, nil),
		Settings{Pattern: pattern.DefaultPattern, Sort: domain.SortDateAsc},
	)

	pass, err := ws.Refresh(context.Background(), march5)
	require.NoError(t, err)

	require.Len(t, pass.Groups, 2)
	assert.Equal(t, "#Work", pass.Groups[0].Tag)
	assert.Equal(t, 1, pass.Stats.DocumentErrors)
	require.Len(t, pass.Warnings, 1)
	assert.Contains(t, pass.Warnings[0].Message, "permission denied")
}

func TestWorkspace_RefreshSourceError(t *testing.T) {
	ws := NewWorkspace(
		staticSource{err: errors.New("root missing")},
		storage.NewMemoryStorage(nil),
		NewTimelineService(nil, nil),
		Settings{Pattern: pattern.DefaultPattern},
	)

	_, err := ws.Refresh(context.Background(), march5)
	assert.ErrorContains(t, err, "failed to load documents")
}

func TestWorkspace_RefreshFunc(t *testing.T) {
	ws := NewWorkspace(
		staticSource{docs: sampleDocuments()},
		storage.NewMemoryStorage(nil),
		NewTimelineService(nil, nil),
		Settings{Pattern: pattern.DefaultPattern},
	)

	r := NewRefresher(ws.RefreshFunc(march5), nil)
	pass, err := r.TryRefresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, march5, pass.Today)
}
