package service

import (
	"context"

	"github.com/rcliao/tasktimeline/internal/domain"
)

// PreferenceStorage persists caller-owned preferences.
type PreferenceStorage interface {
	LoadPreferences() (*domain.Preferences, error)
	SavePreferences(prefs *domain.Preferences) error
}

// DocumentSource supplies the documents for one pass. Per-document read
// failures are returned alongside the documents that did load; the error
// return is for failures that prevent loading anything.
type DocumentSource interface {
	Load(ctx context.Context) ([]domain.Document, []error, error)
}
