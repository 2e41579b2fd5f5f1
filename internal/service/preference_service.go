package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/tasktimeline/internal/domain"
	"github.com/rcliao/tasktimeline/internal/logging"
	"github.com/rcliao/tasktimeline/internal/tags"
)

var ErrEmptyTag = errors.New("tag cannot be empty")

// PreferenceService applies tag order and color changes. Each change is
// computed as a new value and then handed to storage; nothing is edited in
// place.
type PreferenceService struct {
	storage  PreferenceStorage
	defaults *domain.Preferences
	logger   *logging.Logger
}

func NewPreferenceService(storage PreferenceStorage, defaults *domain.Preferences, logger *logging.Logger) *PreferenceService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &PreferenceService{
		storage:  storage,
		defaults: defaults.Clone(),
		logger:   logger.Named("preferences"),
	}
}

func (s *PreferenceService) Get() (*domain.Preferences, error) {
	prefs, err := s.storage.LoadPreferences()
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	return prefs, nil
}

// MoveTag places moved before anchor in the tag order, or last if anchor is
// not in the order.
func (s *PreferenceService) MoveTag(ctx context.Context, moved, anchor string) (*domain.Preferences, error) {
	moved = strings.TrimSpace(moved)
	if moved == "" {
		return nil, ErrEmptyTag
	}
	return s.update(ctx, "tag moved", func(p *domain.Preferences) (*domain.Preferences, error) {
		return tags.WithMove(p, moved, strings.TrimSpace(anchor)), nil
	}, zap.String("tag", moved), zap.String("anchor", anchor))
}

// SetTagColor stores a custom color for tag and turns custom colors on.
func (s *PreferenceService) SetTagColor(ctx context.Context, tag, color string) (*domain.Preferences, error) {
	tag = strings.TrimSpace(tag)
	if tags.OverrideKey(tag) == "" {
		return nil, ErrEmptyTag
	}
	return s.update(ctx, "tag color set", func(p *domain.Preferences) (*domain.Preferences, error) {
		return tags.WithColor(p, tag, color)
	}, zap.String("tag", tag), zap.String("color", color))
}

// ClearTagColor removes tag's custom color.
func (s *PreferenceService) ClearTagColor(ctx context.Context, tag string) (*domain.Preferences, error) {
	tag = strings.TrimSpace(tag)
	if tags.OverrideKey(tag) == "" {
		return nil, ErrEmptyTag
	}
	return s.update(ctx, "tag color cleared", func(p *domain.Preferences) (*domain.Preferences, error) {
		return tags.WithoutColor(p, tag), nil
	}, zap.String("tag", tag))
}

// Reset restores the default preferences.
func (s *PreferenceService) Reset(ctx context.Context) (*domain.Preferences, error) {
	next := s.defaults.Clone()
	if err := s.storage.SavePreferences(next); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}
	s.logger.Info(ctx, "preferences reset")
	return next, nil
}

func (s *PreferenceService) update(ctx context.Context, msg string, change func(*domain.Preferences) (*domain.Preferences, error), fields ...zap.Field) (*domain.Preferences, error) {
	current, err := s.Get()
	if err != nil {
		return nil, err
	}
	next, err := change(current)
	if err != nil {
		return nil, err
	}
	if err := s.storage.SavePreferences(next); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}
	s.logger.Info(ctx, msg, fields...)
	return next, nil
}
