// Package rpc exposes timeline passes and preference changes as JSON-RPC
// methods for an editor or other host process.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/tasktimeline/internal/calendar"
	"github.com/rcliao/tasktimeline/internal/domain"
	"github.com/rcliao/tasktimeline/internal/logging"
	"github.com/rcliao/tasktimeline/internal/search"
	"github.com/rcliao/tasktimeline/internal/service"
	"github.com/rcliao/tasktimeline/internal/tags"
)

type Server struct {
	workspace   *service.Workspace
	refresher   *service.Refresher
	preferences *service.PreferenceService
	timeline    *service.TimelineService
	dateFormat  string
	logger      *logging.Logger
}

// ServerDeps are the services the server dispatches to.
type ServerDeps struct {
	Workspace   *service.Workspace
	Refresher   *service.Refresher
	Preferences *service.PreferenceService
	Timeline    *service.TimelineService
	DateFormat  string
	Logger      *logging.Logger
}

func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{
		workspace:   deps.Workspace,
		refresher:   deps.Refresher,
		preferences: deps.Preferences,
		timeline:    deps.Timeline,
		dateFormat:  deps.DateFormat,
		logger:      logger.Named("server"),
	}
}

// RefreshParams selects the reference date. Without one the pass uses the
// configured date, or the local date.
type RefreshParams struct {
	Today *domain.CalendarDate `json:"today,omitempty"`
}

type TimelineResult struct {
	ID       string              `json:"id"`
	Today    domain.CalendarDate `json:"today"`
	Groups   []domain.TagGroup   `json:"groups"`
	Warnings []service.Warning   `json:"warnings,omitempty"`
	Stats    service.PassStats   `json:"stats"`
}

type CalendarResult struct {
	ID       string              `json:"id"`
	Today    domain.CalendarDate `json:"today"`
	Calendar *calendar.Calendar  `json:"calendar"`
	Warnings []service.Warning   `json:"warnings,omitempty"`
}

type MoveTagParams struct {
	Tag    string `json:"tag"`
	Anchor string `json:"anchor"`
}

// TagColorParams sets a tag's color. An empty color clears it.
type TagColorParams struct {
	Tag   string `json:"tag"`
	Color string `json:"color"`
}

// SearchParams ranks the records of a fresh pass against Query.
type SearchParams struct {
	Query  string               `json:"query"`
	Today  *domain.CalendarDate `json:"today,omitempty"`
	Limit  int                  `json:"limit,omitempty"`
	Offset int                  `json:"offset,omitempty"`
}

type PresetsParams struct {
	DateFormat string `json:"dateFormat,omitempty"`
}

func (s *Server) HandleCommand(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	s.logger.Debug(ctx, "handling command", zap.String("method", method))

	switch method {
	case "timeline.refresh":
		pass, err := s.handleRefresh(ctx, params)
		if err != nil {
			return nil, err
		}
		return TimelineResult{
			ID:       pass.ID,
			Today:    pass.Today,
			Groups:   pass.Groups,
			Warnings: pass.Warnings,
			Stats:    pass.Stats,
		}, nil
	case "timeline.calendar":
		pass, err := s.handleRefresh(ctx, params)
		if err != nil {
			return nil, err
		}
		return CalendarResult{
			ID:       pass.ID,
			Today:    pass.Today,
			Calendar: pass.Calendar,
			Warnings: pass.Warnings,
		}, nil
	case "timeline.summary":
		pass, err := s.handleRefresh(ctx, params)
		if err != nil {
			return nil, err
		}
		return service.Summarize(pass), nil
	case "timeline.search":
		var p SearchParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if strings.TrimSpace(p.Query) == "" {
			return nil, newError(InvalidParams, "query cannot be empty", nil)
		}
		pass, err := s.refresh(ctx, p.Today)
		if err != nil {
			return nil, err
		}
		return search.Search(pass.Records, p.Query, search.Options{Limit: p.Limit, Offset: p.Offset}), nil

	case "tags.move":
		var p MoveTagParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		return s.preferenceResult(s.preferences.MoveTag(ctx, p.Tag, p.Anchor))
	case "tags.color":
		var p TagColorParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if p.Color == "" {
			return s.preferenceResult(s.preferences.ClearTagColor(ctx, p.Tag))
		}
		return s.preferenceResult(s.preferences.SetTagColor(ctx, p.Tag, p.Color))
	case "tags.reset":
		return s.preferenceResult(s.preferences.Reset(ctx))

	case "pattern.presets":
		var p PresetsParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if p.DateFormat == "" {
			p.DateFormat = s.dateFormat
		}
		return s.timeline.Presets(p.DateFormat), nil

	default:
		return nil, newError(MethodNotFound, "Method not found", method)
	}
}

func (s *Server) handleRefresh(ctx context.Context, params json.RawMessage) (*service.Pass, error) {
	var p RefreshParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return s.refresh(ctx, p.Today)
}

func (s *Server) refresh(ctx context.Context, today *domain.CalendarDate) (*service.Pass, error) {
	if today != nil {
		return s.refresher.RefreshWith(ctx, s.workspace.RefreshFunc(*today))
	}

	pass, err := s.refresher.TryRefresh(ctx)
	if errors.Is(err, service.ErrPassInFlight) {
		// Serve the latest pass; the in-flight one will be followed by a rerun.
		if last := s.refresher.Last(); last != nil {
			return last, nil
		}
	}
	return pass, err
}

func (s *Server) preferenceResult(prefs *domain.Preferences, err error) (interface{}, error) {
	if err != nil {
		if errors.Is(err, service.ErrEmptyTag) || errors.Is(err, tags.ErrInvalidColor) {
			return nil, newError(InvalidParams, err.Error(), nil)
		}
		return nil, err
	}
	return prefs, nil
}

func decodeParams(params json.RawMessage, v interface{}) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return newError(InvalidParams, "Invalid params", err.Error())
	}
	return nil
}
