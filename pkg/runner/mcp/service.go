// Package mcp provides the Model Context Protocol server integration for journally.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/journally/pkg/app"
	"tableflip.dev/journally/pkg/entry"
	"tableflip.dev/journally/pkg/timeutil"
)

// Service adapts journal operations to transport-friendly shapes. It never
// calls the language model, so it does not consume the daily quota.
type Service struct {
	App *app.Service
}

// ErrDayRequired is returned when a tool needs a day and none was given.
var ErrDayRequired = errors.New("day is required")

// DaySummary describes a journaled day.
type DaySummary struct {
	Day       string `json:"day"`
	TurnCount int    `json:"turnCount"`
	Opening   string `json:"opening,omitempty"`
	Latest    string `json:"latest,omitempty"`
}

// TurnDTO is a transport-friendly projection of a turn.
type TurnDTO struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DayDTO is a full day transcript.
type DayDTO struct {
	Day   string    `json:"day"`
	Turns []TurnDTO `json:"turns"`
}

// MatchDTO is a search hit.
type MatchDTO struct {
	Day  string  `json:"day"`
	Turn TurnDTO `json:"turn"`
}

// NewService builds a service over the given day operations.
func NewService(svc *app.Service) *Service {
	return &Service{App: svc}
}

// ListDays summarises every journaled day, oldest first.
func (s *Service) ListDays(ctx context.Context) ([]DaySummary, error) {
	if s.App == nil {
		return nil, errors.New("journal is not configured")
	}
	days, err := s.App.Days(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DaySummary, 0, len(days))
	for _, d := range days {
		turns, err := s.App.Day(ctx, d)
		if err != nil {
			return nil, err
		}
		sum := DaySummary{Day: d.String(), TurnCount: len(turns)}
		if len(turns) > 0 {
			sum.Opening = turns[0].Text
			sum.Latest = turns[len(turns)-1].Text
		}
		out = append(out, sum)
	}
	return out, nil
}

// GetDay returns the transcript for day, which may be "today" or an ISO date.
func (s *Service) GetDay(ctx context.Context, day string) (*DayDTO, error) {
	b, err := s.parseDay(day)
	if err != nil {
		return nil, err
	}
	turns, err := s.App.Day(ctx, b)
	if err != nil {
		return nil, err
	}
	return toDayDTO(b, turns), nil
}

// AddNote appends a user turn to day.
func (s *Service) AddNote(ctx context.Context, day, text string) (*DayDTO, error) {
	b, err := s.parseDay(day)
	if err != nil {
		return nil, err
	}
	turns, err := s.App.AddNote(ctx, b, text)
	if err != nil {
		return nil, err
	}
	return toDayDTO(b, turns), nil
}

// SearchTurns finds turns containing query, newest day first.
func (s *Service) SearchTurns(ctx context.Context, query string, limit int) ([]MatchDTO, error) {
	if s.App == nil {
		return nil, errors.New("journal is not configured")
	}
	matches, err := s.App.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]MatchDTO, 0, len(matches))
	for _, m := range matches {
		out = append(out, MatchDTO{Day: m.Day.String(), Turn: toTurnDTO(m.Turn)})
	}
	return out, nil
}

func (s *Service) parseDay(day string) (timeutil.Bucket, error) {
	if s.App == nil {
		return timeutil.Bucket{}, errors.New("journal is not configured")
	}
	day = strings.TrimSpace(day)
	switch strings.ToLower(day) {
	case "":
		return timeutil.Bucket{}, ErrDayRequired
	case "today":
		return s.App.Today(), nil
	case "yesterday":
		return s.App.Today().AddDays(-1), nil
	}
	b, err := timeutil.ParseBucket(day)
	if err != nil {
		return timeutil.Bucket{}, fmt.Errorf("day must be YYYY-MM-DD, today or yesterday: %w", err)
	}
	return b, nil
}

func toDayDTO(b timeutil.Bucket, turns []entry.Turn) *DayDTO {
	out := &DayDTO{Day: b.String(), Turns: make([]TurnDTO, 0, len(turns))}
	for _, t := range turns {
		out.Turns = append(out.Turns, toTurnDTO(t))
	}
	return out
}

func toTurnDTO(t entry.Turn) TurnDTO {
	return TurnDTO{ID: t.ID, Role: string(t.Speaker), Content: t.Text}
}
