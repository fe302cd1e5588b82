package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MilestoneRow is one unparsed row of milestone input, as typed by the learner.
type MilestoneRow struct {
	Milestone string `json:"milestone"`
	Reward    string `json:"reward"`
}

// UnmarshalJSON accepts the milestone either as a JSON number or as a string.
func (r *MilestoneRow) UnmarshalJSON(data []byte) error {
	var raw struct {
		Milestone json.RawMessage `json:"milestone"`
		Reward    *string         `json:"reward"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Milestone = ""
	r.Reward = ""
	if raw.Reward != nil {
		r.Reward = *raw.Reward
	}
	milestone := strings.TrimSpace(string(raw.Milestone))
	switch {
	case milestone == "", milestone == "null":
	case strings.HasPrefix(milestone, `"`):
		if err := json.Unmarshal(raw.Milestone, &r.Milestone); err != nil {
			return fmt.Errorf("milestone: %w", err)
		}
	default:
		r.Milestone = milestone
	}
	return nil
}

// Store applies profile operations on top of a Repository. Every mutation persists
// the full profile immediately.
type Store struct {
	repository Repository
	validate   *validator.Validate
}

func NewStore(repository Repository) *Store {
	return &Store{
		repository: repository,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Profile loads the profile. On first use the defaults are created and saved.
func (s *Store) Profile(ctx context.Context) (Profile, error) {
	profile, err := s.repository.Load(ctx)
	if errors.Is(err, ErrNoProfile) {
		profile = DefaultProfile()
		if err := s.repository.Save(ctx, profile); err != nil {
			return Profile{}, fmt.Errorf("repository.Save > %w", err)
		}
		slog.Default().Debug("initialized learner profile")
		return profile, nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("repository.Load > %w", err)
	}
	return profile, nil
}

func (s *Store) update(ctx context.Context, mutate func(profile *Profile)) (Profile, error) {
	profile, err := s.Profile(ctx)
	if err != nil {
		return Profile{}, err
	}
	mutate(&profile)
	if err := s.repository.Save(ctx, profile); err != nil {
		return Profile{}, fmt.Errorf("repository.Save > %w", err)
	}
	return profile, nil
}

func (s *Store) SetDailyTarget(ctx context.Context, target int) (Profile, error) {
	if target <= 0 {
		return Profile{}, ErrInvalidDailyTarget
	}
	return s.update(ctx, func(profile *Profile) {
		profile.DailyTarget = &target
	})
}

// UpsertMilestones replaces every milestone with the valid rows. Rows without a numeric
// positive threshold or without a reward are dropped.
func (s *Store) UpsertMilestones(ctx context.Context, rows []MilestoneRow) (Profile, error) {
	milestones := s.parseMilestones(rows)
	return s.update(ctx, func(profile *Profile) {
		profile.Milestones = milestones
	})
}

func (s *Store) parseMilestones(rows []MilestoneRow) []Milestone {
	milestones := make([]Milestone, 0, len(rows))
	for i, row := range rows {
		threshold, ok := parseThreshold(row.Milestone)
		if !ok {
			slog.Default().Debug("dropping milestone row without a numeric threshold", "row", i, "milestone", row.Milestone)
			continue
		}
		milestone := Milestone{
			Threshold: threshold,
			Reward:    strings.TrimSpace(row.Reward),
		}
		if err := s.validate.Struct(milestone); err != nil {
			slog.Default().Debug("dropping invalid milestone row", "row", i, "error", err)
			continue
		}
		milestones = append(milestones, milestone)
	}
	return milestones
}

// parseThreshold accepts integers and integral decimals such as "100.0".
func parseThreshold(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

func (s *Store) ClearMilestones(ctx context.Context) (Profile, error) {
	return s.update(ctx, func(profile *Profile) {
		profile.Milestones = []Milestone{}
	})
}

func (s *Store) ClearDailyTarget(ctx context.Context) (Profile, error) {
	return s.update(ctx, func(profile *Profile) {
		profile.DailyTarget = nil
	})
}

// Clear removes the daily target and all milestones. TotalWordsLearned is kept.
func (s *Store) Clear(ctx context.Context) (Profile, error) {
	return s.update(ctx, func(profile *Profile) {
		profile.DailyTarget = nil
		profile.Milestones = []Milestone{}
	})
}

func (s *Store) RecordWordLearned(ctx context.Context) (Profile, error) {
	return s.update(ctx, func(profile *Profile) {
		profile.TotalWordsLearned++
	})
}

// CheckMilestones returns the congratulation message of every milestone reached so far.
// Milestones reached earlier are reported again on every call.
func CheckMilestones(profile Profile) []string {
	reached := profile.Reached()
	messages := make([]string, 0, len(reached))
	for _, milestone := range reached {
		messages = append(messages, milestone.Message())
	}
	return messages
}

func (s *Store) CheckMilestones(ctx context.Context) ([]string, error) {
	profile, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}
	return CheckMilestones(profile), nil
}
