// Package progress tracks the learner's daily target, milestone rewards and the number of
// words learned so far.
package progress

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is wrapped by every error caused by invalid learner input.
var ErrValidation = errors.New("validation error")

var (
	ErrInvalidDailyTarget = fmt.Errorf("%w: daily target must be a positive integer", ErrValidation)

	// ErrNoProfile is returned by a Repository that has nothing stored yet.
	ErrNoProfile = errors.New("profile does not exist")
)

type Milestone struct {
	Threshold int    `json:"milestone" yaml:"milestone" db:"threshold" validate:"gt=0"`
	Reward    string `json:"reward" yaml:"reward" db:"reward" validate:"required"`
}

// Message is the congratulation shown once TotalWordsLearned reaches the threshold.
func (m Milestone) Message() string {
	return fmt.Sprintf("Congratulations! You've learned %d words. You've earned: %s", m.Threshold, m.Reward)
}

type Profile struct {
	DailyTarget       *int        `json:"daily_target" yaml:"daily_target"`
	Milestones        []Milestone `json:"milestones_rewards" yaml:"milestones_rewards"`
	TotalWordsLearned int         `json:"total_words_learned" yaml:"total_words_learned"`
}

func DefaultProfile() Profile {
	return Profile{
		Milestones: []Milestone{},
	}
}

// UnmarshalJSON also accepts the legacy `"daily_target": []` as an unset target.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw struct {
		DailyTarget       json.RawMessage `json:"daily_target"`
		Milestones        []Milestone     `json:"milestones_rewards"`
		TotalWordsLearned int             `json:"total_words_learned"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Milestones = raw.Milestones
	if p.Milestones == nil {
		p.Milestones = []Milestone{}
	}
	p.TotalWordsLearned = raw.TotalWordsLearned
	p.DailyTarget = nil

	target := bytes.TrimSpace(raw.DailyTarget)
	switch {
	case len(target) == 0, bytes.Equal(target, []byte("null")):
		return nil
	case bytes.HasPrefix(target, []byte("[")):
		var legacy []json.RawMessage
		if err := json.Unmarshal(target, &legacy); err != nil {
			return fmt.Errorf("daily_target: %w", err)
		}
		if len(legacy) != 0 {
			return fmt.Errorf("daily_target: unexpected value %s", strings.TrimSpace(string(target)))
		}
		return nil
	}

	var n int
	if err := json.Unmarshal(target, &n); err != nil {
		return fmt.Errorf("daily_target: %w", err)
	}
	p.DailyTarget = &n
	return nil
}

// Reached returns the milestones whose threshold is at most TotalWordsLearned, in
// configured order.
func (p Profile) Reached() []Milestone {
	reached := make([]Milestone, 0)
	for _, milestone := range p.Milestones {
		if milestone.Threshold <= p.TotalWordsLearned {
			reached = append(reached, milestone)
		}
	}
	return reached
}

func (p Profile) HasDailyTarget() bool {
	return p.DailyTarget != nil && *p.DailyTarget > 0
}

func (p Profile) Clone() Profile {
	clone := p
	if p.DailyTarget != nil {
		target := *p.DailyTarget
		clone.DailyTarget = &target
	}
	clone.Milestones = append([]Milestone{}, p.Milestones...)
	return clone
}
