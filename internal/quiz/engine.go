// Package quiz runs the daily vocabulary quiz: it picks the words of a session, presents
// them one by one, records what the learner knows and reports reached milestones.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/chat2dutch/internal/history"
	"github.com/at-ishikawa/chat2dutch/internal/inference"
	"github.com/at-ishikawa/chat2dutch/internal/progress"
	"github.com/at-ishikawa/chat2dutch/internal/vocabulary"
)

const (
	DefaultMaxUnknownWords = 10
	DefaultFetchTimeout    = 30 * time.Second
)

type State int

const (
	StateIdle State = iota
	StateInProgress
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	default:
		return "idle"
	}
}

// Card is a word presented to the learner with its explanation.
type Card struct {
	Word        string
	Explanation inference.ExplainWordResponse
}

func (c Card) Format() string {
	return c.Explanation.Format()
}

// Session is the in-memory state of one quiz run. It is never persisted.
type Session struct {
	ID           uuid.UUID
	Words        []string
	index        int
	unknownCount int
	current      *Card
}

// Remaining is the number of candidates not presented yet.
func (s *Session) Remaining() int {
	return len(s.Words) - s.index
}

func (s *Session) UnknownCount() int {
	return s.unknownCount
}

type MarkResult struct {
	Milestones []string
	// Next is nil when the session is completed.
	Next      *Card
	Completed bool
}

type SearchResult struct {
	Word        string
	Recognized  bool
	Explanation inference.ExplainWordResponse
	Message     string
}

type Option func(*Engine)

func WithMaxUnknownWords(n int) Option {
	return func(e *Engine) {
		e.maxUnknownWords = n
	}
}

// WithFetchTimeout bounds every call to the word information service, retries included.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		e.fetchTimeout = timeout
	}
}

// WithMilestoneDeduplication reports each milestone once per engine instead of on every mark.
func WithMilestoneDeduplication(enabled bool) Option {
	return func(e *Engine) {
		e.deduplicateMilestones = enabled
	}
}

// Engine is the quiz state machine of one learner: Idle, InProgress, Completed.
// An Engine is not safe for concurrent use; Registry serializes access per learner.
type Engine struct {
	dictionary vocabulary.Repository
	history    *history.Store
	progress   *progress.Store
	fetcher    inference.Client

	maxUnknownWords       int
	fetchTimeout          time.Duration
	deduplicateMilestones bool
	acknowledged          map[progress.Milestone]bool

	state   State
	session *Session
}

func NewEngine(
	dictionary vocabulary.Repository,
	historyStore *history.Store,
	progressStore *progress.Store,
	fetcher inference.Client,
	options ...Option,
) *Engine {
	engine := &Engine{
		dictionary:      dictionary,
		history:         historyStore,
		progress:        progressStore,
		fetcher:         fetcher,
		maxUnknownWords: DefaultMaxUnknownWords,
		fetchTimeout:    DefaultFetchTimeout,
		acknowledged:    make(map[progress.Milestone]bool),
		state:           StateIdle,
	}
	for _, option := range options {
		option(engine)
	}
	return engine
}

func (e *Engine) State() State {
	return e.state
}

// Session returns the current session, or nil while Idle.
func (e *Engine) Session() *Session {
	return e.session
}

// Current returns the card waiting for a mark, or nil.
func (e *Engine) Current() *Card {
	if e.session == nil || e.state != StateInProgress {
		return nil
	}
	return e.session.current
}

func (e *Engine) MaxUnknownWords() int {
	return e.maxUnknownWords
}

func (e *Engine) Progress() *progress.Store {
	return e.progress
}

// Start begins a new session and presents its first word. It returns a nil card when
// there is nothing to quiz.
func (e *Engine) Start(ctx context.Context) (*Card, error) {
	profile, err := e.progress.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("progress.Profile > %w", err)
	}
	if !profile.HasDailyTarget() {
		return nil, ErrDailyTargetNotSet
	}
	if len(profile.Milestones) == 0 {
		return nil, ErrMilestonesNotSet
	}

	entries, err := e.dictionary.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("dictionary.Load > %w", err)
	}
	historyWords, err := e.history.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("history.Load > %w", err)
	}

	e.session = &Session{
		ID:    uuid.New(),
		Words: SelectWords(entries, historyWords, *profile.DailyTarget),
	}
	e.state = StateInProgress
	slog.Default().Info("quiz started",
		"session", e.session.ID,
		"candidates", len(e.session.Words),
		"daily_target", *profile.DailyTarget)

	return e.next(ctx)
}

// Next presents the following word. After a CollaboratorError it offers the same word again.
func (e *Engine) Next(ctx context.Context) (*Card, error) {
	switch e.state {
	case StateIdle:
		return nil, ErrNoActiveQuiz
	case StateCompleted:
		return nil, nil
	}
	return e.next(ctx)
}

func (e *Engine) next(ctx context.Context) (*Card, error) {
	session := e.session
	session.current = nil
	if session.unknownCount >= e.maxUnknownWords {
		e.complete("too many unknown words")
		return nil, nil
	}
	if session.index >= len(session.Words) {
		e.complete("no more candidates")
		return nil, nil
	}

	word := session.Words[session.index]
	explanation, err := e.explain(ctx, word)
	if err != nil {
		return nil, err
	}
	// A presented word stays in the history until it is marked known.
	if err := e.history.Touch(ctx, word, false); err != nil {
		return nil, fmt.Errorf("history.Touch > %w", err)
	}
	session.index++
	session.current = &Card{Word: word, Explanation: explanation}
	return session.current, nil
}

func (e *Engine) complete(reason string) {
	e.state = StateCompleted
	slog.Default().Info("quiz completed",
		"session", e.session.ID,
		"reason", reason,
		"presented", e.session.index,
		"unknown", e.session.unknownCount)
}

func (e *Engine) explain(ctx context.Context, word string) (inference.ExplainWordResponse, error) {
	ctx, cancel := e.withFetchTimeout(ctx)
	defer cancel()

	explanation, err := e.fetcher.ExplainWord(ctx, inference.ExplainWordRequest{Word: word})
	if err != nil {
		slog.Default().Warn("failed to explain word", "word", word, "error", err)
		return inference.ExplainWordResponse{}, &CollaboratorError{Word: word, Err: err}
	}
	return explanation, nil
}

func (e *Engine) withFetchTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.fetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.fetchTimeout)
}

// Mark records whether the learner knows word and presents the next word.
// A word missing from the dictionary fails with vocabulary.ErrNotFound and changes nothing.
// If presenting the next word fails, the mark is kept and Milestones is still filled in.
func (e *Engine) Mark(ctx context.Context, word string, known bool) (MarkResult, error) {
	if e.state != StateInProgress {
		return MarkResult{}, ErrNoActiveQuiz
	}

	if err := e.dictionary.UpdateStatus(ctx, word, known); err != nil {
		return MarkResult{}, fmt.Errorf("dictionary.UpdateStatus > %w", err)
	}
	if err := e.history.Touch(ctx, word, known); err != nil {
		return MarkResult{}, fmt.Errorf("history.Touch > %w", err)
	}

	var profile progress.Profile
	var err error
	if known {
		profile, err = e.progress.RecordWordLearned(ctx)
		if err != nil {
			return MarkResult{}, fmt.Errorf("progress.RecordWordLearned > %w", err)
		}
	} else {
		e.session.unknownCount++
		profile, err = e.progress.Profile(ctx)
		if err != nil {
			return MarkResult{}, fmt.Errorf("progress.Profile > %w", err)
		}
	}

	result := MarkResult{Milestones: e.milestoneMessages(profile)}
	card, err := e.next(ctx)
	if err != nil {
		return result, err
	}
	result.Next = card
	result.Completed = e.state == StateCompleted
	return result, nil
}

// MarkCurrent marks the word that is waiting for an answer.
func (e *Engine) MarkCurrent(ctx context.Context, known bool) (MarkResult, error) {
	if e.state != StateInProgress {
		return MarkResult{}, ErrNoActiveQuiz
	}
	current := e.Current()
	if current == nil {
		return MarkResult{}, ErrNoCurrentWord
	}
	return e.Mark(ctx, current.Word, known)
}

func (e *Engine) milestoneMessages(profile progress.Profile) []string {
	messages := make([]string, 0)
	for _, milestone := range profile.Reached() {
		if e.deduplicateMilestones {
			if e.acknowledged[milestone] {
				continue
			}
			e.acknowledged[milestone] = true
		}
		messages = append(messages, milestone.Message())
	}
	return messages
}

// CheckMilestones returns the messages of every reached milestone.
func (e *Engine) CheckMilestones(ctx context.Context) ([]string, error) {
	profile, err := e.progress.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("progress.Profile > %w", err)
	}
	return progress.CheckMilestones(profile), nil
}

// Search explains a word the learner looked up. A recognized word moves to the front of
// the history; an unrecognized one leaves the history alone.
func (e *Engine) Search(ctx context.Context, token string) (SearchResult, error) {
	word := strings.TrimSpace(token)
	if word == "" {
		return SearchResult{}, ErrEmptyWord
	}

	validation, err := e.validate(ctx, word)
	if err != nil {
		return SearchResult{}, err
	}
	if !validation.IsDutch {
		return SearchResult{
			Word:    word,
			Message: fmt.Sprintf("'%s' is not recognized as a Dutch word. Please check your spelling or try a different word.", word),
		}, nil
	}

	explanation, err := e.explain(ctx, word)
	if err != nil {
		return SearchResult{}, err
	}
	if err := e.history.Touch(ctx, word, false); err != nil {
		return SearchResult{}, fmt.Errorf("history.Touch > %w", err)
	}
	return SearchResult{
		Word:        word,
		Recognized:  true,
		Explanation: explanation,
		Message:     explanation.Format(),
	}, nil
}

func (e *Engine) validate(ctx context.Context, word string) (inference.ValidateWordResponse, error) {
	ctx, cancel := e.withFetchTimeout(ctx)
	defer cancel()

	validation, err := e.fetcher.ValidateWord(ctx, inference.ValidateWordRequest{Word: word})
	if err != nil {
		slog.Default().Warn("failed to validate word", "word", word, "error", err)
		return inference.ValidateWordResponse{}, &CollaboratorError{Word: word, Err: err}
	}
	return validation, nil
}

// IsRetryable reports whether err is a transient failure of the word information service.
func IsRetryable(err error) bool {
	var collaboratorErr *CollaboratorError
	return errors.As(err, &collaboratorErr) && collaboratorErr.Retryable()
}
