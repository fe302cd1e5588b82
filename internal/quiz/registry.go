package quiz

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/at-ishikawa/chat2dutch/internal/history"
	"github.com/at-ishikawa/chat2dutch/internal/inference"
	"github.com/at-ishikawa/chat2dutch/internal/progress"
	"github.com/at-ishikawa/chat2dutch/internal/vocabulary"
)

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Stores are the repositories holding one learner's state.
type Stores struct {
	Dictionary vocabulary.Repository
	History    history.Repository
	Progress   progress.Repository
}

type StoreFactory interface {
	Stores(ctx context.Context, userID string) (Stores, error)
}

// Registry keeps one Engine per learner and runs at most one operation per learner at a time.
type Registry struct {
	factory StoreFactory
	fetcher inference.Client
	options []Option

	mu    sync.Mutex
	users map[string]*userEngine
}

type userEngine struct {
	mu     sync.Mutex
	engine *Engine
}

func NewRegistry(factory StoreFactory, fetcher inference.Client, options ...Option) *Registry {
	return &Registry{
		factory: factory,
		fetcher: fetcher,
		options: options,
		users:   make(map[string]*userEngine),
	}
}

// Do runs fn with the learner's engine while holding the learner's lock.
// The engine and its stores are created on first use.
func (r *Registry) Do(ctx context.Context, userID string, fn func(engine *Engine) error) error {
	if !userIDPattern.MatchString(userID) {
		return fmt.Errorf("%q: %w", userID, ErrInvalidUserID)
	}

	r.mu.Lock()
	user, ok := r.users[userID]
	if !ok {
		user = &userEngine{}
		r.users[userID] = user
	}
	r.mu.Unlock()

	user.mu.Lock()
	defer user.mu.Unlock()
	if user.engine == nil {
		stores, err := r.factory.Stores(ctx, userID)
		if err != nil {
			return fmt.Errorf("factory.Stores(%s) > %w", userID, err)
		}
		user.engine = NewEngine(
			stores.Dictionary,
			history.NewStore(stores.History),
			progress.NewStore(stores.Progress),
			r.fetcher,
			r.options...,
		)
	}
	return fn(user.engine)
}
