// Package chat turns free-form chat messages into quiz and search operations.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/at-ishikawa/chat2dutch/internal/quiz"
)

const (
	RoleSystem = "System"
	RoleWord   = "Word"
)

const (
	HelpText          = "I'm here to help you learn Dutch. Type 'daily quiz' to start a quiz or end your message with '?' to search for a word."
	QuizCompletedText = "Quiz completed. Type 'daily quiz' to start a new one."
	NoMoreWordsText   = "No more words in the quiz."
	UnavailableText   = "The word service is not available right now. Type 'next' to try again."
)

type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type Reply struct {
	Messages []Message `json:"messages"`
	// QuizActive tells the client to offer the known and unknown answers.
	QuizActive bool `json:"quiz_active"`
	Retryable  bool `json:"retryable"`
}

func (r Reply) String() string {
	texts := make([]string, 0, len(r.Messages))
	for _, message := range r.Messages {
		texts = append(texts, message.Text)
	}
	return strings.Join(texts, "\n\n")
}

func (r *Reply) add(role, text string) {
	r.Messages = append(r.Messages, Message{Role: role, Text: text})
}

type Assistant struct {
	engine *quiz.Engine
}

func NewAssistant(engine *quiz.Engine) *Assistant {
	return &Assistant{engine: engine}
}

// Process answers one chat message:
//   - "daily quiz" starts a quiz
//   - "known", "unknown" answer the current word and "next" retries a word that failed to load
//   - a message ending with "?" searches the word before it
//
// Anything else gets the help text. Validation and word service failures become System
// messages; other errors are returned.
func (a *Assistant) Process(ctx context.Context, message string) (Reply, error) {
	trimmed := strings.TrimSpace(message)
	command := strings.ToLower(trimmed)

	var reply Reply
	var err error
	switch {
	case command == "daily quiz":
		reply, err = a.startQuiz(ctx)
	case command == "known" || command == "unknown":
		reply, err = a.mark(ctx, command == "known")
	case command == "next":
		reply, err = a.next(ctx)
	case strings.HasSuffix(trimmed, "?"):
		reply, err = a.search(ctx, strings.TrimSuffix(trimmed, "?"))
	default:
		reply.add(RoleSystem, HelpText)
	}
	if err != nil {
		return a.handleError(reply, err)
	}
	reply.QuizActive = a.engine.Current() != nil
	return reply, nil
}

func (a *Assistant) handleError(reply Reply, err error) (Reply, error) {
	switch {
	case quiz.IsRetryable(err):
		reply.add(RoleSystem, UnavailableText)
		reply.Retryable = true
	case errors.Is(err, quiz.ErrValidation):
		reply.add(RoleSystem, fmt.Sprintf("An error occurred: %s", strings.TrimPrefix(err.Error(), quiz.ErrValidation.Error()+": ")))
	default:
		return Reply{}, err
	}
	reply.QuizActive = a.engine.Current() != nil
	return reply, nil
}

func (a *Assistant) startQuiz(ctx context.Context) (Reply, error) {
	var reply Reply
	card, err := a.engine.Start(ctx)
	if err != nil {
		return reply, err
	}
	if card == nil {
		reply.add(RoleSystem, NoMoreWordsText)
		return reply, nil
	}
	reply.add(RoleSystem, "Here's your first word:")
	reply.add(RoleWord, card.Format())
	return reply, nil
}

func (a *Assistant) mark(ctx context.Context, known bool) (Reply, error) {
	var reply Reply
	if a.engine.State() != quiz.StateInProgress {
		return reply, quiz.ErrNoActiveQuiz
	}
	current := a.engine.Current()
	if current == nil {
		return reply, quiz.ErrNoCurrentWord
	}

	result, err := a.engine.Mark(ctx, current.Word, known)
	if err != nil && result.Milestones == nil {
		return reply, err
	}
	status := "unknown"
	if known {
		status = "known"
	}
	reply.add(RoleSystem, fmt.Sprintf("Word '%s' marked as %s.", current.Word, status))
	for _, milestone := range result.Milestones {
		reply.add(RoleSystem, milestone)
	}
	if err != nil {
		return reply, err
	}
	a.addNext(&reply, result.Next)
	return reply, nil
}

func (a *Assistant) next(ctx context.Context) (Reply, error) {
	var reply Reply
	card, err := a.engine.Next(ctx)
	if err != nil {
		return reply, err
	}
	a.addNext(&reply, card)
	return reply, nil
}

func (a *Assistant) addNext(reply *Reply, card *quiz.Card) {
	if card != nil {
		reply.add(RoleSystem, "Here's the next word:")
		reply.add(RoleWord, card.Format())
		return
	}

	session := a.engine.Session()
	if session != nil && session.UnknownCount() >= a.engine.MaxUnknownWords() {
		reply.add(RoleSystem, fmt.Sprintf("Quiz completed. You have encountered %d unknown words. Type 'daily quiz' to start a new one.", session.UnknownCount()))
		return
	}
	reply.add(RoleSystem, QuizCompletedText)
}

func (a *Assistant) search(ctx context.Context, token string) (Reply, error) {
	var reply Reply
	result, err := a.engine.Search(ctx, token)
	if err != nil {
		return reply, err
	}
	if !result.Recognized {
		reply.add(RoleSystem, result.Message)
		return reply, nil
	}
	reply.add(RoleSystem, fmt.Sprintf("Here's the information for '%s':", result.Word))
	reply.add(RoleWord, result.Message)
	return reply, nil
}
