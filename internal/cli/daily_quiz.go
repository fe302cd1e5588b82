package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/at-ishikawa/chat2dutch/internal/quiz"
)

// DailyQuizCLI presents the daily quiz one card at a time.
type DailyQuizCLI struct {
	*InteractiveQuizCLI
	engine *quiz.Engine
}

func NewDailyQuizCLI(engine *quiz.Engine, stdin io.Reader, stdout io.Writer) *DailyQuizCLI {
	return &DailyQuizCLI{
		InteractiveQuizCLI: newInteractiveQuizCLI(stdin, stdout),
		engine:             engine,
	}
}

func (r *DailyQuizCLI) Run(ctx context.Context) error {
	return r.InteractiveQuizCLI.Run(ctx, r)
}

func (r *DailyQuizCLI) Session(ctx context.Context) error {
	card := r.engine.Current()
	if card == nil {
		var err error
		card, err = r.present(ctx)
		if err != nil {
			if quiz.IsRetryable(err) {
				return r.askRetry(err)
			}
			return err
		}
		if card == nil {
			r.printCompletion()
			return errEnd
		}
	}

	r.println()
	r.println(card.Format())
	_, _ = r.bold.Fprint(r.stdoutWriter, "Do you know this word? [k]nown / [u]nknown / [q]uit: ")
	answer, err := r.readLine()
	if err != nil {
		return err
	}

	var known bool
	switch strings.ToLower(answer) {
	case "k", "known":
		known = true
	case "u", "unknown":
		known = false
	case "q", "quit":
		return errEnd
	default:
		r.println("Please answer k, u or q.")
		return nil
	}

	result, err := r.engine.Mark(ctx, card.Word, known)
	for _, milestone := range result.Milestones {
		_, _ = r.green.Fprintln(r.stdoutWriter, milestone)
	}
	if err != nil {
		if quiz.IsRetryable(err) {
			return r.askRetry(err)
		}
		return fmt.Errorf("engine.Mark(%s) > %w", card.Word, err)
	}
	if result.Completed {
		r.printCompletion()
		return errEnd
	}
	return nil
}

// present starts the quiz or loads the word waiting after a failed fetch.
func (r *DailyQuizCLI) present(ctx context.Context) (*quiz.Card, error) {
	switch r.engine.State() {
	case quiz.StateIdle:
		return r.engine.Start(ctx)
	case quiz.StateInProgress:
		return r.engine.Next(ctx)
	default:
		return nil, nil
	}
}

func (r *DailyQuizCLI) askRetry(cause error) error {
	_, _ = r.red.Fprintf(r.stdoutWriter, "Failed to load the word: %v\n", cause)
	r.printf("Try again? [y/n]: ")
	answer, err := r.readLine()
	if err != nil {
		return err
	}
	if strings.EqualFold(answer, "n") {
		return errEnd
	}
	return nil
}

func (r *DailyQuizCLI) printCompletion() {
	session := r.engine.Session()
	switch {
	case session == nil || len(session.Words) == 0:
		r.println("No more words in the quiz.")
	case session.UnknownCount() >= r.engine.MaxUnknownWords():
		r.printf("Quiz completed. You have encountered %d unknown words.\n", session.UnknownCount())
	default:
		r.println("Quiz completed.")
	}
}
