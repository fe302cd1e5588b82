package quiz

import (
	"fmt"

	"github.com/at-ishikawa/chat2dutch/internal/progress"
)

// ErrValidation is wrapped by errors the learner has to fix, such as a missing daily
// target. Retrying without changing anything does not help.
var ErrValidation = progress.ErrValidation

var (
	ErrDailyTargetNotSet = fmt.Errorf("%w: daily target must be set before starting the quiz", ErrValidation)
	ErrMilestonesNotSet  = fmt.Errorf("%w: milestones and rewards must be set before starting the quiz", ErrValidation)
	ErrNoActiveQuiz      = fmt.Errorf("%w: no quiz is in progress", ErrValidation)
	ErrNoCurrentWord     = fmt.Errorf("%w: no word is waiting for an answer. Type 'next' to try again", ErrValidation)
	ErrEmptyWord         = fmt.Errorf("%w: word must not be empty", ErrValidation)
	ErrInvalidUserID     = fmt.Errorf("%w: invalid user id", ErrValidation)
)

// CollaboratorError reports that the word information service failed or timed out.
// The quiz session is left as it was, so the same word is offered again on retry.
type CollaboratorError struct {
	Word string
	Err  error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("word information for %q is unavailable: %v", e.Word, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

func (e *CollaboratorError) Retryable() bool {
	return true
}
