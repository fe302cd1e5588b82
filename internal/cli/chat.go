package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/at-ishikawa/chat2dutch/internal/chat"
)

// ChatCLI is a prompt that answers like the chat widget.
type ChatCLI struct {
	*InteractiveQuizCLI
	assistant *chat.Assistant
}

func NewChatCLI(assistant *chat.Assistant, stdin io.Reader, stdout io.Writer) *ChatCLI {
	return &ChatCLI{
		InteractiveQuizCLI: newInteractiveQuizCLI(stdin, stdout),
		assistant:          assistant,
	}
}

func (r *ChatCLI) Run(ctx context.Context) error {
	r.println(chat.HelpText + " Type 'exit' to leave.")
	return r.InteractiveQuizCLI.Run(ctx, r)
}

func (r *ChatCLI) Session(ctx context.Context) error {
	_, _ = r.bold.Fprint(r.stdoutWriter, "> ")
	message, err := r.readLine()
	if err != nil {
		return err
	}
	switch strings.ToLower(message) {
	case "":
		return nil
	case "exit", "quit":
		return errEnd
	}

	reply, err := r.assistant.Process(ctx, message)
	if err != nil {
		return fmt.Errorf("assistant.Process > %w", err)
	}
	for _, m := range reply.Messages {
		switch {
		case m.Role == chat.RoleWord:
			_, _ = r.italic.Fprintln(r.stdoutWriter, m.Text)
		case reply.Retryable:
			_, _ = r.red.Fprintln(r.stdoutWriter, m.Text)
		case strings.HasPrefix(m.Text, "Congratulations!"):
			_, _ = r.green.Fprintln(r.stdoutWriter, m.Text)
		default:
			r.println(m.Text)
		}
	}
	if reply.QuizActive {
		r.println("(known / unknown)")
	}
	return nil
}
