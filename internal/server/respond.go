package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/at-ishikawa/chat2dutch/internal/quiz"
	"github.com/at-ishikawa/chat2dutch/internal/vocabulary"
)

var errInvalidBody = fmt.Errorf("%w: invalid request body", quiz.ErrValidation)

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
	// Milestones reached by a mark whose next word could not be loaded.
	Milestones []string `json:"milestones,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Default().Error("failed to encode JSON response", "error", err)
	}
}

// statusOf maps an error to the HTTP status returned for it.
func statusOf(err error) int {
	switch {
	case errors.Is(err, quiz.ErrNoActiveQuiz), errors.Is(err, quiz.ErrNoCurrentWord):
		return http.StatusConflict
	case errors.Is(err, quiz.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, vocabulary.ErrNotFound):
		return http.StatusNotFound
	case quiz.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err error, milestones []string) {
	status := statusOf(err)
	response := errorResponse{
		Error:      err.Error(),
		Retryable:  quiz.IsRetryable(err),
		Milestones: milestones,
	}
	if status == http.StatusInternalServerError {
		slog.Default().Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err)
		response.Error = http.StatusText(status)
	}
	respondJSON(w, status, response)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

// decodeBody decodes a JSON object into dst and checks its validate tags.
func (h *Handler) decodeBody(r *http.Request, dst any) error {
	if err := decodeJSON(r, dst); err != nil {
		return err
	}
	if err := h.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}
