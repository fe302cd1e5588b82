package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/at-ishikawa/chat2dutch/internal/chat"
	"github.com/at-ishikawa/chat2dutch/internal/inference"
	"github.com/at-ishikawa/chat2dutch/internal/progress"
	"github.com/at-ishikawa/chat2dutch/internal/quiz"
)

type chatRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type chatResponse struct {
	Response string `json:"response"`
	chat.Reply
}

type cardResponse struct {
	Word        string                        `json:"word"`
	Explanation inference.ExplainWordResponse `json:"explanation"`
	Text        string                        `json:"text"`
}

func newCardResponse(card *quiz.Card) *cardResponse {
	if card == nil {
		return nil
	}
	return &cardResponse{
		Word:        card.Word,
		Explanation: card.Explanation,
		Text:        card.Format(),
	}
}

type quizResponse struct {
	SessionID    uuid.UUID     `json:"session_id"`
	State        string        `json:"state"`
	Card         *cardResponse `json:"card"`
	Remaining    int           `json:"remaining"`
	UnknownCount int           `json:"unknown_count"`
}

func newQuizResponse(engine *quiz.Engine, card *quiz.Card) quizResponse {
	response := quizResponse{
		State: engine.State().String(),
		Card:  newCardResponse(card),
	}
	if session := engine.Session(); session != nil {
		response.SessionID = session.ID
		response.Remaining = session.Remaining()
		response.UnknownCount = session.UnknownCount()
	}
	return response
}

type markRequest struct {
	// Word defaults to the word waiting for an answer.
	Word  string `json:"word"`
	Known *bool  `json:"known" validate:"required"`
}

type markResponse struct {
	Milestones []string      `json:"milestones"`
	Word       *cardResponse `json:"word"`
	Completed  bool          `json:"completed"`
}

type searchResponse struct {
	Word        string                         `json:"word"`
	Recognized  bool                           `json:"recognized"`
	Message     string                         `json:"message"`
	Explanation *inference.ExplainWordResponse `json:"explanation,omitempty"`
}

type dailyTargetRequest struct {
	Target *int `json:"target" validate:"required"`
}

type profileResponse struct {
	progress.Profile
	ReachedMilestones []string `json:"reached_milestones"`
}

func newProfileResponse(profile progress.Profile) profileResponse {
	return profileResponse{
		Profile:           profile,
		ReachedMilestones: progress.CheckMilestones(profile),
	}
}

func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": WelcomeText})
}

// Chat answers a chat widget message the same way the terminal chat does.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := h.decodeBody(r, &req); err != nil {
		respondError(w, r, err, nil)
		return
	}

	var reply chat.Reply
	err := h.registry.Do(r.Context(), req.UserID, func(engine *quiz.Engine) error {
		var err error
		reply, err = chat.NewAssistant(engine).Process(r.Context(), req.Message)
		return err
	})
	if err != nil {
		respondError(w, r, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, chatResponse{Response: reply.String(), Reply: reply})
}

func (h *Handler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	h.quizOperation(w, r, func(engine *quiz.Engine) (*quiz.Card, error) {
		return engine.Start(r.Context())
	})
}

// NextWord presents the next word, or offers a word that failed to load again.
func (h *Handler) NextWord(w http.ResponseWriter, r *http.Request) {
	h.quizOperation(w, r, func(engine *quiz.Engine) (*quiz.Card, error) {
		return engine.Next(r.Context())
	})
}

func (h *Handler) quizOperation(w http.ResponseWriter, r *http.Request, operation func(engine *quiz.Engine) (*quiz.Card, error)) {
	var response quizResponse
	err := h.registry.Do(r.Context(), chi.URLParam(r, "userID"), func(engine *quiz.Engine) error {
		card, err := operation(engine)
		if err != nil {
			return err
		}
		response = newQuizResponse(engine, card)
		return nil
	})
	if err != nil {
		respondError(w, r, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) MarkWord(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if err := h.decodeBody(r, &req); err != nil {
		respondError(w, r, err, nil)
		return
	}

	var result quiz.MarkResult
	err := h.registry.Do(r.Context(), chi.URLParam(r, "userID"), func(engine *quiz.Engine) error {
		var err error
		if req.Word == "" {
			result, err = engine.MarkCurrent(r.Context(), *req.Known)
		} else {
			result, err = engine.Mark(r.Context(), req.Word, *req.Known)
		}
		return err
	})
	if err != nil {
		respondError(w, r, err, result.Milestones)
		return
	}
	respondJSON(w, http.StatusOK, markResponse{
		Milestones: result.Milestones,
		Word:       newCardResponse(result.Next),
		Completed:  result.Completed,
	})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var result quiz.SearchResult
	err := h.registry.Do(r.Context(), chi.URLParam(r, "userID"), func(engine *quiz.Engine) error {
		var err error
		result, err = engine.Search(r.Context(), r.URL.Query().Get("word"))
		return err
	})
	if err != nil {
		respondError(w, r, err, nil)
		return
	}

	response := searchResponse{
		Word:       result.Word,
		Recognized: result.Recognized,
		Message:    result.Message,
	}
	if result.Recognized {
		response.Explanation = &result.Explanation
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	h.profileOperation(w, r, func(store *progress.Store) (progress.Profile, error) {
		return store.Profile(r.Context())
	})
}

func (h *Handler) SetDailyTarget(w http.ResponseWriter, r *http.Request) {
	var req dailyTargetRequest
	if err := h.decodeBody(r, &req); err != nil {
		respondError(w, r, err, nil)
		return
	}
	h.profileOperation(w, r, func(store *progress.Store) (progress.Profile, error) {
		return store.SetDailyTarget(r.Context(), *req.Target)
	})
}

func (h *Handler) ClearDailyTarget(w http.ResponseWriter, r *http.Request) {
	h.profileOperation(w, r, func(store *progress.Store) (progress.Profile, error) {
		return store.ClearDailyTarget(r.Context())
	})
}

// SetMilestones replaces the milestones with the valid rows of the body.
func (h *Handler) SetMilestones(w http.ResponseWriter, r *http.Request) {
	var rows []progress.MilestoneRow
	if err := decodeJSON(r, &rows); err != nil {
		respondError(w, r, err, nil)
		return
	}
	h.profileOperation(w, r, func(store *progress.Store) (progress.Profile, error) {
		return store.UpsertMilestones(r.Context(), rows)
	})
}

func (h *Handler) ClearMilestones(w http.ResponseWriter, r *http.Request) {
	h.profileOperation(w, r, func(store *progress.Store) (progress.Profile, error) {
		return store.ClearMilestones(r.Context())
	})
}

func (h *Handler) profileOperation(w http.ResponseWriter, r *http.Request, operation func(store *progress.Store) (progress.Profile, error)) {
	var profile progress.Profile
	err := h.registry.Do(r.Context(), chi.URLParam(r, "userID"), func(engine *quiz.Engine) error {
		var err error
		profile, err = operation(engine.Progress())
		return err
	})
	if err != nil {
		respondError(w, r, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, newProfileResponse(profile))
}
