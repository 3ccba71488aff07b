package api

import (
	"encoding/json"
	"net/http"

	"flashcards/internal/quiz"
)

// StartSessionRequest starts a test over a unit
type StartSessionRequest struct {
	Unit    string `json:"unit"`
	Shuffle bool   `json:"shuffle"`
}

// JudgeRequest carries the learner's self-assessment
type JudgeRequest struct {
	Correct *bool `json:"correct"`
}

// SessionResponse is the display state of a test session
type SessionResponse struct {
	ID   string `json:"id"`
	Unit string `json:"unit,omitempty"`
	quiz.Snapshot
	Events []string `json:"events,omitempty"`
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Unit == "" {
		writeError(w, http.StatusBadRequest, "Request body must contain a unit.")
		return
	}

	session, snap, err := h.quizService.Start(req.Unit, req.Shuffle, nil)
	if err != nil {
		h.fail(w, r, err, "Error occurred while starting the test.")
		return
	}

	writeJSON(w, http.StatusCreated, SessionResponse{
		ID:       session.ID,
		Unit:     session.Unit,
		Snapshot: snap,
	})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	session, err := h.quizService.Get(id)
	if err != nil {
		h.fail(w, r, err, "Error occurred while reading the test.")
		return
	}

	snap, err := h.quizService.Snapshot(id)
	if err != nil {
		h.fail(w, r, err, "Error occurred while reading the test.")
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{ID: id, Unit: session.Unit, Snapshot: snap})
}

func (h *Handler) revealSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap, err := h.quizService.Reveal(id)
	if err != nil {
		h.fail(w, r, err, "Error occurred while updating the test.")
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{ID: id, Snapshot: snap})
}

func (h *Handler) hideSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap, err := h.quizService.Hide(id)
	if err != nil {
		h.fail(w, r, err, "Error occurred while updating the test.")
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{ID: id, Snapshot: snap})
}

func (h *Handler) judgeSession(w http.ResponseWriter, r *http.Request) {
	var req JudgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Correct == nil {
		writeError(w, http.StatusBadRequest, "Request body must contain correct.")
		return
	}

	id := r.PathValue("id")
	snap, event, err := h.quizService.Judge(id, *req.Correct)
	if err != nil {
		h.fail(w, r, err, "Error occurred while judging the answer.")
		return
	}

	resp := SessionResponse{ID: id, Snapshot: snap}
	if event != quiz.EventNone {
		resp.Events = []string{event.String()}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) restartSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap, err := h.quizService.Restart(id)
	if err != nil {
		h.fail(w, r, err, "Error occurred while restarting the test.")
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{ID: id, Snapshot: snap})
}

func (h *Handler) stopSession(w http.ResponseWriter, r *http.Request) {
	if err := h.quizService.Stop(r.PathValue("id")); err != nil {
		h.fail(w, r, err, "Error occurred while stopping the test.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
