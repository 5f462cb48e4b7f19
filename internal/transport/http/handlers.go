package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"fipet-service/internal/app"
	"fipet-service/internal/auth"
	"fipet-service/internal/domain"
)

// Handler exposes the quest progression use cases over plain HTTP.
type Handler struct {
	service *app.QuestService
	tokens  *auth.TokenVerifier
}

func NewHandler(service *app.QuestService, tokens *auth.TokenVerifier) *Handler {
	return &Handler{service: service, tokens: tokens}
}

// Register wires the REST routes onto a mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/answers", h.handleRecordAnswer)
	mux.HandleFunc("/v1/login/daily", h.handleDailyLogin)
	mux.HandleFunc("/v1/quests/", h.handleNextDestination)
}

type recordAnswerRequest struct {
	UserID     string `json:"userId"`
	QuestID    string `json:"questId"`
	QuestionID string `json:"questionId"`
	IsCorrect  bool   `json:"isCorrect"`
	Answer     struct {
		OptionID        string `json:"optionId"`
		CorrectOptionID string `json:"correctOptionId"`
	} `json:"answer"`
}

func (h *Handler) handleRecordAnswer(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req recordAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, err := h.service.RecordAnswer(r.Context(), app.RecordAnswerRequest{
		UserID:          req.UserID,
		QuestID:         req.QuestID,
		QuestionID:      req.QuestionID,
		OptionID:        req.Answer.OptionID,
		Correct:         req.IsCorrect,
		CorrectOptionID: req.Answer.CorrectOptionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrQuestNotFound), errors.Is(err, domain.ErrQuestionNotFound), errors.Is(err, domain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			log.Printf("record answer failed: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type dailyLoginResponse struct {
	FirstLoginToday bool `json:"firstLoginToday"`
	Mood            int  `json:"mood"`
}

func (h *Handler) handleDailyLogin(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session, err := h.tokens.FromAuthorizationHeader(r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	outcome, err := h.service.DailyLogin(r.Context(), session)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		log.Printf("daily login failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, dailyLoginResponse{
		FirstLoginToday: outcome.FirstLoginToday,
		Mood:            outcome.Mood,
	})
}

func (h *Handler) handleNextDestination(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	questID, ok := questIDFromPath(r.URL.Path)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	session, err := h.tokens.FromAuthorizationHeader(r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dest, err := h.service.NextDestination(r.Context(), session, questID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrQuestNotFound):
			writeError(w, http.StatusNotFound, "quest not found")
		case errors.Is(err, domain.ErrInvalidQuest):
			writeError(w, http.StatusBadRequest, "invalid quest content")
		default:
			log.Printf("resolve destination failed: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, dest)
}

// questIDFromPath extracts {id} from /v1/quests/{id}/next.
func questIDFromPath(path string) (string, bool) {
	rest := strings.TrimPrefix(path, "/v1/quests/")
	if rest == path {
		return "", false
	}
	questID, tail, found := strings.Cut(rest, "/")
	if !found || questID == "" || tail != "next" {
		return "", false
	}
	return questID, true
}

func allowCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
