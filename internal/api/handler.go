package api

import (
	"net/http"

	"flashcards/internal/metrics"
	"flashcards/internal/service"

	"go.uber.org/zap"
)

// Options holds transport settings
type Options struct {
	MaxUploadBytes int64
	CORSOrigin     string
}

// Handler serves the REST API
type Handler struct {
	dictService *service.DictionaryService
	quizService *service.QuizService
	metrics     *metrics.Metrics
	logger      *zap.Logger
	opts        Options
}

// NewHandler creates a new API handler
func NewHandler(
	dictService *service.DictionaryService,
	quizService *service.QuizService,
	m *metrics.Metrics,
	logger *zap.Logger,
	opts Options,
) *Handler {
	return &Handler{
		dictService: dictService,
		quizService: quizService,
		metrics:     m,
		logger:      logger,
		opts:        opts,
	}
}

// Routes wires all HTTP routes and wraps them in the middleware chain
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	// Dictionary
	mux.HandleFunc("POST /upload", h.upload)
	mux.HandleFunc("GET /dictionary", h.listUnits)
	mux.HandleFunc("GET /dictionary/{unit}", h.getUnit)
	mux.HandleFunc("DELETE /dictionary/{unit}/{index}", h.deleteWord)

	// Test sessions
	mux.HandleFunc("POST /sessions", h.startSession)
	mux.HandleFunc("GET /sessions/{id}", h.getSession)
	mux.HandleFunc("POST /sessions/{id}/reveal", h.revealSession)
	mux.HandleFunc("POST /sessions/{id}/hide", h.hideSession)
	mux.HandleFunc("POST /sessions/{id}/judge", h.judgeSession)
	mux.HandleFunc("POST /sessions/{id}/restart", h.restartSession)
	mux.HandleFunc("DELETE /sessions/{id}", h.stopSession)

	// Operations
	mux.Handle("GET /metrics", h.metrics.Handler())
	mux.HandleFunc("GET /healthz", h.health)

	return h.cors(h.accessLog(mux))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
