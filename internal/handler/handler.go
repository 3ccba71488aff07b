package handler

import (
	"errors"
	"sync"

	"flashcards/internal/domain"
	"flashcards/internal/middleware"
	"flashcards/internal/repository"
	"flashcards/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot         *tele.Bot
	dictService *service.DictionaryService
	quizService *service.QuizService
	prefs       repository.PreferenceRepository
	logger      *zap.Logger

	// Per-chat view state
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	dictService *service.DictionaryService,
	quizService *service.QuizService,
	prefs repository.PreferenceRepository,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:         bot,
		dictService: dictService,
		quizService: quizService,
		prefs:       prefs,
		logger:      logger,
		states:      make(map[int64]*domain.StateData),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	h.bot.Use(middleware.Logger(h.logger))

	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/units", h.handleStart)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// All inline buttons are routed through one callback handler
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns a copy of the user's current state
func (h *Handler) GetState(userID int64) domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return domain.StateData{Mode: domain.ModeIdle}
	}
	return *state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = &state
}

// ResetState stops any running test and resets the user to idle
func (h *Handler) ResetState(userID int64) {
	h.stopTest(userID)
	h.SetState(userID, domain.StateData{Mode: domain.ModeIdle})
}

// stopTest tears down the user's test session, if any
func (h *Handler) stopTest(userID int64) {
	state := h.GetState(userID)
	if state.SessionID == "" {
		return
	}

	if err := h.quizService.Stop(state.SessionID); err != nil && !errors.Is(err, service.ErrSessionNotFound) {
		h.logger.Warn("Failed to stop test session", zap.Error(err), zap.Int64("user_id", userID))
	}

	state.SessionID = ""
	h.SetState(userID, state)
}

// Callback actions
const (
	actionUnit   = "unit"
	actionUnits  = "units"
	actionPrev   = "prev"
	actionNext   = "next"
	actionToggle = "toggle"
	actionDelete = "delete"
	actionTest   = "test"
	actionYes    = "yes"
	actionNo     = "no"
	actionShow   = "show"
	actionQuit   = "quit"
)

// unitsMarkup lists units, with a shortcut to the last selected one
func unitsMarkup(units []string, lastUnit string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	if lastUnit != "" {
		rows = append(rows, menu.Row(menu.Data("▶️ Continue "+lastUnit, actionUnit, lastUnit)))
	}

	row := tele.Row{}
	for _, unit := range units {
		row = append(row, menu.Data(unit, actionUnit, unit))
		if len(row) == 3 {
			rows = append(rows, row)
			row = tele.Row{}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	menu.Inline(rows...)
	return menu
}

// learnMarkup returns the learn mode keyboard
func learnMarkup(showDefinition bool) *tele.ReplyMarkup {
	toggle := "👁 Show definition"
	if showDefinition {
		toggle = "🙈 Hide definition"
	}

	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(menu.Data("⬅️ Prev", actionPrev), menu.Data("➡️ Next", actionNext)),
		menu.Row(menu.Data(toggle, actionToggle), menu.Data("🗑 Delete", actionDelete)),
		menu.Row(menu.Data("📝 Test", actionTest), menu.Data("📚 Units", actionUnits)),
	)
	return menu
}

// testMarkup returns the test mode keyboard
func testMarkup(revealed bool) *tele.ReplyMarkup {
	toggle := "👁 Show"
	if revealed {
		toggle = "🙈 Hide"
	}

	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(menu.Data("✓", actionYes), menu.Data(toggle, actionShow), menu.Data("✗", actionNo)),
		menu.Row(menu.Data("📖 Learn", actionQuit)),
	)
	return menu
}
