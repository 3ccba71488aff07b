package handler

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"flashcards/internal/domain"
	"flashcards/internal/quiz"
	"flashcards/internal/repository"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// parseCallbackData splits a callback into its action and payload. Buttons
// built with markup.Data arrive as "\funique|payload" when the Unique field
// was not filled in by telebot.
func parseCallbackData(unique, data string) (string, string) {
	if unique != "" {
		return unique, cleanCallbackData(data)
	}

	action, payload, _ := strings.Cut(cleanCallbackData(data), "|")
	return action, payload
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, tele.ErrSameMessageContent) || strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already up to date, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	action, payload := parseCallbackData(callback.Unique, callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("action", action),
		zap.String("payload", payload),
		zap.String("id", callback.ID),
		zap.Int64("user_id", c.Sender().ID),
	)

	switch action {
	case actionUnit:
		return h.handleUnitSelection(c, payload)
	case actionUnits:
		return h.handleUnits(c)
	case actionPrev:
		return h.handleStep(c, -1)
	case actionNext:
		return h.handleStep(c, 1)
	case actionToggle:
		return h.handleToggle(c)
	case actionDelete:
		return h.handleDelete(c)
	case actionTest:
		return h.handleTestStart(c)
	case actionYes:
		return h.handleJudge(c, true)
	case actionNo:
		return h.handleJudge(c, false)
	case actionShow:
		return h.handleReveal(c)
	case actionQuit:
		return h.handleTestQuit(c)
	}

	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("action", action),
		zap.String("payload", payload),
	)
	return c.Respond()
}

// render edits the callback message in place, falling back to a new one
func (h *Handler) render(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	userID := c.Sender().ID

	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		msg, err := h.bot.Send(c.Recipient(), text, markup)
		if err != nil {
			return err
		}
		h.SetState(userID, h.withMessage(h.GetState(userID), msg))
		return nil
	}

	h.SetState(userID, h.withMessage(h.GetState(userID), c.Message()))
	return c.Respond()
}

func (h *Handler) withMessage(state domain.StateData, msg *tele.Message) domain.StateData {
	if msg != nil {
		state.MessageID = msg.ID
		if msg.Chat != nil {
			state.ChatID = msg.Chat.ID
		}
	}
	return state
}

// handleUnits goes back to the unit list
func (h *Handler) handleUnits(c tele.Context) error {
	userID := c.Sender().ID
	h.ResetState(userID)

	text, markup, err := h.unitsView(userID)
	if err != nil {
		h.logger.Error("Failed to list units", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Failed to load units"})
	}
	return h.render(c, text, markup)
}

// handleUnitSelection opens a unit in learn mode
func (h *Handler) handleUnitSelection(c tele.Context, unit string) error {
	userID := c.Sender().ID
	h.stopTest(userID)

	if _, err := h.dictService.GetUnit(unit); err != nil {
		return h.respondUnitError(c, err)
	}

	if err := h.prefs.SetLastUnit(userID, unit); err != nil {
		h.logger.Warn("Failed to save last unit", zap.Error(err), zap.Int64("user_id", userID))
	}

	state := h.GetState(userID)
	state.Mode = domain.ModeLearn
	state.Unit = unit
	state.Index = 0
	state.ShowDefinition = true
	h.SetState(userID, state)

	return h.renderLearn(c, "")
}

// renderLearn shows the current learn mode card, optionally prefixed
func (h *Handler) renderLearn(c tele.Context, prefix string) error {
	userID := c.Sender().ID
	state := h.GetState(userID)

	words, err := h.dictService.GetUnit(state.Unit)
	if err != nil {
		return h.respondUnitError(c, err)
	}

	state.Index = clampIndex(state.Index, len(words))
	h.SetState(userID, state)

	return h.render(c, prefix+learnText(state.Unit, words, state.Index, state.ShowDefinition), learnMarkup(state.ShowDefinition))
}

// handleStep moves through the unit, wrapping at both ends
func (h *Handler) handleStep(c tele.Context, delta int) error {
	userID := c.Sender().ID
	state := h.GetState(userID)
	if state.Mode != domain.ModeLearn {
		return c.Respond()
	}

	words, err := h.dictService.GetUnit(state.Unit)
	if err != nil {
		return h.respondUnitError(c, err)
	}
	if len(words) == 0 {
		return c.Respond()
	}

	state.Index = (state.Index + delta + len(words)) % len(words)
	h.SetState(userID, state)

	return h.renderLearn(c, "")
}

// handleToggle shows or hides the definition in learn mode
func (h *Handler) handleToggle(c tele.Context) error {
	userID := c.Sender().ID
	state := h.GetState(userID)
	if state.Mode != domain.ModeLearn {
		return c.Respond()
	}

	state.ShowDefinition = !state.ShowDefinition
	h.SetState(userID, state)

	return h.renderLearn(c, "")
}

// handleDelete removes the current word from the unit
func (h *Handler) handleDelete(c tele.Context) error {
	userID := c.Sender().ID
	state := h.GetState(userID)
	if state.Mode != domain.ModeLearn {
		return c.Respond()
	}

	if err := h.dictService.DeleteWord(state.Unit, state.Index); err != nil {
		return h.respondUnitError(c, err)
	}

	return h.renderLearn(c, "🗑 Word deleted.\n\n")
}

// handleTestStart starts a test over the current unit
func (h *Handler) handleTestStart(c tele.Context) error {
	userID := c.Sender().ID
	state := h.GetState(userID)
	if state.Mode != domain.ModeLearn {
		return c.Respond()
	}

	session, snap, err := h.quizService.Start(state.Unit, false, h.testListener(userID))
	if errors.Is(err, quiz.ErrEmptyItemSet) {
		return c.Respond(&tele.CallbackResponse{Text: "This unit has no words to test", ShowAlert: true})
	}
	if err != nil {
		return h.respondUnitError(c, err)
	}

	state.Mode = domain.ModeTest
	state.SessionID = session.ID
	h.SetState(userID, state)

	return h.render(c, testText(snap, quiz.EventNone), testMarkup(snap.Revealed))
}

// handleJudge applies ✓ or ✗ to the current test word
func (h *Handler) handleJudge(c tele.Context, correct bool) error {
	userID := c.Sender().ID
	state := h.GetState(userID)
	if state.Mode != domain.ModeTest {
		return c.Respond()
	}

	snap, event, err := h.quizService.Judge(state.SessionID, correct)
	if err != nil {
		return h.respondTestError(c, err)
	}

	if event == quiz.EventCompleted {
		h.stopTest(userID)
		state = h.GetState(userID)
		state.Mode = domain.ModeLearn
		state.ShowDefinition = true
		h.SetState(userID, state)
		return h.renderLearn(c, completedText+"\n\n")
	}

	return h.render(c, testText(snap, event), testMarkup(snap.Revealed))
}

// handleReveal toggles the definition of the current test word
func (h *Handler) handleReveal(c tele.Context) error {
	userID := c.Sender().ID
	state := h.GetState(userID)
	if state.Mode != domain.ModeTest {
		return c.Respond()
	}

	snap, err := h.quizService.Snapshot(state.SessionID)
	if err != nil {
		return h.respondTestError(c, err)
	}

	if snap.Revealed {
		snap, err = h.quizService.Hide(state.SessionID)
	} else {
		snap, err = h.quizService.Reveal(state.SessionID)
	}
	if err != nil {
		return h.respondTestError(c, err)
	}

	return h.render(c, testText(snap, quiz.EventNone), testMarkup(snap.Revealed))
}

// handleTestQuit leaves test mode without finishing
func (h *Handler) handleTestQuit(c tele.Context) error {
	userID := c.Sender().ID
	h.stopTest(userID)

	state := h.GetState(userID)
	if state.Unit == "" {
		return h.handleUnits(c)
	}

	state.Mode = domain.ModeLearn
	state.ShowDefinition = true
	h.SetState(userID, state)
	return h.renderLearn(c, "")
}

// testListener refreshes the stored test message once a held answer is
// resolved in the background
func (h *Handler) testListener(userID int64) quiz.Listener {
	return func(n quiz.Notification) {
		if !n.Deferred {
			return
		}

		state := h.GetState(userID)
		if state.Mode != domain.ModeTest || state.MessageID == 0 {
			return
		}

		msg := &tele.StoredMessage{MessageID: strconv.Itoa(state.MessageID), ChatID: state.ChatID}
		if _, err := h.bot.Edit(msg, testText(n.Snapshot, n.Event), testMarkup(n.Snapshot.Revealed)); err != nil {
			h.logger.Warn("Failed to refresh test message", zap.Error(err), zap.Int64("user_id", userID))
		}
	}
}

func (h *Handler) respondUnitError(c tele.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrUnitNotFound), errors.Is(err, repository.ErrInvalidUnit):
		return c.Respond(&tele.CallbackResponse{Text: "Unit not found", ShowAlert: true})
	case errors.Is(err, repository.ErrInvalidIndex):
		return c.Respond(&tele.CallbackResponse{Text: "Invalid word index."})
	}

	h.logger.Error("Dictionary operation failed", zap.Error(err), zap.Int64("user_id", c.Sender().ID))
	return c.Respond(&tele.CallbackResponse{Text: "Something went wrong"})
}

func (h *Handler) respondTestError(c tele.Context, err error) error {
	if errors.Is(err, quiz.ErrSessionComplete) || errors.Is(err, quiz.ErrSessionClosed) {
		return c.Respond()
	}

	userID := c.Sender().ID
	h.logger.Warn("Test session unavailable", zap.Error(err), zap.Int64("user_id", userID))

	state := h.GetState(userID)
	state.SessionID = ""
	state.Mode = domain.ModeLearn
	h.SetState(userID, state)
	return c.Respond(&tele.CallbackResponse{Text: "The test has expired, start it again"})
}
