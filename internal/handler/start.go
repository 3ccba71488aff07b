package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start and /units commands
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	h.ResetState(userID)

	text, markup, err := h.unitsView(userID)
	if err != nil {
		h.logger.Error("Failed to list units", zap.Error(err))
		return c.Send("Something went wrong. Please try again later.")
	}

	msg, err := h.bot.Send(c.Recipient(), text, markup)
	if err != nil {
		return err
	}

	h.SetState(userID, h.withMessage(h.GetState(userID), msg))
	return nil
}

// handleText answers free text with a hint
func (h *Handler) handleText(c tele.Context) error {
	return c.Send("Use /start to pick a unit.")
}

// unitsView builds the unit list with the user's last unit on top
func (h *Handler) unitsView(userID int64) (string, *tele.ReplyMarkup, error) {
	units, err := h.dictService.ListUnits()
	if err != nil {
		return "", nil, err
	}

	lastUnit, err := h.prefs.GetLastUnit(userID)
	if err != nil {
		h.logger.Warn("Failed to load last unit", zap.Error(err), zap.Int64("user_id", userID))
		lastUnit = ""
	}
	if !contains(units, lastUnit) {
		lastUnit = ""
	}

	return unitsText(units), unitsMarkup(units, lastUnit), nil
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
