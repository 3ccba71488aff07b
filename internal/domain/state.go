package domain

// ChatMode represents what a chat is currently doing
type ChatMode string

const (
	ModeIdle  ChatMode = "idle"
	ModeLearn ChatMode = "learn"
	ModeTest  ChatMode = "test"
)

// StateData holds the per-chat view state of the bot front end
type StateData struct {
	Mode           ChatMode
	Unit           string
	Index          int
	ShowDefinition bool
	SessionID      string
	ChatID         int64
	MessageID      int // For editing messages
}
