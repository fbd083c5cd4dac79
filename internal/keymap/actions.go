// Package keymap defines key bindings and action dispatch for the transport.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit        Action = "quit"
	ActionSwitchFocus Action = "switch_focus"
	ActionHelp        Action = "help"
	ActionReload      Action = "reload"

	// Playback actions
	ActionPlayStop         Action = "play_stop"
	ActionCancelTransition Action = "cancel_transition"
	ActionSeekForward      Action = "seek_forward"
	ActionSeekBack         Action = "seek_back"
	ActionGoTo             Action = "go_to"

	// Navigation actions
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionMoveLeft  Action = "move_left"
	ActionMoveRight Action = "move_right"
	ActionJumpStart Action = "jump_start"
	ActionJumpEnd   Action = "jump_end"

	// Selection/activation actions
	ActionSelect Action = "select" // enter - load song or queue section
)
