package keymap

// Binding maps keys to an action and documents it.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "songs", "sections"
}

// All contains all key bindings.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionSwitchFocus, []string{"tab"}, "Switch focus", "global"},
	{ActionHelp, []string{"?"}, "Show help", "global"},
	{ActionReload, []string{"r"}, "Reload songs", "global"},

	// Playback
	{ActionPlayStop, []string{" "}, "Start/stop", "playback"},
	{ActionCancelTransition, []string{"esc", "backspace"}, "Cancel queued section", "playback"},
	{ActionSeekForward, []string{"shift+right", "L"}, "Seek +5s", "playback"},
	{ActionSeekBack, []string{"shift+left", "H"}, "Seek -5s", "playback"},
	{ActionGoTo, []string{":"}, "Go to position", "playback"},

	// Navigation
	{ActionMoveUp, []string{"k", "up"}, "Move up", "songs"},
	{ActionMoveDown, []string{"j", "down"}, "Move down", "songs"},
	{ActionMoveLeft, []string{"h", "left"}, "Previous section", "sections"},
	{ActionMoveRight, []string{"l", "right"}, "Next section", "sections"},
	{ActionJumpStart, []string{"g", "home"}, "First item", "songs"},
	{ActionJumpEnd, []string{"G", "end"}, "Last item", "songs"},
	{ActionSelect, []string{"enter"}, "Load song / queue section", "songs"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// Contexts lists binding contexts in help display order.
func Contexts() []string {
	return []string{"global", "playback", "songs", "sections"}
}
