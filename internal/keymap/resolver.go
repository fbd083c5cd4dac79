package keymap

import "slices"

// Resolver answers two questions about a binding table: which action a
// pressed key triggers, and which keys the help screen lists for an action.
type Resolver struct {
	actions map[string]Action
	keys    map[Action][]string
}

// NewResolver indexes bindings. When two bindings claim the same key the later
// one wins. An action bound in several contexts lists each key once, in the
// order the bindings name them.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		actions: make(map[string]Action, len(bindings)),
		keys:    make(map[Action][]string, len(bindings)),
	}
	for _, b := range bindings {
		listed := r.keys[b.Action]
		for _, k := range b.Keys {
			r.actions[k] = b.Action
			if !slices.Contains(listed, k) {
				listed = append(listed, k)
			}
		}
		r.keys[b.Action] = listed
	}
	return r
}

// Default indexes All.
func Default() *Resolver {
	return NewResolver(All)
}

// Resolve returns the action bound to key, or "" for an unbound key.
func (r *Resolver) Resolve(key string) Action {
	return r.actions[key]
}

// KeysFor lists the keys that trigger action.
func (r *Resolver) KeysFor(action Action) []string {
	return r.keys[action]
}

// SectionIndex maps the digit keys 1-9 to section indices 0-8.
func SectionIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '1'), true
}
