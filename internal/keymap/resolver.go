package keymap

import (
	"slices"
	"strings"
)

// Resolver looks up the action bound to a key within a set of contexts.
type Resolver struct {
	actions map[string]Action
	keys    map[Action][]string
}

// NewResolver indexes bindings. A key bound twice resolves to the later
// binding; an action bound in several contexts keeps each key once.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		actions: make(map[string]Action, len(bindings)),
		keys:    make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, k := range b.Keys {
			r.actions[k] = b.Action
			if !slices.Contains(r.keys[b.Action], k) {
				r.keys[b.Action] = append(r.keys[b.Action], k)
			}
		}
	}
	return r
}

// Resolve returns the action bound to key, or "" when none is.
func (r *Resolver) Resolve(key string) Action {
	return r.actions[key]
}

// KeysFor returns the keys bound to action in binding order.
func (r *Resolver) KeysFor(action Action) []string {
	return r.keys[action]
}

// Hint renders "key label" pairs for a status line, using the first key
// bound to each action. Unbound actions are skipped.
func (r *Resolver) Hint(pairs ...HintPair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		keys := r.keys[p.Action]
		if len(keys) == 0 {
			continue
		}
		parts = append(parts, keys[0]+" "+p.Label)
	}
	return strings.Join(parts, " · ")
}

// HintPair names an action in a Hint.
type HintPair struct {
	Action Action
	Label  string
}
