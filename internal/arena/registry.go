package arena

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/ringout/internal/core"
)

// Registry resolves player IDs and colliders to avatars.
// Entities are registered explicitly when a match is built.
type Registry struct {
	avatars map[core.PlayerID]*Avatar
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{avatars: make(map[core.PlayerID]*Avatar)}
}

// Add registers an avatar. Registering the same player twice is an error.
func (r *Registry) Add(a *Avatar) error {
	if a == nil {
		return fmt.Errorf("arena: nil avatar")
	}
	if !a.Player.Valid() {
		return fmt.Errorf("arena: invalid player %d", int(a.Player))
	}
	if _, exists := r.avatars[a.Player]; exists {
		return fmt.Errorf("arena: %s already registered", a.Player)
	}
	r.avatars[a.Player] = a
	return nil
}

// Avatar returns the avatar for a player, or nil.
func (r *Registry) Avatar(id core.PlayerID) *Avatar {
	return r.avatars[id]
}

// OwnerOf returns the avatar that owns a collider, or nil.
func (r *Registry) OwnerOf(c Collider) *Avatar {
	return r.avatars[c.Owner]
}

// Avatars returns all avatars ordered by player.
func (r *Registry) Avatars() []*Avatar {
	out := make([]*Avatar, 0, len(r.avatars))
	for _, a := range r.avatars {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Player < out[j].Player
	})
	return out
}
