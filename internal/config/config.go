// Package config provides YAML-based configuration for matches, avatar
// tuning and per-player key bindings.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/ringout/internal/arena"
	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/input"
	"github.com/vovakirdan/ringout/internal/match"
	"github.com/vovakirdan/ringout/internal/scene"
)

// Config is the complete ringout configuration file.
type Config struct {
	Match   MatchConfig         `yaml:"match"`
	Avatar  AvatarConfig        `yaml:"avatar"`
	Players []input.RawBindings `yaml:"players"` // Exactly one entry per player
}

// MatchConfig defines the rules of a match.
type MatchConfig struct {
	Stage             string        `yaml:"stage"` // Stage preselected in menus
	Lives             int           `yaml:"lives"`
	Pickups           bool          `yaml:"pickups"`
	PickupIntervalMin time.Duration `yaml:"pickup_interval_min"`
	PickupIntervalMax time.Duration `yaml:"pickup_interval_max"`
	ReturnDelay       time.Duration `yaml:"return_delay"`
}

// AvatarConfig defines movement and combat tuning, in arena units per second.
type AvatarConfig struct {
	RunSpeed         float64       `yaml:"run_speed"`
	DashSpeed        float64       `yaml:"dash_speed"`
	JumpImpulse      float64       `yaml:"jump_impulse"`
	Gravity          float64       `yaml:"gravity"`
	MaxFallSpeed     float64       `yaml:"max_fall_speed"`
	AirControl       float64       `yaml:"air_control"` // 0..1 share of run speed while airborne
	AttackReach      float64       `yaml:"attack_reach"`
	Knockback        float64       `yaml:"knockback"`
	ShotgunRange     float64       `yaml:"shotgun_range"`
	ShotgunKnockback float64       `yaml:"shotgun_knockback"`
	SpawnHold        time.Duration `yaml:"spawn_hold"` // How long a respawn platform stays
}

// Rules converts the match section into controller settings. The pickup
// region comes from the stage.
func (m MatchConfig) Rules(pickupRegion core.Rect) match.Config {
	return match.Config{
		Lives:             m.Lives,
		PickupIntervalMin: m.PickupIntervalMin,
		PickupIntervalMax: m.PickupIntervalMax,
		PickupsEnabled:    m.Pickups,
		SpawnRegion:       pickupRegion,
		ReturnDelay:       m.ReturnDelay,
		ReturnScene:       scene.StageSelect,
		TriggerLayer:      arena.LayerECB,
	}
}

// Validate checks values that would make a match unplayable and parses the
// key bindings.
func (c Config) Validate() error {
	m := c.Match
	if m.Lives < 1 {
		return fmt.Errorf("config: match.lives must be at least 1, got %d", m.Lives)
	}
	if m.PickupIntervalMin <= 0 || m.PickupIntervalMax < m.PickupIntervalMin {
		return fmt.Errorf("config: pickup interval [%s, %s] is invalid",
			m.PickupIntervalMin, m.PickupIntervalMax)
	}
	if m.ReturnDelay < 0 {
		return fmt.Errorf("config: match.return_delay must not be negative")
	}

	a := c.Avatar
	if a.Gravity <= 0 || a.MaxFallSpeed <= 0 {
		return fmt.Errorf("config: avatar gravity and max_fall_speed must be positive")
	}
	if a.AirControl < 0 || a.AirControl > 1 {
		return fmt.Errorf("config: avatar.air_control must be within [0, 1], got %g", a.AirControl)
	}

	_, err := c.Bindings()
	return err
}

// Bindings parses the per-player bindings. Players share one keyboard, so a
// key bound for both players is an error as well.
func (c Config) Bindings() ([core.PlayerCount]input.Bindings, error) {
	var out [core.PlayerCount]input.Bindings
	if len(c.Players) != core.PlayerCount {
		return out, fmt.Errorf("config: expected %d players, got %d", core.PlayerCount, len(c.Players))
	}

	owner := make(map[string]core.PlayerID)
	for i, raw := range c.Players {
		id := core.PlayerID(i)
		b, err := input.ParseBindings(raw)
		if err != nil {
			return out, fmt.Errorf("config: %s bindings: %w", id, err)
		}
		for _, k := range b.Keys() {
			if prev, taken := owner[k]; taken {
				return out, fmt.Errorf("config: %s bindings: %w: %q already used by %s",
					id, input.ErrDuplicateKey, k, prev)
			}
			owner[k] = id
		}
		out[i] = b
	}
	return out, nil
}
