package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/ringout/internal/input"
	"github.com/vovakirdan/ringout/internal/match"
)

//go:embed defaults/ringout.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Match: MatchConfig{
			Stage:             "dojo",
			Lives:             match.DefaultLives,
			Pickups:           true,
			PickupIntervalMin: match.DefaultPickupIntervalMin,
			PickupIntervalMax: match.DefaultPickupIntervalMax,
			ReturnDelay:       match.DefaultReturnDelay,
		},
		Avatar: AvatarConfig{
			RunSpeed:         6,
			DashSpeed:        12,
			JumpImpulse:      11,
			Gravity:          25,
			MaxFallSpeed:     18,
			AirControl:       0.6,
			AttackReach:      1.5,
			Knockback:        14,
			ShotgunRange:     5,
			ShotgunKnockback: 22,
			SpawnHold:        2 * time.Second,
		},
		Players: []input.RawBindings{
			{
				Scheme: "classic",
				Buttons: map[string][]string{
					"attack":  {"f"},
					"shoot":   {"g"},
					"defend":  {"h"},
					"special": {"r"},
					"jump":    {"space"},
					"reload":  {"t"},
					"swap":    {"c"},
					"taunt":   {"v"},
				},
				Axes: map[string]input.AxisKeys{
					"move": {Up: "w", Down: "s", Left: "a", Right: "d"},
				},
			},
			{
				Scheme: "classic",
				Buttons: map[string][]string{
					"attack":  {"."},
					"shoot":   {","},
					"defend":  {"/"},
					"special": {"l"},
					"jump":    {"enter"},
					"reload":  {"p"},
					"swap":    {"o"},
					"taunt":   {"i"},
				},
				Axes: map[string]input.AxisKeys{
					"move": {Up: "up", Down: "down", Left: "left", Right: "right"},
				},
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
