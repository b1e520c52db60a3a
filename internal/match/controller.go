// Package match runs the lifecycle of one fight: ring-outs, lives, respawns,
// the winner and the weapon pickup timer.
package match

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ringout/internal/arena"
	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/motion"
	"github.com/vovakirdan/ringout/internal/scene"
)

// Default match settings
const (
	DefaultLives             = 3
	DefaultPickupIntervalMin = 15 * time.Second
	DefaultPickupIntervalMax = 30 * time.Second
	DefaultReturnDelay       = 3 * time.Second
)

// Config holds the rules of a match.
type Config struct {
	Lives             int
	PickupIntervalMin time.Duration
	PickupIntervalMax time.Duration
	PickupsEnabled    bool
	SpawnRegion       core.Rect // Pickups appear uniformly inside this box
	ReturnDelay       time.Duration
	ReturnScene       scene.Name  // Empty disables the automatic return
	TriggerLayer      arena.Layer // Only contacts on this layer ring out
}

// DefaultConfig returns the standard rules.
func DefaultConfig() Config {
	return Config{
		Lives:             DefaultLives,
		PickupIntervalMin: DefaultPickupIntervalMin,
		PickupIntervalMax: DefaultPickupIntervalMax,
		PickupsEnabled:    true,
		SpawnRegion:       core.NewRect(-5, 0, 10, 4),
		ReturnDelay:       DefaultReturnDelay,
		ReturnScene:       scene.StageSelect,
		TriggerLayer:      arena.LayerECB,
	}
}

// Controller referees a match. It reads avatars through the registry and
// never owns them.
type Controller struct {
	cfg        Config
	registry   *arena.Registry
	boundaries []Boundary
	spawns     [core.PlayerCount]*motion.Platform
	rng        *rand.Rand
	logger     *log.Logger

	ended  bool
	winner core.PlayerID

	pickup      *arena.Pickup
	pickupTimer time.Duration // Time since the last pickup roll
	nextPickup  time.Duration // Sampled wait until the next roll

	returnTimer time.Duration
	returnSent  bool
	elapsed     time.Duration
}

// New creates a controller. Spawn platforms are indexed by player; a nil
// platform makes that player respawn at the centre of the spawn region.
// A nil logger discards output.
func New(
	cfg Config,
	registry *arena.Registry,
	boundaries []Boundary,
	spawns [core.PlayerCount]*motion.Platform,
	seed int64,
	logger *log.Logger,
) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.PickupIntervalMax < cfg.PickupIntervalMin {
		cfg.PickupIntervalMax = cfg.PickupIntervalMin
	}

	c := &Controller{
		cfg:        cfg,
		registry:   registry,
		boundaries: boundaries,
		spawns:     spawns,
		rng:        rand.New(rand.NewSource(seed)),
		logger:     logger,
	}
	c.nextPickup = c.sampleInterval()
	return c
}

// sampleInterval draws the wait before the next pickup roll.
func (c *Controller) sampleInterval() time.Duration {
	span := c.cfg.PickupIntervalMax - c.cfg.PickupIntervalMin
	return c.cfg.PickupIntervalMin + time.Duration(c.rng.Float64()*float64(span))
}

// OnTrigger handles a contact entering the arena's blast-zone trigger.
func (c *Controller) OnTrigger(contact arena.Collider) []Event {
	if c.ended {
		return nil
	}
	if contact.Layer != c.cfg.TriggerLayer {
		return nil
	}

	var events []Event
	for _, b := range c.boundaries {
		if contact.Touching(b.Region) {
			events = append(events, RingOutSplash{
				Player:   contact.Owner,
				Side:     b.Side,
				Position: contact.Bounds.Center(),
				Rotation: b.Rotation,
			})
		}
	}

	avatar := c.registry.OwnerOf(contact)
	if avatar == nil {
		c.logger.Warn("ring-out contact without avatar", "owner", contact.Owner)
		return events
	}

	avatar.Lives--
	events = append(events, LifeLost{Player: avatar.Player, Remaining: avatar.Lives})
	c.logger.Info("ring out", "player", avatar.Player, "lives", avatar.Lives)

	if avatar.Lives <= 0 {
		return append(events, c.endMatch(avatar.Player.Other()))
	}

	pos := c.spawnPoint(avatar.Player)
	avatar.Respawn(pos)
	return append(events, Respawned{Player: avatar.Player, Position: pos})
}

// spawnPoint activates the player's spawn platform and returns where the
// avatar reappears.
func (c *Controller) spawnPoint(id core.PlayerID) core.Vec2 {
	p := c.spawns[id]
	if p == nil {
		c.logger.Warn("no spawn platform, using spawn region", "player", id)
		return c.cfg.SpawnRegion.Center()
	}
	p.SetActive(true)
	return p.Position()
}

// endMatch freezes every avatar and declares the winner.
func (c *Controller) endMatch(winner core.PlayerID) Event {
	c.ended = true
	c.winner = winner
	c.returnTimer = 0

	for _, a := range c.registry.Avatars() {
		a.Freeze()
	}

	c.logger.Info("match ended", "winner", winner)
	return MatchEnded{
		Winner: winner,
		Loser:  winner.Other(),
		Text:   WinText(winner),
	}
}

// WinText is the banner shown for a winner.
func WinText(winner core.PlayerID) string {
	return fmt.Sprintf("%s Wins!", winner)
}

// Update advances the controller's timers by dt.
func (c *Controller) Update(dt time.Duration) Result {
	var res Result
	c.elapsed += dt

	if c.ended {
		if c.returnSent || c.cfg.ReturnScene == "" {
			return res
		}
		c.returnTimer += dt
		if c.returnTimer >= c.cfg.ReturnDelay {
			c.returnSent = true
			res.Scene = scene.Load(c.cfg.ReturnScene)
		}
		return res
	}

	if !c.cfg.PickupsEnabled {
		return res
	}

	c.pickupTimer += dt
	if c.pickupTimer >= c.nextPickup {
		c.pickupTimer = 0
		c.nextPickup = c.sampleInterval()
		if ev, ok := c.SpawnPickup(); ok {
			res.Events = append(res.Events, ev)
		}
	}
	return res
}

// SpawnPickup places a pickup at a random point in the spawn region unless
// one is already active.
func (c *Controller) SpawnPickup() (PickupSpawned, bool) {
	if c.pickup != nil && c.pickup.Active {
		return PickupSpawned{}, false
	}

	r := c.cfg.SpawnRegion
	pos := core.V(
		r.X+c.rng.Float64()*r.W,
		r.Y+c.rng.Float64()*r.H,
	)
	c.pickup = arena.NewPickup(pos)
	c.logger.Debug("pickup spawned", "x", pos.X, "y", pos.Y)
	return PickupSpawned{Position: pos}, true
}

// OnPickupContact handles a collider touching the active pickup.
func (c *Controller) OnPickupContact(contact arena.Collider) []Event {
	if c.ended || c.pickup == nil || !c.pickup.Active {
		return nil
	}
	if !contact.Touching(c.pickup.Bounds()) {
		return nil
	}

	avatar := c.registry.OwnerOf(contact)
	if avatar == nil || !avatar.Enabled {
		return nil
	}

	avatar.ChangeWeapon()
	c.pickup.Active = false
	c.pickup = nil
	return []Event{PickupCollected{Player: avatar.Player, Weapon: avatar.Weapon}}
}

// Pickup returns the active pickup, or nil.
func (c *Controller) Pickup() *arena.Pickup {
	return c.pickup
}

// Ended reports whether the match is over.
func (c *Controller) Ended() bool {
	return c.ended
}

// Winner returns the winner once the match has ended.
func (c *Controller) Winner() (core.PlayerID, bool) {
	return c.winner, c.ended
}

// Elapsed returns the total time passed to Update.
func (c *Controller) Elapsed() time.Duration {
	return c.elapsed
}

// Boundaries returns the blast zones this controller checks.
func (c *Controller) Boundaries() []Boundary {
	return c.boundaries
}

// Config returns the rules in effect.
func (c *Controller) Config() Config {
	return c.cfg
}
