package multiplayer

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/registry"
	"github.com/vovakirdan/ringout/internal/session"
)

// CodeLength is the length of a join code.
const CodeLength = 6

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long a lobby waits for an opponent
	CleanupPeriod time.Duration // How often expired lobbies are swept
	TickRate      int           // Simulation rate of online matches
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		CleanupPeriod: 30 * time.Second,
		TickRate:      core.DefaultConfig().TickRate,
	}
}

// GameFactory builds the game for a new online match.
type GameFactory func(stageID string, seed int64) (*session.Game, error)

// Coordinator owns every lobby and online match on a server. Sessions talk
// to it through Send; it answers through their handles.
type Coordinator struct {
	config   CoordinatorConfig
	factory  GameFactory
	sessions *SessionRegistry
	saver    session.ResultSaver
	logger   *log.Logger

	mu           sync.RWMutex
	lobbies      map[string]*Lobby
	matches      map[MatchID]*OnlineMatch
	sessionLobby map[SessionID]string
	sessionMatch map[SessionID]MatchID

	msgs     chan CoordinatorMessage
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewCoordinator creates a coordinator. A nil logger discards output.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = DefaultCoordinatorConfig().CleanupPeriod
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		config:       cfg,
		factory:      factory,
		sessions:     sessions,
		logger:       logger,
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgs:         make(chan CoordinatorMessage, 256),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// SetResultSaver sets where finished matches are recorded. Call before
// Start.
func (c *Coordinator) SetResultSaver(saver session.ResultSaver) {
	c.saver = saver
}

// Start begins background processing.
func (c *Coordinator) Start() {
	c.wg.Add(2)
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop cancels every running match and waits for all goroutines to exit.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		c.cancel()
		c.wg.Wait()
	})
}

// Send queues a message. It blocks only while the queue is full and the
// coordinator is running.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgs <- msg:
	case <-c.ctx.Done():
	}
}

func (c *Coordinator) processMessages() {
	defer c.wg.Done()
	for {
		select {
		case msg := <-c.msgs:
			c.handleMessage(msg)
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m.SessionID)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m.SessionID)
	case PlayerInputMsg:
		c.handlePlayerInput(m)
	case SessionDisconnectedMsg:
		c.handleLeaveLobby(m.SessionID)
		c.handleLeaveMatch(m.SessionID)
	}
}

// busy reports why a session cannot enter another lobby. Must be called
// with the lock held.
func (c *Coordinator) busy(id SessionID) string {
	if _, ok := c.sessionLobby[id]; ok {
		return "already hosting a lobby"
	}
	if _, ok := c.sessionMatch[id]; ok {
		return "already in a match"
	}
	return ""
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	host, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}
	if !registry.Exists(msg.StageID) {
		host.Send(LobbyErrorEvent{Message: "unknown stage " + msg.StageID})
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if why := c.busy(msg.SessionID); why != "" {
		host.Send(LobbyErrorEvent{Message: why})
		return
	}

	code := c.uniqueCode()
	c.lobbies[code] = &Lobby{
		Code:      code,
		StageID:   msg.StageID,
		Host:      host,
		CreatedAt: time.Now(),
	}
	c.sessionLobby[msg.SessionID] = code
	c.logger.Info("lobby opened", "code", code, "stage", msg.StageID, "host", msg.SessionID)
	host.Send(LobbyCreatedEvent{Code: code, StageID: msg.StageID})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	joiner, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if why := c.busy(msg.SessionID); why != "" {
		joiner.Send(LobbyErrorEvent{Message: why})
		return
	}

	code := NormalizeCode(msg.Code)
	lobby, ok := c.lobbies[code]
	if !ok {
		joiner.Send(LobbyErrorEvent{Message: "no lobby with code " + code})
		return
	}
	if lobby.Host.ID() == msg.SessionID {
		joiner.Send(LobbyErrorEvent{Message: "cannot join your own lobby"})
		return
	}

	c.startMatch(lobby, joiner)
}

// startMatch turns a lobby into a running match. Must be called with the
// lock held.
func (c *Coordinator) startMatch(lobby *Lobby, joiner SessionHandle) {
	delete(c.lobbies, lobby.Code)
	delete(c.sessionLobby, lobby.Host.ID())

	game, err := c.factory(lobby.StageID, time.Now().UnixNano())
	if err != nil {
		c.logger.Error("cannot create online game", "stage", lobby.StageID, "error", err)
		failed := LobbyClosedEvent{Code: lobby.Code, Reason: "could not start the match"}
		lobby.Host.Send(failed)
		joiner.Send(failed)
		return
	}

	m := NewOnlineMatch(lobby.Code, game, lobby.Host, joiner, c.config.TickRate, c.logger)
	id := m.ID()
	c.matches[id] = m
	c.sessionMatch[lobby.Host.ID()] = id
	c.sessionMatch[joiner.ID()] = id

	for side, s := range m.Seats() {
		s.Send(MatchStartedEvent{
			MatchID:  id,
			Code:     lobby.Code,
			StageID:  lobby.StageID,
			Side:     core.PlayerID(side),
			Opponent: m.Seats()[1-side].ID(),
		})
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		m.Run(c.ctx, func(res session.MatchResult) {
			c.matchEnded(m, res)
		})
	}()
}

// matchEnded releases a finished match, records it and tells both seats.
func (c *Coordinator) matchEnded(m *OnlineMatch, res session.MatchResult) {
	c.mu.Lock()
	delete(c.matches, m.ID())
	for _, s := range m.Seats() {
		if c.sessionMatch[s.ID()] == m.ID() {
			delete(c.sessionMatch, s.ID())
		}
	}
	c.mu.Unlock()

	c.logger.Info("online match finished", "id", m.ID(), "reason", res.Reason, "ticks", res.Ticks)
	if c.saver != nil && res.Ticks > 0 {
		if err := c.saver.SaveMatchResult(res); err != nil {
			c.logger.Warn("could not save online match", "id", m.ID(), "error", err)
		}
	}

	evt := MatchEndedEvent{MatchID: m.ID(), Result: res}
	for _, s := range m.Seats() {
		s.Send(evt)
	}
}

// handleLeaveLobby closes the lobby a session hosts.
func (c *Coordinator) handleLeaveLobby(id SessionID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code, ok := c.sessionLobby[id]
	if !ok {
		return
	}
	delete(c.sessionLobby, id)
	delete(c.lobbies, code)
	c.logger.Info("lobby closed", "code", code, "host", id)
}

func (c *Coordinator) handleLeaveMatch(id SessionID) {
	if m, ok := c.matchOf(id); ok {
		m.PlayerLeft(id)
	}
}

func (c *Coordinator) handlePlayerInput(msg PlayerInputMsg) {
	m, ok := c.matchOf(msg.SessionID)
	if !ok {
		return
	}
	if side, ok := m.Side(msg.SessionID); ok {
		m.SendInput(side, msg.Frame)
	}
}

func (c *Coordinator) matchOf(id SessionID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	mid, ok := c.sessionMatch[id]
	if !ok {
		return nil, false
	}
	m, ok := c.matches[mid]
	return m, ok
}

func (c *Coordinator) cleanupLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			c.expireLobbies(now)
		case <-c.ctx.Done():
			return
		}
	}
}

// expireLobbies closes lobbies that have waited longer than LobbyTimeout.
func (c *Coordinator) expireLobbies(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for code, lobby := range c.lobbies {
		if now.Sub(lobby.CreatedAt) <= c.config.LobbyTimeout {
			continue
		}
		lobby.Host.Send(LobbyClosedEvent{Code: code, Reason: "nobody joined in time"})
		delete(c.sessionLobby, lobby.Host.ID())
		delete(c.lobbies, code)
		c.logger.Info("lobby expired", "code", code)
	}
}

// uniqueCode returns a join code no open lobby uses. Must be called with
// the lock held.
func (c *Coordinator) uniqueCode() string {
	for {
		code := rand.Text()[:CodeLength]
		if _, taken := c.lobbies[code]; !taken {
			return code
		}
	}
}

// NormalizeCode canonicalizes user-typed join codes.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lobby returns a copy of an open lobby.
func (c *Coordinator) Lobby(code string) (Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[NormalizeCode(code)]
	if !ok {
		return Lobby{}, false
	}
	return *l, true
}

// Match returns a running match.
func (c *Coordinator) Match(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of running matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
