package board

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionCookie names the cookie that carries a browser's board id.
const SessionCookie = "board_session"

type session struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Sessions gives every browser its own board.
type Sessions struct {
	newBoard func() *Controller
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	boards map[string]*session
}

// NewSessions creates an empty session table. newBoard builds an unloaded
// controller for each new session.
func NewSessions(newBoard func() *Controller, logger *slog.Logger) *Sessions {
	return &Sessions{
		newBoard: newBoard,
		logger:   logger,
		now:      time.Now,
		boards:   make(map[string]*session),
	}
}

// Get returns the board for id. An unknown or malformed id gets a fresh
// session whose board is loaded before Get returns; created reports that
// case and the returned id is the one to set in the cookie.
func (s *Sessions) Get(ctx context.Context, id string) (string, *Controller, bool) {
	if _, err := uuid.Parse(id); err == nil {
		s.mu.Lock()
		sess, ok := s.boards[id]
		if ok {
			sess.lastSeen = s.now()
		}
		s.mu.Unlock()
		if ok {
			return id, sess.ctrl, false
		}
	}

	id = uuid.NewString()
	ctrl := s.newBoard()
	if err := ctrl.Load(ctx); err != nil {
		s.logger.Warn("initial board load failed", "session", id, "error", err)
	}

	s.mu.Lock()
	s.boards[id] = &session{ctrl: ctrl, lastSeen: s.now()}
	s.mu.Unlock()

	s.logger.Debug("board session created", "session", id)
	return id, ctrl, true
}

// Sweep drops boards idle for longer than maxIdle and returns how many it
// removed.
func (s *Sessions) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	var idle []*Controller
	for id, sess := range s.boards {
		if sess.lastSeen.Before(cutoff) {
			idle = append(idle, sess.ctrl)
			delete(s.boards, id)
		}
	}
	s.mu.Unlock()

	for _, ctrl := range idle {
		ctrl.Close()
	}
	return len(idle)
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.boards)
}

// Close stops every board's timers and empties the table.
func (s *Sessions) Close() {
	s.mu.Lock()
	boards := s.boards
	s.boards = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range boards {
		sess.ctrl.Close()
	}
}

// Cleaner periodically sweeps idle sessions.
type Cleaner struct {
	sessions *Sessions
	interval time.Duration
	maxIdle  time.Duration
	logger   *slog.Logger
}

// NewCleaner creates a new cleanup worker
func NewCleaner(sessions *Sessions, interval, maxIdle time.Duration, logger *slog.Logger) *Cleaner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Cleaner{
		sessions: sessions,
		interval: interval,
		maxIdle:  maxIdle,
		logger:   logger,
	}
}

// Start begins the cleanup worker in a goroutine
func (c *Cleaner) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Cleaner) run(ctx context.Context) {
	c.logger.Info("session cleaner started", "interval", c.interval, "max_idle", c.maxIdle)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("session cleaner stopped")
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *Cleaner) cleanup() {
	removed := c.sessions.Sweep(c.maxIdle)
	if removed == 0 {
		c.logger.Debug("no idle sessions found")
		return
	}
	c.logger.Info("idle sessions removed", "count", removed, "remaining", c.sessions.Len())
}
