package httpapi

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/Cheese-PositionSetup/internal/clipboard"
	"github.com/park285/Cheese-PositionSetup/internal/msgcat"
	"github.com/park285/Cheese-PositionSetup/internal/setup"
	"github.com/park285/Cheese-PositionSetup/pkg/positiondto"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionLimit    = errors.New("too many open sessions")
)

type ManagerOptions struct {
	Limit      int
	IdleTTL    time.Duration
	InitialFEN string
	Catalog    *msgcat.Catalog
	Logger     *zap.Logger
	// Clipboard returns the clipboard for a new session; nil disables copy/paste.
	Clipboard func(sessionID string) clipboard.Clipboard
}

type slot struct {
	mu       sync.Mutex
	sess     *setup.Session
	warnings []positiondto.Warning
	lastUsed time.Time
}

// Manager owns the open editing sessions. Each session is used by one
// request at a time.
type Manager struct {
	mu    sync.Mutex
	slots map[string]*slot
	opts  ManagerOptions
	now   func() time.Time
}

func NewManager(opts ManagerOptions) *Manager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Manager{slots: make(map[string]*slot), opts: opts, now: time.Now}
}

// Create opens a session at the configured initial position and returns its ID.
func (m *Manager) Create() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.evictIdleLocked(now)
	if m.opts.Limit > 0 && len(m.slots) >= m.opts.Limit {
		return "", ErrSessionLimit
	}

	id := uuid.NewString()
	sl := &slot{lastUsed: now}
	opts := []setup.Option{
		setup.WithLogger(m.opts.Logger.With(zap.String("session", id))),
		setup.WithCatalog(m.opts.Catalog),
		setup.WithNotifier(setup.NotifierFunc(func(title, body string) {
			sl.warnings = append(sl.warnings, positiondto.Warning{Title: title, Body: body})
		})),
	}
	if m.opts.Clipboard != nil {
		if c := m.opts.Clipboard(id); c != nil {
			opts = append(opts, setup.WithClipboard(c))
		}
	}
	sl.sess = setup.NewSession(opts...)
	if m.opts.InitialFEN != "" && !sl.sess.SetFEN(m.opts.InitialFEN) {
		m.opts.Logger.Warn("initial_fen_rejected", zap.String("fen", m.opts.InitialFEN))
	}
	sl.warnings = nil
	m.slots[id] = sl
	m.opts.Logger.Debug("session_created", zap.String("session", id), zap.Int("open", len(m.slots)))
	return id, nil
}

// With runs fn on the session while holding its lock and returns the
// warnings raised during fn.
func (m *Manager) With(id string, fn func(*setup.Session) error) ([]positiondto.Warning, error) {
	m.mu.Lock()
	sl, ok := m.slots[id]
	if ok {
		sl.lastUsed = m.now()
	}
	m.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.warnings = nil
	err := fn(sl.sess)
	warnings := sl.warnings
	sl.warnings = nil
	return warnings, err
}

func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slots[id]; !ok {
		return false
	}
	delete(m.slots, id)
	return true
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

func (m *Manager) evictIdleLocked(now time.Time) {
	if m.opts.IdleTTL <= 0 {
		return
	}
	for id, sl := range m.slots {
		if now.Sub(sl.lastUsed) > m.opts.IdleTTL {
			delete(m.slots, id)
			m.opts.Logger.Debug("session_evicted", zap.String("session", id))
		}
	}
}
