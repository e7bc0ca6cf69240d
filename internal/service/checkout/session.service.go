package checkout

import (
	"context"
	"sync"
	"time"

	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/logger"
	"storefront-checkout/internal/pkg/metrics"

	"github.com/google/uuid"
)

const maxNotices = 20

type Notice struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Session is one buyer's checkout. It is also the orchestrator's Notifier and keeps
// what was signalled until the client next reads it.
type Session struct {
	UserID uuid.UUID
	CartID string

	orch  *Orchestrator
	carts CartStore

	mu               sync.Mutex
	notices          []Notice
	redirectTo       string
	deliveryComplete bool
	completion       CompletionStatus
	lastSeen         time.Time
}

func (s *Session) Orchestrator() *Orchestrator {
	return s.orch
}

func (s *Session) notify(level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, Notice{Level: level, Message: msg, At: time.Now()})
	if len(s.notices) > maxNotices {
		s.notices = s.notices[len(s.notices)-maxNotices:]
	}
}

func (s *Session) Error(msg string) {
	s.notify("error", msg)
}

func (s *Session) Warning(msg string) {
	s.notify("warning", msg)
}

func (s *Session) DeliveryComplete(complete bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveryComplete = complete
}

func (s *Session) CompletionChanged(status CompletionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completion = status
}

func (s *Session) Navigate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redirectTo = path
}

// DrainNotices returns the pending notices and forgets them.
func (s *Session) DrainNotices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}

func (s *Session) RedirectTo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redirectTo
}

func (s *Session) DeliveryStepComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deliveryComplete
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Factory builds the collaborators of a new session. ui is the session itself.
type Factory func(ctx context.Context, user *types.UserWithAuth, cartID string, ui Notifier) (Deps, error)

// Manager holds at most one checkout session per user and tears down idle ones.
type Manager struct {
	factory Factory
	idleTTL time.Duration
	metrics *metrics.CheckoutMetrics
	now     func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	closed   bool
}

func NewManager(factory Factory, idleTTL time.Duration, m *metrics.CheckoutMetrics) *Manager {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &Manager{
		factory:  factory,
		idleTTL:  idleTTL,
		metrics:  m,
		now:      time.Now,
		sessions: map[uuid.UUID]*Session{},
	}
}

// Start opens a checkout for cartID, replacing and tearing down any session the user
// already had.
func (m *Manager) Start(ctx context.Context, user *types.UserWithAuth, cartID string) (*Session, error) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return nil, ErrSessionClosed
	}

	s := &Session{UserID: user.ID, CartID: cartID, lastSeen: m.now()}
	deps, err := m.factory(ctx, user, cartID, s)
	if err != nil {
		return nil, err
	}
	s.carts = deps.Cart
	s.orch = NewOrchestrator(deps)
	if err := s.orch.Init(ctx); err != nil {
		s.orch.Dispose()
		return nil, err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		s.orch.Dispose()
		return nil, ErrSessionClosed
	}
	old := m.sessions[user.ID]
	m.sessions[user.ID] = s
	m.mu.Unlock()

	if old != nil {
		old.orch.Dispose()
		m.metrics.SessionClosed()
	}
	m.metrics.SessionOpened()
	return s, nil
}

func (m *Manager) Get(userID uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	m.mu.Unlock()
	if ok {
		s.touch(m.now())
	}
	return s, ok
}

// End tears down the user's session, if any.
func (m *Manager) End(userID uuid.UUID) bool {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()
	if !ok {
		return false
	}
	s.orch.Dispose()
	m.metrics.SessionClosed()
	return true
}

// Sweep disposes sessions idle for longer than the TTL and returns how many it removed.
func (m *Manager) Sweep() int {
	now := m.now()
	var idle []*Session

	m.mu.Lock()
	for id, s := range m.sessions {
		if s.idleSince(now) > m.idleTTL {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.orch.Dispose()
		m.metrics.SessionClosed()
		logger.Info.Printf("Checkout session for %s expired", s.UserID)
	}
	return len(idle)
}

// Run sweeps idle sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.idleTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Close disposes every session; Start fails afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.sessions = map[uuid.UUID]*Session{}
	m.mu.Unlock()

	for _, s := range all {
		s.orch.Dispose()
		m.metrics.SessionClosed()
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
