package auth

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Lancesatorre/Movie-Booking-System-sub001/views"
)

// View is one mounted login/signup view: its controller plus the
// presentation-side mode transition.
type View struct {
	ID         string
	Controller *Controller
	Transition *views.Transition

	nav *redirectRecorder
}

type sessionEntry struct {
	view     *View
	lastSeen time.Time
}

// Sessions maps a browser cookie to its mounted view. Views idle for longer
// than the TTL are unmounted by Sweep.
type Sessions struct {
	mu    sync.Mutex
	items map[string]*sessionEntry

	cookieName string
	ttl        time.Duration
	newView    func(id string) *View
	logger     *log.Logger
}

func NewSessions(cookieName string, ttl time.Duration, newView func(id string) *View, logger *log.Logger) *Sessions {
	if logger == nil {
		logger = log.Default()
	}
	if cookieName == "" {
		cookieName = "mb_view"
	}
	return &Sessions{
		items:      make(map[string]*sessionEntry),
		cookieName: cookieName,
		ttl:        ttl,
		newView:    newView,
		logger:     logger,
	}
}

func (s *Sessions) CookieName() string { return s.cookieName }

// Mount returns the view for the request's cookie, creating one (and
// setting the cookie) when there is none or it has been evicted.
func (s *Sessions) Mount(w http.ResponseWriter, r *http.Request, now time.Time) *View {
	if v, ok := s.Lookup(r, now); ok {
		return v
	}
	id := uuid.NewString()
	v := s.newView(id)

	s.mu.Lock()
	s.items[id] = &sessionEntry{view: v, lastSeen: now}
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Printf("[sessions] mounted view %s", id)
	return v
}

// Lookup finds the view for the request's cookie without creating one.
func (s *Sessions) Lookup(r *http.Request, now time.Time) (*View, bool) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[cookie.Value]
	if !ok {
		return nil, false
	}
	e.lastSeen = now
	return e.view, true
}

// Unmount removes the view and closes its controller.
func (s *Sessions) Unmount(id string) {
	s.mu.Lock()
	e, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()
	if ok {
		e.view.Controller.Close()
		s.logger.Printf("[sessions] unmounted view %s", id)
	}
}

// Sweep unmounts every view idle since before now-ttl and returns how many went.
func (s *Sessions) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	var stale []*sessionEntry
	s.mu.Lock()
	for id, e := range s.items {
		if now.Sub(e.lastSeen) > s.ttl {
			stale = append(stale, e)
			delete(s.items, id)
		}
	}
	s.mu.Unlock()

	for _, e := range stale {
		e.view.Controller.Close()
	}
	if len(stale) > 0 {
		s.logger.Printf("[sessions] evicted %d idle views", len(stale))
	}
	return len(stale)
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Run sweeps on every tick until ctx ends, then unmounts everything left.
func (s *Sessions) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case now := <-t.C:
			s.Sweep(now)
		}
	}
}

func (s *Sessions) closeAll() {
	s.mu.Lock()
	items := s.items
	s.items = make(map[string]*sessionEntry)
	s.mu.Unlock()
	for _, e := range items {
		e.view.Controller.Close()
	}
}

func (s *Sessions) clearCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func secureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")), "https")
}
