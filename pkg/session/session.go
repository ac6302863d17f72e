// Package session keeps the playback sessions of a running server.
//
// A [Session] bundles the validated instance, its layout and the
// [playback.Controller] that plays its trace. Updates published by the
// controller fan out through a [Hub] to any number of subscribers, such as
// websocket connections. Sessions live in a [Store] keyed by a random UUID
// and expire after a period without access.
//
// # Usage
//
//	store := session.NewMemoryStore(session.DefaultTTL)
//	go store.Run(ctx, time.Minute)
//
//	sess := session.New(inst, positions, client, playback.Options{})
//	if err := store.Put(ctx, sess); err != nil {
//	    return err
//	}
//
//	updates, cancel := sess.Hub.Subscribe()
//	defer cancel()
//	go sess.Play(ctx)
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/layout"
	"github.com/matzehuels/algotrace/pkg/playback"
)

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 30 * time.Minute

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New(errors.ErrCodeSessionNotFound, "session not found")

// Session is one playback session.
type Session struct {
	ID         string
	Algorithm  string
	Instance   instance.Instance
	Layout     layout.Map
	Controller *playback.Controller
	Hub        *Hub
	CreatedAt  time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// New creates an Idle session for inst. The session's hub is installed as
// the controller renderer; a renderer in opts still receives every update.
func New(inst instance.Instance, positions layout.Map, f playback.Fetcher, opts playback.Options) *Session {
	hub := NewHub(DefaultBuffer)
	if opts.Renderer != nil {
		opts.Renderer = tee{hub, opts.Renderer}
	} else {
		opts.Renderer = hub
	}

	now := time.Now()
	return &Session{
		ID:         uuid.NewString(),
		Algorithm:  inst.Algorithm,
		Instance:   inst,
		Layout:     positions,
		Controller: playback.New(f, opts),
		Hub:        hub,
		CreatedAt:  now,
		lastSeen:   now,
	}
}

// Play starts or resumes playback of the session's instance.
func (s *Session) Play(ctx context.Context) error {
	return s.Controller.Play(ctx, s.Instance)
}

// Touch records an access at t.
func (s *Session) Touch(t time.Time) {
	s.mu.Lock()
	if t.After(s.lastSeen) {
		s.lastSeen = t
	}
	s.mu.Unlock()
}

// LastSeen returns the time of the most recent access.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Expired reports whether the session has been idle for longer than ttl at now.
func (s *Session) Expired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(s.LastSeen()) > ttl
}

// Close stops playback and disconnects all subscribers.
func (s *Session) Close() error {
	err := s.Controller.Close()
	s.Hub.Close()
	return err
}

type tee []playback.Renderer

func (t tee) Render(u playback.Update) {
	for _, r := range t {
		r.Render(u)
	}
}
