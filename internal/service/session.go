package service

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/checkmate-backend/internal/model"
	"github.com/benbeisheim/checkmate-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

type SeatKind string

const (
	SeatHuman  SeatKind = "human"
	SeatEngine SeatKind = "engine"
)

type Seat struct {
	Kind  SeatKind `json:"kind"`
	Skill int      `json:"skill,omitempty"`
}

func (s Seat) validate() error {
	switch s.Kind {
	case SeatHuman:
		return nil
	case SeatEngine:
		if s.Skill < 0 {
			return fmt.Errorf("%w: negative skill %d", ErrInvalidSeat, s.Skill)
		}
		return nil
	default:
		return fmt.Errorf("%w: kind %q", ErrInvalidSeat, s.Kind)
	}
}

type Seats struct {
	White Seat `json:"white"`
	Black Seat `json:"black"`
}

func (s Seats) For(color model.Color) Seat {
	if color == model.White {
		return s.White
	}
	return s.Black
}

// Subscriber receives state pushes; *websocket.Conn satisfies it.
type Subscriber interface {
	WriteJSON(v interface{}) error
}

type subscribers struct {
	conns map[string]Subscriber // clientID -> connection
	mu    sync.RWMutex
}

// Session is one hosted game and the clients watching it.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	game      *model.Game
	seats     Seats
	updatedAt time.Time
	version   uint64 // bumped on every committed change
	subs      *subscribers

	// latest is drained by pushLoop; only the newest pending view is sent
	pushMu    sync.Mutex
	latest    *GameView
	notify    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// GameView is what clients see of a session.
type GameView struct {
	ID         string              `json:"id"`
	Version    uint64              `json:"version"`
	Seats      Seats               `json:"seats"`
	State      model.Snapshot      `json:"state"`
	LegalMoves map[string][]string `json:"legalMoves"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

func newSession(id string, game *model.Game, seats Seats) *Session {
	now := time.Now()
	s := &Session{
		ID:        id,
		CreatedAt: now,
		game:      game,
		seats:     seats,
		updatedAt: now,
		subs:      &subscribers{conns: make(map[string]Subscriber)},
		notify:    make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	go s.pushLoop()
	return s
}

// view must be called with s.mu held.
func (s *Session) view() GameView {
	legal := make(map[string][]string)
	for _, mv := range s.game.AllLegalMoves() {
		from := mv.From.Notation()
		legal[from] = append(legal[from], mv.To.Notation())
	}
	return GameView{
		ID:         s.ID,
		Version:    s.version,
		Seats:      s.seats,
		State:      s.game.State(),
		LegalMoves: legal,
		UpdatedAt:  s.updatedAt,
	}
}

func (s *Session) View() GameView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// snapshot returns a detached copy of the game for searching, the seat to
// move, and the version it was taken at.
func (s *Session) snapshot() (*model.Game, Seat, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Clone(), s.seats.For(s.game.Turn()), s.version
}

// update runs fn against the live game and, if it succeeds, pushes the new
// view to subscribers.
func (s *Session) update(fn func(g *model.Game) error) (GameView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.game); err != nil {
		return GameView{}, err
	}
	s.version++
	s.updatedAt = time.Now()
	v := s.view()
	s.publish(v)
	return v, nil
}

// publish must be called with s.mu held so views are queued in the order
// they were produced.
func (s *Session) publish(v GameView) {
	s.pushMu.Lock()
	s.latest = &v
	s.pushMu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Session) pushLoop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.notify:
			s.pushMu.Lock()
			v := s.latest
			s.latest = nil
			s.pushMu.Unlock()
			if v != nil {
				s.broadcast(*v)
			}
		}
	}
}

// close stops the writer; pending pushes are dropped.
func (s *Session) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Subscribe registers sub and sends it the current view.
func (s *Session) Subscribe(clientID string, sub Subscriber) {
	s.subs.mu.Lock()
	s.subs.conns[clientID] = sub
	s.subs.mu.Unlock()
	log.Debugf("client %s subscribed to game %s", clientID, s.ID)

	s.mu.Lock()
	s.publish(s.view())
	s.mu.Unlock()
}
// Unsubscribe only removes sub if it is still the registered connection.
func (s *Session) Unsubscribe(clientID string, sub Subscriber) {
	s.subs.mu.Lock()
	defer s.subs.mu.Unlock()
	if current, ok := s.subs.conns[clientID]; ok && current == sub {
		delete(s.subs.conns, clientID)
		log.Debugf("client %s unsubscribed from game %s", clientID, s.ID)
	}
}

func (s *Session) broadcast(v GameView) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal state of game %s: %v", s.ID, err)
		return
	}

	s.subs.mu.RLock()
	active := make(map[string]Subscriber, len(s.subs.conns))
	for id, conn := range s.subs.conns {
		active[id] = conn
	}
	s.subs.mu.RUnlock()

	for clientID, conn := range active {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Warnf("drop client %s from game %s: %v", clientID, s.ID, err)
			s.Unsubscribe(clientID, conn)
		}
	}
}
