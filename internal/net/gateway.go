package net

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/l1jgo/bombarena/internal/game"
	"github.com/l1jgo/bombarena/internal/host"
)

// Server -> client message types.
const (
	MsgWelcome = "welcome"
	MsgJoined  = "joined"
	MsgAck     = "ack"
	MsgError   = "error"
	MsgEvent   = "event"
)

// Outbound is every line the gateway writes.
type Outbound struct {
	Type    string `json:"type"`
	Session uint64 `json:"session,omitempty"`
	Player  string `json:"player,omitempty"`
	Reason  string `json:"reason,omitempty"`
	ID      uint64 `json:"id,omitempty"`
	Tick    uint64 `json:"tick,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrSeatTaken is returned to a client joining as a player another
// connected client already plays.
var ErrSeatTaken = errors.New("seat taken")

type joinRequest struct {
	Player string `json:"player"`
}

// Gateway feeds client inputs into one live match and fans its events
// out to every joined session. The first line a client sends must be
// {"player":"<id>"}; every later line is an input for that player.
type Gateway struct {
	srv *Server
	log *zap.Logger

	mu       sync.Mutex
	match    *host.Match
	sessions map[uint64]*Session
}

func NewGateway(srv *Server, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{srv: srv, log: log, sessions: make(map[uint64]*Session)}
}

// Bind attaches the match inputs are submitted to.
func (g *Gateway) Bind(m *host.Match) {
	g.mu.Lock()
	g.match = m
	g.mu.Unlock()
}

// Broadcast has the host.Options.OnEvents signature.
func (g *Gateway) Broadcast(_ *host.Match, events []game.Event) {
	if len(events) == 0 {
		return
	}
	lines := make([][]byte, 0, len(events))
	for _, e := range events {
		line, err := encode(Outbound{
			Type: MsgEvent,
			ID:   e.ID,
			Tick: e.Tick,
			Kind: e.Payload.EventKind(),
			Data: e.Payload,
		})
		if err != nil {
			g.log.Error("encode event failed", zap.Uint64("event", e.ID), zap.Error(err))
			continue
		}
		lines = append(lines, line)
	}

	g.mu.Lock()
	targets := make([]*Session, 0, len(g.sessions))
	for _, s := range g.sessions {
		if s.PlayerID() != "" {
			targets = append(targets, s)
		}
	}
	g.mu.Unlock()

	for _, s := range targets {
		for _, line := range lines {
			s.Send(line)
		}
	}
}

// Serve accepts clients until ctx is done.
func (g *Gateway) Serve(ctx context.Context) error {
	go g.srv.AcceptLoop()

	for {
		select {
		case sess := <-g.srv.NewSessions():
			g.mu.Lock()
			g.sessions[sess.ID] = sess
			g.mu.Unlock()
			g.reply(sess, Outbound{Type: MsgWelcome, Session: sess.ID})
			go g.handle(sess)

		case id := <-g.srv.DeadSessions():
			g.mu.Lock()
			delete(g.sessions, id)
			g.mu.Unlock()
			g.log.Info("client disconnected", zap.Uint64("session", id))

		case <-ctx.Done():
			g.srv.Shutdown()
			g.mu.Lock()
			for id, s := range g.sessions {
				s.Close()
				delete(g.sessions, id)
			}
			g.mu.Unlock()
			return nil
		}
	}
}

func (g *Gateway) handle(sess *Session) {
	defer g.srv.NotifyDead(sess.ID)

	for {
		select {
		case line := <-sess.InQueue:
			if sess.PlayerID() == "" {
				g.join(sess, line)
				continue
			}
			g.submit(sess, line)
		case <-sess.Closed():
			return
		}
	}
}

func (g *Gateway) join(sess *Session, line []byte) {
	var req joinRequest
	if err := json.Unmarshal(line, &req); err != nil || req.Player == "" {
		g.reply(sess, Outbound{Type: MsgError, Reason: "expected {\"player\":...}"})
		return
	}
	m := g.current()
	if m == nil {
		g.reply(sess, Outbound{Type: MsgError, Reason: "no match running"})
		return
	}
	if !slices.Contains(m.Players, req.Player) {
		g.reply(sess, Outbound{Type: MsgError, Reason: game.ErrUnknownPlayer.Error()})
		return
	}
	if !g.claim(sess, req.Player) {
		g.reply(sess, Outbound{Type: MsgError, Reason: ErrSeatTaken.Error()})
		return
	}
	g.log.Info("player joined", zap.Uint64("session", sess.ID), zap.String("player", req.Player))
	g.reply(sess, Outbound{Type: MsgJoined, Player: req.Player})
}

// claim seats sess as player unless another live session already holds it.
func (g *Gateway) claim(sess *Session, player string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, other := range g.sessions {
		if other != sess && !other.IsClosed() && other.PlayerID() == player {
			return false
		}
	}
	sess.SetPlayerID(player)
	return true
}

func (g *Gateway) submit(sess *Session, line []byte) {
	m := g.current()
	if m == nil {
		g.reply(sess, Outbound{Type: MsgError, Reason: "no match running"})
		return
	}
	if err := m.SubmitNext(sess.PlayerID(), line); err != nil {
		reason := err.Error()
		if errors.Is(err, host.ErrRejected) {
			g.log.Debug("input rejected", zap.String("player", sess.PlayerID()), zap.Error(err))
		}
		g.reply(sess, Outbound{Type: MsgError, Reason: reason})
		return
	}
	g.reply(sess, Outbound{Type: MsgAck})
}

func (g *Gateway) current() *host.Match {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.match
}

func (g *Gateway) reply(sess *Session, msg Outbound) {
	line, err := encode(msg)
	if err != nil {
		g.log.Error("encode reply failed", zap.Error(err))
		return
	}
	sess.Send(line)
}

func encode(msg Outbound) ([]byte, error) {
	return json.Marshal(msg)
}
