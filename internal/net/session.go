package net

import (
	"bufio"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Session is one client connection. Reads and writes run on their own
// goroutines; the gateway consumes InQueue.
type Session struct {
	ID   uint64
	conn net.Conn

	InQueue  chan []byte
	OutQueue chan []byte

	IP string

	player atomic.Value // string, set once the client joins

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	// per-second message limiter, readLoop goroutine only
	msgPerSec  int
	msgCount   int
	msgResetAt int64

	log *zap.Logger
}

func NewSession(conn net.Conn, id uint64, inSize, outSize, msgPerSec int, log *zap.Logger) *Session {
	s := &Session{
		ID:        id,
		conn:      conn,
		InQueue:   make(chan []byte, inSize),
		OutQueue:  make(chan []byte, outSize),
		IP:        conn.RemoteAddr().String(),
		closeCh:   make(chan struct{}),
		msgPerSec: msgPerSec,
		log:       log.With(zap.Uint64("session", id)),
	}
	s.player.Store("")
	return s
}

func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

func (s *Session) PlayerID() string { return s.player.Load().(string) }

func (s *Session) SetPlayerID(id string) { s.player.Store(id) }

// Send queues one message. A client that cannot keep up is disconnected.
func (s *Session) Send(data []byte) {
	if s.closed.Load() {
		return
	}
	select {
	case s.OutQueue <- data:
	default:
		s.log.Warn("output queue full, dropping slow client")
		s.Close()
	}
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Closed is closed when the session shuts down.
func (s *Session) Closed() <-chan struct{} { return s.closeCh }

func (s *Session) readLoop() {
	defer s.Close()

	r := bufio.NewReaderSize(s.conn, MaxLineLen+2)
	for {
		line, err := ReadLine(r)
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}

		if s.msgPerSec > 0 {
			now := time.Now().Unix()
			if now != s.msgResetAt {
				s.msgCount = 0
				s.msgResetAt = now
			}
			s.msgCount++
			if s.msgCount > s.msgPerSec {
				s.log.Warn("message rate exceeded, disconnecting", zap.Int("per_sec", s.msgCount))
				return
			}
		}

		// block rather than drop: a lost stop input would leave the player walking
		select {
		case s.InQueue <- line:
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case data := <-s.OutQueue:
			s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := WriteLine(s.conn, data); err != nil {
				if !s.closed.Load() {
					s.log.Debug("write error", zap.Error(err))
				}
				return
			}
		case <-s.closeCh:
			return
		}
	}
}
