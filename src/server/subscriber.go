package server

import (
	"encoding/json"
	"time"

	"milk-admin/src/models"

	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Stream connection limits
// -----------------------------------------------------------------------------

const (
	updateWriteTimeout = 5 * time.Second
	heartbeatTimeout   = 75 * time.Second
	heartbeatInterval  = 30 * time.Second

	// A subscribe command names at most a handful of streams.
	maxCommandSize = 1024

	// Updates queued per subscriber before the hub considers it stalled.
	updateBacklog = 64
)

// -----------------------------------------------------------------------------
// Subscriber
// -----------------------------------------------------------------------------

// subscriber is one /ws connection. The hub loop owns streams and the close
// fields; the two pumps only read them after send is closed.
type subscriber struct {
	id      string
	hub     *FastAPIServer
	conn    *websocket.Conn
	updates chan models.MStateUpdate

	streams     map[string]struct{} // nil means every stream
	closeCode   int
	closeReason string
}

func newSubscriber(id string, hub *FastAPIServer, conn *websocket.Conn) *subscriber {
	return &subscriber{
		id:      id,
		hub:     hub,
		conn:    conn,
		updates: make(chan models.MStateUpdate, updateBacklog),
	}
}

func (s *subscriber) wants(stream string) bool {
	if s.streams == nil {
		return true
	}
	_, ok := s.streams[stream]
	return ok
}

// -----------------------------------------------------------------------------
// Inbound: subscribe commands
// -----------------------------------------------------------------------------

// readCommands decodes {"command":"subscribe","streams":[...]} frames until the
// connection drops. Missing heartbeats end it after heartbeatTimeout.
func (s *subscriber) readCommands() {
	defer func() {
		select {
		case s.hub.unregister <- s:
		case <-s.hub.done:
		}
		s.conn.Close()
		s.hub.Logger.Debug("Subscriber %s left", s.id)
	}()

	s.conn.SetReadLimit(maxCommandSize)
	s.conn.SetReadDeadline(time.Now().Add(heartbeatTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(heartbeatTimeout))
	})

	for {
		kind, frame, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.hub.Logger.Info("Subscriber %s read failed: %v", s.id, err)
			}
			return
		}
		if kind != websocket.TextMessage {
			s.reject("commands must be JSON text frames")
			return
		}

		var cmd models.MSubscribeCommand
		if err := json.Unmarshal(frame, &cmd); err != nil {
			s.hub.Logger.Info("Subscriber %s sent an unreadable command: %v", s.id, err)
			s.reject("malformed subscribe command")
			return
		}
		if cmd.Command != "subscribe" {
			s.hub.Logger.Debug("Subscriber %s sent unknown command %q", s.id, cmd.Command)
			continue
		}
		s.hub.resubscribe(s, cmd.Streams)
	}
}

func (s *subscriber) reject(reason string) {
	msg := websocket.FormatCloseMessage(websocket.CloseUnsupportedData, reason)
	s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(updateWriteTimeout))
}

// -----------------------------------------------------------------------------
// Outbound: stream updates and heartbeats
// -----------------------------------------------------------------------------

// writeUpdates sends every queued MStateUpdate as one JSON frame and pings
// every heartbeatInterval. When the hub closes updates it says goodbye with
// the close code the hub picked.
func (s *subscriber) writeUpdates() {
	heartbeat := time.NewTicker(heartbeatInterval)
	defer func() {
		heartbeat.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case update, ok := <-s.updates:
			deadline := time.Now().Add(updateWriteTimeout)
			if !ok {
				if s.closeCode != 0 {
					msg := websocket.FormatCloseMessage(s.closeCode, s.closeReason)
					s.conn.WriteControl(websocket.CloseMessage, msg, deadline)
				}
				return
			}
			s.conn.SetWriteDeadline(deadline)
			if err := s.conn.WriteJSON(update); err != nil {
				s.hub.Logger.Info("Dropping subscriber %s, %s update not delivered: %v", s.id, update.Stream, err)
				return
			}

		case <-heartbeat.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(updateWriteTimeout)); err != nil {
				return
			}
		}
	}
}
