package server

import (
	"net/http"
	"time"

	"milk-admin/src/interfaces"
	"milk-admin/src/models"
	"milk-admin/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type subscribeRequest struct {
	sub     *subscriber
	streams []string
}

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop. Subscriber stream sets are only touched here.
func (s *FastAPIServer) handleWebsockets() {
	for {
		select {
		case <-s.done:
			for sub := range s.clients {
				s.drop(sub, websocket.CloseGoingAway, "server shutting down")
			}
			return

		case sub := <-s.register:
			s.clients[sub] = struct{}{}
			s.setConnCount(len(s.clients))
			s.sendInitial(sub)

		case sub := <-s.unregister:
			if _, ok := s.clients[sub]; ok {
				s.drop(sub, 0, "")
			}

		case req := <-s.subscribe:
			if _, ok := s.clients[req.sub]; !ok {
				continue
			}
			req.sub.streams = streamSet(req.streams)
			s.sendInitial(req.sub)

		case update := <-s.broadcast:
			s.stateMutex.Lock()
			s.latest[update.Stream] = update
			s.stateMutex.Unlock()

			for sub := range s.clients {
				if !sub.wants(update.Stream) {
					continue
				}
				select {
				case sub.updates <- update:
				default:
					s.Logger.Warning("Subscriber %s is %d updates behind, disconnecting", sub.id, updateBacklog)
					s.drop(sub, websocket.ClosePolicyViolation, "too slow to keep up")
				}
			}
		}
	}
}

// drop forgets sub and ends its writer, which sends code unless it is 0.
func (s *FastAPIServer) drop(sub *subscriber, code int, reason string) {
	delete(s.clients, sub)
	sub.closeCode, sub.closeReason = code, reason
	close(sub.updates)
	s.setConnCount(len(s.clients))
}

// sendInitial replays the latest value of each stream the subscriber wants.
func (s *FastAPIServer) sendInitial(sub *subscriber) {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()

	for _, stream := range models.AllStreams {
		msg, ok := s.latest[stream]
		if !ok || !sub.wants(stream) {
			continue
		}
		msg.Type = "INITIAL"
		select {
		case sub.updates <- msg:
		default:
		}
	}
}

func (s *FastAPIServer) setConnCount(n int) {
	s.stateMutex.Lock()
	s.connCount = n
	s.stateMutex.Unlock()
}

func streamSet(streams []string) map[string]struct{} {
	if len(streams) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(streams))
	for _, st := range streams {
		set[st] = struct{}{}
	}
	return set
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast queues one stream update for every subscribed client.
func (s *FastAPIServer) Broadcast(update models.MStateUpdate) {
	if update.Type == "" {
		update.Type = "UPDATE"
	}
	if update.Timestamp == 0 {
		update.Timestamp = time.Now().Unix()
	}
	select {
	case s.broadcast <- update:
	case <-s.done:
	}
}

// forwardSignals subscribes to the inventory signals and rebroadcasts every value.
func (s *FastAPIServer) forwardSignals() {
	forward(s, models.StreamInventory, s.Inventory.SubscribeInventory())
	forward(s, models.StreamStock, s.Inventory.SubscribeStock())
	forward(s, models.StreamEarnings, s.Inventory.SubscribeEarnings())
}

func forward[T any](s *FastAPIServer, stream string, sub *utils.Subscription[T]) {
	s.unsubs = append(s.unsubs, sub.Close)
	s.forwarders.Add(1)
	go func() {
		defer s.forwarders.Done()
		for v := range sub.C() {
			s.Broadcast(models.MStateUpdate{Stream: stream, Data: v})
		}
	}()
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	sub := newSubscriber(uuid.NewString(), s, conn)

	select {
	case s.register <- sub:
	case <-s.done:
		conn.Close()
		return
	}
	s.Logger.Debug("Subscriber %s connected from %s", sub.id, c.ClientIP())

	go sub.writeUpdates()
	go sub.readCommands()
}

// resubscribe replaces the stream set of sub. An empty list means every
// stream; unknown names are kept but never match.
func (s *FastAPIServer) resubscribe(sub *subscriber, streams []string) {
	for _, st := range streams {
		if !validStream(st) {
			s.Logger.Debug("Subscriber %s asked for unknown stream %q", sub.id, st)
		}
	}

	select {
	case s.subscribe <- subscribeRequest{sub: sub, streams: streams}:
	case <-s.done:
	}
}

func validStream(name string) bool {
	for _, st := range models.AllStreams {
		if st == name {
			return true
		}
	}
	return false
}

var _ interfaces.IDataExchanger = (*FastAPIServer)(nil)
