// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	wstypes "mobiwash-service/internal/domain/websocket"
	"mobiwash-service/internal/pkg/jwt"
	"mobiwash-service/internal/pkg/session"

	"go.uber.org/zap"
)

// Hub fans entity change events out to every connected admin client. There
// is one event stream; clients see all changes.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *wstypes.WSMessage

	jwtVerifier    *jwt.Verifier
	sessionManager *session.Manager
	logger         *zap.Logger
}

func NewHub(jwtVerifier *jwt.Verifier, sessionManager *session.Manager, logger *zap.Logger) *Hub {
	return &Hub{
		clients:        make(map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		broadcast:      make(chan *wstypes.WSMessage, 256),
		jwtVerifier:    jwtVerifier,
		sessionManager: sessionManager,
		logger:         logger,
	}
}

// AuthenticateClient validates the JWT token and confirms the session is
// alive before the connection is upgraded.
func (h *Hub) AuthenticateClient(ctx context.Context, token string) (*ClientAuth, error) {
	claims, err := h.jwtVerifier.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	sessionData, err := h.sessionManager.GetSession(ctx, claims.StaffID, claims.ID)
	if err != nil {
		return nil, ErrSessionExpired
	}

	return &ClientAuth{
		StaffID:   claims.StaffID,
		SessionID: claims.ID,
		Email:     sessionData.Email,
		Role:      sessionData.Role,
	}, nil
}

// Run processes registrations and broadcasts until the context is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("websocket client connected",
				zap.Int64("staff_id", client.staffID),
				zap.Int("clients", h.clientCount()),
			)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("websocket client disconnected",
				zap.Int64("staff_id", client.staffID),
			)

		case msg := <-h.broadcast:
			data, err := msg.ToJSON()
			if err != nil {
				h.logger.Error("failed to encode event", zap.Error(err))
				continue
			}

			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Slow consumer; drop the event rather than
					// stall the hub.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// PublishEntityEvent queues an entity change event for all clients. Never
// blocks; events are dropped when the hub is saturated.
func (h *Hub) PublishEntityEvent(eventType, entity string, entityID int64, reference string, st string) {
	msg := wstypes.NewMessage(wstypes.EventType(eventType), &wstypes.EntityEventData{
		Entity:    entity,
		EntityID:  entityID,
		Reference: reference,
		Status:    st,
	})

	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("event dropped, broadcast queue full",
			zap.String("event", eventType),
		)
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}
