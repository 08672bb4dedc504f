package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/arefin88/vidora/backend/internal/notify"
	"github.com/arefin88/vidora/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	// authWait bounds how long a fresh connection may sit unauthenticated.
	authWait = 10 * time.Second
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second
	// pongWait is how long we keep a connection that stops answering pings.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxInboundMessageSize = 1024
)

// TokenVerifier abstracts the authentication collaborator for the real-time
// channel.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (firebaseUID string, err error)
}

// FirebaseTokenVerifier verifies Firebase ID tokens.
type FirebaseTokenVerifier struct {
	client *auth.Client
}

// NewFirebaseTokenVerifier wraps a Firebase auth client.
func NewFirebaseTokenVerifier(client *auth.Client) *FirebaseTokenVerifier {
	return &FirebaseTokenVerifier{client: client}
}

// Verify checks the ID token and returns the Firebase UID.
func (v *FirebaseTokenVerifier) Verify(ctx context.Context, idToken string) (string, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	return token.UID, nil
}

// authenticateMessage is the first frame a client must send after connecting.
type authenticateMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// RealtimeHandler upgrades clients onto the persistent push channel. A
// connection authenticates with its first frame, is registered for fan-out,
// and from then on only receives traffic; no polling is required while
// connected.
type RealtimeHandler struct {
	registry       *notify.Registry
	verifier       TokenVerifier
	userRepository repositories.UserRepository
	upgrader       websocket.Upgrader
}

// NewRealtimeHandler creates a new RealtimeHandler
func NewRealtimeHandler(registry *notify.Registry, verifier TokenVerifier, userRepo repositories.UserRepository) *RealtimeHandler {
	return &RealtimeHandler{
		registry:       registry,
		verifier:       verifier,
		userRepository: userRepo,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRealtimeRoutes registers the websocket endpoint
func (h *RealtimeHandler) RegisterRealtimeRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

// Serve handles one websocket session for its whole lifetime.
func (h *RealtimeHandler) Serve(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	// A connection that disconnects or stalls before authenticating is
	// dropped without ever touching the registry.
	ws.SetReadLimit(maxInboundMessageSize)
	if err := ws.SetReadDeadline(time.Now().Add(authWait)); err != nil {
		return nil
	}
	var authMsg authenticateMessage
	if err := ws.ReadJSON(&authMsg); err != nil || authMsg.Type != "authenticate" {
		return nil
	}

	firebaseUID, err := h.verifier.Verify(c.Request().Context(), authMsg.Token)
	if err != nil {
		ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "authentication failed"),
			time.Now().Add(writeWait))
		return nil
	}
	user, err := h.userRepository.GetUserByFirebaseUID(firebaseUID)
	if err != nil {
		ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unknown user"),
			time.Now().Add(writeWait))
		return nil
	}

	conn := notify.NewConnection(uuid.NewString(), user.ID)
	h.registry.Register(conn)
	defer h.registry.Unregister(conn.ID)

	ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := ws.WriteJSON(notify.PushMessage{Type: "authenticated"}); err != nil {
		return nil
	}

	go h.writePump(ws, conn)

	// Read loop: the client sends nothing after authenticating, but reading
	// is what detects disconnects and answers pings.
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	return nil
}

// writePump drains the connection's outbound queue onto the wire and keeps
// the connection alive with pings. It exits when the connection is
// unregistered, abandoning whatever was still queued.
func (h *RealtimeHandler) writePump(ws *websocket.Conn, conn *notify.Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-conn.Outbox():
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteJSON(msg); err != nil {
				log.Printf("websocket write failed for connection %s: %v", conn.ID, err)
				h.registry.Unregister(conn.ID)
				ws.Close()
				return
			}
		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.registry.Unregister(conn.ID)
				ws.Close()
				return
			}
		case <-conn.Done():
			return
		}
	}
}
