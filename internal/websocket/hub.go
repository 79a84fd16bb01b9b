package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fusion-ai/internal/models"
	"github.com/stitts-dev/fusion-ai/internal/services"
	"github.com/stitts-dev/fusion-ai/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 * 1024
	sendBuffer     = 32
)

// Frame types sent to clients.
const (
	FrameWelcome = "welcome"
	FrameMessage = "message"
	FrameError   = "error"
)

const welcomeMessage = "Connected to Flow Fantasy Fusion AI Assistant!"

// Client is one websocket connection bound to a chat session.
type Client struct {
	ID        string
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte
	Hub       *ChatHub
}

// ChatHub tracks chat connections and relays their messages to the assistant.
type ChatHub struct {
	assistant      *services.Assistant
	upgrader       websocket.Upgrader
	clients        map[*Client]bool
	sessionClients map[string][]*Client
	unregister     chan *Client
	done           chan struct{}
	stopOnce       sync.Once
	metrics        *metrics.Manager
	logger         *logrus.Logger
	mutex          sync.RWMutex
}

// InboundMessage is a frame sent by the client.
type InboundMessage struct {
	Message string              `json:"message"`
	Context *models.ChatContext `json:"context,omitempty"`
}

// ChatFrame is a message frame: the frame type plus the chat result fields.
type ChatFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	*models.ChatResult
}

// StatusFrame carries welcome and error notices.
type StatusFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewChatHub creates a hub. Origins listed in allowedOrigins, or any origin
// when the list holds "*", may connect.
func NewChatHub(assistant *services.Assistant, allowedOrigins []string, m *metrics.Manager, logger *logrus.Logger) *ChatHub {
	h := &ChatHub{
		assistant:      assistant,
		clients:        make(map[*Client]bool),
		sessionClients: make(map[string][]*Client),
		unregister:     make(chan *Client),
		done:           make(chan struct{}),
		metrics:        m,
		logger:         logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[strings.TrimSpace(o)] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}

// Run removes disconnected clients until Stop is called.
func (h *ChatHub) Run() {
	for {
		select {
		case client := <-h.unregister:
			h.unregisterClient(client)
		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Stop disconnects every client and ends Run.
func (h *ChatHub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *ChatHub) registerClient(client *Client) {
	h.mutex.Lock()
	h.clients[client] = true
	h.sessionClients[client.SessionID] = append(h.sessionClients[client.SessionID], client)
	total := len(h.clients)
	h.mutex.Unlock()

	h.metrics.SetWebsocketConnections(total)
	h.logger.WithFields(logrus.Fields{
		"client_id":     client.ID,
		"session_id":    client.SessionID,
		"total_clients": total,
	}).Info("Chat WebSocket client connected")
}

func (h *ChatHub) unregisterClient(client *Client) {
	h.mutex.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mutex.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.Send)

	sessionClients := h.sessionClients[client.SessionID]
	for i, c := range sessionClients {
		if c == client {
			h.sessionClients[client.SessionID] = append(sessionClients[:i], sessionClients[i+1:]...)
			break
		}
	}
	if len(h.sessionClients[client.SessionID]) == 0 {
		delete(h.sessionClients, client.SessionID)
	}
	total := len(h.clients)
	h.mutex.Unlock()

	h.metrics.SetWebsocketConnections(total)
	h.logger.WithFields(logrus.Fields{
		"client_id":     client.ID,
		"session_id":    client.SessionID,
		"total_clients": total,
	}).Info("Chat WebSocket client disconnected")
}

func (h *ChatHub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for client := range h.clients {
		close(client.Send)
		delete(h.clients, client)
	}
	h.sessionClients = make(map[string][]*Client)
	h.metrics.SetWebsocketConnections(0)
}

// HandleWebSocket upgrades /ws/chat/:session_id.
func (h *ChatHub) HandleWebSocket(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID is required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade chat WebSocket connection")
		return
	}

	client := &Client{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Conn:      conn,
		Send:      make(chan []byte, sendBuffer),
		Hub:       h,
	}

	// the client is not visible to the hub yet, so the welcome frame goes
	// straight onto its buffer
	if welcome, err := json.Marshal(StatusFrame{Type: FrameWelcome, Message: welcomeMessage}); err == nil {
		client.Send <- welcome
	}

	select {
	case <-h.done:
		conn.Close()
		return
	default:
	}
	h.registerClient(client)

	go client.writePump()
	go client.readPump()
}

// ConnectionCount returns the number of open connections.
func (h *ChatHub) ConnectionCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// SessionConnectionCount returns the open connections for one session.
func (h *ChatHub) SessionConnectionCount(sessionID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.sessionClients[sessionID])
}

// queue marshals a frame onto the send buffer. A full buffer drops the frame.
func (c *Client) queue(frame interface{}) {
	data, err := json.Marshal(frame)
	if err != nil {
		c.Hub.logger.WithError(err).Error("Failed to marshal WebSocket frame")
		return
	}

	c.Hub.mutex.RLock()
	defer c.Hub.mutex.RUnlock()
	if !c.Hub.clients[c] {
		return
	}
	select {
	case c.Send <- data:
	default:
		c.Hub.logger.WithField("client_id", c.ID).Warn("WebSocket send buffer full, dropping frame")
	}
}

func (c *Client) readPump() {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.Hub.logger.WithError(err).Warn("Chat WebSocket read error")
			}
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		c.handleIncomingMessage(ctx, message)
	}
}

// handleIncomingMessage answers one client frame. Frames are handled in
// arrival order.
func (c *Client) handleIncomingMessage(ctx context.Context, message []byte) {
	var inbound InboundMessage
	if err := json.Unmarshal(message, &inbound); err != nil {
		c.Hub.logger.WithError(err).Warn("Failed to parse client message")
		c.queue(StatusFrame{Type: FrameError, Message: "invalid message: " + err.Error()})
		return
	}
	if strings.TrimSpace(inbound.Message) == "" {
		c.queue(StatusFrame{Type: FrameError, Message: "message is required"})
		return
	}

	result, err := c.Hub.assistant.Chat(ctx, c.SessionID, inbound.Message, inbound.Context)
	if err != nil {
		c.Hub.logger.WithError(err).WithField("session_id", c.SessionID).Error("Chat over WebSocket failed")
		c.queue(StatusFrame{Type: FrameError, Message: err.Error()})
		return
	}

	c.queue(ChatFrame{Type: FrameMessage, SessionID: c.SessionID, ChatResult: result})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Hub.logger.WithError(err).Error("Failed to write chat WebSocket message")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
