package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio chunks

	// Maximum size of one buffered clip.
	maxClipSize = 25 * 1024 * 1024

	transcribeTimeout = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// the bearer token is the access control for this endpoint
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Transcriber turns a complete clip into text
type Transcriber interface {
	Transcribe(ctx context.Context, req usecase.TranscribeRequest) (string, error)
}

// Hub maintains the set of active clients
type Hub struct {
	// Registered clients.
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Closed once Run has returned
	done     chan struct{}
	doneOnce sync.Once

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex

	transcriber Transcriber
	validator   *MessageValidator
	logger      *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(transcriber Transcriber, logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[string]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		done:        make(chan struct{}),
		transcriber: transcriber,
		validator:   NewMessageValidator(),
		logger:      logger,
	}
}

// Run starts the hub's main loop and closes every client when ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer h.doneOnce.Do(func() { close(h.done) })
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			h.logger.Info("Client registered", zap.String("clientID", client.id), zap.String("userEmail", client.userEmail))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				client.closeSend()
			}
			h.mu.Unlock()
			h.logger.Info("Client unregistered", zap.String("clientID", client.id))

		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				client.closeSend()
			}
			h.mu.Unlock()
			return
		}
	}
}

// Done closes when Run has returned; the hub accepts no clients afterwards
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// ActiveClients returns how many clients are connected
func (h *Hub) ActiveClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

type WriteData struct {
	// MessageType is the type of the websocket message.
	// Expect websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan WriteData

	id        string
	userEmail string
	logger    *zap.Logger

	mutex     sync.Mutex
	closed    bool
	listening bool
	language  string
	mimeType  string
	clip      bytes.Buffer
}

// HandleWebSocket upgrades an authenticated request into a transcription stream
func HandleWebSocket(hub *Hub, c echo.Context, userEmail string, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	id := uuid.New().String()
	client := &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan WriteData, 256),
		id:        id,
		userEmail: userEmail,
		logger:    logger.With(zap.String("clientID", id)),
	}

	select {
	case hub.register <- client:
	case <-hub.done:
		logger.Warn("Hub stopped, rejecting WebSocket client", zap.String("clientID", id))
		conn.Close()
		return nil
	}

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	return nil
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			c.processMessage(message)
		case websocket.BinaryMessage:
			c.processBinaryAudioChunk(message)
		default:
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processMessage processes control frames from the client
func (c *Client) processMessage(message []byte) {
	msg, err := c.hub.validator.ValidateMessage(message)
	if err != nil {
		c.logger.Warn("Rejected client message", zap.Error(err))
		c.sendJSON(CreateErrorMessage("invalid_message", err.Error()))
		return
	}

	switch m := msg.(type) {
	case *ListeningStartMessage:
		c.handleListeningStart(m)
	case *ListeningEndMessage:
		c.handleListeningEnd()
	}
}

// processBinaryAudioChunk appends a chunk to the open clip
func (c *Client) processBinaryAudioChunk(data []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.listening {
		c.logger.Warn("Received audio chunk outside a clip", zap.Int("size", len(data)))
		return
	}
	if c.clip.Len()+len(data) > maxClipSize {
		c.logger.Warn("Clip too large, dropping chunk",
			zap.Int("size", c.clip.Len()),
			zap.Int("maxSize", maxClipSize))
		return
	}

	c.clip.Write(data)
}

// handleListeningStart opens a new clip, discarding any unfinished one
func (c *Client) handleListeningStart(msg *ListeningStartMessage) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.listening = true
	c.language = msg.Language
	c.mimeType = msg.MimeType
	c.clip.Reset()

	c.logger.Debug("Listening started",
		zap.String("language", msg.Language),
		zap.String("mimeType", msg.MimeType))
}

// handleListeningEnd closes the clip and transcribes it in the background
func (c *Client) handleListeningEnd() {
	c.mutex.Lock()
	if !c.listening {
		c.mutex.Unlock()
		c.sendJSON(NewTranscriptMessage(""))
		return
	}
	c.listening = false
	audio := append([]byte(nil), c.clip.Bytes()...)
	c.clip.Reset()
	req := usecase.TranscribeRequest{
		Audio:    audio,
		MimeType: c.mimeType,
		Filename: entities.ClipFilename(c.mimeType),
		Language: c.language,
	}
	c.mutex.Unlock()

	if len(audio) == 0 {
		c.sendJSON(NewTranscriptMessage(""))
		return
	}

	c.sendJSON(NewTranscribingMessage(true))
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), transcribeTimeout)
		defer cancel()

		text, err := c.hub.transcriber.Transcribe(ctx, req)
		if err != nil {
			c.logger.Error("Streamed transcription failed", zap.Error(err))
			text = ""
		}
		c.sendJSON(NewTranscriptMessage(text))
		c.sendJSON(NewTranscribingMessage(false))
	}()
}

// sendJSON queues a text frame unless the client is already gone
func (c *Client) sendJSON(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("Failed to encode message", zap.Error(err))
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- WriteData{Type: websocket.TextMessage, Payload: payload}:
	default:
		c.logger.Warn("Send buffer full, dropping message")
	}
}

func (c *Client) closeSend() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
