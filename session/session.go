package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sticker-canvas/config"
	"sticker-canvas/export"
	"sticker-canvas/logging"
	"sticker-canvas/scene"
	"sticker-canvas/sticker"
)

type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type Session struct {
	ID       string
	Clients  map[*websocket.Conn]bool
	Stickers *sticker.Controller
	Drag     scene.DragState
	Scene    *scene.Scene
}

type Manager struct {
	sessions  map[string]*Session
	mu        sync.Mutex
	cfg       config.Config
	logger    *log.Logger
	pipeline  *export.Pipeline
	placement []sticker.Option
}

type Option func(*Manager)

// WithPlacement passes options to every session's placement controller.
func WithPlacement(opts ...sticker.Option) Option {
	return func(m *Manager) { m.placement = opts }
}

// WithPipeline replaces the export pipeline.
func WithPipeline(p *export.Pipeline) Option {
	return func(m *Manager) { m.pipeline = p }
}

func NewManager(cfg config.Config, logger *log.Logger, opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.pipeline == nil {
		m.pipeline = export.New(export.WithPixelRatio(cfg.ExportPixelRatio))
	}
	return m
}

func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]*Session)
}

func (m *Manager) newSession(id string) *Session {
	geo := m.cfg.Geometry()
	s := &Session{
		ID:       id,
		Clients:  make(map[*websocket.Conn]bool),
		Stickers: sticker.NewController(sticker.NewStore(), geo, m.placement...),
		Scene:    scene.New(geo),
	}
	s.redraw()
	return s
}

func (m *Manager) ListTemplates(c *fiber.Ctx) error {
	return c.JSON(sticker.Templates())
}

func (m *Manager) CreateSession(c *fiber.Ctx) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.cfg.MaxSessions {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "maximum number of sessions reached",
		})
	}

	id := uuid.NewString()
	m.sessions[id] = m.newSession(id)

	m.logger.Info("session created", "session", id)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"sessionId": id,
	})
}

func (m *Manager) GetSession(c *fiber.Ctx) error {
	id := c.Params("id")
	m.mu.Lock()
	session, ok := m.sessions[id]
	var state State
	if ok {
		state = session.State()
	}
	m.mu.Unlock()

	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "session not found",
		})
	}

	return c.JSON(fiber.Map{
		"sessionId": id,
		"state":     state,
	})
}

// Export renders the session canvas and sends it back as a PNG download.
func (m *Manager) Export(c *fiber.Ctx) error {
	id := c.Params("id")
	m.mu.Lock()
	session, ok := m.sessions[id]
	var empty bool
	var surface *scene.Scene
	if ok {
		empty = session.Stickers.Store().Len() == 0
		surface = session.Scene
	}
	m.mu.Unlock()

	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "session not found",
		})
	}
	if empty {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": export.NoticeEmpty,
		})
	}

	// The server copy is written only once the download is in place.
	savers := export.Chain{downloadSaver(c)}
	if m.cfg.ExportDir != "" {
		savers = append(savers, export.DirSaver{Dir: m.cfg.ExportDir})
	}

	ctx := logging.WithLogger(c.UserContext(), m.logger.With("session", id))
	_, err := m.pipeline.Run(ctx, surface, savers)
	switch {
	case errors.Is(err, export.ErrSurfaceUnavailable):
		return c.SendStatus(fiber.StatusNoContent)
	case err != nil:
		c.Response().Header.Del(fiber.HeaderContentDisposition)
		c.Response().ResetBody()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": export.NoticeFailed,
		})
	}
	return nil
}

// downloadSaver triggers a browser save-as for the artifact.
func downloadSaver(c *fiber.Ctx) export.Saver {
	return export.SaverFunc(func(ctx context.Context, a export.Artifact) error {
		c.Attachment(a.Filename)
		c.Type("png")
		return c.Send(a.Data)
	})
}

//WS handler
func (m *Manager) HandleWS(c *websocket.Conn) {
	sessionId := c.Params("sessionId")
	m.mu.Lock()
	session, ok := m.sessions[sessionId]
	if !ok {
		m.mu.Unlock()
		c.Close()
		return
	}
	if len(session.Clients) >= m.cfg.MaxClientsPerSession {
		m.mu.Unlock()
		m.logger.Warn("session full, rejecting client", "session", sessionId)
		c.Close()
		return
	}

	session.Clients[c] = true
	m.logger.Info("client joined", "session", sessionId, "clients", len(session.Clients))

	// Send current state to the new client (late-joiner sync)
	m.send(c, session.State())
	m.mu.Unlock()

	defer func() {
		c.Close()
		m.mu.Lock()
		delete(session.Clients, c)
		m.mu.Unlock()
	}()

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			m.logger.Debug("read", "session", sessionId, "err", err)
			break
		}

		var clientMsg ClientMessage
		if err := json.Unmarshal(msg, &clientMsg); err != nil {
			m.logger.Warn("invalid message", "session", sessionId, "err", err)
			continue
		}

		m.mu.Lock()
		if processCommand(clientMsg, session, m.logger) {
			session.redraw()
			m.broadcast(session)
		}
		m.mu.Unlock()
	}
}

// processCommand applies one client command and reports whether the store
// or drag state changed.
func processCommand(msg ClientMessage, s *Session, logger *log.Logger) bool {
	switch msg.Type {
	case "add_sticker":
		var p AddStickerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			logger.Warn("bad payload", "type", msg.Type, "err", err)
			return false
		}
		t, ok := sticker.Lookup(p.Glyph)
		if !ok {
			logger.Warn("unknown sticker template", "glyph", p.Glyph)
			return false
		}
		st := s.Stickers.AddSticker(t)
		logger.Debug("sticker added", "session", s.ID, "id", st.ID, "x", st.X, "y", st.Y)
		return true
	case "drag_start":
		var p StickerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			logger.Warn("bad payload", "type", msg.Type, "err", err)
			return false
		}
		st, ok := s.Stickers.Store().Get(p.ID)
		if !ok {
			return false
		}
		s.Drag = scene.DragState{ID: st.ID, X: float64(st.X), Y: float64(st.Y)}
		return true
	case "drag_move":
		var p DragPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			logger.Warn("bad payload", "type", msg.Type, "err", err)
			return false
		}
		if !s.Drag.Is(p.ID) {
			return false
		}
		s.Drag.X, s.Drag.Y = p.X, p.Y
		return true
	case "drag_end":
		var p DragPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			logger.Warn("bad payload", "type", msg.Type, "err", err)
			return false
		}
		moved := s.Stickers.MoveSticker(p.ID, p.X, p.Y)
		wasDragging := s.Drag.Is(p.ID)
		if wasDragging {
			s.Drag = scene.DragState{}
		}
		return moved || wasDragging
	case "delete_sticker":
		var p StickerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			logger.Warn("bad payload", "type", msg.Type, "err", err)
			return false
		}
		if s.Drag.Is(p.ID) {
			s.Drag = scene.DragState{}
		}
		return s.Stickers.DeleteSticker(p.ID)
	case "clear_stickers":
		s.Stickers.ClearAll()
		s.Drag = scene.DragState{}
		return true
	default:
		logger.Warn("unknown message type", "type", msg.Type)
		return false
	}
}

func (m *Manager) broadcast(session *Session) {
	data, err := encodeState(session.State())
	if err != nil {
		m.logger.Error("failed to marshal state", "err", err)
		return
	}
	for client := range session.Clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			m.logger.Debug("write", "session", session.ID, "err", err)
		}
	}
}

func (m *Manager) send(c *websocket.Conn, state State) {
	data, err := encodeState(state)
	if err != nil {
		m.logger.Error("failed to marshal state", "err", err)
		return
	}
	if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
		m.logger.Debug("write", "err", err)
	}
}

func encodeState(state State) ([]byte, error) {
	return json.Marshal(ServerMessage{
		Type:    "state_update",
		Payload: state,
	})
}
