package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/vshell/internal/domain/session"
	"github.com/GriffinCanCode/vshell/internal/domain/shell"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/vshell/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/vshell/internal/shared/types"
	"github.com/GriffinCanCode/vshell/internal/shared/utils"
)

// Message types
const (
	TypeInput  = "input"
	TypePing   = "ping"
	TypeOutput = "output"
	TypePong   = "pong"
	TypeSystem = "system"
	TypeError  = "error"
)

const (
	writeWait = 10 * time.Second
	readLimit = utils.MaxLineSize + 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler streams a shell session over a WebSocket
type Handler struct {
	shell    *shell.Shell
	renderer *shell.HTMLRenderer
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
	logger   *logging.Logger
	location string
}

// NewHandler creates a new WebSocket handler. location describes where
// the snapshot is persisted and appears in the welcome banner.
func NewHandler(sh *shell.Shell, metrics *monitoring.Metrics, tracer *tracing.Tracer, logger *logging.Logger, location string) *Handler {
	return &Handler{
		shell:    sh,
		renderer: shell.NewHTMLRenderer(),
		metrics:  metrics,
		tracer:   tracer,
		logger:   logging.OrNop(logger).Named("ws"),
		location: location,
	}
}

// HandleConnection upgrades GET /sessions/:id/stream and relays lines
// until the client disconnects or the session is closed.
func (h *Handler) HandleConnection(c *gin.Context) {
	sessionID := c.Param("id")
	if err := utils.ValidateID(sessionID, "session_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, ok := h.shell.Sessions().Get(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(readLimit)

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	reqCtx := c.Request.Context()
	log := h.logger.With(zap.String("session_id", sessionID))
	log.Debug("Stream opened")

	h.send(conn, types.WSMessage{
		Type:    TypeSystem,
		Message: shell.Banner(h.location),
		Result:  state(sess),
	})

	for {
		var msg types.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("WebSocket read error", zap.Error(err))
			}
			break
		}
		h.record("in", inbound(msg.Type))

		if _, open := h.shell.Sessions().Get(sessionID); !open {
			h.sendError(conn, "session closed")
			break
		}

		switch msg.Type {
		case TypeInput:
			h.handleInput(reqCtx, conn, sess, msg.Line)
		case TypePing:
			h.send(conn, types.WSMessage{Type: TypePong})
		default:
			h.sendError(conn, "unknown message type")
		}
	}
	log.Debug("Stream closed")
}

func (h *Handler) handleInput(reqCtx context.Context, conn *websocket.Conn, sess *session.Session, line string) {
	if err := utils.ValidateLine(line); err != nil {
		h.sendError(conn, err.Error())
		return
	}

	ctx := reqCtx
	var span *tracing.Span
	if h.tracer != nil {
		span, ctx = h.tracer.StartSpan(reqCtx, "ws.input")
		span.SetTag("session_id", string(sess.ID))
		defer func() {
			span.Finish()
			h.tracer.Submit(span)
		}()
	}

	resp, err := h.shell.Exec(ctx, sess, line)
	if err != nil {
		if span != nil {
			span.SetError(err)
		}
		h.logger.Error("Exec failed", zap.String("session_id", string(sess.ID)), zap.Error(err))
		h.sendError(conn, err.Error())
		return
	}
	resp.HTML = h.renderer.Render(resp)

	h.send(conn, types.WSMessage{Type: TypeOutput, Result: resp})
}

func (h *Handler) send(conn *websocket.Conn, msg types.WSMessage) error {
	h.record("out", msg.Type)
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

func (h *Handler) sendError(conn *websocket.Conn, message string) error {
	return h.send(conn, types.WSMessage{Type: TypeError, Message: message})
}

func (h *Handler) record(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}

// inbound bounds the label values clients can create.
func inbound(msgType string) string {
	switch msgType {
	case TypeInput, TypePing:
		return msgType
	}
	return "unknown"
}

// state describes the session without running a command.
func state(sess *session.Session) *types.ExecResponse {
	return &types.ExecResponse{
		Cwd:    sess.Cwd(),
		Prompt: shell.Prompt(sess),
		Mode:   sess.Mode().String(),
	}
}
