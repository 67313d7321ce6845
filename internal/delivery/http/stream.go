package http

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"smc-analyzer/internal/dto"
	"smc-analyzer/internal/presenter"
	"smc-analyzer/internal/session"
	"smc-analyzer/pkg/logger"
	"smc-analyzer/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	streamPingInterval = 25 * time.Second
	streamPongWait     = 60 * time.Second
	streamWriteWait    = 10 * time.Second
)

const (
	StreamTypeState  = "state"
	StreamTypeNotice = "notice"
)

// StreamMessage is one frame pushed to a stream client. A "state" frame
// carries a session transition and Text, the state rendered as
// Telegram-flavoured HTML. A "notice" frame rejects an inbound message and
// leaves the session untouched.
type StreamMessage struct {
	Type   string         `json:"type"`
	State  *session.State `json:"state,omitempty"`
	Text   string         `json:"text,omitempty"`
	Notice string         `json:"notice,omitempty"`
}

// AnalyzeStream keeps one analysis session per connection. Every inbound
// {"symbol": "..."} frame submits; every session transition is pushed back.
// A newer submission supersedes an in-flight one, so the client only ever
// sees the latest result.
func (h *HttpAPIHandler) AnalyzeStream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", logger.ErrorField(err))
		return nil
	}

	ctx, cancel := context.WithCancel(h.ctx)
	sess := session.New()
	states, unsubscribe := sess.Subscribe()
	notices := make(chan StreamMessage, 1)

	defer func() {
		cancel()
		unsubscribe()
		sess.Close()
		conn.Close()
	}()

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	utils.GoSafe(func() { h.streamPingLoop(ctx, conn) })
	utils.GoSafe(func() { h.streamWriteLoop(ctx, conn, states, notices) })

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("Websocket read failed", logger.ErrorField(err))
			}
			return nil
		}
		_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))

		var req dto.AnalyzeRequest
		if err := json.Unmarshal(message, &req); err != nil {
			h.notify(notices, "invalid message: expected {\"symbol\": \"...\"}")
			continue
		}
		req.Symbol = dto.NormalizeSymbol(req.Symbol)
		if err := h.validator.Struct(req); err != nil {
			h.notify(notices, err.Error())
			continue
		}

		symbol := req.Symbol
		utils.GoSafe(func() {
			_, err := h.service.AnalysisService.Submit(ctx, sess, symbol)
			if err != nil && !errors.Is(err, session.ErrStale) && !errors.Is(err, session.ErrClosed) {
				h.log.Debug("Stream submission ended", logger.StringField("symbol", symbol), logger.ErrorField(err))
			}
		})
	}
}

func (h *HttpAPIHandler) notify(notices chan StreamMessage, reason string) {
	msg := StreamMessage{Type: StreamTypeNotice, Notice: reason}
	select {
	case notices <- msg:
	default:
	}
}

func (h *HttpAPIHandler) streamWriteLoop(ctx context.Context, conn *websocket.Conn, states <-chan session.State, notices <-chan StreamMessage) {
	for {
		var msg StreamMessage
		select {
		case <-ctx.Done():
			return
		case msg = <-notices:
		case state, ok := <-states:
			if !ok {
				return
			}
			msg = StreamMessage{Type: StreamTypeState, State: &state, Text: presenter.RenderState(h.renderer, state)}
		}

		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		if err := conn.WriteJSON(msg); err != nil {
			h.log.Debug("Websocket write failed", logger.ErrorField(err))
			return
		}
	}
}

func (h *HttpAPIHandler) streamPingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deadline := time.Now().Add(streamWriteWait)
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, deadline); err != nil {
				return
			}
		}
	}
}
