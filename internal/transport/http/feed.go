package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"interview-assessment-service/internal/auth"
)

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// feed upgrades to a websocket and streams assignment snapshots for the
// interview until the client goes away. Authorization happens before the
// upgrade so failures surface as plain HTTP errors.
func (h *Handler) feed(c *gin.Context) {
	ctx := c.Request.Context()
	interviewID := c.Param("id")
	updates, cancel, err := h.assignment.Subscribe(ctx, auth.Principal(ctx), interviewID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.String("interview_id", interviewID), zap.Error(err))
		return
	}
	defer conn.Close()

	if h.presence != nil {
		if err := h.presence.Join(ctx, interviewID); err != nil {
			h.log.Warn("feed presence join", zap.String("interview_id", interviewID), zap.Error(err))
		}
		defer func() {
			leaveCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := h.presence.Leave(leaveCtx, interviewID); err != nil {
				h.log.Warn("feed presence leave", zap.String("interview_id", interviewID), zap.Error(err))
			}
		}()
	}

	// The feed is one-way; reading only detects the client closing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[any]{Type: "assignment", Payload: snapshot}); err != nil {
				h.log.Debug("ws write error", zap.String("interview_id", interviewID), zap.Error(err))
				return
			}
		case <-closed:
			return
		}
	}
}
