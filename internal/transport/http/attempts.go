package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-assessment-service/internal/auth"
	"interview-assessment-service/internal/domain"
)

type submitRequest struct {
	Answers     []domain.SubmittedAnswer `json:"answers"`
	StartedAt   int64                    `json:"startedAt"`
	CompletedAt int64                    `json:"completedAt"`
}

func (h *Handler) submitAttempt(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	id, err := h.ledger.Submit(ctx, auth.Principal(ctx), c.Param("id"), req.Answers, req.StartedAt, req.CompletedAt)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) listTestAttempts(c *gin.Context) {
	ctx := c.Request.Context()
	attempts, err := h.ledger.ListByTest(ctx, auth.Principal(ctx), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempts)
}

func (h *Handler) getMyTestAttempt(c *gin.Context) {
	ctx := c.Request.Context()
	attempt, err := h.ledger.GetByTestAndCandidate(ctx, auth.Principal(ctx), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if attempt == nil {
		h.writeError(c, domain.ErrAttemptNotFound)
		return
	}
	c.JSON(http.StatusOK, attempt)
}

func (h *Handler) listMyAttempts(c *gin.Context) {
	ctx := c.Request.Context()
	attempts, err := h.ledger.ListByCandidate(ctx, auth.Principal(ctx))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempts)
}

func (h *Handler) getAttempt(c *gin.Context) {
	attempt, err := h.ledger.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if attempt == nil {
		h.writeError(c, domain.ErrAttemptNotFound)
		return
	}
	c.JSON(http.StatusOK, attempt)
}
