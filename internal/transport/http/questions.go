package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-assessment-service/internal/auth"
	"interview-assessment-service/internal/domain"
)

func (h *Handler) createQuestion(c *gin.Context) {
	var draft domain.QuestionDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		h.badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	id, err := h.questions.Create(ctx, auth.Principal(ctx), draft)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) listQuestions(c *gin.Context) {
	ctx := c.Request.Context()
	questions, err := h.questions.ListAll(ctx, auth.Principal(ctx))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *Handler) listMyQuestions(c *gin.Context) {
	ctx := c.Request.Context()
	questions, err := h.questions.ListByCreator(ctx, auth.Principal(ctx))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *Handler) getQuestion(c *gin.Context) {
	q, err := h.questions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if q == nil {
		h.writeError(c, domain.ErrQuestionNotFound)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) deleteQuestion(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.questions.Delete(ctx, auth.Principal(ctx), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
