package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-assessment-service/internal/auth"
	"interview-assessment-service/internal/domain"
)

func (h *Handler) createTest(c *gin.Context) {
	var draft domain.TestDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		h.badRequest(c, err)
		return
	}
	id, err := h.catalog.Create(c.Request.Context(), auth.Principal(c.Request.Context()), draft)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) listTests(c *gin.Context) {
	principal := auth.Principal(c.Request.Context())
	tests, err := h.catalog.ListAll(c.Request.Context(), principal)
	if err != nil {
		h.writeError(c, err)
		return
	}
	views, err := viewTests(principal, tests)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) listMyTests(c *gin.Context) {
	principal := auth.Principal(c.Request.Context())
	tests, err := h.catalog.ListByCreator(c.Request.Context(), principal)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tests)
}

func (h *Handler) listAvailableTests(c *gin.Context) {
	principal := auth.Principal(c.Request.Context())
	tests, err := h.catalog.ListActiveVisibleTo(c.Request.Context(), principal)
	if err != nil {
		h.writeError(c, err)
		return
	}
	views, err := viewTests(principal, tests)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) getTest(c *gin.Context) {
	test, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if test == nil {
		h.writeError(c, domain.ErrTestNotFound)
		return
	}
	view, err := viewTest(auth.Principal(c.Request.Context()), *test)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) updateTest(c *gin.Context) {
	var patch domain.TestPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.badRequest(c, err)
		return
	}
	principal := auth.Principal(c.Request.Context())
	if err := h.catalog.Update(c.Request.Context(), principal, c.Param("id"), patch); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteTest(c *gin.Context) {
	principal := auth.Principal(c.Request.Context())
	if err := h.catalog.Delete(c.Request.Context(), principal, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
