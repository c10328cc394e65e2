package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-assessment-service/internal/auth"
	"interview-assessment-service/internal/domain"
)

type statusRequest struct {
	Status string `json:"status"`
}

type assignQuestionRequest struct {
	QuestionID string `json:"questionId"`
}

type assignTestRequest struct {
	TestID string `json:"testId"`
}

func (h *Handler) createInterview(c *gin.Context) {
	var draft domain.InterviewDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		h.badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	id, err := h.interviews.Create(ctx, auth.Principal(ctx), draft)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) listInterviews(c *gin.Context) {
	ctx := c.Request.Context()
	interviews, err := h.interviews.ListAll(ctx, auth.Principal(ctx))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, interviews)
}

func (h *Handler) listMyInterviews(c *gin.Context) {
	ctx := c.Request.Context()
	interviews, err := h.interviews.ListMine(ctx, auth.Principal(ctx))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, interviews)
}

func (h *Handler) getInterviewByCall(c *gin.Context) {
	interview, err := h.interviews.GetByStreamCallID(c.Request.Context(), c.Param("callId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if interview == nil {
		h.writeError(c, domain.ErrInterviewNotFound)
		return
	}
	c.JSON(http.StatusOK, interview)
}

func (h *Handler) updateInterviewStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	if err := h.interviews.UpdateStatus(ctx, auth.Principal(ctx), c.Param("id"), req.Status); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) assignQuestion(c *gin.Context) {
	var req assignQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	if err := h.assignment.AssignQuestion(ctx, auth.Principal(ctx), c.Param("id"), req.QuestionID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getInterview(c *gin.Context) {
	ctx := c.Request.Context()
	interview, err := h.interviews.Get(ctx, auth.Principal(ctx), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, interview)
}

func (h *Handler) interviewQuestions(c *gin.Context) {
	ctx := c.Request.Context()
	principal := auth.Principal(ctx)
	interview, err := h.interviews.Get(ctx, principal, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	questions, err := h.assignment.InterviewQuestions(ctx, principal, interview.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	views, err := viewCodingQuestions(interview.HasInterviewer(principal), questions)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) assignAptitudeTest(c *gin.Context) {
	var req assignTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	if err := h.assignment.AssignAptitudeTest(ctx, auth.Principal(ctx), c.Param("id"), req.TestID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) interviewAptitudeTest(c *gin.Context) {
	ctx := c.Request.Context()
	principal := auth.Principal(ctx)
	test, err := h.assignment.InterviewAptitudeTest(ctx, principal, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if test == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	view, err := viewTest(principal, *test)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
