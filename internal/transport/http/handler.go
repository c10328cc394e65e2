package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"interview-assessment-service/internal/app"
)

// FeedPresence records live feed watchers outside the process.
type FeedPresence interface {
	Join(ctx context.Context, interviewID string) error
	Leave(ctx context.Context, interviewID string) error
}

// Services groups the use cases exposed over HTTP.
type Services struct {
	Catalog    *app.CatalogService
	Ledger     *app.LedgerService
	Questions  *app.QuestionService
	Interviews *app.InterviewService
	Assignment *app.AssignmentService
}

// Handler serves the /api/v1 surface.
type Handler struct {
	catalog    *app.CatalogService
	ledger     *app.LedgerService
	questions  *app.QuestionService
	interviews *app.InterviewService
	assignment *app.AssignmentService
	presence   FeedPresence
	log        *zap.Logger
	upgrader   websocket.Upgrader
}

// NewHandler wires the services. presence may be nil.
func NewHandler(svc Services, presence FeedPresence, log *zap.Logger) *Handler {
	return &Handler{
		catalog:    svc.Catalog,
		ledger:     svc.Ledger,
		questions:  svc.Questions,
		interviews: svc.Interviews,
		assignment: svc.Assignment,
		presence:   presence,
		log:        log.Named("http"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Register mounts every route on rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	tests := rg.Group("/tests")
	tests.POST("", h.createTest)
	tests.GET("", h.listTests)
	tests.GET("/mine", h.listMyTests)
	tests.GET("/available", h.listAvailableTests)
	tests.GET("/:id", h.getTest)
	tests.PATCH("/:id", h.updateTest)
	tests.DELETE("/:id", h.deleteTest)
	tests.POST("/:id/attempts", h.submitAttempt)
	tests.GET("/:id/attempts", h.listTestAttempts)
	tests.GET("/:id/attempts/mine", h.getMyTestAttempt)

	attempts := rg.Group("/attempts")
	attempts.GET("/mine", h.listMyAttempts)
	attempts.GET("/:id", h.getAttempt)

	questions := rg.Group("/questions")
	questions.POST("", h.createQuestion)
	questions.GET("", h.listQuestions)
	questions.GET("/mine", h.listMyQuestions)
	questions.GET("/:id", h.getQuestion)
	questions.DELETE("/:id", h.deleteQuestion)

	interviews := rg.Group("/interviews")
	interviews.POST("", h.createInterview)
	interviews.GET("", h.listInterviews)
	interviews.GET("/mine", h.listMyInterviews)
	interviews.GET("/by-call/:callId", h.getInterviewByCall)
	interviews.GET("/:id", h.getInterview)
	interviews.PATCH("/:id/status", h.updateInterviewStatus)
	interviews.POST("/:id/questions", h.assignQuestion)
	interviews.GET("/:id/questions", h.interviewQuestions)
	interviews.PUT("/:id/aptitude-test", h.assignAptitudeTest)
	interviews.GET("/:id/aptitude-test", h.interviewAptitudeTest)
	interviews.GET("/:id/feed", h.feed)
}

type idResponse struct {
	ID string `json:"id"`
}
