// Package web serves the dashboard REST API, the browser-facing counterpart
// to the CLI.
package web

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aimonlabs/intelligent-todo-app/internal/task"
)

// TaskStore is the store surface the handlers use.
type TaskStore interface {
	Create(t task.Task) (task.Task, error)
	Get(id string) (task.Task, error)
	Update(id string, p task.Patch) (task.Task, error)
	Complete(id string) (task.Task, error)
	Delete(id string) bool
	List(status task.Status) []task.Task
	DueToday(now time.Time) []task.Task
}

// Estimator produces an hour estimate for a description. It never fails.
type Estimator interface {
	Estimate(ctx context.Context, description string) float64
}

// Summarizer produces the day digest.
type Summarizer interface {
	SummarizeDay(ctx context.Context, tasks []task.Task) string
}

// Server is the dashboard web server.
type Server struct {
	store      TaskStore
	estimator  Estimator
	summarizer Summarizer
	router     *gin.Engine
	version    string
}

// NewServer wires the API routes.
func NewServer(store TaskStore, estimator Estimator, summarizer Summarizer, version string) *Server {
	router := gin.Default()

	s := &Server{
		store:      store,
		estimator:  estimator,
		summarizer: summarizer,
		router:     router,
		version:    version,
	}

	api := router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/:id/complete", s.handleCompleteTask)
		api.POST("/tasks/:id/reopen", s.handleReopenTask)
		api.POST("/estimate", s.handleEstimate)
		api.GET("/summary/today", s.handleSummaryToday)
	}

	return s
}

// Run starts the web server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
