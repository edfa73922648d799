package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aimonlabs/intelligent-todo-app/internal/task"
)

const maxDescriptionSize = 10 << 10 // 10KB

// taskView is the JSON shape tasks take on the wire, with the derived
// status included.
type taskView struct {
	ID             string      `json:"id"`
	Description    string      `json:"description"`
	Priority       string      `json:"priority,omitempty"`
	Categories     []string    `json:"categories,omitempty"`
	DueDate        *time.Time  `json:"due_date,omitempty"`
	EstimatedHours float64     `json:"estimated_hours"`
	Completed      bool        `json:"completed"`
	Status         task.Status `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	LastReminded   *time.Time  `json:"last_reminded,omitempty"`
}

func viewOf(t task.Task, now time.Time) taskView {
	return taskView{
		ID:             t.ID,
		Description:    t.Description,
		Priority:       t.Priority,
		Categories:     t.Categories,
		DueDate:        t.DueDate,
		EstimatedHours: t.EstimatedHours,
		Completed:      t.Completed,
		Status:         t.StatusAt(now),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		LastReminded:   t.LastReminded,
	}
}

func viewsOf(tasks []task.Task, now time.Time) []taskView {
	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, viewOf(t, now))
	}
	return views
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"version": s.version,
	})
}

func (s *Server) handleListTasks(c *gin.Context) {
	status := task.Status(c.Query("status"))
	switch status {
	case "", task.StatusPending, task.StatusInProgress, task.StatusCompleted, task.StatusPastDue:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "unknown status filter",
		})
		return
	}

	now := time.Now()
	tasks := s.store.List(status)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   viewsOf(tasks, now),
		"count":   len(tasks),
	})
}

type createTaskRequest struct {
	Description    string   `json:"description"`
	Priority       string   `json:"priority"`
	Categories     []string `json:"categories"`
	DueDate        string   `json:"due_date"`
	EstimatedHours *float64 `json:"estimated_hours"`
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "description required",
		})
		return
	}
	if len(req.Description) > maxDescriptionSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "description exceeds maximum size of 10KB",
		})
		return
	}

	var due *time.Time
	if req.DueDate != "" {
		ts, err := task.ParseDueDate(req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		due = &ts
	}

	// Estimation is deferred to the orchestrator when the caller gives no
	// hours; the orchestrator never fails.
	hours := 0.0
	if req.EstimatedHours != nil {
		hours = *req.EstimatedHours
	} else {
		hours = s.estimator.Estimate(c.Request.Context(), req.Description)
	}

	t := task.New(req.Description, due, hours)
	t.Priority = req.Priority
	t.Categories = req.Categories

	created, err := s.store.Create(t)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"task":    viewOf(created, time.Now()),
	})
}

func (s *Server) handleGetTask(c *gin.Context) {
	t, err := s.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "task not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    viewOf(t, time.Now()),
	})
}

type updateTaskRequest struct {
	Description    *string   `json:"description"`
	Priority       *string   `json:"priority"`
	Categories     *[]string `json:"categories"`
	DueDate        *string   `json:"due_date"`
	EstimatedHours *float64  `json:"estimated_hours"`
	Completed      *bool     `json:"completed"`
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	p := task.Patch{
		Description:    req.Description,
		Priority:       req.Priority,
		Categories:     req.Categories,
		EstimatedHours: req.EstimatedHours,
		Completed:      req.Completed,
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			p.ClearDueDate = true
		} else {
			ts, err := task.ParseDueDate(*req.DueDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   err.Error(),
				})
				return
			}
			p.DueDate = &ts
		}
	}

	t, err := s.store.Update(c.Param("id"), p)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "task not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    viewOf(t, time.Now()),
	})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if !s.store.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "task not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "task deleted",
	})
}

func (s *Server) handleCompleteTask(c *gin.Context) {
	t, err := s.store.Complete(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "task not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    viewOf(t, time.Now()),
	})
}

func (s *Server) handleReopenTask(c *gin.Context) {
	completed := false
	t, err := s.store.Update(c.Param("id"), task.Patch{Completed: &completed})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "task not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    viewOf(t, time.Now()),
	})
}

type estimateRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleEstimate(c *gin.Context) {
	var req estimateRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	if req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "description required",
		})
		return
	}

	hours := s.estimator.Estimate(c.Request.Context(), req.Description)
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"estimated_hours": hours,
	})
}

func (s *Server) handleSummaryToday(c *gin.Context) {
	now := time.Now()
	tasks := s.store.DueToday(now)
	summary := s.summarizer.SummarizeDay(c.Request.Context(), tasks)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": summary,
		"count":   len(tasks),
	})
}
