package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reelid/reelid/internal/scheduler"
)

// CacheMaintainer is the part of the resolver the maintenance endpoints act on.
type CacheMaintainer interface {
	PurgeExpired(ctx context.Context) (int64, error)
	CacheKeys(ctx context.Context) ([]string, error)
}

// PurgeResult reports an on-demand purge.
type PurgeResult struct {
	Purged        int64 `json:"purged"`
	CachedEntries int   `json:"cachedEntries"`
}

// MaintenanceHandler serves the scheduled tasks and on-demand cache purges.
type MaintenanceHandler struct {
	scheduler *scheduler.Scheduler
	cache     CacheMaintainer
}

func NewMaintenanceHandler(sched *scheduler.Scheduler, cache CacheMaintainer) *MaintenanceHandler {
	return &MaintenanceHandler{scheduler: sched, cache: cache}
}

// RegisterRoutes mounts the handler on a /scheduler group.
func (h *MaintenanceHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/tasks", h.ListTasks)
	g.GET("/tasks/:id", h.GetTask)
	g.POST("/tasks/:id/run", h.RunTask)
	g.POST("/purge", h.Purge)
}

func taskError(err error) error {
	switch {
	case errors.Is(err, scheduler.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, scheduler.ErrTaskRunning):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// ListTasks returns all scheduled tasks.
// GET /api/v1/scheduler/tasks
func (h *MaintenanceHandler) ListTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, h.scheduler.ListTasks())
}

// GetTask returns one task, including the error of its last run.
// GET /api/v1/scheduler/tasks/:id
func (h *MaintenanceHandler) GetTask(c echo.Context) error {
	task, err := h.scheduler.GetTask(c.Param("id"))
	if err != nil {
		return taskError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// RunTask starts a task in the background.
// POST /api/v1/scheduler/tasks/:id/run
func (h *MaintenanceHandler) RunTask(c echo.Context) error {
	taskID := c.Param("id")
	if err := h.scheduler.RunNow(taskID); err != nil {
		return taskError(err)
	}
	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "Task started",
		"taskId":  taskID,
	})
}

// Purge drops expired keywords and lookups right away and reports what is
// left in the resolution cache.
// POST /api/v1/scheduler/purge
func (h *MaintenanceHandler) Purge(c echo.Context) error {
	ctx := c.Request().Context()
	n, err := h.cache.PurgeExpired(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	keys, err := h.cache.CacheKeys(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, PurgeResult{Purged: n, CachedEntries: len(keys)})
}
