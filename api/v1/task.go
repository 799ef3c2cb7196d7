package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-api/apperrors"
	"github.com/taskboard-api/dto"
	"github.com/taskboard-api/services"
	"github.com/taskboard-api/utils"
)

const dependencyParam = "dependentOnTaskId"

// TaskController handles task and dependency endpoints
type TaskController struct {
	taskService *services.TaskService
}

// NewTaskController creates a new task controller
func NewTaskController(tasks *services.TaskService) *TaskController {
	return &TaskController{taskService: tasks}
}

// RegisterRoutes registers task routes on an authenticated group
func (t *TaskController) RegisterRoutes(router *gin.RouterGroup) {
	tasks := router.Group("/task")
	{
		tasks.GET("/", t.ListTasks)
		tasks.POST("/", t.CreateTask)
		tasks.GET("/dependencies/", t.ListDependencies)
		tasks.GET("/:id/", t.GetTask)
		tasks.PUT("/:id/", t.updateHandler(dto.ModeReplace))
		tasks.PATCH("/:id/", t.updateHandler(dto.ModePatch))
		tasks.DELETE("/:id/", t.DeleteTask)
		tasks.POST("/:id/add_dependency/", t.AddDependency)
		tasks.DELETE("/:id/remove_dependency/", t.RemoveDependency)
	}
}

// ListTasks returns tasks of the caller's projects, optionally for one project
func (t *TaskController) ListTasks(c *gin.Context) {
	var projectID *uint
	if raw, ok := c.GetQuery("project"); ok && raw != "" {
		id, valid := utils.ParseID(raw)
		if !valid {
			respondError(c, apperrors.Validation(map[string][]string{
				"project": {"A valid integer is required."},
			}))
			return
		}
		projectID = &id
	}

	tasks, err := t.taskService.ListTasks(c.Request.Context(), currentCaller(c), projectID, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskResponses(tasks))
}

// CreateTask creates a task and answers with the standard representation
func (t *TaskController) CreateTask(c *gin.Context) {
	var req dto.TaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := t.taskService.CreateTask(c.Request.Context(), currentCaller(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTaskResponse(task))
}

// GetTask returns a task with its dependency ids
func (t *TaskController) GetTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	task, deps, err := t.taskService.GetTask(c.Request.Context(), currentCaller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskDetailResponse(task, deps))
}

func (t *TaskController) updateHandler(mode dto.WriteMode) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req dto.TaskRequest
		if !bindJSON(c, &req) {
			return
		}

		task, deps, err := t.taskService.UpdateTask(c.Request.Context(), currentCaller(c), id, req, mode)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewTaskDetailResponse(task, deps))
	}
}

// DeleteTask removes a task
func (t *TaskController) DeleteTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := t.taskService.DeleteTask(c.Request.Context(), currentCaller(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListDependencies returns every dependency edge
func (t *TaskController) ListDependencies(c *gin.Context) {
	deps, err := t.taskService.ListDependencies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDependencyResponses(deps))
}

// AddDependency makes the task depend on ?dependentOnTaskId=
func (t *TaskController) AddDependency(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	created, err := t.taskService.AddDependency(c.Request.Context(), currentCaller(c), id, c.Query(dependencyParam))
	if err != nil {
		respondActionError(c, err)
		return
	}
	if created {
		c.JSON(http.StatusCreated, gin.H{"message": "Dependency added successfully"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dependency already exists"})
}

// RemoveDependency deletes the edge to ?dependentOnTaskId=
func (t *TaskController) RemoveDependency(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := t.taskService.RemoveDependency(c.Request.Context(), currentCaller(c), id, c.Query(dependencyParam)); err != nil {
		respondActionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dependency removed successfully"})
}
