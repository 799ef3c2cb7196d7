package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-api/dto"
	"github.com/taskboard-api/services"
)

// ProjectController handles project endpoints
type ProjectController struct {
	projectService *services.ProjectService
}

// NewProjectController creates a new project controller
func NewProjectController(projects *services.ProjectService) *ProjectController {
	return &ProjectController{projectService: projects}
}

// RegisterRoutes registers project routes on an authenticated group
func (p *ProjectController) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/project")
	{
		projects.GET("/", p.ListProjects)
		projects.POST("/", p.CreateProject)
		projects.POST("/join/", p.JoinProject)
		projects.GET("/:id/", p.GetProject)
		projects.PUT("/:id/", p.updateHandler(dto.ModeReplace))
		projects.PATCH("/:id/", p.updateHandler(dto.ModePatch))
		projects.DELETE("/:id/", p.DeleteProject)
		projects.GET("/:id/tasks/", p.ProjectTasks)
		projects.GET("/:id/members/", p.ProjectMembers)
	}
}

// ListProjects returns the caller's projects with their task counts
func (p *ProjectController) ListProjects(c *gin.Context) {
	items, err := p.projectService.ListProjects(c.Request.Context(), currentCaller(c), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateProject creates a project managed by the caller
func (p *ProjectController) CreateProject(c *gin.Context) {
	var req dto.ProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := p.projectService.CreateProject(c.Request.Context(), currentCaller(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewProjectResponse(project))
}

// GetProject returns a project with its tasks
func (p *ProjectController) GetProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	project, err := p.projectService.GetProjectDetail(c.Request.Context(), currentCaller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProjectResponse(project))
}

func (p *ProjectController) updateHandler(mode dto.WriteMode) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req dto.ProjectRequest
		if !bindJSON(c, &req) {
			return
		}

		project, err := p.projectService.UpdateProject(c.Request.Context(), currentCaller(c), id, req, mode)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewProjectResponse(project))
	}
}

// DeleteProject removes a project and everything in it
func (p *ProjectController) DeleteProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := p.projectService.DeleteProject(c.Request.Context(), currentCaller(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ProjectTasks lists the tasks of a project
func (p *ProjectController) ProjectTasks(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	tasks, err := p.projectService.ProjectTasks(c.Request.Context(), currentCaller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskResponses(tasks))
}

// JoinProject redeems an access code
func (p *ProjectController) JoinProject(c *gin.Context) {
	var req dto.JoinProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := p.projectService.JoinProject(c.Request.Context(), currentCaller(c), req.AccessCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Successfully joined project: " + project.Name})
}

// ProjectMembers lists the membership rows of a project
func (p *ProjectController) ProjectMembers(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	members, err := p.projectService.ProjectMembers(c.Request.Context(), currentCaller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMemberResponses(members))
}
