package handlers

import (
	"errors"
	"net/http"

	"ibnu-portfolio/pkg/services"

	"github.com/gin-gonic/gin"
)

// PortfolioHandler serves the biography and project gallery.
type PortfolioHandler struct {
	service *services.PortfolioService
}

func NewPortfolioHandler(service *services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

func (h *PortfolioHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Profile":  h.service.Profile(),
		"Projects": h.service.Projects(),
	})
}

func (h *PortfolioHandler) ProjectsPage(c *gin.Context) {
	c.HTML(http.StatusOK, "projects.html", gin.H{
		"Profile":  h.service.Profile(),
		"Projects": h.service.Projects(),
	})
}

// ProjectPage opens an active project; coming-soon cards render a notice with 409.
func (h *PortfolioHandler) ProjectPage(c *gin.Context) {
	project, err := h.service.Project(c.Param("id"))
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"Title":   "Project not found",
			"Message": "There is no project with that name.",
		})
	case errors.Is(err, services.ErrProjectNotActive):
		c.HTML(http.StatusConflict, "error.html", gin.H{
			"Title":   project.Title,
			"Message": "This project is coming soon.",
		})
	default:
		c.HTML(http.StatusOK, "project.html", gin.H{
			"Profile":      h.service.Profile(),
			"Project":      project,
			"HasSimulator": project.ID == SimulatorProject,
		})
	}
}

func (h *PortfolioHandler) GetProfile(c *gin.Context) {
	respondOK(c, h.service.Profile())
}

func (h *PortfolioHandler) ListProjects(c *gin.Context) {
	respondOK(c, h.service.Projects())
}

func (h *PortfolioHandler) GetProject(c *gin.Context) {
	project, err := h.service.Project(c.Param("id"))
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrProjectNotActive):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   err.Error(),
			"status":  project.Status,
		})
	default:
		respondOK(c, project)
	}
}
