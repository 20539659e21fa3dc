package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"os"

	"ibnu-portfolio/pkg/handlers"
	"ibnu-portfolio/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	// percent renders a probability as "73.2%", or "n/a" for label-only results.
	"percent": func(p *float64) string {
		if p == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.1f%%", *p*100)
	},
	"bar": func(x float64) string {
		return fmt.Sprintf("%.0f%%", x*100)
	},
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

func (a *App) newRouter() (*gin.Engine, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		requestID(),
		requestLogger(a.Logger.Named("http")),
		recovery(a.Logger),
		a.Monitor.LoggingMiddleware(),
		requestMetrics(a.Metrics),
	)

	corsConfig := cors.DefaultConfig()
	if len(a.Config.Server.CORSOrigins) == 0 || (len(a.Config.Server.CORSOrigins) == 1 && a.Config.Server.CORSOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = a.Config.Server.CORSOrigins
	}
	corsConfig.AddAllowHeaders("X-API-KEY", requestIDHeader)
	r.Use(cors.New(corsConfig))

	if dir := a.Config.Content.AssetsDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			r.Static("/static", dir)
		}
	}

	limiter := newIPRateLimiter(a.Config.Server.RateLimit.RequestsPerSecond, a.Config.Server.RateLimit.BurstSize)

	portfolioHandler := handlers.NewPortfolioHandler(a.Portfolio)
	churnHandler := handlers.NewChurnHandler(a.Estimator, a.Batch, a.Logger.Named("churn"))
	adminHandler := handlers.NewAdminHandler(a.Config.Admin, a.Artifact, a.Logger.Named("admin"))
	monitoringHandler := handlers.NewMonitoringHandler(a.Monitor)

	r.GET("/health", handlers.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})))

	// pages
	r.GET("/", portfolioHandler.Home)
	r.GET("/projects", portfolioHandler.ProjectsPage)
	r.GET("/projects/:id", portfolioHandler.ProjectPage)
	simulator := r.Group("/projects/:id/simulator", onlyProject(handlers.SimulatorProject))
	{
		simulator.GET("", churnHandler.SimulatorPage)
		simulator.POST("", limiter.Middleware(), churnHandler.SimulatorSubmit)
	}

	v1 := r.Group("/api/v1")
	v1.Use(apiKeyAuth(a.Config.Server.APIKey))
	{
		portfolio := v1.Group("/portfolio")
		{
			portfolio.GET("/profile", portfolioHandler.GetProfile)
			portfolio.GET("/projects", portfolioHandler.ListProjects)
			portfolio.GET("/projects/:id", portfolioHandler.GetProject)
		}

		churn := v1.Group("/churn")
		{
			churn.GET("/form", churnHandler.GetFormOptions)
			churn.POST("/predict", limiter.Middleware(), churnHandler.Predict)
			churn.POST("/batch", limiter.Middleware(), churnHandler.BatchPredict)
		}

		admin := v1.Group("/admin")
		{
			admin.GET("/health-status", adminHandler.GetHealthStatus)
			admin.POST("/maintenance/start", adminHandler.StartMaintenance)
			admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
			admin.GET("/model", adminHandler.ModelStatus)
			admin.POST("/model/reload", adminHandler.ReloadModel)
		}

		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/logs", monitoringHandler.GetLogs)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"Title":   "Page not found",
			"Message": "Nothing lives at this address.",
		})
	})

	return r, nil
}

// onlyProject 404s routes of projects other than id.
func onlyProject(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param("id") != id {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "error": services.ErrProjectNotFound.Error()})
			return
		}
		c.Next()
	}
}
