package handler

import (
	"log"
	"net/http"
	"sync"

	config "ibnu-portfolio/configs"
	"ibnu-portfolio/pkg/logging"
	"ibnu-portfolio/pkg/server"

	"github.com/gin-gonic/gin"
)

var (
	app     *gin.Engine
	initErr error
	once    sync.Once
)

// setupApp builds the engine once per serverless instance. Environment variables come from
// the platform, so no .env file is read here.
func setupApp() (*gin.Engine, error) {
	once.Do(func() {
		cfg, err := config.Load("")
		if err != nil {
			initErr = err
			return
		}
		logger, err := logging.New(cfg.LogLevel, cfg.Environment)
		if err != nil {
			initErr = err
			return
		}
		a, err := server.NewApp(cfg, logger)
		if err != nil {
			initErr = err
			return
		}
		app = a.Engine
	})
	return app, initErr
}

// Handler is the serverless entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	engine, err := setupApp()
	if err != nil {
		log.Printf("portfolio init failed: %v", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	engine.ServeHTTP(w, r)
}
