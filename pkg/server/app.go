package server

import (
	"fmt"

	config "ibnu-portfolio/configs"
	"ibnu-portfolio/pkg/handlers"
	"ibnu-portfolio/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// App is the wired portfolio service.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Engine    *gin.Engine
	Registry  *prometheus.Registry
	Metrics   *services.PredictionMetrics
	Monitor   *services.MonitoringService
	Artifact  *services.ArtifactLoader
	Estimator *services.ChurnEstimator
	Batch     *services.BatchScorer
	Portfolio *services.PortfolioService
}

// NewApp builds every service and the router. It fails on configuration defects, so a
// form option without a mapping never reaches a request.
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	location, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}

	options := services.DefaultFormOptions(cfg.Model.CollectedFields...)
	adapter, err := services.NewFeatureAdapter(options, services.DefaultFeatureValues)
	if err != nil {
		return nil, fmt.Errorf("feature adapter: %w", err)
	}
	if err := handlers.RegisterValidators(options); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	tiers, err := services.TierPolicyByName(cfg.Model.TierPolicy)
	if err != nil {
		return nil, err
	}
	gate, err := services.NewInferenceGate(cfg.FallbackPolicy(), tiers, logger.Named("gate"))
	if err != nil {
		return nil, fmt.Errorf("inference gate: %w", err)
	}

	a.Artifact = services.NewArtifactLoader(cfg.Model.ArtifactPath, cfg.Model.RuntimeVersion, logger.Named("artifact"))
	if cfg.Model.EagerLoad {
		// failures are logged by the loader; requests then use the heuristic
		a.Artifact.Classifier()
	}

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = services.NewPredictionMetrics(a.Registry)
	a.Monitor = services.NewMonitoringService(location)

	a.Estimator = services.NewChurnEstimator(adapter, gate, a.Artifact, a.Metrics, a.Monitor, logger.Named("estimator"))
	if a.Batch, err = services.NewBatchScorer(a.Estimator, logger.Named("batch")); err != nil {
		return nil, fmt.Errorf("batch scorer: %w", err)
	}
	if a.Portfolio, err = services.NewPortfolioService(cfg.Content.Path, cfg.Content.AssetsDir); err != nil {
		return nil, err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if a.Engine, err = a.newRouter(); err != nil {
		return nil, err
	}
	return a, nil
}
