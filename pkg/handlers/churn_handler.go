package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ibnu-portfolio/pkg/models"
	"ibnu-portfolio/pkg/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SimulatorProject is the only project with a live simulator.
const SimulatorProject = "bank_churn"

const (
	maxUploadBytes = 10 << 20
	xlsxMIME       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ChurnHandler serves the churn simulator, as HTML pages and as JSON.
type ChurnHandler struct {
	estimator *services.ChurnEstimator
	batch     *services.BatchScorer
	logger    *zap.Logger
}

// NewChurnHandler creates a ChurnHandler.
func NewChurnHandler(estimator *services.ChurnEstimator, batch *services.BatchScorer, logger *zap.Logger) *ChurnHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChurnHandler{estimator: estimator, batch: batch, logger: logger}
}

// GetFormOptions returns the inputs, bounds and defaults of the current form revision.
func (h *ChurnHandler) GetFormOptions(c *gin.Context) {
	options := h.estimator.Adapter().Options()
	respondOK(c, gin.H{
		"categorical": options.CollectedCategorical(),
		"numeric":     options.CollectedNumeric(),
		"tier_policy": h.estimator.Gate().TierPolicy(),
	})
}

// Predict scores one JSON profile.
func (h *ChurnHandler) Predict(c *gin.Context) {
	var profile models.CustomerProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid customer profile",
			"details": validationMessages(err),
		})
		return
	}

	est, err := h.estimator.Estimate(profile)
	if err != nil {
		respondEstimateError(c, h.logger, err)
		return
	}
	respondOK(c, est)
}

// BatchPredict scores an uploaded .xlsx or .csv file. With format=xlsx the annotated
// workbook is returned instead of JSON.
func (h *ChurnHandler) BatchPredict(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "a file field with an .xlsx or .csv upload is required")
		return
	}
	defer file.Close()

	rows, err := services.ReadRows(header.Filename, file)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.batch.Score(rows)
	if err != nil {
		var defect *services.ConfigurationDefectError
		if errors.As(err, &defect) {
			respondEstimateError(c, h.logger, err)
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if c.Query("format") != "xlsx" {
		respondOK(c, report)
		return
	}

	buf, err := report.Workbook()
	if err != nil {
		h.logger.Error("failed to render batch workbook", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to render workbook")
		return
	}
	name := fmt.Sprintf("churn_predictions_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxMIME, buf.Bytes())
}

// SimulatorPage renders the simulator form with its defaults.
func (h *ChurnHandler) SimulatorPage(c *gin.Context) {
	c.HTML(http.StatusOK, "simulator.html", h.formView(nil, nil))
}

// SimulatorSubmit scores a posted form and renders the result page.
func (h *ChurnHandler) SimulatorSubmit(c *gin.Context) {
	var profile models.CustomerProfile
	if err := c.ShouldBind(&profile); err != nil {
		c.HTML(http.StatusBadRequest, "simulator.html", h.formView(c, validationMessages(err)))
		return
	}

	est, err := h.estimator.Estimate(profile)
	if err != nil {
		h.logger.Error("simulator submission failed", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"Title":   "Simulator unavailable",
			"Message": "The simulator is misconfigured. Please try again later.",
		})
		return
	}

	c.HTML(http.StatusOK, "result.html", gin.H{
		"Estimate": est,
		"Result":   est.Result,
		"Profile":  profile,
	})
}

type formInput struct {
	Name    string
	Label   string
	Value   string
	Options []string // empty for numeric inputs
	Min     float64
	Max     float64
	Step    float64
}

// formView builds the simulator inputs, keeping posted values when re-rendering after an error.
func (h *ChurnHandler) formView(c *gin.Context, errs []string) gin.H {
	options := h.estimator.Adapter().Options()
	value := func(name, def string) string {
		if c != nil {
			if v, ok := c.GetPostForm(name); ok {
				return v
			}
		}
		return def
	}

	var selects, numbers []formInput
	for _, f := range options.CollectedCategorical() {
		selects = append(selects, formInput{
			Name:    f.Name,
			Label:   f.Label,
			Value:   value(f.Name, f.Default),
			Options: f.Values,
		})
	}
	for _, f := range options.CollectedNumeric() {
		numbers = append(numbers, formInput{
			Name:  f.Name,
			Label: f.Label,
			Value: value(f.Name, strconv.FormatFloat(f.Default, 'f', -1, 64)),
			Min:   f.Min,
			Max:   f.Max,
			Step:  f.Step,
		})
	}
	return gin.H{
		"Selects": selects,
		"Numbers": numbers,
		"Errors":  errs,
	}
}
