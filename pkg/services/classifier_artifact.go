package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"ibnu-portfolio/pkg/models"

	"go.uber.org/zap"
)

// PipelineFormat identifies serialized churn pipelines.
const PipelineFormat = "churn-pipeline"

// NumericScaler standardizes one numeric column.
type NumericScaler struct {
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

// PipelineDocument is the on-disk form of a trained pipeline: scaler, one-hot encoder and a
// logistic head. Weights for categorical columns are keyed "column=label".
type PipelineDocument struct {
	Format         string                   `json:"format"`
	RuntimeVersion string                   `json:"runtime_version"`
	TrainedAt      string                   `json:"trained_at,omitempty"`
	Columns        []string                 `json:"columns"`
	Numeric        map[string]NumericScaler `json:"numeric"`
	Categories     map[string][]string      `json:"categories"`
	Weights        map[string]float64       `json:"weights"`
	Intercept      float64                  `json:"intercept"`
	Threshold      float64                  `json:"threshold"`
}

// Pipeline is a loaded, immutable churn classifier. Safe for concurrent use.
type Pipeline struct {
	doc PipelineDocument
}

// ParsePipeline decodes and sanity-checks a serialized pipeline.
func ParsePipeline(data []byte) (*Pipeline, error) {
	var doc PipelineDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode pipeline: %v", ErrArtifactIncompatible, err)
	}
	if doc.Format != PipelineFormat {
		return nil, fmt.Errorf("%w: unexpected format %q", ErrArtifactIncompatible, doc.Format)
	}
	if len(doc.Columns) == 0 {
		return nil, fmt.Errorf("%w: pipeline declares no columns", ErrArtifactIncompatible)
	}
	for _, col := range doc.Columns {
		_, isNum := doc.Numeric[col]
		_, isCat := doc.Categories[col]
		if isNum == isCat {
			return nil, fmt.Errorf("%w: column %q must be exactly one of numeric or categorical", ErrArtifactIncompatible, col)
		}
	}
	if doc.Threshold <= 0 || doc.Threshold >= 1 {
		doc.Threshold = DecisionThreshold
	}
	return &Pipeline{doc: doc}, nil
}

// RuntimeVersion is the version of the library the pipeline was serialized with.
func (p *Pipeline) RuntimeVersion() string {
	return p.doc.RuntimeVersion
}

// Columns returns the expected input columns in order.
func (p *Pipeline) Columns() []string {
	return slices.Clone(p.doc.Columns)
}

// Predict labels the vector 1 (churn) when the probability exceeds the trained threshold.
func (p *Pipeline) Predict(v models.FeatureVector) (int, error) {
	prob, err := p.PredictProba(v)
	if err != nil {
		return 0, err
	}
	if prob > p.doc.Threshold {
		return 1, nil
	}
	return 0, nil
}

// PredictProba returns the churn probability of the vector.
func (p *Pipeline) PredictProba(v models.FeatureVector) (float64, error) {
	cols := v.Columns()
	if len(cols) != len(p.doc.Columns) {
		return 0, fmt.Errorf("%w: expected %d columns, got %d", ErrArtifactIncompatible, len(p.doc.Columns), len(cols))
	}

	z := p.doc.Intercept
	for i, col := range cols {
		if col.Name != p.doc.Columns[i] {
			return 0, fmt.Errorf("%w: column %d is %q, expected %q", ErrArtifactIncompatible, i, col.Name, p.doc.Columns[i])
		}
		switch col.Kind {
		case models.Numeric:
			scaler, ok := p.doc.Numeric[col.Name]
			if !ok {
				return 0, fmt.Errorf("%w: %q is categorical in the pipeline", ErrArtifactIncompatible, col.Name)
			}
			x := col.Number - scaler.Mean
			if scaler.Scale != 0 {
				x /= scaler.Scale
			}
			z += p.doc.Weights[col.Name] * x
		case models.Categorical:
			labels, ok := p.doc.Categories[col.Name]
			if !ok {
				return 0, fmt.Errorf("%w: %q is numeric in the pipeline", ErrArtifactIncompatible, col.Name)
			}
			if !slices.Contains(labels, col.Label) {
				return 0, fmt.Errorf("%w: unknown category %q for %q", ErrArtifactIncompatible, col.Label, col.Name)
			}
			z += p.doc.Weights[col.Name+"="+col.Label]
		}
	}
	return 1 / (1 + math.Exp(-z)), nil
}

// incompatibleClassifier stands in for an artifact that loaded but cannot be used.
type incompatibleClassifier struct {
	err error
}

func (c incompatibleClassifier) Predict(models.FeatureVector) (int, error) { return 0, c.err }

func (c incompatibleClassifier) PredictProba(models.FeatureVector) (float64, error) {
	return 0, c.err
}

// ArtifactDiagnostics describes the last load attempt.
type ArtifactDiagnostics struct {
	Path           string    `json:"path"`
	Loaded         bool      `json:"loaded"`
	Usable         bool      `json:"usable"`
	SizeBytes      int64     `json:"size_bytes"`
	RuntimeVersion string    `json:"runtime_version,omitempty"`
	ExpectedMajor  string    `json:"expected_major"`
	Columns        int       `json:"columns,omitempty"`
	LoadedAt       time.Time `json:"loaded_at,omitempty"`
	Error          string    `json:"error,omitempty"`
}

type artifactState struct {
	classifier  Classifier
	diagnostics ArtifactDiagnostics
}

// ArtifactLoader loads the classifier once, on first use, and hands out the same read-only handle.
type ArtifactLoader struct {
	path           string
	runtimeVersion string
	logger         *zap.Logger

	mu    sync.Mutex
	state atomic.Pointer[artifactState]
}

// NewArtifactLoader does not touch the file system; call Classifier or Reload to load.
func NewArtifactLoader(path, runtimeVersion string, logger *zap.Logger) *ArtifactLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArtifactLoader{path: path, runtimeVersion: runtimeVersion, logger: logger}
}

// Classifier returns the loaded handle, or nil when the artifact is unavailable.
// An artifact that loaded but is incompatible yields a handle whose calls fail.
func (l *ArtifactLoader) Classifier() Classifier {
	st := l.state.Load()
	if st == nil {
		l.mu.Lock()
		if st = l.state.Load(); st == nil {
			st = l.load()
			l.state.Store(st)
		}
		l.mu.Unlock()
	}
	return st.classifier
}

// Reload reads the artifact again and swaps the handle. Requests already holding the old
// handle keep using it.
func (l *ArtifactLoader) Reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.load()
	l.state.Store(st)
	if st.diagnostics.Error != "" {
		return errors.New(st.diagnostics.Error)
	}
	return nil
}

// Diagnostics reports the state of the artifact, loading it if nothing was attempted yet.
func (l *ArtifactLoader) Diagnostics() ArtifactDiagnostics {
	l.Classifier()
	return l.state.Load().diagnostics
}

func (l *ArtifactLoader) load() *artifactState {
	diag := ArtifactDiagnostics{Path: l.path, ExpectedMajor: majorVersion(l.runtimeVersion)}

	info, err := os.Stat(l.path)
	if err == nil {
		diag.SizeBytes = info.Size()
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s not found", ErrArtifactUnavailable, l.path)
		} else {
			err = fmt.Errorf("%w: %v", ErrArtifactUnavailable, err)
		}
		diag.Error = err.Error()
		l.logger.Error("classifier artifact not loaded", zap.String("path", l.path), zap.Error(err))
		return &artifactState{diagnostics: diag}
	}
	diag.Loaded = true
	diag.LoadedAt = time.Now()

	pipeline, err := ParsePipeline(data)
	if err != nil {
		diag.Error = err.Error()
		l.logger.Error("classifier artifact is corrupt", zap.String("path", l.path), zap.Error(err))
		return &artifactState{classifier: incompatibleClassifier{err: err}, diagnostics: diag}
	}
	diag.RuntimeVersion = pipeline.RuntimeVersion()
	diag.Columns = len(pipeline.doc.Columns)

	if got, want := majorVersion(pipeline.RuntimeVersion()), majorVersion(l.runtimeVersion); got != want {
		err := fmt.Errorf("%w: serialized with runtime %s, running %s", ErrArtifactIncompatible, pipeline.RuntimeVersion(), l.runtimeVersion)
		diag.Error = err.Error()
		l.logger.Warn("classifier artifact version skew", zap.String("artifact", pipeline.RuntimeVersion()), zap.String("runtime", l.runtimeVersion))
		return &artifactState{classifier: incompatibleClassifier{err: err}, diagnostics: diag}
	}

	diag.Usable = true
	l.logger.Info("classifier artifact loaded",
		zap.String("path", l.path),
		zap.Int64("size_bytes", diag.SizeBytes),
		zap.String("runtime_version", diag.RuntimeVersion),
	)
	return &artifactState{classifier: pipeline, diagnostics: diag}
}

func majorVersion(v string) string {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	major, _, _ := strings.Cut(v, ".")
	return major
}
