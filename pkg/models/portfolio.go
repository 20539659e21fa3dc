package models

// ProjectStatus values used in the gallery.
const (
	ProjectStatusActive     = "Active"
	ProjectStatusComingSoon = "Coming Soon"
)

// Profile is the biographical content of the home page.
type Profile struct {
	Name       string `json:"name" yaml:"name"`
	Greeting   string `json:"greeting" yaml:"greeting"`
	Headline   string `json:"headline" yaml:"headline"`
	Highlight  string `json:"highlight" yaml:"highlight"` // part of the headline rendered in accent colour
	Bio        string `json:"bio" yaml:"bio"`
	ImagePath  string `json:"image_path" yaml:"image_path"`
	HasImage   bool   `json:"has_image" yaml:"-"`
	FooterNote string `json:"footer_note" yaml:"footer_note"`
}

// Project is one card of the gallery.
type Project struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Category    string     `json:"category" yaml:"category"`
	Description string     `json:"description" yaml:"description"`
	Status      string     `json:"status" yaml:"status"`
	Icon        string     `json:"icon" yaml:"icon"`
	CaseStudy   *CaseStudy `json:"case_study,omitempty" yaml:"case_study,omitempty"`
}

// IsActive reports whether the project page can be opened.
func (p Project) IsActive() bool {
	return p.Status == ProjectStatusActive
}

// CaseStudy holds the static tabs of an active project.
type CaseStudy struct {
	Summary           []Metric            `json:"summary" yaml:"summary"`
	FeatureImportance []FeatureImportance `json:"feature_importance" yaml:"feature_importance"`
	ModelName         string              `json:"model_name" yaml:"model_name"`
	Performance       []Metric            `json:"performance" yaml:"performance"`
}

// Metric is a labelled headline number.
type Metric struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// FeatureImportance is one bar of the EDA chart.
type FeatureImportance struct {
	Feature    string  `json:"feature" yaml:"feature"`
	Importance float64 `json:"importance" yaml:"importance"`
}
