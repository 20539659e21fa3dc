package services

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ibnu-portfolio/pkg/models"

	"gopkg.in/yaml.v3"
)

//go:embed content/portfolio.yaml
var defaultPortfolioContent []byte

var (
	// ErrProjectNotFound is returned for an unknown project id.
	ErrProjectNotFound = errors.New("project not found")
	// ErrProjectNotActive is returned for gallery cards that cannot be opened yet.
	ErrProjectNotActive = errors.New("project not active")
)

type portfolioContent struct {
	Profile  models.Profile   `yaml:"profile"`
	Projects []models.Project `yaml:"projects"`
}

// PortfolioService serves the static biography and project gallery.
type PortfolioService struct {
	content portfolioContent
}

// NewPortfolioService parses the embedded content, or the YAML file at path when given.
// assetsDir is checked for the profile picture.
func NewPortfolioService(path, assetsDir string) (*PortfolioService, error) {
	data := defaultPortfolioContent
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read portfolio content: %w", err)
		}
	}

	var content portfolioContent
	if err := yaml.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("parse portfolio content: %w", err)
	}

	seen := make(map[string]bool, len(content.Projects))
	for _, p := range content.Projects {
		if p.ID == "" {
			return nil, fmt.Errorf("project %q has no id", p.Title)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate project id %q", p.ID)
		}
		seen[p.ID] = true
	}

	if content.Profile.ImagePath != "" {
		imagePath := content.Profile.ImagePath
		if assetsDir != "" {
			imagePath = filepath.Join(assetsDir, imagePath)
		}
		if _, err := os.Stat(imagePath); err == nil {
			content.Profile.HasImage = true
		}
	}

	return &PortfolioService{content: content}, nil
}

// Profile returns the home page content.
func (s *PortfolioService) Profile() models.Profile {
	return s.content.Profile
}

// Projects returns the gallery in display order.
func (s *PortfolioService) Projects() []models.Project {
	out := make([]models.Project, len(s.content.Projects))
	copy(out, s.content.Projects)
	return out
}

// Project returns an openable project. Coming-soon cards yield ErrProjectNotActive with the card.
func (s *PortfolioService) Project(id string) (models.Project, error) {
	for _, p := range s.content.Projects {
		if p.ID != id {
			continue
		}
		if !p.IsActive() {
			return p, ErrProjectNotActive
		}
		return p, nil
	}
	return models.Project{}, ErrProjectNotFound
}
