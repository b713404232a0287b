package services

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"axora/internal/data/embedded"
	"axora/pkg/axoratypes"
)

// projectCatalogFile is the embedded YAML document layout.
type projectCatalogFile struct {
	Projects []axoratypes.Project `yaml:"projects"`
}

// ProjectCatalogService loads the embedded project registry. Projects carry
// layered contextual memory; sessions reference them by ID and callers
// degrade to "no project" on a dangling reference.
type ProjectCatalogService struct {
	initialized bool
	projects    []axoratypes.Project
	byID        map[string]axoratypes.Project
}

// NewProjectCatalogService creates a new project catalog service instance.
func NewProjectCatalogService() *ProjectCatalogService {
	return &ProjectCatalogService{
		initialized: false,
	}
}

// Name returns the service name for identification.
func (p *ProjectCatalogService) Name() string {
	return "project_catalog"
}

// Initialize loads and parses the embedded project catalog data.
func (p *ProjectCatalogService) Initialize() error {
	if p.initialized {
		return nil
	}

	var file projectCatalogFile
	if err := yaml.Unmarshal(embedded.ProjectCatalogData, &file); err != nil {
		return fmt.Errorf("failed to parse project catalog: %w", err)
	}

	byID := make(map[string]axoratypes.Project, len(file.Projects))
	for _, project := range file.Projects {
		if project.ID == "" {
			return fmt.Errorf("project '%s' has empty ID field", project.Name)
		}
		normalized := strings.ToUpper(project.ID)
		if existing, exists := byID[normalized]; exists {
			return fmt.Errorf("duplicate project ID found: '%s' and '%s' (case insensitive)", existing.ID, project.ID)
		}
		byID[normalized] = project
	}

	p.projects = file.Projects
	p.byID = byID
	p.initialized = true

	return nil
}

// List returns all projects in catalog order.
func (p *ProjectCatalogService) List() ([]axoratypes.Project, error) {
	if !p.initialized {
		return nil, fmt.Errorf("project catalog service not initialized")
	}
	return p.projects, nil
}

// Get returns a project by its ID (case-insensitive lookup).
func (p *ProjectCatalogService) Get(id string) (axoratypes.Project, error) {
	if !p.initialized {
		return axoratypes.Project{}, fmt.Errorf("project catalog service not initialized")
	}

	project, ok := p.byID[strings.ToUpper(id)]
	if !ok {
		return axoratypes.Project{}, fmt.Errorf("project with ID '%s' not found in catalog", id)
	}
	return project, nil
}
