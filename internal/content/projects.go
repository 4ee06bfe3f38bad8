package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Project is one portfolio entry from projects.yaml.
type Project struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	URL         string   `yaml:"url"`
	Repo        string   `yaml:"repo"`
	Tags        []string `yaml:"tags"`
	Year        int      `yaml:"year"`
}

// LoadProjects reads the projects list. A missing file just means an
// empty projects page.
func LoadProjects(path string) ([]Project, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read projects: %w", err)
	}

	var projects []Project
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&projects); err != nil {
		return nil, fmt.Errorf("parse projects: %w", err)
	}

	// Newest work first, names as tie-break.
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].Year == projects[j].Year {
			return projects[i].Name < projects[j].Name
		}
		return projects[i].Year > projects[j].Year
	})
	return projects, nil
}
