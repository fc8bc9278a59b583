package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/conneroisu/weaver/internal/compose"
	"gopkg.in/yaml.v3"
)

// ViewDefinitionFile is the file name looked for in each scanned
// component directory.
const ViewDefinitionFile = "view.yaml"

// viewFile is the on-disk shape of a component's view definitions.
type viewFile struct {
	Component string                   `yaml:"component"`
	Params    compose.ParamSchema      `yaml:"params"`
	Views     map[string]viewFileEntry `yaml:"views"`
}

type viewFileEntry struct {
	Template   string              `yaml:"template"`
	Technology string              `yaml:"technology"`
	CacheTTLMs int                 `yaml:"cache_ttl_ms"`
	Blueprint  bool                `yaml:"blueprint"`
	Params     compose.ParamSchema `yaml:"params"`
}

// LoadComponents scans the configured paths for view definition files
// and builds the declared components. Factories are attached in code
// after loading; definition files carry only declarative settings.
func LoadComponents(scanPaths []string) ([]*compose.Component, error) {
	var components []*compose.Component

	for _, root := range scanPaths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || d.Name() != ViewDefinitionFile {
				return nil
			}
			component, err := loadComponentFile(path)
			if err != nil {
				return fmt.Errorf("loading %s: %w", path, err)
			}
			components = append(components, component)
			return nil
		})
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
	}

	return components, nil
}

func loadComponentFile(path string) (*compose.Component, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file viewFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if file.Component == "" {
		return nil, fmt.Errorf("missing component name")
	}
	if len(file.Views) == 0 {
		return nil, fmt.Errorf("component %q declares no views", file.Component)
	}

	component := &compose.Component{
		Path:  file.Component,
		Views: make(map[string]*compose.View, len(file.Views)),
		Config: compose.ScopeConfig{
			Params: file.Params,
		},
	}

	dir := filepath.Dir(path)
	for name, entry := range file.Views {
		view, err := buildView(file.Component, name, entry, dir)
		if err != nil {
			return nil, err
		}
		component.Views[name] = view
	}
	return component, nil
}

func buildView(componentPath, name string, entry viewFileEntry, dir string) (*compose.View, error) {
	if entry.Template == "" {
		return nil, fmt.Errorf("view %q has no template", name)
	}

	technology := entry.Technology
	if technology == "" {
		technology = "html"
	}

	view := &compose.View{
		Component:  componentPath,
		Name:       name,
		Technology: technology,
		Params:     entry.Params,
		CacheTTL:   time.Duration(entry.CacheTTLMs) * time.Millisecond,
		Blueprint:  entry.Blueprint,
	}

	// For file-based technologies the template field is a path
	// relative to the definition file; for component-based engines it
	// is a registered component name.
	templatePath := filepath.Join(dir, entry.Template)
	if source, err := os.ReadFile(templatePath); err == nil {
		view.Template = string(source)
		view.TemplatePath = templatePath
	} else {
		view.Template = entry.Template
	}

	return view, nil
}
