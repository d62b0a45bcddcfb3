package segmentation

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// yamlCatalog is the YAML structure for algorithm catalog files.
type yamlCatalog struct {
	Algorithms []yamlAlgorithm `yaml:"algorithms"`
}

type yamlAlgorithm struct {
	Type   string      `yaml:"type"`
	Label  string      `yaml:"label"`
	Params []yamlParam `yaml:"params"`
}

type yamlParam struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	Min   int    `yaml:"min"`
	Max   int    `yaml:"max"`
	Step  int    `yaml:"step"`
}

// Loader loads algorithm catalogs into a Registry.
type Loader struct {
	registry *Registry
}

// NewLoader creates a new loader that populates the given registry.
func NewLoader(registry *Registry) *Loader {
	return &Loader{registry: registry}
}

// LoadFromFS loads every YAML file in the "algorithms" directory of fsys.
// Files are read in name order so the catalog order is stable.
func (l *Loader) LoadFromFS(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, "algorithms")
	if err != nil {
		return fmt.Errorf("failed to read algorithms directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		if err := l.loadFile(fsys, "algorithms/"+name); err != nil {
			return err
		}
	}
	return nil
}

// LoadBytes parses a single catalog document.
func (l *Loader) LoadBytes(data []byte) error {
	var cat yamlCatalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}

	for i := range cat.Algorithms {
		alg, err := convertYAMLAlgorithm(&cat.Algorithms[i])
		if err != nil {
			return err
		}
		l.registry.Register(alg)
	}
	return nil
}

func (l *Loader) loadFile(fsys fs.FS, path string) error {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	if err := l.LoadBytes(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func convertYAMLAlgorithm(ya *yamlAlgorithm) (*Algorithm, error) {
	if ya.Type == "" {
		return nil, fmt.Errorf("algorithm %q has no type", ya.Label)
	}

	alg := &Algorithm{
		Type:   AlgorithmType(ya.Type),
		Label:  ya.Label,
		Params: make([]ParamSpec, len(ya.Params)),
	}
	if alg.Label == "" {
		alg.Label = ya.Type
	}

	defaults := DefaultParams()
	for i, yp := range ya.Params {
		name := ParamName(yp.Name)
		if _, ok := defaults.Get(name); !ok {
			return nil, fmt.Errorf("algorithm %s: %w: %s", ya.Type, ErrUnknownParam, yp.Name)
		}
		if yp.Min > yp.Max {
			return nil, fmt.Errorf("algorithm %s: param %s has min %d > max %d", ya.Type, yp.Name, yp.Min, yp.Max)
		}
		step := yp.Step
		if step <= 0 {
			step = 1
		}
		alg.Params[i] = ParamSpec{
			Name:  name,
			Label: yp.Label,
			Min:   yp.Min,
			Max:   yp.Max,
			Step:  step,
		}
	}
	return alg, nil
}
