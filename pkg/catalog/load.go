package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/aretw0/rehearse/internal/dto"
	"github.com/aretw0/rehearse/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:embed scenarios/*.yaml
var builtin embed.FS

// builtinOrder is the presentation order of the embedded scenarios.
var builtinOrder = []string{"behavioral", "technical", "culture", "situational"}

// Decode parses one scenario document. YAML and JSON share the same path:
// the document is decoded into a generic map and then mapped onto the file DTO.
func Decode(name string, data []byte) (domain.Scenario, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.Scenario{}, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if raw == nil {
		return domain.Scenario{}, fmt.Errorf("%s: empty document", name)
	}

	var file dto.ScenarioFile
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &file,
		ErrorUnused: true,
	})
	if err != nil {
		return domain.Scenario{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return domain.Scenario{}, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	scenario, duplicates := file.ToDomain()

	var issues []Issue
	for _, id := range duplicates {
		issues = append(issues, Issue{Scenario: scenario.ID, Node: id, Reason: "duplicate node id"})
	}
	for i, band := range file.DynamicFeedback {
		if len(band.Range) != 2 {
			issues = append(issues, Issue{Scenario: scenario.ID, Reason: fmt.Sprintf("feedback band %d range must have two bounds, got %d", i, len(band.Range))})
		}
	}
	if err := Validate(&scenario); err != nil {
		issues = append(issues, Issues(err)...)
	}
	if len(issues) > 0 {
		return domain.Scenario{}, fmt.Errorf("%w: %s: %w", domain.ErrInvalidScenario, name, &ValidationError{Issues: issues})
	}

	return scenario, nil
}

// Load reads every *.yaml, *.yml and *.json file directly under dir in fsys.
// Files are read in lexical order.
func Load(fsys fs.FS, dir string) ([]domain.Scenario, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isScenarioFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	scenarios := make([]domain.Scenario, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		s, err := Decode(name, data)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// LoadDir reads scenarios from a directory on disk.
func LoadDir(dir string) ([]domain.Scenario, error) {
	return Load(os.DirFS(dir), ".")
}

// Builtin returns the embedded scenarios in presentation order.
func Builtin() []domain.Scenario {
	scenarios, err := Load(builtin, "scenarios")
	if err != nil {
		// Embedded content is covered by tests.
		panic(fmt.Sprintf("catalog: embedded scenarios are invalid: %v", err))
	}

	rank := make(map[string]int, len(builtinOrder))
	for i, id := range builtinOrder {
		rank[id] = i
	}
	sort.SliceStable(scenarios, func(i, j int) bool {
		ri, iok := rank[scenarios[i].ID]
		rj, jok := rank[scenarios[j].ID]
		if iok != jok {
			return iok
		}
		return ri < rj
	})
	return scenarios
}

func isScenarioFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
