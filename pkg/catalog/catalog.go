package catalog

import (
	"fmt"

	"github.com/aretw0/rehearse/pkg/domain"
)

// Catalog is an ordered, validated set of scenarios.
type Catalog struct {
	scenarios []domain.Scenario
	byID      map[string]int
}

// New builds a catalog, validating every scenario. Later duplicates of an id replace earlier ones.
func New(scenarios ...domain.Scenario) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int, len(scenarios))}
	for _, s := range scenarios {
		if err := c.Add(s); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Default returns the catalog of embedded scenarios.
func Default() *Catalog {
	c, err := New(Builtin()...)
	if err != nil {
		panic(err)
	}
	return c
}

// Add validates and inserts a scenario.
func (c *Catalog) Add(s domain.Scenario) error {
	if err := Validate(&s); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidScenario, err)
	}
	if i, ok := c.byID[s.ID]; ok {
		c.scenarios[i] = s
		return nil
	}
	c.byID[s.ID] = len(c.scenarios)
	c.scenarios = append(c.scenarios, s)
	return nil
}

// Get returns the scenario with the given id.
func (c *Catalog) Get(id string) (*domain.Scenario, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrScenarioNotFound, id)
	}
	s := c.scenarios[i]
	return &s, nil
}

// List returns the scenarios in catalog order.
func (c *Catalog) List() []domain.Scenario {
	return append([]domain.Scenario(nil), c.scenarios...)
}

// Len returns the number of scenarios.
func (c *Catalog) Len() int {
	return len(c.scenarios)
}
