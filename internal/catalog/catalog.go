// Package catalog loads the static directory and navigation data bundled
// with the binary.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gtanav/assistant/backend/internal/model/directory"
	"github.com/gtanav/assistant/backend/internal/model/navigation"
)

//go:embed catalog.yaml
var embedded []byte

// Catalog is the full set of hand-authored records.
type Catalog struct {
	Weather         directory.Weather           `yaml:"weather"`
	PlaceCategories []directory.PlaceCategory   `yaml:"placeCategories"`
	Places          []directory.Place           `yaml:"places"`
	ToolCategories  []directory.ToolCategory    `yaml:"toolCategories"`
	QuickServices   []directory.QuickService    `yaml:"quickServices"`
	Routes          []navigation.RouteOption    `yaml:"routes"`
	Steps           []navigation.NavigationStep `yaml:"steps"`
	Toll            navigation.TollComparison   `yaml:"toll"`
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(embedded)
}

// Parse decodes a catalog document and checks the fields other packages
// rely on.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Routes) == 0 {
		return fmt.Errorf("catalog has no routes")
	}
	if len(c.Steps) == 0 {
		return fmt.Errorf("catalog has no navigation steps")
	}

	seen := make(map[string]struct{}, len(c.Routes))
	for _, route := range c.Routes {
		if route.ID == "" {
			return fmt.Errorf("route %q has no id", route.Name)
		}
		if _, dup := seen[route.ID]; dup {
			return fmt.Errorf("duplicate route id %q", route.ID)
		}
		seen[route.ID] = struct{}{}
	}

	for _, place := range c.Places {
		if strings.TrimSpace(place.Name) == "" {
			return fmt.Errorf("place %d has no name", place.ID)
		}
	}
	return nil
}

// Route looks up a route option by id.
func (c *Catalog) Route(id string) (navigation.RouteOption, bool) {
	for _, route := range c.Routes {
		if route.ID == id {
			return route, true
		}
	}
	return navigation.RouteOption{}, false
}

// RecommendedRoute returns the route flagged as recommended, or the first one.
func (c *Catalog) RecommendedRoute() navigation.RouteOption {
	for _, route := range c.Routes {
		if route.Recommended {
			return route
		}
	}
	return c.Routes[0]
}
