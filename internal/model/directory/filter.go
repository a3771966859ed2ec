package directory

import "strings"

// FilterTools keeps tools whose name or description contains query,
// ignoring case. Categories left without tools are dropped. A blank query
// returns every category.
func FilterTools(categories []ToolCategory, query string) []ToolCategory {
	needle := strings.ToLower(strings.TrimSpace(query))

	filtered := make([]ToolCategory, 0, len(categories))
	for _, category := range categories {
		tools := make([]Tool, 0, len(category.Tools))
		for _, tool := range category.Tools {
			if needle == "" ||
				strings.Contains(strings.ToLower(tool.Name), needle) ||
				strings.Contains(strings.ToLower(tool.Description), needle) {
				tools = append(tools, tool)
			}
		}
		if len(tools) == 0 {
			continue
		}
		filtered = append(filtered, ToolCategory{Title: category.Title, Tools: tools})
	}
	return filtered
}

// FeaturedPlaces returns the places flagged for the Explore page.
func FeaturedPlaces(places []Place) []Place {
	featured := make([]Place, 0, len(places))
	for _, place := range places {
		if place.Featured {
			featured = append(featured, place)
		}
	}
	return featured
}
