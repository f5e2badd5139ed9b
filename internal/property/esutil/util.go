// File: internal/property/esutil/util.go
package esutil

import (
	"encoding/json"
	"errors"
	"fmt"

	"estatehub_backend/internal/property"
)

// PropertyToElasticsearchDoc converts a property.Property to its
// Elasticsearch document representation.
func PropertyToElasticsearchDoc(p *property.Property) (string, error) {
	if p == nil {
		return "", errors.New("property cannot be nil")
	}

	doc := map[string]interface{}{
		"title":             p.Title,
		"description":       p.Description,
		"location":          p.Location,
		"type":              p.Type,
		"assignment_status": string(p.AssignmentStatus),
		"price":             p.Price,
		"bedrooms":          p.Bedrooms,
		"bathrooms":         p.Bathrooms,
		"size":              p.Size,
		"year_built":        p.YearBuilt,
		"amenities":         []string(p.Amenities),
		"show_on_homepage":  p.ShowOnHomepage,
		"created_at":        p.CreatedAt,
		"updated_at":        p.UpdatedAt,
	}

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("error marshalling property to JSON for ES: %w", err)
	}
	return string(docBytes), nil
}
