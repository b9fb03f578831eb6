package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/maheshrc27/beampage/internal/models"
)

// LoadPages reads the page definitions file and validates every entry.
// Any invalid page is a configuration error and aborts before the first
// network call.
func LoadPages(path string) ([]models.PageConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pages file %s: %w", path, err)
	}

	var pages []models.PageConfig
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("failed to parse pages file %s: %w", path, err)
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("pages file %s defines no pages", path)
	}

	seen := make(map[string]struct{}, len(pages))
	for i := range pages {
		if err := pages[i].Validate(); err != nil {
			return nil, fmt.Errorf("page %q: %w", pages[i].Name, err)
		}
		if _, ok := seen[pages[i].Name]; ok {
			return nil, fmt.Errorf("duplicate page name %q", pages[i].Name)
		}
		seen[pages[i].Name] = struct{}{}
	}

	return pages, nil
}
