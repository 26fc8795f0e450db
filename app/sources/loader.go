package sources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source is one calendar feed declared in the sources file.
type Source struct {
	URL                string `yaml:"url"`
	Title              string `yaml:"title"`
	IntelligentParsing bool   `yaml:"intelligent_parsing"`
	Color              string `yaml:"color"`
}

type file struct {
	Sources []Source `yaml:"sources"`
}

// Load reads the sources seed file. A missing file is not an error: feeds
// can also be registered through the API.
func Load(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var parsed file
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	for i, source := range parsed.Sources {
		if source.URL == "" {
			return nil, fmt.Errorf("source %d: url is required", i)
		}
	}

	return parsed.Sources, nil
}
