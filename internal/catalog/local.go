package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sparkle-learn/platform/internal/format"
)

//go:embed programs.yaml
var bundledPrograms []byte

// LoadLocalPrograms returns the hand-curated programs. When path is empty the bundled list is used.
// Entries without an id get one slugified from their name.
func LoadLocalPrograms(path string) ([]Program, error) {
	data := bundledPrograms
	source := "bundled programs"
	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: read local programs: %w", err)
		}
		data = raw
		source = path
	}
	programs, err := parseLocalPrograms(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", source, err)
	}
	return programs, nil
}

func parseLocalPrograms(data []byte) ([]Program, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var programs []Program
	if err := dec.Decode(&programs); err != nil {
		if errors.Is(err, io.EOF) {
			return []Program{}, nil
		}
		return nil, err
	}

	seen := make(map[string]struct{}, len(programs))
	for i := range programs {
		id := strings.TrimSpace(programs[i].ID)
		if id == "" {
			id = format.Slugify(programs[i].Name)
		}
		if id == "" {
			return nil, fmt.Errorf("program %d: id or name is required", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("program %q: duplicate id", id)
		}
		seen[id] = struct{}{}
		programs[i].ID = id
		programs[i] = programs[i].normalized()
	}
	if programs == nil {
		programs = []Program{}
	}
	return programs, nil
}
