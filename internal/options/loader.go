package options

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Load reads zen target overrides from a TOML file and applies them to the
// registry. A missing file is not an error; the built-in targets stand.
//
// File shape:
//
//	[zen]
//	laststatus = 0
//	signcolumn = "no"
func Load(path string, reg *Registry) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading options file %s: %w", path, err)
	}
	return apply(path, data, reg)
}

// apply parses TOML data and installs the [zen] table as target overrides.
func apply(path string, data []byte, reg *Registry) error {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing options file %s: %w", path, err)
	}

	zen, ok := raw["zen"].(map[string]any)
	if !ok {
		return nil
	}

	for name, value := range zen {
		s := reg.Get(name)
		if s == nil {
			return fmt.Errorf("options file %s: unknown setting %q", path, name)
		}
		if err := reg.SetTarget(name, normalize(s.Type, value)); err != nil {
			return fmt.Errorf("options file %s: %w", path, err)
		}
	}
	return nil
}

// normalize converts TOML decode types to the registry's canonical types.
func normalize(t Type, value any) any {
	if t != TypeInt {
		return value
	}
	switch v := value.(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return value
	}
}
