package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

var ErrInvalidTable = errors.New("config: invalid table")

// TableConfig declares one message definition and the indexed handler that
// dispatches it. Callback order is slot order.
type TableConfig struct {
	Name      string           `toml:"name"`
	Fields    []FieldConfig    `toml:"fields"`
	Callbacks []CallbackConfig `toml:"callbacks"`
	Indices   []IndexConfig    `toml:"indices"`
}

type FieldConfig struct {
	Name string `toml:"name"`
	DW   uint   `toml:"dw"`
	MSB  uint   `toml:"msb"`
	LSB  uint   `toml:"lsb"`
}

// CallbackConfig names one slot and the action it runs.
type CallbackConfig struct {
	Name   string `toml:"name"`
	Action string `toml:"action"`
}

type IndexConfig struct {
	Field   string        `toml:"field"`
	Default []string      `toml:"default"`
	Entries []EntryConfig `toml:"entries"`
}

type EntryConfig struct {
	Key       uint32   `toml:"key"`
	Callbacks []string `toml:"callbacks"`
}

func LoadTable(path string) (TableConfig, error) {
	var cfg TableConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return TableConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return TableConfig{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}
	if !meta.IsDefined("name") {
		cfg.Name = "message"
	}
	if err := ValidateTable(cfg); err != nil {
		return TableConfig{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// DecodeTable parses a table from TOML text.
func DecodeTable(data string) (TableConfig, error) {
	var cfg TableConfig
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return TableConfig{}, fmt.Errorf("config parse failed: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return TableConfig{}, fmt.Errorf("config parse failed: unknown key %q", undecoded[0].String())
	}
	if !meta.IsDefined("name") {
		cfg.Name = "message"
	}
	if err := ValidateTable(cfg); err != nil {
		return TableConfig{}, err
	}
	return cfg, nil
}

// ValidateTable checks names and references. Bit locations are checked when
// the definition is built.
func ValidateTable(cfg TableConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidTable)
	}
	fields := make(map[string]struct{}, len(cfg.Fields))
	for i, f := range cfg.Fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return fmt.Errorf("%w: fields[%d] missing name", ErrInvalidTable, i)
		}
		if _, ok := fields[name]; ok {
			return fmt.Errorf("%w: fields[%d] duplicate name %q", ErrInvalidTable, i, name)
		}
		fields[name] = struct{}{}
	}

	callbacks := make(map[string]struct{}, len(cfg.Callbacks))
	for i, cb := range cfg.Callbacks {
		name := strings.TrimSpace(cb.Name)
		if name == "" {
			return fmt.Errorf("%w: callbacks[%d] missing name", ErrInvalidTable, i)
		}
		if strings.TrimSpace(cb.Action) == "" {
			return fmt.Errorf("%w: callbacks[%d] missing action", ErrInvalidTable, i)
		}
		if _, ok := callbacks[name]; ok {
			return fmt.Errorf("%w: callbacks[%d] duplicate name %q", ErrInvalidTable, i, name)
		}
		callbacks[name] = struct{}{}
	}

	for i, ix := range cfg.Indices {
		if _, ok := fields[strings.TrimSpace(ix.Field)]; !ok {
			return fmt.Errorf("%w: indices[%d] unknown field %q", ErrInvalidTable, i, ix.Field)
		}
		if err := checkRefs(callbacks, ix.Default); err != nil {
			return fmt.Errorf("%w: indices[%d].default: %v", ErrInvalidTable, i, err)
		}
		for j, e := range ix.Entries {
			if err := checkRefs(callbacks, e.Callbacks); err != nil {
				return fmt.Errorf("%w: indices[%d].entries[%d]: %v", ErrInvalidTable, i, j, err)
			}
		}
	}
	return nil
}

func checkRefs(known map[string]struct{}, refs []string) error {
	for _, ref := range refs {
		if _, ok := known[strings.TrimSpace(ref)]; !ok {
			return fmt.Errorf("unknown callback %q", ref)
		}
	}
	return nil
}
