package config

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/danmuck/fieldmux/internal/lookup"
	"github.com/danmuck/fieldmux/internal/msg"
)

// Actions maps an action name to the callback that implements it.
type Actions[A any] map[string]msg.Callback[A]

// BuildDefinition converts the field list into a message definition.
func BuildDefinition(cfg TableConfig) (*msg.Definition, error) {
	fields := make([]msg.Field, 0, len(cfg.Fields))
	for _, f := range cfg.Fields {
		fields = append(fields, msg.NewField(strings.TrimSpace(f.Name), f.DW, f.MSB, f.LSB))
	}
	return msg.NewDefinition(cfg.Name, fields...)
}

// BuildHandler converts a validated table into a definition and an indexed
// handler whose slot i runs the action of cfg.Callbacks[i].
func BuildHandler[A any](cfg TableConfig, actions Actions[A]) (*msg.Definition, *msg.IndexedHandler[A], error) {
	if err := ValidateTable(cfg); err != nil {
		return nil, nil, err
	}
	def, err := BuildDefinition(cfg)
	if err != nil {
		return nil, nil, err
	}

	slots := make(map[string]uint, len(cfg.Callbacks))
	callbacks := make([]msg.Callback[A], 0, len(cfg.Callbacks))
	for i, cb := range cfg.Callbacks {
		action, ok := actions[strings.TrimSpace(cb.Action)]
		if !ok || action == nil {
			return nil, nil, fmt.Errorf("%w: callbacks[%d] unknown action %q", ErrInvalidTable, i, cb.Action)
		}
		slots[strings.TrimSpace(cb.Name)] = uint(i)
		callbacks = append(callbacks, action)
	}

	indices := make([]msg.Index, 0, len(cfg.Indices))
	for _, ix := range cfg.Indices {
		field, _ := def.Field(strings.TrimSpace(ix.Field))
		in := lookup.Input[uint32, *bitset.BitSet]{Default: slotSet(slots, ix.Default)}
		for _, e := range ix.Entries {
			in.Entries = append(in.Entries, lookup.E(e.Key, slotSet(slots, e.Callbacks)))
		}
		indices = append(indices, msg.BuildIndex(field, in))
	}

	h, err := msg.NewIndexedHandler(indices, callbacks)
	if err != nil {
		return nil, nil, err
	}
	return def, h, nil
}

func slotSet(slots map[string]uint, names []string) *bitset.BitSet {
	set := new(bitset.BitSet)
	for _, name := range names {
		set.Set(slots[strings.TrimSpace(name)])
	}
	return set
}
