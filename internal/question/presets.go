package question

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

var presetRequired = mustLoadPresets()

func mustLoadPresets() map[string][]string {
	presets := make(map[string][]string)
	if err := yaml.Unmarshal(presetsYAML, &presets); err != nil {
		panic(fmt.Sprintf("presets.yaml is invalid: %v", err))
	}
	return presets
}

// PresetRequiredHeaders returns the required canonical headers for a
// question-type preset. Unknown presets (including the empty string)
// yield an empty set, which makes validation permissive by default.
func PresetRequiredHeaders(preset string) []string {
	required, ok := presetRequired[preset]
	if !ok {
		return nil
	}
	out := make([]string, len(required))
	copy(out, required)
	return out
}

// Presets lists the known question-type presets in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presetRequired))
	for name := range presetRequired {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
