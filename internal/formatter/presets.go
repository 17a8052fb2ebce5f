package formatter

import "fmt"

// Preset is a named template for the status-line option.
type Preset struct {
	Name        string
	Template    string
	Description string
}

// PresetRegistry manages the status-line template presets.
type PresetRegistry interface {
	// Get returns a preset by name.
	Get(name string) (*Preset, error)

	// List returns all available presets.
	List() []Preset

	// Register adds a new preset or overwrites an existing one.
	Register(preset Preset) error
}

// presetRegistry implements PresetRegistry.
type presetRegistry struct {
	presets map[string]Preset
	order   []string
}

// NewPresetRegistry creates a preset registry with the default presets.
func NewPresetRegistry() PresetRegistry {
	registry := &presetRegistry{
		presets: make(map[string]Preset),
	}
	registry.registerDefaults()
	return registry
}

func (pr *presetRegistry) registerDefaults() {
	presets := []Preset{
		{
			Name:        "count-only",
			Template:    "{{unread-count}}",
			Description: "Total unread count as a bare number",
		},
		{
			Name:        "compact",
			Template:    "{{unread-list}}",
			Description: "name:count pairs for conversations with unread messages",
		},
		{
			Name:        "detailed",
			Template:    "{{unread-count}} unread in {{conversation-count}}",
			Description: "Total unread count with the number of conversations",
		},
		{
			Name:        "top",
			Template:    "{{top-name}}:{{top-count}}",
			Description: "Busiest conversation only",
		},
	}

	for _, preset := range presets {
		pr.presets[preset.Name] = preset
		pr.order = append(pr.order, preset.Name)
	}
}

// Get returns a preset by name, or an error when it does not exist.
func (pr *presetRegistry) Get(name string) (*Preset, error) {
	preset, ok := pr.presets[name]
	if !ok {
		return nil, fmt.Errorf("preset not found: %s", name)
	}
	return &preset, nil
}

// List returns all presets in registration order.
func (pr *presetRegistry) List() []Preset {
	result := make([]Preset, 0, len(pr.order))
	for _, name := range pr.order {
		if preset, ok := pr.presets[name]; ok {
			result = append(result, preset)
		}
	}
	return result
}

// Register adds a new preset or overwrites an existing one.
func (pr *presetRegistry) Register(preset Preset) error {
	if preset.Name == "" {
		return fmt.Errorf("preset name cannot be empty")
	}
	if preset.Template == "" {
		return fmt.Errorf("preset template cannot be empty")
	}

	if _, exists := pr.presets[preset.Name]; !exists {
		pr.order = append(pr.order, preset.Name)
	}
	pr.presets[preset.Name] = preset
	return nil
}

// ResolveTemplate maps a configuration value to a template: a preset
// name resolves to its template, anything else is already a template.
func ResolveTemplate(value string) string {
	registry := NewPresetRegistry()
	if preset, err := registry.Get(value); err == nil {
		return preset.Template
	}
	return value
}
