package formatter

import (
	"testing"
)

func TestNewPresetRegistry_DefaultPresets(t *testing.T) {
	registry := NewPresetRegistry()
	presets := registry.List()

	if len(presets) != 4 {
		t.Errorf("Expected 4 default presets, got %d", len(presets))
	}

	expectedNames := []string{"count-only", "compact", "detailed", "top"}
	for i, expected := range expectedNames {
		if i >= len(presets) {
			t.Errorf("Expected preset %s at index %d, but presets list is shorter", expected, i)
			continue
		}
		if presets[i].Name != expected {
			t.Errorf("Expected preset name %q at index %d, got %q", expected, i, presets[i].Name)
		}
	}
}

func TestPresetRegistry_Get(t *testing.T) {
	registry := NewPresetRegistry()

	tests := []struct {
		name          string
		presetName    string
		shouldExist   bool
		expectedTempl string
	}{
		{
			name:          "get count-only preset",
			presetName:    "count-only",
			shouldExist:   true,
			expectedTempl: "{{unread-count}}",
		},
		{
			name:          "get compact preset",
			presetName:    "compact",
			shouldExist:   true,
			expectedTempl: "{{unread-list}}",
		},
		{
			name:          "get detailed preset",
			presetName:    "detailed",
			shouldExist:   true,
			expectedTempl: "{{unread-count}} unread in {{conversation-count}}",
		},
		{
			name:          "get top preset",
			presetName:    "top",
			shouldExist:   true,
			expectedTempl: "{{top-name}}:{{top-count}}",
		},
		{
			name:        "get nonexistent preset",
			presetName:  "nonexistent",
			shouldExist: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preset, err := registry.Get(tt.presetName)
			if tt.shouldExist {
				if err != nil {
					t.Errorf("Expected to find preset %q, got error: %v", tt.presetName, err)
					return
				}
				if preset.Template != tt.expectedTempl {
					t.Errorf("Expected template %q, got %q", tt.expectedTempl, preset.Template)
				}
			} else {
				if err == nil {
					t.Errorf("Expected error for preset %q, but got none", tt.presetName)
				}
			}
		})
	}
}

func TestPresetRegistry_List(t *testing.T) {
	registry := NewPresetRegistry()
	presets := registry.List()

	if len(presets) != 4 {
		t.Errorf("Expected 4 presets in list, got %d", len(presets))
		return
	}

	// Every default preset must be complete and render without errors.
	for _, preset := range presets {
		if preset.Name == "" {
			t.Error("Preset has empty name")
		}
		if preset.Template == "" {
			t.Error("Preset has empty template")
		}
		if preset.Description == "" {
			t.Errorf("Preset %q has empty description", preset.Name)
		}
		if err := Validate(preset.Template); err != nil {
			t.Errorf("Preset %q has invalid template: %v", preset.Name, err)
		}
	}
}

func TestPresetRegistry_Register(t *testing.T) {
	registry := NewPresetRegistry()

	initialCount := len(registry.List())

	newPreset := Preset{
		Name:        "custom",
		Template:    "Custom: {{unread-count}}",
		Description: "Custom preset for testing",
	}

	err := registry.Register(newPreset)
	if err != nil {
		t.Errorf("Failed to register preset: %v", err)
		return
	}

	preset, err := registry.Get("custom")
	if err != nil {
		t.Errorf("Failed to get registered preset: %v", err)
		return
	}

	if preset.Template != newPreset.Template {
		t.Errorf("Expected template %q, got %q", newPreset.Template, preset.Template)
	}

	finalCount := len(registry.List())
	if finalCount != initialCount+1 {
		t.Errorf("Expected %d presets, got %d", initialCount+1, finalCount)
	}
}

func TestPresetRegistry_RegisterOverwrite(t *testing.T) {
	registry := NewPresetRegistry()

	original, _ := registry.Get("compact")

	updated := Preset{
		Name:        "compact",
		Template:    "New: {{unread-count}}",
		Description: "Updated compact preset",
	}

	err := registry.Register(updated)
	if err != nil {
		t.Errorf("Failed to register preset: %v", err)
		return
	}

	preset, _ := registry.Get("compact")
	if preset.Template == original.Template {
		t.Error("Preset was not updated")
	}
	if preset.Template != updated.Template {
		t.Errorf("Expected template %q, got %q", updated.Template, preset.Template)
	}

	count := len(registry.List())
	if count != 4 {
		t.Errorf("Expected 4 presets after overwrite, got %d", count)
	}
}

func TestPresetRegistry_RegisterValidation(t *testing.T) {
	registry := NewPresetRegistry()

	tests := []struct {
		name   string
		preset Preset
	}{
		{
			name:   "empty name",
			preset: Preset{Template: "{{unread-count}}"},
		},
		{
			name:   "empty template",
			preset: Preset{Name: "broken"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := registry.Register(tt.preset); err == nil {
				t.Error("Register() expected error, got none")
			}
		})
	}
}

func TestResolveTemplate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{
			name:  "preset name resolves to its template",
			value: "count-only",
			want:  "{{unread-count}}",
		},
		{
			name:  "top preset",
			value: "top",
			want:  "{{top-name}}:{{top-count}}",
		},
		{
			name:  "literal template passes through",
			value: "[{{unread-count}}]",
			want:  "[{{unread-count}}]",
		},
		{
			name:  "plain text passes through",
			value: "no unreads here",
			want:  "no unreads here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTemplate(tt.value)
			if got != tt.want {
				t.Errorf("ResolveTemplate(%q) got %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
