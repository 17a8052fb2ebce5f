package main

import "testing"

func TestAllowTmuxlessMode(t *testing.T) {
	t.Run("explicit override", func(t *testing.T) {
		t.Setenv("TMUX_CHATWATCH_ALLOW_NO_TMUX", "true")
		if !allowTmuxlessMode() {
			t.Fatalf("expected override to allow tmuxless mode")
		}
	})

	t.Run("ci", func(t *testing.T) {
		t.Setenv("TMUX_CHATWATCH_ALLOW_NO_TMUX", "")
		t.Setenv("CI", "true")
		if !allowTmuxlessMode() {
			t.Fatalf("expected CI env to allow tmuxless mode")
		}
	})

	t.Run("default_disallows", func(t *testing.T) {
		t.Setenv("TMUX_CHATWATCH_ALLOW_NO_TMUX", "")
		t.Setenv("CI", "")
		if allowTmuxlessMode() {
			t.Fatalf("expected tmux requirement when no env is set")
		}
	})
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{" true ", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		t.Run("value_"+tt.value, func(t *testing.T) {
			t.Setenv("TMUX_CHATWATCH_TEST_BOOL", tt.value)
			if got := envBool("TMUX_CHATWATCH_TEST_BOOL"); got != tt.expected {
				t.Fatalf("envBool(%q) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}
