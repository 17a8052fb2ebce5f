package main

import (
	"os"
	"strings"
)

// allowTmuxlessMode returns true when commands that want a tmux server
// should degrade instead of failing (e.g. in CI or when explicitly
// requested). Without tmux, notifications are recorded but not shown.
func allowTmuxlessMode() bool {
	if envBool("TMUX_CHATWATCH_ALLOW_NO_TMUX") {
		return true
	}

	// CI providers usually set CI=true
	if os.Getenv("CI") != "" {
		return true
	}

	return false
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
