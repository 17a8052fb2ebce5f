// Package creds resolves the workspace credential.
//
// A missing token is the unauthenticated condition, not an error: the
// watcher skips cycles until one appears, and user-facing commands
// print a hint instead of a failure trace.
package creds

import (
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
	"github.com/cristianoliveira/tmux-chatwatch/internal/config"
)

// EnvToken is the environment variable holding the workspace token.
const EnvToken = "TMUX_CHATWATCH_TOKEN"

// Store resolves tokens. Construct with NewStore; the credentials file
// is loaded into the environment at most once per Store.
type Store struct {
	envOnce sync.Once
}

// NewStore creates a credential store.
func NewStore() *Store {
	return &Store{}
}

// Token resolves the workspace token, trying in order:
//
//  1. the TMUX_CHATWATCH_TOKEN environment variable, including values
//     loaded from the credentials file (creds_file, dotenv format,
//     defaults to <config_dir>/credentials; already-set variables are
//     not overridden),
//  2. the token configuration key,
//  3. the contents of the file named by the token_file configuration
//     key.
//
// The second return is false when no token is configured anywhere.
func (s *Store) Token() (string, bool) {
	s.envOnce.Do(loadCredsFile)

	if token := strings.TrimSpace(os.Getenv(EnvToken)); token != "" {
		return token, true
	}

	config.Load()
	if token := strings.TrimSpace(config.Get("token", "")); token != "" {
		return token, true
	}

	if path := config.Get("token_file", ""); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			colors.StructuredWarn("creds", "read_token_file", "failed", err, path, nil)
			return "", false
		}
		if token := strings.TrimSpace(string(data)); token != "" {
			return token, true
		}
	}

	return "", false
}

// loadCredsFile loads the dotenv-format credentials file into the
// process environment. A missing file is the normal case.
func loadCredsFile() {
	config.Load()
	path := config.Get("creds_file", "")
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		colors.StructuredWarn("creds", "load_creds_file", "failed", err, path, nil)
	}
}
