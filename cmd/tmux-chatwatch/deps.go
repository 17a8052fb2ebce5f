package main

import (
	"fmt"

	"github.com/cristianoliveira/tmux-chatwatch/internal/core"
	"github.com/cristianoliveira/tmux-chatwatch/internal/creds"
	"github.com/cristianoliveira/tmux-chatwatch/internal/storage"
	"github.com/cristianoliveira/tmux-chatwatch/internal/tmux"
	"github.com/spf13/cobra"
)

// newStorageFromConfig builds the storage backend. Replaceable in tests.
var newStorageFromConfig = storage.NewFromConfig

// cliDeps bundles the shared dependencies the commands are built with.
type cliDeps struct {
	coreClient *core.Core
	storage    storage.Storage
	tokens     *creds.Store
	tmuxClient tmux.TmuxClient
}

// buildCLIDeps wires the production dependency graph.
func buildCLIDeps() (cliDeps, error) {
	store, err := newStorageFromConfig()
	if err != nil {
		return cliDeps{}, fmt.Errorf("initializing storage: %w", err)
	}

	tokens := creds.NewStore()
	tmuxClient := tmux.NewDefaultClient()

	return cliDeps{
		coreClient: core.New(tokens, store, tmuxClient),
		storage:    store,
		tokens:     tokens,
		tmuxClient: tmuxClient,
	}, nil
}

// registerCommands attaches every command to the root.
func registerCommands(root *cobra.Command, deps cliDeps) {
	root.AddCommand(NewWatchCmd(deps))
	root.AddCommand(NewStatusCmd(deps.coreClient))
	root.AddCommand(NewChannelsCmd(deps.coreClient))
	root.AddCommand(NewPinsCmd(deps.coreClient))
	root.AddCommand(NewSendCmd(deps.coreClient))
	root.AddCommand(NewReadCmd(deps.coreClient))
	root.AddCommand(NewHistoryCmd(deps.coreClient))
	root.AddCommand(NewCleanupCmd(deps.coreClient))
	root.AddCommand(NewVersionCmd())
	root.SetHelpCommand(NewHelpCmd())
}
