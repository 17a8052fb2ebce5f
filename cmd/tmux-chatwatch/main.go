package main

import (
	"os"

	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
	"github.com/cristianoliveira/tmux-chatwatch/internal/config"
	"github.com/cristianoliveira/tmux-chatwatch/internal/hooks"
	"github.com/cristianoliveira/tmux-chatwatch/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	config.Load()
	colors.SetDebug(config.GetBool("debug", false))
	if err := logging.InitGlobal(); err != nil {
		colors.Warning("failed to initialize logging: " + err.Error())
	}
	defer func() { _ = logging.ShutdownGlobal() }()

	if err := hooks.Init(); err != nil {
		colors.Warning("failed to initialize hooks: " + err.Error())
	}
	defer hooks.Shutdown()

	colors.StructuredInfo("startup", "main", "started", nil, "", nil)

	deps, err := buildCLIDeps()
	if err != nil {
		colors.Error("failed to initialize: " + err.Error())
		return 1
	}
	defer func() { _ = deps.storage.Close() }()

	root := newRootCmd()
	registerCommands(root, deps)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		colors.StructuredError("startup", "main", "failed", err, "", nil)
		return 1
	}
	colors.StructuredInfo("startup", "main", "completed", nil, "", nil)
	return 0
}
