// Package hooks runs user-provided scripts at fixed points of the
// notification flow. Scripts live in one directory per hook point under
// the hooks directory and run in name order, with the event data passed
// through the environment.
package hooks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
	"github.com/cristianoliveira/tmux-chatwatch/internal/config"
)

var (
	asyncPending      sync.WaitGroup
	asyncPendingMu    sync.Mutex
	asyncPendingCount int
)

var (
	initMu      sync.Mutex
	initialized bool
)

// Init loads configuration and ensures the hooks directory exists. Safe
// to call more than once.
func Init() error {
	initMu.Lock()
	defer initMu.Unlock()
	if initialized {
		return nil
	}
	config.Load()
	dir := hooksDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating hooks directory %s: %w", dir, err)
	}
	initialized = true
	return nil
}

// hooksDir resolves the hook script location: environment first, then
// configuration, then the XDG config directory.
func hooksDir() string {
	if dir := os.Getenv("TMUX_CHATWATCH_HOOKS_DIR"); dir != "" {
		return dir
	}
	if dir := config.Get("hooks_dir", ""); dir != "" {
		return dir
	}
	if configDir := os.Getenv("XDG_CONFIG_HOME"); configDir != "" {
		return filepath.Join(configDir, "tmux-chatwatch", "hooks")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tmux-chatwatch", "hooks")
}

// hooksEnabled reports whether scripts run for a hook point.
// TMUX_CHATWATCH_HOOKS_ENABLED=0 switches everything off;
// TMUX_CHATWATCH_HOOKS_ENABLED_PRE_NOTIFY=0 switches off one point.
func hooksEnabled(point string) bool {
	if !envEnabled(os.Getenv("TMUX_CHATWATCH_HOOKS_ENABLED"), config.GetBool("hooks_enabled", true)) {
		return false
	}
	suffix := strings.ToUpper(strings.ReplaceAll(point, "-", "_"))
	return envEnabled(os.Getenv("TMUX_CHATWATCH_HOOKS_ENABLED_"+suffix), true)
}

func envEnabled(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return fallback
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// failureMode returns abort, warn, or ignore.
func failureMode() string {
	if mode := os.Getenv("TMUX_CHATWATCH_HOOKS_FAILURE_MODE"); mode != "" {
		return mode
	}
	return config.Get("hooks_failure_mode", "warn")
}

func asyncEnabled() bool {
	return envEnabled(os.Getenv("TMUX_CHATWATCH_HOOKS_ASYNC"), false)
}

// asyncTimeout returns how long an asynchronous hook may run, read from
// TMUX_CHATWATCH_HOOKS_ASYNC_TIMEOUT in seconds.
func asyncTimeout() time.Duration {
	if raw := os.Getenv("TMUX_CHATWATCH_HOOKS_ASYNC_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw + "s"); err == nil {
			return d
		}
	}
	return 30 * time.Second
}

func maxAsyncHooks() int {
	if raw := os.Getenv("TMUX_CHATWATCH_MAX_HOOKS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return 10
}

// Run executes the scripts for one hook point, passing envVars ("K=V"
// pairs) on top of the shared hook environment. In the abort failure
// mode the first failing script stops the run and returns its error;
// warn reports and continues; ignore continues silently.
func Run(point string, envVars ...string) error {
	if !hooksEnabled(point) {
		return nil
	}

	dir := filepath.Join(hooksDir(), point)
	files, err := os.ReadDir(dir)
	if err != nil {
		// No directory means no hooks.
		return nil
	}

	envMap := map[string]string{
		"HOOK_POINT":                        point,
		"HOOK_TIMESTAMP":                    time.Now().Format(time.RFC3339),
		"TMUX_CHATWATCH_HOOKS_FAILURE_MODE": failureMode(),
	}
	if binary := binaryPath(); binary != "" {
		envMap["TMUX_CHATWATCH_BINARY"] = binary
	}
	for _, v := range envVars {
		if parts := strings.SplitN(v, "=", 2); len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}

	scripts := executableScripts(dir, files)
	if len(scripts) == 0 {
		return nil
	}

	colors.Debug(fmt.Sprintf("running %s hooks (%d script(s))", point, len(scripts)))

	mode := failureMode()
	async := asyncEnabled()
	maxAsync := maxAsyncHooks()

	for _, script := range scripts {
		if async {
			asyncPendingMu.Lock()
			if asyncPendingCount >= maxAsync {
				asyncPendingMu.Unlock()
				colors.Warning(fmt.Sprintf("too many pending hooks (max %d), skipping %s", maxAsync, script.name))
				continue
			}
			asyncPendingCount++
			asyncPending.Add(1)
			asyncPendingMu.Unlock()
			go runAsyncHook(script.path, script.name, envMap, mode)
			continue
		}
		if err := runSyncHook(script.path, script.name, envMap, mode); err != nil {
			return err
		}
	}
	return nil
}

type hookScript struct {
	path string
	name string
}

// executableScripts filters a directory listing down to executable
// files, sorted by name so numbering prefixes control run order.
func executableScripts(dir string, files []os.DirEntry) []hookScript {
	var scripts []hookScript
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		path := filepath.Join(dir, f.Name())
		info, err := os.Stat(path)
		if err != nil || info.Mode()&0111 == 0 {
			continue
		}
		scripts = append(scripts, hookScript{path: path, name: f.Name()})
	}
	sort.Slice(scripts, func(i, j int) bool { return scripts[i].name < scripts[j].name })
	return scripts
}

// runSyncHook executes one script and waits for it. Script output goes
// to stderr so it lands in the same stream as the poller's logs.
func runSyncHook(scriptPath, scriptName string, envMap map[string]string, mode string) error {
	start := time.Now()
	cmd := exec.Command(scriptPath)
	cmd.Env = hookEnv(envMap)
	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		os.Stderr.Write(output)
	}
	if err != nil {
		switch mode {
		case "abort":
			return fmt.Errorf("hook %s failed: %w", scriptName, err)
		case "warn":
			colors.Warning(fmt.Sprintf("hook %s failed: %v", scriptName, err))
		}
		return nil
	}
	colors.Debug(fmt.Sprintf("hook %s completed in %.2fs", scriptName, time.Since(start).Seconds()))
	return nil
}

// runAsyncHook executes one script in the background, killed at the
// async timeout. The caller has already accounted for it in the
// pending-hook bookkeeping.
func runAsyncHook(scriptPath, scriptName string, envMap map[string]string, mode string) {
	defer func() {
		if r := recover(); r != nil {
			colors.Error(fmt.Sprintf("hook %s panicked: %v", scriptName, r))
		}
		finishAsyncHook()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, scriptPath)
	cmd.Env = hookEnv(envMap)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		if mode != "ignore" {
			colors.Warning(fmt.Sprintf("hook %s failed to start: %v", scriptName, err))
		}
		return
	}

	start := time.Now()
	err := cmd.Wait()
	duration := time.Since(start)
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		colors.Warning(fmt.Sprintf("hook %s timed out after %.2fs", scriptName, duration.Seconds()))
	case err != nil && mode != "ignore":
		colors.Warning(fmt.Sprintf("hook %s failed: %v", scriptName, err))
	case err == nil:
		colors.Debug(fmt.Sprintf("hook %s completed in %.2fs", scriptName, duration.Seconds()))
	}
}

func finishAsyncHook() {
	asyncPendingMu.Lock()
	asyncPendingCount--
	asyncPendingMu.Unlock()
	asyncPending.Done()
}

func hookEnv(envMap map[string]string) []string {
	env := os.Environ()
	for k, v := range envMap {
		env = append(env, k+"="+v)
	}
	return env
}

// binaryPath locates the tmux-chatwatch executable so hook scripts can
// call back into the CLI.
func binaryPath() string {
	if exe, err := os.Executable(); err == nil {
		return exe
	}
	if len(os.Args) > 0 && os.Args[0] != "" {
		if filepath.IsAbs(os.Args[0]) {
			return os.Args[0]
		}
		if path, err := exec.LookPath(os.Args[0]); err == nil {
			return path
		}
	}
	return ""
}

// WaitForPendingHooks blocks until every asynchronous hook finished.
func WaitForPendingHooks() {
	asyncPending.Wait()
}

// Shutdown waits for asynchronous hooks before exit.
func Shutdown() {
	WaitForPendingHooks()
}

// Reset clears cached state so tests can reinitialize with a fresh
// environment. Every asynchronous hook must have finished first.
func Reset() {
	asyncPendingMu.Lock()
	defer asyncPendingMu.Unlock()
	if asyncPendingCount > 0 {
		panic(fmt.Sprintf("hooks: Reset with %d pending hooks; call WaitForPendingHooks first", asyncPendingCount))
	}
	asyncPending = sync.WaitGroup{}

	initMu.Lock()
	initialized = false
	initMu.Unlock()
}
