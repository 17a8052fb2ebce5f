package main

import (
	"errors"
	"testing"

	"github.com/cristianoliveira/tmux-chatwatch/internal/domain"
	"github.com/cristianoliveira/tmux-chatwatch/internal/storage"
	"github.com/spf13/cobra"
)

type fakeStorage struct{}

func (f *fakeStorage) AddPin(pin domain.Pin) error {
	return nil
}

func (f *fakeStorage) RemovePin(conversationID string) error {
	return nil
}

func (f *fakeStorage) ListPins() ([]domain.Pin, error) {
	return nil, nil
}

func (f *fakeStorage) AppendHistory(entry domain.HistoryEntry) (int64, error) {
	return 0, nil
}

func (f *fakeStorage) ListHistory(limit int) ([]domain.HistoryEntry, error) {
	return nil, nil
}

func (f *fakeStorage) CleanupHistory(daysThreshold int, dryRun bool) (int64, error) {
	return 0, nil
}

func (f *fakeStorage) Close() error {
	return nil
}

func TestBuildCLIDepsReturnsStorageError(t *testing.T) {
	originalNewStorage := newStorageFromConfig
	defer func() { newStorageFromConfig = originalNewStorage }()

	newStorageFromConfig = func() (storage.Storage, error) {
		return nil, errors.New("storage unavailable")
	}

	_, err := buildCLIDeps()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() == "" {
		t.Fatal("expected error message, got empty string")
	}
}

func TestBuildCLIDepsSuccess(t *testing.T) {
	originalNewStorage := newStorageFromConfig
	defer func() { newStorageFromConfig = originalNewStorage }()

	stubStorage := &fakeStorage{}
	newStorageFromConfig = func() (storage.Storage, error) {
		return stubStorage, nil
	}

	deps, err := buildCLIDeps()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deps.coreClient == nil {
		t.Fatal("expected coreClient to be set")
	}
	if deps.storage != stubStorage {
		t.Fatal("expected storage to match stub")
	}
	if deps.tokens == nil {
		t.Fatal("expected tokens to be set")
	}
	if deps.tmuxClient == nil {
		t.Fatal("expected tmuxClient to be set")
	}
}

func TestRegisterCommandsAddsCommands(t *testing.T) {
	originalNewStorage := newStorageFromConfig
	defer func() { newStorageFromConfig = originalNewStorage }()

	newStorageFromConfig = func() (storage.Storage, error) {
		return &fakeStorage{}, nil
	}

	deps, err := buildCLIDeps()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root := &cobra.Command{Use: "root"}
	registerCommands(root, deps)

	commandNames := map[string]bool{}
	for _, cmd := range root.Commands() {
		commandNames[cmd.Name()] = true
	}

	expected := []string{"watch", "status", "channels", "pins", "send", "read", "history", "cleanup", "version"}
	for _, name := range expected {
		if !commandNames[name] {
			t.Fatalf("expected command %q to be registered", name)
		}
	}
}
