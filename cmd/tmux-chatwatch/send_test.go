package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

type fakeSendClient struct {
	sendCalled bool
	sendErr    error
	captured   struct {
		target string
		text   string
	}
}

func (f *fakeSendClient) SendMessage(ctx context.Context, target, text string) (string, error) {
	f.sendCalled = true
	f.captured.target = target
	f.captured.text = text
	return "1700000000.000100", f.sendErr
}

func TestSendCmdArgsValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		wantMsg string
	}{
		{name: "no args returns error", args: []string{}, wantErr: true, wantMsg: "send requires a conversation and a message"},
		{name: "target only returns error", args: []string{"#general"}, wantErr: true, wantMsg: "send requires a conversation and a message"},
		{name: "target and message returns no error", args: []string{"#general", "hello"}, wantErr: false},
		{name: "multi-word message returns no error", args: []string{"#general", "hello", "world"}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err, stderr := runSendArgsSafely(t, tt.args)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tt.wantMsg != "" && !strings.Contains(stderr, tt.wantMsg) {
				t.Fatalf("expected stderr to contain %q, got %q", tt.wantMsg, stderr)
			}
		})
	}
}

func TestNewSendCmdPanicsWhenClientIsNil(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic, got nil")
		}

		msg, ok := r.(string)
		if !ok {
			t.Fatalf("expected panic message as string, got %T", r)
		}
		if !strings.Contains(msg, "client dependency cannot be nil") {
			t.Fatalf("expected panic message to mention nil dependency, got %q", msg)
		}
	}()

	NewSendCmd(nil)
}

func runSendArgsSafely(t *testing.T, args []string) (err error, stderr string) {
	t.Helper()

	client := &fakeSendClient{}
	send := NewSendCmd(client)
	errBuffer := &bytes.Buffer{}
	send.SetErr(errBuffer)

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("sendCmd.Args panicked with args %v: %v", args, r)
		}
	}()

	err = send.Args(send, args)
	return err, errBuffer.String()
}

func TestValidateMessage(t *testing.T) {
	tests := []struct {
		name        string
		message     string
		wantErr     bool
		errContains string
	}{
		{name: "empty", message: "", wantErr: true, errContains: "message cannot be empty"},
		{name: "whitespace only", message: " \n\t ", wantErr: true, errContains: "message cannot be empty"},
		{name: "single character", message: "a", wantErr: false},
		{name: "trimmed but valid", message: "  hello world  ", wantErr: false},
		{name: "exactly max length", message: strings.Repeat("a", maxMessageLength), wantErr: false},
		{name: "over max length", message: strings.Repeat("a", maxMessageLength+1), wantErr: true, errContains: "message too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateMessage(tt.message)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tt.errContains != "" && (err == nil || !strings.Contains(err.Error(), tt.errContains)) {
				t.Fatalf("expected error containing %q, got %v", tt.errContains, err)
			}
		})
	}
}

func TestSendRunEJoinsMessageWords(t *testing.T) {
	client := &fakeSendClient{}
	send := NewSendCmd(client)

	err := send.RunE(send, []string{"#general", "deploy", "finished"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !client.sendCalled {
		t.Fatalf("expected SendMessage to be called")
	}
	if client.captured.target != "#general" {
		t.Fatalf("expected target %q, got %q", "#general", client.captured.target)
	}
	if client.captured.text != "deploy finished" {
		t.Fatalf("expected joined message, got %q", client.captured.text)
	}
}

func TestSendRunERejectsEmptyMessageBeforeSending(t *testing.T) {
	client := &fakeSendClient{}
	send := NewSendCmd(client)

	err := send.RunE(send, []string{"#general", "   "})
	if err == nil || !strings.Contains(err.Error(), "message cannot be empty") {
		t.Fatalf("expected empty message error, got %v", err)
	}
	if client.sendCalled {
		t.Fatalf("expected SendMessage not to be called")
	}
}

func TestSendRunEWrapsClientError(t *testing.T) {
	client := &fakeSendClient{sendErr: errors.New("boom")}
	send := NewSendCmd(client)

	err := send.RunE(send, []string{"@bob", "lunch?"})
	if err == nil || !strings.Contains(err.Error(), "send: boom") {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}

func setFlag(t *testing.T, command *cobra.Command, name, value string) {
	t.Helper()
	if err := command.Flags().Set(name, value); err != nil {
		t.Fatalf("set flag %q: %v", name, err)
	}
}
