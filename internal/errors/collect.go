package errors

import (
	"sync"
	"time"
)

// CollectingHandler buffers messages instead of printing them.
// Long-running commands use it to gather problems raised during a poll
// cycle and report them in one place once the cycle finishes.
type CollectingHandler struct {
	mu        sync.RWMutex
	messages  []Message
	onMessage func(msg Message)
}

type Message struct {
	Text      string
	Type      MessageType
	Timestamp time.Time
}

type MessageType int

const (
	MessageTypeError MessageType = iota
	MessageTypeWarning
	MessageTypeInfo
	MessageTypeSuccess
)

func NewCollectingHandler(onMessage func(msg Message)) *CollectingHandler {
	return &CollectingHandler{
		messages:  make([]Message, 0),
		onMessage: onMessage,
	}
}

func (h *CollectingHandler) Error(msg string) {
	h.addMessage(msg, MessageTypeError)
}

func (h *CollectingHandler) Warning(msg string) {
	h.addMessage(msg, MessageTypeWarning)
}

func (h *CollectingHandler) Info(msg string) {
	h.addMessage(msg, MessageTypeInfo)
}

func (h *CollectingHandler) Success(msg string) {
	h.addMessage(msg, MessageTypeSuccess)
}

func (h *CollectingHandler) addMessage(msg string, msgType MessageType) {
	h.mu.Lock()
	defer h.mu.Unlock()

	message := Message{
		Text:      msg,
		Type:      msgType,
		Timestamp: time.Now(),
	}
	h.messages = append(h.messages, message)

	if h.onMessage != nil {
		h.onMessage(message)
	}
}

func (h *CollectingHandler) GetLatest() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}

func (h *CollectingHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = make([]Message, 0)
}

// Drain returns all buffered messages and clears the buffer.
func (h *CollectingHandler) Drain() []Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	drained := h.messages
	h.messages = make([]Message, 0)
	return drained
}

func (h *CollectingHandler) GetAll() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	copied := make([]Message, len(h.messages))
	copy(copied, h.messages)
	return copied
}
