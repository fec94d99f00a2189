package http

import (
	"log/slog"
	"sync"
)

// StreamManager fans out machine updates to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan string]struct{} // machine ID -> set of channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a channel for updates of machine id.
// The returned function unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(id string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[id]; !ok {
		sm.subscribers[id] = make(map[chan string]struct{})
	}
	sm.subscribers[id][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		subs, ok := sm.subscribers[id]
		if !ok {
			return
		}
		if _, live := subs[ch]; !live {
			return
		}
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(sm.subscribers, id)
		}
	}
}

// Broadcast sends msg to every subscriber of machine id.
// Slow subscribers miss messages instead of blocking the engine.
func (sm *StreamManager) Broadcast(id string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[id] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping message", "machine", id)
		}
	}
}

// Close ends every subscription of machine id.
func (sm *StreamManager) Close(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for ch := range sm.subscribers[id] {
		close(ch)
	}
	delete(sm.subscribers, id)
}

// Subscribers returns the number of live subscriptions of machine id.
func (sm *StreamManager) Subscribers(id string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[id])
}
