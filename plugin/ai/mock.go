package ai

import (
	"context"
	"fmt"
	"sync"
)

// MockCompletionService is a test double for the completion backend.
// Responses are returned in FIFO order; when the queue is empty the
// configured default response is used.
type MockCompletionService struct {
	mu sync.Mutex

	responses       []string
	errors          []error
	defaultResponse string

	// Calls records every message list passed to Complete.
	Calls [][]Message
}

var _ CompletionService = (*MockCompletionService)(nil)

// NewMockCompletionService creates a mock with a default canned response.
func NewMockCompletionService() *MockCompletionService {
	return &MockCompletionService{defaultResponse: "mock response"}
}

// QueueResponse queues a successful response.
func (m *MockCompletionService) QueueResponse(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, text)
	m.errors = append(m.errors, nil)
}

// QueueError queues a failed completion.
func (m *MockCompletionService) QueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, "")
	m.errors = append(m.errors, err)
}

// SetDefaultResponse sets the response used when the queue is empty.
func (m *MockCompletionService) SetDefaultResponse(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultResponse = text
}

// Complete returns the next queued response or error.
func (m *MockCompletionService) Complete(ctx context.Context, messages []Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]Message, len(messages))
	copy(copied, messages)
	m.Calls = append(m.Calls, copied)

	if len(m.responses) == 0 {
		return m.defaultResponse, nil
	}

	resp, err := m.responses[0], m.errors[0]
	m.responses = m.responses[1:]
	m.errors = m.errors[1:]
	if err != nil {
		return "", err
	}
	return resp, nil
}

// CallCount returns the number of Complete invocations.
func (m *MockCompletionService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the messages of the most recent Complete invocation.
func (m *MockCompletionService) LastCall() ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return nil, fmt.Errorf("no calls recorded")
	}
	return m.Calls[len(m.Calls)-1], nil
}
