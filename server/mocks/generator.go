// Package mocks provides test doubles for the model provider boundary.
package mocks

import (
	"context"
	"sync"

	"tutorgate/server/provider"
)

// MockGenerator implements provider.Generator for tests. It records every
// request it receives so tests can assert on the exact model-facing input
// (system instruction, turn sequence, generation parameters).
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, req *provider.ModelRequest) (string, error)

	mu       sync.Mutex
	requests []*provider.ModelRequest
}

// NewMockGenerator creates a MockGenerator. If generateFunc is nil, Generate
// returns an empty string with no error.
func NewMockGenerator(generateFunc func(ctx context.Context, req *provider.ModelRequest) (string, error)) *MockGenerator {
	return &MockGenerator{GenerateFunc: generateFunc}
}

// Generate records the request and delegates to GenerateFunc.
func (m *MockGenerator) Generate(ctx context.Context, req *provider.ModelRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return "", nil
}

// Requests returns a copy of all recorded requests in call order.
func (m *MockGenerator) Requests() []*provider.ModelRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*provider.ModelRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent recorded request, or nil.
func (m *MockGenerator) LastRequest() *provider.ModelRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}
