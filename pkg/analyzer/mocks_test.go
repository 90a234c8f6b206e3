package analyzer

import (
	"context"
	"sync"
)

// mockProvider は Provider インターフェースのテスト用モックです。
type mockProvider struct {
	mu           sync.Mutex
	calls        int
	lastRequest  Request
	completeFunc func(ctx context.Context, req Request) (string, error)
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Complete(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.calls++
	m.lastRequest = req
	m.mu.Unlock()
	if m.completeFunc != nil {
		return m.completeFunc(ctx, req)
	}
	return "", nil
}

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
