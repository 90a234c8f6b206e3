package server

import (
	"context"
	"sync"

	"github.com/shouni/gemini-vehicle-kit/pkg/domain"
)

// fakeAnalyzer は analyzer.VehicleAnalyzer のテスト用モックです。
type fakeAnalyzer struct {
	mu          sync.Mutex
	calls       int
	analyzeFunc func(ctx context.Context, p *domain.ImagePayload) (*domain.VehicleAnalysis, error)
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, p *domain.ImagePayload) (*domain.VehicleAnalysis, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.analyzeFunc != nil {
		return f.analyzeFunc(ctx, p)
	}
	return &domain.VehicleAnalysis{IsVehicle: false}, nil
}

func (f *fakeAnalyzer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
