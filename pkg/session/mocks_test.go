package session

import (
	"context"
	"sync"

	"github.com/shouni/gemini-vehicle-kit/pkg/domain"
	"github.com/stretchr/testify/mock"
)

// mockAnalyzer は analyzer.VehicleAnalyzer のテスト用モックです。
type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Analyze(ctx context.Context, payload *domain.ImagePayload) (*domain.VehicleAnalysis, error) {
	args := m.Called(ctx, payload)
	var result *domain.VehicleAnalysis
	if v := args.Get(0); v != nil {
		result = v.(*domain.VehicleAnalysis)
	}
	return result, args.Error(1)
}

// recordingObserver は受け取った状態をすべて記録します。
type recordingObserver struct {
	mu     sync.Mutex
	states []domain.AnalysisState
}

func (r *recordingObserver) OnStateChange(_ context.Context, state domain.AnalysisState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}

func (r *recordingObserver) snapshot() []domain.AnalysisState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AnalysisState(nil), r.states...)
}

func (r *recordingObserver) statuses() []domain.Status {
	var out []domain.Status
	for _, s := range r.snapshot() {
		out = append(out, s.Status)
	}
	return out
}

func named(name string) interface{} {
	return mock.MatchedBy(func(p *domain.ImagePayload) bool { return p != nil && p.Name == name })
}

func payloadNamed(name string) *domain.ImagePayload {
	return &domain.ImagePayload{Data: []byte("img-" + name), MediaType: "image/jpeg", Name: name}
}
