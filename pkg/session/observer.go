package session

import (
	"context"
	"log/slog"

	"github.com/shouni/gemini-vehicle-kit/pkg/domain"
)

// Observer は状態遷移の通知を受け取ります。
// 通知は遷移順に1つずつ届きます。通知中に State や Image は呼べますが、更新系メソッドを呼んではいけません。
type Observer interface {
	OnStateChange(ctx context.Context, state domain.AnalysisState)
}

// ObserverFunc は関数を Observer として扱うためのアダプターです。
type ObserverFunc func(ctx context.Context, state domain.AnalysisState)

func (f ObserverFunc) OnStateChange(ctx context.Context, state domain.AnalysisState) {
	f(ctx, state)
}

// LoggingObserver は状態遷移を slog に記録します。
type LoggingObserver struct {
	Logger *slog.Logger
}

func (o LoggingObserver) OnStateChange(ctx context.Context, state domain.AnalysisState) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{"status", state.Status, "generation", state.Generation}
	switch state.Status {
	case domain.StatusSuccess:
		attrs = append(attrs, "is_vehicle", state.Data.IsVehicle, "make", state.Data.Make,
			"model", state.Data.Model, "confidence", state.Data.ConfidenceScore)
	case domain.StatusError:
		attrs = append(attrs, "error", state.Error)
	}
	logger.InfoContext(ctx, "解析状態が変化しました", attrs...)
}
