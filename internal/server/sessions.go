package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shouni/gemini-vehicle-kit/pkg/session"
)

// ControllerFactory は新しいセッション用の Controller を生成します。
type ControllerFactory func(ctx context.Context) (*session.Controller, error)

type sessionEntry struct {
	controller *session.Controller
	lastSeen   time.Time
}

// Registry はブラウザセッションごとの Controller をメモリ上で管理します。
// 一定時間アクセスの無いセッションは次のアクセス時にまとめて破棄されます。
type Registry struct {
	factory ControllerFactory
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewRegistry は依存関係を注入して Registry を初期化します。
func NewRegistry(factory ControllerFactory, ttl time.Duration) (*Registry, error) {
	if factory == nil {
		return nil, fmt.Errorf("factory (ControllerFactory) is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Registry{
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}, nil
}

// Get は id に対応する Controller を返します。未知の id または空の場合は新しいセッションを作ります。
// 戻り値の id は実際に使われたセッション ID です。
func (r *Registry) Get(ctx context.Context, id string) (string, *session.Controller, error) {
	r.mu.Lock()
	now := r.now()
	expired := r.purgeLocked(now)
	if e, ok := r.sessions[id]; ok && id != "" {
		e.lastSeen = now
		r.mu.Unlock()
		closeAll(expired)
		return id, e.controller, nil
	}
	r.mu.Unlock()
	closeAll(expired)

	ctrl, err := r.factory(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}
	newID := uuid.NewString()

	r.mu.Lock()
	r.sessions[newID] = &sessionEntry{controller: ctrl, lastSeen: now}
	r.mu.Unlock()
	slog.DebugContext(ctx, "新しいセッションを作成しました", "session_id", newID)
	return newID, ctrl, nil
}

// Len は保持しているセッション数を返します。
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close はすべてのセッションの解析をキャンセルして破棄します。
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]*session.Controller, 0, len(r.sessions))
	for id, e := range r.sessions {
		all = append(all, e.controller)
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	closeAll(all)
}

func (r *Registry) purgeLocked(now time.Time) []*session.Controller {
	var expired []*session.Controller
	for id, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.ttl {
			expired = append(expired, e.controller)
			delete(r.sessions, id)
		}
	}
	if len(expired) > 0 {
		slog.Debug("期限切れのセッションを破棄しました", "count", len(expired))
	}
	return expired
}

func closeAll(ctrls []*session.Controller) {
	for _, c := range ctrls {
		c.Close()
	}
}
