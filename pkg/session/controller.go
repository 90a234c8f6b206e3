package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shouni/gemini-vehicle-kit/pkg/acquire"
	"github.com/shouni/gemini-vehicle-kit/pkg/analyzer"
	"github.com/shouni/gemini-vehicle-kit/pkg/domain"
)

// Controller は1つの画像スロットと解析状態を所有する状態機械です。
//
// 状態遷移は idle → loading → success|error で、SelectPayload と Reset はどの状態からでも呼べます。
// 解析の完了は世代番号が一致するときだけ反映されます（開始順で後勝ち）。
type Controller struct {
	analyzer  analyzer.VehicleAnalyzer
	acquirer  *acquire.Acquirer
	baseCtx   context.Context
	observers []Observer

	mu         sync.Mutex
	generation uint64
	state      domain.AnalysisState
	image      *domain.ImagePayload
	cancel     context.CancelFunc
	inflight   int
	changed    chan struct{}
	closed     bool

	// 遷移と通知を直列化するロック。mu より先に取得し、mu を保持したまま待たない
	notifyMu sync.Mutex
}

// Option は Controller の任意設定です。
type Option func(*Controller)

// WithBaseContext は解析リクエストの親コンテキストを指定します。
func WithBaseContext(ctx context.Context) Option {
	return func(c *Controller) {
		if ctx != nil {
			c.baseCtx = ctx
		}
	}
}

// WithAcquirer は SelectImage で使う Acquirer を指定します。
func WithAcquirer(a *acquire.Acquirer) Option {
	return func(c *Controller) {
		if a != nil {
			c.acquirer = a
		}
	}
}

// WithObservers は状態遷移の通知先を追加します。
func WithObservers(observers ...Observer) Option {
	return func(c *Controller) {
		for _, o := range observers {
			if o != nil {
				c.observers = append(c.observers, o)
			}
		}
	}
}

// NewController は依存関係を注入して Controller を初期化します。初期状態は idle です。
func NewController(a analyzer.VehicleAnalyzer, opts ...Option) (*Controller, error) {
	if a == nil {
		return nil, fmt.Errorf("analyzer (VehicleAnalyzer) is required")
	}
	c := &Controller{
		analyzer: a,
		acquirer: acquire.NewAcquirer(acquire.DefaultMaxBytes),
		baseCtx:  context.Background(),
		state:    domain.IdleState(0),
		changed:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SelectImage は Source から画像を取得して解析を開始します。
// 取得に失敗した場合（画像以外のファイルを含む）は状態を変えずにエラーを返します。
func (c *Controller) SelectImage(ctx context.Context, src acquire.Source) (uint64, error) {
	payload, err := c.acquirer.Acquire(ctx, src)
	if err != nil {
		return 0, err
	}
	return c.SelectPayload(payload)
}

// SelectPayload は取得済みの画像を現在の画像として保持し、loading に遷移して解析を非同期で開始します。
// 進行中の解析はキャンセルされ、その結果は破棄されます。
func (c *Controller) SelectPayload(payload *domain.ImagePayload) (uint64, error) {
	if payload == nil || payload.Size() == 0 {
		return 0, fmt.Errorf("image payload is empty")
	}

	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, fmt.Errorf("controller is closed")
	}
	c.cancelLocked()
	c.generation++
	gen := c.generation
	ctx, cancel := context.WithCancel(c.baseCtx)
	c.cancel = cancel
	c.image = payload
	c.state = domain.LoadingState(gen)
	c.inflight++
	c.broadcastLocked()
	snapshot := c.state
	c.mu.Unlock()
	c.notify(ctx, snapshot)

	go c.run(ctx, gen, payload)
	return gen, nil
}

// Reset は進行中の解析をキャンセルし、画像と結果を破棄して idle に戻します。何度呼んでも同じ結果です。
func (c *Controller) Reset() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	c.cancelLocked()
	if c.state.Status == domain.StatusIdle && c.image == nil {
		c.mu.Unlock()
		return
	}
	c.generation++
	c.image = nil
	c.state = domain.IdleState(c.generation)
	c.broadcastLocked()
	snapshot := c.state
	c.mu.Unlock()
	c.notify(c.baseCtx, snapshot)
}

// State は現在の状態のスナップショットを返します。
func (c *Controller) State() domain.AnalysisState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Image は現在の画像を返します。選択されていなければ nil です。
func (c *Controller) Image() *domain.ImagePayload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.image
}

// Wait は進行中の解析ゴルーチンがすべて終了するまで待ちます。
func (c *Controller) Wait() {
	for {
		c.mu.Lock()
		if c.inflight == 0 {
			c.mu.Unlock()
			return
		}
		ch := c.changed
		c.mu.Unlock()
		<-ch
	}
}

// Await は状態が loading を抜けるまで待ち、その時点の状態を返します。
func (c *Controller) Await(ctx context.Context) (domain.AnalysisState, error) {
	for {
		c.mu.Lock()
		if c.state.Status != domain.StatusLoading {
			s := c.state
			c.mu.Unlock()
			return s, nil
		}
		ch := c.changed
		c.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return c.State(), ctx.Err()
		}
	}
}

// Close は進行中の解析をキャンセルして終了を待ちます。Close 後の SelectPayload はエラーになります。
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.cancelLocked()
	c.mu.Unlock()
	c.Wait()
}

func (c *Controller) run(ctx context.Context, gen uint64, payload *domain.ImagePayload) {
	result, err := c.analyze(ctx, payload)
	c.complete(ctx, gen, result, err)
}

// analyze は解析器の panic も error に変換します。
func (c *Controller) analyze(ctx context.Context, payload *domain.ImagePayload) (result *domain.VehicleAnalysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "解析中に panic が発生しました", "panic", r)
			result = nil
			err = analyzer.NewProviderFailure("", fmt.Errorf("analyzer panic: %v", r))
		}
	}()
	return c.analyzer.Analyze(ctx, payload)
}

func (c *Controller) complete(ctx context.Context, gen uint64, result *domain.VehicleAnalysis, err error) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	c.inflight--
	if gen != c.generation {
		c.broadcastLocked()
		c.mu.Unlock()
		slog.DebugContext(ctx, "古い解析結果を破棄しました", "generation", gen, "current", c.currentGeneration())
		return
	}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	switch {
	case err != nil:
		c.state = domain.ErrorState(gen, analyzer.UserMessage(err))
	case result == nil:
		c.state = domain.ErrorState(gen, analyzer.MsgEmptyResponse)
	default:
		c.state = domain.SuccessState(gen, result)
	}
	c.broadcastLocked()
	snapshot := c.state
	c.mu.Unlock()
	c.notify(context.WithoutCancel(ctx), snapshot)
}

func (c *Controller) currentGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *Controller) cancelLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// broadcastLocked は待機中の Wait / Await を起こします。c.mu を保持して呼びます。
func (c *Controller) broadcastLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Controller) notify(ctx context.Context, state domain.AnalysisState) {
	for _, o := range c.observers {
		o.OnStateChange(ctx, state)
	}
}
