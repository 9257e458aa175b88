// Package asset は生成物ごとの非同期状態 (idle / loading / success / error) を管理します。
package asset

import (
	"errors"
	"maps"
	"slices"
	"sync"
)

// Status は生成物 1 件の進行状況です。
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

var (
	// ErrNotStarted は Begin されていないキーを完了しようとしたことを示します。
	ErrNotStarted = errors.New("asset: key was never started")
	// ErrStale は古いチケットによる完了が破棄されたことを示します。
	ErrStale = errors.New("asset: stale completion discarded")
)

// State は 1 キー分の状態です。Status が success のときだけ Value が、error のときだけ Error が意味を持ちます。
type State[T any] struct {
	Status Status
	Value  T
	Error  string
}

// Ticket は Begin ごとに発行される完了用の引換券です。
type Ticket struct {
	Key   string
	Epoch uint64
}

type entry[T any] struct {
	state State[T]
	epoch uint64
}

// Tracker はキーごとの State を保持します。更新は常にエントリ全体の置き換えです。
type Tracker[T any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[T]
	seq     uint64 // Reset をまたいでもチケットが衝突しないよう Tracker 全体で採番する
	fenced  bool
}

// Option は Tracker の任意設定です。
type Option func(*trackerOptions)

type trackerOptions struct {
	fenced bool
}

// WithStaleFencing は古いチケットによる完了を破棄します。
// 指定しない場合は、完了順で最後に届いた結果が残ります。
func WithStaleFencing() Option {
	return func(o *trackerOptions) { o.fenced = true }
}

// NewTracker は空の Tracker を生成します。
func NewTracker[T any](opts ...Option) *Tracker[T] {
	var o trackerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Tracker[T]{
		entries: make(map[string]*entry[T]),
		fenced:  o.fenced,
	}
}

// Register はキーを idle で登録します。既に存在するキーは変更しません。
func (t *Tracker[T]) Register(keys ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, k := range keys {
		if _, ok := t.entries[k]; !ok {
			t.entries[k] = &entry[T]{state: State[T]{Status: StatusIdle}}
		}
	}
}

// Begin は直前の状態にかかわらずキーを loading にし、完了用のチケットを返します。
func (t *Tracker[T]) Begin(key string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if !ok {
		e = &entry[T]{}
		t.entries[key] = e
	}
	t.seq++
	e.epoch = t.seq
	e.state = State[T]{Status: StatusLoading}
	return Ticket{Key: key, Epoch: e.epoch}
}

// Succeed はキーを success にして値を保持します。
func (t *Tracker[T]) Succeed(ticket Ticket, value T) error {
	return t.settle(ticket, State[T]{Status: StatusSuccess, Value: value})
}

// Fail はキーを error にしてメッセージを保持します。
func (t *Tracker[T]) Fail(ticket Ticket, message string) error {
	return t.settle(ticket, State[T]{Status: StatusError, Error: message})
}

func (t *Tracker[T]) settle(ticket Ticket, state State[T]) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[ticket.Key]
	if !ok || e.epoch == 0 {
		return ErrNotStarted
	}
	if t.fenced && ticket.Epoch != e.epoch {
		return ErrStale
	}
	e.state = state
	return nil
}

// Get はキーの状態を返します。未登録のキーは false です。
func (t *Tracker[T]) Get(key string) (State[T], bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[key]
	if !ok {
		return State[T]{}, false
	}
	return e.state, true
}

// Snapshot は全キーの状態のコピーを返します。
func (t *Tracker[T]) Snapshot() map[string]State[T] {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]State[T], len(t.entries))
	for k, e := range t.entries {
		out[k] = e.state
	}
	return out
}

// Keys は登録済みのキーを辞書順で返します。
func (t *Tracker[T]) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Sorted(maps.Keys(t.entries))
}

// Reset はすべてのキーを削除します。
// 進行中の呼び出しが後から完了しても ErrNotStarted になり、状態は復活しません。
func (t *Tracker[T]) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.entries)
}
