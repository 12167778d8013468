package event

import (
	"context"
	"sort"
	"sync"
)

// Listener 处理事件
type Listener[E Stoppable] interface {
	Handle(ctx context.Context, evt E)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc[E Stoppable] func(ctx context.Context, evt E)

func (f ListenerFunc[E]) Handle(ctx context.Context, evt E) { f(ctx, evt) }

type registered[E Stoppable] struct {
	l        Listener[E]
	priority int
}

// Dispatcher 按照顺序把事件交给监听器，直到某个监听器停止了传播。
// 注册和分发可以并发调用
type Dispatcher[E Stoppable] struct {
	mu        sync.RWMutex
	listeners []registered[E]
}

func NewDispatcher[E Stoppable]() *Dispatcher[E] {
	return &Dispatcher[E]{}
}

// AddListener priority 越大越先执行，相同的按照注册顺序
func (d *Dispatcher[E]) AddListener(l Listener[E], priority int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, registered[E]{l: l, priority: priority})
	sort.SliceStable(d.listeners, func(i, j int) bool {
		return d.listeners[i].priority > d.listeners[j].priority
	})
}

// Listen 注册一个函数，priority 为 0
func (d *Dispatcher[E]) Listen(fn func(ctx context.Context, evt E)) {
	d.AddListener(ListenerFunc[E](fn), 0)
}

func (d *Dispatcher[E]) HasListeners() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners) > 0
}

// Dispatch 返回传入的事件，方便调用方读取监听器修改之后的状态
func (d *Dispatcher[E]) Dispatch(ctx context.Context, evt E) E {
	d.mu.RLock()
	listeners := make([]registered[E], len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.RUnlock()

	for _, r := range listeners {
		if evt.IsPropagationStopped() {
			break
		}
		r.l.Handle(ctx, evt)
	}
	return evt
}

// ShouldDelete 触发 PreObjectDeleteBatchEvent，返回是否可以删除 object。
// d 为 nil 的时候总是可以删除
func ShouldDelete(ctx context.Context, d *Dispatcher[*PreObjectDeleteBatchEvent], className string, object any) bool {
	evt := NewPreObjectDeleteBatchEvent(className, object)
	if d == nil {
		return evt.ShouldDelete()
	}
	return d.Dispatch(ctx, evt).ShouldDelete()
}
