package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type product struct {
	Id   int64
	Name string
}

func TestPreObjectDeleteBatchEvent(t *testing.T) {
	p := &product{Id: 1}
	evt := NewPreObjectDeleteBatchEvent("Product", p)
	assert.Equal(t, "Product", evt.ClassName())
	assert.Same(t, p, evt.Object())
	assert.True(t, evt.ShouldDelete())
	assert.False(t, evt.IsPropagationStopped())

	evt.PreventDelete()
	assert.False(t, evt.ShouldDelete())
	assert.True(t, evt.IsPropagationStopped())
}

func TestDispatcher_Dispatch(t *testing.T) {
	testCases := []struct {
		name string
		// listeners 每个监听器的行为，true 表示阻止删除
		listeners  []bool
		wantCalled int
		wantDelete bool
	}{
		{
			name:       "no listener",
			wantDelete: true,
		},
		{
			name:       "all allow",
			listeners:  []bool{false, false, false},
			wantCalled: 3,
			wantDelete: true,
		},
		{
			// 第二个阻止之后，第三个不会被调用
			name:       "prevent in the middle",
			listeners:  []bool{false, true, false},
			wantCalled: 2,
			wantDelete: false,
		},
		{
			name:       "prevent first",
			listeners:  []bool{true, false},
			wantCalled: 1,
			wantDelete: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDispatcher[*PreObjectDeleteBatchEvent]()
			called := 0
			for _, prevent := range tc.listeners {
				prevent := prevent
				d.Listen(func(ctx context.Context, evt *PreObjectDeleteBatchEvent) {
					called++
					if prevent {
						evt.PreventDelete()
					}
				})
			}
			assert.Equal(t, len(tc.listeners) > 0, d.HasListeners())
			res := ShouldDelete(context.Background(), d, "Product", &product{Id: 1})
			assert.Equal(t, tc.wantDelete, res)
			assert.Equal(t, tc.wantCalled, called)
		})
	}
}

func TestDispatcher_priority(t *testing.T) {
	d := NewDispatcher[*PreObjectDeleteBatchEvent]()
	var order []string
	d.AddListener(ListenerFunc[*PreObjectDeleteBatchEvent](func(ctx context.Context, evt *PreObjectDeleteBatchEvent) {
		order = append(order, "low")
	}), -10)
	d.Listen(func(ctx context.Context, evt *PreObjectDeleteBatchEvent) {
		order = append(order, "default-1")
	})
	d.AddListener(ListenerFunc[*PreObjectDeleteBatchEvent](func(ctx context.Context, evt *PreObjectDeleteBatchEvent) {
		order = append(order, "high")
		// 只阻止名字是 locked 的对象
		if evt.Object().(*product).Name == "locked" {
			evt.PreventDelete()
		}
	}), 10)
	d.Listen(func(ctx context.Context, evt *PreObjectDeleteBatchEvent) {
		order = append(order, "default-2")
	})

	assert.True(t, ShouldDelete(context.Background(), d, "Product", &product{Name: "pen"}))
	assert.Equal(t, []string{"high", "default-1", "default-2", "low"}, order)

	order = nil
	assert.False(t, ShouldDelete(context.Background(), d, "Product", &product{Name: "locked"}))
	assert.Equal(t, []string{"high"}, order)
}

func TestShouldDelete_nilDispatcher(t *testing.T) {
	assert.True(t, ShouldDelete(context.Background(), nil, "Product", &product{}))
}
