package event

// Stoppable 可以停止传播的事件，监听器调用 StopPropagation 之后，后面的监听器不会再收到它
type Stoppable interface {
	IsPropagationStopped() bool
}

// Propagation 嵌入到事件里面，提供停止传播的能力
type Propagation struct {
	stopped bool
}

func (p *Propagation) StopPropagation() {
	p.stopped = true
}

func (p *Propagation) IsPropagationStopped() bool {
	return p.stopped
}

// PreObjectDeleteBatchEvent 批量删除之前，每个要删除的对象都会触发一次。
// 任何一个监听器都可以调用 PreventDelete 阻止删除这个对象
type PreObjectDeleteBatchEvent struct {
	Propagation
	className string
	object    any
	// preventDelete 零值表示可以删除
	preventDelete bool
}

func NewPreObjectDeleteBatchEvent(className string, object any) *PreObjectDeleteBatchEvent {
	return &PreObjectDeleteBatchEvent{
		className: className,
		object:    object,
	}
}

// ClassName 实体的名字
func (e *PreObjectDeleteBatchEvent) ClassName() string {
	return e.className
}

func (e *PreObjectDeleteBatchEvent) Object() any {
	return e.object
}

// PreventDelete 不删除这个对象，并且停止传播
func (e *PreObjectDeleteBatchEvent) PreventDelete() {
	e.preventDelete = true
	e.StopPropagation()
}

func (e *PreObjectDeleteBatchEvent) ShouldDelete() bool {
	return !e.preventDelete
}
