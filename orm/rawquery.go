package orm

import (
	"context"
)

// RawQuerier 执行原生 SQL。T 是结果要映射到的结构体
type RawQuerier[T any] struct {
	core
	sess Session
	sql  string
	args []any
}

func RawQuery[T any](sess Session, query string, args ...any) *RawQuerier[T] {
	return &RawQuerier[T]{
		core: sess.getCore(),
		sess: sess,
		sql:  query,
		args: args,
	}
}

func (r *RawQuerier[T]) Build() (*Query, error) {
	return &Query{
		SQL:  r.sql,
		Args: r.args,
	}, nil
}

// Exec 不需要映射结果，所以不解析 T 的元数据，例如建表语句
func (r *RawQuerier[T]) Exec(ctx context.Context) Result {
	return exec(ctx, r.sess, r.core, &QueryContext{
		Type:    "RAW",
		Builder: r,
	})
}

func (r *RawQuerier[T]) Get(ctx context.Context) (*T, error) {
	m, err := r.r.Get(new(T))
	if err != nil {
		return nil, err
	}
	res := get[T](ctx, r.sess, r.core, &QueryContext{
		Type:    "RAW",
		Builder: r,
		Model:   m,
	})
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Result.(*T), nil
}

func (r *RawQuerier[T]) GetMulti(ctx context.Context) ([]*T, error) {
	m, err := r.r.Get(new(T))
	if err != nil {
		return nil, err
	}
	res := getMulti[T](ctx, r.sess, r.core, &QueryContext{
		Type:    "RAW",
		Builder: r,
		Model:   m,
	})
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Result.([]*T), nil
}
