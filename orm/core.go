package orm

import (
	"context"
	"database/sql"

	"github.com/coderi421/kyuu-admin/orm/internal/valuer"
	"github.com/coderi421/kyuu-admin/orm/model"
)

type core struct {
	dialect    Dialect
	r          model.Registry // 存储数据库表和 struct 映射关系的实例
	valCreator valuer.Creator // 与DB交互映射的实现
	mdls       []Middleware
}

// chain 用中间件把 root 包起来，先注册的在最外层
func (c core) chain(root Handler) Handler {
	handler := root
	for i := len(c.mdls) - 1; i >= 0; i-- {
		handler = c.mdls[i](handler)
	}
	return handler
}

func get[T any](ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	return c.chain(func(ctx context.Context, qc *QueryContext) *QueryResult {
		return getHandler[T](ctx, sess, c, qc)
	})(ctx, qc)
}

func getHandler[T any](ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	q, err := qc.Builder.Build()
	if err != nil {
		return &QueryResult{Err: err}
	}

	rows, err := sess.queryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return &QueryResult{Err: err}
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return &QueryResult{Err: err}
		}
		return &QueryResult{Err: ErrNoRows}
	}

	tp := new(T)
	if err = c.valCreator(tp, qc.Model).SetColumns(rows); err != nil {
		return &QueryResult{Err: err}
	}
	return &QueryResult{Result: tp}
}

func getMulti[T any](ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	return c.chain(func(ctx context.Context, qc *QueryContext) *QueryResult {
		return getMultiHandler[T](ctx, sess, c, qc)
	})(ctx, qc)
}

func getMultiHandler[T any](ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	q, err := qc.Builder.Build()
	if err != nil {
		return &QueryResult{Err: err}
	}

	rows, err := sess.queryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return &QueryResult{Err: err}
	}
	defer func() { _ = rows.Close() }()

	res := make([]*T, 0, 16)
	for rows.Next() {
		tp := new(T)
		if err = c.valCreator(tp, qc.Model).SetColumns(rows); err != nil {
			return &QueryResult{Err: err}
		}
		res = append(res, tp)
	}
	return &QueryResult{Result: res, Err: rows.Err()}
}

func exec(ctx context.Context, sess Session, c core, qc *QueryContext) Result {
	res := c.chain(func(ctx context.Context, qc *QueryContext) *QueryResult {
		q, err := qc.Builder.Build()
		if err != nil {
			return &QueryResult{Err: err}
		}
		r, err := sess.execContext(ctx, q.SQL, q.Args...)
		return &QueryResult{Result: r, Err: err}
	})(ctx, qc)

	sqlRes, _ := res.Result.(sql.Result)
	return Result{err: res.Err, res: sqlRes}
}

// ModelOf 返回 T 的元数据
func ModelOf[T any](sess Session) (*model.Model, error) {
	return sess.getCore().r.Get(new(T))
}
