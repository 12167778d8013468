package safe

import (
	"context"
	"fmt"

	"github.com/coderi421/kyuu-admin/orm"
)

type MiddlewareBuilder struct {
	// LogFunc 可以为 nil
	LogFunc func(qc *orm.QueryContext, err any)
}

// Build 把查询过程中的 panic 转换成 error
func (m *MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) (res *orm.QueryResult) {
			defer func() {
				if r := recover(); r != nil {
					if m.LogFunc != nil {
						m.LogFunc(qc, r)
					}
					res = &orm.QueryResult{Err: fmt.Errorf("orm: 查询发生 panic: %v", r)}
				}
			}()
			return next(ctx, qc)
		}
	}
}
