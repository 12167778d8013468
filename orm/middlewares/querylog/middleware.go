package querylog

import (
	"context"
	"os"
	"time"

	"github.com/coderi421/kyuu-admin/orm"
	"github.com/rs/zerolog"
)

type MiddlewareBuilder struct {
	logFunc func(query string, args []any, err error)
	logger  zerolog.Logger
	// slowThreshold 大于 0 的时候，只记录耗时超过它的查询
	slowThreshold time.Duration
}

func NewBuilder() *MiddlewareBuilder {
	return &MiddlewareBuilder{
		logger: zerolog.New(os.Stderr).With().Timestamp().Str("component", "orm").Logger(),
	}
}

// LogFunc 自定义怎么输出，设置之后不再使用 logger。
// err 是查询的执行结果，SlowThreshold 同样生效
func (m *MiddlewareBuilder) LogFunc(fn func(query string, args []any, err error)) *MiddlewareBuilder {
	m.logFunc = fn
	return m
}

func (m *MiddlewareBuilder) Logger(logger zerolog.Logger) *MiddlewareBuilder {
	m.logger = logger
	return m
}

func (m *MiddlewareBuilder) SlowThreshold(threshold time.Duration) *MiddlewareBuilder {
	m.slowThreshold = threshold
	return m
}

func (m *MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			q, err := qc.Builder.Build()
			if err != nil {
				// 构造失败的查询不会发到数据库
				return next(ctx, qc)
			}
			start := time.Now()
			res := next(ctx, qc)
			duration := time.Since(start)
			if duration < m.slowThreshold {
				return res
			}

			if m.logFunc != nil {
				m.logFunc(q.SQL, q.Args, res.Err)
				return res
			}

			evt := m.logger.Debug()
			if res.Err != nil {
				evt = m.logger.Error().Err(res.Err)
			}
			evt.Str("type", qc.Type).
				Str("sql", q.SQL).
				Interface("args", q.Args).
				Dur("duration", duration).
				Msg("query")
			return res
		}
	}
}
