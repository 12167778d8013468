package orm

import (
	"context"

	"github.com/coderi421/kyuu-admin/orm/model"
)

// QueryContext 中间件的上下文。
// 冗余了 Builder 和 Model，是因为还没有执行 sql 前，有的中间件需要使用这些信息
type QueryContext struct {
	// Type 声明查询类型。即 SELECT, UPDATE, DELETE, INSERT 和 RAW
	Type string

	// builder 使用的时候，大多数情况下你需要转换到具体的类型
	// 才能篡改查询
	Builder QueryBuilder
	// Model 根实体的元数据，RAW 查询的时候可能为 nil
	Model *model.Model
}

type QueryResult struct {
	// Result 在不同的查询里面，类型是不同的
	// Selector.Get 里面，这会是单个结果
	// Selector.GetMulti，这会是一个切片
	// Selector.Count 里面是 int64
	// 其它情况下，它会是 sql.Result 类型
	Result any
	Err    error
}

type Middleware func(next Handler) Handler

type Handler func(ctx context.Context, qc *QueryContext) *QueryResult
