package orm

import "github.com/coderi421/kyuu-admin/internal/errs"

// 将内部的 sentinel error 暴露出去
var (
	// ErrNoRows 代表没有找到数据
	ErrNoRows = errs.ErrNoRows
	// ErrNoRootAlias 查询没有根别名
	ErrNoRootAlias = errs.ErrNoRootAlias
	// ErrNoRootEntity 查询没有根实体
	ErrNoRootEntity = errs.ErrNoRootEntity
)
