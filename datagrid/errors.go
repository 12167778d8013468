package datagrid

import "github.com/coderi421/kyuu-admin/internal/errs"

var (
	// ErrInvalidSortOrder 排序方向不是 ASC 或者 DESC
	ErrInvalidSortOrder = errs.ErrInvalidSortOrder
	ErrNoRootAlias      = errs.ErrNoRootAlias
	ErrNoRootEntity     = errs.ErrNoRootEntity
)
