package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPointerOnly 只支持一级指针作为输入
	// 看到这个 error 说明你输入了其它的东西
	// 我们并不希望用户能够直接使用 err == ErrPointerOnly
	// 所以放在我们的 internal 包里
	ErrPointerOnly = errors.New("orm: 只支持一级指针作为输入，例如 *User")

	ErrNoRows                 = errors.New("orm: 没有数据")
	ErrInsertZeroRow          = errors.New("orm: 插入 0 行")
	ErrNoUpdatedColumns       = errors.New("orm: 未指定更新的列")
	ErrTooManyReturnedColumns = errors.New("orm: 过多列")
	ErrNoIdentifier           = errors.New("orm: 实体没有主键字段")

	// ErrNoRootAlias 查询没有通过 From 声明根别名
	ErrNoRootAlias = errors.New("orm: there are not root aliases defined in the query")
	// ErrNoRootEntity 查询没有根实体
	ErrNoRootEntity = errors.New("orm: there are not root entities defined in the query")

	ErrInvalidSortOrder = errors.New("datagrid: invalid sort order")
)

// NewErrUnknownField 返回代表未知字段的错误
func NewErrUnknownField(name string) error {
	return fmt.Errorf("orm: 未知字段 %s", name)
}

// NewErrUnknownColumn 返回代表未知列的错误
func NewErrUnknownColumn(name string) error {
	return fmt.Errorf("orm: 未知列 %s", name)
}

// NewErrUnknownAlias 返回代表查询中未声明的别名的错误
func NewErrUnknownAlias(alias string) error {
	return fmt.Errorf("orm: 未知别名 %s", alias)
}

// NewErrUnknownEntity 元数据中没有注册过的实体
func NewErrUnknownEntity(name string) error {
	return fmt.Errorf("orm: 未知实体 %s", name)
}

// NewErrNotAssociation 字段存在，但不是关联字段，不能 JOIN
func NewErrNotAssociation(field string) error {
	return fmt.Errorf("orm: 字段 %s 不是关联字段", field)
}

// NewErrUnboundParameter 查询中引用了没有绑定值的命名参数
func NewErrUnboundParameter(name string) error {
	return fmt.Errorf("orm: 参数 %s 没有绑定值", name)
}

func NewErrInvalidTagContent(pair string) error {
	return fmt.Errorf("orm: 非法标签值 %s", pair)
}

func NewErrUnsupportedExpressionType(expr any) error {
	return fmt.Errorf("orm: 不支持的表达式 %v", expr)
}

func NewErrUnsupportedSelectable(exp any) error {
	return fmt.Errorf("orm: 不支持的目标列 %v", exp)
}

func NewErrUnsupportedAssignableType(exp any) error {
	return fmt.Errorf("orm: 不支持的 Assignable 表达式 %v", exp)
}

// NewErrInvalidSortOrder 排序方向只能是 ASC 或者 DESC
func NewErrInvalidSortOrder(order string, valid []string) error {
	return fmt.Errorf("%w: %q is not a valid sort order, valid values are %q",
		ErrInvalidSortOrder, order, strings.Join(valid, ", "))
}
