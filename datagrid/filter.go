package datagrid

import (
	"fmt"
	"strings"

	"github.com/coderi421/kyuu-admin/orm"
)

// Filter 把用户输入的值变成查询条件，value 为空的时候不会被调用
type Filter[T any] func(pq *ProxyQuery[T], value string) error

// LikeFilter 模糊匹配，path 可以穿过关联，例如 "Category.Name"
func LikeFilter[T any](path string) Filter[T] {
	return func(pq *ProxyQuery[T], value string) error {
		col, err := filterColumn(pq, path)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%s_%d", strings.ReplaceAll(path, ".", "_"), pq.UniqueParameterID())
		pq.QueryBuilder().
			AndWhere(orm.C(col).Like(orm.P(name))).
			SetParameter(name, "%"+value+"%")
		return nil
	}
}

// EqualFilter 精确匹配
func EqualFilter[T any](path string) Filter[T] {
	return func(pq *ProxyQuery[T], value string) error {
		col, err := filterColumn(pq, path)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%s_%d", strings.ReplaceAll(path, ".", "_"), pq.UniqueParameterID())
		pq.QueryBuilder().
			AndWhere(orm.C(col).EQ(orm.P(name))).
			SetParameter(name, value)
		return nil
	}
}

// filterColumn 返回带别名的列，需要的时候会 JOIN 关联
func filterColumn[T any](pq *ProxyQuery[T], path string) (string, error) {
	parents, field, err := ResolvePath(pq.QueryBuilder().Registry(), new(T), path)
	if err != nil {
		return "", err
	}
	alias, err := pq.EntityJoin(parents)
	if err != nil {
		return "", err
	}
	return alias + "." + field.FieldName, nil
}
