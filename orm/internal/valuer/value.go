package valuer

import (
	"database/sql"
	"reflect"

	"github.com/coderi421/kyuu-admin/internal/errs"
	"github.com/coderi421/kyuu-admin/orm/model"
)

// Value 是对结构体实例的内部抽象
type Value interface {
	// Field 返回字段对应的值。关联字段返回关联实体的主键，也就是外键的值
	Field(name string) (any, error)
	// SetColumns 设置新值
	SetColumns(rows *sql.Rows) error
}

type Creator func(val any, meta *model.Model) Value

// scanHolder 创建接收列数据的容器。
// 关联字段只能拿到外键，所以用 **ID 来接收，NULL 的时候就是 nil
func scanHolder(fd *model.Field) (reflect.Value, error) {
	if fd.Assoc == nil {
		return reflect.New(fd.Type), nil
	}
	idField, ok := fd.Assoc.Target.FieldByName(fd.Assoc.TargetIDField)
	if !ok {
		return reflect.Value{}, errs.ErrNoIdentifier
	}
	return reflect.New(reflect.PtrTo(idField.Type)), nil
}

// assign 把 scanHolder 里面的数据设置到字段上
func assign(dst reflect.Value, fd *model.Field, holder reflect.Value) {
	if fd.Assoc == nil {
		dst.Set(holder.Elem())
		return
	}
	id := holder.Elem()
	if id.IsNil() {
		dst.Set(reflect.Zero(fd.Type))
		return
	}
	// 只带主键的关联实体
	ref := reflect.New(fd.Assoc.Target)
	ref.Elem().FieldByName(fd.Assoc.TargetIDField).Set(id.Elem())
	dst.Set(ref)
}

// foreignKey 取出关联实体的主键
func foreignKey(ref reflect.Value, fd *model.Field) any {
	if ref.IsNil() {
		return nil
	}
	return ref.Elem().FieldByName(fd.Assoc.TargetIDField).Interface()
}
