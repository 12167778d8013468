package valuer

import (
	"database/sql"
	"reflect"

	"github.com/coderi421/kyuu-admin/internal/errs"
	"github.com/coderi421/kyuu-admin/orm/model"
)

// reflectValue 基于反射的 Value
type reflectValue struct {
	val  reflect.Value
	meta *model.Model
}

var _ Creator = NewReflectValue

// NewReflectValue 返回一个封装好的，基于反射实现的 Value
// 输入 val 必须是一个指向结构体实例的指针，而不能是任何其它类型
func NewReflectValue(val any, meta *model.Model) Value {
	return reflectValue{
		val:  reflect.ValueOf(val).Elem(),
		meta: meta,
	}
}

func (r reflectValue) Field(name string) (any, error) {
	fd, ok := r.meta.FieldMap[name]
	if !ok {
		return nil, errs.NewErrUnknownField(name)
	}
	val := r.val.FieldByIndex(fd.Index)
	if fd.Assoc != nil {
		return foreignKey(val, fd), nil
	}
	return val.Interface(), nil
}

// SetColumns sets the values from the database to the corresponding struct.
func (r reflectValue) SetColumns(rows *sql.Rows) error {
	columnNames, err := rows.Columns()
	if err != nil {
		return err
	}

	if len(columnNames) > len(r.meta.FieldMap) {
		return errs.ErrTooManyReturnedColumns
	}

	// colValues 和 holders 实质上最终都指向同一个对象
	colValues := make([]any, len(columnNames))
	holders := make([]reflect.Value, len(columnNames))
	fields := make([]*model.Field, len(columnNames))
	for i, name := range columnNames {
		fd, ok := r.meta.ColumnMap[name]
		if !ok {
			return errs.NewErrUnknownColumn(name)
		}
		holder, err := scanHolder(fd)
		if err != nil {
			return err
		}
		colValues[i] = holder.Interface()
		holders[i] = holder
		fields[i] = fd
	}

	if err = rows.Scan(colValues...); err != nil {
		return err
	}

	for i, fd := range fields {
		assign(r.val.FieldByIndex(fd.Index), fd, holders[i])
	}
	return nil
}
