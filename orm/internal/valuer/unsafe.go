package valuer

import (
	"database/sql"
	"reflect"
	"unsafe"

	"github.com/coderi421/kyuu-admin/internal/errs"
	"github.com/coderi421/kyuu-admin/orm/model"
)

type unsafeValue struct {
	addr unsafe.Pointer // 使用 unsafe Pointer 而不是 uintptr 是因为 gc 后 uintptr 会发生变化
	meta *model.Model
}

var _ Creator = NewUnsafeValue

func NewUnsafeValue(val any, meta *model.Model) Value {
	return unsafeValue{
		addr: unsafe.Pointer(reflect.ValueOf(val).Pointer()),
		meta: meta,
	}
}

func (u unsafeValue) field(fd *model.Field) reflect.Value {
	ptr := unsafe.Pointer(uintptr(u.addr) + fd.Offset)
	return reflect.NewAt(fd.Type, ptr).Elem()
}

func (u unsafeValue) Field(name string) (any, error) {
	fd, ok := u.meta.FieldMap[name]
	if !ok {
		return nil, errs.NewErrUnknownField(name)
	}
	val := u.field(fd)
	if fd.Assoc != nil {
		return foreignKey(val, fd), nil
	}
	return val.Interface(), nil
}

func (u unsafeValue) SetColumns(rows *sql.Rows) error {
	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	if len(columns) > len(u.meta.ColumnMap) {
		return errs.ErrTooManyReturnedColumns
	}

	colValues := make([]any, len(columns))
	var assocs []int
	holders := make([]reflect.Value, len(columns))
	for i, column := range columns {
		fd, ok := u.meta.ColumnMap[column]
		if !ok {
			return errs.NewErrUnknownColumn(column)
		}
		if fd.Assoc != nil {
			holders[i], err = scanHolder(fd)
			if err != nil {
				return err
			}
			colValues[i] = holders[i].Interface()
			assocs = append(assocs, i)
			continue
		}
		// 普通字段直接把内存地址交给 Scan
		colValues[i] = reflect.NewAt(fd.Type, unsafe.Pointer(uintptr(u.addr)+fd.Offset)).Interface()
	}

	if err = rows.Scan(colValues...); err != nil {
		return err
	}
	for _, i := range assocs {
		fd := u.meta.ColumnMap[columns[i]]
		assign(u.field(fd), fd, holders[i])
	}
	return nil
}
