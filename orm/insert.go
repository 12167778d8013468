package orm

import (
	"context"

	"github.com/coderi421/kyuu-admin/internal/errs"
	"github.com/coderi421/kyuu-admin/orm/model"
)

type Inserter[T any] struct {
	core
	sess    Session
	values  []*T     // 缓存要插入的数据
	columns []string // 要插入哪些字段，为空的时候是全部字段
}

func NewInserter[T any](sess Session) *Inserter[T] {
	return &Inserter[T]{
		core: sess.getCore(),
		sess: sess,
	}
}

// Values 将插入数据库中的数据
func (i *Inserter[T]) Values(vals ...*T) *Inserter[T] {
	i.values = vals
	return i
}

// Columns 只插入指定的字段
func (i *Inserter[T]) Columns(cols ...string) *Inserter[T] {
	i.columns = cols
	return i
}

func (i *Inserter[T]) Build() (*Query, error) {
	if len(i.values) == 0 {
		return nil, errs.ErrInsertZeroRow
	}
	m, err := i.r.Get(new(T))
	if err != nil {
		return nil, err
	}
	b := newBuilder(i.core, m, "")

	b.sb.WriteString("INSERT INTO ")
	b.quote(m.TableName)
	b.sb.WriteString(" (")

	fields := m.Fields
	if len(i.columns) > 0 {
		fields = make([]*model.Field, 0, len(i.columns))
		for _, c := range i.columns {
			fd, ok := m.FieldMap[c]
			if !ok {
				return nil, errs.NewErrUnknownField(c)
			}
			fields = append(fields, fd)
		}
	}

	for idx, fd := range fields {
		if idx > 0 {
			b.sb.WriteByte(',')
		}
		b.quote(fd.ColName)
	}
	b.sb.WriteString(") VALUES ")

	for j, v := range i.values {
		if j > 0 {
			b.sb.WriteByte(',')
		}
		val := i.valCreator(v, m)
		b.sb.WriteByte('(')
		for idx, fd := range fields {
			if idx > 0 {
				b.sb.WriteByte(',')
			}
			b.sb.WriteByte('?')
			arg, err := val.Field(fd.GoName)
			if err != nil {
				return nil, err
			}
			b.addArgs(arg)
		}
		b.sb.WriteByte(')')
	}

	b.sb.WriteByte(';')
	return b.query(), nil
}

func (i *Inserter[T]) Exec(ctx context.Context) Result {
	m, err := i.r.Get(new(T))
	if err != nil {
		return Result{err: err}
	}
	return exec(ctx, i.sess, i.core, &QueryContext{
		Type:    "INSERT",
		Builder: i,
		Model:   m,
	})
}
