package orm

import (
	"context"

	"github.com/coderi421/kyuu-admin/internal/errs"
	"github.com/coderi421/kyuu-admin/orm/model"
)

type Deleter[T any] struct {
	core
	sess  Session
	where []Predicate
	// identity 不为 nil 的时候，按照它的主键删除
	identity *T
}

// NewDeleter creates a new instance of Deleter.
func NewDeleter[T any](sess Session) *Deleter[T] {
	return &Deleter[T]{
		core: sess.getCore(),
		sess: sess,
	}
}

// Where accepts predicates and adds them to the Deleter's where clause.
func (d *Deleter[T]) Where(predicates ...Predicate) *Deleter[T] {
	d.where = predicates
	return d
}

// ByIdentifier 只删除和 entity 主键相同的那一行
func (d *Deleter[T]) ByIdentifier(entity *T) *Deleter[T] {
	d.identity = entity
	return d
}

// Build generates a DELETE query based on the provided parameters.
func (d *Deleter[T]) Build() (*Query, error) {
	m, err := d.r.Get(new(T))
	if err != nil {
		return nil, err
	}
	b := newBuilder(d.core, m, "")

	b.sb.WriteString("DELETE FROM ")
	b.quote(m.TableName)

	where := d.where
	if d.identity != nil {
		ps, err := identifierPredicates(d.core, m, d.identity)
		if err != nil {
			return nil, err
		}
		where = append(append([]Predicate(nil), where...), ps...)
	}
	if len(where) > 0 {
		b.sb.WriteString(" WHERE ")
		if err = b.buildPredicates(where); err != nil {
			return nil, err
		}
	}

	b.sb.WriteByte(';')
	return b.query(), nil
}

func (d *Deleter[T]) Exec(ctx context.Context) Result {
	m, err := d.r.Get(new(T))
	if err != nil {
		return Result{err: err}
	}
	return exec(ctx, d.sess, d.core, &QueryContext{
		Type:    "DELETE",
		Builder: d,
		Model:   m,
	})
}

// identifierPredicates 用实体的主键值构造 WHERE 条件
func identifierPredicates(c core, m *model.Model, entity any) ([]Predicate, error) {
	if len(m.IDFields) == 0 {
		return nil, errs.ErrNoIdentifier
	}
	val := c.valCreator(entity, m)
	ps := make([]Predicate, 0, len(m.IDFields))
	for _, id := range m.IDFields {
		v, err := val.Field(id)
		if err != nil {
			return nil, err
		}
		ps = append(ps, C(id).EQ(v))
	}
	return ps, nil
}
