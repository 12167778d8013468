package orm

import (
	"context"

	"github.com/coderi421/kyuu-admin/internal/errs"
)

type Updater[T any] struct {
	core
	sess    Session
	assigns []Assignable
	val     *T // 更新用的结构体
	where   []Predicate
	// identity 不为 nil 的时候，按照它的主键更新
	identity *T
}

func NewUpdater[T any](sess Session) *Updater[T] {
	return &Updater[T]{
		core: sess.getCore(),
		sess: sess,
	}
}

func (u *Updater[T]) Update(t *T) *Updater[T] {
	u.val = t
	return u
}

// Set 指定要更新的列。Column 表示使用 Update 传入的结构体上的值
func (u *Updater[T]) Set(assigns ...Assignable) *Updater[T] {
	u.assigns = assigns
	return u
}

func (u *Updater[T]) Where(ps ...Predicate) *Updater[T] {
	u.where = ps
	return u
}

// ByIdentifier 只更新和 entity 主键相同的那一行
func (u *Updater[T]) ByIdentifier(entity *T) *Updater[T] {
	u.identity = entity
	return u
}

func (u *Updater[T]) Build() (*Query, error) {
	if len(u.assigns) == 0 {
		return nil, errs.ErrNoUpdatedColumns
	}

	m, err := u.r.Get(new(T))
	if err != nil {
		return nil, err
	}
	b := newBuilder(u.core, m, "")

	b.sb.WriteString("UPDATE ")
	b.quote(m.TableName)
	b.sb.WriteString(" SET ")
	for i, a := range u.assigns {
		if i > 0 {
			b.sb.WriteByte(',')
		}
		switch assign := a.(type) {
		case Column:
			if u.val == nil {
				return nil, errs.NewErrUnsupportedAssignableType(assign)
			}
			if err = b.buildColumn(assign); err != nil {
				return nil, err
			}
			b.sb.WriteString("=?")
			arg, err := u.valCreator(u.val, m).Field(assign.name)
			if err != nil {
				return nil, err
			}
			b.addArgs(arg)
		case Assignment:
			if err = b.buildColumn(assign.column); err != nil {
				return nil, err
			}
			b.sb.WriteByte('=')
			if err = b.buildExpression(assign.val); err != nil {
				return nil, err
			}
		default:
			return nil, errs.NewErrUnsupportedAssignableType(a)
		}
	}

	where := u.where
	if u.identity != nil {
		ps, err := identifierPredicates(u.core, m, u.identity)
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

func (u *Updater[T]) Exec(ctx context.Context) Result {
	m, err := u.r.Get(new(T))
	if err != nil {
		return Result{err: err}
	}
	return exec(ctx, u.sess, u.core, &QueryContext{
		Type:    "UPDATE",
		Builder: u,
		Model:   m,
	})
}
