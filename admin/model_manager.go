package admin

import (
	"context"
	"fmt"
	"os"

	"github.com/coderi421/kyuu-admin/datagrid"
	"github.com/coderi421/kyuu-admin/event"
	"github.com/coderi421/kyuu-admin/orm"
	"github.com/coderi421/kyuu-admin/orm/model"
	"github.com/gotomicro/ekit/slice"
	"github.com/rs/zerolog"
)

type options struct {
	logger     zerolog.Logger
	dispatcher *event.Dispatcher[*event.PreObjectDeleteBatchEvent]
}

type ManagerOption func(o *options)

func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDispatcher 批量删除之前会通过它询问每个对象是否可以删除
func WithDispatcher(d *event.Dispatcher[*event.PreObjectDeleteBatchEvent]) ManagerOption {
	return func(o *options) {
		o.dispatcher = d
	}
}

// ModelManager 管理后台对一种实体的增删改查
type ModelManager[T any] struct {
	options
	db   *orm.DB
	meta *model.Model
}

func NewModelManager[T any](db *orm.DB, opts ...ManagerOption) (*ModelManager[T], error) {
	meta, err := orm.ModelOf[T](db)
	if err != nil {
		return nil, err
	}
	res := &ModelManager[T]{
		options: options{
			logger: zerolog.New(os.Stderr).With().Timestamp().Logger(),
		},
		db:   db,
		meta: meta,
	}
	for _, opt := range opts {
		opt(&res.options)
	}
	res.logger = res.logger.With().Str("entity", meta.Name).Logger()
	return res, nil
}

// ClassName 实体的名字，例如 Product
func (m *ModelManager[T]) ClassName() string {
	return m.meta.Name
}

// IdentifierFieldNames 主键字段，按照声明顺序
func (m *ModelManager[T]) IdentifierFieldNames() []string {
	return m.meta.IdentifierFieldNames()
}

// CreateQuery 列表页使用的查询，alias 是根实体的别名
func (m *ModelManager[T]) CreateQuery(alias string) *datagrid.ProxyQuery[T] {
	return datagrid.NewProxyQuery(orm.NewSelector[T](m.db).From(alias))
}

// Find 按照主键查找，ids 的顺序和 IdentifierFieldNames 一致
func (m *ModelManager[T]) Find(ctx context.Context, ids ...any) (*T, error) {
	fields := m.meta.IdentifierFieldNames()
	if len(fields) == 0 || len(ids) != len(fields) {
		return nil, fmt.Errorf("admin: %s 需要 %d 个主键值，实际 %d 个", m.meta.Name, len(fields), len(ids))
	}
	ps := make([]orm.Predicate, 0, len(fields))
	for i, fd := range fields {
		ps = append(ps, orm.C(fd).EQ(ids[i]))
	}
	return orm.NewSelector[T](m.db).Where(ps...).Get(ctx)
}

func (m *ModelManager[T]) Create(ctx context.Context, entity *T) error {
	if err := orm.NewInserter[T](m.db).Values(entity).Exec(ctx).Err(); err != nil {
		return fmt.Errorf("admin: 创建 %s 失败: %w", m.meta.Name, err)
	}
	return nil
}

// Update 按照主键更新除主键以外的全部字段
func (m *ModelManager[T]) Update(ctx context.Context, entity *T) error {
	assigns := make([]orm.Assignable, 0, len(m.meta.Fields))
	for _, fd := range m.meta.Fields {
		if m.isIdentifier(fd.GoName) {
			continue
		}
		assigns = append(assigns, orm.C(fd.GoName))
	}
	err := orm.NewUpdater[T](m.db).Update(entity).Set(assigns...).
		ByIdentifier(entity).Exec(ctx).Err()
	if err != nil {
		return fmt.Errorf("admin: 更新 %s 失败: %w", m.meta.Name, err)
	}
	return nil
}

func (m *ModelManager[T]) Delete(ctx context.Context, entity *T) error {
	if err := orm.NewDeleter[T](m.db).ByIdentifier(entity).Exec(ctx).Err(); err != nil {
		return fmt.Errorf("admin: 删除 %s 失败: %w", m.meta.Name, err)
	}
	return nil
}

// BatchDelete 删除 pq 查到的所有对象，忽略分页。
// 每个对象删除之前都会触发 PreObjectDeleteBatchEvent，被阻止的对象会跳过。
// 所有的删除在一个事务里面，任何一个失败都会回滚。返回删除的个数
func (m *ModelManager[T]) BatchDelete(ctx context.Context, pq *datagrid.ProxyQuery[T]) (int, error) {
	q, err := pq.Finalize()
	if err != nil {
		return 0, err
	}
	objs, err := q.SetFirstResult(0).SetMaxResults(0).GetMulti(ctx)
	if err != nil {
		return 0, fmt.Errorf("admin: 批量删除 %s 失败: %w", m.meta.Name, err)
	}

	deleted, skipped := 0, 0
	err = m.db.DoTx(ctx, func(ctx context.Context, tx *orm.Tx) error {
		for _, obj := range objs {
			if !event.ShouldDelete(ctx, m.dispatcher, m.meta.Name, obj) {
				skipped++
				continue
			}
			if err := orm.NewDeleter[T](tx).ByIdentifier(obj).Exec(ctx).Err(); err != nil {
				return err
			}
			deleted++
		}
		return nil
	}, nil)
	if err != nil {
		m.logger.Error().Err(err).Int("matched", len(objs)).Msg("batch delete rolled back")
		return 0, fmt.Errorf("admin: 批量删除 %s 失败: %w", m.meta.Name, err)
	}
	m.logger.Info().Int("deleted", deleted).Int("skipped", skipped).Msg("batch delete")
	return deleted, nil
}

func (m *ModelManager[T]) isIdentifier(field string) bool {
	return slice.Contains(m.meta.IDFields, field)
}
