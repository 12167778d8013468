package datagrid

import (
	"context"
	"testing"

	"github.com/coderi421/kyuu-admin/internal/errs"
	"github.com/coderi421/kyuu-admin/internal/testapp/entity"
	"github.com/coderi421/kyuu-admin/orm"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Shop struct {
	Id   int64
	Name string
}

type Section struct {
	Id   int64
	Name string
	Shop *Shop `orm:"assoc=many_to_one"`
}

type Item struct {
	Id      int64
	Name    string
	Section *Section `orm:"assoc=many_to_one"`
}

func TestProxyQuery_Finalize(t *testing.T) {
	db := memoryDB(t)

	testCases := []struct {
		name string
		pq   func() *ProxyQuery[entity.Product]
		// wantOrders 最终查询的排序
		wantOrders []string
		wantSQL    string
	}{
		{
			name: "no sort",
			pq: func() *ProxyQuery[entity.Product] {
				return NewProxyQuery(orm.NewSelector[entity.Product](db).From("o"))
			},
			wantOrders: []string{"o.Id ASC"},
			wantSQL:    "SELECT `o`.* FROM `product` AS `o` ORDER BY `o`.`id` ASC;",
		},
		{
			name: "sort by name desc",
			pq: func() *ProxyQuery[entity.Product] {
				pq := NewProxyQuery(orm.NewSelector[entity.Product](db).From("o"))
				require.NoError(t, pq.SetSortBy(nil, FieldMapping{FieldName: "Name"}))
				require.NoError(t, pq.SetSortOrder("DESC"))
				return pq
			},
			wantOrders: []string{"o.Name DESC", "o.Id DESC"},
			wantSQL:    "SELECT `o`.* FROM `product` AS `o` ORDER BY `o`.`name` DESC,`o`.`id` DESC;",
		},
		{
			name: "sort without order",
			pq: func() *ProxyQuery[entity.Product] {
				pq := NewProxyQuery(orm.NewSelector[entity.Product](db).From("o"))
				require.NoError(t, pq.SetSortBy(nil, FieldMapping{FieldName: "Name"}))
				return pq
			},
			wantOrders: []string{"o.Name ASC", "o.Id ASC"},
			wantSQL:    "SELECT `o`.* FROM `product` AS `o` ORDER BY `o`.`name` ASC,`o`.`id` ASC;",
		},
		{
			// 调用方的排序在前，原有的排序在后
			name: "keep existing orders",
			pq: func() *ProxyQuery[entity.Product] {
				pq := NewProxyQuery(orm.NewSelector[entity.Product](db).From("o").
					OrderBy(orm.Desc("o.CurrentPrice")))
				require.NoError(t, pq.SetSortBy([]AssociationMapping{{FieldName: "Category"}},
					FieldMapping{FieldName: "Name"}))
				require.NoError(t, pq.SetSortOrder("asc"))
				return pq
			},
			wantOrders: []string{"s_Category.Name ASC", "o.CurrentPrice DESC", "o.Id ASC"},
			wantSQL: "SELECT `o`.* FROM `product` AS `o`" +
				" LEFT JOIN `category` AS `s_Category` ON `s_Category`.`id` = `o`.`category_id`" +
				" ORDER BY `s_Category`.`name` ASC,`o`.`current_price` DESC,`o`.`id` ASC;",
		},
		{
			name: "identifier already ordered",
			pq: func() *ProxyQuery[entity.Product] {
				return NewProxyQuery(orm.NewSelector[entity.Product](db).From("o").
					OrderBy(orm.Desc("o.Id")))
			},
			wantOrders: []string{"o.Id DESC"},
			wantSQL:    "SELECT `o`.* FROM `product` AS `o` ORDER BY `o`.`id` DESC;",
		},
		{
			name: "unqualified sort field",
			pq: func() *ProxyQuery[entity.Product] {
				pq := NewProxyQuery(orm.NewSelector[entity.Product](db).From("o"))
				pq.sortBy = "Name"
				return pq
			},
			wantOrders: []string{"o.Name ASC", "o.Id ASC"},
			wantSQL:    "SELECT `o`.* FROM `product` AS `o` ORDER BY `o`.`name` ASC,`o`.`id` ASC;",
		},
		{
			name: "clear sort",
			pq: func() *ProxyQuery[entity.Product] {
				pq := NewProxyQuery(orm.NewSelector[entity.Product](db).From("o"))
				require.NoError(t, pq.SetSortBy(nil, FieldMapping{FieldName: "Name"}))
				require.NoError(t, pq.SetSortBy(nil, FieldMapping{}))
				return pq
			},
			wantOrders: []string{"o.Id ASC"},
			wantSQL:    "SELECT `o`.* FROM `product` AS `o` ORDER BY `o`.`id` ASC;",
		},
		{
			name: "pagination",
			pq: func() *ProxyQuery[entity.Product] {
				return NewProxyQuery(orm.NewSelector[entity.Product](db).From("o")).
					SetFirstResult(20).SetMaxResults(10)
			},
			wantOrders: []string{"o.Id ASC"},
			wantSQL:    "SELECT `o`.* FROM `product` AS `o` ORDER BY `o`.`id` ASC LIMIT ? OFFSET ?;",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pq := tc.pq()
			before := pq.QueryBuilder().OrderByParts()

			first, err := pq.Finalize()
			require.NoError(t, err)
			second, err := pq.Finalize()
			require.NoError(t, err)

			assert.Equal(t, tc.wantOrders, orderStrings(first))
			// 多次调用不会累积排序
			assert.Equal(t, orderStrings(first), orderStrings(second))
			// 不会修改被代理的查询
			assert.Equal(t, before, pq.QueryBuilder().OrderByParts())

			q, err := first.Build()
			require.NoError(t, err)
			assert.Equal(t, tc.wantSQL, q.SQL)
		})
	}
}

func TestProxyQuery_Finalize_compositeIdentifier(t *testing.T) {
	db := memoryDB(t)
	pq := NewProxyQuery(orm.NewSelector[entity.ProductAttribute](db).From("a"))
	require.NoError(t, pq.SetSortBy(nil, FieldMapping{FieldName: "Value"}))
	require.NoError(t, pq.SetSortOrder("Desc"))

	q, err := pq.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.Value DESC", "a.Product DESC", "a.Name DESC"}, orderStrings(q))
}

func TestProxyQuery_Finalize_noRootEntity(t *testing.T) {
	db := memoryDB(t)
	pq := NewProxyQuery(orm.NewSelector[entity.Product](db))
	_, err := pq.Finalize()
	assert.ErrorIs(t, err, errs.ErrNoRootEntity)

	_, err = pq.Execute()
	assert.ErrorIs(t, err, errs.ErrNoRootEntity)
}

func TestProxyQuery_EntityJoin(t *testing.T) {
	db := memoryDB(t)

	t.Run("no root alias", func(t *testing.T) {
		pq := NewProxyQuery(orm.NewSelector[Item](db))
		_, err := pq.EntityJoin([]AssociationMapping{{FieldName: "Section"}})
		assert.ErrorIs(t, err, errs.ErrNoRootAlias)
		assert.ErrorIs(t, pq.SetSortBy([]AssociationMapping{{FieldName: "Section"}},
			FieldMapping{FieldName: "Name"}), errs.ErrNoRootAlias)
	})

	t.Run("empty path", func(t *testing.T) {
		pq := NewProxyQuery(orm.NewSelector[Item](db).From("i"))
		alias, err := pq.EntityJoin(nil)
		require.NoError(t, err)
		assert.Equal(t, "i", alias)
		assert.Empty(t, pq.QueryBuilder().JoinParts())
	})

	t.Run("existing join", func(t *testing.T) {
		pq := NewProxyQuery(orm.NewSelector[entity.Product](db).From("o").
			LeftJoin("o.Category", "cat"))
		require.NoError(t, pq.SetSortBy([]AssociationMapping{{FieldName: "Category"}},
			FieldMapping{FieldName: "Name"}))
		assert.Equal(t, "cat.Name", pq.SortBy())
		assert.Equal(t, []orm.Join{{Kind: orm.JoinLeft, Join: "o.Category", Alias: "cat"}},
			pq.QueryBuilder().JoinParts())
	})

	t.Run("repeated path", func(t *testing.T) {
		pq := NewProxyQuery(orm.NewSelector[Item](db).From("i"))
		path := []AssociationMapping{{FieldName: "Section"}, {FieldName: "Shop"}}

		first, err := pq.EntityJoin(path)
		require.NoError(t, err)
		second, err := pq.EntityJoin(path)
		require.NoError(t, err)
		assert.Equal(t, "s_Section_Shop", first)
		assert.Equal(t, first, second)

		prefix, err := pq.EntityJoin(path[:1])
		require.NoError(t, err)
		assert.Equal(t, "s_Section", prefix)

		assert.Equal(t, []orm.Join{
			{Kind: orm.JoinLeft, Join: "i.Section", Alias: "s_Section"},
			{Kind: orm.JoinLeft, Join: "s_Section.Shop", Alias: "s_Section_Shop"},
		}, pq.QueryBuilder().JoinParts())

		require.NoError(t, pq.SetSortBy(path, FieldMapping{FieldName: "Name"}))
		q, err := pq.Finalize()
		require.NoError(t, err)
		query, err := q.Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT `i`.* FROM `item` AS `i`"+
			" LEFT JOIN `section` AS `s_Section` ON `s_Section`.`id` = `i`.`section_id`"+
			" LEFT JOIN `shop` AS `s_Section_Shop` ON `s_Section_Shop`.`id` = `s_Section`.`shop_id`"+
			" ORDER BY `s_Section_Shop`.`name` ASC,`i`.`id` ASC;", query.SQL)
	})
}

func TestProxyQuery_SetSortOrder(t *testing.T) {
	db := memoryDB(t)

	testCases := []struct {
		order     string
		wantOrder string
		wantErr   string
	}{
		{order: "asc", wantOrder: "ASC"},
		{order: "DESC", wantOrder: "DESC"},
		{order: "Desc", wantOrder: "DESC"},
		{order: "up", wantErr: `datagrid: invalid sort order: "up" is not a valid sort order, valid values are "ASC, DESC"`},
		{order: "", wantErr: `datagrid: invalid sort order: "" is not a valid sort order, valid values are "ASC, DESC"`},
	}

	for _, tc := range testCases {
		t.Run(tc.order, func(t *testing.T) {
			pq := NewProxyQuery(orm.NewSelector[entity.Product](db).From("o"))
			err := pq.SetSortOrder(tc.order)
			if tc.wantErr != "" {
				assert.ErrorIs(t, err, errs.ErrInvalidSortOrder)
				assert.EqualError(t, err, tc.wantErr)
				assert.Empty(t, pq.SortOrder())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantOrder, pq.SortOrder())
		})
	}
}

func TestProxyQuery_UniqueParameterID(t *testing.T) {
	db := memoryDB(t)
	pq := NewProxyQuery(orm.NewSelector[entity.Product](db).From("o"))
	for i := 0; i < 5; i++ {
		assert.Equal(t, i, pq.UniqueParameterID())
	}
}

func TestProxyQuery_Hints(t *testing.T) {
	db := memoryDB(t)
	pq := NewProxyQuery(orm.NewSelector[entity.Product](db).From("o")).
		SetHint(HintDistinctCount, false).
		SetHint("unknown", 12)

	hints := pq.Hints()
	assert.Equal(t, map[string]any{HintDistinctCount: false, "unknown": 12}, hints)
	hints["other"] = 1
	assert.Len(t, pq.Hints(), 2)

	pager, err := pq.Execute()
	require.NoError(t, err)
	assert.Equal(t, []string{"o.Id ASC"}, orderStrings(pager.Query()))
}

func TestProxyQuery_Clone(t *testing.T) {
	db := memoryDB(t)
	pq := NewProxyQuery(orm.NewSelector[Item](db).From("i"))
	_, err := pq.EntityJoin([]AssociationMapping{{FieldName: "Section"}})
	require.NoError(t, err)
	assert.Equal(t, 0, pq.UniqueParameterID())
	pq.SetHint("a", 1)

	c := pq.Clone()
	require.NoError(t, c.SetSortBy([]AssociationMapping{{FieldName: "Section"}, {FieldName: "Shop"}},
		FieldMapping{FieldName: "Name"}))
	require.NoError(t, c.SetSortOrder("desc"))
	c.SetHint("b", 2).SetMaxResults(3)
	assert.Equal(t, 1, c.UniqueParameterID())
	assert.Equal(t, 2, c.UniqueParameterID())

	assert.Len(t, pq.QueryBuilder().JoinParts(), 1)
	assert.Len(t, c.QueryBuilder().JoinParts(), 2)
	assert.Equal(t, []string{"s_Section"}, pq.entityJoinAliases)
	assert.Equal(t, []string{"s_Section", "s_Section_Shop"}, c.entityJoinAliases)
	assert.Empty(t, pq.SortBy())
	assert.Empty(t, pq.SortOrder())
	assert.Equal(t, map[string]any{"a": 1}, pq.Hints())
	assert.Equal(t, 0, pq.MaxResults())
	assert.Equal(t, 1, pq.UniqueParameterID())
}

func orderStrings[T any](q *orm.Selector[T]) []string {
	parts := q.OrderByParts()
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		res = append(res, p.String())
	}
	return res
}

func memoryDB(t *testing.T) *orm.DB {
	db, err := orm.Open("sqlite3", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedDB 建表并写入测试数据
func seedDB(t *testing.T, db *orm.DB) {
	ctx := context.Background()
	for _, ddl := range entity.SQLiteSchema {
		require.NoError(t, orm.RawQuery[any](db, ddl).Exec(ctx).Err())
	}
	office := &entity.Category{Id: "office", Name: "Office"}
	books := &entity.Category{Id: "books", Name: "Books"}
	require.NoError(t, orm.NewInserter[entity.Category](db).Values(office, books).Exec(ctx).Err())
	require.NoError(t, orm.NewInserter[entity.Product](db).Values(
		&entity.Product{Id: 1, Name: "pen", CurrentPrice: "1.50", Category: office},
		&entity.Product{Id: 2, Name: "novel", CurrentPrice: "9.90", Category: books},
		&entity.Product{Id: 3, Name: "ink", CurrentPrice: "3.20", Category: office},
		&entity.Product{Id: 4, Name: "gift", CurrentPrice: "5.00"},
		&entity.Product{Id: 5, Name: "atlas", CurrentPrice: "20.00", Category: books},
	).Exec(ctx).Err())
}
