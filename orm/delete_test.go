package orm

import (
	"testing"

	"github.com/coderi421/kyuu-admin/internal/errs"
	"github.com/stretchr/testify/assert"
)

type ProductAttribute struct {
	Product *Product `orm:"assoc=many_to_one,pk=true"`
	Name    string   `orm:"pk=true"`
	Value   string
}

type NoIdentifier struct {
	Name string
}

func TestDeleter_Build(t *testing.T) {
	db := memoryDB(t)

	testCases := []struct {
		name      string
		builder   QueryBuilder
		wantErr   error
		wantQuery *Query
	}{
		{
			name:    "no where",
			builder: NewDeleter[TestModel](db),
			wantQuery: &Query{
				SQL: "DELETE FROM `test_model`;",
			},
		},
		{
			name:    "where",
			builder: NewDeleter[TestModel](db).Where(C("Id").EQ(16)),
			wantQuery: &Query{
				SQL:  "DELETE FROM `test_model` WHERE `id` = ?;",
				Args: []any{16},
			},
		},
		{
			name:    "by identifier",
			builder: NewDeleter[TestModel](db).ByIdentifier(&TestModel{Id: 12, FirstName: "Tom"}),
			wantQuery: &Query{
				SQL:  "DELETE FROM `test_model` WHERE `id` = ?;",
				Args: []any{int64(12)},
			},
		},
		{
			name: "composite identifier",
			builder: NewDeleter[ProductAttribute](db).
				ByIdentifier(&ProductAttribute{Product: &Product{Id: 3}, Name: "color"}),
			wantQuery: &Query{
				SQL:  "DELETE FROM `product_attribute` WHERE (`product_id` = ?) AND (`name` = ?);",
				Args: []any{int64(3), "color"},
			},
		},
		{
			name: "where and identifier",
			builder: NewDeleter[TestModel](db).
				Where(C("Age").GT(18)).
				ByIdentifier(&TestModel{Id: 12}),
			wantQuery: &Query{
				SQL:  "DELETE FROM `test_model` WHERE (`age` > ?) AND (`id` = ?);",
				Args: []any{18, int64(12)},
			},
		},
		{
			name:    "no identifier",
			builder: NewDeleter[NoIdentifier](db).ByIdentifier(&NoIdentifier{}),
			wantErr: errs.ErrNoIdentifier,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, err := tc.builder.Build()
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.wantQuery, query)
		})
	}
}
