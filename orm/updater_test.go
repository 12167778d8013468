package orm

import (
	"context"
	"testing"

	"github.com/coderi421/kyuu-admin/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdater_Build(t *testing.T) {
	db := memoryDB(t)

	testCases := []struct {
		name      string
		u         QueryBuilder
		wantQuery *Query
		wantErr   error
	}{
		{
			name:    "no columns",
			u:       NewUpdater[TestModel](db),
			wantErr: errs.ErrNoUpdatedColumns,
		},
		{
			name: "single column",
			u: NewUpdater[TestModel](db).Update(&TestModel{Age: 18}).
				Set(C("Age")),
			wantQuery: &Query{
				SQL:  "UPDATE `test_model` SET `age`=?;",
				Args: []any{int8(18)},
			},
		},
		{
			name: "assignment",
			u: NewUpdater[TestModel](db).Update(&TestModel{FirstName: "Tom"}).
				Set(C("FirstName"), Assign("Age", 30)).
				Where(C("Id").EQ(1)),
			wantQuery: &Query{
				SQL:  "UPDATE `test_model` SET `first_name`=?,`age`=? WHERE `id` = ?;",
				Args: []any{"Tom", 30, 1},
			},
		},
		{
			name: "by identifier",
			u: NewUpdater[Product](db).Update(&Product{Name: "pen", Category: &Category{Id: "office"}}).
				Set(C("Name"), C("Category")).
				ByIdentifier(&Product{Id: 7}),
			wantQuery: &Query{
				SQL:  "UPDATE `product` SET `name`=?,`category_id`=? WHERE `id` = ?;",
				Args: []any{"pen", "office", int64(7)},
			},
		},
		{
			name:    "column without value",
			u:       NewUpdater[TestModel](db).Set(C("Age")),
			wantErr: errs.NewErrUnsupportedAssignableType(C("Age")),
		},
		{
			name:    "invalid column",
			u:       NewUpdater[TestModel](db).Update(&TestModel{}).Set(C("Invalid")),
			wantErr: errs.NewErrUnknownField("Invalid"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := tc.u.Build()
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.wantQuery, q)
		})
	}
}

func TestUpdater_Exec(t *testing.T) {
	db := memoryDB(t)
	ctx := context.Background()
	createProductTables(t, db)

	require.NoError(t, NewInserter[Product](db).Values(&Product{Id: 1, Name: "pen"}).Exec(ctx).Err())

	res := NewUpdater[Product](db).Update(&Product{Name: "ink"}).
		Set(C("Name")).
		ByIdentifier(&Product{Id: 1}).
		Exec(ctx)
	require.NoError(t, res.Err())
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	p, err := NewSelector[Product](db).Where(C("Id").EQ(1)).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ink", p.Name)

	res = NewDeleter[Product](db).ByIdentifier(p).Exec(ctx)
	require.NoError(t, res.Err())
	_, err = NewSelector[Product](db).Where(C("Id").EQ(1)).Get(ctx)
	assert.Equal(t, ErrNoRows, err)
}
