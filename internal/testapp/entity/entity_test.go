package entity

import (
	"testing"

	"github.com/coderi421/kyuu-admin/orm/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata(t *testing.T) {
	r := model.NewRegistry()

	testCases := []struct {
		name      string
		entity    any
		wantTable string
		wantIDs   []string
		wantCols  []string
	}{
		{
			name:      "category",
			entity:    &Category{},
			wantTable: "category",
			wantIDs:   []string{"Id"},
			wantCols:  []string{"id", "name"},
		},
		{
			name:      "product",
			entity:    &Product{},
			wantTable: "product",
			wantIDs:   []string{"Id"},
			wantCols:  []string{"id", "name", "current_price", "category_id"},
		},
		{
			name:      "product attribute",
			entity:    &ProductAttribute{},
			wantTable: "product_attribute",
			wantIDs:   []string{"Product", "Name"},
			wantCols:  []string{"product_id", "name", "value"},
		},
		{
			name:      "associated entity",
			entity:    &AssociatedEntity{},
			wantTable: "associated_entity",
			wantIDs:   []string{"Id"},
			wantCols:  []string{"id", "plain_field", "enabled"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := r.Get(tc.entity)
			require.NoError(t, err)
			assert.Equal(t, tc.wantTable, m.TableName)
			assert.Equal(t, tc.wantIDs, m.IdentifierFieldNames())
			cols := make([]string, 0, len(m.Fields))
			for _, fd := range m.Fields {
				cols = append(cols, fd.ColName)
			}
			assert.Equal(t, tc.wantCols, cols)
		})
	}
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "Books", (&Category{Id: "books", Name: "Books"}).String())
}
