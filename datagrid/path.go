package datagrid

import (
	"reflect"
	"strings"

	"github.com/coderi421/kyuu-admin/internal/errs"
	"github.com/coderi421/kyuu-admin/orm/model"
)

// ResolvePath 把 "Category.Name" 这种属性路径拆成关联路径和最后的字段。
// path 为空的时候返回空的 FieldMapping
func ResolvePath(r model.Registry, entity any, path string) ([]AssociationMapping, FieldMapping, error) {
	if path == "" {
		return nil, FieldMapping{}, nil
	}
	m, err := r.Get(entity)
	if err != nil {
		return nil, FieldMapping{}, err
	}

	segs := strings.Split(path, ".")
	var parents []AssociationMapping
	for _, seg := range segs[:len(segs)-1] {
		fd, ok := m.FieldMap[seg]
		if !ok {
			return nil, FieldMapping{}, errs.NewErrUnknownField(seg)
		}
		if fd.Assoc == nil {
			return nil, FieldMapping{}, errs.NewErrNotAssociation(seg)
		}
		parents = append(parents, AssociationMapping{FieldName: seg})
		m, err = r.Get(reflect.New(fd.Assoc.Target).Interface())
		if err != nil {
			return nil, FieldMapping{}, err
		}
	}

	last := segs[len(segs)-1]
	if _, ok := m.FieldMap[last]; !ok {
		return nil, FieldMapping{}, errs.NewErrUnknownField(last)
	}
	return parents, FieldMapping{FieldName: last}, nil
}
