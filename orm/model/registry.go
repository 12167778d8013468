package model

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/coderi421/kyuu-admin/internal/errs"
)

type Registry interface {
	Get(val any) (*Model, error)
	Register(val any, opts ...Option) (*Model, error)
	// Metadata 按照实体名查找已经注册过的元数据
	Metadata(entity string) (*Model, error)
}

type registry struct {
	// reflect.Type 可以解决命名冲突的问题
	models sync.Map
	// names 实体名到元数据的索引。同名的类型后注册的会覆盖前面的
	names sync.Map
}

func NewRegistry() Registry {
	return &registry{}
}

// Get fetches the model associated with a given value.
// If the model is not found in the registry, it is parsed and stored for future use.
func (r *registry) Get(val any) (*Model, error) {
	typ := reflect.TypeOf(val)

	m, ok := r.models.Load(typ)
	if ok {
		return m.(*Model), nil
	}

	return r.Register(val)
}

// Metadata looks a model up by its entity name.
func (r *registry) Metadata(entity string) (*Model, error) {
	m, ok := r.names.Load(entity)
	if !ok {
		return nil, errs.NewErrUnknownEntity(entity)
	}
	return m.(*Model), nil
}

// Register registers a model in the registry with the given options.
// It parses the model and applies the provided options before storing it.
func (r *registry) Register(val any, opts ...Option) (*Model, error) {
	m, err := r.parseModel(val)
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		err = opt(m)
		if err != nil {
			return nil, err
		}
	}

	r.models.Store(reflect.TypeOf(val), m)
	r.names.Store(m.Name, m)

	return m, nil
}

// parseModel parses a given value and returns a new model or an error.
// orm:"key1=value1,key2=value2"
func (r *registry) parseModel(val any) (*Model, error) {
	typ := reflect.TypeOf(val)

	// Only support one-level pointer as input, e.g. *User does not support **User and User
	if typ.Kind() != reflect.Ptr || typ.Elem().Kind() != reflect.Struct {
		return nil, errs.ErrPointerOnly
	}
	typ = typ.Elem()

	m := &Model{
		Name:      typ.Name(),
		FieldMap:  make(map[string]*Field, typ.NumField()),
		ColumnMap: make(map[string]*Field, typ.NumField()),
	}
	if err := r.parseFields(m, typ, nil, 0); err != nil {
		return nil, err
	}

	for _, fd := range m.Fields {
		if fd.Primary {
			m.IDFields = append(m.IDFields, fd.GoName)
		}
	}
	// 没有显式声明主键的时候，约定 Id 字段就是主键
	if len(m.IDFields) == 0 {
		if fd, ok := defaultIdentifier(m.FieldMap); ok {
			fd.Primary = true
			m.IDFields = []string{fd.GoName}
		}
	}

	var tableName string
	if tn, ok := val.(TableName); ok {
		tableName = tn.TableName()
	}
	if tableName == "" {
		tableName = underscoreName(typ.Name())
	}
	m.TableName = tableName

	return m, nil
}

// parseFields 处理 typ 的字段。嵌入的结构体会被展开，外层同名字段优先
func (r *registry) parseFields(m *Model, typ reflect.Type, index []int, offset uintptr) error {
	var embedded []reflect.StructField
	for i := 0; i < typ.NumField(); i++ {
		fdStruct := typ.Field(i)
		if !fdStruct.IsExported() {
			continue
		}
		if fdStruct.Anonymous && fdStruct.Type.Kind() == reflect.Struct {
			embedded = append(embedded, fdStruct)
			continue
		}
		if _, ok := m.FieldMap[fdStruct.Name]; ok {
			continue
		}

		tags, err := r.parseTag(fdStruct.Tag)
		if err != nil {
			return err
		}

		f := &Field{
			GoName:  fdStruct.Name,
			Type:    fdStruct.Type,
			Index:   appendIndex(index, fdStruct.Index...),
			Offset:  offset + fdStruct.Offset,
			Primary: tags[tagKeyPK] == "true",
		}

		if kind, ok := tags[tagKeyAssoc]; ok {
			if kind != AssocManyToOne ||
				fdStruct.Type.Kind() != reflect.Ptr || fdStruct.Type.Elem().Kind() != reflect.Struct {
				return errs.NewErrInvalidTagContent(tagKeyAssoc + "=" + kind)
			}
			target := fdStruct.Type.Elem()
			idField := identifierOf(target)
			if idField == "" {
				// 关联实体没有主键，外键没法映射
				return errs.ErrNoIdentifier
			}
			f.Assoc = &Association{
				Kind:          kind,
				Target:        target,
				TargetIDField: idField,
			}
		}

		colName := tags[tagKeyColumn]
		if colName == "" {
			colName = underscoreName(fdStruct.Name)
			if f.Assoc != nil {
				colName += "_id"
			}
		}
		f.ColName = colName

		m.Fields = append(m.Fields, f)
		m.FieldMap[f.GoName] = f
		m.ColumnMap[f.ColName] = f
	}

	for _, fdStruct := range embedded {
		err := r.parseFields(m, fdStruct.Type,
			appendIndex(index, fdStruct.Index...), offset+fdStruct.Offset)
		if err != nil {
			return err
		}
	}
	return nil
}

// parseTag parses the given struct tag and returns a map of key-value pairs.
func (r *registry) parseTag(tag reflect.StructTag) (map[string]string, error) {
	ormTag := tag.Get(tagORMName)
	if ormTag == "" {
		// Return an empty map so that the caller doesn't need to check for nil
		return map[string]string{}, nil
	}

	pairs := strings.Split(ormTag, ",")
	res := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		kv := strings.Split(pair, "=")
		if len(kv) != 2 {
			return nil, errs.NewErrInvalidTagContent(pair)
		}
		res[kv[0]] = kv[1]
	}

	return res, nil
}

// identifierOf 找出关联目标的主键字段名，不会去注册目标类型，避免自关联的时候无限递归
func identifierOf(typ reflect.Type) string {
	fds := make(map[string]*Field, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if strings.Contains(sf.Tag.Get(tagORMName), tagKeyPK+"=true") {
			return sf.Name
		}
		fds[sf.Name] = &Field{GoName: sf.Name}
	}
	if fd, ok := defaultIdentifier(fds); ok {
		return fd.GoName
	}
	return ""
}

func defaultIdentifier(fds map[string]*Field) (*Field, bool) {
	if fd, ok := fds["Id"]; ok {
		return fd, true
	}
	fd, ok := fds["ID"]
	return fd, ok
}

func appendIndex(prefix []int, idx ...int) []int {
	res := make([]int, 0, len(prefix)+len(idx))
	res = append(res, prefix...)
	return append(res, idx...)
}

// underscoreName converts a given table name to underscore case.
// UserName -> user_name
func underscoreName(tableName string) string {
	var buf []byte
	for i, v := range tableName {
		if unicode.IsUpper(v) {
			if i != 0 {
				buf = append(buf, '_')
			}
			buf = append(buf, byte(unicode.ToLower(v)))
		} else {
			buf = append(buf, byte(v))
		}
	}
	return string(buf)
}

// WithTableName is a Option function that sets the table name for a Model.
func WithTableName(tableName string) Option {
	return func(model *Model) error {
		model.TableName = tableName
		return nil
	}
}

// WithColumnName returns an Option which sets the column name for a specific Field in a model.
func WithColumnName(field, columnName string) Option {
	return func(model *Model) error {
		fd, ok := model.FieldMap[field]
		if !ok {
			return errs.NewErrUnknownField(field)
		}
		delete(model.ColumnMap, fd.ColName)
		fd.ColName = columnName
		model.ColumnMap[columnName] = fd
		return nil
	}
}

// WithIdentifier overrides the identifier fields, keeping the given order.
func WithIdentifier(fields ...string) Option {
	return func(model *Model) error {
		for _, fd := range model.Fields {
			fd.Primary = false
		}
		ids := make([]string, 0, len(fields))
		for _, name := range fields {
			fd, ok := model.FieldMap[name]
			if !ok {
				return errs.NewErrUnknownField(name)
			}
			fd.Primary = true
			ids = append(ids, name)
		}
		model.IDFields = ids
		return nil
	}
}
