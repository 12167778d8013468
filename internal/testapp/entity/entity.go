// Package entity 测试用的实体
package entity

type Category struct {
	Id   string `orm:"pk=true"`
	Name string
}

func (c *Category) String() string {
	return c.Name
}

type Product struct {
	Id   int64
	Name string
	// CurrentPrice 定点小数，保存成字符串，例如 "12.50"
	CurrentPrice string
	Category     *Category `orm:"assoc=many_to_one"`
}

// ProductAttribute 主键是 Product 和 Name
type ProductAttribute struct {
	Product *Product `orm:"assoc=many_to_one,pk=true"`
	Name    string   `orm:"pk=true"`
	Value   string
}

type EmbeddedEntity struct {
	Enabled bool
}

type AssociatedEntity struct {
	EmbeddedEntity
	Id         int64
	PlainField int
}

// SQLiteSchema 上面实体对应的表
var SQLiteSchema = []string{
	`CREATE TABLE category (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT ''
)`,
	`CREATE TABLE product (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	current_price TEXT NOT NULL DEFAULT '0.0',
	category_id TEXT NULL REFERENCES category(id)
)`,
	`CREATE TABLE product_attribute (
	product_id INTEGER NOT NULL REFERENCES product(id),
	name TEXT NOT NULL,
	value TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (product_id, name)
)`,
	`CREATE TABLE associated_entity (
	id INTEGER PRIMARY KEY,
	enabled BOOLEAN NOT NULL DEFAULT 0,
	plain_field INTEGER NOT NULL DEFAULT 0
)`,
}
