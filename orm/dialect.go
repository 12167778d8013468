package orm

var (
	MySQL    Dialect = &mysqlDialect{}
	SQLite3  Dialect = &sqlite3Dialect{}
	Standard Dialect = &standardSQL{}
)

type Dialect interface {
	// quoter 返回一个引号，引用列名，表名的引号
	quoter() byte
	// maxLimit 只有 OFFSET 没有 LIMIT 的时候补上的 LIMIT 值，空字符串说明可以省略 LIMIT
	maxLimit() string
}

type standardSQL struct {
}

func (s *standardSQL) quoter() byte {
	return '"'
}

func (s *standardSQL) maxLimit() string {
	return ""
}

type mysqlDialect struct {
	standardSQL
}

func (m *mysqlDialect) quoter() byte {
	return '`'
}

// maxLimit MySQL 文档推荐的写法，也就是 BIGINT UNSIGNED 的最大值
func (m *mysqlDialect) maxLimit() string {
	return "18446744073709551615"
}

type sqlite3Dialect struct {
	standardSQL
}

func (s *sqlite3Dialect) quoter() byte {
	return '`'
}

// maxLimit 负数在 SQLite 里面表示没有上限
func (s *sqlite3Dialect) maxLimit() string {
	return "-1"
}

func dialectOf(driver string) Dialect {
	switch driver {
	case "mysql":
		return MySQL
	case "sqlite3":
		return SQLite3
	default:
		return Standard
	}
}
