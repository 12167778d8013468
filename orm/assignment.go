package orm

// Assignable 标记接口，
// 实现该接口意味着可以用于赋值语句，
// 用于在 UPDATE 中 Assign("FirstName", "DaMing") -> SET `first_name`=?
type Assignable interface {
	assign()
}

type Assignment struct {
	column Column
	val    Expression
}

func Assign(column string, val any) Assignment {
	return Assignment{
		column: C(column),
		val:    exprOf(val),
	}
}

func (a Assignment) assign() {}
