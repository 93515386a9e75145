// ast.go: typed syntax trees produced by the parser
package tong

// Expr is the interface implemented by all expression nodes.
type Expr interface{ exprNode() }

type (
	// StrLit is a string literal.
	StrLit struct{ Val string }
	// IntLit is an integer literal.
	IntLit struct{ Val int64 }
	// FloatLit is a floating-point literal.
	FloatLit struct{ Val float64 }
	// BoolLit is a boolean literal.
	BoolLit struct{ Val bool }
	// Ident is a variable or function reference.
	Ident struct{ Name string }
	// Binary is a binary operation.
	Binary struct {
		Op    BinOp
		Left  Expr
		Right Expr
	}
	// ArrayLit is an array literal.
	ArrayLit struct{ Elems []Expr }
	// Call is a plain call by name.
	Call struct {
		Callee string
		Args   []Expr
	}
	// CtorCall constructs a data value.
	CtorCall struct {
		Name string
		Args []Expr
	}
	// MethodCall invokes a named field of an object value.
	MethodCall struct {
		Target Expr
		Method string
		Args   []Expr
	}
	// Property reads a named field of an object value.
	Property struct {
		Target Expr
		Name   string
	}
	// Lambda is an anonymous function literal.
	Lambda struct {
		Params []string
		Body   Expr
	}
	// Index is arr[i].
	Index struct {
		Target Expr
		Idx    Expr
	}
	// UnaryNeg is prefix '-'.
	UnaryNeg struct{ Operand Expr }
	// UnaryNot is prefix '!'.
	UnaryNot struct{ Operand Expr }
	// MatchExpr evaluates its scrutinee against ordered arms.
	MatchExpr struct {
		Scrutinee Expr
		Arms      []MatchArm
	}
	// ListComp is [elem | x in xs, y in ys if pred].
	ListComp struct {
		Elem       Expr
		Generators []Generator
		Pred       Expr // nil when absent
	}
	// BlockExpr is a statement sequence in expression position.
	BlockExpr struct{ Stmts []Stmt }
)

// MatchArm is one alternative of a match expression.
type MatchArm struct {
	Pat   Pattern
	Guard Expr // nil when absent
	Body  Expr
}

// Generator is one 'name in source' binding of a list comprehension.
type Generator struct {
	Name   string
	Source Expr
}

func (*StrLit) exprNode()     {}
func (*IntLit) exprNode()     {}
func (*FloatLit) exprNode()   {}
func (*BoolLit) exprNode()    {}
func (*Ident) exprNode()      {}
func (*Binary) exprNode()     {}
func (*ArrayLit) exprNode()   {}
func (*Call) exprNode()       {}
func (*CtorCall) exprNode()   {}
func (*MethodCall) exprNode() {}
func (*Property) exprNode()   {}
func (*Lambda) exprNode()     {}
func (*Index) exprNode()      {}
func (*UnaryNeg) exprNode()   {}
func (*UnaryNot) exprNode()   {}
func (*MatchExpr) exprNode()  {}
func (*ListComp) exprNode()   {}
func (*BlockExpr) exprNode()  {}

// BinOp identifies a binary operator.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

var binOpNames = map[BinOp]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpAnd: "&", OpOr: "||",
}

func (op BinOp) String() string { return binOpNames[op] }

// Pattern is the interface implemented by all pattern nodes.
type Pattern interface{ patternNode() }

type (
	// WildcardPat matches anything, binding nothing.
	WildcardPat struct{}
	// BindPat matches anything, binding the value to Name.
	BindPat struct{ Name string }
	// IntPat matches an exact integer.
	IntPat struct{ Val int64 }
	// BoolPat matches an exact boolean.
	BoolPat struct{ Val bool }
	// CtorPat matches a constructor value by tag and field count.
	CtorPat struct {
		Name  string
		Arity int
		Sub   []Pattern
	}
	// TuplePat matches an array of the same length element-wise.
	TuplePat struct{ Sub []Pattern }
)

func (*WildcardPat) patternNode() {}
func (*BindPat) patternNode()     {}
func (*IntPat) patternNode()      {}
func (*BoolPat) patternNode()     {}
func (*CtorPat) patternNode()     {}
func (*TuplePat) patternNode()    {}

// Stmt is the interface implemented by all statement nodes.
type Stmt interface{ stmtNode() }

type (
	// LetStmt binds a name.
	LetStmt struct {
		Name string
		Val  Expr
	}
	// DestructureStmt binds several names from an array value.
	DestructureStmt struct {
		Names []string
		Val   Expr
	}
	// AssignStmt rebinds a name.
	AssignStmt struct {
		Name string
		Val  Expr
	}
	// IndexAssignStmt is name[i] = v with copy-on-write rebinding.
	IndexAssignStmt struct {
		Name string
		Idx  Expr
		Val  Expr
	}
	// PrintStmt formats and prints its arguments joined by spaces.
	PrintStmt struct{ Args []Expr }
	// FnMainStmt is the distinguished zero-parameter main body.
	FnMainStmt struct{ Body []Stmt }
	// FnDefStmt defines or redefines a plain function.
	FnDefStmt struct {
		Name   string
		Params []string
		Body   []Stmt
	}
	// FnGuardedStmt appends one guarded clause.
	FnGuardedStmt struct {
		Name   string
		Params []string
		Guard  Expr
		Body   []Stmt
	}
	// FnPatternStmt appends one pattern-parameter clause.
	FnPatternStmt struct {
		Name     string
		Patterns []Pattern
		Guard    Expr // nil when absent
		Body     []Stmt
	}
	// ImportStmt binds a name to a builtin module.
	ImportStmt struct {
		Name   string
		Module string
	}
	// ReturnStmt returns a value from the enclosing function or block.
	ReturnStmt struct{ Val Expr }
	// IfStmt is a conditional with optional else body.
	IfStmt struct {
		Cond Expr
		Then []Stmt
		Else []Stmt // nil when absent
	}
	// WhileStmt repeats its body while the condition holds.
	WhileStmt struct {
		Cond Expr
		Body []Stmt
	}
	// ParallelStmt runs its body statements sequentially in source order.
	// The keyword promises more than the runtime delivers; see DESIGN.md.
	ParallelStmt struct{ Body []Stmt }
	// ExprStmt evaluates an expression for effect (and block value).
	ExprStmt struct{ E Expr }
	// DataDeclStmt declares an algebraic data type.
	DataDeclStmt struct {
		TypeName string
		Ctors    []CtorDecl
	}
)

// CtorDecl is one constructor of a data declaration.
type CtorDecl struct {
	Name  string
	Arity int
}

func (*LetStmt) stmtNode()         {}
func (*DestructureStmt) stmtNode() {}
func (*AssignStmt) stmtNode()      {}
func (*IndexAssignStmt) stmtNode() {}
func (*PrintStmt) stmtNode()       {}
func (*FnMainStmt) stmtNode()      {}
func (*FnDefStmt) stmtNode()       {}
func (*FnGuardedStmt) stmtNode()   {}
func (*FnPatternStmt) stmtNode()   {}
func (*ImportStmt) stmtNode()      {}
func (*ReturnStmt) stmtNode()      {}
func (*IfStmt) stmtNode()          {}
func (*WhileStmt) stmtNode()       {}
func (*ParallelStmt) stmtNode()    {}
func (*ExprStmt) stmtNode()        {}
func (*DataDeclStmt) stmtNode()    {}

// Program is an ordered statement sequence.
type Program struct {
	Stmts []Stmt
}

// stmtKind names a statement for debug traces.
func stmtKind(s Stmt) string {
	switch s.(type) {
	case *LetStmt:
		return "let"
	case *DestructureStmt:
		return "let-tuple"
	case *AssignStmt:
		return "assign"
	case *IndexAssignStmt:
		return "index-assign"
	case *PrintStmt:
		return "print"
	case *FnMainStmt:
		return "fn-main"
	case *FnDefStmt:
		return "fn-def"
	case *FnGuardedStmt:
		return "fn-guarded"
	case *FnPatternStmt:
		return "fn-pattern"
	case *ImportStmt:
		return "import"
	case *ReturnStmt:
		return "return"
	case *IfStmt:
		return "if"
	case *WhileStmt:
		return "while"
	case *ParallelStmt:
		return "parallel"
	case *ExprStmt:
		return "expr"
	case *DataDeclStmt:
		return "data"
	default:
		return "unknown"
	}
}
