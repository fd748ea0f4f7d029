package ir

// OperandKind distinguishes the three shapes a parsed-but-not-yet-
// emitted operand can take, mirroring the parser-level Operand the
// spec describes: a literal, an already-emitted instruction (e.g. the
// result of a call), or a variable reference still needing resolution
// against the current block's var_map.
type OperandKind int

const (
	OperandConst OperandKind = iota
	OperandInst
	OperandVar
)

// Operand is what factor/term/expression build before the builder
// resolves it into a Ref against a specific block.
type Operand struct {
	Kind  OperandKind
	Const int
	Inst  int
	Var   int
}

func ConstOperand(v int) Operand { return Operand{Kind: OperandConst, Const: v} }
func InstOperand(id int) Operand { return Operand{Kind: OperandInst, Inst: id} }
func VarOperand(id int) Operand  { return Operand{Kind: OperandVar, Var: id} }

// Ref is a resolved operand slot stored on an instruction: the
// instruction id that defines the value, plus the variable id it was
// read through, if any. The variable tag has no bearing on CSE
// equality; it exists so phi seeding and warnings can trace a value
// back to the variable that produced it.
type Ref struct {
	Inst   int
	Var    int
	HasVar bool
}

func NoVarRef(inst int) Ref  { return Ref{Inst: inst} }
func VarRef(inst, v int) Ref { return Ref{Inst: inst, Var: v, HasVar: true} }
