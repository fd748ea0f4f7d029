package ir

// Kind tags the operation an Instruction performs. The IR uses one
// struct for every instruction, tagged by Kind, rather than one Go
// type per kind: the operation set is a closed tagged union (spec
// calls it exactly that) whose variants mostly share the same operand
// shape, so a single struct with a kind discriminant is the more
// direct translation than a type-per-kind interface.
type Kind int

const (
	Const Kind = iota
	Add
	Sub
	Mul
	Div
	Cmp
	Bra
	Beq
	Bne
	Blt
	Ble
	Bgt
	Bge
	Phi
	Jsr
	Ret
	GetPar1
	GetPar2
	GetPar3
	SetPar1
	SetPar2
	SetPar3
	Read
	Write
	WriteNL
	End
	Empty
	Assignment
)

var kindNames = [...]string{
	Const: "const", Add: "add", Sub: "sub", Mul: "mul", Div: "div", Cmp: "cmp",
	Bra: "bra", Beq: "beq", Bne: "bne", Blt: "blt", Ble: "ble", Bgt: "bgt", Bge: "bge",
	Phi: "phi", Jsr: "jsr", Ret: "ret",
	GetPar1: "getpar1", GetPar2: "getpar2", GetPar3: "getpar3",
	SetPar1: "setpar1", SetPar2: "setpar2", SetPar3: "setpar3",
	Read: "read", Write: "write", WriteNL: "writeNL",
	End: "end", Empty: "empty", Assignment: "assignment",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// isCondBranch reports the kinds that carry a condition instruction
// and a branch target filled in after the target block is known.
func (k Kind) isCondBranch() bool {
	switch k {
	case Beq, Bne, Blt, Ble, Bgt, Bge:
		return true
	}
	return false
}

// participatesInCSE reports kinds that take part in the op_map
// dom-chain CSE lookup: only arithmetic and Cmp do (spec §4.1/§4.10).
func (k Kind) participatesInCSE() bool {
	switch k {
	case Add, Sub, Mul, Div, Cmp:
		return true
	}
	return false
}

const none = -1

// Instruction is the single representation for every operation kind.
// Fields not meaningful for a given Kind are left zero.
type Instruction struct {
	ID    int
	Kind  Kind
	Block int // owning block id, or none once eliminated by CSE
	Dom   int // dom-chain predecessor of the same operation class, or none

	ConstVal int // Const

	Op1, Op2 Ref // Add/Sub/Mul/Div/Cmp operands; Phi's two incoming values

	PhiVar int // Phi: destination variable id

	CondInst int // conditional branch: the Cmp this branch tests
	Target   int // branch target block id, or none until resolved

	CallTarget int  // Jsr: callee entry block id
	RetVal     Ref  // Ret
	HasRetVal  bool // Ret: whether a value was returned

	ArgVal Ref // SetPar1..3 / Write: the argument

	AssignVar int // Assignment: the variable this marker records a binding for
}

func (inst *Instruction) IsEliminated() bool { return inst.Block == none }

// IsTerminator reports whether this instruction ends a block's
// control flow (branch family, Bra, Ret, End).
func (inst *Instruction) IsTerminator() bool {
	switch inst.Kind {
	case Bra, Beq, Bne, Blt, Ble, Bgt, Bge, Ret, End:
		return true
	}
	return false
}

// sameOperationClass is the CSE equality rule from spec §3: kinds
// match and operand instruction ids match positionally. Add/Mul are
// deliberately not treated commutatively. Phi additionally compares
// its destination variable, matching the original's PartialEq.
func sameOperationClass(a, b *Instruction) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Add, Sub, Mul, Div, Cmp:
		return a.Op1.Inst == b.Op1.Inst && a.Op2.Inst == b.Op2.Inst
	case Phi:
		return a.PhiVar == b.PhiVar && a.Op1.Inst == b.Op1.Inst && a.Op2.Inst == b.Op2.Inst
	default:
		return false
	}
}
