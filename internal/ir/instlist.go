package ir

// InstList is the append-only instruction store: every instruction
// the builder ever creates lives here at a stable id for the lifetime
// of the program, even after CSE detaches it from its block.
type InstList struct {
	insts []Instruction
}

func newInstList() *InstList {
	return &InstList{}
}

// add appends a new instruction and returns its id. dom is the
// dom-chain predecessor to search from on a future matchSame call,
// or none if this kind doesn't participate in CSE.
func (l *InstList) add(kind Kind, dom, block int) int {
	id := len(l.insts)
	l.insts = append(l.insts, Instruction{ID: id, Kind: kind, Block: block, Dom: dom, Target: none, CondInst: none, CallTarget: none})
	return id
}

func (l *InstList) get(id int) *Instruction { return &l.insts[id] }

func (l *InstList) len() int { return len(l.insts) }

// matchSame walks the dom-chain starting at startingFrom, returning
// the first instruction whose kind is equal under sameOperationClass
// to candidate. Absence of a hit returns (0, false).
func (l *InstList) matchSame(candidate *Instruction, startingFrom int) (int, bool) {
	id := startingFrom
	for id != none {
		other := l.get(id)
		if sameOperationClass(candidate, other) {
			return id, true
		}
		id = other.Dom
	}
	return 0, false
}

// rename rewrites every operand reference from -> to across all
// instructions, including phi operands, branch condition operands,
// and Ret. O(N * operands).
func (l *InstList) rename(from, to int) {
	if from == to {
		return
	}
	for i := range l.insts {
		inst := &l.insts[i]
		switch inst.Kind {
		case Add, Sub, Mul, Div, Cmp, Phi:
			if inst.Op1.Inst == from {
				inst.Op1.Inst = to
			}
			if inst.Op2.Inst == from {
				inst.Op2.Inst = to
			}
		case Beq, Bne, Blt, Ble, Bgt, Bge:
			if inst.CondInst == from {
				inst.CondInst = to
			}
		case Ret:
			if inst.HasRetVal && inst.RetVal.Inst == from {
				inst.RetVal.Inst = to
			}
		case SetPar1, SetPar2, SetPar3, Write:
			if inst.ArgVal.Inst == from {
				inst.ArgVal.Inst = to
			}
		}
	}
}

// detach clears the owning block of an instruction, marking it
// eliminated. The instruction stays in the store at its id so renames
// already pointing at it remain valid; they will themselves be
// rewritten to the surviving id before any consumer reads them.
func (l *InstList) detach(id int) {
	l.insts[id].Block = none
}
