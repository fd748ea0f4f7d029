package ir

import "fmt"

// Text renders a single instruction the way main.ssa and the DOT
// node labels show it: one line, naming its kind and numeric operand
// references. Assignment markers render empty — callers filter them
// out before printing, matching spec's "never in emitted IR" rule.
func (inst *Instruction) Text() string {
	switch inst.Kind {
	case Const:
		return fmt.Sprintf("%d: const #%d", inst.ID, inst.ConstVal)
	case Add, Sub, Mul, Div, Cmp:
		return fmt.Sprintf("%d: %s (%d) (%d)", inst.ID, inst.Kind, inst.Op1.Inst, inst.Op2.Inst)
	case Phi:
		return fmt.Sprintf("%d: phi (%d) (%d)", inst.ID, inst.Op1.Inst, inst.Op2.Inst)
	case Bra:
		return fmt.Sprintf("%d: bra (%d)", inst.ID, inst.Target)
	case Beq, Bne, Blt, Ble, Bgt, Bge:
		return fmt.Sprintf("%d: %s (%d) (%d)", inst.ID, inst.Kind, inst.CondInst, inst.Target)
	case Jsr:
		return fmt.Sprintf("%d: jsr (%d)", inst.ID, inst.CallTarget)
	case Ret:
		if inst.HasRetVal {
			return fmt.Sprintf("%d: ret (%d)", inst.ID, inst.RetVal.Inst)
		}
		return fmt.Sprintf("%d: ret", inst.ID)
	case GetPar1, GetPar2, GetPar3:
		return fmt.Sprintf("%d: %s", inst.ID, inst.Kind)
	case SetPar1, SetPar2, SetPar3:
		return fmt.Sprintf("%d: %s (%d)", inst.ID, inst.Kind, inst.ArgVal.Inst)
	case Read:
		return fmt.Sprintf("%d: read", inst.ID)
	case Write:
		return fmt.Sprintf("%d: write (%d)", inst.ID, inst.ArgVal.Inst)
	case WriteNL:
		return fmt.Sprintf("%d: writeNL", inst.ID)
	case End:
		return fmt.Sprintf("%d: end", inst.ID)
	case Empty:
		return fmt.Sprintf("%d: empty", inst.ID)
	case Assignment:
		return ""
	}
	return fmt.Sprintf("%d: <unknown>", inst.ID)
}
