package ir

// RunPostPasses runs the fixed post-construction sequence spec §4.10-12
// requires: CSE, then trivial-phi elimination, then CSE again (to mop
// up redundancies the phi removal exposes), then empty-block filling.
func (b *Builder) RunPostPasses() {
	b.cse()
	b.removeTrivialPhis()
	b.cse()
	b.fillEmptyBlocks()
}

// cse iterates instructions in reverse emission order; for each that
// still belongs to a block and carries a dom-link, it walks the dom-
// chain for an equal dominating instruction, renames every reference
// to the later one onto the earlier, and detaches the later one.
func (b *Builder) cse() {
	for id := b.Insts.len() - 1; id >= 0; id-- {
		inst := b.Insts.get(id)
		if inst.IsEliminated() || inst.Dom == none {
			continue
		}
		if survivor, found := b.Insts.matchSame(inst, inst.Dom); found {
			b.Insts.rename(id, survivor)
			b.Blocks.get(inst.Block).removeInst(id)
			b.Insts.detach(id)
		}
	}
}

// removeTrivialPhis iterates in reverse; any phi whose two operands
// are already the same instruction is a copy and is renamed away.
func (b *Builder) removeTrivialPhis() {
	for id := b.Insts.len() - 1; id >= 0; id-- {
		inst := b.Insts.get(id)
		if inst.IsEliminated() || inst.Kind != Phi {
			continue
		}
		if inst.Op1.Inst == inst.Op2.Inst {
			b.Insts.rename(id, inst.Op1.Inst)
			b.Blocks.get(inst.Block).removeInst(id)
			b.Insts.detach(id)
		}
	}
}

// fillEmptyBlocks gives every block whose emitted-instruction list is
// empty a single Empty instruction, so DOT and textual emitters
// always have something to label.
func (b *Builder) fillEmptyBlocks() {
	for _, block := range b.Blocks.all() {
		if block.emittedLen(b.Insts) == 0 {
			id := b.Insts.add(Empty, none, block.ID)
			block.Insts = append(block.Insts, id)
		}
	}
}
