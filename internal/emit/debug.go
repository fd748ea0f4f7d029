package emit

import "pl241/internal/ir"

// DebugDump renders whatever state the builder reached before a parse
// failure: every block created so far and every instruction it holds,
// including Assignment markers (unlike Text/DOT, which filter them
// out) since this output exists purely to help diagnose the failure.
func DebugDump(b *ir.Builder) string {
	p := &printer{}
	p.writeLine("-- builder state at failure --")
	p.writeLine("blocks: %d  instructions: %d", len(b.AllBlocks()), b.NumInstructions())
	for _, block := range b.AllBlocks() {
		p.writeLine("BB%d (dom=%d):", block.ID, block.Dom)
		for _, id := range block.Insts {
			inst := b.Instruction(id)
			if inst.Kind == ir.Assignment {
				p.writeLine("  %d: assignment(var %d)", inst.ID, inst.AssignVar)
				continue
			}
			p.writeLine("  %s", inst.Text())
		}
	}
	return p.String()
}
