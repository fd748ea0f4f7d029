package emit

import "pl241/internal/ir"

// Text renders main.ssa: one instruction per line, blocks separated
// by a blank line, in block-id order. Assignment markers are omitted;
// Empty is kept so every block contributes at least one line.
func Text(b *ir.Builder) string {
	p := &printer{}
	blocks := b.AllBlocks()
	for i, block := range blocks {
		if i > 0 {
			p.write("\n")
		}
		p.writeLine("BB%d:", block.ID)
		for _, id := range block.Insts {
			inst := b.Instruction(id)
			if inst.Kind == ir.Assignment {
				continue
			}
			p.writeLine("  %s", inst.Text())
		}
	}
	return p.String()
}
