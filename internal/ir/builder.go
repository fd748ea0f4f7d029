// Package ir implements the SSA/CFG construction core: the
// instruction and block stores, the control-flow frame stack, the
// constant pool, and the Builder that a recursive-descent parser
// drives to build a dominator-tree-linked control-flow graph in
// static single assignment form, with on-the-fly common subexpression
// elimination and trivial-phi cleanup.
package ir

import (
	"sort"

	"pl241/internal/diag"
	"pl241/internal/token"
)

// Builder owns every data structure the construction algorithm needs
// and exposes the semantic actions a parser calls at each grammar
// production: expression evaluation, assignment (with phi
// propagation), function calls, if/while control flow, and function
// declarations. It is single-threaded and non-suspending — there is
// no shared mutable state and no reentrancy, matching the non-goal of
// any concurrency model for this subsystem.
type Builder struct {
	Insts  *InstList
	Blocks *BlockList

	constMap map[int]int // literal value -> Const instruction id
	funcMap  map[int]int // function-name variable id -> entry block id

	frames  frameStack
	current *Block

	names   func(id int) string
	diag    *diag.Reporter
}

// NewBuilder creates block 0 (the constant pool) and block 1 (main's
// entry), matching the two reserved blocks spec names. names resolves
// an interned identifier id to its source text, for warning messages.
func NewBuilder(reporter *diag.Reporter, names func(id int) string) *Builder {
	b := &Builder{
		Insts:    newInstList(),
		Blocks:   newBlockList(),
		constMap: make(map[int]int),
		funcMap:  make(map[int]int),
		names:    names,
		diag:     reporter,
	}
	block0 := b.Blocks.add()
	block1 := b.Blocks.addFrom(block0)
	b.current = block1
	return b
}

// Current returns the block the builder is currently emitting into.
func (b *Builder) Current() *Block { return b.current }

// MainEntry is block 1, where the builder's cursor resets to after
// every function declaration is parsed.
func (b *Builder) MainEntry() *Block { return b.Blocks.get(1) }

// ConstantPool is block 0.
func (b *Builder) ConstantPool() *Block { return b.Blocks.get(0) }

// AllBlocks exposes the block store for emitters and debug dumps.
func (b *Builder) AllBlocks() []*Block { return b.Blocks.all() }

// Instruction exposes a single instruction by id, for emitters.
func (b *Builder) Instruction(id int) *Instruction { return b.Insts.get(id) }

// NumInstructions is the instruction store's length.
func (b *Builder) NumInstructions() int { return b.Insts.len() }

// FuncEntry looks up a declared function's entry block by its name
// variable id.
func (b *Builder) FuncEntry(nameVar int) (int, bool) {
	id, ok := b.funcMap[nameVar]
	return id, ok
}

// ---- constant pool ----

// getConst returns the canonical Const instruction for value v,
// creating it in block 0 on first reference.
func (b *Builder) getConst(v int) int {
	if id, ok := b.constMap[v]; ok {
		return id
	}
	pool := b.Blocks.get(0)
	id := b.Insts.add(Const, none, pool.ID)
	b.Insts.get(id).ConstVal = v
	pool.Insts = append(pool.Insts, id)
	b.constMap[v] = id
	return id
}

// ---- operand resolution ----

// resolveOperand materializes a parser-level Operand into a concrete
// Ref against block: constants go through the pool, already-resolved
// instructions pass through unchanged, and variables are looked up
// (and, if necessary, warned about and defaulted) via varToVal.
func (b *Builder) resolveOperand(op Operand, block *Block) Ref {
	switch op.Kind {
	case OperandConst:
		return NoVarRef(b.getConst(op.Const))
	case OperandInst:
		return NoVarRef(op.Inst)
	case OperandVar:
		return b.varToVal(block, op.Var)
	default:
		return NoVarRef(b.getConst(0))
	}
}

// varToVal looks up var in block's var_map. A present, bound entry
// returns its definition directly. A declared-but-unbound or never-
// declared entry logs a warning, binds var to Const(0) in block, and
// returns that.
func (b *Builder) varToVal(block *Block, v int) Ref {
	if binding, ok := block.VarMap[v]; ok && binding.Bound {
		return Ref{Inst: binding.Inst, Var: v, HasVar: true}
	}
	b.diag.Warnf("Variable %s is not initialized", b.names(v))
	constID := b.getConst(0)
	block.VarMap[v] = VarBinding{Bound: true, Inst: constID}
	return Ref{Inst: constID, Var: v, HasVar: true}
}

// ---- generic instruction emission ----

// addInstRaw creates an instruction that never participates in dom-
// chain CSE (branches, Jsr, Ret, Read/Write/WriteNL, End, Empty,
// GetPar/SetPar), appending it to block.
func (b *Builder) addInstRaw(kind Kind, block *Block) int {
	id := b.Insts.add(kind, none, block.ID)
	block.Insts = append(block.Insts, id)
	return id
}

// addInstCSE creates an Add/Sub/Mul/Div/Cmp instruction with its dom-
// link set from block's op_map, appends it, and updates block's
// op_map so later instructions in the same block see it as the
// latest dominating instruction of this class.
func (b *Builder) addInstCSE(kind Kind, r1, r2 Ref, block *Block) int {
	dom := none
	if d, ok := block.OpMap[kind]; ok {
		dom = d
	}
	id := b.Insts.add(kind, dom, block.ID)
	inst := b.Insts.get(id)
	inst.Op1, inst.Op2 = r1, r2
	block.Insts = append(block.Insts, id)
	block.OpMap[kind] = id
	return id
}

// ---- expressions (factor/term/expression, §4.3) ----

// Compute implements constant folding: if both operands are literals
// the fold happens here and no instruction is emitted; otherwise both
// operands are materialized and a single Add/Sub/Mul/Div is emitted
// into the current block.
func (b *Builder) Compute(kind Kind, a, c Operand) Operand {
	if a.Kind == OperandConst && c.Kind == OperandConst {
		return ConstOperand(fold(kind, a.Const, c.Const))
	}
	r1 := b.resolveOperand(a, b.current)
	r2 := b.resolveOperand(c, b.current)
	id := b.addInstCSE(kind, r1, r2, b.current)
	return InstOperand(id)
}

func fold(kind Kind, a, c int) int {
	switch kind {
	case Add:
		return a + c
	case Sub:
		return a - c
	case Mul:
		return a * c
	case Div:
		if c == 0 {
			return 0
		}
		return a / c
	}
	return 0
}

// EmitRelation evaluates both sides of a comparison, emits the Cmp,
// and constructs a not-yet-targeted branch of the polarity that skips
// the guarded arm when the source relation holds, e.g. a source `<`
// becomes a Bge (branch when NOT less-than).
func (b *Builder) EmitRelation(relOp token.Type, left, right Operand) (cmpID, branchID int) {
	r1 := b.resolveOperand(left, b.current)
	r2 := b.resolveOperand(right, b.current)
	cmpID = b.addInstCSE(Cmp, r1, r2, b.current)
	branchID = b.addInstRaw(reversedBranchKind(relOp), b.current)
	b.Insts.get(branchID).CondInst = cmpID
	return cmpID, branchID
}

func reversedBranchKind(relOp token.Type) Kind {
	switch relOp {
	case token.EQ:
		return Bne
	case token.NEQ:
		return Beq
	case token.LT:
		return Bge
	case token.LE:
		return Bgt
	case token.GT:
		return Ble
	case token.GE:
		return Blt
	}
	return Bra
}

// ---- assignment (§4.5) ----

// Assign implements `let v <- expr`: resolves expr, emits an
// Assignment marker, updates v's binding in the current block, and,
// if an enclosing if/while frame has a phi for v, propagates the new
// value up through that chain of phis.
func (b *Builder) Assign(v int, expr Operand) {
	r := b.resolveOperand(expr, b.current)

	id := b.Insts.add(Assignment, none, b.current.ID)
	inst := b.Insts.get(id)
	inst.AssignVar = v
	b.current.Insts = append(b.current.Insts, id)

	b.current.VarMap[v] = VarBinding{Bound: true, Inst: r.Inst, DepVar: r.Var, HasDep: r.HasVar}

	if b.frames.len() > 0 {
		b.propagatePhi(v, r.Inst, 0)
	}
}

// propagatePhi is the outward recursive phi update from §4.7/4.8/9:
// it rewrites the operand (fall-through/follow for a Conditional,
// always the back-edge operand for a While) of the innermost
// enclosing frame's phi for v, then recurses to the next enclosing
// frame, propagating the inner phi's OWN id rather than the raw
// value — this is how an update lifts through nested joins.
func (b *Builder) propagatePhi(v, valueInst, depth int) {
	f := b.frames.at(depth)
	if f == nil {
		return
	}
	join := b.Blocks.get(f.Join)
	phiID, ok := join.PhiMap[v]
	if !ok {
		return
	}
	phi := b.Insts.get(phiID)
	ref := Ref{Inst: valueInst, Var: v, HasVar: true}
	switch {
	case f.Kind == While:
		phi.Op2 = ref
	case f.isFallThrough():
		phi.Op1 = ref
	default:
		phi.Op2 = ref
	}
	b.propagatePhi(v, phiID, depth+1)
}

// ---- phi seeding (§4.7 step 2, §4.8 step 1) ----

// initPhi snapshots every variable declared in preBlock's var_map and
// seeds a phi for each in join, both operands pre-populated to the
// variable's current definition as seen from join. Phi and its
// Assignment marker are inserted at the front of join's instruction
// list, ahead of anything join will go on to receive, as SSA order
// requires. Variables are visited in ascending id order, each one
// prepended in turn, so the final front-to-back order of phi/
// assignment pairs comes out descending by variable id — matching
// the original's BTreeMap (ascending-key) iteration with its own
// front-insertion (`Vec::insert(0, ..)`) per variable.
func (b *Builder) initPhi(preBlock, join *Block) {
	vars := make([]int, 0, len(preBlock.VarMap))
	for v := range preBlock.VarMap {
		vars = append(vars, v)
	}
	sort.Ints(vars)

	for _, v := range vars {
		val := b.varToVal(join, v)

		assignID := b.Insts.add(Assignment, none, join.ID)
		b.Insts.get(assignID).AssignVar = v

		phiID := b.Insts.add(Phi, none, join.ID)
		phi := b.Insts.get(phiID)
		phi.PhiVar = v
		phi.Op1, phi.Op2 = val, val

		join.PhiMap[v] = phiID
		join.VarMap[v] = VarBinding{Bound: true, Inst: phiID, DepVar: v, HasDep: true}
		join.prependInsts(phiID, assignID)
	}
}

// ---- if / then / else / fi (§4.7) ----

// BeginIf is called once the condition's branch instruction exists:
// it creates the fall-through (then-arm) and join blocks as children
// of the header, seeds the join's phis, pushes a Conditional frame,
// and moves the cursor into the then-arm.
func (b *Builder) BeginIf(branchID int) {
	header := b.current
	fallThrough := b.Blocks.addFrom(header)
	join := b.Blocks.addFrom(header)
	b.initPhi(header, join)

	header.FallThrough = fallThrough.ID
	header.Follow = join.ID // tentative: overwritten if an else arm appears

	b.frames.push(Frame{Kind: Conditional, Header: header.ID, Join: join.ID, Follow: none, BranchInst: branchID, Status: FallThrough})
	b.current = fallThrough
}

// ElseIf is called on seeing the `else` keyword: it creates the
// follow (else-arm) block, retargets the header's branch to it, ends
// the then-arm with an explicit branch to the join, and moves the
// cursor into the else-arm.
func (b *Builder) ElseIf() {
	f := b.frames.top()
	header := b.Blocks.get(f.Header)
	follow := b.Blocks.addFrom(header)

	f.Follow = follow.ID
	header.Follow = follow.ID
	b.Insts.get(f.BranchInst).Target = follow.ID

	braID := b.addInstRaw(Bra, b.current)
	b.Insts.get(braID).Target = f.Join
	b.current.FallThrough = f.Join

	f.Status = Follow
	b.current = follow
}

// EndIf closes out an if statement: links the last arm's block to the
// join, fills in the header's branch target if no else arm appeared,
// pops the frame, and moves the cursor to the join.
func (b *Builder) EndIf() {
	f := b.frames.top()
	if f.Follow == none {
		b.Insts.get(f.BranchInst).Target = f.Join
	}
	b.current.FallThrough = f.Join
	join := b.Blocks.get(f.Join)
	b.frames.pop()
	b.current = join
}

// ---- while / do / od (§4.8) ----

// BeginWhile creates the join block (the loop header) as a child of
// the current block and seeds its phis from the pre-header's
// var_map, both operands pre-populated to the pre-loop value. The
// caller must parse the loop condition next, with the cursor already
// moved to the join block.
func (b *Builder) BeginWhile() {
	preHeader := b.current
	join := b.Blocks.addFrom(preHeader)
	b.initPhi(preHeader, join)
	preHeader.FallThrough = join.ID
	b.current = join
}

// WhileBody is called once the condition's branch instruction exists
// in the join block: it creates the loop body as a child of the join,
// pushes a While frame, and moves the cursor into the body.
func (b *Builder) WhileBody(branchID int) {
	join := b.current
	body := b.Blocks.addFrom(join)
	join.FallThrough = body.ID
	b.frames.push(Frame{Kind: While, Header: join.ID, Join: join.ID, Follow: none, BranchInst: branchID})
	b.current = body
}

// EndWhile closes out a while statement: emits the back edge to the
// join, creates the exit (follow) block as a child of the header,
// fills in the header's branch target, pops the frame, and moves the
// cursor to the exit.
func (b *Builder) EndWhile() {
	f := b.frames.top()
	braID := b.addInstRaw(Bra, b.current)
	b.Insts.get(braID).Target = f.Join
	b.current.FallThrough = f.Join

	header := b.Blocks.get(f.Header)
	follow := b.Blocks.addFrom(header)
	b.Insts.get(f.BranchInst).Target = follow.ID
	header.Follow = follow.ID

	b.frames.pop()
	b.current = follow
}

// ---- function calls (§4.6) ----

// EmitCall resolves a call's callee against the three builtins and
// the user function table, marshals arguments, and returns an operand
// for the call's value: an already-emitted instruction, or, for a
// callee that is not a declared function, a warning and the constant 0.
// More than three arguments is Fatal and unrecoverable.
func (b *Builder) EmitCall(callee int, args []Operand) Operand {
	switch callee {
	case token.InputNumID:
		return InstOperand(b.addInstRaw(Read, b.current))
	case token.OutputNumID:
		var r Ref
		if len(args) > 0 {
			r = b.resolveOperand(args[0], b.current)
		} else {
			r = NoVarRef(b.getConst(0))
		}
		id := b.addInstRaw(Write, b.current)
		b.Insts.get(id).ArgVal = r
		return InstOperand(id)
	case token.OutputNewLineID:
		return InstOperand(b.addInstRaw(WriteNL, b.current))
	}

	entry, ok := b.funcMap[callee]
	if !ok {
		b.diag.Warnf("Function %s is not declared", b.names(callee))
		return ConstOperand(0)
	}
	if len(args) > 3 {
		panic(diag.Fatal("function call with more than 3 arguments"))
	}
	setParKinds := [...]Kind{SetPar1, SetPar2, SetPar3}
	for i, a := range args {
		r := b.resolveOperand(a, b.current)
		id := b.addInstRaw(setParKinds[i], b.current)
		b.Insts.get(id).ArgVal = r
	}
	jsrID := b.addInstRaw(Jsr, b.current)
	b.Insts.get(jsrID).CallTarget = entry
	return InstOperand(jsrID)
}

// ---- functions, return, main (§4.9) ----

// DeclareFunction creates the function's entry block as a child of
// block 0, records it in the function table, and moves the cursor
// there.
func (b *Builder) DeclareFunction(nameVar int) *Block {
	entry := b.Blocks.addFrom(b.Blocks.get(0))
	b.funcMap[nameVar] = entry.ID
	b.current = entry
	return entry
}

// DeclareFormalParams materializes up to three formal parameters via
// GetPar1..3 and binds them in the current (entry) block. More than
// three is Fatal.
func (b *Builder) DeclareFormalParams(vars []int) {
	if len(vars) > 3 {
		panic(diag.Fatal("function declared with more than 3 parameters"))
	}
	getParKinds := [...]Kind{GetPar1, GetPar2, GetPar3}
	for i, v := range vars {
		id := b.addInstRaw(getParKinds[i], b.current)
		b.current.VarMap[v] = VarBinding{Bound: true, Inst: id}
	}
}

// DeclareVar records v as declared-but-unbound in the current block,
// for `var` declarations in main or a function body.
func (b *Builder) DeclareVar(v int) {
	if _, ok := b.current.VarMap[v]; !ok {
		b.current.VarMap[v] = VarBinding{Bound: false}
	}
}

// EmitReturn emits Ret(inst) for `return expr`, or Ret() for a bare
// `return`.
func (b *Builder) EmitReturn(expr Operand, hasValue bool) int {
	id := b.addInstRaw(Ret, b.current)
	if hasValue {
		r := b.resolveOperand(expr, b.current)
		inst := b.Insts.get(id)
		inst.RetVal = r
		inst.HasRetVal = true
	}
	return id
}

// endsInReturn reports whether the block's last emitted (non-
// Assignment) instruction is a Ret.
func (b *Block) endsInReturn(store *InstList) bool {
	for i := len(b.Insts) - 1; i >= 0; i-- {
		inst := store.get(b.Insts[i])
		if inst.Kind == Assignment {
			continue
		}
		return inst.Kind == Ret
	}
	return false
}

// EndFunction appends a bare Ret if the function body fell off the
// end without one, then resets the cursor to main's entry block.
func (b *Builder) EndFunction() {
	if !b.current.endsInReturn(b.Insts) {
		b.EmitReturn(Operand{}, false)
	}
	b.current = b.Blocks.get(1)
}

// EmitEnd appends the program terminator to the current block, called
// once after main's body is fully parsed.
func (b *Builder) EmitEnd() {
	b.addInstRaw(End, b.current)
}
