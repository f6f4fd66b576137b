package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseUnit reads the textual form produced by CompilationUnit.String back
// into a compilation unit.  The parsed unit is value-structurally equivalent
// to the printed one: names, IDs, types, opcodes, and operand links all
// survive the round trip.
func ParseUnit(ctx *Context, text string) (*CompilationUnit, error) {
	p := &unitParser{ctx: ctx, cu: NewCompilationUnit(ctx), values: make(map[string]Value)}

	// The fresh unit pre-registers intrinsics; drop them so the text fully
	// determines the unit, then let the declarations re-create them.
	for _, kind := range []IntrinsicKind{IntrinsicMalloc, IntrinsicException} {
		p.cu.RemoveGlobalObject(IntrinsicName(kind))
	}

	lines := strings.Split(text, "\n")
	if err := p.parse(lines); err != nil {
		return nil, err
	}

	// Re-bind the intrinsic registry to the parsed declarations.
	for _, kind := range []IntrinsicKind{IntrinsicMalloc, IntrinsicException} {
		if fn := p.cu.FindFunction(IntrinsicName(kind)); fn != nil {
			attrs := fn.Attrs()
			attrs.Intrinsic = true
			fn.SetAttrs(attrs)
			p.cu.intrinsics[kind] = fn
		}
	}

	return p.cu, nil
}

type unitParser struct {
	ctx *Context
	cu  *CompilationUnit

	// values maps printed names (%name.id) to values within the current
	// function.
	values map[string]Value
}

func parseErrorf(line string, msg string, args ...interface{}) error {
	return fmt.Errorf("ir: %s: %q", fmt.Sprintf(msg, args...), line)
}

func (p *unitParser) parse(lines []string) error {
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "global "):
			if err := p.parseGlobal(line); err != nil {
				return err
			}

		case strings.HasPrefix(line, "function "):
			fn, hasBody, err := p.parseFunctionHeader(line)
			if err != nil {
				return err
			}

			if hasBody {
				end, err := p.parseFunctionBody(fn, lines, i+1)
				if err != nil {
					return err
				}

				i = end
			}

		default:
			return parseErrorf(line, "unexpected top-level line")
		}
	}

	return nil
}

// parseGlobal parses `global T @name`.
func (p *unitParser) parseGlobal(line string) error {
	rest := strings.TrimPrefix(line, "global ")
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return parseErrorf(line, "malformed global")
	}

	ty, err := p.parseType(strings.TrimSpace(rest[:at]))
	if err != nil {
		return err
	}

	name := strings.TrimSpace(rest[at+1:])
	if p.cu.CreateGlobalVariable(ty, name) == nil {
		return parseErrorf(line, "duplicate global `%s`", name)
	}

	return nil
}

// parseFunctionHeader parses a function declaration line and returns the
// function plus whether a body follows.
func (p *unitParser) parseFunctionHeader(line string) (*Function, bool, error) {
	rest := strings.TrimPrefix(line, "function ")
	rest = strings.TrimPrefix(rest, "external ")

	hasBody := strings.HasSuffix(rest, "{")
	rest = strings.TrimSuffix(rest, "{")
	rest = strings.TrimSpace(rest)

	noreturn := strings.HasSuffix(rest, " noreturn")
	rest = strings.TrimSuffix(rest, " noreturn")

	open := strings.Index(rest, "(")
	close_ := strings.LastIndex(rest, ")")
	if open < 0 || close_ < open {
		return nil, false, parseErrorf(line, "malformed function header")
	}

	sig := strings.TrimSpace(rest[:open])
	at := strings.LastIndex(sig, "@")
	if at < 0 {
		return nil, false, parseErrorf(line, "missing function name")
	}

	retTy, err := p.parseType(strings.TrimSpace(sig[:at]))
	if err != nil {
		return nil, false, err
	}

	name := strings.TrimSpace(sig[at+1:])

	var paramTys []Type
	var paramNames []string
	params := splitTopLevel(rest[open+1 : close_])
	for _, param := range params {
		ty, ref, err := splitRef(param)
		if err != nil {
			return nil, false, parseErrorf(line, "malformed parameter `%s`", param)
		}

		paramTy, err := p.parseType(ty)
		if err != nil {
			return nil, false, err
		}

		paramTys = append(paramTys, paramTy)
		paramNames = append(paramNames, ref)
	}

	fn := p.cu.CreateFunction(NewFunctionType(retTy, paramTys...), name)
	if fn == nil {
		return nil, false, parseErrorf(line, "duplicate function `%s`", name)
	}

	fn.SetAttrs(FuncAttrs{NoReturn: noreturn})

	for i, arg := range fn.Args() {
		bindPrintedName(&arg.valueBase, paramNames[i])
	}

	return fn, hasBody, nil
}

// parseFunctionBody parses the block and instruction lines of a defined
// function, returning the index of the closing brace line.
func (p *unitParser) parseFunctionBody(fn *Function, lines []string, start int) (int, error) {
	p.values = make(map[string]Value)
	for _, arg := range fn.Args() {
		p.values[arg.printName()] = arg
	}

	// First pass: create every block so branches can refer forward.
	end := -1
	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "}" {
			end = i
			break
		}

		if strings.HasSuffix(line, ":") && strings.HasPrefix(line, "%") {
			bb := fn.NewBlock()
			bindPrintedName(&bb.valueBase, strings.TrimSuffix(line, ":"))
			p.values[bb.printName()] = bb
		}
	}

	if end < 0 {
		return 0, parseErrorf(lines[start-1], "unterminated function body")
	}

	// Second pass: parse the instructions into their blocks.
	var cur *BasicBlock
	blockIdx := 0
	for i := start; i < end; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if strings.HasSuffix(line, ":") {
			cur = fn.Blocks()[blockIdx]
			blockIdx++
			continue
		}

		if cur == nil {
			return 0, parseErrorf(line, "instruction outside of a block")
		}

		inst, err := p.parseInstruction(line)
		if err != nil {
			return 0, err
		}

		cur.appendInstr(inst)
	}

	return end, nil
}

// -----------------------------------------------------------------------------

// parseInstruction parses one instruction line.
func (p *unitParser) parseInstruction(line string) (Instruction, error) {
	result := ""
	body := line
	if strings.HasPrefix(line, "%") {
		eq := strings.Index(line, " = ")
		if eq < 0 {
			return nil, parseErrorf(line, "malformed instruction")
		}

		result = line[:eq]
		body = line[eq+3:]
	}

	op := body
	rest := ""
	if sp := strings.Index(body, " "); sp >= 0 {
		op = body[:sp]
		rest = strings.TrimSpace(body[sp+1:])
	}

	var inst Instruction
	var err error

	switch op {
	case "alloca":
		var ty Type
		ty, err = p.parseType(rest)
		if err == nil {
			inst = &AllocaInst{instrBase: instrBase{p.ctx.newUserBase(p.ctx.PointerTy())}, AllocTy: ty}
		}

	case "load":
		inst, err = p.parseLoad(line, rest)

	case "store":
		inst, err = p.parseStore(line, rest)

	case "getelementptr":
		inst, err = p.parseGEP(line, rest)

	case "add", "sub", "mul", "div", "rem", "and", "or", "xor":
		inst, err = p.parseBinary(line, op, rest)

	case "cmp":
		inst, err = p.parseCmp(line, rest)

	case "icast":
		inst, err = p.parseICast(line, rest)

	case "call":
		inst, err = p.parseCall(line, rest)

	case "br":
		inst, err = p.parseBr(line, rest)

	case "ret":
		inst, err = p.parseRet(line, rest)

	default:
		return nil, parseErrorf(line, "unknown opcode `%s`", op)
	}

	if err != nil {
		return nil, err
	}

	if result != "" {
		bindPrintedName(inst.base(), result)
		p.values[result] = inst
	}

	return inst, nil
}

func (p *unitParser) parseLoad(line, rest string) (Instruction, error) {
	parts := splitTopLevel(rest)
	if len(parts) != 2 {
		return nil, parseErrorf(line, "malformed load")
	}

	ty, err := p.parseType(parts[0])
	if err != nil {
		return nil, err
	}

	ptr, err := p.parseRef(line, parts[1])
	if err != nil {
		return nil, err
	}

	return newLoad(p.ctx, ty, ptr), nil
}

func (p *unitParser) parseStore(line, rest string) (Instruction, error) {
	parts := splitTopLevel(rest)
	if len(parts) != 2 {
		return nil, parseErrorf(line, "malformed store")
	}

	val, err := p.parseRef(line, parts[0])
	if err != nil {
		return nil, err
	}

	ptr, err := p.parseRef(line, parts[1])
	if err != nil {
		return nil, err
	}

	return newStore(p.ctx, val, ptr), nil
}

func (p *unitParser) parseGEP(line, rest string) (Instruction, error) {
	parts := splitTopLevel(rest)
	if len(parts) < 2 {
		return nil, parseErrorf(line, "malformed getelementptr")
	}

	structTy, err := p.parseType(parts[0])
	if err != nil {
		return nil, err
	}

	st, ok := structTy.(*StructType)
	if !ok {
		return nil, parseErrorf(line, "getelementptr requires a struct layout")
	}

	base, err := p.parseRef(line, parts[1])
	if err != nil {
		return nil, err
	}

	var indices []Value
	for _, part := range parts[2:] {
		idx, err := p.parseRef(line, part)
		if err != nil {
			return nil, err
		}

		indices = append(indices, idx)
	}

	return newGEP(p.ctx, st, base, indices), nil
}

func (p *unitParser) parseBinary(line, opName, rest string) (Instruction, error) {
	parts := splitTopLevel(rest)
	if len(parts) != 3 {
		return nil, parseErrorf(line, "malformed binary op")
	}

	var op BinOp
	for i, name := range binOpNames {
		if name == opName {
			op = BinOp(i)
		}
	}

	lhs, err := p.parseRef(line, parts[1])
	if err != nil {
		return nil, err
	}

	rhs, err := p.parseRef(line, parts[2])
	if err != nil {
		return nil, err
	}

	return newBinary(p.ctx, op, lhs, rhs), nil
}

func (p *unitParser) parseCmp(line, rest string) (Instruction, error) {
	sp := strings.Index(rest, " ")
	if sp < 0 {
		return nil, parseErrorf(line, "malformed cmp")
	}

	predName := rest[:sp]
	var pred Predicate
	found := false
	for i, name := range predicateNames {
		if name == predName {
			pred = Predicate(i)
			found = true
		}
	}

	if !found {
		return nil, parseErrorf(line, "unknown predicate `%s`", predName)
	}

	parts := splitTopLevel(strings.TrimSpace(rest[sp+1:]))
	if len(parts) != 3 {
		return nil, parseErrorf(line, "malformed cmp operands")
	}

	lhs, err := p.parseRef(line, parts[1])
	if err != nil {
		return nil, err
	}

	rhs, err := p.parseRef(line, parts[2])
	if err != nil {
		return nil, err
	}

	return newCmp(p.ctx, pred, lhs, rhs), nil
}

func (p *unitParser) parseICast(line, rest string) (Instruction, error) {
	sp := strings.Index(rest, " ")
	if sp < 0 {
		return nil, parseErrorf(line, "malformed icast")
	}

	opName := rest[:sp]
	var op CastOp
	found := false
	for i, name := range castOpNames {
		if name == opName {
			op = CastOp(i)
			found = true
		}
	}

	if !found {
		return nil, parseErrorf(line, "unknown cast op `%s`", opName)
	}

	rest = strings.TrimSpace(rest[sp+1:])
	to := strings.LastIndex(rest, " to ")
	if to < 0 {
		return nil, parseErrorf(line, "malformed icast")
	}

	val, err := p.parseRef(line, rest[:to])
	if err != nil {
		return nil, err
	}

	destTy, err := p.parseType(strings.TrimSpace(rest[to+4:]))
	if err != nil {
		return nil, err
	}

	return newICast(p.ctx, op, val, destTy), nil
}

func (p *unitParser) parseCall(line, rest string) (Instruction, error) {
	rest = strings.TrimSuffix(rest, " noreturn")

	open := strings.Index(rest, "(")
	close_ := strings.LastIndex(rest, ")")
	if !strings.HasPrefix(rest, "@") || open < 0 || close_ < open {
		return nil, parseErrorf(line, "malformed call")
	}

	callee := p.cu.FindFunction(rest[1:open])
	if callee == nil {
		return nil, parseErrorf(line, "call of unknown function")
	}

	var args []Value
	for _, part := range splitTopLevel(rest[open+1 : close_]) {
		arg, err := p.parseRef(line, part)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	return newCall(p.ctx, callee, args), nil
}

func (p *unitParser) parseBr(line, rest string) (Instruction, error) {
	parts := splitTopLevel(rest)
	switch len(parts) {
	case 1:
		target, err := p.parseRef(line, parts[0])
		if err != nil {
			return nil, err
		}

		bb, ok := target.(*BasicBlock)
		if !ok {
			return nil, parseErrorf(line, "branch target is not a block")
		}

		return newBr(p.ctx, bb), nil

	case 3:
		cond, err := p.parseRef(line, parts[0])
		if err != nil {
			return nil, err
		}

		t, err := p.parseRef(line, parts[1])
		if err != nil {
			return nil, err
		}

		f, err := p.parseRef(line, parts[2])
		if err != nil {
			return nil, err
		}

		tb, tok := t.(*BasicBlock)
		fb, fok := f.(*BasicBlock)
		if !tok || !fok {
			return nil, parseErrorf(line, "branch target is not a block")
		}

		return newCondBr(p.ctx, cond, tb, fb), nil
	}

	return nil, parseErrorf(line, "malformed br")
}

func (p *unitParser) parseRet(line, rest string) (Instruction, error) {
	if strings.TrimSpace(rest) == "" {
		return newRet(p.ctx, nil), nil
	}

	val, err := p.parseRef(line, rest)
	if err != nil {
		return nil, err
	}

	return newRet(p.ctx, val), nil
}

// -----------------------------------------------------------------------------

// parseRef parses an operand reference: a constant (`i32 5`, `ptr null`), a
// global (`ptr @name`, `@name`), a label (`%bb.3`), or a typed local
// (`i32 %x.4`).
func (p *unitParser) parseRef(line, s string) (Value, error) {
	s = strings.TrimSpace(s)

	if s == "ptr null" {
		return p.ctx.NullPointer(), nil
	}

	if strings.HasPrefix(s, "@") {
		if fn := p.cu.FindFunction(s[1:]); fn != nil {
			return fn, nil
		}

		return nil, parseErrorf(line, "unknown global `%s`", s)
	}

	if strings.HasPrefix(s, "%") {
		if v, ok := p.values[s]; ok {
			return v, nil
		}

		return nil, parseErrorf(line, "unknown value `%s`", s)
	}

	tyStr, ref, err := splitRef(s)
	if err != nil {
		return nil, parseErrorf(line, "malformed operand `%s`", s)
	}

	if strings.HasPrefix(ref, "@") {
		if gv := p.cu.FindGlobalVariable(ref[1:]); gv != nil {
			return gv, nil
		}

		if fn := p.cu.FindFunction(ref[1:]); fn != nil {
			return fn, nil
		}

		return nil, parseErrorf(line, "unknown global `%s`", ref)
	}

	if strings.HasPrefix(ref, "%") {
		if v, ok := p.values[ref]; ok {
			return v, nil
		}

		return nil, parseErrorf(line, "unknown value `%s`", ref)
	}

	// A typed integer constant.
	ty, err := p.parseType(tyStr)
	if err != nil {
		return nil, err
	}

	intTy, ok := ty.(*IntegerType)
	if !ok {
		return nil, parseErrorf(line, "malformed constant `%s`", s)
	}

	val, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return nil, parseErrorf(line, "malformed constant `%s`", s)
	}

	return p.ctx.ConstInt(intTy, val), nil
}

// parseType parses a printed IR type.
func (p *unitParser) parseType(s string) (Type, error) {
	s = strings.TrimSpace(s)

	switch s {
	case "void":
		return p.ctx.VoidTy(), nil
	case "label":
		return p.ctx.LabelTy(), nil
	case "ptr":
		return p.ctx.PointerTy(), nil
	}

	if strings.HasPrefix(s, "i") {
		if bits, err := strconv.Atoi(s[1:]); err == nil {
			return p.ctx.IntType(bits), nil
		}
	}

	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		var fields []Type
		for _, part := range splitTopLevel(s[1 : len(s)-1]) {
			field, err := p.parseType(part)
			if err != nil {
				return nil, err
			}

			fields = append(fields, field)
		}

		return NewStructType(fields...), nil
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		inner := s[1 : len(s)-1]
		x := strings.Index(inner, " x ")
		if x < 0 {
			return nil, fmt.Errorf("ir: malformed array type %q", s)
		}

		n, err := strconv.Atoi(strings.TrimSpace(inner[:x]))
		if err != nil {
			return nil, fmt.Errorf("ir: malformed array type %q", s)
		}

		elem, err := p.parseType(inner[x+3:])
		if err != nil {
			return nil, err
		}

		return NewArrayType(elem, n), nil
	}

	return nil, fmt.Errorf("ir: unknown type %q", s)
}

// -----------------------------------------------------------------------------

// splitTopLevel splits a comma-separated list, ignoring commas nested in
// braces, brackets, and parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0

	for i, r := range s {
		switch r {
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}

	if rest := strings.TrimSpace(s[start:]); rest != "" {
		parts = append(parts, rest)
	}

	return parts
}

// splitRef splits `TY %ref`-shaped operands into the type text and the
// reference text.  The reference is the final space-separated token.
func splitRef(s string) (string, string, error) {
	s = strings.TrimSpace(s)
	sp := strings.LastIndex(s, " ")
	if sp < 0 {
		return "", "", fmt.Errorf("ir: malformed reference %q", s)
	}

	return strings.TrimSpace(s[:sp]), strings.TrimSpace(s[sp+1:]), nil
}

// bindPrintedName re-binds a value's printed identity (`%name.id`) parsed
// from text, preserving round-trip equality of the printed form.
func bindPrintedName(vb *valueBase, printed string) {
	printed = strings.TrimPrefix(printed, "%")

	dot := strings.LastIndex(printed, ".")
	if dot < 0 {
		if id, err := strconv.Atoi(printed); err == nil {
			vb.name = ""
			vb.id = id
			bumpCounter(vb.ctx, id)
		}

		return
	}

	if id, err := strconv.Atoi(printed[dot+1:]); err == nil {
		vb.name = printed[:dot]
		vb.id = id
		bumpCounter(vb.ctx, id)
		return
	}

	vb.name = printed
}

// bumpCounter keeps the context's ID counter ahead of every parsed ID.
func bumpCounter(ctx *Context, id int) {
	if ctx.valueCounter <= id {
		ctx.valueCounter = id + 1
	}
}
