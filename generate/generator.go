package generate

import (
	"fmt"

	"joosc/report"

	irx "joosc/ir"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Generator translates a joosc IR compilation unit into an LLVM module for
// the external machine layer.  The translation is a serialization bridge,
// not an instruction selector: every joosc instruction maps onto a single
// LLVM instruction, with bitcasts mediating between the joosc IR's untyped
// pointers and LLVM's typed ones.
type Generator struct {
	unit *irx.CompilationUnit
	mod  *ir.Module

	// fnMap and gvMap map joosc globals to their LLVM counterparts.
	fnMap map[*irx.Function]*ir.Func
	gvMap map[*irx.GlobalVariable]*ir.Global

	// valueMap maps joosc values to LLVM values within the current
	// function; blockMap likewise for basic blocks.
	valueMap map[irx.Value]value.Value
	blockMap map[*irx.BasicBlock]*ir.Block

	block *ir.Block
}

// NewGenerator creates a generator for the given unit.
func NewGenerator(unit *irx.CompilationUnit) *Generator {
	return &Generator{
		unit:  unit,
		mod:   ir.NewModule(),
		fnMap: make(map[*irx.Function]*ir.Func),
		gvMap: make(map[*irx.GlobalVariable]*ir.Global),
	}
}

// Generate produces the LLVM module for the whole unit.
func (g *Generator) Generate() *ir.Module {
	// Declare every global first so bodies can reference them in any
	// order.
	for _, fn := range g.unit.Functions() {
		g.declareFunc(fn)
	}

	for _, gv := range g.unit.GlobalVariables() {
		g.declareGlobal(gv)
	}

	for _, fn := range g.unit.Functions() {
		if fn.HasBody() {
			g.generateBody(fn)
		}
	}

	return g.mod
}

func (g *Generator) declareFunc(fn *irx.Function) {
	params := make([]*ir.Param, len(fn.Args()))
	for i, arg := range fn.Args() {
		// Parameter names must be unique within the LLVM function.
		params[i] = ir.NewParam(fmt.Sprintf("%s%d", arg.Name(), i), g.convType(arg.Type()))
	}

	llfn := g.mod.NewFunc(fn.Name(), g.convType(fn.ReturnType()), params...)
	if !fn.HasBody() {
		llfn.Linkage = enum.LinkageExternal
	}

	if fn.IsNoReturn() {
		llfn.FuncAttrs = append(llfn.FuncAttrs, enum.FuncAttrNoReturn)
	}

	g.fnMap[fn] = llfn
}

func (g *Generator) declareGlobal(gv *irx.GlobalVariable) {
	contentTy := g.convType(gv.ValueTy)
	llgv := g.mod.NewGlobalDef(gv.Name(), constant.NewZeroInitializer(contentTy))
	g.gvMap[gv] = llgv
}

// -----------------------------------------------------------------------------

func (g *Generator) generateBody(fn *irx.Function) {
	llfn := g.fnMap[fn]

	g.valueMap = make(map[irx.Value]value.Value)
	g.blockMap = make(map[*irx.BasicBlock]*ir.Block)

	for i, arg := range fn.Args() {
		g.valueMap[arg] = llfn.Params[i]
	}

	for _, bb := range fn.Blocks() {
		g.blockMap[bb] = llfn.NewBlock("")
	}

	for _, bb := range fn.Blocks() {
		g.block = g.blockMap[bb]
		for _, inst := range bb.Instrs() {
			g.generateInstr(inst)
		}

		// Blocks the joosc IR leaves unterminated (nothing reachable after
		// a noreturn call) get an unreachable terminator.
		if g.block.Term == nil {
			g.block.NewUnreachable()
		}
	}
}

func (g *Generator) generateInstr(inst irx.Instruction) {
	switch in := inst.(type) {
	case *irx.AllocaInst:
		slot := g.block.NewAlloca(g.convType(in.AllocTy))
		g.valueMap[in] = g.block.NewBitCast(slot, types.I8Ptr)

	case *irx.LoadInst:
		elemTy := g.convType(in.Type())
		ptr := g.block.NewBitCast(g.operand(in.Operand(0)), types.NewPointer(elemTy))
		g.valueMap[in] = g.block.NewLoad(elemTy, ptr)

	case *irx.StoreInst:
		val := g.operand(in.Operand(0))
		ptr := g.block.NewBitCast(g.operand(in.Operand(1)), types.NewPointer(val.Type()))
		g.block.NewStore(val, ptr)

	case *irx.GetElementPtrInst:
		structTy := g.convType(in.StructTy)
		base := g.block.NewBitCast(g.operand(in.Operand(0)), types.NewPointer(structTy))
		indices := []value.Value{constant.NewInt(types.I32, 0)}
		for i := 1; i < len(in.Operands()); i++ {
			indices = append(indices, g.operand(in.Operand(i)))
		}

		gep := g.block.NewGetElementPtr(structTy, base, indices...)
		g.valueMap[in] = g.block.NewBitCast(gep, types.I8Ptr)

	case *irx.BinaryInst:
		lhs := g.operand(in.Operand(0))
		rhs := g.operand(in.Operand(1))
		g.valueMap[in] = g.generateBinary(in.Op, lhs, rhs)

	case *irx.CmpInst:
		lhs := g.operand(in.Operand(0))
		rhs := g.operand(in.Operand(1))
		g.valueMap[in] = g.block.NewICmp(convPredicate(in.Pred), lhs, rhs)

	case *irx.ICastInst:
		val := g.operand(in.Operand(0))
		destTy := g.convType(in.Type())
		switch in.Op {
		case irx.CastTrunc:
			g.valueMap[in] = g.block.NewTrunc(val, destTy)
		case irx.CastSExt:
			g.valueMap[in] = g.block.NewSExt(val, destTy)
		default:
			g.valueMap[in] = g.block.NewZExt(val, destTy)
		}

	case *irx.CallInst:
		callee := g.fnMap[in.Callee()]
		args := make([]value.Value, 0, len(in.Operands())-1)
		for i := 1; i < len(in.Operands()); i++ {
			args = append(args, g.operand(in.Operand(i)))
		}

		call := g.block.NewCall(callee, args...)
		g.valueMap[in] = call

	case *irx.BranchInst:
		if in.IsConditional() {
			g.block.NewCondBr(
				g.operand(in.Operand(0)),
				g.blockMap[in.Operand(1).(*irx.BasicBlock)],
				g.blockMap[in.Operand(2).(*irx.BasicBlock)],
			)
		} else {
			g.block.NewBr(g.blockMap[in.Operand(0).(*irx.BasicBlock)])
		}

	case *irx.ReturnInst:
		if len(in.Operands()) == 0 {
			g.block.NewRet(nil)
		} else {
			g.block.NewRet(g.operand(in.Operand(0)))
		}

	default:
		report.ReportICE("cannot generate LLVM for instruction")
	}
}

func (g *Generator) generateBinary(op irx.BinOp, lhs, rhs value.Value) value.Value {
	switch op {
	case irx.BinAdd:
		return g.block.NewAdd(lhs, rhs)
	case irx.BinSub:
		return g.block.NewSub(lhs, rhs)
	case irx.BinMul:
		return g.block.NewMul(lhs, rhs)
	case irx.BinDiv:
		return g.block.NewSDiv(lhs, rhs)
	case irx.BinRem:
		return g.block.NewSRem(lhs, rhs)
	case irx.BinAnd:
		return g.block.NewAnd(lhs, rhs)
	case irx.BinOr:
		return g.block.NewOr(lhs, rhs)
	default:
		return g.block.NewXor(lhs, rhs)
	}
}

func convPredicate(pred irx.Predicate) enum.IPred {
	switch pred {
	case irx.PredEQ:
		return enum.IPredEQ
	case irx.PredNE:
		return enum.IPredNE
	case irx.PredLT:
		return enum.IPredSLT
	case irx.PredLE:
		return enum.IPredSLE
	case irx.PredGT:
		return enum.IPredSGT
	default:
		return enum.IPredSGE
	}
}

// operand resolves a joosc IR value to its LLVM counterpart.
func (g *Generator) operand(v irx.Value) value.Value {
	switch val := v.(type) {
	case *irx.ConstantInt:
		intTy, ok := g.convType(val.Type()).(*types.IntType)
		if !ok {
			report.ReportICE("integer constant with non-integer type")
		}

		return constant.NewInt(intTy, val.Value())

	case *irx.ConstantNullPointer:
		return constant.NewNull(types.I8Ptr)

	case *irx.Function:
		return g.fnMap[val]

	case *irx.GlobalVariable:
		return g.block.NewBitCast(g.gvMap[val], types.I8Ptr)
	}

	if ll, ok := g.valueMap[v]; ok {
		return ll
	}

	report.ReportICE("use of IR value before its definition")
	return nil
}
