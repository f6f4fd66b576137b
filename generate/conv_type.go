package generate

import (
	"joosc/report"

	irx "joosc/ir"

	"github.com/llir/llvm/ir/types"
)

// convType converts a joosc IR type to its LLVM type.  Pointers are untyped
// in the joosc IR, so they all lower to i8*.
func (g *Generator) convType(ty irx.Type) types.Type {
	switch t := ty.(type) {
	case *irx.IntegerType:
		switch t.Bits {
		case 1:
			return types.I1
		case 8:
			return types.I8
		case 16:
			return types.I16
		case 32:
			return types.I32
		case 64:
			return types.I64
		}
	case *irx.PointerType:
		return types.I8Ptr
	case *irx.VoidType:
		return types.Void
	case *irx.StructType:
		fields := make([]types.Type, len(t.Fields))
		for i, field := range t.Fields {
			fields[i] = g.convType(field)
		}

		return types.NewStruct(fields...)
	case *irx.ArrayType:
		return types.NewArray(uint64(t.Len), g.convType(t.Elem))
	case *irx.FunctionType:
		params := make([]types.Type, len(t.Params))
		for i, param := range t.Params {
			params[i] = g.convType(param)
		}

		return types.NewFunc(g.convType(t.Return), params...)
	}

	report.ReportICE("cannot convert IR type `%s` to LLVM", ty)
	return nil
}
