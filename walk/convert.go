package walk

import "joosc/ast"

// isWiderThan implements the widening primitive conversions: byte widens to
// short and int; short and char widen to int.
func isWiderThan(target, source *ast.BuiltInType) bool {
	switch source.Kind {
	case ast.CharKind, ast.ShortKind:
		return target.Kind == ast.IntKind
	case ast.ByteKind:
		return target.Kind == ast.ShortKind || target.Kind == ast.IntKind
	}

	return false
}

// isAssignableTo returns whether a value of type rhs may be assigned to a
// location of type lhs:
//
//  1. identity conversion;
//  2. widening primitive conversion, and null to any reference or array;
//  3. widening reference conversions: class to superclass or implemented
//     interface, interface to super-interface or Object, array to Object,
//     Cloneable, or Serializable, and array to array when both element
//     types are references and themselves assignable.
func (tr *ExprTypeResolver) isAssignableTo(lhs, rhs ast.Type) bool {
	if lhs == nil || rhs == nil {
		return false
	}

	if ast.SameType(lhs, rhs) {
		return true
	}

	// Built-in string and java.lang.String interconvert.
	if tr.isStringLike(lhs) && tr.isStringLike(rhs) {
		return true
	}

	lhsPrim, lhsIsPrim := lhs.(*ast.BuiltInType)
	rhsPrim, rhsIsPrim := rhs.(*ast.BuiltInType)
	lhsDecl, lhsIsRef := tr.refDecl(lhs)
	rhsDecl, rhsIsRef := tr.refDecl(rhs)
	lhsArr, lhsIsArr := lhs.(*ast.ArrayType)
	rhsArr, rhsIsArr := rhs.(*ast.ArrayType)

	if lhsIsPrim && rhsIsPrim && !ast.IsNull(rhs) {
		return isWiderThan(lhsPrim, rhsPrim)
	}

	// The null type is assignable to any reference or array type.
	if ast.IsNull(rhs) {
		return lhsIsRef || lhsIsArr
	}

	if lhsIsRef && rhsIsRef {
		switch rhsD := rhsDecl.(type) {
		case *ast.ClassDecl:
			if lhsClass, ok := lhsDecl.(*ast.ClassDecl); ok {
				return tr.h.isSuperClass(lhsClass, rhsD)
			}

			if lhsIface, ok := lhsDecl.(*ast.InterfaceDecl); ok {
				return tr.h.isSuperInterface(lhsIface, rhsD)
			}
		case *ast.InterfaceDecl:
			if lhsDecl == tr.builtins.Object() && lhsDecl != nil {
				return true
			}

			if lhsIface, ok := lhsDecl.(*ast.InterfaceDecl); ok {
				return tr.h.isSuperInterface(lhsIface, rhsD)
			}
		}

		return false
	}

	if rhsIsArr {
		if lhsIsArr {
			_, lok := tr.refDecl(lhsArr.Elem)
			_, rok := tr.refDecl(rhsArr.Elem)
			return lok && rok && tr.isAssignableTo(lhsArr.Elem, rhsArr.Elem)
		}

		if lhsIsRef && lhsDecl != nil {
			if lhsDecl == tr.builtins.Object() ||
				lhsDecl == tr.builtins.Cloneable() ||
				lhsDecl == tr.builtins.Serializable() {
				return true
			}
		}
	}

	return false
}

// isValidCast returns whether a value of type exprType may be cast to
// castType: identity, primitive widening in either direction, any two
// interfaces, an interface and a non-final class, and array to array under
// the reference element rule.
func (tr *ExprTypeResolver) isValidCast(exprType, castType ast.Type) bool {
	if exprType == nil || castType == nil {
		return false
	}

	if ast.SameType(exprType, castType) {
		return true
	}

	if tr.isStringLike(exprType) && tr.isStringLike(castType) {
		return true
	}

	_, exprIsPrim := exprType.(*ast.BuiltInType)
	_, castIsPrim := castType.(*ast.BuiltInType)
	exprDecl, exprIsRef := tr.refDecl(exprType)
	castDecl, castIsRef := tr.refDecl(castType)
	exprArr, exprIsArr := exprType.(*ast.ArrayType)
	castArr, castIsArr := castType.(*ast.ArrayType)

	// The null type casts to any reference or array type.
	if ast.IsNull(exprType) {
		return castIsRef || castIsArr
	}

	if exprIsPrim && castIsPrim {
		return tr.isAssignableTo(castType, exprType) || tr.isAssignableTo(exprType, castType)
	}

	if exprIsRef && castIsRef {
		_, exprIsIface := exprDecl.(*ast.InterfaceDecl)
		_, castIsIface := castDecl.(*ast.InterfaceDecl)
		exprClass, exprIsClass := exprDecl.(*ast.ClassDecl)
		castClass, castIsClass := castDecl.(*ast.ClassDecl)

		// Any two interfaces may be cast between.
		if exprIsIface && castIsIface {
			return true
		}

		// An interface and a non-final class may be cast either way.
		if exprIsIface && castIsClass && !castClass.Modifiers.IsFinal() {
			return true
		}

		if castIsIface && exprIsClass && !exprClass.Modifiers.IsFinal() {
			return true
		}

		return tr.isAssignableTo(exprType, castType) || tr.isAssignableTo(castType, exprType)
	}

	if exprIsArr && castIsArr {
		_, lok := tr.refDecl(exprArr.Elem)
		_, rok := tr.refDecl(castArr.Elem)
		return lok && rok && tr.isValidCast(exprArr.Elem, castArr.Elem)
	}

	// Arrays convert to Object, Cloneable, and Serializable in either
	// direction of the cast.
	if exprIsArr && castIsRef {
		return tr.isAssignableTo(castType, exprType)
	}

	if castIsArr && exprIsRef {
		return tr.isAssignableTo(exprType, castType)
	}

	return false
}

// refDecl extracts the declaration behind any reference-like type,
// including the built-in string type.
func (tr *ExprTypeResolver) refDecl(t ast.Type) (ast.Decl, bool) {
	if decl, ok := ast.AsReference(t); ok {
		return decl, true
	}

	if ast.IsBuiltInString(t) {
		if s := tr.builtins.String(); s != nil {
			return s, true
		}
	}

	return nil, false
}
