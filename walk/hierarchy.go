package walk

import (
	"joosc/ast"
	"joosc/resolve"
)

// hierarchy answers subtype questions over resolved declarations.  It leans
// on the resolver's built-in cache for the implicit Object superclass.
type hierarchy struct {
	builtins *resolve.Builtins
}

// superClassOf returns the direct superclass declaration of a class: the
// first resolved explicit super, or Object when the class has none and is
// not itself Object.
func (h *hierarchy) superClassOf(class *ast.ClassDecl) *ast.ClassDecl {
	for _, super := range class.SuperClasses {
		if super == nil {
			continue
		}

		if decl, ok := ast.AsReference(super); ok {
			if superClass, ok := decl.(*ast.ClassDecl); ok {
				return superClass
			}
		}
	}

	if obj, ok := h.builtins.Object().(*ast.ClassDecl); ok && obj != class {
		return obj
	}

	return nil
}

// isSuperClass returns whether super is sub or one of sub's transitive
// superclasses.
func (h *hierarchy) isSuperClass(super, sub *ast.ClassDecl) bool {
	for c := sub; c != nil; c = h.superClassOf(c) {
		if c == super {
			return true
		}
	}

	return false
}

// extendsInterface returns whether iface is target or one of target's
// transitive super-interfaces.
func (h *hierarchy) extendsInterface(iface, target *ast.InterfaceDecl) bool {
	if target == iface {
		return true
	}

	for _, ext := range target.Extends {
		decl, ok := ast.AsReference(ext)
		if !ok {
			continue
		}

		if superIface, ok := decl.(*ast.InterfaceDecl); ok && h.extendsInterface(iface, superIface) {
			return true
		}
	}

	return false
}

// classImplements returns whether class or one of its superclasses
// implements iface, directly or through interface extension.
func (h *hierarchy) classImplements(iface *ast.InterfaceDecl, class *ast.ClassDecl) bool {
	for c := class; c != nil; c = h.superClassOf(c) {
		for _, impl := range c.Interfaces {
			decl, ok := ast.AsReference(impl)
			if !ok {
				continue
			}

			if implIface, ok := decl.(*ast.InterfaceDecl); ok && h.extendsInterface(iface, implIface) {
				return true
			}
		}
	}

	return false
}

// isSuperInterface returns whether iface is visible above decl: for a class,
// through implementation; for an interface, through extension.
func (h *hierarchy) isSuperInterface(iface *ast.InterfaceDecl, decl ast.Decl) bool {
	switch d := decl.(type) {
	case *ast.ClassDecl:
		return h.classImplements(iface, d)
	case *ast.InterfaceDecl:
		return h.extendsInterface(iface, d)
	}

	return false
}

// -----------------------------------------------------------------------------
// Member lookup.

// findField finds a field by name in a class or its superclasses.
func (h *hierarchy) findField(decl ast.Decl, name string) *ast.FieldDecl {
	class, ok := decl.(*ast.ClassDecl)
	if !ok {
		return nil
	}

	for c := class; c != nil; c = h.superClassOf(c) {
		for _, field := range c.Fields {
			if field.Name() == name {
				return field
			}
		}
	}

	return nil
}

// methodsNamed collects every method with the given name visible on the
// declaration: a class contributes its own and inherited methods, an
// interface its own and extended ones.
func (h *hierarchy) methodsNamed(decl ast.Decl, name string) []*ast.MethodDecl {
	var found []*ast.MethodDecl

	switch d := decl.(type) {
	case *ast.ClassDecl:
		for c := d; c != nil; c = h.superClassOf(c) {
			for _, method := range c.Methods {
				if method.Name() == name {
					found = append(found, method)
				}
			}
		}
	case *ast.InterfaceDecl:
		h.collectInterfaceMethods(d, name, &found)
	}

	return found
}

func (h *hierarchy) collectInterfaceMethods(iface *ast.InterfaceDecl, name string, out *[]*ast.MethodDecl) {
	for _, method := range iface.Methods {
		if method.Name() == name {
			*out = append(*out, method)
		}
	}

	for _, ext := range iface.Extends {
		decl, ok := ast.AsReference(ext)
		if !ok {
			continue
		}

		if superIface, ok := decl.(*ast.InterfaceDecl); ok {
			h.collectInterfaceMethods(superIface, name, out)
		}
	}
}
