package ir

import (
	"fmt"
	"strings"
)

// Value represents anything an instruction can operate on: constants,
// arguments, globals, basic blocks, and instruction results.  Every value
// owns a unique numeric ID, an IR type, an optional name, and the list of
// its users.
type Value interface {
	// ID returns the unique numeric ID of the value.
	ID() int

	// Type returns the IR type of the value.
	Type() Type

	// Name returns the optional name of the value; empty if unnamed.
	Name() string

	// SetName names the value.
	SetName(name string)

	// Users returns the users currently referencing the value.
	Users() []User

	// addUser registers a user; called when the user takes the value as an
	// operand.
	addUser(user User)

	// removeUser unregisters a user; called when the user is destroyed.
	removeUser(user User)

	// RefString returns the printed operand form of the value.
	RefString() string
}

// valueBase is the base struct for all values.
type valueBase struct {
	ctx   *Context
	ty    Type
	name  string
	id    int
	users []User
}

func (ctx *Context) newValueBase(ty Type) valueBase {
	return valueBase{ctx: ctx, ty: ty, id: ctx.nextValueID()}
}

func (vb *valueBase) ID() int {
	return vb.id
}

func (vb *valueBase) Type() Type {
	return vb.ty
}

func (vb *valueBase) Name() string {
	return vb.name
}

func (vb *valueBase) SetName(name string) {
	vb.name = name
}

func (vb *valueBase) Users() []User {
	return vb.users
}

func (vb *valueBase) addUser(user User) {
	vb.users = append(vb.users, user)
}

func (vb *valueBase) removeUser(user User) {
	for i, u := range vb.users {
		if u == user {
			vb.users = append(vb.users[:i], vb.users[i+1:]...)
			return
		}
	}
}

// printName renders the stable printed form `%name.id` (or `%id` when the
// value is unnamed).
func (vb *valueBase) printName() string {
	if vb.name != "" {
		return fmt.Sprintf("%%%s.%d", vb.name, vb.id)
	}

	return fmt.Sprintf("%%%d", vb.id)
}

// RefString renders the operand form: the type followed by the printed
// name.  Label-typed values print the name alone.
func (vb *valueBase) RefString() string {
	if _, isLabel := vb.ty.(*LabelType); isLabel {
		return vb.printName()
	}

	return vb.ty.String() + " " + vb.printName()
}

// -----------------------------------------------------------------------------

// User is a value with an ordered operand list.  Registering an operand
// appends the user to the operand's user list; use/def links thus form a
// graph over arena-owned nodes, never owning references.
type User interface {
	Value

	// Operands returns the operand list in order.
	Operands() []Value

	// Operand returns the idx-th operand.
	Operand(idx int) Value
}

// userBase is the base struct for all users.
type userBase struct {
	valueBase

	operands []Value
}

func (ctx *Context) newUserBase(ty Type) userBase {
	return userBase{valueBase: ctx.newValueBase(ty)}
}

func (ub *userBase) Operands() []Value {
	return ub.operands
}

func (ub *userBase) Operand(idx int) Value {
	return ub.operands[idx]
}

// addOperand registers an operand, linking this user into the operand's
// user list.  self is the full user value (the embedding struct).
func (ub *userBase) addOperand(self User, operand Value) {
	ub.operands = append(ub.operands, operand)
	operand.addUser(self)
}

// dropOperands unlinks this user from all of its operands' user lists.
func (ub *userBase) dropOperands(self User) {
	for _, operand := range ub.operands {
		operand.removeUser(self)
	}

	ub.operands = nil
}

// -----------------------------------------------------------------------------

// operandList prints a comma-separated list of operand references.
func operandList(operands []Value) string {
	parts := make([]string, len(operands))
	for i, op := range operands {
		parts[i] = op.RefString()
	}

	return strings.Join(parts, ", ")
}
