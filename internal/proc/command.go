package proc

import "fmt"

// Command is one instruction of the processor command micro-VM, or an
// ordered sequence of them. Execute never panics: failures (stack
// underflow, a missing Get key, a non-numeric arithmetic operand) are
// returned as an error, which the caller (Agent) surfaces on the
// errors stream and treats as a no-op command for that tick.
type Command interface {
	Execute(ctx *Context) error
}

// Run executes cmd against ctx and additionally enforces the micro-VM's
// structural invariant: the stack must be empty once the whole program
// has run, or the program is malformed. Use Run for top-level hook
// programs (on_init/on_entry/on_exit/on_transition); Sequence itself
// does not re-check balance on every nested child.
func Run(cmd Command, ctx *Context) error {
	if cmd == nil {
		return nil
	}
	if err := cmd.Execute(ctx); err != nil {
		return err
	}
	if ctx.StackSize() != 0 {
		return fmt.Errorf("%w: %d operand(s) left", ErrUnbalancedStack, ctx.StackSize())
	}
	return nil
}

// Sequence runs a list of commands in order, stopping at the first error.
type Sequence []Command

func (s Sequence) Execute(ctx *Context) error {
	for _, c := range s {
		if err := c.Execute(ctx); err != nil {
			return err
		}
	}
	return nil
}

// PushOp pushes a literal value.
type PushOp struct{ Value Value }

func (op PushOp) Execute(ctx *Context) error {
	ctx.Push(op.Value)
	return nil
}

// PutOp pops the top of the stack and stores it under Key.
type PutOp struct{ Key string }

func (op PutOp) Execute(ctx *Context) error {
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	ctx.Put(op.Key, v)
	return nil
}

// GetOp pushes the value stored under Key, or fails with ErrMissingKey.
type GetOp struct{ Key string }

func (op GetOp) Execute(ctx *Context) error {
	v, ok := ctx.Get(op.Key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingKey, op.Key)
	}
	ctx.Push(v)
	return nil
}

// TimeOp pushes the latched world model's simulation time.
type TimeOp struct{}

func (TimeOp) Execute(ctx *Context) error {
	ctx.Push(NumberValue(ctx.WorldModel().RobotStatus.SimulationTime))
	return nil
}

// SwapOp exchanges the top two stack operands.
type SwapOp struct{}

func (SwapOp) Execute(ctx *Context) error {
	a, err := ctx.Pop()
	if err != nil {
		return err
	}
	b, err := ctx.Pop()
	if err != nil {
		return err
	}
	ctx.Push(a)
	ctx.Push(b)
	return nil
}

// SetPropertiesOp stores every entry of Values directly into the
// context, bypassing the stack.
type SetPropertiesOp struct{ Values map[string]Value }

func (op SetPropertiesOp) Execute(ctx *Context) error {
	for k, v := range op.Values {
		ctx.Put(k, v)
	}
	return nil
}

// arithKind discriminates the binary/unary arithmetic ops.
type arithKind int

const (
	opAdd arithKind = iota
	opSub
	opMul
	opDiv
	opNeg
)

// ArithOp pops one (Neg) or two (Add/Sub/Mul/Div) numeric operands and
// pushes the result as a Number. Non-numeric operands fail with
// ErrTypeMismatch.
type ArithOp struct{ Kind arithKind }

func AddOp() ArithOp { return ArithOp{Kind: opAdd} }
func SubOp() ArithOp { return ArithOp{Kind: opSub} }
func MulOp() ArithOp { return ArithOp{Kind: opMul} }
func DivOp() ArithOp { return ArithOp{Kind: opDiv} }
func NegOp() ArithOp { return ArithOp{Kind: opNeg} }

func (op ArithOp) Execute(ctx *Context) error {
	if op.Kind == opNeg {
		v, err := ctx.Pop()
		if err != nil {
			return err
		}
		if !v.IsNumeric() {
			return fmt.Errorf("%w: neg requires a number", ErrTypeMismatch)
		}
		ctx.Push(NumberValue(-v.AsFloat(0)))
		return nil
	}

	b, err := ctx.Pop()
	if err != nil {
		return err
	}
	a, err := ctx.Pop()
	if err != nil {
		return err
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return fmt.Errorf("%w: arithmetic requires two numbers", ErrTypeMismatch)
	}
	x, y := a.AsFloat(0), b.AsFloat(0)
	var result float64
	switch op.Kind {
	case opAdd:
		result = x + y
	case opSub:
		result = x - y
	case opMul:
		result = x * y
	case opDiv:
		if y == 0 {
			return fmt.Errorf("%w: division by zero", ErrTypeMismatch)
		}
		result = x / y
	}
	ctx.Push(NumberValue(result))
	return nil
}
