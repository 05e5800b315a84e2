package proc

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseProgram parses an ordered list of textual lines into a Sequence,
// namespacing every get/put key with stateID per the key-prefixing
// invariant (§4.2): a state's hooks only ever touch its own "<id>.<key>"
// slots.
//
// Line grammar, one instruction per line:
//
//	push <literal>   push a number (if parseable) or text literal
//	put <key>        pop the stack top, store at "<id>.<key>"
//	get <key>        push the value at "<id>.<key>"
//	add|sub|mul|div|neg|swap|time   no-argument ops
//	<anything else>  pushed as-is (number if parseable, else text)
func ParseProgram(lines []string, stateID string) (Sequence, error) {
	seq := make(Sequence, 0, len(lines))
	for i, line := range lines {
		cmd, err := parseLine(line, stateID)
		if err != nil {
			return nil, fmt.Errorf("line %d (%q): %w", i+1, line, err)
		}
		seq = append(seq, cmd)
	}
	return seq, nil
}

func parseLine(line string, stateID string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty program line")
	}

	op := fields[0]
	arg := strings.TrimSpace(strings.TrimPrefix(line, op))

	switch op {
	case "push":
		return PushOp{Value: parseLiteral(arg)}, nil
	case "put":
		if arg == "" {
			return nil, fmt.Errorf("put requires a key")
		}
		return PutOp{Key: Prefix(stateID, arg)}, nil
	case "get":
		if arg == "" {
			return nil, fmt.Errorf("get requires a key")
		}
		return GetOp{Key: Prefix(stateID, arg)}, nil
	case "add":
		return AddOp(), nil
	case "sub":
		return SubOp(), nil
	case "mul":
		return MulOp(), nil
	case "div":
		return DivOp(), nil
	case "neg":
		return NegOp(), nil
	case "swap":
		return SwapOp(), nil
	case "time":
		return TimeOp{}, nil
	default:
		return PushOp{Value: parseLiteral(line)}, nil
	}
}

// parseLiteral parses s as a number when possible, otherwise pushes it
// as a text literal.
func parseLiteral(s string) Value {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return NumberValue(n)
	}
	return TextValue(s)
}
