package core

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// AreaExpr is a recursive set expression over points, evaluated as a
// predicate. It describes regions like "near this label", "outside the
// robot footprint" or "free-enough sectors" declaratively.
//
// Circle/Rect/Negate/And/Or form the closed shape the planner logic
// reasons about; Predicate is an additional leaf wrapping a compiled
// expr.Program so operators can describe one-off custom regions from
// config text (variables x, y in scope) without a rebuild.
type AreaExpr struct {
	kind areaKind

	// Circle
	center Point
	radius float64

	// Rect
	min, max Point

	// Negate/And/Or
	operands []AreaExpr

	// Predicate
	program *vm.Program
	source  string
}

type areaKind int

const (
	areaCircle areaKind = iota
	areaRect
	areaNegate
	areaAnd
	areaOr
	areaPredicate
)

// Circle builds an area expression matching points within radius of center.
func Circle(center Point, radius float64) AreaExpr {
	return AreaExpr{kind: areaCircle, center: center, radius: radius}
}

// Rect builds an axis-aligned rectangle area expression between min and max.
func Rect(min, max Point) AreaExpr {
	return AreaExpr{kind: areaRect, min: min, max: max}
}

// Not negates an area expression.
func Not(a AreaExpr) AreaExpr {
	return AreaExpr{kind: areaNegate, operands: []AreaExpr{a}}
}

// And intersects area expressions.
func And(areas ...AreaExpr) AreaExpr {
	return AreaExpr{kind: areaAnd, operands: areas}
}

// Or unions area expressions.
func Or(areas ...AreaExpr) AreaExpr {
	return AreaExpr{kind: areaOr, operands: areas}
}

// CompilePredicate compiles a boolean expr program over (x, y float64)
// into an AreaExpr leaf, e.g. "x > 2 && (x-1)*(x-1)+(y-1)*(y-1) < 4".
func CompilePredicate(source string) (AreaExpr, error) {
	env := map[string]interface{}{"x": 0.0, "y": 0.0}
	program, err := expr.Compile(source, expr.Env(env), expr.AsBool())
	if err != nil {
		return AreaExpr{}, fmt.Errorf("compile area predicate %q: %w", source, err)
	}
	return AreaExpr{kind: areaPredicate, program: program, source: source}, nil
}

// Eval reports whether p satisfies the area expression.
func (a AreaExpr) Eval(p Point) bool {
	switch a.kind {
	case areaCircle:
		return p.Distance(a.center) <= a.radius
	case areaRect:
		return p.X >= a.min.X && p.X <= a.max.X && p.Y >= a.min.Y && p.Y <= a.max.Y
	case areaNegate:
		return !a.operands[0].Eval(p)
	case areaAnd:
		for _, op := range a.operands {
			if !op.Eval(p) {
				return false
			}
		}
		return true
	case areaOr:
		for _, op := range a.operands {
			if op.Eval(p) {
				return true
			}
		}
		return false
	case areaPredicate:
		out, err := expr.Run(a.program, map[string]interface{}{"x": p.X, "y": p.Y})
		if err != nil {
			return false
		}
		b, _ := out.(bool)
		return b
	default:
		return false
	}
}

// String returns a debugging description of the expression.
func (a AreaExpr) String() string {
	switch a.kind {
	case areaCircle:
		return fmt.Sprintf("circle(%v, r=%g)", a.center, a.radius)
	case areaRect:
		return fmt.Sprintf("rect(%v, %v)", a.min, a.max)
	case areaNegate:
		return fmt.Sprintf("not(%v)", a.operands[0])
	case areaAnd:
		return fmt.Sprintf("and%v", a.operands)
	case areaOr:
		return fmt.Sprintf("or%v", a.operands)
	case areaPredicate:
		return fmt.Sprintf("predicate(%q)", a.source)
	default:
		return "area()"
	}
}
