package gql

import "apk-recon/internal/program"

// Shape is the calling convention of a candidate constructor.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeDataClass
	ShapeNoArg
	ShapeLooseString
)

func (s Shape) String() string {
	switch s {
	case ShapeDataClass:
		return "data-class"
	case ShapeNoArg:
		return "no-arg"
	case ShapeLooseString:
		return "loose-string"
	default:
		return "unknown"
	}
}

// shapeRules is evaluated top to bottom; the first guard that holds decides.
var shapeRules = []struct {
	shape Shape
	match func(params []string) bool
}{
	{ShapeDataClass, func(p []string) bool { return allStrings(p, descriptorArity) }},
	{ShapeNoArg, func(p []string) bool { return len(p) == 0 }},
	{ShapeLooseString, func(p []string) bool { return countStrings(p) >= descriptorArity }},
}

// ClassifyConstructor returns the shape of ctor.
func ClassifyConstructor(ctor program.Method) Shape {
	params := ctor.Parameters()
	for _, r := range shapeRules {
		if r.match(params) {
			return r.shape
		}
	}
	return ShapeUnknown
}
