package chain

import "reflect"

// Step is a user-supplied conversion between two adjacent chain elements,
// or the projection from the domain type back to the latest version.
type Step struct {
	from     reflect.Type
	to       reflect.Type
	fallible bool
	apply    func(any) (any, error)
}

// Convert wraps an infallible conversion.
func Convert[A, B any](fn func(A) B) Step {
	return Step{
		from: reflect.TypeOf((*A)(nil)).Elem(),
		to:   reflect.TypeOf((*B)(nil)).Elem(),
		apply: func(v any) (any, error) {
			return fn(v.(A)), nil
		},
	}
}

// TryConvert wraps a fallible conversion. Only Fallible chains accept it
// between versions, and never as the projection.
func TryConvert[A, B any](fn func(A) (B, error)) Step {
	return Step{
		from:     reflect.TypeOf((*A)(nil)).Elem(),
		to:       reflect.TypeOf((*B)(nil)).Elem(),
		fallible: true,
		apply: func(v any) (any, error) {
			b, err := fn(v.(A))
			if err != nil {
				return nil, err
			}
			return b, nil
		},
	}
}

// From returns the source type identifier.
func (s Step) From() string { return typeID(s.from) }

// To returns the target type identifier.
func (s Step) To() string { return typeID(s.to) }

// Fallible reports whether the step was built with TryConvert.
func (s Step) Fallible() bool { return s.fallible }

type edgeKey struct {
	from, to reflect.Type
}
