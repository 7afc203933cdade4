package wire

import "golang.org/x/text/unicode/norm"

// NormalizeNFC returns a copy of v with every string and object key in
// Unicode NFC. It is for comparing values whose text may be spelled with
// different normalization forms; MarshalCanonical never normalizes.
func NormalizeNFC(v Value) Value {
	switch val := v.(type) {
	case String:
		return String(norm.NFC.String(string(val)))
	case Array:
		out := make(Array, len(val))
		for i, elem := range val {
			out[i] = NormalizeNFC(elem)
		}
		return out
	case Object:
		out := make(Object, len(val))
		for k, elem := range val {
			out[norm.NFC.String(k)] = NormalizeNFC(elem)
		}
		return out
	default:
		return v
	}
}
