// Package wire provides the document value model shared by the codecs.
//
// A tagged document is a JSON-compatible tree: the version discriminant sits
// next to the payload fields at the top level of an Object. Codecs parse
// documents into Values to read or inject the discriminant without knowing
// the payload's Go type, and re-encode them with MarshalCanonical so the
// same logical document always produces the same bytes.
//
// wire imports nothing internal.
package wire
