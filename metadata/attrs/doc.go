// Package attrs parses .NET custom-attribute blobs (ECMA-335 II.23.3).
//
// A custom-attribute blob is a compact binary encoding of the arguments
// passed to an attribute constructor plus any named field/property
// assignments:
//
//	u16 prolog (0x0001)
//	fixed arguments, untagged, laid out per the declared parameter types
//	u16 NumNamed (optional; omitted by some emitters when zero)
//	NumNamed × { marker, type tag, name, value }
//
// Fixed arguments carry no type information of their own; decoding is driven
// by the constructor's declared parameter types, supplied as typesys.Param
// values. Named arguments are self-describing through one-byte serialization
// type tags and may nest (boxed objects, arrays) up to a fixed recursion
// depth.
//
// # Entry points
//
// ParseBlob reads a heap-indexed blob (index 0 short-circuits to an empty
// result); ParseData parses raw bytes directly:
//
//	value, err := attrs.ParseData(data, params)
//
// # Enum detection
//
// Class-typed fixed arguments whose type is not System.Type, System.String,
// or System.Object are ambiguous between enum values and type references.
// When the inheritance chain is unavailable the parser falls back to a
// name-based heuristic over a known-enum table; see RegisterKnownEnum and
// LoadKnownEnums for extending the table.
//
// # Error behavior
//
// All errors are fatal to the parse; there is no partial result. Two
// deliberate leniencies exist: malformed UTF-8 inside string payloads is
// lossily converted rather than rejected, and a missing trailing
// named-argument count is treated as zero named arguments.
//
// Note an intentional asymmetry: top-level named arguments accept only
// primitive, String, and Type tags,
// while Enum, SZArray, and TaggedObject values remain reachable through
// boxed objects and array elements.
package attrs
