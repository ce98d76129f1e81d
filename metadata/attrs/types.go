package attrs

import (
	"fmt"
	"strconv"
	"strings"
)

// Prolog is the mandatory leading 2-byte marker of every custom-attribute
// blob (little-endian 0x0001).
const Prolog uint16 = 0x0001

// Serialization type tags (CorSerializationType, ECMA-335 II.23.3). One-byte
// values identifying how a named or tagged value is encoded.
const (
	SerBoolean      byte = 0x02
	SerChar         byte = 0x03
	SerI1           byte = 0x04
	SerU1           byte = 0x05
	SerI2           byte = 0x06
	SerU2           byte = 0x07
	SerI4           byte = 0x08
	SerU4           byte = 0x09
	SerI8           byte = 0x0A
	SerU8           byte = 0x0B
	SerR4           byte = 0x0C
	SerR8           byte = 0x0D
	SerString       byte = 0x0E
	SerSZArray      byte = 0x1D
	SerType         byte = 0x50
	SerTaggedObject byte = 0x51
	SerEnum         byte = 0x55
)

// Named-argument member markers.
const (
	markerField    byte = 0x53
	markerProperty byte = 0x54
)

// nullString is the single-byte marker for a null string payload.
const nullString byte = 0xFF

// ArgKind discriminates the closed set of Argument variants.
type ArgKind int

const (
	ArgBool ArgKind = iota
	ArgChar
	ArgI1
	ArgU1
	ArgI2
	ArgU2
	ArgI4
	ArgU4
	ArgI8
	ArgU8
	ArgR4
	ArgR8
	ArgI // native signed integer
	ArgU // native unsigned integer
	ArgString
	ArgType // a type's display name held as a string
	ArgEnum
	ArgArray
	ArgVoid
)

var argKindNames = map[ArgKind]string{
	ArgBool:   "Bool",
	ArgChar:   "Char",
	ArgI1:     "I1",
	ArgU1:     "U1",
	ArgI2:     "I2",
	ArgU2:     "U2",
	ArgI4:     "I4",
	ArgU4:     "U4",
	ArgI8:     "I8",
	ArgU8:     "U8",
	ArgR4:     "R4",
	ArgR8:     "R8",
	ArgI:      "I",
	ArgU:      "U",
	ArgString: "String",
	ArgType:   "Type",
	ArgEnum:   "Enum",
	ArgArray:  "Array",
	ArgVoid:   "Void",
}

func (k ArgKind) String() string {
	if name, ok := argKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Argument is one decoded custom-attribute value: a Kind tag plus the field
// holding that kind's payload. Signed integer kinds (I1..I8, I) use Int,
// unsigned kinds use Uint, floating point kinds use Float. String and Type
// use Str. Enum uses Str for the enum type name and Elem for the underlying
// integer value. Array uses Elems; a null array is an empty Elems slice.
type Argument struct {
	Kind  ArgKind
	Bool  bool
	Char  rune
	Int   int64
	Uint  uint64
	Float float64
	Str   string
	Elem  *Argument
	Elems []Argument
}

// Constructors for each variant. Width is preserved in Kind; storage is the
// widest field of each family.

func BoolArg(v bool) Argument     { return Argument{Kind: ArgBool, Bool: v} }
func CharArg(v rune) Argument     { return Argument{Kind: ArgChar, Char: v} }
func I1Arg(v int8) Argument       { return Argument{Kind: ArgI1, Int: int64(v)} }
func U1Arg(v uint8) Argument      { return Argument{Kind: ArgU1, Uint: uint64(v)} }
func I2Arg(v int16) Argument      { return Argument{Kind: ArgI2, Int: int64(v)} }
func U2Arg(v uint16) Argument     { return Argument{Kind: ArgU2, Uint: uint64(v)} }
func I4Arg(v int32) Argument      { return Argument{Kind: ArgI4, Int: int64(v)} }
func U4Arg(v uint32) Argument     { return Argument{Kind: ArgU4, Uint: uint64(v)} }
func I8Arg(v int64) Argument      { return Argument{Kind: ArgI8, Int: v} }
func U8Arg(v uint64) Argument     { return Argument{Kind: ArgU8, Uint: v} }
func R4Arg(v float32) Argument    { return Argument{Kind: ArgR4, Float: float64(v)} }
func R8Arg(v float64) Argument    { return Argument{Kind: ArgR8, Float: v} }
func NativeIntArg(v int) Argument { return Argument{Kind: ArgI, Int: int64(v)} }
func NativeUintArg(v uint) Argument {
	return Argument{Kind: ArgU, Uint: uint64(v)}
}
func StringArg(v string) Argument { return Argument{Kind: ArgString, Str: v} }
func TypeArg(v string) Argument   { return Argument{Kind: ArgType, Str: v} }
func VoidArg() Argument           { return Argument{Kind: ArgVoid} }

// EnumArg wraps an underlying integer value with its enum type name. The
// underlying argument is always one of the integer kinds, conventionally I4.
func EnumArg(typeName string, underlying Argument) Argument {
	u := underlying
	return Argument{Kind: ArgEnum, Str: typeName, Elem: &u}
}

// ArrayArg builds a homogeneous array argument. A nil or empty slice
// represents a null or zero-length array; the two are not distinguished.
func ArrayArg(elems []Argument) Argument {
	if elems == nil {
		elems = []Argument{}
	}
	return Argument{Kind: ArgArray, Elems: elems}
}

// String renders the argument for display.
func (a Argument) String() string {
	switch a.Kind {
	case ArgBool:
		return strconv.FormatBool(a.Bool)
	case ArgChar:
		return strconv.QuoteRune(a.Char)
	case ArgI1, ArgI2, ArgI4, ArgI8, ArgI:
		return strconv.FormatInt(a.Int, 10)
	case ArgU1, ArgU2, ArgU4, ArgU8, ArgU:
		return strconv.FormatUint(a.Uint, 10)
	case ArgR4, ArgR8:
		return strconv.FormatFloat(a.Float, 'g', -1, 64)
	case ArgString:
		return strconv.Quote(a.Str)
	case ArgType:
		return "typeof(" + a.Str + ")"
	case ArgEnum:
		if a.Elem != nil {
			return fmt.Sprintf("%s(%s)", a.Str, a.Elem.String())
		}
		return a.Str
	case ArgArray:
		parts := make([]string, len(a.Elems))
		for i, e := range a.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ArgVoid:
		return "void"
	default:
		return "<unknown>"
	}
}

// NamedArgument is one decoded field or property assignment.
type NamedArgument struct {
	// IsField is true for field assignments (0x53), false for properties (0x54).
	IsField bool
	// Name is the member name as declared in the blob.
	Name string
	// ArgType is the display name of the declared serialization type
	// ("I4", "String", ...). Informational only.
	ArgType string
	// Value is the decoded assignment value.
	Value Argument
}

// Value is the parse result for one custom-attribute blob.
type Value struct {
	// FixedArgs holds constructor arguments in parameter declaration order.
	FixedArgs []Argument
	// NamedArgs holds field/property assignments in blob-encounter order.
	NamedArgs []NamedArgument
}
