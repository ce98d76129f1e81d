package attrs

import (
	"math/bits"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/cilscope/cilscope/errors"
	"github.com/cilscope/cilscope/metadata/heap"
	"github.com/cilscope/cilscope/metadata/internal/binary"
	"github.com/cilscope/cilscope/metadata/typesys"
)

// maxRecursionDepth bounds nesting of tagged objects and arrays so a
// maliciously deep blob fails fast instead of exhausting the stack.
const maxRecursionDepth = 50

// ParseBlob parses the custom-attribute blob stored at the given heap index.
// Index 0 means "no custom attribute data" and yields an empty Value without
// touching the heap.
func ParseBlob(blob *heap.Blob, index uint32, params []typesys.Param) (*Value, error) {
	if index == 0 {
		return &Value{FixedArgs: []Argument{}, NamedArgs: []NamedArgument{}}, nil
	}

	data, err := blob.Get(index)
	if err != nil {
		return nil, err
	}
	return ParseData(data, params)
}

// ParseData parses a custom-attribute blob from raw bytes using the
// constructor's declared parameter types for fixed-argument decoding.
// Zero-length data yields an empty Value.
func ParseData(data []byte, params []typesys.Param) (*Value, error) {
	if len(data) == 0 {
		return &Value{FixedArgs: []Argument{}, NamedArgs: []NamedArgument{}}, nil
	}
	return NewParser(data).Parse(params)
}

// Parser decodes a single custom-attribute blob. A Parser is single-use: it
// owns a cursor over one blob and a recursion counter, and must be considered
// consumed after any error. It is not safe for concurrent use within one
// parse; parse different blobs with different Parser instances.
type Parser struct {
	cur   *binary.Cursor
	depth int
}

// NewParser creates a parser over the given blob bytes.
func NewParser(data []byte) *Parser {
	return &Parser{cur: binary.NewCursor(data)}
}

// Parse runs the full prolog, fixed-argument, and named-argument pipeline.
func (p *Parser) Parse(params []typesys.Param) (*Value, error) {
	prolog, err := p.cur.ReadU16()
	if err != nil {
		return nil, errors.Malformed("custom attribute blob too short for prolog")
	}
	if prolog != Prolog {
		return nil, errors.Malformed("invalid custom attribute prolog 0x%04X, expected 0x0001", prolog)
	}

	fixedArgs, err := p.decodeFixedArgs(params)
	if err != nil {
		return nil, err
	}

	// A missing trailing NumNamed count is tolerated: real-world blobs omit
	// it when there are no named arguments.
	namedArgs := []NamedArgument{}
	if p.cur.Remaining() >= 2 {
		numNamed, err := p.cur.ReadU16()
		if err != nil {
			return nil, err
		}
		namedArgs = make([]NamedArgument, 0, numNamed)
		for i := 0; i < int(numNamed); i++ {
			arg, err := p.decodeNamed()
			if err != nil {
				return nil, err
			}
			if arg == nil {
				Logger().Debug("named argument data ended early",
					zap.Int("decoded", i),
					zap.Uint16("declared", numNamed))
				break
			}
			namedArgs = append(namedArgs, *arg)
		}
	}

	return &Value{FixedArgs: fixedArgs, NamedArgs: namedArgs}, nil
}

// decodeFixedArgs decodes one fixed argument per declared constructor
// parameter, in ascending sequence order. Sequence 0 is the return slot and
// carries no argument.
func (p *Parser) decodeFixedArgs(params []typesys.Param) ([]Argument, error) {
	declared := make([]typesys.Param, 0, len(params))
	for _, param := range params {
		if param.Sequence > 0 {
			declared = append(declared, param)
		}
	}
	sort.Slice(declared, func(i, j int) bool {
		return declared[i].Sequence < declared[j].Sequence
	})

	resolved := make([]typesys.Type, 0, len(declared))
	for _, param := range declared {
		if param.Type != nil {
			resolved = append(resolved, param.Type)
		}
	}
	if len(resolved) == 0 && len(declared) > 0 {
		return nil, errors.Malformed("constructor has %d parameters but no resolved types", len(declared))
	}

	fixedArgs := make([]Argument, 0, len(resolved))
	for _, paramType := range resolved {
		if !p.cur.HasMore() {
			return nil, errors.Malformed("not enough data for remaining constructor parameters")
		}
		arg, err := p.decodeFixed(paramType)
		if err != nil {
			return nil, err
		}
		fixedArgs = append(fixedArgs, arg)
	}

	return fixedArgs, nil
}

// decodeFixed decodes one fixed argument. Fixed arguments carry no type tags;
// the wire layout is dictated entirely by the declared type's flavor.
func (p *Parser) decodeFixed(t typesys.Type) (Argument, error) {
	flavor := t.Flavor()

	if !p.cur.HasMore() {
		return Argument{}, errors.Malformed(
			"not enough data for fixed argument of flavor %s (pos=%d, len=%d)",
			flavor, p.cur.Position(), p.cur.Len())
	}

	switch flavor {
	case typesys.FlavorBoolean:
		b, err := p.cur.ReadByte()
		if err != nil {
			return Argument{}, err
		}
		return BoolArg(b != 0), nil

	case typesys.FlavorChar:
		v, err := p.cur.ReadU16()
		if err != nil {
			return Argument{}, err
		}
		return CharArg(decodeChar(v)), nil

	case typesys.FlavorI1:
		b, err := p.cur.ReadByte()
		if err != nil {
			return Argument{}, err
		}
		return I1Arg(int8(b)), nil

	case typesys.FlavorU1:
		b, err := p.cur.ReadByte()
		if err != nil {
			return Argument{}, err
		}
		return U1Arg(b), nil

	case typesys.FlavorI2:
		v, err := p.cur.ReadU16()
		if err != nil {
			return Argument{}, err
		}
		return I2Arg(int16(v)), nil

	case typesys.FlavorU2:
		v, err := p.cur.ReadU16()
		if err != nil {
			return Argument{}, err
		}
		return U2Arg(v), nil

	case typesys.FlavorI4:
		v, err := p.cur.ReadI32()
		if err != nil {
			return Argument{}, err
		}
		return I4Arg(v), nil

	case typesys.FlavorU4:
		v, err := p.cur.ReadU32()
		if err != nil {
			return Argument{}, err
		}
		return U4Arg(v), nil

	case typesys.FlavorI8:
		v, err := p.cur.ReadU64()
		if err != nil {
			return Argument{}, err
		}
		return I8Arg(int64(v)), nil

	case typesys.FlavorU8:
		v, err := p.cur.ReadU64()
		if err != nil {
			return Argument{}, err
		}
		return U8Arg(v), nil

	case typesys.FlavorR4:
		v, err := p.cur.ReadF32()
		if err != nil {
			return Argument{}, err
		}
		return R4Arg(v), nil

	case typesys.FlavorR8:
		v, err := p.cur.ReadF64()
		if err != nil {
			return Argument{}, err
		}
		return R8Arg(v), nil

	case typesys.FlavorI:
		// Native int decodes at the pointer width of the platform running
		// the parser, not the target assembly's platform.
		if bits.UintSize == 64 {
			v, err := p.cur.ReadU64()
			if err != nil {
				return Argument{}, err
			}
			return NativeIntArg(int(int64(v))), nil
		}
		v, err := p.cur.ReadI32()
		if err != nil {
			return Argument{}, err
		}
		return NativeIntArg(int(v)), nil

	case typesys.FlavorU:
		if bits.UintSize == 64 {
			v, err := p.cur.ReadU64()
			if err != nil {
				return Argument{}, err
			}
			return NativeUintArg(uint(v)), nil
		}
		v, err := p.cur.ReadU32()
		if err != nil {
			return Argument{}, err
		}
		return NativeUintArg(uint(v)), nil

	case typesys.FlavorString:
		s, err := p.readString()
		if err != nil {
			return Argument{}, err
		}
		return StringArg(s), nil

	case typesys.FlavorClass:
		return p.decodeFixedClass(t)

	case typesys.FlavorValueType:
		// ValueType in a fixed argument is an enum with an I4 underlying value.
		v, err := p.cur.ReadI32()
		if err != nil {
			return Argument{}, err
		}
		return EnumArg(t.FullName(), I4Arg(v)), nil

	case typesys.FlavorArray:
		return p.decodeFixedArray(t)

	case typesys.FlavorVoid:
		return VoidArg(), nil

	default:
		return Argument{}, errors.Unsupported("type flavor %s in custom attribute", flavor)
	}
}

// decodeFixedClass handles class-typed fixed arguments. System.Type,
// System.String, and System.Object have dedicated encodings; any other class
// is ambiguous between an enum and a type reference and goes through the enum
// detection heuristic.
func (p *Parser) decodeFixedClass(t typesys.Type) (Argument, error) {
	typeName := t.FullName()

	switch typeName {
	case "System.Type":
		s, err := p.readString()
		if err != nil {
			return Argument{}, err
		}
		return TypeArg(s), nil

	case "System.String":
		s, err := p.readString()
		if err != nil {
			return Argument{}, err
		}
		return StringArg(s), nil

	case "System.Object":
		// Boxed value: one tag byte, then tag-directed decoding.
		tag, err := p.cur.ReadByte()
		if err != nil {
			return Argument{}, err
		}
		return p.decodeByTag(tag)
	}

	if isEnumType(t) {
		if p.cur.Remaining() >= 4 {
			v, err := p.cur.ReadI32()
			if err != nil {
				return Argument{}, err
			}
			return EnumArg(typeName, I4Arg(v)), nil
		}
		// Too few bytes for an enum value: the heuristic likely misfired,
		// fall back to type-name decoding so real-world blobs still load.
		s, err := p.readString()
		if err != nil {
			return Argument{}, errors.Malformed(
				"class parameter %q: insufficient data for enum value and string decoding failed", typeName)
		}
		return TypeArg(s), nil
	}

	s, err := p.readString()
	if err != nil {
		return Argument{}, errors.New(errors.PhaseParse, errors.KindMalformed).
			Path(typeName).
			Cause(err).
			Detail("class parameter as type name").
			Build()
	}
	return TypeArg(s), nil
}

// decodeFixedArray handles array-typed fixed arguments: a 4-byte signed
// element count, then that many elements of the declared element type.
func (p *Parser) decodeFixedArray(t typesys.Type) (Argument, error) {
	if t.Rank() != 1 {
		return Argument{}, errors.Malformed("multi-dimensional array (rank %d) not supported in custom attributes", t.Rank())
	}

	length, err := p.cur.ReadI32()
	if err != nil {
		return Argument{}, err
	}
	switch {
	case length == -1:
		return ArrayArg(nil), nil // null array
	case length < 0:
		return Argument{}, errors.Malformed("invalid array length %d", length)
	}

	elemType := t.Element()
	if elemType == nil {
		return Argument{}, errors.Malformed("array type %q has no element type information", t.FullName())
	}

	elems := make([]Argument, 0, length)
	for i := int32(0); i < length; i++ {
		elem, err := p.decodeFixed(elemType)
		if err != nil {
			return Argument{}, err
		}
		elems = append(elems, elem)
	}
	return ArrayArg(elems), nil
}

// decodeNamed decodes one named argument. A nil result (with nil error)
// signals "no more data" so the caller loop can stop early on short blobs.
func (p *Parser) decodeNamed() (*NamedArgument, error) {
	if !p.cur.HasMore() {
		return nil, nil
	}

	marker, err := p.cur.ReadByte()
	if err != nil {
		return nil, err
	}
	var isField bool
	switch marker {
	case markerField:
		isField = true
	case markerProperty:
		isField = false
	default:
		return nil, errors.Malformed("invalid field/property marker 0x%02X", marker)
	}

	tag, err := p.cur.ReadByte()
	if err != nil {
		return nil, err
	}
	argType, ok := namedArgTypeName(tag)
	if !ok {
		return nil, errors.Unsupported("named argument type tag 0x%02X", tag)
	}

	name, err := p.readMemberName()
	if err != nil {
		return nil, err
	}

	value, err := p.decodeByTag(tag)
	if err != nil {
		return nil, err
	}

	return &NamedArgument{
		IsField: isField,
		Name:    name,
		ArgType: argType,
		Value:   value,
	}, nil
}

// namedArgTypeName maps a serialization tag to its display name. Top-level
// named arguments only admit primitive, String, and Type tags; Enum, SZArray,
// and TaggedObject are rejected here even though decodeByTag accepts them
// when reached through array elements or boxed objects.
func namedArgTypeName(tag byte) (string, bool) {
	switch tag {
	case SerBoolean:
		return "Boolean", true
	case SerChar:
		return "Char", true
	case SerI1:
		return "I1", true
	case SerU1:
		return "U1", true
	case SerI2:
		return "I2", true
	case SerU2:
		return "U2", true
	case SerI4:
		return "I4", true
	case SerU4:
		return "U4", true
	case SerI8:
		return "I8", true
	case SerU8:
		return "U8", true
	case SerR4:
		return "R4", true
	case SerR8:
		return "R8", true
	case SerString:
		return "String", true
	case SerType:
		return "Type", true
	default:
		return "", false
	}
}

// readMemberName reads a compressed-length-prefixed member name. Each raw
// byte maps to one char code; the bytes are not UTF-8 decoded.
func (p *Parser) readMemberName() (string, error) {
	length, err := p.cur.ReadCompressedUint()
	if err != nil {
		return "", err
	}
	raw, err := p.cur.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes), nil
}

// decodeByTag decodes a self-describing value from its serialization tag.
// Recursive for tagged objects and arrays, bounded by maxRecursionDepth.
func (p *Parser) decodeByTag(tag byte) (Argument, error) {
	p.depth++
	if p.depth >= maxRecursionDepth {
		return Argument{}, errors.RecursionLimitExceeded(maxRecursionDepth)
	}
	defer func() { p.depth-- }()

	switch tag {
	case SerBoolean:
		b, err := p.cur.ReadByte()
		if err != nil {
			return Argument{}, err
		}
		return BoolArg(b != 0), nil

	case SerChar:
		v, err := p.cur.ReadU16()
		if err != nil {
			return Argument{}, err
		}
		return CharArg(decodeChar(v)), nil

	case SerI1:
		b, err := p.cur.ReadByte()
		if err != nil {
			return Argument{}, err
		}
		return I1Arg(int8(b)), nil

	case SerU1:
		b, err := p.cur.ReadByte()
		if err != nil {
			return Argument{}, err
		}
		return U1Arg(b), nil

	case SerI2:
		v, err := p.cur.ReadU16()
		if err != nil {
			return Argument{}, err
		}
		return I2Arg(int16(v)), nil

	case SerU2:
		v, err := p.cur.ReadU16()
		if err != nil {
			return Argument{}, err
		}
		return U2Arg(v), nil

	case SerI4:
		v, err := p.cur.ReadI32()
		if err != nil {
			return Argument{}, err
		}
		return I4Arg(v), nil

	case SerU4:
		v, err := p.cur.ReadU32()
		if err != nil {
			return Argument{}, err
		}
		return U4Arg(v), nil

	case SerI8:
		v, err := p.cur.ReadU64()
		if err != nil {
			return Argument{}, err
		}
		return I8Arg(int64(v)), nil

	case SerU8:
		v, err := p.cur.ReadU64()
		if err != nil {
			return Argument{}, err
		}
		return U8Arg(v), nil

	case SerR4:
		v, err := p.cur.ReadF32()
		if err != nil {
			return Argument{}, err
		}
		return R4Arg(v), nil

	case SerR8:
		v, err := p.cur.ReadF64()
		if err != nil {
			return Argument{}, err
		}
		return R8Arg(v), nil

	case SerString:
		s, err := p.readString()
		if err != nil {
			return Argument{}, err
		}
		return StringArg(s), nil

	case SerType:
		s, err := p.readString()
		if err != nil {
			return Argument{}, err
		}
		return TypeArg(s), nil

	case SerTaggedObject:
		inner, err := p.cur.ReadByte()
		if err != nil {
			return Argument{}, err
		}
		return p.decodeByTag(inner)

	case SerEnum:
		typeName, err := p.readString()
		if err != nil {
			return Argument{}, err
		}
		v, err := p.cur.ReadI32()
		if err != nil {
			return Argument{}, err
		}
		return EnumArg(typeName, I4Arg(v)), nil

	case SerSZArray:
		elemTag, err := p.cur.ReadByte()
		if err != nil {
			return Argument{}, err
		}
		length, err := p.cur.ReadI32()
		if err != nil {
			return Argument{}, err
		}
		switch {
		case length == -1:
			return ArrayArg(nil), nil // null array
		case length < 0:
			return Argument{}, errors.Malformed("invalid array length %d", length)
		}
		elems := make([]Argument, 0, length)
		for i := int32(0); i < length; i++ {
			elem, err := p.decodeByTag(elemTag)
			if err != nil {
				return Argument{}, err
			}
			elems = append(elems, elem)
		}
		return ArrayArg(elems), nil

	default:
		return Argument{}, errors.Unsupported("serialization type tag 0x%02X", tag)
	}
}

// readString reads an ECMA-335 string: a single 0xFF byte meaning null, or a
// compressed-length prefix followed by UTF-8 bytes. Null decodes to the empty
// string. Malformed UTF-8 in the payload is lossily converted rather than
// rejected; corrupted string data is common in real-world binaries.
func (p *Parser) readString() (string, error) {
	if !p.cur.HasMore() {
		return "", errors.Malformed("no data available for string")
	}

	first, err := p.cur.PeekByte()
	if err != nil {
		return "", err
	}
	if first == nullString {
		_, _ = p.cur.ReadByte()
		return "", nil
	}

	length, err := p.cur.ReadCompressedUint()
	if err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}
	if int(length) > p.cur.Remaining() {
		return "", errors.Malformed(
			"string length %d exceeds available data %d (pos=%d, len=%d)",
			length, p.cur.Remaining(), p.cur.Position(), p.cur.Len())
	}

	raw, err := p.cur.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError)), nil
}

// decodeChar converts a UTF-16 code unit to a rune, substituting U+FFFD for
// surrogate halves.
func decodeChar(v uint16) rune {
	r := rune(v)
	if !utf8.ValidRune(r) {
		return utf8.RuneError
	}
	return r
}
