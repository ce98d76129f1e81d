// Package typesys defines the narrow type query surface the attribute parser
// depends on: a closed set of type flavors, a read-only Type interface for
// name, inheritance, and array element lookups, and constructor parameter
// descriptors.
//
// The interface is deliberately minimal so the parser can be exercised with
// synthetic TypeInfo fixtures instead of a live metadata table graph.
package typesys

// Flavor classifies the shape of a declared type. It is a closed set; the
// attribute parser dispatches purely on this value.
type Flavor int

const (
	FlavorUnknown Flavor = iota
	FlavorBoolean
	FlavorChar
	FlavorI1
	FlavorU1
	FlavorI2
	FlavorU2
	FlavorI4
	FlavorU4
	FlavorI8
	FlavorU8
	FlavorR4
	FlavorR8
	FlavorI // native signed integer, platform pointer width
	FlavorU // native unsigned integer, platform pointer width
	FlavorString
	FlavorClass
	FlavorValueType
	FlavorArray
	FlavorVoid
	FlavorPointer
	FlavorGenericVar
)

var flavorNames = map[Flavor]string{
	FlavorUnknown:    "Unknown",
	FlavorBoolean:    "Boolean",
	FlavorChar:       "Char",
	FlavorI1:         "I1",
	FlavorU1:         "U1",
	FlavorI2:         "I2",
	FlavorU2:         "U2",
	FlavorI4:         "I4",
	FlavorU4:         "U4",
	FlavorI8:         "I8",
	FlavorU8:         "U8",
	FlavorR4:         "R4",
	FlavorR8:         "R8",
	FlavorI:          "I",
	FlavorU:          "U",
	FlavorString:     "String",
	FlavorClass:      "Class",
	FlavorValueType:  "ValueType",
	FlavorArray:      "Array",
	FlavorVoid:       "Void",
	FlavorPointer:    "Pointer",
	FlavorGenericVar: "GenericVar",
}

func (f Flavor) String() string {
	if name, ok := flavorNames[f]; ok {
		return name
	}
	return "Unknown"
}

// Type is the read-only query surface over a declared type.
type Type interface {
	// Flavor returns the type's shape classification.
	Flavor() Flavor
	// FullName returns the namespace-qualified display name.
	FullName() string
	// Base returns the type one level up the inheritance chain, or nil at
	// the top of the chain or when inheritance information is unavailable
	// (external, unresolved types).
	Base() Type
	// Element returns the element type for array types, nil otherwise.
	Element() Type
	// Rank returns the array rank for array types, 0 otherwise.
	Rank() uint32
}

// TypeInfo is a concrete Type for synthetic fixtures and callers that build
// type descriptions by hand.
type TypeInfo struct {
	Name      string
	Kind      Flavor
	BaseType  Type
	Elem      Type
	ArrayRank uint32
}

func (t *TypeInfo) Flavor() Flavor   { return t.Kind }
func (t *TypeInfo) FullName() string { return t.Name }
func (t *TypeInfo) Base() Type       { return t.BaseType }
func (t *TypeInfo) Element() Type    { return t.Elem }
func (t *TypeInfo) Rank() uint32     { return t.ArrayRank }

var primitiveNames = map[Flavor]string{
	FlavorBoolean: "System.Boolean",
	FlavorChar:    "System.Char",
	FlavorI1:      "System.SByte",
	FlavorU1:      "System.Byte",
	FlavorI2:      "System.Int16",
	FlavorU2:      "System.UInt16",
	FlavorI4:      "System.Int32",
	FlavorU4:      "System.UInt32",
	FlavorI8:      "System.Int64",
	FlavorU8:      "System.UInt64",
	FlavorR4:      "System.Single",
	FlavorR8:      "System.Double",
	FlavorI:       "System.IntPtr",
	FlavorU:       "System.UIntPtr",
	FlavorString:  "System.String",
	FlavorVoid:    "System.Void",
}

// Primitive returns a TypeInfo for a primitive flavor with its canonical BCL
// name.
func Primitive(f Flavor) *TypeInfo {
	return &TypeInfo{Name: primitiveNames[f], Kind: f}
}

// Class returns a TypeInfo for a class type with the given full name and an
// optional base type.
func Class(fullName string, base Type) *TypeInfo {
	return &TypeInfo{Name: fullName, Kind: FlavorClass, BaseType: base}
}

// SZArray returns a TypeInfo for a single-dimensional array of elem.
func SZArray(elem Type) *TypeInfo {
	name := ""
	if elem != nil {
		name = elem.FullName() + "[]"
	}
	return &TypeInfo{Name: name, Kind: FlavorArray, Elem: elem, ArrayRank: 1}
}

// Param describes one constructor parameter. Sequence 0 is the method's
// return slot and carries no fixed argument. Type is nil when upstream
// resolution failed.
type Param struct {
	Sequence uint32
	Type     Type
}
