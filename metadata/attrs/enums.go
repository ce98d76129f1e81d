package attrs

import (
	"io"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cilscope/cilscope/errors"
	"github.com/cilscope/cilscope/metadata/typesys"
)

// maxInheritanceDepth bounds the base-type walk during enum detection.
const maxInheritanceDepth = 10

// isEnumType decides whether a class-typed fixed argument is an enum.
// Three phases, each definitive when it produces an answer:
//
//  1. Inheritance walk: follow Base() looking for System.Enum. Definitive in
//     both directions when any base-type information exists.
//  2. Exact allow-list of well-known BCL enum names.
//  3. Weighted name heuristic: enum-heavy namespace prefixes score 2, enum
//     suffixes score 1, classification requires a total of 2. A suffix alone
//     never suffices; misreading a type reference as four bytes of integer
//     corrupts the result silently, while misreading an enum as a type name
//     stays visible.
func isEnumType(t typesys.Type) bool {
	typeName := t.FullName()

	// System.Enum is the base class of all enums, not an enum itself.
	if typeName == "System.Enum" {
		return false
	}

	if isEnum, known := walkInheritance(t); known {
		Logger().Debug("enum detection via inheritance chain",
			zap.String("type", typeName),
			zap.Bool("enum", isEnum))
		return isEnum
	}

	result := isKnownEnumName(typeName)
	Logger().Debug("enum detection via name heuristic",
		zap.String("type", typeName),
		zap.Bool("enum", result))
	return result
}

// walkInheritance follows the base-type chain looking for System.Enum.
// known is false when no inheritance information is available at all
// (external, unresolved types), which sends the caller to the name heuristic.
func walkInheritance(t typesys.Type) (isEnum, known bool) {
	current := t
	for depth := 0; depth < maxInheritanceDepth; depth++ {
		base := current.Base()
		if base == nil {
			break
		}
		known = true
		if base.FullName() == "System.Enum" {
			return true, true
		}
		current = base
	}
	return false, known
}

// knownEnums is a snapshot of well-known BCL enum full names for assemblies
// whose type definitions are not loaded. The table drifts as runtime versions
// ship; RegisterKnownEnum and LoadKnownEnums extend it at runtime.
var knownEnums = map[string]struct{}{
	"System.Runtime.InteropServices.CharSet":           {},
	"System.Runtime.InteropServices.TypeLibTypeFlags":  {},
	"System.Runtime.InteropServices.CallConv":          {},
	"System.Runtime.InteropServices.CallingConvention": {},
	"System.Runtime.InteropServices.LayoutKind":        {},
	"System.Runtime.InteropServices.UnmanagedType":     {},
	"System.Runtime.InteropServices.VarEnum":           {},
	"System.AttributeTargets":                          {},
	"System.StringComparison":                          {},
	"System.DateTimeKind":                              {},
	"System.DayOfWeek":                                 {},
	"System.TypeCode":                                  {},
	"System.UriKind":                                   {},
	"System.Diagnostics.DebuggingModes":                {},
	".DebuggingModes":                                  {}, // namespace sometimes missing
	"DebuggingModes":                                   {}, // fully qualified name sometimes missing
	"System.Reflection.BindingFlags":                   {},
	"System.Reflection.MemberTypes":                    {},
	"System.Reflection.MethodAttributes":               {},
	"System.Reflection.FieldAttributes":                {},
	"System.Reflection.TypeAttributes":                 {},
	"System.Reflection.PropertyAttributes":             {},
	"System.Reflection.EventAttributes":                {},
	"System.Reflection.ParameterAttributes":            {},
	"System.Reflection.CallingConventions":             {},
	"System.Security.SecurityAction":                   {},
	"System.Security.Permissions.SecurityAction":       {},
	"System.Security.Permissions.FileIOPermissionAccess":        {},
	"System.Security.Permissions.RegistryPermissionAccess":      {},
	"System.Security.Permissions.ReflectionPermissionFlag":      {},
	"System.Security.Permissions.SecurityPermissionFlag":        {},
	"System.Security.Permissions.UIPermissionWindow":            {},
	"System.Security.Permissions.UIPermissionClipboard":         {},
	"System.Security.Permissions.EnvironmentPermissionAccess":   {},
	"TestEnum": {}, // sentinel for unit tests
}

var knownEnumsMu sync.RWMutex

// RegisterKnownEnum adds a full type name to the known-enum table.
func RegisterKnownEnum(fullName string) {
	knownEnumsMu.Lock()
	knownEnums[fullName] = struct{}{}
	knownEnumsMu.Unlock()
}

// LoadKnownEnums reads a YAML sequence of full type names and registers each
// as a known enum. Intended for keeping the built-in snapshot current without
// rebuilding.
func LoadKnownEnums(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "read known-enum list")
	}
	var names []string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "decode known-enum list")
	}
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return errors.InvalidData(errors.PhaseParse,
				[]string{"known_enums", strconv.Itoa(i)}, "empty type name")
		}
	}
	knownEnumsMu.Lock()
	for _, name := range names {
		knownEnums[name] = struct{}{}
	}
	knownEnumsMu.Unlock()
	Logger().Debug("loaded known-enum names", zap.Int("count", len(names)))
	return nil
}

func isKnownEnumName(typeName string) bool {
	knownEnumsMu.RLock()
	_, ok := knownEnums[typeName]
	knownEnumsMu.RUnlock()
	if ok {
		return true
	}
	return enumNameScore(typeName) >= 2
}

// enumNamespacePrefixes are namespaces dense with enum types. A prefix match
// alone meets the classification threshold.
var enumNamespacePrefixes = []string{
	"System.Runtime.InteropServices.",
	"System.Reflection.",
	"System.Security.Permissions.",
	"Microsoft.Win32.",
	"System.IO.",
	"System.Net.",
	"System.Drawing.",
	"System.Windows.Forms.",
}

// enumNameSuffixes are name endings common among enums. A suffix match alone
// does not meet the threshold. "Type" is deliberately absent: it matches far
// too many non-enum classes.
var enumNameSuffixes = []string{
	"Flags",
	"Action",
	"Kind",
	"Attributes",
	"Access",
	"Mode",
	"Modes",
	"Style",
	"Options",
	"State",
	"Status",
}

func enumNameScore(typeName string) int {
	score := 0
	for _, prefix := range enumNamespacePrefixes {
		if strings.HasPrefix(typeName, prefix) {
			score += 2
			break
		}
	}
	for _, suffix := range enumNameSuffixes {
		if strings.HasSuffix(typeName, suffix) {
			score++
			break
		}
	}
	return score
}
