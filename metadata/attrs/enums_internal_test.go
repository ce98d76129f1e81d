package attrs

import (
	stderrors "errors"
	"strings"
	"testing"

	cerrors "github.com/cilscope/cilscope/errors"
	"github.com/cilscope/cilscope/metadata/typesys"
)

func TestWalkInheritance(t *testing.T) {
	// No base information at all.
	if _, known := walkInheritance(typesys.Class("A.B", nil)); known {
		t.Error("expected unknown for a type with no base")
	}

	// Direct base is System.Enum.
	enum := typesys.Class("A.Color", typesys.Class("System.Enum", nil))
	if isEnum, known := walkInheritance(enum); !known || !isEnum {
		t.Errorf("direct System.Enum base: got isEnum=%v known=%v", isEnum, known)
	}

	// Base chain that never reaches System.Enum is definitive non-enum.
	cls := typesys.Class("A.Widget", typesys.Class("A.Control", typesys.Class("System.Object", nil)))
	if isEnum, known := walkInheritance(cls); !known || isEnum {
		t.Errorf("object chain: got isEnum=%v known=%v", isEnum, known)
	}

	// A chain deeper than the walk limit gives up without finding System.Enum.
	deep := typesys.Class("System.Enum", nil)
	for i := 0; i < maxInheritanceDepth+2; i++ {
		deep = typesys.Class("Level", deep)
	}
	if isEnum, _ := walkInheritance(deep); isEnum {
		t.Error("expected the walk to stop before reaching System.Enum")
	}
}

func TestIsEnumTypePhases(t *testing.T) {
	// Inheritance beats the allow-list: a name in the list whose chain does
	// not reach System.Enum is not an enum.
	listed := typesys.Class("System.AttributeTargets", typesys.Class("System.Object", nil))
	if isEnumType(listed) {
		t.Error("inheritance walk should override the allow-list")
	}

	// Allow-list applies when no base information exists.
	if !isEnumType(typesys.Class("System.AttributeTargets", nil)) {
		t.Error("System.AttributeTargets should be a known enum")
	}

	// System.Enum itself, even with a pointed base.
	if isEnumType(typesys.Class("System.Enum", typesys.Class("System.Enum", nil))) {
		t.Error("System.Enum is never an enum")
	}
}

func TestEnumNameScore(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"System.Reflection.BindingFlags", 3},       // prefix + suffix
		{"System.Reflection.Missing", 2},            // prefix only
		{"MyApp.SomeFlags", 1},                      // suffix only
		{"MyApp.UserType", 0},                       // "Type" deliberately unscored
		{"Microsoft.Win32.RegistryValueKind", 3},
		{"Whatever", 0},
	}
	for _, tt := range tests {
		if got := enumNameScore(tt.name); got != tt.want {
			t.Errorf("enumNameScore(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}

	// Threshold is 2: suffix alone never classifies.
	if isKnownEnumName("MyApp.SomeFlags") {
		t.Error("a suffix match alone should not classify as enum")
	}
	if !isKnownEnumName("System.Reflection.SomethingFlags") {
		t.Error("prefix plus suffix should classify as enum")
	}
}

func TestRegisterKnownEnum(t *testing.T) {
	const name = "Contoso.Billing.InvoiceState2"
	if isKnownEnumName(name) {
		t.Fatalf("%s unexpectedly known before registration", name)
	}
	RegisterKnownEnum(name)
	defer func() {
		knownEnumsMu.Lock()
		delete(knownEnums, name)
		knownEnumsMu.Unlock()
	}()
	if !isKnownEnumName(name) {
		t.Errorf("%s not known after registration", name)
	}
}

func TestLoadKnownEnums(t *testing.T) {
	doc := `
- Contoso.Payroll.PayFrequency9
- Contoso.Payroll.Region9
`
	if err := LoadKnownEnums(strings.NewReader(doc)); err != nil {
		t.Fatalf("LoadKnownEnums: %v", err)
	}
	defer func() {
		knownEnumsMu.Lock()
		delete(knownEnums, "Contoso.Payroll.PayFrequency9")
		delete(knownEnums, "Contoso.Payroll.Region9")
		knownEnumsMu.Unlock()
	}()

	for _, name := range []string{"Contoso.Payroll.PayFrequency9", "Contoso.Payroll.Region9"} {
		if !isKnownEnumName(name) {
			t.Errorf("%s not known after load", name)
		}
	}

	if err := LoadKnownEnums(strings.NewReader("{not valid yaml: [")); err == nil {
		t.Error("expected error for invalid document")
	}
}

func TestLoadKnownEnumsEmptyName(t *testing.T) {
	doc := `
- Contoso.Payroll.PayFrequency9
- "  "
`
	err := LoadKnownEnums(strings.NewReader(doc))
	if !stderrors.Is(err, &cerrors.Error{Phase: cerrors.PhaseParse, Kind: cerrors.KindInvalidData}) {
		t.Fatalf("expected invalid_data error, got %v", err)
	}
	if !strings.Contains(err.Error(), "known_enums.1") {
		t.Errorf("error does not locate the entry: %v", err)
	}

	// Nothing from a rejected document is registered.
	if isKnownEnumName("Contoso.Payroll.PayFrequency9") {
		t.Error("entry registered despite rejection")
	}
}
