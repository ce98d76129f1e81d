package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/cilscope/cilscope/metadata/attrs"
	"github.com/cilscope/cilscope/metadata/typesys"
)

func main() {
	var (
		blobHex     = flag.String("blob", "", "Custom attribute blob as hex (spaces allowed)")
		blobFile    = flag.String("file", "", "Path to a file containing the raw blob bytes")
		signature   = flag.String("params", "", "Constructor parameter types (e.g. i4,string,bool[])")
		enumsFile   = flag.String("enums", "", "YAML file of additional known enum type names")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		debug       = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	if *debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		attrs.SetLogger(logger)
	}

	if *enumsFile != "" {
		f, err := os.Open(*enumsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		err = attrs.LoadKnownEnums(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *interactive {
		if err := runInteractive(*signature); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *blobHex == "" && *blobFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: attrdump -blob <hex> [-params i4,string,...]")
		fmt.Fprintln(os.Stderr, "       attrdump -file <blob.bin> [-params i4,string,...]")
		fmt.Fprintln(os.Stderr, "       attrdump -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*blobHex, *blobFile, *signature); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(blobHex, blobFile, signature string) error {
	var data []byte
	var err error
	switch {
	case blobHex != "":
		data, err = decodeHex(blobHex)
		if err != nil {
			return fmt.Errorf("decode hex: %w", err)
		}
	default:
		data, err = os.ReadFile(blobFile)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
	}

	params, err := parseSignature(signature)
	if err != nil {
		return fmt.Errorf("parse signature: %w", err)
	}

	value, err := attrs.ParseData(data, params)
	if err != nil {
		return fmt.Errorf("parse blob: %w", err)
	}

	fmt.Print(renderValue(value, term.IsTerminal(int(os.Stdout.Fd()))))
	return nil
}

// decodeHex accepts hex with optional spaces and a leading 0x.
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' {
			return -1
		}
		return r
	}, s)
	return hex.DecodeString(s)
}

// parseSignature converts a comma-separated constructor signature into
// parameter declarations. Element names match the short primitive names; a
// trailing [] makes a single-dimensional array; anything else is taken as a
// class full name.
func parseSignature(s string) ([]typesys.Param, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var params []typesys.Param
	for i, token := range strings.Split(s, ",") {
		t, err := parseTypeToken(strings.TrimSpace(token))
		if err != nil {
			return nil, err
		}
		params = append(params, typesys.Param{Sequence: uint32(i + 1), Type: t})
	}
	return params, nil
}

var primitiveTokens = map[string]typesys.Flavor{
	"bool":   typesys.FlavorBoolean,
	"char":   typesys.FlavorChar,
	"i1":     typesys.FlavorI1,
	"u1":     typesys.FlavorU1,
	"i2":     typesys.FlavorI2,
	"u2":     typesys.FlavorU2,
	"i4":     typesys.FlavorI4,
	"u4":     typesys.FlavorU4,
	"i8":     typesys.FlavorI8,
	"u8":     typesys.FlavorU8,
	"r4":     typesys.FlavorR4,
	"r8":     typesys.FlavorR8,
	"i":      typesys.FlavorI,
	"u":      typesys.FlavorU,
	"string": typesys.FlavorString,
	"void":   typesys.FlavorVoid,
}

func parseTypeToken(token string) (typesys.Type, error) {
	if token == "" {
		return nil, fmt.Errorf("empty type in signature")
	}
	if elem, ok := strings.CutSuffix(token, "[]"); ok {
		t, err := parseTypeToken(elem)
		if err != nil {
			return nil, err
		}
		return typesys.SZArray(t), nil
	}
	if f, ok := primitiveTokens[strings.ToLower(token)]; ok {
		return typesys.Primitive(f), nil
	}
	switch strings.ToLower(token) {
	case "object":
		return typesys.Class("System.Object", nil), nil
	case "type":
		return typesys.Class("System.Type", nil), nil
	}
	return typesys.Class(token, nil), nil
}

func renderValue(v *attrs.Value, color bool) string {
	label := func(s string) string { return s }
	val := func(s string) string { return s }
	if color {
		labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
		valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98"))
		label = func(s string) string { return labelStyle.Render(s) }
		val = func(s string) string { return valueStyle.Render(s) }
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", label("Fixed arguments:"), len(v.FixedArgs))
	for i, arg := range v.FixedArgs {
		fmt.Fprintf(&b, "  [%d] %s %s\n", i, label(arg.Kind.String()), val(arg.String()))
	}
	fmt.Fprintf(&b, "%s %d\n", label("Named arguments:"), len(v.NamedArgs))
	for _, na := range v.NamedArgs {
		role := "property"
		if na.IsField {
			role = "field"
		}
		fmt.Fprintf(&b, "  %s %s %s = %s\n", role, label(na.ArgType), na.Name, val(na.Value.String()))
	}
	return b.String()
}
