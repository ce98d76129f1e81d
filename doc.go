// Package cilscope provides parsing of .NET metadata custom-attribute blobs.
//
// Custom attributes in compiled .NET assemblies are stored as compact binary
// blobs (ECMA-335 II.23.3): a fixed prolog, untagged constructor arguments
// whose layout is dictated by the declared parameter types, and self-describing
// named field/property assignments carrying one-byte serialization type tags.
// This library reconstructs typed argument values from those blobs.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	cilscope/            Root package documentation
//	├── metadata/
//	│   ├── attrs/       Custom-attribute blob parser (the core)
//	│   ├── heap/        Blob heap storage and indexed access
//	│   └── typesys/     Type flavors and the narrow type query surface
//	├── errors/          Structured error types for debugging
//	└── cmd/attrdump/    CLI for inspecting blobs (batch and interactive)
//
// # Quick Start
//
// Parse a blob against a constructor signature:
//
//	params := []typesys.Param{
//	    {Sequence: 1, Type: typesys.Primitive(typesys.FlavorI4)},
//	    {Sequence: 2, Type: typesys.Primitive(typesys.FlavorString)},
//	}
//
//	value, err := attrs.ParseData(blobBytes, params)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, arg := range value.FixedArgs {
//	    fmt.Println(arg.String())
//	}
//
// Parsing is fully synchronous and allocation is bounded by the input size.
// A parser instance is single-use per blob; concurrent parses of different
// blobs are independent.
package cilscope
