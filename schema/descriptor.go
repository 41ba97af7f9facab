// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "strings"

// Category classifies a canonical type name.
type Category int

const (
	// Primitive covers the built-in leaf types and the three generic
	// container shapes (Array, Set, Dictionary).
	Primitive Category = iota

	// Custom covers user-defined record types.
	Custom
)

// String returns the category name for error messages.
func (c Category) String() string {
	switch c {
	case Primitive:
		return "primitive"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// Descriptor is the canonical identity of a type as it appears on the
// wire: the namespace-stripped core name, whether the type was wrapped
// in Optional, and whether the core name is a built-in.
//
// Descriptors are computed on demand from type names (Parse) or from
// Go types (by the root package); they are never cached across encode
// or decode calls.
type Descriptor struct {
	// CoreName is the namespace-stripped, generics-preserving name,
	// e.g. "String", "Array<Int64>", "AuthPacket".
	CoreName string

	// Optional is true when the type was wrapped in Optional<...>.
	Optional bool

	// Category says whether CoreName is a built-in primitive or
	// collection shape, or a user-defined record type.
	Category Category
}

// WireName returns the name written into a buffer header for this
// descriptor: the core name, re-wrapped in Optional<...> when the
// descriptor is optional.
func (d Descriptor) WireName() string {
	if d.Optional {
		return "Optional<" + d.CoreName + ">"
	}
	return d.CoreName
}

// String returns the wire name; Descriptor values format readably in
// error messages.
func (d Descriptor) String() string {
	return d.WireName()
}

// primitiveNames is the closed set of built-in core names. Generic
// containers are classified by their prefix (the part before "<").
var primitiveNames = map[string]bool{
	"Bool":   true,
	"Int":    true,
	"Int8":   true,
	"Int16":  true,
	"Int32":  true,
	"Int64":  true,
	"UInt":   true,
	"UInt8":  true,
	"UInt16": true,
	"UInt32": true,
	"UInt64": true,
	"Float":  true,
	"Double": true,
	"String": true,
	"Data":   true,
	"UUID":   true,

	// Generic container short names.
	"Array":      true,
	"Set":        true,
	"Dictionary": true,
}

// containerAliases maps known array-like, set-like and map-like
// container names (as different encoders spell them) onto the fixed
// short names used for compatibility checks. The generic parameter
// list is preserved verbatim and is not itself canonicalized.
var containerAliases = map[string]string{
	"Array":           "Array",
	"ArraySlice":      "Array",
	"ContiguousArray": "Array",
	"Slice":           "Array",
	"List":            "Array",
	"Set":             "Set",
	"HashSet":         "Set",
	"Dictionary":      "Dictionary",
	"Map":             "Dictionary",
	"HashMap":         "Dictionary",
}

// Parse canonicalizes a possibly namespace-qualified type name into a
// Descriptor. Optional<...> wrappers (however deeply the wrapper
// itself is qualified) are peeled off and recorded in the Optional
// flag; the namespace prefix of the remaining name is stripped; known
// container names are mapped to their short form with the parameter
// list kept verbatim.
//
// Examples:
//
//	Parse("Swift.String")                   = {String, false, Primitive}
//	Parse("Optional<Swift.Int>")            = {Int, true, Primitive}
//	Parse("Swift.Array<Swift.String>")      = {Array<Swift.String>, false, Primitive}
//	Parse("auth.AuthPacket")                = {AuthPacket, false, Custom}
func Parse(typeName string) Descriptor {
	name := strings.TrimSpace(typeName)
	optional := false
	for {
		head, params, generic := splitGeneric(name)
		if !generic || lastComponent(head) != "Optional" {
			break
		}
		optional = true
		name = strings.TrimSpace(params)
	}

	head, params, generic := splitGeneric(name)
	head = lastComponent(head)
	if generic {
		if short, known := containerAliases[head]; known {
			head = short
		}
		name = head + "<" + params + ">"
	} else {
		name = head
	}

	return Descriptor{
		CoreName: name,
		Optional: optional,
		Category: Classify(name),
	}
}

// Classify reports whether a canonical core name is a built-in
// primitive/collection or a user-defined type. Generic names are
// classified by their container prefix, so "Array<auth.Token>" is
// Primitive while "Pair<Int, Int>" is Custom.
func Classify(coreName string) Category {
	head, _, generic := splitGeneric(coreName)
	if generic {
		if _, known := containerAliases[head]; known {
			return Primitive
		}
		return Custom
	}
	if primitiveNames[coreName] {
		return Primitive
	}
	return Custom
}

// Compatible reports whether a value encoded with descriptor encoded
// may be decoded as descriptor requested.
//
// Core names must match. When both sides are user-defined record
// types, optionality is ignored: records are keyed and self-delimiting,
// so a record may evolve between optional and non-optional across
// versions. For primitives and collections the payload is positional
// and an absent optional is indistinguishable from truncation, so
// optionality must match exactly.
func Compatible(encoded, requested Descriptor) bool {
	if encoded.CoreName != requested.CoreName {
		return false
	}
	if encoded.Category == Custom && requested.Category == Custom {
		return true
	}
	return encoded.Optional == requested.Optional
}

// splitGeneric splits "Prefix<params>" into its prefix and parameter
// list. Names without a well-formed generic suffix are returned whole
// with generic=false.
func splitGeneric(name string) (head, params string, generic bool) {
	open := strings.IndexByte(name, '<')
	if open < 0 || !strings.HasSuffix(name, ">") {
		return name, "", false
	}
	return name[:open], name[open+1 : len(name)-1], true
}

// lastComponent strips namespace qualification: the part of name after
// the final "." that precedes any generic or index marker. Go generic
// instantiations use brackets ("Pair[auth.Token]"); the bracketed part
// is left untouched.
func lastComponent(name string) string {
	cut := len(name)
	if bracket := strings.IndexByte(name, '['); bracket >= 0 {
		cut = bracket
	}
	head, tail := name[:cut], name[cut:]
	if dot := strings.LastIndexByte(head, '.'); dot >= 0 {
		head = head[dot+1:]
	}
	return head + tail
}
