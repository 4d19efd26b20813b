package shader

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Carmen-Shannon/oxy-uniforms/engine/layout"
)

// ErrLayoutMismatch is returned by Check when shader source disagrees with a host layout.
var ErrLayoutMismatch = errors.New("shader layout does not match host layout")

// MismatchKind classifies a disagreement between shader source and a host layout.
type MismatchKind int

const (
	// MismatchMissingStruct means the source does not declare the struct.
	MismatchMissingStruct MismatchKind = iota
	// MismatchUnresolved means the source declares the struct with a member type that is not a uniform type.
	MismatchUnresolved
	// MismatchMissingField means the source declares fewer members than the host.
	MismatchMissingField
	// MismatchExtraField means the source declares more members than the host.
	MismatchExtraField
	// MismatchFieldName means the member at a position has a different name.
	MismatchFieldName
	// MismatchType means the member has a different type.
	MismatchType
	// MismatchOffset means the shader places the member at a different offset.
	MismatchOffset
	// MismatchDeclaredOffset means the offset written beside the member is wrong.
	MismatchDeclaredOffset
	// MismatchSize means the struct sizes differ.
	MismatchSize
)

var mismatchKindNames = map[MismatchKind]string{
	MismatchMissingStruct:  "missing struct",
	MismatchUnresolved:     "unresolved type",
	MismatchMissingField:   "missing member",
	MismatchExtraField:     "extra member",
	MismatchFieldName:      "member name",
	MismatchType:           "member type",
	MismatchOffset:         "member offset",
	MismatchDeclaredOffset: "declared offset",
	MismatchSize:           "struct size",
}

func (k MismatchKind) String() string {
	if name, ok := mismatchKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Mismatch is a single disagreement between shader source and a host layout.
type Mismatch struct {
	Kind   MismatchKind
	Struct string
	// Field is empty for struct-level mismatches.
	Field string
	Want  string
	Got   string
}

func (m Mismatch) String() string {
	where := m.Struct
	if m.Field != "" {
		where += "." + m.Field
	}
	if m.Want == "" && m.Got == "" {
		return fmt.Sprintf("%s: %s", where, m.Kind)
	}
	return fmt.Sprintf("%s: %s: want %s, got %s", where, m.Kind, m.Want, m.Got)
}

// Verify compares the structs declared in source against the host layouts.
// Structs in source that no host layout names are ignored, as are the
// differences between a host bool and a shader uint, which share one 4-byte word.
//
// Parameters:
//   - source: the raw shader source
//   - lang: the language of source
//   - host: the layouts the host serializes
//
// Returns:
//   - []Mismatch: every disagreement found, in host layout order
func Verify(source string, lang Language, host ...layout.Struct) []Mismatch {
	parsed := make(map[string]parsedStruct)
	for _, ps := range parseStructBlocks(stripBlockComments(source), lang) {
		parsed[ps.name] = ps
	}

	var mismatches []Mismatch
	for _, h := range host {
		ps, ok := parsed[h.Name]
		if !ok {
			mismatches = append(mismatches, Mismatch{Kind: MismatchMissingStruct, Struct: h.Name})
			continue
		}
		sd, err := resolveStruct(ps, lang)
		if err != nil {
			mismatches = append(mismatches, Mismatch{Kind: MismatchUnresolved, Struct: h.Name, Got: err.Error()})
			continue
		}
		mismatches = append(mismatches, compareStruct(h, sd)...)
	}
	return mismatches
}

// Check is Verify reported as an error.
//
// Parameters:
//   - source: the raw shader source
//   - lang: the language of source
//   - host: the layouts the host serializes
//
// Returns:
//   - error: nil if source agrees with every host layout, otherwise ErrLayoutMismatch
//     wrapped with the first mismatch and the total count
func Check(source string, lang Language, host ...layout.Struct) error {
	mismatches := Verify(source, lang, host...)
	if len(mismatches) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s (%d total)", ErrLayoutMismatch, mismatches[0], len(mismatches))
}

// compareStruct compares one host layout against its shader declaration member by member.
func compareStruct(host layout.Struct, sd StructDecl) []Mismatch {
	var mismatches []Mismatch
	add := func(kind MismatchKind, field, want, got string) {
		mismatches = append(mismatches, Mismatch{Kind: kind, Struct: host.Name, Field: field, Want: want, Got: got})
	}

	shader := sd.Layout
	for i, hf := range host.Fields {
		if i >= len(shader.Fields) {
			add(MismatchMissingField, hf.Name, "", "")
			continue
		}
		sf := shader.Fields[i]
		if sf.Name != hf.Name {
			add(MismatchFieldName, hf.Name, hf.Name, sf.Name)
		}
		if !compatibleTypes(hf.Type, sf.Type) {
			add(MismatchType, hf.Name, hf.Type.GLSL(), sf.Type.GLSL())
		}
		if sf.Offset != hf.Offset {
			add(MismatchOffset, hf.Name, strconv.Itoa(hf.Offset), strconv.Itoa(sf.Offset))
		}
		if declared, ok := sd.Declared[sf.Name]; ok && declared != hf.Offset {
			add(MismatchDeclaredOffset, hf.Name, strconv.Itoa(hf.Offset), strconv.Itoa(declared))
		}
	}
	for _, sf := range shader.Fields[min(len(host.Fields), len(shader.Fields)):] {
		add(MismatchExtraField, sf.Name, "", "")
	}
	if shader.Size != host.Size {
		add(MismatchSize, "", strconv.Itoa(host.Size), strconv.Itoa(shader.Size))
	}
	return mismatches
}

// compatibleTypes reports whether a host member type and a shader member type
// occupy the same bytes with the same meaning.
func compatibleTypes(host, shader layout.Type) bool {
	if host == shader {
		return true
	}
	word := func(t layout.Type) bool {
		return t.Kind == layout.KindBool || t.Kind == layout.KindUint
	}
	return host.Count == shader.Count && word(host) && word(shader)
}
