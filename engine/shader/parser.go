package shader

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-uniforms/engine/layout"
)

// ErrInvalidAttribute is returned for a WGSL @align or @size attribute that
// cannot place a member.
var ErrInvalidAttribute = errors.New("invalid member layout attribute")

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// glslFieldRegex matches a GLSL member: optional precision, type with optional
	// array suffix, name with optional array suffix.
	glslFieldRegex = regexp.MustCompile(`^(?:(?:highp|mediump|lowp)\s+)?(\w+(?:\s*\[\s*\d+\s*\])?)\s+(\w+)\s*(\[\s*\d+\s*\])?$`)

	// wgslFieldRegex matches a WGSL member: attributes, name, colon, type.
	// The type capture (.+) is greedy to handle parameterized types like array<T, N>.
	wgslFieldRegex = regexp.MustCompile(`^((?:@\w+(?:\([^)]*\))?\s*)*)(\w+)\s*:\s*(.+)$`)

	// wgslAttrRegex captures the name and argument of each member attribute.
	wgslAttrRegex = regexp.MustCompile(`@(\w+)(?:\(\s*([^)]*?)\s*\))?`)

	// offsetCommentRegex matches a trailing offset comment such as "// 12" or
	// "// offset 12: camera position".
	offsetCommentRegex = regexp.MustCompile(`^\s*(?:offset\s+)?(\d+)\s*(?::.*)?$`)

	// uniformBindingRegex captures group, binding, variable name and type from WGSL
	// declarations like: @group(0) @binding(1) var<uniform> frame: FrameData;
	uniformBindingRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var<\s*uniform\s*>\s+(\w+)\s*:\s*(\w+)\s*;`)
)

// Parse extracts every struct declared in source and computes its std140 layout.
// WGSL @align(N) and @size(N) attributes move members the way a WGSL compiler
// does. Struct sizes are always std140 sizes, the end of the last member rounded
// up to 16: the size the host allocates and writes. For WGSL input this can exceed
// the compiler's own struct size (FrameData is 16 here, 12 to a WGSL compiler),
// and a buffer of the std140 size always satisfies the shader.
//
// Parameters:
//   - source: the raw shader source
//   - lang: the language of source
//
// Returns:
//   - []StructDecl: the declared structs in source order
//   - error: if a member type cannot be resolved to a uniform type, or
//     ErrInvalidAttribute for a malformed @align or @size
func Parse(source string, lang Language) ([]StructDecl, error) {
	structs := parseStructBlocks(stripBlockComments(source), lang)
	decls := make([]StructDecl, 0, len(structs))
	for _, ps := range structs {
		sd, err := resolveStruct(ps, lang)
		if err != nil {
			return nil, err
		}
		decls = append(decls, sd)
	}
	return decls, nil
}

// ParseUniformBindings extracts every uniform buffer declaration from WGSL source.
//
// Parameters:
//   - source: the raw WGSL source
//
// Returns:
//   - []Binding: the declared uniform bindings in source order
func ParseUniformBindings(source string) []Binding {
	cleaned := stripComments(source)
	matches := uniformBindingRegex.FindAllStringSubmatch(cleaned, -1)
	bindings := make([]Binding, 0, len(matches))
	for _, m := range matches {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		bindings = append(bindings, Binding{
			Group:   group,
			Binding: binding,
			Var:     m[3],
			Struct:  m[4],
		})
	}
	return bindings
}

// resolveStruct resolves every member type of a parsed struct and places the
// members with std140 rules.
func resolveStruct(ps parsedStruct, lang Language) (StructDecl, error) {
	decls := make([]layout.Decl, 0, len(ps.fields))
	declared := make(map[string]int)

	for _, f := range ps.fields {
		var (
			t   layout.Type
			err error
		)
		switch lang {
		case LanguageWGSL:
			t, err = layout.ParseWGSLType(f.typeName)
		default:
			t, err = layout.ParseGLSLType(f.typeName)
		}
		if err != nil {
			return StructDecl{}, fmt.Errorf("struct %s member %s: %w", ps.name, f.name, err)
		}
		if f.attrErr != nil {
			return StructDecl{}, fmt.Errorf("struct %s member %s: %w", ps.name, f.name, f.attrErr)
		}
		if f.size > 0 && f.size < t.Size() {
			return StructDecl{}, fmt.Errorf("struct %s member %s: @size(%d) smaller than %s: %w", ps.name, f.name, f.size, t.WGSL(), ErrInvalidAttribute)
		}
		decls = append(decls, layout.Decl{Name: f.name, Type: t, Align: f.align, Size: f.size})
		if f.declaredOffset >= 0 {
			declared[f.name] = f.declaredOffset
		}
	}

	return StructDecl{
		Layout:   layout.Compute(ps.name, decls...),
		Declared: declared,
	}, nil
}

// parseStructBlocks finds all struct { ... } blocks in the source and parses
// their members. Line comments are kept so offset comments can be read.
//
// Parameters:
//   - source: shader source with block comments already stripped
//   - lang: the language of source
//
// Returns:
//   - []parsedStruct: all struct blocks found in the source
func parseStructBlocks(source string, lang Language) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))

	for _, match := range matches {
		structs = append(structs, parsedStruct{
			name:   match[1],
			fields: parseStructFields(match[2], lang),
		})
	}

	return structs
}

// parseStructFields parses the body of a struct block line by line. A trailing
// offset comment applies to the last member declared on its line.
//
// Parameters:
//   - body: the content between { and } of a struct declaration
//   - lang: the language of body
//
// Returns:
//   - []parsedField: all members found in the struct body
func parseStructFields(body string, lang Language) []parsedField {
	var fields []parsedField

	for line := range strings.SplitSeq(body, "\n") {
		code, comment, _ := strings.Cut(line, "//")

		var parts []string
		if lang == LanguageWGSL {
			parts = splitAtTopLevelCommas(code)
		} else {
			parts = strings.Split(code, ";")
		}

		lineStart := len(fields)
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if f, ok := parseField(part, lang); ok {
				fields = append(fields, f)
			}
		}

		if len(fields) > lineStart {
			if m := offsetCommentRegex.FindStringSubmatch(comment); m != nil {
				if off, err := strconv.Atoi(m[1]); err == nil {
					fields[len(fields)-1].declaredOffset = off
				}
			}
		}
	}

	return fields
}

// parseField parses a single member declaration with its separator removed.
func parseField(decl string, lang Language) (parsedField, bool) {
	field := parsedField{declaredOffset: -1}

	if lang == LanguageWGSL {
		m := wgslFieldRegex.FindStringSubmatch(decl)
		if m == nil {
			return parsedField{}, false
		}
		field.name = m[2]
		field.typeName = strings.TrimSpace(m[3])
		field.align, field.size, field.attrErr = parseLayoutAttributes(m[1])
		return field, true
	}

	m := glslFieldRegex.FindStringSubmatch(decl)
	if m == nil {
		return parsedField{}, false
	}
	field.name = m[2]
	field.typeName = m[1] + m[3]
	return field, true
}

// parseLayoutAttributes reads the @align and @size attributes of a WGSL member.
// Other attributes are ignored. Values must be positive integer literals, and an
// alignment must also be a power of two.
func parseLayoutAttributes(attrs string) (align, size int, err error) {
	for _, m := range wgslAttrRegex.FindAllStringSubmatch(attrs, -1) {
		if m[1] != "align" && m[1] != "size" {
			continue
		}
		n, convErr := strconv.Atoi(strings.TrimSuffix(strings.TrimSuffix(m[2], "u"), "i"))
		if convErr != nil || n <= 0 {
			return 0, 0, fmt.Errorf("@%s(%s): %w", m[1], m[2], ErrInvalidAttribute)
		}
		if m[1] == "align" {
			if n&(n-1) != 0 {
				return 0, 0, fmt.Errorf("@align(%d) is not a power of two: %w", n, ErrInvalidAttribute)
			}
			align = n
		} else {
			size = n
		}
	}
	return align, size, nil
}

// stripComments removes both single-line (//) and block (/* */) comments from source.
//
// Parameters:
//   - source: raw shader source string
//
// Returns:
//   - string: source with all comments removed
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

// stripLineComments removes single-line // comments from source.
//
// Parameters:
//   - source: raw shader source string
//
// Returns:
//   - string: source with line comments removed
func stripLineComments(source string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// stripBlockComments removes block comments (/* ... */) from source, handling
// nested block comments as WGSL allows.
//
// Parameters:
//   - source: raw shader source string
//
// Returns:
//   - string: source with block comments removed
func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	i := 0
	for i < len(source) {
		if i+1 < len(source) {
			if source[i] == '/' && source[i+1] == '*' {
				depth++
				i += 2
				continue
			}
			if source[i] == '*' && source[i+1] == '/' {
				if depth > 0 {
					depth--
				}
				i += 2
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
		i++
	}
	return sb.String()
}

// splitAtTopLevelCommas splits a string at commas that are not nested inside angle brackets or parentheses.
// This correctly handles WGSL types like array<mat4x4<f32>, 4> where the comma is part of
// the type syntax rather than a member separator.
//
// Parameters:
//   - s: the string to split
//
// Returns:
//   - []string: substrings between top-level commas
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(':
			depth++
		case '>', ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
