package shader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-uniforms/engine/layout"
)

// ErrUnknownLanguage is returned by ParseLanguage for anything but glsl or wgsl.
var ErrUnknownLanguage = errors.New("unknown shading language")

// Language identifies the shading language of a source string.
type Language int

const (
	// LanguageGLSL is GLSL: "type name;" members with optional "// offset" comments.
	LanguageGLSL Language = iota

	// LanguageWGSL is WGSL: "name: type," members with optional @align(N) and
	// @size(N) attributes and optional "// offset" comments.
	LanguageWGSL
)

func (l Language) String() string {
	switch l {
	case LanguageGLSL:
		return "glsl"
	case LanguageWGSL:
		return "wgsl"
	default:
		return "unknown"
	}
}

// ParseLanguage maps "glsl" or "wgsl", in any case, to a Language.
//
// Parameters:
//   - s: the language name
//
// Returns:
//   - Language: the parsed language
//   - error: ErrUnknownLanguage for any other name
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "glsl":
		return LanguageGLSL, nil
	case "wgsl":
		return LanguageWGSL, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
	}
}

// StructDecl is a struct declared in shader source, placed with std140 rules.
type StructDecl struct {
	// Layout is the layout the shader compiler derives from the declaration.
	Layout layout.Struct

	// Declared maps member names to offsets written in the source as a trailing
	// "// N" comment, in either language.
	Declared map[string]int
}

// parsedField represents a single member extracted from a struct during parsing
type parsedField struct {
	name           string
	typeName       string
	declaredOffset int

	// align and size hold WGSL @align(N) and @size(N) values, zero when absent.
	align int
	size  int
	// attrErr records a malformed layout attribute, reported when the type is resolved.
	attrErr error
}

// parsedStruct represents a struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}
