package shader

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Carmen-Shannon/oxy-uniforms/engine/layout"
)

// ErrUnsupportedWGSL is returned when a layout cannot be expressed in the WGSL
// uniform address space with identical offsets.
var ErrUnsupportedWGSL = errors.New("layout cannot be expressed as a WGSL uniform")

// Binding places a uniform block at a bind group slot.
type Binding struct {
	Group   int
	Binding int
	// Var is the shader variable name; VarName derives one from Struct when empty.
	Var string
	// Struct is the struct type name of the block.
	Struct string
}

// VarName returns the binding's variable name, defaulting to the struct name
// with its first letter lowered (CameraData becomes cameraData).
func (b Binding) VarName() string {
	if b.Var != "" {
		return b.Var
	}
	r, size := utf8.DecodeRuneInString(b.Struct)
	return string(unicode.ToLower(r)) + b.Struct[size:]
}

// EmitGLSL renders GLSL struct declarations for the given layouts, each member
// followed by a comment holding its byte offset.
//
// Parameters:
//   - layouts: the layouts to declare, in output order
//
// Returns:
//   - string: the GLSL source
func EmitGLSL(layouts ...layout.Struct) string {
	var sb strings.Builder
	for i, l := range layouts {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "struct %s {\n", l.Name)
		for _, f := range l.Fields {
			fmt.Fprintf(&sb, "    %s %s; // %d\n", f.Type.GLSL(), f.Name, f.Offset)
		}
		sb.WriteString("};\n")
	}
	return sb.String()
}

// EmitWGSL renders WGSL struct declarations for the given layouts, each member
// followed by a comment holding its byte offset. Bool members are declared u32.
//
// Parameters:
//   - layouts: the layouts to declare, in output order
//
// Returns:
//   - string: the WGSL source
//   - error: ErrUnsupportedWGSL if an array's element stride is not a multiple of 16
func EmitWGSL(layouts ...layout.Struct) (string, error) {
	var sb strings.Builder
	for i, l := range layouts {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "struct %s {\n", l.Name)
		for _, f := range l.Fields {
			if err := checkWGSLField(f); err != nil {
				return "", fmt.Errorf("struct %s: %w", l.Name, err)
			}
			fmt.Fprintf(&sb, "    %s: %s, // %d\n", f.Name, f.Type.WGSL(), f.Offset)
		}
		sb.WriteString("}\n")
	}
	return sb.String(), nil
}

// EmitWGSLModule renders a complete WGSL module: the struct declarations, one
// uniform variable per binding, and a compute entry point named main that reads
// the first member of every uniform.
//
// Parameters:
//   - bindings: the uniform bindings to declare
//   - layouts: the layouts the bindings refer to
//
// Returns:
//   - string: the WGSL module source
//   - error: if a binding names an unknown struct or a layout is not expressible in WGSL
func EmitWGSLModule(bindings []Binding, layouts ...layout.Struct) (string, error) {
	byName := make(map[string]layout.Struct, len(layouts))
	for _, l := range layouts {
		byName[l.Name] = l
	}

	structs, err := EmitWGSL(layouts...)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(structs)
	sb.WriteByte('\n')
	for _, b := range bindings {
		if _, ok := byName[b.Struct]; !ok {
			return "", fmt.Errorf("binding %d/%d: unknown struct %q", b.Group, b.Binding, b.Struct)
		}
		fmt.Fprintf(&sb, "@group(%d) @binding(%d) var<uniform> %s: %s;\n", b.Group, b.Binding, b.VarName(), b.Struct)
	}

	sb.WriteString("\n@compute @workgroup_size(1)\nfn main() {\n")
	for i, b := range bindings {
		l := byName[b.Struct]
		if len(l.Fields) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "    let v%d = %s.%s;\n", i, b.VarName(), l.Fields[0].Name)
	}
	sb.WriteString("}\n")

	return sb.String(), nil
}

// checkWGSLField rejects arrays whose natural WGSL stride differs from the std140
// stride, since WGSL uniform arrays must have a 16-byte multiple stride.
func checkWGSLField(f layout.Field) error {
	if !f.Type.IsArray() {
		return nil
	}
	elem := f.Type.Elem()
	stride := (elem.Size() + elem.Align() - 1) / elem.Align() * elem.Align()
	if stride != f.Type.Stride() {
		return fmt.Errorf("%w: member %s %s has stride %d, std140 needs %d", ErrUnsupportedWGSL, f.Name, f.Type.WGSL(), stride, f.Type.Stride())
	}
	return nil
}
