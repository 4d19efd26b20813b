// Package layout computes and checks std140 uniform block layouts and provides
// an offset-addressed codec for filling and reading buffers that follow them.
package layout

import (
	"fmt"
	"strings"
)

// Decl declares a struct member by name and type, in declaration order.
type Decl struct {
	Name string
	Type Type

	// Align overrides the member's base alignment when positive, as a WGSL
	// @align(N) attribute does. It must be a power of two.
	Align int
	// Size overrides the bytes the member occupies when positive, as a WGSL
	// @size(N) attribute does. It must not be smaller than the type size.
	Size int
}

// align returns the member alignment, honoring an override.
func (d Decl) align() int {
	if d.Align > 0 {
		return d.Align
	}
	return d.Type.Align()
}

// size returns the bytes the member occupies, honoring an override.
func (d Decl) size() int {
	if d.Size > 0 {
		return d.Size
	}
	return d.Type.Size()
}

// Field is a placed struct member.
type Field struct {
	Name   string
	Type   Type
	Offset int
}

// End returns the first byte past the field's data.
func (f Field) End() int {
	return f.Offset + f.Type.Size()
}

// Gap is a run of padding bytes inside a struct.
type Gap struct {
	// After names the field the gap follows.
	After  string
	Offset int
	Size   int
}

// Struct is a named uniform block with every member at a fixed byte offset.
type Struct struct {
	Name   string
	Fields []Field
	Size   int
}

// Compute places the declared members using std140 rules: each member starts at
// the next offset aligned to its base alignment, and the struct size is the end of
// the last member rounded up to the struct alignment (at least 16). Align and Size
// overrides on a Decl take the place of the type's own alignment and size, and an
// alignment override also raises the struct alignment.
//
// Parameters:
//   - name: the struct name
//   - decls: the members in declaration order
//
// Returns:
//   - Struct: the placed layout
func Compute(name string, decls ...Decl) Struct {
	s := Struct{
		Name:   name,
		Fields: make([]Field, 0, len(decls)),
	}

	offset := 0
	structAlign := 16
	for _, d := range decls {
		offset = roundUpAlign(d.align(), offset)
		s.Fields = append(s.Fields, Field{Name: d.Name, Type: d.Type, Offset: offset})
		offset += d.size()
		structAlign = max(structAlign, d.align())
	}

	s.Size = roundUpAlign(structAlign, offset)
	return s
}

// Align returns the base alignment of the struct: the largest member alignment
// rounded up to 16.
func (s Struct) Align() int {
	maxAlign := 16
	for _, f := range s.Fields {
		if a := f.Type.Align(); a > maxAlign {
			maxAlign = a
		}
	}
	return maxAlign
}

// Field looks up a member by name.
//
// Parameters:
//   - name: the member name
//
// Returns:
//   - Field: the member
//   - bool: false if the struct has no member with that name
func (s Struct) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Offset returns the byte offset of the named member, or -1 if there is none.
func (s Struct) Offset(name string) int {
	if f, ok := s.Field(name); ok {
		return f.Offset
	}
	return -1
}

// Validate checks that member offsets strictly increase, that each offset honors
// its member's base alignment, that no member starts before the previous one ends,
// and that the struct size covers the last member.
//
// Returns:
//   - error: the first violation found, wrapping one of the layout sentinel errors
func (s Struct) Validate() error {
	for i, f := range s.Fields {
		if f.Offset%f.Type.Align() != 0 {
			return fmt.Errorf("%s.%s at %d (align %d): %w", s.Name, f.Name, f.Offset, f.Type.Align(), ErrMisaligned)
		}
		if i == 0 {
			continue
		}
		prev := s.Fields[i-1]
		if f.Offset <= prev.Offset {
			return fmt.Errorf("%s.%s at %d after %s at %d: %w", s.Name, f.Name, f.Offset, prev.Name, prev.Offset, ErrOffsetOrder)
		}
		if f.Offset < prev.End() {
			return fmt.Errorf("%s.%s at %d, %s ends at %d: %w", s.Name, f.Name, f.Offset, prev.Name, prev.End(), ErrOverlap)
		}
	}
	if n := len(s.Fields); n > 0 && s.Size < s.Fields[n-1].End() {
		return fmt.Errorf("%s size %d, %s ends at %d: %w", s.Name, s.Size, s.Fields[n-1].Name, s.Fields[n-1].End(), ErrSizeTooSmall)
	}
	return nil
}

// Padding lists the padding gaps between members and at the tail of the struct.
//
// Returns:
//   - []Gap: the gaps in offset order
func (s Struct) Padding() []Gap {
	var gaps []Gap
	for i, f := range s.Fields {
		next := s.Size
		if i+1 < len(s.Fields) {
			next = s.Fields[i+1].Offset
		}
		if next > f.End() {
			gaps = append(gaps, Gap{After: f.Name, Offset: f.End(), Size: next - f.End()})
		}
	}
	return gaps
}

// Equal reports whether two layouts have the same name, size and members.
func (s Struct) Equal(o Struct) bool {
	if s.Name != o.Name || s.Size != o.Size || len(s.Fields) != len(o.Fields) {
		return false
	}
	for i := range s.Fields {
		if s.Fields[i] != o.Fields[i] {
			return false
		}
	}
	return true
}

// Decls returns the member declarations the layout was computed from.
func (s Struct) Decls() []Decl {
	decls := make([]Decl, len(s.Fields))
	for i, f := range s.Fields {
		decls[i] = Decl{Name: f.Name, Type: f.Type}
	}
	return decls
}

// String renders the layout as a single table row, e.g.
// "GameData (16): screenSize vec2 @0; guiHidden bool @8".
func (s Struct) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d):", s.Name, s.Size)
	for i, f := range s.Fields {
		if i > 0 {
			sb.WriteByte(';')
		}
		fmt.Fprintf(&sb, " %s %s @%d", f.Name, f.Type.GLSL(), f.Offset)
	}
	return sb.String()
}
