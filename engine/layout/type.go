package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the base shape of a uniform member type.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindUint
	KindBool
	KindVec2
	KindVec3
	KindVec4
	KindMat4
)

// typeLayout holds the byte size and base alignment of a type under std140 rules.
type typeLayout struct {
	size  int
	align int
}

// kindLayoutMap maps each kind to its std140 size and base alignment.
// A vec3 occupies 12 bytes but aligns to 16, leaving a 4-byte slot that a
// following scalar may fill. A mat4 is four vec4 columns.
//
// Reference: OpenGL 4.6 core profile, section 7.6.2.2 "Standard Uniform Block Layout"
var kindLayoutMap = map[Kind]typeLayout{
	KindFloat: {4, 4},
	KindInt:   {4, 4},
	KindUint:  {4, 4},
	KindBool:  {4, 4},
	KindVec2:  {8, 8},
	KindVec3:  {12, 16},
	KindVec4:  {16, 16},
	KindMat4:  {64, 16},
}

var glslKindNames = map[Kind]string{
	KindFloat: "float",
	KindInt:   "int",
	KindUint:  "uint",
	KindBool:  "bool",
	KindVec2:  "vec2",
	KindVec3:  "vec3",
	KindVec4:  "vec4",
	KindMat4:  "mat4",
}

// wgslKindNames spells each kind in WGSL. WGSL bool is not host-shareable, so a
// std140 bool word is declared as u32 on the WGSL side.
var wgslKindNames = map[Kind]string{
	KindFloat: "f32",
	KindInt:   "i32",
	KindUint:  "u32",
	KindBool:  "u32",
	KindVec2:  "vec2<f32>",
	KindVec3:  "vec3<f32>",
	KindVec4:  "vec4<f32>",
	KindMat4:  "mat4x4<f32>",
}

// glslTypeMap resolves GLSL type spellings to kinds.
var glslTypeMap = map[string]Kind{
	"float":  KindFloat,
	"int":    KindInt,
	"uint":   KindUint,
	"bool":   KindBool,
	"vec2":   KindVec2,
	"vec3":   KindVec3,
	"vec4":   KindVec4,
	"mat4":   KindMat4,
	"mat4x4": KindMat4,
}

// wgslTypeMap resolves WGSL type spellings, including the predeclared aliases, to kinds.
var wgslTypeMap = map[string]Kind{
	"f32":         KindFloat,
	"i32":         KindInt,
	"u32":         KindUint,
	"bool":        KindBool,
	"vec2<f32>":   KindVec2,
	"vec2f":       KindVec2,
	"vec3<f32>":   KindVec3,
	"vec3f":       KindVec3,
	"vec4<f32>":   KindVec4,
	"vec4f":       KindVec4,
	"mat4x4<f32>": KindMat4,
	"mat4x4f":     KindMat4,
}

// Type is a uniform member type: a scalar, vector or matrix kind, or a fixed-size
// array of one when Count is greater than zero.
type Type struct {
	Kind  Kind
	Count int
}

var (
	Float = Type{Kind: KindFloat}
	Int   = Type{Kind: KindInt}
	Uint  = Type{Kind: KindUint}
	Bool  = Type{Kind: KindBool}
	Vec2  = Type{Kind: KindVec2}
	Vec3  = Type{Kind: KindVec3}
	Vec4  = Type{Kind: KindVec4}
	Mat4  = Type{Kind: KindMat4}
)

// ArrayOf returns a fixed-size array type of count elements of t.
// Arrays of arrays are not supported; the element kind of t is used.
//
// Parameters:
//   - t: the element type
//   - count: the number of elements (must be positive)
//
// Returns:
//   - Type: the array type
func ArrayOf(t Type, count int) Type {
	return Type{Kind: t.Kind, Count: count}
}

// IsArray reports whether t is a fixed-size array.
func (t Type) IsArray() bool {
	return t.Count > 0
}

// Elem returns the element type of an array, or t itself for a non-array.
func (t Type) Elem() Type {
	return Type{Kind: t.Kind}
}

// Align returns the std140 base alignment of t in bytes.
// Array alignment is the element alignment rounded up to 16.
//
// Returns:
//   - int: the base alignment
func (t Type) Align() int {
	l := kindLayoutMap[t.Kind]
	if t.IsArray() {
		return roundUpAlign(16, l.align)
	}
	return l.align
}

// Stride returns the distance between consecutive elements of an array under
// std140, or the plain size for a non-array.
//
// Returns:
//   - int: the element stride in bytes
func (t Type) Stride() int {
	l := kindLayoutMap[t.Kind]
	if !t.IsArray() {
		return l.size
	}
	return roundUpAlign(t.Align(), l.size)
}

// Size returns the number of bytes t occupies in a std140 block.
//
// Returns:
//   - int: the size in bytes
func (t Type) Size() int {
	if t.IsArray() {
		return t.Count * t.Stride()
	}
	return kindLayoutMap[t.Kind].size
}

// Words returns the number of 4-byte words of data in a single element of t,
// excluding any padding.
func (t Type) Words() int {
	return kindLayoutMap[t.Kind].size / 4
}

// GLSL returns the GLSL spelling of t. Arrays are spelled with a trailing
// element count, e.g. "mat4[4]".
func (t Type) GLSL() string {
	name := glslKindNames[t.Kind]
	if t.IsArray() {
		return name + "[" + strconv.Itoa(t.Count) + "]"
	}
	return name
}

// WGSL returns the WGSL spelling of t, e.g. "array<mat4x4<f32>, 4>".
func (t Type) WGSL() string {
	name := wgslKindNames[t.Kind]
	if t.IsArray() {
		return "array<" + name + ", " + strconv.Itoa(t.Count) + ">"
	}
	return name
}

func (t Type) String() string {
	return t.GLSL()
}

// ParseGLSLType resolves a GLSL type spelling such as "vec3" or "mat4[4]".
//
// Parameters:
//   - s: the GLSL type spelling
//
// Returns:
//   - Type: the resolved type
//   - error: ErrUnknownType if the spelling is not a supported uniform type
func ParseGLSLType(s string) (Type, error) {
	s = strings.Join(strings.Fields(s), "")
	base, count, err := splitArraySuffix(s)
	if err != nil {
		return Type{}, err
	}
	kind, ok := glslTypeMap[base]
	if !ok {
		return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return Type{Kind: kind, Count: count}, nil
}

// ParseWGSLType resolves a WGSL type spelling such as "vec3<f32>", "vec3f" or
// "array<mat4x4<f32>, 4>". Runtime-sized arrays are rejected since uniform
// blocks have a fixed size.
//
// Parameters:
//   - s: the WGSL type spelling
//
// Returns:
//   - Type: the resolved type
//   - error: ErrUnknownType if the spelling is not a supported uniform type
func ParseWGSLType(s string) (Type, error) {
	s = strings.Join(strings.Fields(s), "")
	if inner, ok := strings.CutPrefix(s, "array<"); ok && strings.HasSuffix(inner, ">") {
		inner = inner[:len(inner)-1]
		comma := strings.LastIndex(inner, ",")
		if comma < 0 {
			return Type{}, fmt.Errorf("%w: runtime-sized array %q", ErrUnknownType, s)
		}
		count, err := strconv.Atoi(inner[comma+1:])
		if err != nil || count <= 0 {
			return Type{}, fmt.Errorf("%w: array count in %q", ErrUnknownType, s)
		}
		elem, err := ParseWGSLType(inner[:comma])
		if err != nil {
			return Type{}, err
		}
		if elem.IsArray() {
			return Type{}, fmt.Errorf("%w: nested array %q", ErrUnknownType, s)
		}
		return ArrayOf(elem, count), nil
	}
	kind, ok := wgslTypeMap[s]
	if !ok {
		return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return Type{Kind: kind}, nil
}

// splitArraySuffix splits "mat4[4]" into ("mat4", 4). A spelling without a
// suffix returns a count of zero.
func splitArraySuffix(s string) (string, int, error) {
	open := strings.IndexByte(s, '[')
	if open < 0 {
		return s, 0, nil
	}
	if !strings.HasSuffix(s, "]") {
		return "", 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	count, err := strconv.Atoi(s[open+1 : len(s)-1])
	if err != nil || count <= 0 {
		return "", 0, fmt.Errorf("%w: array count in %q", ErrUnknownType, s)
	}
	return s[:open], count, nil
}

// roundUpAlign rounds value up to the next multiple of alignment.
// Alignment must be a power of two.
//
// Parameters:
//   - alignment: the required alignment (must be a power of two)
//   - value: the value to align
//
// Returns:
//   - int: value rounded up to the next multiple of alignment
func roundUpAlign(alignment, value int) int {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}
