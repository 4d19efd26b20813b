// annotations.go defines the annotation types and parser for the uniform
// pre-processor. Annotations are single-line comments prefixed with @oxy: that
// inject the declaration of a registered uniform block, or declare a uniform
// binding of one, so shaders never hand-copy the layouts.
package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an annotation within a comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects the declaration of a registered struct at the
	// annotation site.
	//
	// Syntax: //@oxy:include <struct>
	//
	// Example: //@oxy:include CameraData
	AnnotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a uniform variable declaration for a
	// registered struct and records it as a Binding.
	//
	// Syntax: //@oxy:group <group> <binding> <var_name> <struct>
	//
	// Example: //@oxy:group 0 4 camera CameraData
	AnnotationTypeBindingGroup AnnotationType = "group"
)

// Annotation represents a single parsed annotation.
type Annotation struct {
	Type AnnotationType

	// Struct is the registered struct the annotation refers to.
	Struct string

	// Binding is set for AnnotationTypeBindingGroup.
	Binding *Binding

	// Line is the 1-based source line of the annotation.
	Line int
}

// parseAnnotation attempts to parse a single line of source as an annotation.
// Returns nil with no error for lines that do not contain the annotation prefix.
//
// Parameters:
//   - line: the raw source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case AnnotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		return &Annotation{Type: AnnotationTypeInclude, Struct: args[1], Line: lineNum}, nil
	case AnnotationTypeBindingGroup:
		if len(args) != 5 {
			return nil, fmt.Errorf("line %d: @oxy group annotation requires exactly four arguments (group, binding, var name, struct)", lineNum)
		}
		group, err := strconv.Atoi(args[1])
		if err != nil || group < 0 {
			return nil, fmt.Errorf("line %d: invalid group number %q in @oxy group annotation", lineNum, args[1])
		}
		binding, err := strconv.Atoi(args[2])
		if err != nil || binding < 0 {
			return nil, fmt.Errorf("line %d: invalid binding number %q in @oxy group annotation", lineNum, args[2])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Struct:  args[4],
			Binding: &Binding{Group: group, Binding: binding, Var: args[3], Struct: args[4]},
			Line:    lineNum,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}
