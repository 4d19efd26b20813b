package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-uniforms/engine/layout"
)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	lang Language

	// structRegistry maps struct names to the layouts injected for them.
	structRegistry map[string]layout.Struct

	// declarations accumulates the bindings declared during a Process call.
	declarations []Binding
}

// PreProcessor expands @oxy: annotations in shader source into generated struct
// and uniform declarations.
type PreProcessor interface {
	// Process replaces every annotation line in source with its generated
	// declaration. The declarations list is reset at the start of each call.
	//
	// Parameters:
	//   - source: the raw shader source
	//
	// Returns:
	//   - string: the processed source
	//   - error: if an annotation is malformed or names an unregistered struct
	Process(source string) (string, error)

	// Declarations returns the bindings declared by the most recent Process call,
	// in source order.
	//
	// Returns:
	//   - []Binding: the declared bindings
	Declarations() []Binding
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor that emits lang and knows the given layouts.
//
// Parameters:
//   - lang: the language of the sources that will be processed
//   - layouts: the structs annotations may refer to
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor(lang Language, layouts ...layout.Struct) PreProcessor {
	registry := make(map[string]layout.Struct, len(layouts))
	for _, l := range layouts {
		registry[l.Name] = l
	}
	return &preProcessor{
		lang:           lang,
		structRegistry: registry,
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		l, ok := p.structRegistry[a.Struct]
		if !ok {
			return "", fmt.Errorf("line %d: unknown struct %q in @oxy:%s annotation", a.Line, a.Struct, a.Type)
		}

		switch a.Type {
		case AnnotationTypeInclude:
			decl, err := p.emitStruct(l)
			if err != nil {
				return "", fmt.Errorf("line %d: %w", a.Line, err)
			}
			out = append(out, strings.TrimSuffix(decl, "\n"))
		case AnnotationTypeBindingGroup:
			out = append(out, p.emitBinding(*a.Binding))
			p.declarations = append(p.declarations, *a.Binding)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Binding {
	return p.declarations
}

func (p *preProcessor) emitStruct(l layout.Struct) (string, error) {
	if p.lang == LanguageWGSL {
		return EmitWGSL(l)
	}
	return EmitGLSL(l), nil
}

// emitBinding declares a uniform of the bound struct. GLSL has no bind groups,
// so the group is folded into a Vulkan-style descriptor set qualifier.
func (p *preProcessor) emitBinding(b Binding) string {
	if p.lang == LanguageWGSL {
		return fmt.Sprintf("@group(%d) @binding(%d) var<uniform> %s: %s;", b.Group, b.Binding, b.VarName(), b.Struct)
	}
	return fmt.Sprintf("layout(std140, set = %d, binding = %d) uniform %sBlock { %s %s; };", b.Group, b.Binding, b.Struct, b.Struct, b.VarName())
}
