package shader

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-uniforms/engine/layout"
	"github.com/cogentcore/webgpu/wgpu"
)

// BindGroupLayoutEntry describes a uniform buffer binding of the given layout,
// with MinBindingSize set so undersized buffers are rejected at bind time.
//
// Parameters:
//   - binding: the binding index within its group
//   - visibility: the shader stages that read the block
//   - l: the block layout
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the layout entry
func BindGroupLayoutEntry(binding uint32, visibility wgpu.ShaderStage, l layout.Struct) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: uint64(l.Size),
		},
	}
}

// BindGroupLayoutDescriptors groups the bindings by group index into layout
// descriptors. Entries within a group are sorted by binding index; bindings whose
// struct is not among layouts are skipped.
//
// Parameters:
//   - bindings: the uniform bindings
//   - visibility: the shader stages that read every block
//   - layouts: the layouts the bindings refer to
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
func BindGroupLayoutDescriptors(bindings []Binding, visibility wgpu.ShaderStage, layouts ...layout.Struct) map[int]wgpu.BindGroupLayoutDescriptor {
	byName := make(map[string]layout.Struct, len(layouts))
	for _, l := range layouts {
		byName[l.Name] = l
	}

	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	for _, b := range bindings {
		l, ok := byName[b.Struct]
		if !ok {
			continue
		}
		groups[b.Group] = append(groups[b.Group], BindGroupLayoutEntry(uint32(b.Binding), visibility, l))
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
		result[g] = wgpu.BindGroupLayoutDescriptor{
			Entries: entries,
		}
	}
	return result
}
