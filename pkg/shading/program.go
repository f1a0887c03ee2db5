package shading

// Program bundles the immutable state of one draw call: the uniform block,
// the transforms, and the shading mode. A Program is read-only once built
// and may be shared by any number of goroutines.
//
// Build a new Program for every frame rather than editing one in place, so
// that no stage ever observes a half-updated frame.
type Program struct {
	Uniforms  *Uniforms
	Transform *TransformContext
	Mode      Mode

	FragmentShininess float64
	VertexShininess   float64
}

// NewProgram returns a program with the default exponents.
func NewProgram(u *Uniforms, tc *TransformContext, mode Mode) *Program {
	return &Program{
		Uniforms:          u,
		Transform:         tc,
		Mode:              mode,
		FragmentShininess: DefaultFragmentShininess,
		VertexShininess:   DefaultVertexShininess,
	}
}

// Vertex runs the geometry stage. In PerVertex mode it also lights the
// vertex and stores the result in VertexOutput.Color.
func (p *Program) Vertex(v Vertex) VertexOutput {
	out := TransformVertex(v, p.Transform, p.Uniforms)
	if p.Mode == PerVertex {
		out.Color = Illuminate(out.Normal, out.LightDir, out.ReflectDir, out.ViewDir,
			p.Uniforms, p.VertexShininess).WithAlpha(1)
	}
	return out
}

// Fragment runs the shading stage on interpolated input.
func (p *Program) Fragment(in FragmentInput) RGBA {
	if p.Mode == PerVertex {
		return in.Color
	}
	return ShadeFragment(in, p.Uniforms, p.FragmentShininess)
}
