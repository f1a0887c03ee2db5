package shading

// Interpolate blends the three corner outputs of a primitive with the
// given weights. The weights must sum to 1. Pass screen-space barycentric
// coordinates for affine interpolation, or the result of PerspectiveWeights
// for perspective-correct interpolation.
//
// Blending does not preserve vector length.
func Interpolate(v *[3]VertexOutput, w [3]float64) FragmentInput {
	var out FragmentInput
	for i := range 3 {
		out.Normal = out.Normal.Add(v[i].Normal.Scale(w[i]))
		out.LightDir = out.LightDir.Add(v[i].LightDir.Scale(w[i]))
		out.ReflectDir = out.ReflectDir.Add(v[i].ReflectDir.Scale(w[i]))
		out.ViewDir = out.ViewDir.Add(v[i].ViewDir.Scale(w[i]))
		out.Clip = out.Clip.Add(v[i].Clip.Scale(w[i]))
		out.Color.R += v[i].Color.R * w[i]
		out.Color.G += v[i].Color.G * w[i]
		out.Color.B += v[i].Color.B * w[i]
		out.Color.A += v[i].Color.A * w[i]
	}
	return out
}

// PerspectiveWeights converts screen-space barycentric coordinates into
// perspective-correct weights using each corner's clip-space W.
// ok is false when the weights are undefined (all 1/W terms cancel).
func PerspectiveWeights(bc, clipW [3]float64) (w [3]float64, ok bool) {
	var sum float64
	for i := range 3 {
		if clipW[i] != 0 {
			w[i] = bc[i] / clipW[i]
		}
		sum += w[i]
	}
	if sum == 0 {
		return w, false
	}
	inv := 1.0 / sum
	for i := range 3 {
		w[i] *= inv
	}
	return w, true
}
