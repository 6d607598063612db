package stagecore

import "github.com/hajimehoshi/ebiten/v2"

// effectShaderSrc mirrors transformTexturePoint and transformColor so what is
// drawn matches what touching queries sample. Uniform arrays are indexed by
// Effect.
//
// Ebitengine uses premultiplied alpha; the shader un-premultiplies before
// the color effects and re-premultiplies the output.
const effectShaderSrc = `//kage:unit pixels
package main

var Values [7]float
var Enabled [7]float
var SkinSize vec2

func rgb2hsv(c vec3) vec3 {
	k := vec4(0.0, -1.0/3.0, 2.0/3.0, -1.0)
	p := mix(vec4(c.bg, k.wz), vec4(c.gb, k.xy), step(c.b, c.g))
	q := mix(vec4(p.xyw, c.r), vec4(c.r, p.yzx), step(p.x, c.r))
	d := q.x - min(q.w, q.y)
	e := 1.0e-10
	return vec3(abs(q.z+(q.w-q.y)/(6.0*d+e)), d/(q.x+e), q.x)
}

func hsv2rgb(c vec3) vec3 {
	k := vec4(1.0, 2.0/3.0, 1.0/3.0, 3.0)
	p := abs(fract(c.xxx+k.xyz)*6.0 - k.www)
	return c.z * mix(k.xxx, clamp(p-k.xxx, 0.0, 1.0), c.y)
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	origin := imageSrc0Origin()
	size := imageSrc0Size()
	uv := (src - origin) / size

	// Mosaic.
	if Enabled[4] > 0 {
		uv = fract(Values[4] * uv)
	}
	// Pixelate.
	if Enabled[3] > 0 && Values[3] > 0 {
		cell := Values[3] / SkinSize
		uv = (floor(uv/cell) + 0.5) * cell
	}
	// Whirl.
	if Enabled[2] > 0 {
		offset := uv - 0.5
		f := max(1.0-length(offset)/0.5, 0.0)
		a := Values[2] * f * f
		s := sin(a)
		co := cos(a)
		uv = vec2(co*offset.x+s*offset.y, -s*offset.x+co*offset.y) + 0.5
	}
	// Fisheye.
	if Enabled[1] > 0 {
		v := (uv - 0.5) / 0.5
		l := length(v)
		if l > 0 {
			r := pow(min(l, 1.0), Values[1]) * max(1.0, l)
			uv = 0.5 + r*(v/l)*0.5
		}
	}
	if uv.x < 0 || uv.y < 0 || uv.x > 1 || uv.y > 1 {
		return vec4(0)
	}

	c := imageSrc0At(uv*size + origin)
	if c.a == 0 {
		return vec4(0)
	}
	if Enabled[0] > 0 || Enabled[5] > 0 {
		rgb := clamp(c.rgb/c.a, 0.0, 1.0)
		if Enabled[0] > 0 {
			hsv := rgb2hsv(rgb)
			if hsv.z < 0.055 {
				hsv = vec3(0.0, 1.0, 0.055)
			} else if hsv.y < 0.09 {
				hsv = vec3(0.0, 0.09, hsv.z)
			}
			hsv.x = fract(hsv.x + Values[0] + 1.0)
			rgb = hsv2rgb(hsv)
		}
		if Enabled[5] > 0 {
			rgb = clamp(rgb+Values[5], 0.0, 1.0)
		}
		c = vec4(rgb*c.a, c.a)
	}
	if Enabled[6] > 0 {
		c *= Values[6]
	}
	return c * color
}
`

// --- Lazy shader compilation (no sync.Once; stagecore is single-threaded) ---

var effectShader *ebiten.Shader

func ensureEffectShader() *ebiten.Shader {
	if effectShader == nil {
		s, err := ebiten.NewShader([]byte(effectShaderSrc))
		if err != nil {
			panic("stagecore: failed to compile effect shader: " + err.Error())
		}
		effectShader = s
	}
	return effectShader
}

// effectShaderState holds reusable buffers for drawing one textured quad
// through the effect shader.
type effectShaderState struct {
	vertices [4]ebiten.Vertex
	indices  [6]uint16
	op       ebiten.DrawTrianglesShaderOptions
	values   [effectCount]float32
	enabled  [effectCount]float32
}

func newEffectShaderState() *effectShaderState {
	st := &effectShaderState{indices: [6]uint16{0, 1, 2, 1, 3, 2}}
	st.op.Uniforms = make(map[string]any, 3)
	return st
}

// setUniforms copies a drawable's effect state into the shader uniforms.
func (st *effectShaderState) setUniforms(d *Drawable) {
	enabled := d.EnabledEffects()
	for e := Effect(0); e < effectCount; e++ {
		st.values[e] = float32(d.EffectValue(e))
		st.enabled[e] = 0
		if enabled&e.Mask() != 0 {
			st.enabled[e] = 1
		}
	}
	size := d.Skin().Size()
	st.op.Uniforms["Values"] = st.values[:]
	st.op.Uniforms["Enabled"] = st.enabled[:]
	st.op.Uniforms["SkinSize"] = []float32{float32(size.X), float32(size.Y)}
}
