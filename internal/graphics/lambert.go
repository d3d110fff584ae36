package graphics

import "github.com/go-gl/mathgl/mgl32"

// Uniform and attribute names used by the Lambert program.
const (
	UniformMVP    = "uModelViewProjectionMatrix"
	UniformModel  = "uModelMatrix"
	UniformNormal = "uNormalMatrix"

	AttribPosition = "aPosition"
	AttribNormal   = "aNormal"
)

// LightDirection is the fixed directional light, before normalization.
var LightDirection = mgl32.Vec3{1, 1, 1}

// uModelMatrix is declared for parity with the uniform set the renderer
// uploads; no stage reads it, so drivers drop it at link time.
const LambertVertexSource = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;

uniform mat4 uModelViewProjectionMatrix;
uniform mat4 uModelMatrix;
uniform mat3 uNormalMatrix;

out vec3 vNormal;

void main() {
	gl_Position = uModelViewProjectionMatrix * vec4(aPosition, 1.0);
	vNormal = uNormalMatrix * aNormal;
}
`

const LambertFragmentSource = `#version 410 core
in vec3 vNormal;

out vec4 fragColor;

void main() {
	vec3 normal = normalize(vNormal);
	vec3 lightDirection = normalize(vec3(1.0, 1.0, 1.0));
	float diffuse = max(dot(normal, lightDirection), 0.0);
	fragColor = vec4(vec3(diffuse), 1.0);
}
`

// Diffuse is the Lambert term max(dot(normalize(n), normalize(light)), 0).
// A zero normal has no direction and yields 0.
func Diffuse(normal, light mgl32.Vec3) float32 {
	if normal.Len() == 0 || light.Len() == 0 {
		return 0
	}
	d := normal.Normalize().Dot(light.Normalize())
	if d < 0 {
		return 0
	}
	return d
}

// ShadeFragment is the CPU form of LambertFragmentSource: white light scaled
// by the diffuse term, opaque, no ambient.
func ShadeFragment(normal mgl32.Vec3) mgl32.Vec4 {
	d := Diffuse(normal, LightDirection)
	return mgl32.Vec4{d, d, d, 1}
}
