package shader

// DisplayVertexGLSL passes the quad through and forwards texture coordinates.
const DisplayVertexGLSL = `#version 460 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;

out vec2 TexCoord;

void main() {
    gl_Position = vec4(aPos, 0.0, 1.0);
    TexCoord = aTexCoord;
}
` + "\x00"

// DisplayFragmentGLSL samples the compute output texture.
const DisplayFragmentGLSL = `#version 460 core
out vec4 FragColor;

in vec2 TexCoord;
uniform sampler2D uOutputTexture;

void main() {
    FragColor = texture(uOutputTexture, TexCoord);
}
` + "\x00"

// DisplayWGSL is the WebGPU display pass. rgba32float is not filterable, so
// the fragment stage loads texels directly instead of sampling. Row 0 of the
// output lands at the bottom of the window, as with the GL backend.
const DisplayWGSL = `
@group(0) @binding(0) var outputTexture: texture_2d<f32>;

struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) texCoord: vec2<f32>,
}

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) texCoord: vec2<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.position = vec4<f32>(in.position, 0.0, 1.0);
    out.texCoord = in.texCoord;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let size = vec2<f32>(textureDimensions(outputTexture));
    let texel = vec2<i32>(clamp(in.texCoord * size, vec2<f32>(0.0), size - vec2<f32>(1.0)));
    return textureLoad(outputTexture, texel, 0);
}
`
