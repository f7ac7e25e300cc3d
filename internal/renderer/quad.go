package renderer

import "unsafe"

// Vertex represents a vertex with position and texture coordinates
type Vertex struct {
	Position [2]float32
	TexCoord [2]float32
}

const vertexStride = int32(unsafe.Sizeof(Vertex{}))

// quadVertices covers clip space with two triangles.
var quadVertices = []Vertex{
	{Position: [2]float32{-1, 1}, TexCoord: [2]float32{0, 1}},
	{Position: [2]float32{-1, -1}, TexCoord: [2]float32{0, 0}},
	{Position: [2]float32{1, -1}, TexCoord: [2]float32{1, 0}},

	{Position: [2]float32{-1, 1}, TexCoord: [2]float32{0, 1}},
	{Position: [2]float32{1, -1}, TexCoord: [2]float32{1, 0}},
	{Position: [2]float32{1, 1}, TexCoord: [2]float32{1, 1}},
}
