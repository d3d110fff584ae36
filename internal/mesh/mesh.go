package mesh

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrInvalidMesh is returned when positions, normals or indices break the triangle list layout.
	ErrInvalidMesh = errors.New("invalid mesh")
	ErrUnknownMesh = errors.New("unknown mesh")
)

// Mesh is an indexed triangle list. Positions and Normals are flat xyz triples.
type Mesh struct {
	Name      string
	Positions []float32
	Normals   []float32
	Indices   []uint32
}

// VertexCount returns the number of xyz records in Positions.
func (m Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of index triples.
func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// HasNormals reports whether the mesh carries a per-vertex normal stream.
func (m Mesh) HasNormals() bool {
	return len(m.Normals) > 0
}

// Validate checks the triangle list invariants.
func (m Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d position floats is not a multiple of 3", ErrInvalidMesh, len(m.Positions))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrInvalidMesh, len(m.Indices))
	}
	if m.HasNormals() && len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("%w: %d normal floats for %d position floats", ErrInvalidMesh, len(m.Normals), len(m.Positions))
	}
	vc := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= vc {
			return fmt.Errorf("%w: index %d at %d out of range (%d vertices)", ErrInvalidMesh, idx, i, vc)
		}
	}
	return nil
}

var builtins = map[string]func() Mesh{
	"cube":    Cube,
	"diamond": Diamond,
}

// Builtins lists the names accepted by Load besides file paths.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load resolves a mesh source: a built-in name or a path to a .gltf/.glb file.
func Load(source string) (Mesh, error) {
	if build, ok := builtins[strings.ToLower(source)]; ok {
		return build(), nil
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".gltf", ".glb":
		return LoadGLTF(source)
	}
	return Mesh{}, fmt.Errorf("%w: %q (built-ins: %s)", ErrUnknownMesh, source, strings.Join(Builtins(), ", "))
}
