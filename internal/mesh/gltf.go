package mesh

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF reads the first triangle primitive of a .gltf or .glb file.
func LoadGLTF(path string) (Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return Mesh{}, fmt.Errorf("open gltf: %w", err)
	}
	m, err := FromGLTF(doc)
	if err != nil {
		return Mesh{}, fmt.Errorf("%s: %w", path, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// FromGLTF extracts positions, optional normals and indices from the first
// triangle-list primitive in doc.
func FromGLTF(doc *gltf.Document) (Mesh, error) {
	for _, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			m, err := loadPrimitive(doc, prim)
			if err != nil {
				return Mesh{}, fmt.Errorf("mesh %q: %w", gm.Name, err)
			}
			m.Name = gm.Name
			return m, nil
		}
	}
	return Mesh{}, fmt.Errorf("%w: no triangle primitive found", ErrInvalidMesh)
}

func loadPrimitive(doc *gltf.Document, prim *gltf.Primitive) (Mesh, error) {
	var m Mesh

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return m, fmt.Errorf("%w: no POSITION attribute", ErrInvalidMesh)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return m, fmt.Errorf("read positions: %w", err)
	}
	m.Positions = make([]float32, 0, len(positions)*3)
	for _, p := range positions {
		m.Positions = append(m.Positions, p[0], p[1], p[2])
	}

	if normalIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[normalIdx], nil)
		if err != nil {
			return m, fmt.Errorf("read normals: %w", err)
		}
		m.Normals = make([]float32, 0, len(normals)*3)
		for _, n := range normals {
			m.Normals = append(m.Normals, n[0], n[1], n[2])
		}
	}

	if prim.Indices != nil {
		m.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return m, fmt.Errorf("read indices: %w", err)
		}
	} else {
		// non-indexed primitive: every three vertices form a triangle
		m.Indices = make([]uint32, len(positions))
		for i := range m.Indices {
			m.Indices[i] = uint32(i)
		}
	}

	return m, m.Validate()
}
