package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/glyph3d/pkg/math3d"
	"github.com/taigrr/glyph3d/pkg/render"
)

// GLTFLoader loads glTF and GLB files into Mesh format.
type GLTFLoader struct {
	// MirrorZ converts from glTF's right-handed space into the renderer's
	// left-handed one by negating Z and reversing the winding. Without it
	// models appear mirrored front to back.
	MirrorZ bool

	// FlipV converts glTF's top-left texture origin to bottom-left.
	FlipV bool
}

// NewGLTFLoader creates a loader with both conversions enabled.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		MirrorZ: true,
		FlipV:   true,
	}
}

// LoadGLTF loads a .gltf or .glb file with the default loader.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a glTF or GLB file and returns a Mesh. Every triangle primitive
// of every mesh in the document is merged into the result.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.fromDocument(doc, filepath.Base(path))
}

func (l *GLTFLoader) fromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	mesh.CalculateBounds()

	render.Logger().Debug("gltf loaded",
		"name", name,
		"meshes", len(doc.Meshes),
		"vertices", mesh.VertexCount(),
		"faces", mesh.TriangleCount(),
	)
	return mesh, nil
}

// processMesh appends the geometry of one glTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines and points have nothing to fill
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var uvs [][2]float32
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			if l.MirrorZ {
				p.Z = -p.Z
			}
			v := MeshVertex{Position: p, UV: math3d.V2(0, 0)}
			if i < len(uvs) {
				u, vv := float64(uvs[i][0]), float64(uvs[i][1])
				if l.FlipV {
					vv = 1 - vv
				}
				v.UV = math3d.V2(u, vv)
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+1], indices[i+2]
			if max(a, b, c) >= len(positions) {
				return fmt.Errorf("index %d out of range (%d vertices)", max(a, b, c), len(positions))
			}
			if l.MirrorZ {
				b, c = c, b
			}
			mesh.Faces = append(mesh.Faces, Face{V: [3]int{base + a, base + b, base + c}})
		}
	}
	return nil
}

// readVec3Accessor reads float VEC3 data from an accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	acc, err := accessor(doc, accessorIdx, gltf.AccessorVec3)
	if err != nil {
		return nil, err
	}
	data, stride, err := accessorBytes(doc, acc, 12)
	if err != nil {
		return nil, err
	}

	out := make([]math3d.Vec3, acc.Count)
	for i := range out {
		b := data[i*stride:]
		out[i] = math3d.V3(float64(readFloat32(b)), float64(readFloat32(b[4:])), float64(readFloat32(b[8:])))
	}
	return out, nil
}

// readVec2Accessor reads float VEC2 data from an accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([][2]float32, error) {
	acc, err := accessor(doc, accessorIdx, gltf.AccessorVec2)
	if err != nil {
		return nil, err
	}
	data, stride, err := accessorBytes(doc, acc, 8)
	if err != nil {
		return nil, err
	}

	out := make([][2]float32, acc.Count)
	for i := range out {
		b := data[i*stride:]
		out[i] = [2]float32{readFloat32(b), readFloat32(b[4:])}
	}
	return out, nil
}

// readIndices reads unsigned SCALAR index data of any width.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	acc, err := accessor(doc, accessorIdx, gltf.AccessorScalar)
	if err != nil {
		return nil, err
	}

	var size int
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index component type: %v", acc.ComponentType)
	}

	data, stride, err := accessorBytes(doc, acc, size)
	if err != nil {
		return nil, err
	}

	out := make([]int, acc.Count)
	for i := range out {
		b := data[i*stride:]
		switch size {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(b))
		case 4:
			out[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return out, nil
}

func accessor(doc *gltf.Document, idx int, want gltf.AccessorType) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	acc := doc.Accessors[idx]
	if acc.Type != want {
		return nil, fmt.Errorf("expected %v, got %v", want, acc.Type)
	}
	return acc, nil
}

// accessorBytes returns the accessor's bytes starting at its first element,
// with the element stride. elemSize is the tightly packed size.
func accessorBytes(doc *gltf.Document, acc *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if acc.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	view := doc.BufferViews[*acc.BufferView]
	buf := doc.Buffers[view.Buffer]
	if buf.Data == nil {
		return nil, 0, fmt.Errorf("buffer %d has no data", view.Buffer)
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := view.ByteOffset + acc.ByteOffset
	if acc.Count > 0 {
		end := start + (acc.Count-1)*stride + elemSize
		if end > len(buf.Data) {
			return nil, 0, fmt.Errorf("accessor reads past end of buffer (%d > %d)", end, len(buf.Data))
		}
	}
	return buf.Data[start:], stride, nil
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// LoadGLTFSprite loads a glTF or GLB file along with its first decodable
// image, quantized into a sprite no larger than maxW x maxH. The sprite is
// nil when the file carries no usable image.
func LoadGLTFSprite(path string, maxW, maxH int) (*Mesh, *render.Sprite, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := NewGLTFLoader().fromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}

	for i, img := range doc.Images {
		data, err := imageBytes(doc, img, filepath.Dir(path))
		if err != nil {
			render.Logger().Warn("skipping gltf image", "index", i, "error", err)
			continue
		}
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			render.Logger().Warn("skipping gltf image", "index", i, "error", err)
			continue
		}
		return mesh, render.SpriteFromImage(decoded, maxW, maxH), nil
	}
	return mesh, nil, nil
}

// imageBytes returns the encoded bytes of an embedded or external image.
func imageBytes(doc *gltf.Document, img *gltf.Image, dir string) ([]byte, error) {
	if img.BufferView != nil {
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil {
			return nil, fmt.Errorf("buffer %d has no data", bv.Buffer)
		}
		return buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength], nil
	}
	if img.URI == "" {
		return nil, fmt.Errorf("image has neither buffer view nor uri")
	}
	if img.IsEmbeddedResource() {
		return img.MarshalData()
	}
	data, err := os.ReadFile(filepath.Join(dir, img.URI))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}
