package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/glyph3d/pkg/math3d"
	"github.com/taigrr/glyph3d/pkg/render"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// objCorner is one face corner: position and optional texture index, both
// already resolved to 0-based.
type objCorner struct {
	v, vt int
}

// ParseOBJ reads OBJ geometry. Only v, vt and f records are used; every
// other record is skipped. Face corners may be written as a, a/b, a//c or
// a/b/c, with 1-based or negative (relative) indices. Polygons are
// triangulated as a fan around their first corner.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	mesh := NewMesh("")
	var (
		positions []math3d.Vec3
		texcoords []math3d.Vec2
	)
	// One mesh vertex per distinct position/texcoord pair
	index := make(map[objCorner]int)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			positions = append(positions, math3d.V3(p[0], p[1], p[2]))

		case "vt":
			p, err := parseFloats(fields[1:], 1)
			if err != nil {
				return nil, fmt.Errorf("line %d: texcoord: %w", lineNo, err)
			}
			v := 0.0
			if len(p) > 1 {
				v = p[1]
			}
			texcoords = append(texcoords, math3d.V2(p[0], v))

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 corners, got %d", lineNo, len(fields)-1)
			}
			corners := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				c, err := parseCorner(tok, len(positions), len(texcoords))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx, ok := index[c]
				if !ok {
					idx = len(mesh.Vertices)
					vert := MeshVertex{Position: positions[c.v], UV: math3d.V2(0, 0)}
					if c.vt >= 0 {
						vert.UV = texcoords[c.vt]
					}
					mesh.Vertices = append(mesh.Vertices, vert)
					index[c] = idx
				}
				corners = append(corners, idx)
			}
			for i := 1; i+1 < len(corners); i++ {
				mesh.Faces = append(mesh.Faces, Face{V: [3]int{corners[0], corners[i], corners[i+1]}})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	mesh.CalculateBounds()
	render.Logger().Debug("obj parsed",
		"positions", len(positions),
		"texcoords", len(texcoords),
		"vertices", mesh.VertexCount(),
		"faces", mesh.TriangleCount(),
	)
	return mesh, nil
}

func parseFloats(fields []string, need int) ([]float64, error) {
	if len(fields) < need {
		return nil, fmt.Errorf("want %d values, got %d", need, len(fields))
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// parseCorner parses one face corner. vt is -1 when the corner has no
// texture coordinate. Normals are ignored.
func parseCorner(tok string, nv, nvt int) (objCorner, error) {
	parts := strings.Split(tok, "/")
	v, err := resolveIndex(parts[0], nv)
	if err != nil {
		return objCorner{}, fmt.Errorf("corner %q: vertex: %w", tok, err)
	}
	c := objCorner{v: v, vt: -1}
	if len(parts) > 1 && parts[1] != "" {
		if c.vt, err = resolveIndex(parts[1], nvt); err != nil {
			return objCorner{}, fmt.Errorf("corner %q: texcoord: %w", tok, err)
		}
	}
	return c, nil
}

// resolveIndex converts a 1-based or negative OBJ index into a 0-based one.
func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i += n
	} else {
		i--
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %s out of range (%d defined)", s, n)
	}
	return i, nil
}
