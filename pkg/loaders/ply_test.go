package loaders

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-tile-pathtracer/pkg/core"
)

// createBinaryPLY writes a unit square made of two triangles, optionally
// with normals, in the given byte order
func createBinaryPLY(t *testing.T, order binary.ByteOrder, includeNormals bool) []byte {
	t.Helper()
	var buf bytes.Buffer

	format := "binary_little_endian"
	if order == binary.BigEndian {
		format = "binary_big_endian"
	}
	buf.WriteString("ply\n")
	buf.WriteString("format " + format + " 1.0\n")
	buf.WriteString("comment square\n")
	buf.WriteString("element vertex 4\n")
	buf.WriteString("property float x\n")
	buf.WriteString("property float y\n")
	buf.WriteString("property float z\n")
	if includeNormals {
		buf.WriteString("property float nx\n")
		buf.WriteString("property float ny\n")
		buf.WriteString("property float nz\n")
	}
	buf.WriteString("property uchar red\n")
	buf.WriteString("element face 2\n")
	buf.WriteString("property list uchar int vertex_indices\n")
	buf.WriteString("end_header\n")

	vertices := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	for _, v := range vertices {
		require.NoError(t, binary.Write(&buf, order, v))
		if includeNormals {
			require.NoError(t, binary.Write(&buf, order, [3]float32{0, 0, 1}))
		}
		buf.WriteByte(200)
	}

	faces := [][3]int32{{0, 1, 2}, {0, 2, 3}}
	for _, f := range faces {
		buf.WriteByte(3)
		require.NoError(t, binary.Write(&buf, order, f))
	}
	return buf.Bytes()
}

func TestReadPLY_Binary(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		for _, includeNormals := range []bool{false, true} {
			mesh, err := ReadPLY(bytes.NewReader(createBinaryPLY(t, order, includeNormals)))
			require.NoError(t, err, "%v normals=%v", order, includeNormals)

			require.Len(t, mesh.Vertices, 4)
			assert.Equal(t, core.NewVec3(1, 1, 0), mesh.Vertices[2])
			assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
			assert.Nil(t, mesh.UVs)
			if includeNormals {
				require.Len(t, mesh.Normals, 4)
				assert.Equal(t, core.NewVec3(0, 0, 1), mesh.Normals[3])
			} else {
				assert.Nil(t, mesh.Normals)
			}
		}
	}
}

const asciiQuad = `ply
format ascii 1.0
comment a quad with uvs and an unused edge element
element vertex 4
property double x
property double y
property double z
property float u
property float v
element face 1
property list uchar uint vertex_index
element edge 1
property int vertex1
property int vertex2
end_header
-1 -1 0 0 0
1 -1 0 1 0

1 1 0 1 1
-1 1 0 0 1
4 0 1 2 3
0 2
`

func TestReadPLY_ASCII(t *testing.T) {
	mesh, err := ReadPLY(strings.NewReader(asciiQuad))
	require.NoError(t, err)

	require.Len(t, mesh.Vertices, 4)
	assert.Equal(t, core.NewVec3(-1, 1, 0), mesh.Vertices[3])
	require.Len(t, mesh.UVs, 4)
	assert.Equal(t, core.NewVec2(1, 1), mesh.UVs[2])
	assert.Nil(t, mesh.Normals)

	// The quad is split into a fan around its first vertex
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
}

func TestReadPLY_CRLF(t *testing.T) {
	mesh, err := ReadPLY(strings.NewReader(strings.ReplaceAll(asciiQuad, "\n", "\r\n")))
	require.NoError(t, err)
	assert.Len(t, mesh.Indices, 6)
}

func TestReadPLY_Errors(t *testing.T) {
	truncated := createBinaryPLY(t, binary.LittleEndian, false)
	truncated = truncated[:len(truncated)-5]

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing magic", "format ascii 1.0\nend_header\n"},
		{"missing format", "ply\nelement vertex 0\nend_header\n"},
		{"unknown format", "ply\nformat binary_middle_endian 1.0\nend_header\n"},
		{"no end_header", "ply\nformat ascii 1.0\nelement vertex 1\n"},
		{"property before element", "ply\nformat ascii 1.0\nproperty float x\nend_header\n"},
		{"bad property type", "ply\nformat ascii 1.0\nelement vertex 1\nproperty quad x\nend_header\n"},
		{"missing z", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nend_header\n0 0\n"},
		{"short line", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nend_header\n0 0\n"},
		{"bad number", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nend_header\n0 zero 0\n"},
		{"index out of range", strings.Replace(asciiQuad, "4 0 1 2 3", "4 0 1 2 4", 1)},
		{"degenerate face", strings.Replace(asciiQuad, "4 0 1 2 3", "2 0 1", 1)},
		{"no faces", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nend_header\n0 0 0\n"},
		{"truncated binary", string(truncated)},
		{"huge vertex count", "ply\nformat ascii 1.0\nelement vertex 9000000000000000000\nproperty float x\nproperty float y\nproperty float z\nend_header\n0 0 0\n"},
		{"huge face count", "ply\nformat binary_little_endian 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nelement face 3000000000000000000\nproperty list uchar int vertex_indices\nend_header\n" + strings.Repeat("\x00", 12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPLY(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestLoadPLY(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "square.ply")
	require.NoError(t, os.WriteFile(testFile, createBinaryPLY(t, binary.LittleEndian, true), 0o644))

	mesh, err := LoadPLY(testFile)
	require.NoError(t, err)
	assert.Len(t, mesh.Vertices, 4)
	assert.Len(t, mesh.Indices, 6)

	_, err = LoadPLY(filepath.Join(tmpDir, "missing.ply"))
	assert.Error(t, err)
}
