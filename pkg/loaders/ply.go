package loaders

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/geometry"
)

// plyProperty is one property line of a PLY header
type plyProperty struct {
	Name      string
	Type      string
	IsList    bool
	CountType string // For list properties, the type of the length prefix
}

// plyElement is one element block of a PLY header
type plyElement struct {
	Name       string
	Count      int
	Properties []plyProperty
}

// index returns the position of the named property, or -1
func (e plyElement) index(names ...string) int {
	for i, prop := range e.Properties {
		for _, name := range names {
			if prop.Name == name {
				return i
			}
		}
	}
	return -1
}

// plyHeader represents the parsed header of a PLY file
type plyHeader struct {
	Format   string // "ascii", "binary_little_endian" or "binary_big_endian"
	Elements []plyElement
}

// LoadPLY loads a triangle mesh from a PLY file
func LoadPLY(filename string) (geometry.MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return geometry.MeshData{}, errors.Wrap(err, "failed to open PLY file")
	}
	defer file.Close()

	mesh, err := ReadPLY(file)
	if err != nil {
		return geometry.MeshData{}, errors.Wrapf(err, "failed to read %s", filename)
	}
	return mesh, nil
}

// ReadPLY reads a triangle mesh in ASCII or binary PLY format. Vertex
// positions are required; normals (nx, ny, nz) and texture coordinates
// (u/v, s/t or texture_u/texture_v) are used when present. Polygons are
// split into triangle fans and elements other than vertex and face are
// skipped.
func ReadPLY(r io.Reader) (geometry.MeshData, error) {
	br := bufio.NewReader(r)
	header, err := readPLYHeader(br)
	if err != nil {
		return geometry.MeshData{}, errors.Wrap(err, "failed to parse PLY header")
	}

	var src plySource
	switch header.Format {
	case "ascii":
		src = &asciiSource{r: br}
	case "binary_little_endian":
		src = &binarySource{r: br, order: binary.LittleEndian}
	case "binary_big_endian":
		src = &binarySource{r: br, order: binary.BigEndian}
	default:
		return geometry.MeshData{}, errors.Errorf("unsupported PLY format: %s", header.Format)
	}

	var mesh geometry.MeshData
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readVertices(src, element, &mesh)
		case "face":
			err = readFaces(src, element, &mesh)
		default:
			err = readElement(src, element, func([]float64, [][]float64) error { return nil })
		}
		if err != nil {
			return geometry.MeshData{}, errors.Wrapf(err, "element %s", element.Name)
		}
	}

	if len(mesh.Vertices) == 0 {
		return geometry.MeshData{}, errors.New("PLY file has no vertices")
	}
	if len(mesh.Indices) == 0 {
		return geometry.MeshData{}, errors.New("PLY file has no faces")
	}
	return mesh, nil
}

// readPLYHeader parses the header up to and including end_header
func readPLYHeader(r *bufio.Reader) (*plyHeader, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}
	if line != "ply" {
		return nil, errors.Errorf("missing ply magic, got %q", line)
	}

	header := &plyHeader{}
	for {
		line, err := readLine(r)
		if err != nil {
			return nil, errors.Wrap(err, "header ended before end_header")
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			if header.Format == "" {
				return nil, errors.New("missing format line")
			}
			return header, nil
		case "format":
			if len(parts) < 2 {
				return nil, errors.Errorf("invalid format line %q", line)
			}
			header.Format = parts[1]
		case "comment", "obj_info":
		case "element":
			if len(parts) != 3 {
				return nil, errors.Errorf("invalid element line %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, errors.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, plyElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, errors.New("property before any element")
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			element := &header.Elements[len(header.Elements)-1]
			element.Properties = append(element.Properties, prop)
		default:
			return nil, errors.Errorf("unknown header keyword %q", parts[0])
		}
	}
}

// parsePLYProperty parses the fields of a property line after the keyword
func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) >= 1 && parts[0] == "list" {
		if len(parts) != 4 {
			return plyProperty{}, errors.Errorf("invalid list property %q", strings.Join(parts, " "))
		}
		prop := plyProperty{IsList: true, CountType: parts[1], Type: parts[2], Name: parts[3]}
		if typeSize(prop.CountType) == 0 || typeSize(prop.Type) == 0 {
			return plyProperty{}, errors.Errorf("unsupported list types %s %s", prop.CountType, prop.Type)
		}
		return prop, nil
	}
	if len(parts) != 2 {
		return plyProperty{}, errors.Errorf("invalid property %q", strings.Join(parts, " "))
	}
	if typeSize(parts[0]) == 0 {
		return plyProperty{}, errors.Errorf("unsupported property type %s", parts[0])
	}
	return plyProperty{Type: parts[0], Name: parts[1]}, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// typeSize returns the size in bytes of a PLY scalar type, or 0 if the
// type is unknown
func typeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

// plySource yields the scalar values of element instances one at a time
type plySource interface {
	// begin starts a new element instance
	begin() error
	// value reads the next scalar of the given type
	value(dataType string) (float64, error)
}

// asciiSource reads one element instance per line
type asciiSource struct {
	r      *bufio.Reader
	fields []string
}

func (s *asciiSource) begin() error {
	for {
		line, err := readLine(s.r)
		if err != nil {
			return errors.Wrap(err, "unexpected end of data")
		}
		if line != "" {
			s.fields = strings.Fields(line)
			return nil
		}
	}
}

func (s *asciiSource) value(dataType string) (float64, error) {
	if len(s.fields) == 0 {
		return 0, errors.New("too few values on line")
	}
	field := s.fields[0]
	s.fields = s.fields[1:]
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, errors.Errorf("invalid %s value %q", dataType, field)
	}
	return v, nil
}

// binarySource reads packed scalars in a fixed byte order
type binarySource struct {
	r     *bufio.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (s *binarySource) begin() error { return nil }

func (s *binarySource) value(dataType string) (float64, error) {
	b := s.buf[:typeSize(dataType)]
	if _, err := io.ReadFull(s.r, b); err != nil {
		return 0, errors.Wrap(err, "unexpected end of data")
	}
	switch dataType {
	case "char", "int8":
		return float64(int8(b[0])), nil
	case "uchar", "uint8":
		return float64(b[0]), nil
	case "short", "int16":
		return float64(int16(s.order.Uint16(b))), nil
	case "ushort", "uint16":
		return float64(s.order.Uint16(b)), nil
	case "int", "int32":
		return float64(int32(s.order.Uint32(b))), nil
	case "uint", "uint32":
		return float64(s.order.Uint32(b)), nil
	case "float", "float32":
		return float64(math.Float32frombits(s.order.Uint32(b))), nil
	case "double", "float64":
		return math.Float64frombits(s.order.Uint64(b)), nil
	default:
		return 0, errors.Errorf("unsupported data type: %s", dataType)
	}
}

// readElement reads every instance of element and passes its scalar values
// and list values, indexed by property position, to fn. The slices are
// reused between calls.
func readElement(src plySource, element plyElement, fn func(scalars []float64, lists [][]float64) error) error {
	scalars := make([]float64, len(element.Properties))
	lists := make([][]float64, len(element.Properties))

	for i := 0; i < element.Count; i++ {
		if err := src.begin(); err != nil {
			return errors.Wrapf(err, "instance %d", i)
		}
		for p, prop := range element.Properties {
			if !prop.IsList {
				v, err := src.value(prop.Type)
				if err != nil {
					return errors.Wrapf(err, "instance %d property %s", i, prop.Name)
				}
				scalars[p] = v
				continue
			}

			n, err := src.value(prop.CountType)
			if err != nil {
				return errors.Wrapf(err, "instance %d property %s", i, prop.Name)
			}
			if n < 0 || n != math.Trunc(n) {
				return errors.Errorf("instance %d property %s has invalid length %v", i, prop.Name, n)
			}
			lists[p] = lists[p][:0]
			for k := 0; k < int(n); k++ {
				v, err := src.value(prop.Type)
				if err != nil {
					return errors.Wrapf(err, "instance %d property %s", i, prop.Name)
				}
				lists[p] = append(lists[p], v)
			}
		}
		if err := fn(scalars, lists); err != nil {
			return errors.Wrapf(err, "instance %d", i)
		}
	}
	return nil
}

func readVertices(src plySource, element plyElement, mesh *geometry.MeshData) error {
	x, y, z := element.index("x"), element.index("y"), element.index("z")
	if x < 0 || y < 0 || z < 0 {
		return errors.New("vertex element lacks x, y or z")
	}
	nx, ny, nz := element.index("nx"), element.index("ny"), element.index("nz")
	hasNormals := nx >= 0 && ny >= 0 && nz >= 0
	u, v := element.index("u", "s", "texture_u"), element.index("v", "t", "texture_v")
	hasUVs := u >= 0 && v >= 0

	n := preallocCount(element.Count, 1)
	mesh.Vertices = make([]core.Vec3, 0, n)
	if hasNormals {
		mesh.Normals = make([]core.Vec3, 0, n)
	}
	if hasUVs {
		mesh.UVs = make([]core.Vec2, 0, n)
	}

	return readElement(src, element, func(s []float64, _ [][]float64) error {
		mesh.Vertices = append(mesh.Vertices, core.NewVec3(s[x], s[y], s[z]))
		if hasNormals {
			mesh.Normals = append(mesh.Normals, core.NewVec3(s[nx], s[ny], s[nz]))
		}
		if hasUVs {
			mesh.UVs = append(mesh.UVs, core.NewVec2(s[u], s[v]))
		}
		return nil
	})
}

// maxPrealloc bounds how many items a header count may reserve up front.
// Larger elements grow by append as instances are actually read.
const maxPrealloc = 1 << 20

func preallocCount(count, per int) int {
	if count <= 0 {
		return 0
	}
	return min(count, maxPrealloc) * per
}

func readFaces(src plySource, element plyElement, mesh *geometry.MeshData) error {
	list := element.index("vertex_indices", "vertex_index")
	if list < 0 || !element.Properties[list].IsList {
		return errors.New("face element lacks a vertex_indices list")
	}

	vertexCount := len(mesh.Vertices)
	mesh.Indices = make([]uint32, 0, preallocCount(element.Count, 3))
	return readElement(src, element, func(_ []float64, lists [][]float64) error {
		face := lists[list]
		if len(face) < 3 {
			return errors.Errorf("face has %d vertices", len(face))
		}
		for _, index := range face {
			if index < 0 || int(index) >= vertexCount {
				return errors.Errorf("vertex index %v out of range for %d vertices", index, vertexCount)
			}
		}
		for k := 1; k+1 < len(face); k++ {
			mesh.Indices = append(mesh.Indices, uint32(face[0]), uint32(face[k]), uint32(face[k+1]))
		}
		return nil
	})
}
