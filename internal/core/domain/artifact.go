package domain

import (
	"bytes"
	"encoding/binary"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Model3D is the generated 3D artifact handed back to the front-end.
type Model3D struct {
	ID          uuid.UUID `json:"id"`
	Format      string    `json:"format"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Path        string    `json:"path"`
	Data        []byte    `json:"-"`
}

// Image is the intermediate artifact produced by the text-to-image app.
type Image struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

// GenerationResult pairs the stored record with the artifacts of one run.
type GenerationResult struct {
	Generation *Generation
	Image      *Image
	Model      *Model3D
}

var modelContentTypes = map[string]string{
	"obj":  "model/obj",
	"glb":  "model/gltf-binary",
	"gltf": "model/gltf+json",
	"fbx":  "application/octet-stream",
	"usdz": "model/vnd.usdz+zip",
	"stl":  "model/stl",
	"ply":  "application/octet-stream",
}

// ModelContentType maps a model file format to its MIME type.
func ModelContentType(format string) string {
	if ct, ok := modelContentTypes[strings.ToLower(format)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// SupportedModelFormat reports whether the front-end can preview the format.
func SupportedModelFormat(format string) bool {
	switch strings.ToLower(format) {
	case "obj", "glb", "gltf", "stl":
		return true
	}
	return false
}

// DetectImageContentType sniffs the image bytes, defaulting to PNG.
func DetectImageContentType(data []byte) string {
	ct := http.DetectContentType(data)
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "image/png"
}

// DetectModelFormat identifies the model format from its leading bytes and
// returns fallback when the payload has no recognizable signature. OBJ is
// plain text without a magic header, so it is only ever the fallback.
func DetectModelFormat(data []byte, fallback string) string {
	switch {
	case bytes.HasPrefix(data, []byte("glTF")):
		return "glb"
	case bytes.HasPrefix(data, []byte("Kaydara FBX Binary")):
		return "fbx"
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return "usdz"
	case bytes.HasPrefix(data, []byte("ply\n")), bytes.HasPrefix(data, []byte("ply\r\n")):
		return "ply"
	case isASCIISTL(data), isBinarySTL(data):
		return "stl"
	case isGLTFJSON(data):
		return "gltf"
	}
	return fallback
}

func isASCIISTL(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.HasPrefix(data, []byte("solid")) && bytes.Contains(head, []byte("facet"))
}

// Binary STL: 80-byte header, uint32 triangle count, 50 bytes per triangle.
func isBinarySTL(data []byte) bool {
	if len(data) < 84 {
		return false
	}
	n := binary.LittleEndian.Uint32(data[80:84])
	return n > 0 && uint64(len(data)) == 84+uint64(n)*50
}

func isGLTFJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if !bytes.HasPrefix(trimmed, []byte("{")) {
		return false
	}
	head := trimmed
	if len(head) > 4096 {
		head = head[:4096]
	}
	return bytes.Contains(head, []byte(`"asset"`))
}
