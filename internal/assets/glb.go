// Package assets resolves focal scene models (binary glTF) from a URL or a
// local path, synchronously or in the background.
package assets

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	glbMagic     = 0x46546C67 // "glTF"
	glbVersion   = 2
	glbHeaderLen = 12
	chunkJSON    = 0x4E4F534A // "JSON"
)

// ErrAssetFormat indicates a payload that is not a readable binary glTF.
var ErrAssetFormat = errors.New("assets: not a binary glTF (glb) payload")

// Model is a decoded focal model. Only the container metadata is read; the
// mesh data is left to the renderer.
type Model struct {
	Source     string   `json:"source"`
	Version    uint32   `json:"version"`
	Size       int      `json:"size"`
	Nodes      int      `json:"nodes"`
	Meshes     int      `json:"meshes"`
	Animations []string `json:"animations"`
}

type gltfDoc struct {
	Nodes      []json.RawMessage `json:"nodes"`
	Meshes     []json.RawMessage `json:"meshes"`
	Animations []struct {
		Name string `json:"name"`
	} `json:"animations"`
}

// ParseGLB validates the glb header and reads the scene summary from the
// JSON chunk.
func ParseGLB(data []byte) (*Model, error) {
	if len(data) < glbHeaderLen {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrAssetFormat, len(data))
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != glbMagic {
		return nil, fmt.Errorf("%w: bad magic 0x%08x", ErrAssetFormat, magic)
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	if version != glbVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrAssetFormat, version)
	}
	length := binary.LittleEndian.Uint32(data[8:12])
	if length < glbHeaderLen || int(length) > len(data) {
		return nil, fmt.Errorf("%w: declared length %d exceeds payload %d", ErrAssetFormat, length, len(data))
	}

	m := &Model{Version: version, Size: int(length)}

	body := data[glbHeaderLen:length]
	if len(body) < 8 {
		return m, nil
	}
	chunkLen := binary.LittleEndian.Uint32(body[0:4])
	chunkType := binary.LittleEndian.Uint32(body[4:8])
	if chunkType != chunkJSON {
		return nil, fmt.Errorf("%w: first chunk type 0x%08x is not JSON", ErrAssetFormat, chunkType)
	}
	if int(chunkLen) > len(body)-8 {
		return nil, fmt.Errorf("%w: JSON chunk length %d overruns payload", ErrAssetFormat, chunkLen)
	}

	var doc gltfDoc
	if err := json.Unmarshal(body[8:8+chunkLen], &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetFormat, err)
	}
	m.Nodes = len(doc.Nodes)
	m.Meshes = len(doc.Meshes)
	for _, a := range doc.Animations {
		m.Animations = append(m.Animations, a.Name)
	}
	return m, nil
}

// EncodeGLB wraps a glTF JSON document into a minimal glb container. It is
// used to write placeholder models and fixtures.
func EncodeGLB(doc []byte) []byte {
	pad := (4 - len(doc)%4) % 4
	chunkLen := len(doc) + pad
	total := glbHeaderLen + 8 + chunkLen

	out := make([]byte, total)
	binary.LittleEndian.PutUint32(out[0:4], glbMagic)
	binary.LittleEndian.PutUint32(out[4:8], glbVersion)
	binary.LittleEndian.PutUint32(out[8:12], uint32(total))
	binary.LittleEndian.PutUint32(out[12:16], uint32(chunkLen))
	binary.LittleEndian.PutUint32(out[16:20], chunkJSON)
	copy(out[20:], doc)
	for i := 0; i < pad; i++ {
		out[20+len(doc)+i] = ' '
	}
	return out
}
