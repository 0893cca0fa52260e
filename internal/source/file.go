package source

import (
	"crypto/sha256"
	"os"
)

// File holds one source file: normalized content, a newline index for
// position resolution, and a content hash used as the build-cache key.
type File struct {
	Path    string
	Content []byte
	LineIdx []uint32 // byte offsets of every '\n'
	Hash    [32]byte
	Virtual bool // added from memory (tests, stdin) rather than disk
}

// LineCol is a human-readable position, both components 1-based.
type LineCol struct {
	Line uint32
	Col  uint32
}

// NewFile stores content under the given path after stripping a UTF-8 BOM
// and normalizing CRLF line endings.
func NewFile(path string, content []byte) *File {
	content = removeBOM(content)
	content = normalizeCRLF(content)
	return &File{
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
	}
}

// NewVirtualFile is NewFile for in-memory content (tests, stdin).
func NewVirtualFile(name string, content []byte) *File {
	f := NewFile(name, content)
	f.Virtual = true
	return f
}

// Load reads path from disk and normalizes it via NewFile.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewFile(path, content), nil
}

// Position resolves a byte offset to a 1-based line/column pair.
// Columns count bytes; the sources this compiler accepts are ASCII.
func (f *File) Position(off uint32) LineCol {
	idx := f.LineIdx
	if len(idx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// Binary search for the last newline strictly before off.
	lo, hi := 0, len(idx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if idx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := hi // 0-based index of the newline ending the previous line

	if line < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	startOff := idx[line] + 1
	return LineCol{Line: uint32(line) + 2, Col: off - startOff + 1}
}

// Line returns the text of the 1-based line n, without its newline.
// Out-of-range lines come back empty.
func (f *File) Line(n uint32) string {
	if n == 0 {
		return ""
	}
	var start uint32
	switch {
	case n == 1:
		start = 0
	case int(n-2) < len(f.LineIdx):
		start = f.LineIdx[n-2] + 1
	default:
		return ""
	}

	end := uint32(len(f.Content))
	if int(n-1) < len(f.LineIdx) {
		end = f.LineIdx[n-1]
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// normalizeCRLF rewrites \r\n to \n, leaving lone \r alone.
func normalizeCRLF(content []byte) []byte {
	out := content[:0:0]
	changed := false
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i++
			changed = true
		} else {
			out = append(out, content[i])
		}
	}
	if !changed {
		return content
	}
	return out
}

func removeBOM(content []byte) []byte {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:]
	}
	return content
}

func buildLineIndex(content []byte) []uint32 {
	var out []uint32
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}
