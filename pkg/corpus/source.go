package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when no encoding is named.
const DefaultEncoding = "utf-8"

// ErrUnknownEncoding is returned for an encoding name Decode does not know.
var ErrUnknownEncoding = errors.New("corpus: unknown encoding")

var encodings = map[string]encoding.Encoding{
	"utf-8":        unicode.UTF8BOM,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"windows-1250": charmap.Windows1250,
	"windows-1251": charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"koi8-r":       charmap.KOI8R,
	"cp437":        charmap.CodePage437,
	"macintosh":    charmap.Macintosh,
}

// Encodings returns the names accepted by Decode, sorted.
func Encodings() []string {
	names := make([]string, 0, len(encodings))
	for name := range encodings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NormalizeEncoding maps an encoding name to its canonical form. The empty
// name and "utf8" mean DefaultEncoding.
func NormalizeEncoding(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "utf8":
		name = DefaultEncoding
	}
	if _, ok := encodings[name]; !ok {
		return "", fmt.Errorf("%w: '%s'", ErrUnknownEncoding, name)
	}
	return name, nil
}

// Decode reads all of r as text in the named encoding. UTF-8 input has a
// leading byte order mark stripped and invalid bytes replaced by U+FFFD.
func Decode(r io.Reader, encodingName string) (string, error) {
	name, err := NormalizeEncoding(encodingName)
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(transform.NewReader(r, encodings[name].NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("could not decode %s text: %w", name, err)
	}
	return string(data), nil
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// ReadTextFile reads and decodes the file at path. Line endings are
// normalized to "\n".
func ReadTextFile(path, encodingName string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	text, err := Decode(f, encodingName)
	if err != nil {
		return "", err
	}
	return newlines.Replace(text), nil
}

// ListTextFiles returns the ".txt" files directly inside dir, sorted by name.
// Symbolic links are followed and listed when they point at a regular file.
func ListTextFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0)
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// TextName derives a store name from a file path: the base name without its
// extension.
func TextName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
