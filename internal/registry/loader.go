// Package registry discovers GGUF model files for the llama backend and
// resolves configured model names to paths.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"nlpd/internal/common/fsutil"
	"nlpd/pkg/types"
)

// ErrModelNotFound is returned by Resolve when no file matches a name.
var ErrModelNotFound = errors.New("model not found")

// GGUFScanner lists *.gguf files in a directory.
type GGUFScanner struct{}

func NewGGUFScanner() *GGUFScanner { return &GGUFScanner{} }

// Scan returns one entry per *.gguf file (case-insensitive) directly in dir,
// sorted by ID. The ID is the file name; Path is absolute.
func (s *GGUFScanner) Scan(dir string) ([]types.Model, error) {
	abs, err := fsutil.AbsPath(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".gguf") {
			continue
		}
		name := e.Name()
		models = append(models, types.Model{
			ID:    name,
			Name:  strings.TrimSuffix(name, filepath.Ext(name)),
			Path:  filepath.Join(abs, name),
			Quant: quantOf(name),
		})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// LoadDir scans dir with a GGUFScanner.
func LoadDir(dir string) ([]types.Model, error) {
	return NewGGUFScanner().Scan(dir)
}

// Resolve maps a configured model reference to a file path. A reference
// that names an existing file is used as is; otherwise it is matched
// case-insensitively against model IDs with or without the extension.
func Resolve(models []types.Model, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", fmt.Errorf("%w: empty model name", ErrModelNotFound)
	}
	if p, err := fsutil.ExpandHome(ref); err == nil && strings.ContainsRune(ref, filepath.Separator) && fsutil.PathExists(p) {
		return p, nil
	}
	for _, m := range models {
		if strings.EqualFold(m.ID, ref) || strings.EqualFold(m.Name, ref) {
			return m.Path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrModelNotFound, ref)
}

// quantOf extracts a llama.cpp quantization suffix such as Q4_K_M.
func quantOf(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	for _, sep := range []string{".", "-", "_"} {
		i := strings.LastIndex(base, sep)
		if i < 0 {
			continue
		}
		if q := strings.ToUpper(base[i+1:]); isQuant(q) {
			return q
		}
	}
	return ""
}

func isQuant(q string) bool {
	switch q {
	case "F16", "F32", "BF16":
		return true
	}
	q = strings.TrimPrefix(q, "I")
	return len(q) > 1 && q[0] == 'Q' && q[1] >= '0' && q[1] <= '9'
}
