package collection

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/gopost/internal/core/ident"
	"github.com/sadopc/gopost/internal/core/request"
)

// FileSuffix is the extension of local workspace files.
const FileSuffix = ".gopost.yaml"

// File is a collection read from a workspace file.
type File struct {
	Path       string
	Collection *Collection
}

// LoadFromFile reads the workspace file at path.
func LoadFromFile(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading collection file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses a workspace file. Workspace collections never live on
// the backend, so any id that is not local is replaced by a local one.
func LoadFromBytes(data []byte) (*Collection, error) {
	col := &Collection{}
	if err := yaml.Unmarshal(data, col); err != nil {
		return nil, fmt.Errorf("parsing collection: %w", err)
	}
	normalize(col)
	return col, nil
}

func normalize(col *Collection) {
	if col.Version == "" {
		col.Version = "1"
	}
	if !ident.IsLocal(col.ID) {
		col.ID = ident.NewLocal()
	}
	if col.Requests == nil {
		col.Requests = []request.Draft{}
	}
	for i := range col.Requests {
		r := &col.Requests[i]
		if !ident.IsLocal(r.ID) {
			r.ID = ident.NewLocal()
		}
		r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
		if r.Method == "" {
			r.Method = "GET"
		}
		r.CollectionID = col.ID
	}
}

// LoadFromDir reads every workspace file directly inside dir, in name order.
// The first file that fails to parse aborts the load.
func LoadFromDir(dir string) ([]File, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+FileSuffix))
	if err != nil {
		return nil, fmt.Errorf("listing workspace files: %w", err)
	}
	files := make([]File, 0, len(paths))
	for _, path := range paths {
		col, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		files = append(files, File{Path: path, Collection: col})
	}
	return files, nil
}
