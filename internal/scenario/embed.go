package scenario

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// DefaultName is the builtin scenario used when none is configured.
const DefaultName = "showcase.yaml"

// Builtin lists the names of the embedded scenarios.
func Builtin() []string {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func read(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err == nil {
		return data, nil
	}
	if strings.ContainsRune(filepath.ToSlash(name), '/') {
		return nil, err
	}
	return builtinFS.ReadFile("builtin/" + name)
}
