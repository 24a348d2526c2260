package adapters

import (
	"context"
	"io/fs"
	"path"
	"sort"
	"strings"

	f "github.com/julianladisch/stripes-core/core"
	"github.com/julianladisch/stripes-core/log"
)

// fsBundleSource reads a translations tree laid out as
// <dir>/<module>/<locale>.json (or .toml): one directory per owning module,
// one file per supported locale.
type fsBundleSource struct {
	fsys fs.FS
	dir  string
}

func NewFSBundleSource(fsys fs.FS, dir string) f.BundleSource {
	return &fsBundleSource{fsys: fsys, dir: dir}
}

func (s *fsBundleSource) Load(ctx context.Context) ([]f.LocaleFile, error) {
	moduleDirs, err := fs.ReadDir(s.fsys, s.dir)
	if err != nil {
		return nil, err
	}

	var files []f.LocaleFile
	for _, moduleDir := range moduleDirs {
		if !moduleDir.IsDir() {
			continue
		}
		module := moduleDir.Name()
		entries, err := fs.ReadDir(s.fsys, path.Join(s.dir, module))
		if err != nil {
			return nil, err
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			ext := strings.TrimPrefix(path.Ext(name), ".")
			if ext != "json" && ext != "toml" {
				log.Debug("ignoring %s/%s: not a translation file", module, name)
				continue
			}
			data, err := fs.ReadFile(s.fsys, path.Join(s.dir, module, name))
			if err != nil {
				return nil, err
			}
			files = append(files, f.LocaleFile{
				Module: module,
				// pt-BR.json and pt_BR.json both mean pt-BR.
				Locale: strings.ReplaceAll(strings.TrimSuffix(name, "."+ext), "_", "-"),
				Format: ext,
				Data:   data,
			})
		}
	}
	return files, nil
}
