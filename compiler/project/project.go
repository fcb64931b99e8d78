package project

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

const Ext = ".jack"

// Output suffixes.
const (
	VM     = ".vm"
	Tokens = "T.xml"
	Trace  = ".xml"
)

// Collect returns the source file itself or every source file in the directory, sorted.
func Collect(path string) (files []string, err error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "stat")
	}

	if !st.IsDir() {
		if filepath.Ext(path) != Ext {
			return nil, errors.New("%v: not a %v file", path, Ext)
		}

		return []string{path}, nil
	}

	es, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrap(err, "read dir")
	}

	for _, e := range es {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}

		files = append(files, filepath.Join(path, e.Name()))
	}

	if len(files) == 0 {
		return nil, errors.New("%v: no %v files", path, Ext)
	}

	sort.Strings(files)

	tlog.V("project").Printw("collected", "path", path, "files", files)

	return files, nil
}

// CollectAll collects every path and rejects files named twice.
func CollectAll(paths []string) (files []string, err error) {
	seen := map[string]struct{}{}

	for _, p := range paths {
		fs, err := Collect(p)
		if err != nil {
			return nil, err
		}

		for _, f := range fs {
			abs, err := filepath.Abs(f)
			if err != nil {
				return nil, errors.Wrap(err, "abs")
			}

			if _, ok := seen[abs]; ok {
				continue
			}

			seen[abs] = struct{}{}
			files = append(files, f)
		}
	}

	return files, nil
}

// Output names the file produced from src: Xxx.jack -> dir/Xxx<suffix>.
// Empty dir puts it next to the source.
func Output(src, dir, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(src), Ext)

	if dir == "" {
		dir = filepath.Dir(src)
	}

	return filepath.Join(dir, base+suffix)
}

// Write writes data to name creating parent directories.
func Write(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return errors.Wrap(err, "mkdir")
	}

	if err := os.WriteFile(name, data, 0o644); err != nil {
		return errors.Wrap(err, "write")
	}

	tlog.V("project").Printw("written", "name", name, "size", len(data))

	return nil
}
