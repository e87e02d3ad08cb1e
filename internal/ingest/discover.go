package ingest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gyeh/ehrload/internal/model"
	"github.com/gyeh/ehrload/internal/sheet"
)

// Discover walks root recursively and groups data files by category name. A
// file belongs to a category when its name without extension ends with the
// category suffix and the extension is one sheet can read. Files are sorted
// by path within each category. Hidden files and Excel lock files are
// ignored.
func Discover(root string, categories []model.Category) (map[string][]string, error) {
	found := make(map[string][]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			return nil
		}

		ext := filepath.Ext(name)
		if !slices.Contains(sheet.Extensions, strings.ToLower(ext)) {
			return nil
		}
		base := strings.TrimSuffix(name, ext)
		for _, c := range categories {
			if c.Suffix != "" && strings.HasSuffix(base, c.Suffix) {
				found[c.Name] = append(found[c.Name], path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	for _, files := range found {
		slices.Sort(files)
	}
	return found, nil
}
