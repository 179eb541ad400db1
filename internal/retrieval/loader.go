package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/fsutil"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/logging"
)

// categoryDirs maps corpus subdirectories to the category their documents
// are filed under.
var categoryDirs = []struct {
	dir      string
	category core.Category
}{
	{"policies", core.CategoryPolicy},
	{"investors", core.CategoryInvestor},
	{"news", core.CategoryNews},
	{"reports", core.CategoryReport},
}

// LoadResult is the outcome of loading one corpus directory tree.
type LoadResult struct {
	Documents []core.Document
	// Files counts parsed files per category.
	Files map[core.Category]int
	// Skipped lists files that could not be read or parsed.
	Skipped []string
}

// ByCategory counts loaded candidates per category.
func (r LoadResult) ByCategory() map[core.Category]int {
	counts := make(map[core.Category]int)
	for _, d := range r.Documents {
		counts[d.Category]++
	}
	return counts
}

// LoadDirectory reads candidate documents from the category subdirectories
// of root. Each file holds one JSON object, a JSON array, or a YAML document
// or list; the category is taken from the directory. Subdirectories are read
// concurrently and merged in fixed category order. Missing subdirectories are
// skipped; a missing root is an error.
func LoadDirectory(ctx context.Context, root string, logger *logging.Logger) (*LoadResult, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("opening data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data path %s is not a directory", root)
	}

	parts := make([]*LoadResult, len(categoryDirs))

	g, gctx := errgroup.WithContext(ctx)
	for i, cd := range categoryDirs {
		g.Go(func() error {
			part, err := loadCategory(gctx, filepath.Join(root, cd.dir), cd.category, logger)
			if err != nil {
				return err
			}
			parts[i] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &LoadResult{Files: make(map[core.Category]int)}
	for i, part := range parts {
		merged.Documents = append(merged.Documents, part.Documents...)
		merged.Files[categoryDirs[i].category] = part.Files[categoryDirs[i].category]
		merged.Skipped = append(merged.Skipped, part.Skipped...)
	}
	return merged, nil
}

func loadCategory(ctx context.Context, dir string, category core.Category, logger *logging.Logger) (*LoadResult, error) {
	result := &LoadResult{Files: make(map[core.Category]int)}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	d, err := fsutil.OpenDir(dir)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dir, err)
	}
	defer d.Close()

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(dir, name)
		docs, err := readDocuments(d, name)
		if err != nil {
			logger.Warn("skipping document file", "path", path, "error", err)
			result.Skipped = append(result.Skipped, path)
			continue
		}
		for i := range docs {
			docs[i].Category = category
		}
		result.Documents = append(result.Documents, docs...)
		result.Files[category]++
	}
	return result, nil
}

// readDocuments reads name inside d; links pointing outside d fail.
func readDocuments(d *fsutil.Dir, name string) ([]core.Document, error) {
	data, err := d.ReadFile(name)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(name), ".json") {
		return decodeJSONDocuments(data)
	}
	return decodeYAMLDocuments(data)
}

func decodeJSONDocuments(data []byte) ([]core.Document, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var docs []core.Document
		if err := json.Unmarshal(data, &docs); err != nil {
			return nil, fmt.Errorf("parsing json array: %w", err)
		}
		return docs, nil
	}
	var doc core.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing json object: %w", err)
	}
	return []core.Document{doc}, nil
}

func decodeYAMLDocuments(data []byte) ([]core.Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var docs []core.Document
		if err := root.Decode(&docs); err != nil {
			return nil, fmt.Errorf("decoding yaml list: %w", err)
		}
		return docs, nil
	}
	var doc core.Document
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding yaml document: %w", err)
	}
	return []core.Document{doc}, nil
}
