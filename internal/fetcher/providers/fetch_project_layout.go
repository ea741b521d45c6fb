package providers

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"envready/internal/data"
	"envready/internal/data/models"
	"envready/internal/fetcher"
)

type projectLayoutFetcher struct{}

func (d *projectLayoutFetcher) Key() data.DependencyKey {
	return data.DepProjectLayout
}

func (d *projectLayoutFetcher) Scope() data.FetchScope {
	return data.ScopeProject
}

// Fetch stats every configured path. Absence is recorded, never returned as
// an error, so every missing path shows up in one pass.
func (d *projectLayoutFetcher) Fetch(ctx context.Context, _ map[string]string, f *fetcher.Fetcher) (any, error) {
	cfg := f.Config()
	root := cfg.Project.Dir

	layout := &models.ProjectLayout{Root: root}
	for _, p := range cfg.Project.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		presence := models.PathPresence{Path: p}
		fi, err := os.Stat(filepath.Join(root, filepath.FromSlash(p)))
		switch {
		case err == nil:
			presence.Exists = true
			presence.IsDir = fi.IsDir()
		case errors.Is(err, fs.ErrNotExist):
		default:
			presence.Detail = err.Error()
		}
		layout.Paths = append(layout.Paths, presence)
	}
	return layout, nil
}

func init() {
	fetcher.RegisterDataFetcher(&projectLayoutFetcher{})
}
