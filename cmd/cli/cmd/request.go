// Package cmd - Request and fixture loading shared by the subcommands
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"agreement-engine/adapters/storage"
	"agreement-engine/core/assembly"
	"agreement-engine/core/types"
	"agreement-engine/internal/config"
)

// loadRequest reads an assembly request from a JSON file
func loadRequest(path string) (assembly.Request, error) {
	var req assembly.Request
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("reading request: %w", err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("parsing request: %w", err)
	}
	if req.Config == nil {
		return req, fmt.Errorf("request %s has no pricing configuration", path)
	}
	if req.TemplateName == "" {
		req.TemplateName = config.Get().Assembly.DefaultTemplate
	}
	return req, nil
}

// fixtureCatalog is the on-disk catalog layout of a fixtures directory
type fixtureCatalog struct {
	Exhibits []types.ExhibitRecord `json:"exhibits"`
	Tiers    []types.Tier          `json:"tiers"`
}

// loadFixtures builds a memory store from a fixtures directory:
// catalog.json, templates/<name>, exhibits/<object key>.
func loadFixtures(dir string) (*storage.MemoryStore, error) {
	store := storage.NewMemoryStore()

	data, err := os.ReadFile(filepath.Join(dir, "catalog.json"))
	if err != nil {
		return nil, fmt.Errorf("reading fixture catalog: %w", err)
	}
	var cat fixtureCatalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing fixture catalog: %w", err)
	}

	for _, tier := range cat.Tiers {
		store.PutTier(tier)
	}
	for _, rec := range cat.Exhibits {
		key := rec.ObjectKey
		if key == "" {
			key = rec.ID
		}
		content, err := os.ReadFile(filepath.Join(dir, "exhibits", key))
		if err != nil {
			return nil, fmt.Errorf("reading exhibit %s: %w", rec.ID, err)
		}
		store.PutExhibit(rec, content)
	}

	templates, err := os.ReadDir(filepath.Join(dir, "templates"))
	if err == nil {
		for _, entry := range templates {
			if entry.IsDir() {
				continue
			}
			content, err := os.ReadFile(filepath.Join(dir, "templates", entry.Name()))
			if err != nil {
				return nil, fmt.Errorf("reading template %s: %w", entry.Name(), err)
			}
			store.PutTemplate(entry.Name(), content)
		}
	}

	return store, nil
}

// buildStores wires the configured backends, or the fixtures directory
// when one is given.
func buildStores(ctx context.Context, fixturesDir string) (storage.Catalog, storage.FileStore, error) {
	if fixturesDir != "" {
		store, err := loadFixtures(fixturesDir)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	}

	cfg := config.Get()

	var catalog storage.Catalog
	switch cfg.Catalog.Backend {
	case "postgres":
		pg, err := storage.OpenPostgresCatalog(ctx, cfg.Catalog.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		catalog = pg
	default:
		return nil, nil, fmt.Errorf("catalog backend %q needs --fixtures", cfg.Catalog.Backend)
	}

	var files storage.FileStore
	switch cfg.Documents.Backend {
	case "minio":
		fs, err := storage.NewMinioFileStore(cfg.Documents)
		if err != nil {
			return nil, nil, err
		}
		files = fs
	default:
		return nil, nil, fmt.Errorf("document backend %q needs --fixtures", cfg.Documents.Backend)
	}

	return catalog, files, nil
}
