// Package cache holds the local store of crawled categories and products and
// persists it to a single JSON file between runs.
package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/lukman83/envato-scrape/internal/models"
)

// FormatVersion is written to every persistence file.
const FormatVersion = 1

// Store is the aggregate root for cached marketplace data. Categories are
// keyed by site slug then path, products by id.
type Store struct {
	path string

	mu         sync.RWMutex
	categories map[string]map[string]models.Category
	products   map[int64]models.Product
	dirty      bool
}

// New returns an empty store bound to the given persistence file.
// It does not touch the filesystem; call Load for that.
func New(path string) *Store {
	return &Store{
		path:       path,
		categories: make(map[string]map[string]models.Category),
		products:   make(map[int64]models.Product),
	}
}

// Path returns the persistence file location.
func (s *Store) Path() string {
	return s.path
}

// AddCategory upserts c under (site, c.Path).
func (s *Store) AddCategory(site string, c models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bySite, ok := s.categories[site]
	if !ok {
		bySite = make(map[string]models.Category)
		s.categories[site] = bySite
	}
	bySite[c.Path] = c
	s.dirty = true
}

// AddProduct replaces any product with the same id.
func (s *Store) AddProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[p.ID] = p
	s.dirty = true
}

// Categories returns a snapshot of all cached categories.
func (s *Store) Categories() map[string]map[string]models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]map[string]models.Category, len(s.categories))
	for site, bySite := range s.categories {
		cp := make(map[string]models.Category, len(bySite))
		for path, c := range bySite {
			cp[path] = c
		}
		out[site] = cp
	}
	return out
}

// Products returns a snapshot of all cached products.
func (s *Store) Products() map[int64]models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64]models.Product, len(s.products))
	for id, p := range s.products {
		out[id] = p
	}
	return out
}

// SiteCategories returns the cached categories of one site ordered by path.
func (s *Store) SiteCategories(site string) []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bySite := s.categories[site]
	out := make([]models.Category, 0, len(bySite))
	for _, c := range bySite {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Category looks up a single cached category.
func (s *Store) Category(site, path string) (models.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[site][path]
	return c, ok
}

// Product looks up a single cached product.
func (s *Store) Product(id int64) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	return p, ok
}

// Dirty reports whether the store changed since the last load or save.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

type document struct {
	Version    int                                  `json:"version"`
	Categories map[string]map[string]map[string]any `json:"categories"`
	Products   map[string]map[string]any            `json:"products"`
}

// Load replaces the store contents with the persistence file. On any error
// the store is left exactly as it was and a *LoadError is returned.
func (s *Store) Load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &LoadError{Kind: LoadNotFound, Path: s.path, Err: err}
		}
		return &LoadError{Kind: LoadCorrupt, Path: s.path, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &LoadError{Kind: LoadSchema, Path: s.path, Err: err}
		}
		return &LoadError{Kind: LoadCorrupt, Path: s.path, Err: err}
	}
	if doc.Version > FormatVersion {
		return &LoadError{
			Kind: LoadSchema,
			Path: s.path,
			Err:  fmt.Errorf("unsupported format version %d", doc.Version),
		}
	}

	categories := make(map[string]map[string]models.Category, len(doc.Categories))
	for site, bySite := range doc.Categories {
		categories[site] = make(map[string]models.Category, len(bySite))
		for path, data := range bySite {
			c := models.CategoryFromMap(data)
			// the key is authoritative for identity
			c.Path = path
			categories[site][path] = c
		}
	}

	products := make(map[int64]models.Product, len(doc.Products))
	for key, data := range doc.Products {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return &LoadError{
				Kind: LoadSchema,
				Path: s.path,
				Err:  fmt.Errorf("product key %q: %w", key, err),
			}
		}
		p := models.ProductFromMap(data)
		p.ID = id
		products[id] = p
	}

	s.mu.Lock()
	s.categories = categories
	s.products = products
	s.dirty = false
	s.mu.Unlock()
	return nil
}

// Save writes the whole store to the persistence file atomically.
func (s *Store) Save() error {
	s.mu.RLock()
	doc := document{
		Version:    FormatVersion,
		Categories: make(map[string]map[string]map[string]any, len(s.categories)),
		Products:   make(map[string]map[string]any, len(s.products)),
	}
	for site, bySite := range s.categories {
		doc.Categories[site] = make(map[string]map[string]any, len(bySite))
		for path, c := range bySite {
			doc.Categories[site][path] = c.ToMap()
		}
	}
	for id, p := range s.products {
		doc.Products[strconv.FormatInt(id, 10)] = p.ToMap()
	}
	s.mu.RUnlock()

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := writeFileAtomic(s.path, raw); err != nil {
		return err
	}

	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()
	return nil
}

// MaybeSave calls Save only when the store is dirty. It reports whether a
// write was attempted.
func (s *Store) MaybeSave() (bool, error) {
	if !s.Dirty() {
		return false, nil
	}
	return true, s.Save()
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close cache: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename cache: %w", err)
	}
	return nil
}
