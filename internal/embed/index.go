// Package embed maintains the locator-keyed embeddings sidecar and serves
// vector similarity search over it.
//
// The sidecar is a JSON document of parallel arrays, persisted separately
// from the library document and rebuilt incrementally: syncing embeds only
// the nodes whose locators are not yet present.
package embed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"

	"catalog/internal/library"
	"catalog/internal/locator"
	"catalog/internal/logging"
)

// Embedder converts a batch of texts into equal-length vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Match is one similarity hit.
type Match struct {
	Locator string
	Score   float64
}

// Index is the on-disk embeddings sidecar.
type Index struct {
	path   string
	logger *slog.Logger

	embeddings [][]float64
	locators   []string
}

type sidecarDocument struct {
	Embeddings [][]float64 `json:"embeddings"`
	Locators   []string    `json:"locators"`
}

// Open loads the sidecar at path, starting empty when absent.
func Open(path string, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	idx := &Index{
		path:   path,
		logger: logging.NewComponentLogger(logger, "embeddings"),
	}
	if err := idx.load(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Len returns the number of indexed locators.
func (x *Index) Len() int { return len(x.locators) }

func (x *Index) load() error {
	data, err := os.ReadFile(x.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read embeddings sidecar: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	var doc sidecarDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse embeddings sidecar %s: %w", x.path, err)
	}
	if len(doc.Embeddings) != len(doc.Locators) {
		return fmt.Errorf("embeddings sidecar %s: %d vectors for %d locators", x.path, len(doc.Embeddings), len(doc.Locators))
	}
	x.embeddings = doc.Embeddings
	x.locators = doc.Locators
	return nil
}

func (x *Index) save() error {
	doc := sidecarDocument{Embeddings: x.embeddings, Locators: x.locators}
	if doc.Embeddings == nil {
		doc.Embeddings = [][]float64{}
	}
	if doc.Locators == nil {
		doc.Locators = []string{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal embeddings sidecar: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(x.path), 0o755); err != nil {
		return fmt.Errorf("create sidecar directory: %w", err)
	}
	tmpPath := x.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, x.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Sync reconciles the sidecar against the library: nodes of each object's
// most recent entry that are not yet indexed are embedded and added (up to
// maxEntries new nodes per call), and indexed locators that no longer belong
// to any object's most recent entry are dropped along with their vectors.
// Returns the number of nodes added.
func (x *Index) Sync(ctx context.Context, lib *library.Library, embedder Embedder, maxEntries int) (int, error) {
	present := make(map[string]bool, len(x.locators))
	for _, loc := range x.locators {
		present[loc] = true
	}

	// The current set must be complete before anything is dropped, so the
	// scan never stops early; only additions are capped.
	current := make(map[string]bool)
	var texts []string
	var locators []string
	for _, obj := range lib.Objects() {
		entry, ok := obj.LatestEntry()
		if !ok {
			continue
		}
		for i, text := range entry.Texts() {
			if text == "" {
				continue
			}
			loc := locator.Node(obj.ID, string(entry.Type()), entry.EntryID(), i)
			current[loc] = true
			if present[loc] {
				continue
			}
			if maxEntries > 0 && len(texts) >= maxEntries {
				continue
			}
			texts = append(texts, text)
			locators = append(locators, loc)
		}
	}

	kept := 0
	for i, loc := range x.locators {
		if current[loc] {
			x.locators[kept] = loc
			x.embeddings[kept] = x.embeddings[i]
			kept++
		}
	}
	dropped := len(x.locators) - kept
	x.locators = x.locators[:kept]
	x.embeddings = x.embeddings[:kept]

	if len(texts) == 0 && dropped == 0 {
		return 0, nil
	}

	if len(texts) > 0 {
		vectors, err := embedder.Embed(ctx, texts)
		if err != nil {
			return 0, err
		}
		if len(vectors) != len(texts) {
			return 0, fmt.Errorf("embeddings sync: got %d vectors for %d texts", len(vectors), len(texts))
		}
		x.embeddings = append(x.embeddings, vectors...)
		x.locators = append(x.locators, locators...)
	}

	if err := x.save(); err != nil {
		return 0, err
	}

	x.logger.Info("synced embeddings",
		logging.Int("added", len(texts)),
		logging.Int("dropped", dropped),
		logging.Int("total", len(x.locators)))
	return len(texts), nil
}

// Search embeds the query and returns the top matches by cosine similarity.
func (x *Index) Search(ctx context.Context, query string, embedder Embedder, maxResults int) ([]Match, error) {
	if query == "" {
		return nil, errors.New("embeddings search: query required")
	}
	if len(x.locators) == 0 {
		return nil, nil
	}
	vectors, err := embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	queryVector := vectors[0]

	matches := make([]Match, 0, len(x.locators))
	for i, vector := range x.embeddings {
		matches = append(matches, Match{
			Locator: x.locators[i],
			Score:   cosineSimilarity(queryVector, vector),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if maxResults > 0 && len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches, nil
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
