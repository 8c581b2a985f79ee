// Package dataset persists named record sets for search by reference.
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/voca9204/findex/internal/db"
	"github.com/voca9204/findex/internal/domain"
	"github.com/voca9204/findex/internal/domain/record"
)

const defaultKeyPrefix = "dataset:"

// store is the consumer interface for datasets (ISP).
type store interface {
	JSONSet(ctx context.Context, key string, data []byte) error
	JSONGet(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo stores datasets as JSON documents.
type Repo struct {
	store  store
	prefix string
}

// New creates a dataset repository.
func New(s store) *Repo {
	return &Repo{store: s, prefix: defaultKeyPrefix}
}

// WithKeyPrefix namespaces dataset keys, for shared Redis instances.
func (r *Repo) WithKeyPrefix(prefix string) *Repo {
	if prefix != "" {
		r.prefix = prefix
	}
	return r
}

// Put stores a named dataset, replacing any previous version.
func (r *Repo) Put(ctx context.Context, name string, records []record.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal dataset %s: %w", name, err)
	}
	if err := r.store.JSONSet(ctx, r.key(name), data); err != nil {
		return fmt.Errorf("store dataset %s: %w", name, err)
	}
	return nil
}

// Get retrieves a named dataset.
func (r *Repo) Get(ctx context.Context, name string) ([]record.Record, error) {
	data, err := r.store.JSONGet(ctx, r.key(name))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrDatasetNotFound
		}
		return nil, fmt.Errorf("load dataset %s: %w", name, err)
	}

	var records []record.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", name, err)
	}
	return records, nil
}

// Delete removes a named dataset. Deleting a missing dataset is not an error.
func (r *Repo) Delete(ctx context.Context, name string) error {
	if err := r.store.Del(ctx, r.key(name)); err != nil {
		return fmt.Errorf("delete dataset %s: %w", name, err)
	}
	return nil
}

// List returns all dataset names, sorted.
func (r *Repo) List(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan datasets: %w", err)
	}

	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, r.prefix))
	}
	sort.Strings(names)
	return names, nil
}

func (r *Repo) key(name string) string {
	return r.prefix + name
}
