// Package mocks provides an in-memory DocumentStore for tests.
package mocks

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/calorievision/backend/internal/database"
)

// MemStore is an in-memory DocumentStore and Diagnostics implementation.
// Documents go through a bson round trip on insert so field names and value
// types match what the real store would hand back.
type MemStore struct {
	mu    sync.Mutex
	colls map[string][]map[string]interface{}

	// InsertErr, when set, is returned by every Insert call.
	InsertErr error
}

func NewMemStore() *MemStore {
	return &MemStore{colls: make(map[string][]map[string]interface{})}
}

func (s *MemStore) Insert(_ context.Context, collection string, doc interface{}) (string, error) {
	if s.InsertErr != nil {
		return "", s.InsertErr
	}

	data, err := bson.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	var m map[string]interface{}
	if err := bson.Unmarshal(data, &m); err != nil {
		return "", fmt.Errorf("unmarshal document: %w", err)
	}

	id := primitive.NewObjectID()
	m["_id"] = id

	s.mu.Lock()
	defer s.mu.Unlock()
	s.colls[collection] = append(s.colls[collection], m)
	return id.Hex(), nil
}

func (s *MemStore) Find(_ context.Context, collection string, filter map[string]interface{}, limit int64) ([]map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var docs []map[string]interface{}
	for _, doc := range s.colls[collection] {
		if !matches(doc, filter) {
			continue
		}
		docs = append(docs, clone(doc))
		if limit > 0 && int64(len(docs)) >= limit {
			break
		}
	}
	return docs, nil
}

func (s *MemStore) FindOne(ctx context.Context, collection string, filter map[string]interface{}, out interface{}) error {
	docs, err := s.Find(ctx, collection, filter, 1)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return database.ErrNotFound
	}

	data, err := bson.Marshal(docs[0])
	if err != nil {
		return err
	}
	return bson.Unmarshal(data, out)
}

func (s *MemStore) Ping(context.Context) error { return nil }

func (s *MemStore) Collections(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.colls))
	for name := range s.colls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemStore) Name() string { return "calorie_vision_test" }

// Count returns the number of stored documents in a collection.
func (s *MemStore) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.colls[collection])
}

func matches(doc, filter map[string]interface{}) bool {
	for key, want := range filter {
		if !reflect.DeepEqual(doc[key], want) {
			return false
		}
	}
	return true
}

func clone(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
