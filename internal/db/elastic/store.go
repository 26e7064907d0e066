package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/kailas-cloud/phonedex/internal/db"
)

// Compile-time check: Store serves faceted search.
var _ db.FacetSearcher = (*Store)(nil)

// Config holds connection parameters for an Elasticsearch cluster.
type Config struct {
	Addresses []string
	Username  string
	Password  string
}

// Store mirrors catalogue documents into Elasticsearch and searches them.
type Store struct {
	client *elasticsearch.Client
}

// NewStore creates an Elasticsearch store.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("addresses is required")
	}

	esCfg := elasticsearch.Config{Addresses: cfg.Addresses}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &Store{client: client}, nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(c *elasticsearch.Client) *Store {
	return &Store{client: c}
}

// Ping checks cluster connectivity.
func (s *Store) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return &db.Error{Op: db.OpESPing, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return &db.Error{Op: db.OpESPing, Err: fmt.Errorf("status %s", res.Status())}
	}
	return nil
}

// EnsureIndex creates the index with the given mapping unless it already exists.
func (s *Store) EnsureIndex(ctx context.Context, name string, mapping []byte) error {
	res, err := s.client.Indices.Create(
		name,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(bytes.NewReader(mapping)),
	)
	if err != nil {
		return &db.Error{Op: db.OpESCreate, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		if strings.Contains(string(body), "resource_already_exists_exception") {
			return nil
		}
		return &db.Error{Op: db.OpESCreate, Err: fmt.Errorf("status %s: %s", res.Status(), body)}
	}
	return nil
}

// IndexDocument stores a JSON document under id. A top-level "_id" field is moved
// into the document metadata.
func (s *Store) IndexDocument(ctx context.Context, index, id string, doc []byte) error {
	source, err := stripID(doc)
	if err != nil {
		return err
	}

	res, err := s.client.Index(
		index,
		bytes.NewReader(source),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(id),
	)
	if err != nil {
		return &db.Error{Op: db.OpESIndex, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return &db.Error{Op: db.OpESIndex, Err: fmt.Errorf("status %s", res.Status())}
	}
	return nil
}

// DeleteDocument removes a document. Missing documents are not an error.
func (s *Store) DeleteDocument(ctx context.Context, index, id string) error {
	res, err := s.client.Delete(index, id, s.client.Delete.WithContext(ctx))
	if err != nil {
		return &db.Error{Op: db.OpESDelete, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return &db.Error{Op: db.OpESDelete, Err: fmt.Errorf("status %s", res.Status())}
	}
	return nil
}

// FacetSearch runs the page query and all facet aggregations in one _search call.
func (s *Store) FacetSearch(ctx context.Context, q *db.FacetQuery) (*db.FacetResult, error) {
	if q.Index == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	body, err := json.Marshal(BuildSearchBody(q))
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(q.Index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpESSearch, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, &db.Error{Op: db.OpESSearch, Err: fmt.Errorf("status %s", res.Status())}
	}

	var resp searchResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, &db.Error{Op: db.OpESSearch, Err: fmt.Errorf("decode response: %w", err)}
	}

	return toFacetResult(q, &resp)
}

// stripID removes the top-level "_id" key, which Elasticsearch reserves for metadata.
func stripID(doc []byte) ([]byte, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if _, ok := m["_id"]; !ok {
		return doc, nil
	}
	delete(m, "_id")
	return json.Marshal(m)
}

// withID puts the hit id back into its source document.
func withID(source json.RawMessage, id string) (string, error) {
	m := map[string]json.RawMessage{}
	if len(source) > 0 {
		if err := json.Unmarshal(source, &m); err != nil {
			return "", fmt.Errorf("decode source: %w", err)
		}
	}
	rawID, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	m["_id"] = rawID
	out, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
