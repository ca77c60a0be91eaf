// Package elastic implements the command gateway on the Elasticsearch REST API.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/syntrixbase/docsync/internal/indexsync"
	"github.com/syntrixbase/docsync/pkg/model"
)

// Config holds the connection settings.
type Config struct {
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	// Refresh is passed as the refresh parameter of every write ("", "true", "false", "wait_for").
	Refresh string `yaml:"refresh"`
}

// DefaultConfig returns the default connection settings.
func DefaultConfig() Config {
	return Config{
		Addresses: []string{"http://localhost:9200"},
	}
}

// Client is an indexsync.CommandGateway.
type Client struct {
	es      *elasticsearch.Client
	refresh string
}

// NewClient creates a client from cfg.
func NewClient(cfg Config) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return NewFromES(es, cfg.Refresh), nil
}

// NewFromES wraps an existing client.
func NewFromES(es *elasticsearch.Client, refresh string) *Client {
	return &Client{es: es, refresh: refresh}
}

// Insert indexes doc under id, replacing any existing document.
func (c *Client) Insert(ctx context.Context, index, typ string, doc model.Document, id model.Identity) error {
	docID, err := model.FormatIdentity(id)
	if err != nil {
		return err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %v: %w", docID, err, model.ErrInvalidValue)
	}

	req := esapi.IndexRequest{
		Index:        index,
		DocumentType: typ,
		DocumentID:   docID,
		Body:         bytes.NewReader(body),
		Refresh:      c.refresh,
	}
	res, err := req.Do(ctx, c.es)
	if err != nil {
		return transportError("index", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError("index", res)
	}
	return nil
}

// Update applies doc as a partial update. A missing document reports found=false.
func (c *Client) Update(ctx context.Context, index, typ string, id model.Identity, doc model.Document) (bool, error) {
	docID, err := model.FormatIdentity(id)
	if err != nil {
		return false, err
	}
	body, err := json.Marshal(map[string]interface{}{"doc": doc})
	if err != nil {
		return false, fmt.Errorf("failed to encode document %s: %v: %w", docID, err, model.ErrInvalidValue)
	}

	req := esapi.UpdateRequest{
		Index:        index,
		DocumentType: typ,
		DocumentID:   docID,
		Body:         bytes.NewReader(body),
		Refresh:      c.refresh,
	}
	res, err := req.Do(ctx, c.es)
	if err != nil {
		return false, transportError("update", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, res.Body)
		return false, nil
	}
	if res.IsError() {
		return false, responseError("update", res)
	}
	return true, nil
}

// Delete removes the document. Deleting a missing document is not an error.
func (c *Client) Delete(ctx context.Context, index, typ string, id model.Identity) error {
	docID, err := model.FormatIdentity(id)
	if err != nil {
		return err
	}

	req := esapi.DeleteRequest{
		Index:        index,
		DocumentType: typ,
		DocumentID:   docID,
		Refresh:      c.refresh,
	}
	res, err := req.Do(ctx, c.es)
	if err != nil {
		return transportError("delete", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if res.IsError() {
		return responseError("delete", res)
	}
	return nil
}

type errorBody struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

func transportError(op string, err error) error {
	if model.IsCanceled(err) {
		return fmt.Errorf("elasticsearch %s: %w", op, model.ErrCanceled)
	}
	return fmt.Errorf("elasticsearch %s: %v: %w", op, err, model.ErrGateway)
}

func responseError(op string, res *esapi.Response) error {
	var e errorBody
	if err := json.NewDecoder(res.Body).Decode(&e); err != nil || e.Error.Type == "" {
		return fmt.Errorf("elasticsearch %s: status %d: %w", op, res.StatusCode, model.ErrGateway)
	}
	return fmt.Errorf("elasticsearch %s: status %d: %s: %s: %w", op, res.StatusCode, e.Error.Type, e.Error.Reason, model.ErrGateway)
}

var _ indexsync.CommandGateway = (*Client)(nil)
