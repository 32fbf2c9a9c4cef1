// Package search maintains the Elasticsearch index behind the full-text
// catalog search. Indexing is best effort: a write to the catalog never fails
// because the index was unreachable.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/beatworks/beatotheque/internal/config"
	"github.com/beatworks/beatotheque/internal/models"
)

func NewClient(cfg *config.Config) (*elasticsearch.Client, error) {
	log.Printf("Connecting to Elasticsearch at: %s", cfg.ES_URL)

	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.ES_URL},
		Username:  cfg.ES_USER,
		Password:  cfg.ES_PASSWORD,
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}

	return client, nil
}

type Index struct {
	ES   *elasticsearch.Client
	Name string
}

func NewIndex(es *elasticsearch.Client, name string) *Index {
	return &Index{ES: es, Name: name}
}

type BeatDoc struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Style string    `json:"style"`
	Key   string    `json:"key"`
	BPM   int       `json:"bpm"`
	Price float64   `json:"price"`
}

func (i *Index) IndexBeat(ctx context.Context, beat *models.Beat) error {
	doc := BeatDoc{
		ID:    beat.ID,
		Title: beat.Title,
		Style: beat.Style,
		Key:   beat.Key,
		BPM:   beat.BPM,
		Price: beat.Price,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := i.ES.Index(
		i.Name,
		bytes.NewReader(data),
		i.ES.Index.WithDocumentID(beat.ID.String()),
		i.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index beat: %s", res.Status())
	}
	return nil
}

func (i *Index) DeleteBeat(ctx context.Context, id uuid.UUID) error {
	res, err := i.ES.Delete(i.Name, id.String(), i.ES.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete beat from index: %s", res.Status())
	}
	return nil
}

func (i *Index) Search(ctx context.Context, query string, from, size int) (int64, []BeatDoc, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^2", "style", "key"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := i.ES.Search(
		i.ES.Search.WithContext(ctx),
		i.ES.Search.WithIndex(i.Name),
		i.ES.Search.WithBody(&buf),
		i.ES.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source BeatDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	docs := make([]BeatDoc, len(r.Hits.Hits))
	for idx, hit := range r.Hits.Hits {
		docs[idx] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
