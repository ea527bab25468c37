package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"SimpleMOOC/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
)

const DefaultCourseIndex = "courses"

type CourseSearchRepo struct {
	client *elasticsearch.Client
	index  string
}

func NewCourseSearchRepository(client *elasticsearch.Client, index string) *CourseSearchRepo {
	if index == "" {
		index = DefaultCourseIndex
	}
	return &CourseSearchRepo{client: client, index: index}
}

var courseMapping = map[string]interface{}{
	"settings": map[string]interface{}{
		"analysis": map[string]interface{}{
			"analyzer": map[string]interface{}{
				"edge_ngram_analyzer": map[string]interface{}{
					"tokenizer": "edge_ngram_tokenizer",
					"filter":    []string{"lowercase", "asciifolding"},
				},
			},
			"tokenizer": map[string]interface{}{
				"edge_ngram_tokenizer": map[string]interface{}{
					"type":        "edge_ngram",
					"min_gram":    2,
					"max_gram":    20,
					"token_chars": []string{"letter", "digit"},
				},
			},
		},
	},
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":            "text",
				"analyzer":        "edge_ngram_analyzer",
				"search_analyzer": "standard",
			},
			"description": map[string]interface{}{
				"type":            "text",
				"analyzer":        "edge_ngram_analyzer",
				"search_analyzer": "standard",
			},
			"slug": map[string]interface{}{"type": "keyword"},
		},
	},
}

func (r *CourseSearchRepo) CreateIndexIfNotExist(ctx context.Context) error {
	existsReq := esapi.IndicesExistsRequest{Index: []string{r.index}}
	existsRes, err := existsReq.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error checking index existence: %w", err)
	}
	defer existsRes.Body.Close()

	switch {
	case existsRes.StatusCode == http.StatusNotFound:
		body, err := json.Marshal(courseMapping)
		if err != nil {
			return fmt.Errorf("marshal mapping: %w", err)
		}
		req := esapi.IndicesCreateRequest{Index: r.index, Body: bytes.NewReader(body)}
		res, err := req.Do(ctx, r.client)
		if err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("mapping creation failed: %s", res.String())
		}
	case existsRes.StatusCode >= http.StatusMultipleChoices:
		return fmt.Errorf("index existence check failed with status code %d", existsRes.StatusCode)
	}
	return nil
}

// Index creates or replaces the course document.
func (r *CourseSearchRepo) Index(ctx context.Context, course models.Course) error {
	data, err := json.Marshal(map[string]interface{}{
		"name":        course.Name,
		"description": course.Description,
		"slug":        course.Slug,
	})
	if err != nil {
		return fmt.Errorf("marshal doc: %w", err)
	}
	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: course.ID.String(),
		Refresh:    "true",
		Body:       bytes.NewReader(data),
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("index request: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index error: %s", res.String())
	}
	return nil
}

func searchBody(query string, size int) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^3", "description"},
				"type":      "best_fields",
				"fuzziness": "AUTO",
				"operator":  "or",
			},
		},
		"size": size,
	}
}

func (r *CourseSearchRepo) Search(ctx context.Context, query string, size int) ([]uuid.UUID, error) {
	if size <= 0 {
		size = 10
	}
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(searchBody(query, size)); err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}
	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		bodyBytes, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search error: %s", string(bodyBytes))
	}
	return decodeHits(res.Body)
}

func decodeHits(body io.Reader) ([]uuid.UUID, error) {
	var esRes struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(body).Decode(&esRes); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(esRes.Hits.Hits))
	for _, h := range esRes.Hits.Hits {
		if id, err := uuid.Parse(h.ID); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
