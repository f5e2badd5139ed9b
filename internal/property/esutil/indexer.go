// File: internal/property/esutil/indexer.go
package esutil

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"go.uber.org/zap"

	platformes "estatehub_backend/internal/platform/elasticsearch"
	"estatehub_backend/internal/property"
)

// Indexer mirrors public properties into the Elasticsearch properties
// index. It satisfies property.SearchIndexer.
type Indexer struct {
	client *platformes.ESClientWrapper
	logger *zap.Logger
}

var _ property.SearchIndexer = (*Indexer)(nil)

// NewIndexer creates a new Elasticsearch-backed property indexer.
func NewIndexer(client *platformes.ESClientWrapper, logger *zap.Logger) *Indexer {
	return &Indexer{client: client, logger: logger.Named("property_indexer")}
}

// Enabled reports whether an Elasticsearch backend is configured.
func (i *Indexer) Enabled() bool {
	return i.client.Enabled()
}

// Index upserts the property document.
func (i *Indexer) Index(ctx context.Context, p *property.Property) error {
	doc, err := PropertyToElasticsearchDoc(p)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      platformes.PropertiesIndexName,
		DocumentID: p.ID.String(),
		Body:       strings.NewReader(doc),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, i.client.Client)
	if err != nil {
		return fmt.Errorf("indexing property %s: %w", p.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing property %s: status %s", p.ID, res.Status())
	}
	return nil
}

// Delete removes the property document. A missing document is not an
// error; pending properties are routinely absent from the index.
func (i *Indexer) Delete(ctx context.Context, id uuid.UUID) error {
	req := esapi.DeleteRequest{
		Index:      platformes.PropertiesIndexName,
		DocumentID: id.String(),
	}
	res, err := req.Do(ctx, i.client.Client)
	if err != nil {
		return fmt.Errorf("deleting property %s from index: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("deleting property %s from index: status %s", id, res.Status())
	}
	return nil
}

// SearchIDs runs a free-text query over title, description and location
// and returns matching property IDs in relevance order.
func (i *Indexer) SearchIDs(ctx context.Context, term string, limit int) ([]uuid.UUID, error) {
	query := map[string]interface{}{
		"size":    limit,
		"_source": false,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  term,
				"fields": []string{"title^2", "location", "description"},
			},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("marshalling search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{platformes.PropertiesIndexName},
		Body:  strings.NewReader(string(body)),
	}
	res, err := req.Do(ctx, i.client.Client)
	if err != nil {
		return nil, fmt.Errorf("searching properties: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("searching properties: status %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			i.logger.Warn("Skipping search hit with non-UUID ID", zap.String("id", hit.ID))
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
