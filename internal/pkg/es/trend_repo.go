package es

import (
	"context"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/goccy/go-json"
)

// EntityES 索引文档：一条被追踪实体的检索视图
type EntityES struct {
	EntityType  string    `json:"entity_type"`
	EntityID    uint64    `json:"entity_id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	TrendScore  int       `json:"trend_score"`
	VolumeCount int64     `json:"volume_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TrendRepo interface {
	IndexEntity(ctx context.Context, doc *EntityES) error
	SearchEntities(ctx context.Context, keyword string, entityType string, size int) ([]*EntityES, error)
}

type trendRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewTrendRepo(client *elasticsearch.TypedClient) TrendRepo {
	return &trendRepoImpl{client: client}
}

func docID(entityType string, entityID uint64) string {
	return fmt.Sprintf("%s:%d", entityType, entityID)
}

// IndexEntity 写入或覆盖实体文档，文档 ID 由类型和主键拼接保证幂等
func (s *trendRepoImpl) IndexEntity(ctx context.Context, doc *EntityES) error {
	_, err := s.client.Index(TrendIndex).
		Id(docID(doc.EntityType, doc.EntityID)).
		Document(doc).
		Do(ctx)
	return err
}

// SearchEntities 按名称检索实体，结果按当前热度分排序
func (s *trendRepoImpl) SearchEntities(ctx context.Context, keyword string, entityType string, size int) ([]*EntityES, error) {
	boolQuery := &types.BoolQuery{
		Must: []types.Query{{
			MultiMatch: &types.MultiMatchQuery{
				Query:  keyword,
				Fields: []string{"display_name^2", "name"},
			},
		}},
	}

	if entityType != "" {
		boolQuery.Filter = []types.Query{{
			Term: map[string]types.TermQuery{
				"entity_type": {Value: entityType},
			},
		}}
	}

	res, err := s.client.Search().
		Index(TrendIndex).
		Query(&types.Query{Bool: boolQuery}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"trend_score": {Order: &sortorder.Desc},
		}}).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]*EntityES, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc EntityES
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			continue
		}
		docs = append(docs, &doc)
	}
	return docs, nil
}
