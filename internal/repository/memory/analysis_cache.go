package memory

import (
	"time"

	"legal-insight-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

const latestAllKey = "latest:*"

// AnalysisCache keeps the latest analysis results in process so dashboard reads skip the database.
// A finished run flushes it.
type AnalysisCache struct {
	cache *cache.Cache
}

func NewAnalysisCache(ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *AnalysisCache) GetLatest() ([]*entity.AnalysisResult, bool) {
	if x, found := c.cache.Get(latestAllKey); found {
		return x.([]*entity.AnalysisResult), true
	}
	return nil, false
}

func (c *AnalysisCache) SetLatest(results []*entity.AnalysisResult) {
	c.cache.Set(latestAllKey, results, cache.DefaultExpiration)
}

func (c *AnalysisCache) GetLatestByType(analysisType string) (*entity.AnalysisResult, bool) {
	if x, found := c.cache.Get("latest:" + analysisType); found {
		return x.(*entity.AnalysisResult), true
	}
	return nil, false
}

func (c *AnalysisCache) SetLatestByType(result *entity.AnalysisResult) {
	c.cache.Set("latest:"+result.AnalysisType, result, cache.DefaultExpiration)
}

func (c *AnalysisCache) Flush() {
	c.cache.Flush()
}
