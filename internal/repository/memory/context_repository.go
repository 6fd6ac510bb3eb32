package memory

import (
	"time"

	"legal-copilot-be/pkg/prompt"

	"github.com/patrickmn/go-cache"
)

// ContextRepository caches the composed prompt context (jurisdiction,
// department, role) per chat session so repeat messages skip the
// user/department lookups.
type ContextRepository struct {
	cache *cache.Cache
}

func NewContextRepository() *ContextRepository {
	// Default expiration of 30 minutes, purge every 10 minutes.
	c := cache.New(30*time.Minute, 10*time.Minute)
	return &ContextRepository{
		cache: c,
	}
}

func (r *ContextRepository) Save(sessionID string, promptCtx *prompt.Context) {
	r.cache.Set(sessionID, promptCtx, cache.DefaultExpiration)
}

func (r *ContextRepository) Get(sessionID string) (*prompt.Context, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*prompt.Context), true
	}
	return nil, false
}

func (r *ContextRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
