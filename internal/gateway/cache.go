package gateway

import (
	"context"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/repo-lens/internal/domain"
)

// CachingFetcher wraps a Fetcher and remembers successful repository
// listings for a while, so repeated menu actions on the same user do not
// spend API quota. Errors are never cached.
type CachingFetcher struct {
	next     Fetcher
	repos    *lru.LRU[string, []domain.Repository]
	profiles *lru.LRU[string, *domain.Profile]
	logger   *logrus.Logger
}

// NewCachingFetcher creates a cache of at most size users whose entries expire after ttl.
// A zero ttl keeps entries until they are evicted by size.
func NewCachingFetcher(next Fetcher, size int, ttl time.Duration, logger *logrus.Logger) *CachingFetcher {
	return &CachingFetcher{
		next:     next,
		repos:    lru.NewLRU[string, []domain.Repository](size, nil, ttl),
		profiles: lru.NewLRU[string, *domain.Profile](size, nil, ttl),
		logger:   logger,
	}
}

func cacheKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// FetchRepos returns the cached listing for username or fetches it.
func (c *CachingFetcher) FetchRepos(ctx context.Context, username string) ([]domain.Repository, error) {
	key := cacheKey(username)
	if repos, ok := c.repos.Get(key); ok {
		c.logger.Debugf("Cache hit for %s (%d repositories)", key, len(repos))
		return repos, nil
	}
	repos, err := c.next.FetchRepos(ctx, username)
	if err != nil {
		return nil, err
	}
	c.repos.Add(key, repos)
	return repos, nil
}

// FetchProfile returns the cached profile for username or fetches it.
func (c *CachingFetcher) FetchProfile(ctx context.Context, username string) (*domain.Profile, error) {
	key := cacheKey(username)
	if p, ok := c.profiles.Get(key); ok {
		return p, nil
	}
	p, err := c.next.FetchProfile(ctx, username)
	if err != nil {
		return nil, err
	}
	c.profiles.Add(key, p)
	return p, nil
}

// Purge drops every cached entry.
func (c *CachingFetcher) Purge() {
	c.repos.Purge()
	c.profiles.Purge()
}
