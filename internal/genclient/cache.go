package genclient

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached wraps a client with an LRU response cache. Keys combine the
// capability, the prompt, and the marshalled input, so identical requests for
// the same turn snapshot are served without a second remote call.
type Cached struct {
	next  Client
	cache *lru.Cache[string, json.RawMessage]
}

func NewCached(next Client, size int) (*Cached, error) {
	if size <= 0 {
		size = 256
	}
	cache, err := lru.New[string, json.RawMessage](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Name() string { return c.next.Name() }
func (c *Cached) Close() error { return c.next.Close() }

func (c *Cached) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	key := cacheKey(CapabilityFrom(ctx), prompt, input)
	if raw, ok := c.cache.Get(key); ok {
		return raw, nil
	}
	raw, err := c.next.GenerateJSON(ctx, prompt, input)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, raw)
	return raw, nil
}

func cacheKey(capability, prompt string, input any) string {
	in, _ := json.Marshal(input)
	sum := sha1.Sum(append([]byte(capability+"|"+prompt+"|"), in...))
	return fmt.Sprintf("%x", sum)
}
