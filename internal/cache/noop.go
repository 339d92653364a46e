package cache

import (
	"context"
	"time"
)

// noopCache stands in when no Redis instance is configured. Every read is a
// miss and every write is dropped, so callers always hit the source stores.
type noopCache struct{}

func NewNoop() Cache { return noopCache{} }

func (noopCache) Set(context.Context, string, any, time.Duration) bool { return false }
func (noopCache) Get(context.Context, string, any) bool                { return false }
func (noopCache) Delete(context.Context, string) bool                  { return false }
func (noopCache) DeletePattern(context.Context, string) int            { return 0 }
func (noopCache) Available() bool                                      { return false }
func (noopCache) Stats(context.Context) map[string]any {
	return map[string]any{"status": "disabled"}
}
