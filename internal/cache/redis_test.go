package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aurelle/marketing-backend/internal/logger"
)

// Requires a reachable Redis via REDIS_ADDR; skipped otherwise.
func newLiveCache(t *testing.T) Cache {
	t.Helper()
	if os.Getenv("REDIS_ADDR") == "" {
		t.Skip("REDIS_ADDR not set")
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	c, err := NewRedisCache(log)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	return c
}

func TestRedisRoundTrip(t *testing.T) {
	c := newLiveCache(t)
	ctx := context.Background()

	type payload struct {
		Name  string   `json:"name"`
		Score float64  `json:"score"`
		Tags  []string `json:"tags"`
	}

	key := Key("roundtrip", "structured", nil)
	in := payload{Name: "widget", Score: 0.75, Tags: []string{"a", "b"}}
	if !c.Set(ctx, key, in, time.Minute) {
		t.Fatalf("set failed")
	}
	var out payload
	if !c.Get(ctx, key, &out) {
		t.Fatalf("get missed after set")
	}
	if out.Name != in.Name || out.Score != in.Score || len(out.Tags) != 2 {
		t.Fatalf("round trip: want=%+v got=%+v", in, out)
	}

	scalarKey := Key("roundtrip", "scalar", nil)
	if !c.Set(ctx, scalarKey, 42, time.Minute) {
		t.Fatalf("set scalar failed")
	}
	var n int
	if !c.Get(ctx, scalarKey, &n) {
		t.Fatalf("get scalar missed")
	}
	if n != 42 {
		t.Fatalf("scalar: want=42 got=%d", n)
	}

	c.Delete(ctx, key)
	c.Delete(ctx, scalarKey)
}

func TestRedisDeletePattern(t *testing.T) {
	c := newLiveCache(t)
	ctx := context.Background()

	a := Key("pattern_test", "a", nil)
	b := Key("pattern_test", "b", nil)
	c.Set(ctx, a, "one", time.Minute)
	c.Set(ctx, b, "two", time.Minute)

	if n := c.DeletePattern(ctx, Namespace+":pattern_test:*"); n != 2 {
		t.Fatalf("deleted: want=2 got=%d", n)
	}
	var dest string
	if c.Get(ctx, a, &dest) || c.Get(ctx, b, &dest) {
		t.Fatalf("keys survived pattern delete")
	}
}
