package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 24 * time.Hour

// CachedProvider decorates an EmbeddingProvider with a redis cache keyed by
// the text's sha256. Embeddings are deterministic per model, so a hit is
// always valid. A dead redis degrades to a miss; it never blocks a turn.
type CachedProvider struct {
	inner EmbeddingProvider
	rdb   *redis.Client
}

func NewCachedProvider(inner EmbeddingProvider, rdb *redis.Client) *CachedProvider {
	return &CachedProvider{inner: inner, rdb: rdb}
}

func (p *CachedProvider) Generate(text string) ([]float32, error) {
	ctx := context.Background()
	key := fmt.Sprintf("embed_cache:%x", sha256.Sum256([]byte(text)))

	if p.rdb != nil {
		if raw, err := p.rdb.Get(ctx, key).Bytes(); err == nil {
			if vec := bytesToFloat32(raw); vec != nil {
				return vec, nil
			}
		}
	}

	vec, err := p.inner.Generate(text)
	if err != nil {
		return nil, err
	}

	if p.rdb != nil {
		p.rdb.Set(ctx, key, float32ToBytes(vec), cacheTTL)
	}
	return vec, nil
}

func float32ToBytes(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func bytesToFloat32(raw []byte) []float32 {
	if len(raw) == 0 || len(raw)%4 != 0 {
		return nil
	}
	vec := make([]float32, len(raw)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return vec
}
