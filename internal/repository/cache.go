package repository

import (
	"context"
	"encoding/json"
	"time"

	"straublot/internal/model"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DefaultCacheTTL = 30 * time.Second

// ── In-process cache ──────────────────────────────────────────────────────────

// planilhaComCache caches GetRows per table for a fixed TTL. Writes pass
// through and do not invalidate: readers may see rows up to ttl old.
type planilhaComCache struct {
	base  Planilha
	cache *cache.Cache
	ttl   time.Duration
}

// NewPlanilhaComCache wraps base with an in-process read cache.
func NewPlanilhaComCache(base Planilha, ttl time.Duration) Planilha {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &planilhaComCache{base: base, cache: cache.New(ttl, 2*ttl), ttl: ttl}
}

func (p *planilhaComCache) GetRows(ctx context.Context, tabela string) ([]model.Registro, error) {
	if cached, found := p.cache.Get(tabela); found {
		return copiarRegistros(cached.([]model.Registro)), nil
	}
	rows, err := p.base.GetRows(ctx, tabela)
	if err != nil {
		return nil, err
	}
	p.cache.Set(tabela, rows, p.ttl)
	return copiarRegistros(rows), nil
}

func (p *planilhaComCache) AppendRow(ctx context.Context, tabela string, registro model.Registro) error {
	return p.base.AppendRow(ctx, tabela, registro)
}

func (p *planilhaComCache) EnsureTable(ctx context.Context, tabela string, colunas []string) error {
	return p.base.EnsureTable(ctx, tabela, colunas)
}

// ── Redis cache ───────────────────────────────────────────────────────────────

// planilhaComCacheRedis shares the read cache between server instances.
// Redis errors degrade to a direct read.
type planilhaComCacheRedis struct {
	base   Planilha
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewPlanilhaComCacheRedis wraps base with a Redis-backed read cache.
func NewPlanilhaComCacheRedis(base Planilha, rdb *redis.Client, ttl time.Duration) Planilha {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &planilhaComCacheRedis{base: base, rdb: rdb, ttl: ttl, prefix: "planilha:"}
}

func (p *planilhaComCacheRedis) GetRows(ctx context.Context, tabela string) ([]model.Registro, error) {
	key := p.prefix + tabela
	if cached, err := p.rdb.Get(ctx, key).Bytes(); err == nil {
		var rows []model.Registro
		if jsonErr := json.Unmarshal(cached, &rows); jsonErr == nil {
			return rows, nil
		}
	} else if err != redis.Nil {
		log.Warn().Err(err).Str("tabela", tabela).Msg("redis cache read failed")
	}

	rows, err := p.base.GetRows(ctx, tabela)
	if err != nil {
		return nil, err
	}

	// Best effort
	if b, jsonErr := json.Marshal(rows); jsonErr == nil {
		_ = p.rdb.Set(context.WithoutCancel(ctx), key, b, p.ttl).Err()
	}
	return rows, nil
}

func (p *planilhaComCacheRedis) AppendRow(ctx context.Context, tabela string, registro model.Registro) error {
	return p.base.AppendRow(ctx, tabela, registro)
}

func (p *planilhaComCacheRedis) EnsureTable(ctx context.Context, tabela string, colunas []string) error {
	return p.base.EnsureTable(ctx, tabela, colunas)
}

func copiarRegistros(rows []model.Registro) []model.Registro {
	out := make([]model.Registro, len(rows))
	for i, r := range rows {
		c := make(model.Registro, len(r))
		for k, v := range r {
			c[k] = v
		}
		out[i] = c
	}
	return out
}
