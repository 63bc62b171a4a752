package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Neakz-star/La-Desesperanza/internal/dto"

	"github.com/redis/go-redis/v9"
)

// CarritoStore keeps the pre-checkout cart per session. The legacy server
// held a single process-wide cart array shared across every visitor; scoping
// the cart to the session id fixes that cross-user leak.
type CarritoStore interface {
	Listar(ctx context.Context, sid string) ([]dto.CarritoItem, error)
	Agregar(ctx context.Context, sid string, item dto.CarritoItem) ([]dto.CarritoItem, error)
	Eliminar(ctx context.Context, sid, productoID string) ([]dto.CarritoItem, error)
	Vaciar(ctx context.Context, sid string) error
}

type redisCarrito struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCarrito(rdb *redis.Client, ttl time.Duration) CarritoStore {
	return &redisCarrito{rdb: rdb, ttl: ttl}
}

func carritoKey(sid string) string { return "cart:" + sid }

func (s *redisCarrito) Listar(ctx context.Context, sid string) ([]dto.CarritoItem, error) {
	b, err := s.rdb.Get(ctx, carritoKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []dto.CarritoItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	var items []dto.CarritoItem
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *redisCarrito) save(ctx context.Context, sid string, items []dto.CarritoItem) error {
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, carritoKey(sid), b, s.ttl).Err()
}

// Agregar merges by product id: an existing line accumulates quantity.
func (s *redisCarrito) Agregar(ctx context.Context, sid string, item dto.CarritoItem) ([]dto.CarritoItem, error) {
	items, err := s.Listar(ctx, sid)
	if err != nil {
		return nil, err
	}
	merged := false
	for i := range items {
		if items[i].ID == item.ID {
			items[i].Cantidad += item.Cantidad
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}
	if err := s.save(ctx, sid, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *redisCarrito) Eliminar(ctx context.Context, sid, productoID string) ([]dto.CarritoItem, error) {
	items, err := s.Listar(ctx, sid)
	if err != nil {
		return nil, err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID != productoID {
			kept = append(kept, it)
		}
	}
	if err := s.save(ctx, sid, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

func (s *redisCarrito) Vaciar(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, carritoKey(sid)).Err()
}
