package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"overcooked-catalog/catalog-svc/internal/domain"
	"overcooked-catalog/catalog-svc/internal/logging"
)

const keyPrefix = "catalog:"

var registryKeys = map[domain.Kind]string{
	domain.KindDish:       keyPrefix + "dishes",
	domain.KindCategory:   keyPrefix + "categories",
	domain.KindAllergen:   keyPrefix + "allergens",
	domain.KindMenu:       keyPrefix + "menus",
	domain.KindRestaurant: keyPrefix + "restaurants",
}

// RedisProjection keeps a read model of the catalog in Redis for other
// services: one set of names per registry, one set of dish names per category
// and allergen, and one list per menu holding its dish order.
type RedisProjection struct {
	Client  *redis.Client
	Timeout time.Duration
	logger  *logging.Logger
}

func NewRedisProjection(client *redis.Client, logger *logging.Logger) *RedisProjection {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &RedisProjection{Client: client, Timeout: 5 * time.Second, logger: logger}
}

func RegistryKey(kind domain.Kind) string {
	return registryKeys[kind]
}

// LinkKey is the key holding the dishes linked to a category or allergen, or
// the ordered dishes of a menu.
func LinkKey(kind domain.Kind, name string) string {
	return keyPrefix + string(kind) + ":" + name + ":dishes"
}

func (p *RedisProjection) Apply(ctx context.Context, event domain.Event) error {
	switch event.Action {
	case domain.ActionAdded:
		return p.Client.SAdd(ctx, RegistryKey(event.Kind), event.Name).Err()
	case domain.ActionRemoved:
		_, err := p.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SRem(ctx, RegistryKey(event.Kind), event.Name)
			if event.Kind != domain.KindDish && event.Kind != domain.KindRestaurant {
				pipe.Del(ctx, LinkKey(event.Kind, event.Name))
			}
			return nil
		})
		return err
	case domain.ActionAssigned, domain.ActionDeassigned, domain.ActionReordered:
		if event.Kind == domain.KindMenu {
			return p.replaceMenu(ctx, event)
		}
		key := LinkKey(event.Kind, event.Name)
		if event.Action == domain.ActionAssigned {
			return p.Client.SAdd(ctx, key, event.Target).Err()
		}
		return p.Client.SRem(ctx, key, event.Target).Err()
	case domain.ActionCleared:
		return p.clear(ctx)
	}
	return nil
}

// Reset drops every catalog key so the projection can be rebuilt from an
// empty catalog.
func (p *RedisProjection) Reset(ctx context.Context) error {
	return p.clear(ctx)
}

func (p *RedisProjection) replaceMenu(ctx context.Context, event domain.Event) error {
	key := LinkKey(domain.KindMenu, event.Name)
	_, err := p.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(event.Order) > 0 {
			values := make([]interface{}, len(event.Order))
			for i, name := range event.Order {
				values[i] = name
			}
			pipe.RPush(ctx, key, values...)
		}
		return nil
	})
	return err
}

func (p *RedisProjection) clear(ctx context.Context) error {
	iter := p.Client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return p.Client.Del(ctx, keys...).Err()
}

// Notify applies event, logging instead of failing the catalog operation.
func (p *RedisProjection) Notify(event domain.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	defer cancel()

	if err := p.Apply(ctx, event); err != nil {
		p.logger.Warn("failed to project catalog event",
			zap.String("type", event.Type()),
			zap.String("name", event.Name),
			zap.Error(err),
		)
	}
}
