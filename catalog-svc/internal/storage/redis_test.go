package storage_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overcooked-catalog/catalog-svc/internal/domain"
	"overcooked-catalog/catalog-svc/internal/service"
	"overcooked-catalog/catalog-svc/internal/storage"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisProjection_Keys(t *testing.T) {
	assert.Equal(t, "catalog:dishes", storage.RegistryKey(domain.KindDish))
	assert.Equal(t, "catalog:restaurants", storage.RegistryKey(domain.KindRestaurant))
	assert.Equal(t, "catalog:category:Rice:dishes", storage.LinkKey(domain.KindCategory, "Rice"))
}

func TestRedisProjection_FollowsManager(t *testing.T) {
	mr, client := setupTestRedis(t)
	projection := storage.NewRedisProjection(client, nil)

	m := service.NewManager(service.WithObserver(projection))
	rice, _ := domain.NewCategory("Rice")
	paella, _ := domain.NewDish("Paella")
	flan, _ := domain.NewDish("Flan")
	lunch, _ := domain.NewMenu("Lunch")

	require.NoError(t, m.AssignCategoryToDish(rice, paella))
	require.NoError(t, m.AssignDishToMenu(lunch, paella))
	require.NoError(t, m.AssignDishToMenu(lunch, flan))
	require.NoError(t, m.ChangeDishesPositionsInMenu(lunch, paella, flan))

	dishes, err := mr.Members(storage.RegistryKey(domain.KindDish))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Paella", "Flan"}, dishes)

	linked, err := mr.Members(storage.LinkKey(domain.KindCategory, "Rice"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Paella"}, linked)

	order, err := mr.List(storage.LinkKey(domain.KindMenu, "Lunch"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Flan", "Paella"}, order)

	require.NoError(t, m.RemoveCategory(rice))
	assert.False(t, mr.Exists(storage.LinkKey(domain.KindCategory, "Rice")))
	categories, _ := mr.Members(storage.RegistryKey(domain.KindCategory))
	assert.Empty(t, categories)

	require.NoError(t, m.RemoveDish(paella))
	order, err = mr.List(storage.LinkKey(domain.KindMenu, "Lunch"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Flan"}, order)

	m.Clear()
	assert.Empty(t, mr.Keys())
}

func TestRedisProjection_ApplyError(t *testing.T) {
	mr, client := setupTestRedis(t)
	projection := storage.NewRedisProjection(client, nil)
	mr.SetError("READONLY")

	err := projection.Apply(context.Background(), domain.NewEvent(domain.ActionAdded, domain.KindAllergen, "Fish"))
	assert.Error(t, err)

	assert.NotPanics(t, func() {
		projection.Notify(domain.NewEvent(domain.ActionRemoved, domain.KindAllergen, "Fish"))
	})
}

func TestRedisProjection_Reset(t *testing.T) {
	mr, client := setupTestRedis(t)
	projection := storage.NewRedisProjection(client, nil)

	_, err := mr.SAdd(storage.RegistryKey(domain.KindCategory), "Rice")
	require.NoError(t, err)
	_, err = mr.SAdd(storage.LinkKey(domain.KindCategory, "Rice"), "Paella")
	require.NoError(t, err)
	require.NoError(t, mr.Set("session:42", "kept"))

	require.NoError(t, projection.Reset(context.Background()))

	assert.False(t, mr.Exists(storage.RegistryKey(domain.KindCategory)))
	assert.False(t, mr.Exists(storage.LinkKey(domain.KindCategory, "Rice")))
	assert.True(t, mr.Exists("session:42"))
}
