package service

import (
	"iter"
	"slices"
	"strings"
	"sync"

	"overcooked-catalog/catalog-svc/internal/domain"
)

// DishComparator orders dishes the way slices.SortFunc expects.
type DishComparator func(a, b *domain.Dish) int

type DishPredicate func(dish *domain.Dish) bool

// ByName orders dishes alphabetically by name.
func ByName(a, b *domain.Dish) int {
	return strings.Compare(a.Name(), b.Name())
}

// sortedDishes sorts the collected dishes when cmp is set and exposes them as a
// forward sequence. The whole result is built before the first value is yielded.
func sortedDishes(dishes []*domain.Dish, cmp DishComparator) iter.Seq[*domain.Dish] {
	if cmp != nil {
		slices.SortStableFunc(dishes, cmp)
	}
	return slices.Values(dishes)
}

// DishesInCategory yields the dishes linked to category, sorted by cmp when
// it is not nil and in registration order otherwise.
func (m *Manager) DishesInCategory(category *domain.Category, cmp DishComparator) (iter.Seq[*domain.Dish], error) {
	if err := checkEntity("category", "Category", category); err != nil {
		return nil, err
	}

	m.mu.RLock()
	if !m.categories.has(category.Name()) {
		m.mu.RUnlock()
		return nil, domain.NotExist(domain.KindCategory, category.Name())
	}
	var dishes []*domain.Dish
	for _, entry := range m.dishes.values() {
		if entry.categories.has(category.Name()) {
			dishes = append(dishes, entry.dish)
		}
	}
	m.mu.RUnlock()

	return sortedDishes(dishes, cmp), nil
}

// DishesWithAllergen yields the dishes linked to allergen, sorted by cmp when
// it is not nil.
func (m *Manager) DishesWithAllergen(allergen *domain.Allergen, cmp DishComparator) (iter.Seq[*domain.Dish], error) {
	if err := checkEntity("allergen", "Allergen", allergen); err != nil {
		return nil, err
	}

	m.mu.RLock()
	if !m.allergens.has(allergen.Name()) {
		m.mu.RUnlock()
		return nil, domain.NotExist(domain.KindAllergen, allergen.Name())
	}
	var dishes []*domain.Dish
	for _, entry := range m.dishes.values() {
		if entry.allergens.has(allergen.Name()) {
			dishes = append(dishes, entry.dish)
		}
	}
	m.mu.RUnlock()

	return sortedDishes(dishes, cmp), nil
}

// FindDishes yields every registered dish accepted by pred. A nil pred accepts
// all dishes. The predicate and comparator run without holding the catalog lock.
func (m *Manager) FindDishes(pred DishPredicate, cmp DishComparator) iter.Seq[*domain.Dish] {
	m.mu.RLock()
	entries := m.dishes.values()
	m.mu.RUnlock()

	var dishes []*domain.Dish
	for _, entry := range entries {
		if pred == nil || pred(entry.dish) {
			dishes = append(dishes, entry.dish)
		}
	}
	return sortedDishes(dishes, cmp)
}

func snapshot[V any](mu *sync.RWMutex, r *registry[V]) iter.Seq2[string, V] {
	mu.RLock()
	names := r.names()
	values := r.values()
	mu.RUnlock()

	return func(yield func(string, V) bool) {
		for i, name := range names {
			if !yield(name, values[i]) {
				return
			}
		}
	}
}

// Dishes yields every registered dish entry in insertion order.
func (m *Manager) Dishes() iter.Seq2[string, *DishEntry] {
	return snapshot(&m.mu, m.dishes)
}

func (m *Manager) Categories() iter.Seq2[string, *domain.Category] {
	return snapshot(&m.mu, m.categories)
}

func (m *Manager) Allergens() iter.Seq2[string, *domain.Allergen] {
	return snapshot(&m.mu, m.allergens)
}

func (m *Manager) Menus() iter.Seq2[string, *MenuEntry] {
	return snapshot(&m.mu, m.menus)
}

func (m *Manager) Restaurants() iter.Seq2[string, *domain.Restaurant] {
	return snapshot(&m.mu, m.restaurants)
}
