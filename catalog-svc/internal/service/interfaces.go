package service

import (
	"context"
	"iter"

	"overcooked-catalog/catalog-svc/internal/domain"
)

// Observer receives catalog change events after the change has been applied
// and the catalog lock released. Implementations may read from the manager
// but must not mutate it.
type Observer interface {
	Notify(event domain.Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(event domain.Event)

func (f ObserverFunc) Notify(event domain.Event) {
	f(event)
}

// FixtureSource loads a catalog description to seed the manager with.
type FixtureSource interface {
	Load(ctx context.Context) (*domain.Fixture, error)
}

// CatalogReader is the read side of the catalog used by presentation code.
type CatalogReader interface {
	DishesInCategory(category *domain.Category, cmp DishComparator) (iter.Seq[*domain.Dish], error)
	DishesWithAllergen(allergen *domain.Allergen, cmp DishComparator) (iter.Seq[*domain.Dish], error)
	FindDishes(pred DishPredicate, cmp DishComparator) iter.Seq[*domain.Dish]
	Dishes() iter.Seq2[string, *DishEntry]
	Categories() iter.Seq2[string, *domain.Category]
	Allergens() iter.Seq2[string, *domain.Allergen]
	Menus() iter.Seq2[string, *MenuEntry]
	Restaurants() iter.Seq2[string, *domain.Restaurant]
	Stats() Stats
}

var (
	_ Observer      = ObserverFunc(nil)
	_ CatalogReader = (*Manager)(nil)
	_ QRGenerator   = DefaultQRGenerator{}
)
