package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"overcooked-catalog/catalog-svc/internal/domain"
	"overcooked-catalog/catalog-svc/internal/logging"
)

// Seeder replays a fixture into a manager through its public operations.
type Seeder struct {
	manager  *Manager
	validate *validator.Validate
	logger   *logging.Logger
}

func NewSeeder(manager *Manager, logger *logging.Logger) *Seeder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Seeder{
		manager:  manager,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Seed loads a fixture from src and applies it.
func (s *Seeder) Seed(ctx context.Context, src FixtureSource) error {
	fixture, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load fixture: %w", err)
	}
	return s.Apply(fixture)
}

// Apply validates f and registers its content. It stops at the first failure;
// whatever was registered before it stays in the catalog.
func (s *Seeder) Apply(f *domain.Fixture) error {
	if f == nil {
		return &domain.TypeError{Param: "fixture", Expected: "Fixture"}
	}
	if err := s.validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidValue, err)
	}

	for _, rec := range f.Categories {
		if err := s.addCategory(rec); err != nil {
			return err
		}
	}
	for _, rec := range f.Allergens {
		if err := s.addAllergen(rec); err != nil {
			return err
		}
	}
	for _, rec := range f.Restaurants {
		if err := s.addRestaurant(rec); err != nil {
			return err
		}
	}
	for _, rec := range f.Dishes {
		if err := s.addDish(rec); err != nil {
			return err
		}
	}
	for _, rec := range f.Menus {
		if err := s.addMenu(rec); err != nil {
			return err
		}
	}

	stats := s.manager.Stats()
	s.logger.Info("catalog seeded",
		zap.Int("dishes", stats.Dishes),
		zap.Int("categories", stats.Categories),
		zap.Int("allergens", stats.Allergens),
		zap.Int("menus", stats.Menus),
		zap.Int("restaurants", stats.Restaurants),
	)
	return nil
}

func (s *Seeder) addCategory(rec domain.NamedRecord) error {
	category, err := domain.NewCategory(rec.Name)
	if err != nil {
		return err
	}
	if err := setIfPresent(category.SetDescription, rec.Description); err != nil {
		return err
	}
	return s.manager.AddCategory(category)
}

func (s *Seeder) addAllergen(rec domain.NamedRecord) error {
	allergen, err := domain.NewAllergen(rec.Name)
	if err != nil {
		return err
	}
	if err := setIfPresent(allergen.SetDescription, rec.Description); err != nil {
		return err
	}
	return s.manager.AddAllergen(allergen)
}

func (s *Seeder) addRestaurant(rec domain.RestaurantRecord) error {
	restaurant, err := domain.NewRestaurant(rec.Name)
	if err != nil {
		return err
	}
	if err := setIfPresent(restaurant.SetDescription, rec.Description); err != nil {
		return err
	}
	if rec.Location != nil {
		location, err := domain.NewCoordinate(rec.Location.Latitude, rec.Location.Longitude)
		if err != nil {
			return err
		}
		if err := restaurant.SetLocation(location); err != nil {
			return err
		}
	}
	return s.manager.AddRestaurant(restaurant)
}

func (s *Seeder) addDish(rec domain.DishRecord) error {
	dish, err := domain.NewDish(rec.Name)
	if err != nil {
		return err
	}
	if err := setIfPresent(dish.SetDescription, rec.Description); err != nil {
		return err
	}
	if err := setIfPresent(dish.SetImage, rec.Image); err != nil {
		return err
	}
	if rec.Ingredients != nil {
		if err := dish.SetIngredients(rec.Ingredients); err != nil {
			return err
		}
	}
	if err := s.manager.AddDish(dish); err != nil {
		return err
	}

	for _, name := range rec.Categories {
		category, err := s.manager.CreateCategory(name)
		if err != nil {
			return err
		}
		if err := s.manager.AssignCategoryToDish(category, dish); err != nil {
			return err
		}
	}
	for _, name := range rec.Allergens {
		allergen, err := s.manager.CreateAllergen(name)
		if err != nil {
			return err
		}
		if err := s.manager.AssignAllergenToDish(allergen, dish); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) addMenu(rec domain.MenuRecord) error {
	menu, err := domain.NewMenu(rec.Name)
	if err != nil {
		return err
	}
	if err := setIfPresent(menu.SetDescription, rec.Description); err != nil {
		return err
	}
	if err := s.manager.AddMenu(menu); err != nil {
		return err
	}

	for _, name := range rec.Dishes {
		dish, err := s.manager.CreateDish(name)
		if err != nil {
			return err
		}
		if err := s.manager.AssignDishToMenu(menu, dish); err != nil {
			return err
		}
	}
	return nil
}

func setIfPresent(set func(string) error, value string) error {
	if value == "" {
		return nil
	}
	return set(value)
}
