package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"overcooked-catalog/catalog-svc/internal/domain"
)

// PostgresSource reads a catalog fixture from the restaurant database.
// It only issues SELECT statements.
type PostgresSource struct {
	DB *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{DB: db}
}

func (s *PostgresSource) Load(ctx context.Context) (*domain.Fixture, error) {
	var (
		f   domain.Fixture
		err error
	)

	if f.Categories, err = s.loadNamed(ctx, "categories"); err != nil {
		return nil, err
	}
	if f.Allergens, err = s.loadNamed(ctx, "allergens"); err != nil {
		return nil, err
	}
	if f.Restaurants, err = s.loadRestaurants(ctx); err != nil {
		return nil, err
	}
	if f.Dishes, err = s.loadDishes(ctx); err != nil {
		return nil, err
	}
	if f.Menus, err = s.loadMenus(ctx); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *PostgresSource) loadNamed(ctx context.Context, table string) ([]domain.NamedRecord, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT name, COALESCE(description, '') FROM "+pq.QuoteIdentifier(table)+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	var records []domain.NamedRecord
	for rows.Next() {
		var rec domain.NamedRecord
		if err := rows.Scan(&rec.Name, &rec.Description); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PostgresSource) loadRestaurants(ctx context.Context) ([]domain.RestaurantRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT name, COALESCE(description, ''), COALESCE(latitude::text, ''), COALESCE(longitude::text, '')
		FROM restaurants
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load restaurants: %w", err)
	}
	defer rows.Close()

	var records []domain.RestaurantRecord
	for rows.Next() {
		var (
			rec                 domain.RestaurantRecord
			latitude, longitude string
		)
		if err := rows.Scan(&rec.Name, &rec.Description, &latitude, &longitude); err != nil {
			return nil, fmt.Errorf("scan restaurants: %w", err)
		}
		if latitude != "" && longitude != "" {
			rec.Location = &domain.CoordinateRecord{Latitude: latitude, Longitude: longitude}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PostgresSource) loadDishes(ctx context.Context) ([]domain.DishRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT name, COALESCE(description, ''), COALESCE(ingredients, '{}'), COALESCE(image_url, '')
		FROM dishes
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load dishes: %w", err)
	}
	defer rows.Close()

	var dishes []domain.DishRecord
	index := make(map[string]int)
	for rows.Next() {
		var rec domain.DishRecord
		if err := rows.Scan(&rec.Name, &rec.Description, pq.Array(&rec.Ingredients), &rec.Image); err != nil {
			return nil, fmt.Errorf("scan dishes: %w", err)
		}
		index[rec.Name] = len(dishes)
		dishes = append(dishes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	categories, err := s.loadLinks(ctx, `
		SELECT d.name, c.name
		FROM dish_categories dc
		JOIN dishes d ON dc.dish_id = d.id
		JOIN categories c ON dc.category_id = c.id
		ORDER BY dc.dish_id, dc.category_id`)
	if err != nil {
		return nil, fmt.Errorf("load dish categories: %w", err)
	}
	for _, link := range categories {
		if i, ok := index[link[0]]; ok {
			dishes[i].Categories = append(dishes[i].Categories, link[1])
		}
	}

	allergens, err := s.loadLinks(ctx, `
		SELECT d.name, a.name
		FROM dish_allergens da
		JOIN dishes d ON da.dish_id = d.id
		JOIN allergens a ON da.allergen_id = a.id
		ORDER BY da.dish_id, da.allergen_id`)
	if err != nil {
		return nil, fmt.Errorf("load dish allergens: %w", err)
	}
	for _, link := range allergens {
		if i, ok := index[link[0]]; ok {
			dishes[i].Allergens = append(dishes[i].Allergens, link[1])
		}
	}

	return dishes, nil
}

func (s *PostgresSource) loadMenus(ctx context.Context) ([]domain.MenuRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT name, COALESCE(description, '')
		FROM menus
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load menus: %w", err)
	}
	defer rows.Close()

	var menus []domain.MenuRecord
	index := make(map[string]int)
	for rows.Next() {
		var rec domain.MenuRecord
		if err := rows.Scan(&rec.Name, &rec.Description); err != nil {
			return nil, fmt.Errorf("scan menus: %w", err)
		}
		index[rec.Name] = len(menus)
		menus = append(menus, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	links, err := s.loadLinks(ctx, `
		SELECT m.name, d.name
		FROM menu_dishes md
		JOIN menus m ON md.menu_id = m.id
		JOIN dishes d ON md.dish_id = d.id
		ORDER BY md.menu_id, md.position`)
	if err != nil {
		return nil, fmt.Errorf("load menu dishes: %w", err)
	}
	for _, link := range links {
		if i, ok := index[link[0]]; ok {
			menus[i].Dishes = append(menus[i].Dishes, link[1])
		}
	}
	return menus, nil
}

func (s *PostgresSource) loadLinks(ctx context.Context, query string) ([][2]string, error) {
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links [][2]string
	for rows.Next() {
		var link [2]string
		if err := rows.Scan(&link[0], &link[1]); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
