package storage_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overcooked-catalog/catalog-svc/internal/domain"
	"overcooked-catalog/catalog-svc/internal/storage"
)

func setupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "failed to create sqlmock")
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestPostgresSource_Load(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "description"}).
			AddRow("Rice", "Rice dishes").
			AddRow("Desserts", ""))
	mock.ExpectQuery(`FROM "allergens"`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "description"}).AddRow("Fish", ""))
	mock.ExpectQuery(`FROM restaurants`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "description", "latitude", "longitude"}).
			AddRow("El Celler", "Girona", "41.98", "2.82").
			AddRow("Pop-up", "", "", ""))
	mock.ExpectQuery(`FROM dishes`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "description", "ingredients", "image_url"}).
			AddRow("Paella", "", "{rice,saffron}", "paella.jpg").
			AddRow("Flan", "Caramel custard", "{}", ""))
	mock.ExpectQuery(`FROM dish_categories`).
		WillReturnRows(sqlmock.NewRows([]string{"dish", "category"}).
			AddRow("Paella", "Rice").
			AddRow("Flan", "Desserts"))
	mock.ExpectQuery(`FROM dish_allergens`).
		WillReturnRows(sqlmock.NewRows([]string{"dish", "allergen"}).AddRow("Paella", "Fish"))
	mock.ExpectQuery(`FROM menus`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "description"}).AddRow("Lunch", ""))
	mock.ExpectQuery(`FROM menu_dishes`).
		WillReturnRows(sqlmock.NewRows([]string{"menu", "dish"}).
			AddRow("Lunch", "Paella").
			AddRow("Lunch", "Flan"))

	f, err := storage.NewPostgresSource(db).Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []domain.NamedRecord{{Name: "Rice", Description: "Rice dishes"}, {Name: "Desserts"}}, f.Categories)
	assert.Equal(t, []domain.NamedRecord{{Name: "Fish"}}, f.Allergens)
	require.Len(t, f.Restaurants, 2)
	assert.Equal(t, &domain.CoordinateRecord{Latitude: "41.98", Longitude: "2.82"}, f.Restaurants[0].Location)
	assert.Nil(t, f.Restaurants[1].Location)
	assert.Equal(t, []domain.DishRecord{
		{
			Name:        "Paella",
			Ingredients: []string{"rice", "saffron"},
			Image:       "paella.jpg",
			Categories:  []string{"Rice"},
			Allergens:   []string{"Fish"},
		},
		{
			Name:        "Flan",
			Description: "Caramel custard",
			Ingredients: []string{},
			Categories:  []string{"Desserts"},
		},
	}, f.Dishes)
	assert.Equal(t, []domain.MenuRecord{{Name: "Lunch", Dishes: []string{"Paella", "Flan"}}}, f.Menus)
}

func TestPostgresSource_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		expect  func(mock sqlmock.Sqlmock)
		wantMsg string
	}{
		{
			name: "categories query fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM "categories"`).WillReturnError(sql.ErrConnDone)
			},
			wantMsg: "load categories",
		},
		{
			name: "dish links fail",
			expect: func(mock sqlmock.Sqlmock) {
				empty := func() *sqlmock.Rows { return sqlmock.NewRows([]string{"name", "description"}) }
				mock.ExpectQuery(`FROM "categories"`).WillReturnRows(empty())
				mock.ExpectQuery(`FROM "allergens"`).WillReturnRows(empty())
				mock.ExpectQuery(`FROM restaurants`).
					WillReturnRows(sqlmock.NewRows([]string{"name", "description", "latitude", "longitude"}))
				mock.ExpectQuery(`FROM dishes`).
					WillReturnRows(sqlmock.NewRows([]string{"name", "description", "ingredients", "image_url"}))
				mock.ExpectQuery(`FROM dish_categories`).WillReturnError(sql.ErrConnDone)
			},
			wantMsg: "load dish categories",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			db, mock := setupTestDB(t)
			testCase.expect(mock)

			_, err := storage.NewPostgresSource(db).Load(context.Background())
			assert.ErrorIs(t, err, sql.ErrConnDone)
			assert.Contains(t, err.Error(), testCase.wantMsg)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
