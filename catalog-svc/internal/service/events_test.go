package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"overcooked-catalog/catalog-svc/internal/domain"
	"overcooked-catalog/catalog-svc/internal/mocks"
	"overcooked-catalog/catalog-svc/internal/service"
)

type recorder struct {
	events []domain.Event
}

func (r *recorder) observer() service.Observer {
	return service.ObserverFunc(func(e domain.Event) {
		r.events = append(r.events, e)
	})
}

func (r *recorder) types() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type()
	}
	return out
}

func TestManager_EmitsEvents(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, m *service.Manager)
		run   func(t *testing.T, m *service.Manager) error
		want  []string
	}{
		{
			name: "assign registers both ends",
			run: func(t *testing.T, m *service.Manager) error {
				return m.AssignCategoryToDish(newCategory(t, "Rice"), newDish(t, "Paella"))
			},
			want: []string{"category_added", "dish_added", "category_assigned"},
		},
		{
			name: "category removal unlinks first",
			setup: func(t *testing.T, m *service.Manager) {
				require.NoError(t, m.AssignCategoryToDish(newCategory(t, "Rice"), newDish(t, "Paella")))
			},
			run: func(t *testing.T, m *service.Manager) error {
				return m.RemoveCategory(newCategory(t, "Rice"))
			},
			want: []string{"category_deassigned", "category_removed"},
		},
		{
			name: "dish removal leaves menus",
			setup: func(t *testing.T, m *service.Manager) {
				require.NoError(t, m.AssignDishToMenu(newMenu(t, "Lunch"), newDish(t, "Soup")))
				require.NoError(t, m.AssignAllergenToDish(newAllergen(t, "Celery"), newDish(t, "Soup")))
			},
			run: func(t *testing.T, m *service.Manager) error {
				return m.RemoveDish(newDish(t, "Soup"))
			},
			want: []string{"menu_deassigned", "allergen_deassigned", "dish_removed"},
		},
		{
			name: "failed operation is silent",
			run: func(t *testing.T, m *service.Manager) error {
				err := m.RemoveMenu(newMenu(t, "Ghost"))
				assert.ErrorIs(t, err, domain.ErrMenuNotExist)
				return nil
			},
			want: []string{},
		},
		{
			name: "clear",
			run: func(t *testing.T, m *service.Manager) error {
				m.Clear()
				return nil
			},
			want: []string{"catalog_cleared"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			m := service.NewManager()
			if testCase.setup != nil {
				testCase.setup(t, m)
			}
			rec := &recorder{}
			m.Subscribe(rec.observer())

			require.NoError(t, testCase.run(t, m))
			assert.Equal(t, testCase.want, rec.types())
		})
	}
}

func TestManager_MenuEventsCarryOrder(t *testing.T) {
	rec := &recorder{}
	m := service.NewManager(service.WithObserver(rec.observer()))
	lunch := newMenu(t, "Lunch")
	soup := newDish(t, "Soup")
	steak := newDish(t, "Steak")
	require.NoError(t, m.AssignDishToMenu(lunch, soup))
	require.NoError(t, m.AssignDishToMenu(lunch, steak))
	rec.events = nil

	require.NoError(t, m.ChangeDishesPositionsInMenu(lunch, soup, steak))

	require.Len(t, rec.events, 1)
	event := rec.events[0]
	assert.Equal(t, domain.ActionReordered, event.Action)
	assert.Equal(t, "Lunch", event.Name)
	assert.Equal(t, []string{"Steak", "Soup"}, event.Order)
	assert.NotEqual(t, event.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.False(t, event.Timestamp.IsZero())
}

func TestManager_NotifiesMockObserver(t *testing.T) {
	observer := mocks.NewObserver(t)
	observer.On("Notify", mock.MatchedBy(func(e domain.Event) bool {
		return e.Action == domain.ActionAdded && e.Kind == domain.KindRestaurant && e.Name == "El Celler"
	})).Once()

	m := service.NewManager()
	m.Subscribe(observer)
	m.Subscribe(nil)

	restaurant, err := domain.NewRestaurant("El Celler")
	require.NoError(t, err)
	require.NoError(t, m.AddRestaurant(restaurant))
	assert.ErrorIs(t, m.AddRestaurant(restaurant), domain.ErrRestaurantExists)
}

func TestManager_ObserverMayReadCatalog(t *testing.T) {
	m := service.NewManager()
	var seen []service.Stats
	m.Subscribe(service.ObserverFunc(func(domain.Event) {
		seen = append(seen, m.Stats())
	}))

	require.NoError(t, m.AssignCategoryToDish(newCategory(t, "Rice"), newDish(t, "Paella")))

	require.Len(t, seen, 3)
	for _, stats := range seen {
		assert.Equal(t, service.Stats{Dishes: 1, Categories: 1}, stats)
	}
}

func TestManager_MenuQRCode(t *testing.T) {
	lunch := newMenu(t, "Lunch")

	tests := []struct {
		name    string
		setup   func(gen *mocks.QRGenerator)
		menu    *domain.Menu
		want    []byte
		wantErr error
	}{
		{
			name: "registered menu",
			setup: func(gen *mocks.QRGenerator) {
				gen.On("Generate", "Lunch").Return([]byte("png"), nil).Once()
			},
			menu: lunch,
			want: []byte("png"),
		},
		{
			name:    "unregistered menu",
			setup:   func(*mocks.QRGenerator) {},
			menu:    newMenu(t, "Dinner"),
			wantErr: domain.ErrMenuNotExist,
		},
		{
			name: "generator failure",
			setup: func(gen *mocks.QRGenerator) {
				gen.On("Generate", "Lunch").Return(nil, errBoom).Once()
			},
			menu:    lunch,
			wantErr: errBoom,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			m := service.NewManager()
			require.NoError(t, m.AddMenu(lunch))
			gen := mocks.NewQRGenerator(t)
			testCase.setup(gen)

			got, err := m.MenuQRCode(testCase.menu, gen)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestManager_MenuQRCodeNilGenerator(t *testing.T) {
	m := service.NewManager()
	lunch := newMenu(t, "Lunch")
	require.NoError(t, m.AddMenu(lunch))

	var gen service.QRGenerator
	_, err := m.MenuQRCode(lunch, gen)

	assert.ErrorIs(t, err, domain.ErrObjectManagerType)
	var typeErr *domain.TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "gen", typeErr.Param)
}

func TestDefaultQRGenerator_EncodesPNG(t *testing.T) {
	gen := service.DefaultQRGenerator{BaseURL: "http://localhost"}

	png, err := gen.Generate("Menú del día")
	require.NoError(t, err)
	require.Greater(t, len(png), 8)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

var errBoom = errors.New("boom")
