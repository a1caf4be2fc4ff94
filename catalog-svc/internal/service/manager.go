package service

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"overcooked-catalog/catalog-svc/internal/domain"
	"overcooked-catalog/catalog-svc/internal/logging"
)

// DishEntry is a registered dish together with its category and allergen links.
type DishEntry struct {
	mu         *sync.RWMutex
	dish       *domain.Dish
	categories *registry[*domain.Category]
	allergens  *registry[*domain.Allergen]
}

func (e *DishEntry) Dish() *domain.Dish {
	return e.dish
}

// Categories returns the linked categories in assignment order.
func (e *DishEntry) Categories() []*domain.Category {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.categories.values()
}

// Allergens returns the linked allergens in assignment order.
func (e *DishEntry) Allergens() []*domain.Allergen {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.allergens.values()
}

// MenuEntry is a registered menu and its ordered dish list.
type MenuEntry struct {
	mu     *sync.RWMutex
	menu   *domain.Menu
	dishes []*domain.Dish
}

func (e *MenuEntry) Menu() *domain.Menu {
	return e.menu
}

// Dishes returns a copy of the menu's dish list. A dish may appear more than once.
func (e *MenuEntry) Dishes() []*domain.Dish {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.dishes)
}

func (e *MenuEntry) order() []string {
	names := make([]string, len(e.dishes))
	for i, d := range e.dishes {
		names[i] = d.Name()
	}
	return names
}

func (e *MenuEntry) indexOf(name string) int {
	return slices.IndexFunc(e.dishes, func(d *domain.Dish) bool { return d.Name() == name })
}

// Manager is the catalog of dishes, categories, allergens, menus and
// restaurants. Its registries are created once and only their contents change.
type Manager struct {
	mu          sync.RWMutex
	dishes      *registry[*DishEntry]
	categories  *registry[*domain.Category]
	allergens   *registry[*domain.Allergen]
	menus       *registry[*MenuEntry]
	restaurants *registry[*domain.Restaurant]

	obsMu     sync.RWMutex
	observers []Observer
	logger    *logging.Logger
}

type Option func(*Manager)

func WithLogger(logger *logging.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o != nil {
			m.observers = append(m.observers, o)
		}
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		dishes:      newRegistry[*DishEntry](),
		categories:  newRegistry[*domain.Category](),
		allergens:   newRegistry[*domain.Allergen](),
		menus:       newRegistry[*MenuEntry](),
		restaurants: newRegistry[*domain.Restaurant](),
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers o to receive every future change event.
func (m *Manager) Subscribe(o Observer) {
	if o == nil {
		return
	}
	m.obsMu.Lock()
	m.observers = append(m.observers, o)
	m.obsMu.Unlock()
}

func (m *Manager) notify(events []domain.Event) {
	m.obsMu.RLock()
	observers := slices.Clone(m.observers)
	m.obsMu.RUnlock()

	for _, event := range events {
		for _, o := range observers {
			o.Notify(event)
		}
	}
}

type entity interface {
	comparable
	Name() string
}

func checkEntity[E entity](param, expected string, e E) error {
	var zero E
	if e == zero {
		return &domain.TypeError{Param: param, Expected: expected}
	}
	if e.Name() == "" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidAccessConstructor, expected)
	}
	return nil
}

// changes collects the events of one operation; they are delivered after the lock is released.
type changes []domain.Event

func (c *changes) record(action domain.Action, kind domain.Kind, name, target string) {
	event := domain.NewEvent(action, kind, name)
	event.Target = target
	*c = append(*c, event)
}

func (c *changes) recordMenu(action domain.Action, menu *MenuEntry, dish string) {
	event := domain.NewEvent(action, domain.KindMenu, menu.menu.Name())
	event.Target = dish
	event.Order = menu.order()
	*c = append(*c, event)
}

// CreateDish returns the registered dish called name, or a new unregistered one.
func (m *Manager) CreateDish(name string) (*domain.Dish, error) {
	m.mu.RLock()
	entry, ok := m.dishes.get(name)
	m.mu.RUnlock()
	if ok {
		return entry.dish, nil
	}
	return domain.NewDish(name)
}

func (m *Manager) CreateCategory(name string) (*domain.Category, error) {
	m.mu.RLock()
	category, ok := m.categories.get(name)
	m.mu.RUnlock()
	if ok {
		return category, nil
	}
	return domain.NewCategory(name)
}

func (m *Manager) CreateAllergen(name string) (*domain.Allergen, error) {
	m.mu.RLock()
	allergen, ok := m.allergens.get(name)
	m.mu.RUnlock()
	if ok {
		return allergen, nil
	}
	return domain.NewAllergen(name)
}

func (m *Manager) CreateMenu(name string) (*domain.Menu, error) {
	m.mu.RLock()
	entry, ok := m.menus.get(name)
	m.mu.RUnlock()
	if ok {
		return entry.menu, nil
	}
	return domain.NewMenu(name)
}

func (m *Manager) CreateRestaurant(name string) (*domain.Restaurant, error) {
	m.mu.RLock()
	restaurant, ok := m.restaurants.get(name)
	m.mu.RUnlock()
	if ok {
		return restaurant, nil
	}
	return domain.NewRestaurant(name)
}

func (m *Manager) AddCategory(category *domain.Category) error {
	if err := checkEntity("category", "Category", category); err != nil {
		return err
	}
	var c changes
	m.mu.Lock()
	err := m.addCategory(category, &c)
	m.mu.Unlock()
	m.notify(c)
	return err
}

func (m *Manager) addCategory(category *domain.Category, c *changes) error {
	if m.categories.has(category.Name()) {
		return domain.Exists(domain.KindCategory, category.Name())
	}
	m.categories.set(category.Name(), category)
	c.record(domain.ActionAdded, domain.KindCategory, category.Name(), "")
	return nil
}

// RemoveCategory unregisters category after unlinking it from every dish.
func (m *Manager) RemoveCategory(category *domain.Category) error {
	if err := checkEntity("category", "Category", category); err != nil {
		return err
	}
	var c changes
	m.mu.Lock()
	err := m.removeCategory(category.Name(), &c)
	m.mu.Unlock()
	m.notify(c)
	return err
}

func (m *Manager) removeCategory(name string, c *changes) error {
	if !m.categories.has(name) {
		return domain.NotExist(domain.KindCategory, name)
	}
	for _, entry := range m.dishes.values() {
		if entry.categories.delete(name) {
			c.record(domain.ActionDeassigned, domain.KindCategory, name, entry.dish.Name())
		}
	}
	m.categories.delete(name)
	c.record(domain.ActionRemoved, domain.KindCategory, name, "")
	m.logger.Debug("category removed", zap.String("category", name), zap.Int("unlinked", len(*c)-1))
	return nil
}

func (m *Manager) AddAllergen(allergen *domain.Allergen) error {
	if err := checkEntity("allergen", "Allergen", allergen); err != nil {
		return err
	}
	var c changes
	m.mu.Lock()
	err := m.addAllergen(allergen, &c)
	m.mu.Unlock()
	m.notify(c)
	return err
}

func (m *Manager) addAllergen(allergen *domain.Allergen, c *changes) error {
	if m.allergens.has(allergen.Name()) {
		return domain.Exists(domain.KindAllergen, allergen.Name())
	}
	m.allergens.set(allergen.Name(), allergen)
	c.record(domain.ActionAdded, domain.KindAllergen, allergen.Name(), "")
	return nil
}

// RemoveAllergen unregisters allergen after unlinking it from every dish.
func (m *Manager) RemoveAllergen(allergen *domain.Allergen) error {
	if err := checkEntity("allergen", "Allergen", allergen); err != nil {
		return err
	}
	var c changes
	m.mu.Lock()
	err := m.removeAllergen(allergen.Name(), &c)
	m.mu.Unlock()
	m.notify(c)
	return err
}

func (m *Manager) removeAllergen(name string, c *changes) error {
	if !m.allergens.has(name) {
		return domain.NotExist(domain.KindAllergen, name)
	}
	for _, entry := range m.dishes.values() {
		if entry.allergens.delete(name) {
			c.record(domain.ActionDeassigned, domain.KindAllergen, name, entry.dish.Name())
		}
	}
	m.allergens.delete(name)
	c.record(domain.ActionRemoved, domain.KindAllergen, name, "")
	m.logger.Debug("allergen removed", zap.String("allergen", name), zap.Int("unlinked", len(*c)-1))
	return nil
}

func (m *Manager) AddDish(dish *domain.Dish) error {
	if err := checkEntity("dish", "Dish", dish); err != nil {
		return err
	}
	var c changes
	m.mu.Lock()
	err := m.addDish(dish, &c)
	m.mu.Unlock()
	m.notify(c)
	return err
}

func (m *Manager) addDish(dish *domain.Dish, c *changes) error {
	if m.dishes.has(dish.Name()) {
		return domain.Exists(domain.KindDish, dish.Name())
	}
	m.dishes.set(dish.Name(), &DishEntry{
		mu:         &m.mu,
		dish:       dish,
		categories: newRegistry[*domain.Category](),
		allergens:  newRegistry[*domain.Allergen](),
	})
	c.record(domain.ActionAdded, domain.KindDish, dish.Name(), "")
	return nil
}

// RemoveDish unregisters dish and drops every occurrence of it from the menus.
func (m *Manager) RemoveDish(dish *domain.Dish) error {
	if err := checkEntity("dish", "Dish", dish); err != nil {
		return err
	}
	var c changes
	m.mu.Lock()
	err := m.removeDish(dish.Name(), &c)
	m.mu.Unlock()
	m.notify(c)
	return err
}

func (m *Manager) removeDish(name string, c *changes) error {
	entry, ok := m.dishes.get(name)
	if !ok {
		return domain.NotExist(domain.KindDish, name)
	}
	for _, menu := range m.menus.values() {
		for idx := menu.indexOf(name); idx != -1; idx = menu.indexOf(name) {
			menu.dishes = slices.Delete(menu.dishes, idx, idx+1)
			c.recordMenu(domain.ActionDeassigned, menu, name)
		}
	}
	for _, category := range entry.categories.names() {
		c.record(domain.ActionDeassigned, domain.KindCategory, category, name)
	}
	for _, allergen := range entry.allergens.names() {
		c.record(domain.ActionDeassigned, domain.KindAllergen, allergen, name)
	}
	m.dishes.delete(name)
	c.record(domain.ActionRemoved, domain.KindDish, name, "")
	return nil
}

func (m *Manager) AddMenu(menu *domain.Menu) error {
	if err := checkEntity("menu", "Menu", menu); err != nil {
		return err
	}
	var c changes
	m.mu.Lock()
	err := m.addMenu(menu, &c)
	m.mu.Unlock()
	m.notify(c)
	return err
}

func (m *Manager) addMenu(menu *domain.Menu, c *changes) error {
	if m.menus.has(menu.Name()) {
		return domain.Exists(domain.KindMenu, menu.Name())
	}
	m.menus.set(menu.Name(), &MenuEntry{mu: &m.mu, menu: menu, dishes: []*domain.Dish{}})
	c.record(domain.ActionAdded, domain.KindMenu, menu.Name(), "")
	return nil
}

func (m *Manager) RemoveMenu(menu *domain.Menu) error {
	if err := checkEntity("menu", "Menu", menu); err != nil {
		return err
	}
	var c changes
	m.mu.Lock()
	err := m.removeMenu(menu.Name(), &c)
	m.mu.Unlock()
	m.notify(c)
	return err
}

func (m *Manager) removeMenu(name string, c *changes) error {
	if !m.menus.delete(name) {
		return domain.NotExist(domain.KindMenu, name)
	}
	c.record(domain.ActionRemoved, domain.KindMenu, name, "")
	return nil
}

func (m *Manager) AddRestaurant(restaurant *domain.Restaurant) error {
	if err := checkEntity("restaurant", "Restaurant", restaurant); err != nil {
		return err
	}
	var c changes
	m.mu.Lock()
	err := m.addRestaurant(restaurant, &c)
	m.mu.Unlock()
	m.notify(c)
	return err
}

func (m *Manager) addRestaurant(restaurant *domain.Restaurant, c *changes) error {
	if m.restaurants.has(restaurant.Name()) {
		return domain.Exists(domain.KindRestaurant, restaurant.Name())
	}
	m.restaurants.set(restaurant.Name(), restaurant)
	c.record(domain.ActionAdded, domain.KindRestaurant, restaurant.Name(), "")
	return nil
}

func (m *Manager) RemoveRestaurant(restaurant *domain.Restaurant) error {
	if err := checkEntity("restaurant", "Restaurant", restaurant); err != nil {
		return err
	}
	var c changes
	m.mu.Lock()
	err := m.removeRestaurant(restaurant.Name(), &c)
	m.mu.Unlock()
	m.notify(c)
	return err
}

func (m *Manager) removeRestaurant(name string, c *changes) error {
	if !m.restaurants.delete(name) {
		return domain.NotExist(domain.KindRestaurant, name)
	}
	c.record(domain.ActionRemoved, domain.KindRestaurant, name, "")
	return nil
}

// Clear empties every registry. Dish and menu links go with their entries.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.dishes.reset()
	m.categories.reset()
	m.allergens.reset()
	m.menus.reset()
	m.restaurants.reset()
	m.mu.Unlock()

	m.logger.Info("catalog cleared")
	m.notify([]domain.Event{domain.NewEvent(domain.ActionCleared, domain.KindCatalog, "")})
}

// Stats holds the number of entries of each registry.
type Stats struct {
	Dishes      int `json:"dishes"`
	Categories  int `json:"categories"`
	Allergens   int `json:"allergens"`
	Menus       int `json:"menus"`
	Restaurants int `json:"restaurants"`
}

func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		Dishes:      m.dishes.len(),
		Categories:  m.categories.len(),
		Allergens:   m.allergens.len(),
		Menus:       m.menus.len(),
		Restaurants: m.restaurants.len(),
	}
}
