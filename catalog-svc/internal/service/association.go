package service

import (
	"slices"

	"go.uber.org/zap"

	"overcooked-catalog/catalog-svc/internal/domain"
)

// ensureDish returns the entry for dish, registering it first when needed.
func (m *Manager) ensureDish(dish *domain.Dish, c *changes) *DishEntry {
	if entry, ok := m.dishes.get(dish.Name()); ok {
		return entry
	}
	m.logger.Debug("registering dish on assignment", zap.String("dish", dish.Name()))
	_ = m.addDish(dish, c)
	entry, _ := m.dishes.get(dish.Name())
	return entry
}

func (m *Manager) ensureMenu(menu *domain.Menu, c *changes) *MenuEntry {
	if entry, ok := m.menus.get(menu.Name()); ok {
		return entry
	}
	m.logger.Debug("registering menu on assignment", zap.String("menu", menu.Name()))
	_ = m.addMenu(menu, c)
	entry, _ := m.menus.get(menu.Name())
	return entry
}

// AssignCategoryToDish links category to dish, registering either one if it
// is not in the catalog yet. Assigning an existing pair again is a no-op.
func (m *Manager) AssignCategoryToDish(category *domain.Category, dish *domain.Dish) error {
	if err := checkEntity("category", "Category", category); err != nil {
		return err
	}
	if err := checkEntity("dish", "Dish", dish); err != nil {
		return err
	}

	var c changes
	m.mu.Lock()
	if !m.categories.has(category.Name()) {
		m.logger.Debug("registering category on assignment", zap.String("category", category.Name()))
		_ = m.addCategory(category, &c)
	}
	entry := m.ensureDish(dish, &c)
	entry.categories.set(category.Name(), category)
	c.record(domain.ActionAssigned, domain.KindCategory, category.Name(), dish.Name())
	m.mu.Unlock()

	m.notify(c)
	return nil
}

func (m *Manager) DeassignCategoryToDish(category *domain.Category, dish *domain.Dish) error {
	if err := checkEntity("category", "Category", category); err != nil {
		return err
	}
	if err := checkEntity("dish", "Dish", dish); err != nil {
		return err
	}

	var c changes
	m.mu.Lock()
	err := m.deassignCategory(category.Name(), dish.Name(), &c)
	m.mu.Unlock()
	m.notify(c)
	return err
}

func (m *Manager) deassignCategory(category, dish string, c *changes) error {
	entry, ok := m.dishes.get(dish)
	if !ok {
		return domain.NotExist(domain.KindDish, dish)
	}
	if !m.categories.has(category) {
		return domain.NotExist(domain.KindCategory, category)
	}
	if !entry.categories.delete(category) {
		return domain.NotAssigned(domain.KindCategory, category, dish)
	}
	c.record(domain.ActionDeassigned, domain.KindCategory, category, dish)
	return nil
}

// AssignAllergenToDish links allergen to dish, registering either one if it
// is not in the catalog yet.
func (m *Manager) AssignAllergenToDish(allergen *domain.Allergen, dish *domain.Dish) error {
	if err := checkEntity("allergen", "Allergen", allergen); err != nil {
		return err
	}
	if err := checkEntity("dish", "Dish", dish); err != nil {
		return err
	}

	var c changes
	m.mu.Lock()
	if !m.allergens.has(allergen.Name()) {
		m.logger.Debug("registering allergen on assignment", zap.String("allergen", allergen.Name()))
		_ = m.addAllergen(allergen, &c)
	}
	entry := m.ensureDish(dish, &c)
	entry.allergens.set(allergen.Name(), allergen)
	c.record(domain.ActionAssigned, domain.KindAllergen, allergen.Name(), dish.Name())
	m.mu.Unlock()

	m.notify(c)
	return nil
}

func (m *Manager) DeassignAllergenToDish(allergen *domain.Allergen, dish *domain.Dish) error {
	if err := checkEntity("allergen", "Allergen", allergen); err != nil {
		return err
	}
	if err := checkEntity("dish", "Dish", dish); err != nil {
		return err
	}

	var c changes
	m.mu.Lock()
	err := m.deassignAllergen(allergen.Name(), dish.Name(), &c)
	m.mu.Unlock()
	m.notify(c)
	return err
}

func (m *Manager) deassignAllergen(allergen, dish string, c *changes) error {
	entry, ok := m.dishes.get(dish)
	if !ok {
		return domain.NotExist(domain.KindDish, dish)
	}
	if !m.allergens.has(allergen) {
		return domain.NotExist(domain.KindAllergen, allergen)
	}
	if !entry.allergens.delete(allergen) {
		return domain.NotAssigned(domain.KindAllergen, allergen, dish)
	}
	c.record(domain.ActionDeassigned, domain.KindAllergen, allergen, dish)
	return nil
}

// AssignDishToMenu appends dish to the end of the menu. The same dish may be
// appended several times.
func (m *Manager) AssignDishToMenu(menu *domain.Menu, dish *domain.Dish) error {
	if err := checkEntity("menu", "Menu", menu); err != nil {
		return err
	}
	if err := checkEntity("dish", "Dish", dish); err != nil {
		return err
	}

	var c changes
	m.mu.Lock()
	entry := m.ensureMenu(menu, &c)
	m.ensureDish(dish, &c)
	entry.dishes = append(entry.dishes, dish)
	c.recordMenu(domain.ActionAssigned, entry, dish.Name())
	m.mu.Unlock()

	m.notify(c)
	return nil
}

// DeassignDishToMenu removes the first occurrence of dish from the menu.
func (m *Manager) DeassignDishToMenu(menu *domain.Menu, dish *domain.Dish) error {
	if err := checkEntity("menu", "Menu", menu); err != nil {
		return err
	}
	if err := checkEntity("dish", "Dish", dish); err != nil {
		return err
	}

	var c changes
	m.mu.Lock()
	err := m.deassignMenuDish(menu.Name(), dish.Name(), &c)
	m.mu.Unlock()
	m.notify(c)
	return err
}

func (m *Manager) deassignMenuDish(menu, dish string, c *changes) error {
	entry, ok := m.menus.get(menu)
	if !ok {
		return domain.NotExist(domain.KindMenu, menu)
	}
	if !m.dishes.has(dish) {
		return domain.NotExist(domain.KindDish, dish)
	}
	pos := entry.indexOf(dish)
	if pos == -1 {
		return domain.NotAssigned(domain.KindDish, dish, menu)
	}
	entry.dishes = slices.Delete(entry.dishes, pos, pos+1)
	c.recordMenu(domain.ActionDeassigned, entry, dish)
	return nil
}

// ChangeDishesPositionsInMenu swaps the first occurrences of dish1 and dish2
// in the menu. Every other position is left untouched.
func (m *Manager) ChangeDishesPositionsInMenu(menu *domain.Menu, dish1, dish2 *domain.Dish) error {
	if err := checkEntity("menu", "Menu", menu); err != nil {
		return err
	}
	if err := checkEntity("dish1", "Dish", dish1); err != nil {
		return err
	}
	if err := checkEntity("dish2", "Dish", dish2); err != nil {
		return err
	}

	var c changes
	m.mu.Lock()
	err := m.swapMenuDishes(menu.Name(), dish1.Name(), dish2.Name(), &c)
	m.mu.Unlock()
	m.notify(c)
	return err
}

func (m *Manager) swapMenuDishes(menu, dish1, dish2 string, c *changes) error {
	entry, ok := m.menus.get(menu)
	if !ok {
		return domain.NotExist(domain.KindMenu, menu)
	}
	pos1 := entry.indexOf(dish1)
	if pos1 == -1 {
		return domain.NotAssigned(domain.KindDish, dish1, menu)
	}
	pos2 := entry.indexOf(dish2)
	if pos2 == -1 {
		return domain.NotAssigned(domain.KindDish, dish2, menu)
	}
	entry.dishes[pos1], entry.dishes[pos2] = entry.dishes[pos2], entry.dishes[pos1]
	c.recordMenu(domain.ActionReordered, entry, dish1)
	return nil
}
