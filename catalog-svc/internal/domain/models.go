package domain

import (
	"slices"
	"strings"
)

// Kind names an entity type held by the catalog.
type Kind string

const (
	KindDish       Kind = "dish"
	KindCategory   Kind = "category"
	KindAllergen   Kind = "allergen"
	KindMenu       Kind = "menu"
	KindRestaurant Kind = "restaurant"
)

// Dish is a plate offered by a restaurant. Its name is its identity.
type Dish struct {
	name        string
	description string
	ingredients []string
	image       string
}

func NewDish(name string) (*Dish, error) {
	if name == "" {
		return nil, emptyValue("name")
	}
	return &Dish{name: name, ingredients: []string{}}, nil
}

func (d *Dish) Name() string        { return d.name }
func (d *Dish) Description() string { return d.description }
func (d *Dish) Image() string       { return d.image }

// Ingredients returns a copy of the ordered ingredient list.
func (d *Dish) Ingredients() []string {
	return slices.Clone(d.ingredients)
}

func (d *Dish) SetDescription(value string) error {
	if value == "" {
		return emptyValue("description")
	}
	d.description = value
	return nil
}

// SetIngredients replaces the ingredient list. A nil list is rejected as empty and any
// blank ingredient makes the whole list invalid.
func (d *Dish) SetIngredients(value []string) error {
	if value == nil {
		return emptyValue("ingredients")
	}
	if slices.Contains(value, "") {
		return invalidValue("ingredients", value)
	}
	d.ingredients = slices.Clone(value)
	return nil
}

func (d *Dish) SetImage(value string) error {
	if value == "" {
		return emptyValue("image")
	}
	d.image = value
	return nil
}

// Equal reports whether both dishes share the same name.
func (d *Dish) Equal(other *Dish) bool {
	return d != nil && other != nil && d.name == other.name
}

func (d *Dish) String() string {
	return d.name + " " + d.description + " " + strings.Join(d.ingredients, ",") + " " + d.image
}

// Category groups dishes, e.g. "Rice" or "Desserts".
type Category struct {
	name        string
	description string
}

func NewCategory(name string) (*Category, error) {
	if name == "" {
		return nil, emptyValue("name")
	}
	return &Category{name: name}, nil
}

func (c *Category) Name() string        { return c.name }
func (c *Category) Description() string { return c.description }

func (c *Category) SetDescription(value string) error {
	if value == "" {
		return emptyValue("description")
	}
	c.description = value
	return nil
}

func (c *Category) Equal(other *Category) bool {
	return c != nil && other != nil && c.name == other.name
}

func (c *Category) String() string {
	return c.name + " " + c.description
}

// Allergen is a substance a dish may contain.
type Allergen struct {
	name        string
	description string
}

func NewAllergen(name string) (*Allergen, error) {
	if name == "" {
		return nil, emptyValue("name")
	}
	return &Allergen{name: name}, nil
}

func (a *Allergen) Name() string        { return a.name }
func (a *Allergen) Description() string { return a.description }

func (a *Allergen) SetDescription(value string) error {
	if value == "" {
		return emptyValue("description")
	}
	a.description = value
	return nil
}

func (a *Allergen) Equal(other *Allergen) bool {
	return a != nil && other != nil && a.name == other.name
}

func (a *Allergen) String() string {
	return a.name + " " + a.description
}

type Menu struct {
	name        string
	description string
}

func NewMenu(name string) (*Menu, error) {
	if name == "" {
		return nil, emptyValue("name")
	}
	return &Menu{name: name}, nil
}

func (m *Menu) Name() string        { return m.name }
func (m *Menu) Description() string { return m.description }

func (m *Menu) SetDescription(value string) error {
	if value == "" {
		return emptyValue("description")
	}
	m.description = value
	return nil
}

func (m *Menu) Equal(other *Menu) bool {
	return m != nil && other != nil && m.name == other.name
}

func (m *Menu) String() string {
	return m.name + " " + m.description
}

// Restaurant is a venue with an optional location.
type Restaurant struct {
	name        string
	description string
	location    *Coordinate
}

func NewRestaurant(name string) (*Restaurant, error) {
	if name == "" {
		return nil, emptyValue("name")
	}
	return &Restaurant{name: name}, nil
}

func (r *Restaurant) Name() string        { return r.name }
func (r *Restaurant) Description() string { return r.description }

// Location returns nil when the restaurant has not been placed yet.
func (r *Restaurant) Location() *Coordinate { return r.location }

func (r *Restaurant) SetDescription(value string) error {
	if value == "" {
		return emptyValue("description")
	}
	r.description = value
	return nil
}

func (r *Restaurant) SetLocation(value *Coordinate) error {
	if value == nil || value.latitude == "" {
		return invalidValue("location", value)
	}
	r.location = value
	return nil
}

func (r *Restaurant) Equal(other *Restaurant) bool {
	return r != nil && other != nil && r.name == other.name
}

func (r *Restaurant) String() string {
	location := ""
	if r.location != nil {
		location = r.location.String()
	}
	return r.name + " " + r.description + " " + location
}

// Coordinate is a latitude/longitude pair kept in its textual form.
type Coordinate struct {
	latitude  string
	longitude string
}

func NewCoordinate(latitude, longitude string) (*Coordinate, error) {
	c := &Coordinate{}
	if err := c.SetLatitude(latitude); err != nil {
		return nil, err
	}
	if err := c.SetLongitude(longitude); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Coordinate) Latitude() string  { return c.latitude }
func (c *Coordinate) Longitude() string { return c.longitude }

func (c *Coordinate) SetLatitude(value string) error {
	if err := requireCoordinate("latitude", value); err != nil {
		return err
	}
	c.latitude = value
	return nil
}

func (c *Coordinate) SetLongitude(value string) error {
	if err := requireCoordinate("longitude", value); err != nil {
		return err
	}
	c.longitude = value
	return nil
}

func (c *Coordinate) String() string {
	return c.latitude + " " + c.longitude
}

func requireCoordinate(field, value string) error {
	if value == "" {
		return emptyValue(field)
	}
	return nil
}
