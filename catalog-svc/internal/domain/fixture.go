package domain

// Fixture is a catalog description loaded from a seed source.
type Fixture struct {
	Categories  []NamedRecord      `yaml:"categories" validate:"dive"`
	Allergens   []NamedRecord      `yaml:"allergens" validate:"dive"`
	Restaurants []RestaurantRecord `yaml:"restaurants" validate:"dive"`
	Dishes      []DishRecord       `yaml:"dishes" validate:"dive"`
	Menus       []MenuRecord       `yaml:"menus" validate:"dive"`
}

type NamedRecord struct {
	Name        string `yaml:"name" validate:"required"`
	Description string `yaml:"description"`
}

type CoordinateRecord struct {
	Latitude  string `yaml:"latitude" validate:"required"`
	Longitude string `yaml:"longitude" validate:"required"`
}

type RestaurantRecord struct {
	Name        string            `yaml:"name" validate:"required"`
	Description string            `yaml:"description"`
	Location    *CoordinateRecord `yaml:"location" validate:"omitempty"`
}

type DishRecord struct {
	Name        string   `yaml:"name" validate:"required"`
	Description string   `yaml:"description"`
	Ingredients []string `yaml:"ingredients" validate:"dive,required"`
	Image       string   `yaml:"image"`
	Categories  []string `yaml:"categories" validate:"dive,required"`
	Allergens   []string `yaml:"allergens" validate:"dive,required"`
}

type MenuRecord struct {
	Name        string   `yaml:"name" validate:"required"`
	Description string   `yaml:"description"`
	Dishes      []string `yaml:"dishes" validate:"dive,required"`
}
