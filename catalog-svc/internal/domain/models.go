package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nazarkrivolesov/kitchen-2.0/apperr"
)

type Category string

const (
	CategoryFirstCourses Category = "Перші страви"
	CategoryMainCourses  Category = "Основні страви"
	CategoryStarters     Category = "Закуски"
	CategoryDesserts     Category = "Десерти"

	// CategoryAll is the selector value meaning "no filter".
	CategoryAll Category = "Всі"
)

var Categories = []Category{
	CategoryFirstCourses,
	CategoryMainCourses,
	CategoryStarters,
	CategoryDesserts,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

const (
	maxNameLength = 100
	DefaultImage  = "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?auto=format&fit=crop&q=80&w=800"
)

type Dish struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Image       string    `json:"image"`
	Category    Category  `json:"category"`
	Ingredients []string  `json:"ingredients"`
	CreatedAt   time.Time `json:"created_at"`
}

// Normalize trims text fields, drops blank ingredients and fills defaults
// the admin form would otherwise send.
func (d *Dish) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.Image = strings.TrimSpace(d.Image)
	if d.Image == "" {
		d.Image = DefaultImage
	}
	if d.Category == "" {
		d.Category = CategoryMainCourses
	}

	ingredients := make([]string, 0, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			ingredients = append(ingredients, ing)
		}
	}
	d.Ingredients = ingredients
}

func (d Dish) Validate() error {
	v := &apperr.ValidationError{}
	if d.Name == "" {
		v.Add("name", "is required")
	} else if utf8.RuneCountInString(d.Name) > maxNameLength {
		v.Add("name", "must be at most 100 characters")
	}
	if d.Description == "" {
		v.Add("description", "is required")
	}
	if d.Price <= 0 {
		v.Add("price", "must be greater than zero")
	}
	if !d.Category.Valid() {
		v.Add("category", "must be one of: Перші страви, Основні страви, Закуски, Десерти")
	}
	return v.OrNil()
}

// FilterByCategory returns the dishes of one category, or the whole menu for
// CategoryAll and the empty selector. The input slice is not modified.
func FilterByCategory(menu []Dish, category Category) []Dish {
	if category == CategoryAll || category == "" {
		out := make([]Dish, len(menu))
		copy(out, menu)
		return out
	}
	out := make([]Dish, 0, len(menu))
	for _, d := range menu {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// DeleteDish removes a dish from the menu and any cart entry pointing at it.
func DeleteDish(menu []Dish, cart *Cart, id string) []Dish {
	out := make([]Dish, 0, len(menu))
	for _, d := range menu {
		if d.ID != id {
			out = append(out, d)
		}
	}
	if cart != nil {
		cart.Remove(id)
	}
	return out
}
