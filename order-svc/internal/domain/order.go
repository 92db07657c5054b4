package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/nazarkrivolesov/kitchen-2.0/apperr"
)

var (
	ErrOrderNotFound  = fmt.Errorf("order %w", apperr.ErrNotFound)
	ErrStatusConflict = fmt.Errorf("order status was changed by someone else: %w", apperr.ErrConflict)
	ErrCartNotFound   = fmt.Errorf("cart %w", apperr.ErrNotFound)
)

// phonePattern is the Ukrainian country code followed by nine digits.
var phonePattern = regexp.MustCompile(`^\+380\d{9}$`)

type Customer struct {
	Name    string `json:"name" bson:"name"`
	Phone   string `json:"phone" bson:"phone"`
	Address string `json:"address" bson:"address"`
	Comment string `json:"comment,omitempty" bson:"comment,omitempty"`
}

func (c *Customer) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.Comment = strings.TrimSpace(c.Comment)
}

// Validate trims the fields and reports every rule the customer breaks.
func (c *Customer) Validate() error {
	c.normalize()
	v := &apperr.ValidationError{}
	c.validate(v)
	return v.OrNil()
}

func (c Customer) validate(v *apperr.ValidationError) {
	if c.Name == "" {
		v.Add("name", "is required")
	}
	if !phonePattern.MatchString(c.Phone) {
		v.Add("phone", "must look like +380XXXXXXXXX")
	}
	if c.Address == "" {
		v.Add("address", "is required")
	}
}

// Item is the frozen copy of a cart entry taken at checkout.
type Item struct {
	DishID      string   `json:"id" bson:"dish_id"`
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description" bson:"description"`
	Price       int64    `json:"price" bson:"price"`
	Image       string   `json:"image" bson:"image"`
	Category    string   `json:"category" bson:"category"`
	Ingredients []string `json:"ingredients" bson:"ingredients"`
	Quantity    int      `json:"quantity" bson:"quantity"`
}

func (i Item) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

type StatusChange struct {
	From      Status    `json:"from,omitempty" bson:"from,omitempty"`
	To        Status    `json:"to" bson:"to"`
	ChangedBy string    `json:"changed_by" bson:"changed_by"`
	ChangedAt time.Time `json:"changed_at" bson:"changed_at"`
}

type Order struct {
	ID        string         `json:"id" bson:"_id"`
	Customer  Customer       `json:"customer" bson:"customer"`
	Items     []Item         `json:"items" bson:"items"`
	Total     int64          `json:"total" bson:"total"`
	Status    Status         `json:"status" bson:"status"`
	History   []StatusChange `json:"history" bson:"history"`
	CreatedAt time.Time      `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updatedAt"`
}

// NewOrder validates the checkout input and builds an order in status new.
// Every violated rule is reported at once.
func NewOrder(items []Item, customer Customer, now time.Time) (*Order, error) {
	customer.normalize()

	v := &apperr.ValidationError{}
	customer.validate(v)
	if len(items) == 0 {
		v.Add("items", "cart is empty")
	}
	for _, item := range items {
		if item.Quantity < 1 || item.Price <= 0 {
			v.Add("items", fmt.Sprintf("item %q has an invalid price or quantity", item.DishID))
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	snapshot := make([]Item, len(items))
	var total int64
	for i, item := range items {
		item.Ingredients = append([]string(nil), item.Ingredients...)
		snapshot[i] = item
		total += item.Subtotal()
	}

	now = now.UTC()
	return &Order{
		Customer:  customer,
		Items:     snapshot,
		Total:     total,
		Status:    StatusNew,
		History:   []StatusChange{{To: StatusNew, ChangedBy: "customer", ChangedAt: now}},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Advance moves the order to status to. Items, total and customer are never
// touched. The returned change is what a store must append to the history.
func (o *Order) Advance(to Status, by string, at time.Time) (StatusChange, error) {
	if err := ValidateTransition(o.Status, to); err != nil {
		return StatusChange{}, err
	}
	change := StatusChange{From: o.Status, To: to, ChangedBy: by, ChangedAt: at.UTC()}
	o.Status = to
	o.UpdatedAt = change.ChangedAt
	o.History = append(o.History, change)
	return change, nil
}

// Tracking is the order as shown to anyone holding its id. Customer contact
// details and the staff behind each status change are left out.
type Tracking struct {
	ID        string           `json:"id"`
	Items     []TrackingItem   `json:"items"`
	Total     int64            `json:"total"`
	Status    Status           `json:"status"`
	History   []TrackingChange `json:"history"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type TrackingItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type TrackingChange struct {
	Status    Status    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

func (o *Order) Tracking() Tracking {
	t := Tracking{
		ID:        o.ID,
		Items:     make([]TrackingItem, len(o.Items)),
		Total:     o.Total,
		Status:    o.Status,
		History:   make([]TrackingChange, len(o.History)),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	for i, item := range o.Items {
		t.Items[i] = TrackingItem{Name: item.Name, Price: item.Price, Quantity: item.Quantity}
	}
	for i, change := range o.History {
		t.History[i] = TrackingChange{Status: change.To, ChangedAt: change.ChangedAt}
	}
	return t
}

// Summary is the short receipt shown after checkout.
func (o *Order) Summary() string {
	var b strings.Builder
	for _, item := range o.Items {
		fmt.Fprintf(&b, "%s x%d\n", item.Name, item.Quantity)
	}
	fmt.Fprintf(&b, "Разом: %d ₴", o.Total)
	return b.String()
}
