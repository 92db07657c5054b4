package domain

import (
	"math"
	"time"
)

// CartItem is a dish snapshot taken when it was first added, plus a
// quantity that never drops below one.
type CartItem struct {
	Dish
	Quantity int `json:"quantity"`
}

func (i CartItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Cart holds at most one item per dish id, in the order dishes were first
// added.
type Cart struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewCart(id string, now time.Time) *Cart {
	return &Cart{ID: id, Items: []CartItem{}, UpdatedAt: now}
}

func (c *Cart) indexOf(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) Add(d Dish) {
	if i := c.indexOf(d.ID); i >= 0 {
		if c.Items[i].Quantity < math.MaxInt32 {
			c.Items[i].Quantity++
		}
		return
	}
	c.Items = append(c.Items, CartItem{Dish: d, Quantity: 1})
}

// UpdateQuantity sets the quantity to max(1, q+delta). Unknown ids are
// ignored.
func (c *Cart) UpdateQuantity(id string, delta int) {
	i := c.indexOf(id)
	if i < 0 {
		return
	}
	if delta >= math.MaxInt32 {
		c.Items[i].Quantity = math.MaxInt32
		return
	}
	next := int64(c.Items[i].Quantity) + int64(delta)
	switch {
	case next < 1:
		next = 1
	case next > math.MaxInt32:
		next = math.MaxInt32
	}
	c.Items[i].Quantity = int(next)
}

func (c *Cart) Remove(id string) {
	if i := c.indexOf(id); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

func (c *Cart) Has(id string) bool {
	return c.indexOf(id) >= 0
}

func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// ItemCount is the sum of quantities, not the number of entries.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// CartView is the wire shape of a cart with its derived totals.
type CartView struct {
	*Cart
	Total     int64 `json:"total"`
	ItemCount int   `json:"item_count"`
}

func (c *Cart) View() CartView {
	return CartView{Cart: c, Total: c.Total(), ItemCount: c.ItemCount()}
}
