package domain

import "time"

const (
	EventOrderPlaced        = "order_placed"
	EventOrderStatusChanged = "order_status_changed"
)

type EventItem struct {
	DishID   string `json:"dish_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// OrderEvent is the message written to the orders topic.
type OrderEvent struct {
	Type      string      `json:"type"`
	OrderID   string      `json:"order_id"`
	Status    Status      `json:"status"`
	Previous  Status      `json:"previous_status,omitempty"`
	Total     int64       `json:"total,omitempty"`
	Items     []EventItem `json:"items,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func PlacedEvent(o *Order) OrderEvent {
	items := make([]EventItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, EventItem{DishID: item.DishID, Name: item.Name, Price: item.Price, Quantity: item.Quantity})
	}
	return OrderEvent{
		Type:      EventOrderPlaced,
		OrderID:   o.ID,
		Status:    o.Status,
		Total:     o.Total,
		Items:     items,
		Timestamp: o.CreatedAt,
	}
}

func StatusChangedEvent(o *Order, change StatusChange) OrderEvent {
	return OrderEvent{
		Type:      EventOrderStatusChanged,
		OrderID:   o.ID,
		Status:    change.To,
		Previous:  change.From,
		Total:     o.Total,
		Timestamp: change.ChangedAt,
	}
}
