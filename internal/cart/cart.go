// Package cart models the shopper's cart as an ordered list of product lines. Its JSON form
// is a plain array, the shape kept in browser storage and submitted at checkout.
package cart

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrSoldOut      = errors.New("product is sold out")
	ErrExceedsStock = errors.New("quantity exceeds available stock")
	ErrNotInCart    = errors.New("product is not in the cart")
	ErrBadQuantity  = errors.New("every line needs a quantity of at least 1")
)

// Line is one product in the cart. Name, Price, ImageURL and Stock are display copies taken
// when the product was added; the server never trusts them.
type Line struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name,omitempty"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url,omitempty"`
	Stock    int             `json:"stock"`
	Quantity int             `json:"quantity"`
}

// Cart is an ordered set of lines. The zero value is an empty cart.
type Cart struct {
	lines []Line
}

// New builds a cart from existing lines, keeping their order.
func New(lines ...Line) Cart {
	return Cart{lines: append([]Line(nil), lines...)}
}

func (c *Cart) index(id uuid.UUID) int {
	for i, l := range c.lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Add puts one more unit of product into the cart.
func (c *Cart) Add(product Line) error {
	if product.Stock <= 0 {
		return ErrSoldOut
	}
	if i := c.index(product.ID); i >= 0 {
		if c.lines[i].Quantity+1 > product.Stock {
			return ErrExceedsStock
		}
		c.lines[i].Quantity++
		c.lines[i].Stock = product.Stock
		return nil
	}
	product.Quantity = 1
	c.lines = append(c.lines, product)
	return nil
}

// SetQuantity overwrites a line's quantity; zero or less removes the line.
func (c *Cart) SetQuantity(id uuid.UUID, quantity int) error {
	i := c.index(id)
	if i < 0 {
		return ErrNotInCart
	}
	if quantity <= 0 {
		c.Remove(id)
		return nil
	}
	if quantity > c.lines[i].Stock {
		return ErrExceedsStock
	}
	c.lines[i].Quantity = quantity
	return nil
}

func (c *Cart) Remove(id uuid.UUID) {
	if i := c.index(id); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart's lines in insertion order.
func (c Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

func (c Cart) Len() int {
	return len(c.lines)
}

// Count is the total number of units across all lines.
func (c Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Subtotal prices the cart with the display prices it carries.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// Quantity is a product and the total units requested for it.
type Quantity struct {
	ProductID uuid.UUID
	Quantity  int
}

// Quantities merges lines that name the same product, in first-seen order. Each line is
// checked before merging, so a negative line cannot cancel out another.
func (c Cart) Quantities() ([]Quantity, error) {
	out := make([]Quantity, 0, len(c.lines))
	pos := make(map[uuid.UUID]int, len(c.lines))
	for _, l := range c.lines {
		if l.Quantity <= 0 {
			return nil, ErrBadQuantity
		}
		if i, ok := pos[l.ID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		pos[l.ID] = len(out)
		out = append(out, Quantity{ProductID: l.ID, Quantity: l.Quantity})
	}
	return out, nil
}

func (c Cart) MarshalJSON() ([]byte, error) {
	if c.lines == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.lines)
}

func (c *Cart) UnmarshalJSON(b []byte) error {
	var lines []Line
	if err := json.Unmarshal(b, &lines); err != nil {
		return err
	}
	c.lines = lines
	return nil
}
