package cart

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func mouse(stock int) Line {
	return Line{ID: uuid.New(), Name: "RGB Mouse", Price: decimal.RequireFromString("10.50"), Stock: stock}
}

func TestAddRespectsStock(t *testing.T) {
	var c Cart
	p := mouse(2)

	if err := c.Add(p); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	if err := c.Add(p); err != nil {
		t.Fatalf("second Add: %v", err)
	}
	if err := c.Add(p); !errors.Is(err, ErrExceedsStock) {
		t.Fatalf("third Add = %v, want ErrExceedsStock", err)
	}
	if c.Count() != 2 || c.Len() != 1 {
		t.Fatalf("count=%d len=%d, want 2 and 1", c.Count(), c.Len())
	}

	if err := c.Add(mouse(0)); !errors.Is(err, ErrSoldOut) {
		t.Fatalf("Add sold out = %v, want ErrSoldOut", err)
	}
}

func TestSetQuantityAndRemove(t *testing.T) {
	var c Cart
	a, b := mouse(5), mouse(5)
	_ = c.Add(a)
	_ = c.Add(b)

	if err := c.SetQuantity(a.ID, 4); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if err := c.SetQuantity(a.ID, 6); !errors.Is(err, ErrExceedsStock) {
		t.Fatalf("SetQuantity beyond stock = %v", err)
	}
	if got := c.Subtotal(); !got.Equal(decimal.RequireFromString("52.50")) {
		t.Fatalf("Subtotal = %s, want 52.50", got)
	}

	if err := c.SetQuantity(b.ID, 0); err != nil {
		t.Fatalf("SetQuantity 0: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d after zero quantity, want 1", c.Len())
	}
	if err := c.SetQuantity(b.ID, 1); !errors.Is(err, ErrNotInCart) {
		t.Fatalf("SetQuantity removed line = %v, want ErrNotInCart", err)
	}

	c.Clear()
	if c.Count() != 0 || !c.Subtotal().IsZero() {
		t.Fatalf("cart not empty after Clear")
	}
}

func TestQuantitiesMergesDuplicateLines(t *testing.T) {
	id := uuid.New()
	other := uuid.New()
	c := New(Line{ID: id, Quantity: 2}, Line{ID: other, Quantity: 1}, Line{ID: id, Quantity: 3})

	got, err := c.Quantities()
	if err != nil {
		t.Fatalf("Quantities: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ProductID != id || got[0].Quantity != 5 {
		t.Fatalf("first = %+v, want %s x5", got[0], id)
	}
	if got[1].ProductID != other || got[1].Quantity != 1 {
		t.Fatalf("second = %+v", got[1])
	}
}

func TestQuantitiesRejectsNonPositiveLines(t *testing.T) {
	id := uuid.New()
	for _, c := range []Cart{
		New(Line{ID: id, Quantity: -5}, Line{ID: id, Quantity: 6}),
		New(Line{ID: id, Quantity: 0}),
	} {
		if _, err := c.Quantities(); !errors.Is(err, ErrBadQuantity) {
			t.Fatalf("Quantities(%+v) err = %v, want ErrBadQuantity", c.Lines(), err)
		}
	}
}

func TestJSONIsAnArray(t *testing.T) {
	var empty Cart
	b, err := json.Marshal(empty)
	if err != nil || string(b) != "[]" {
		t.Fatalf("empty cart = %s, %v", b, err)
	}

	raw := `[{"id":"8f14e45f-ceea-467f-a0e6-2b3c4d5e6f70","name":"Pad","price":12.5,"stock":4,"quantity":2}]`
	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	lines := c.Lines()
	if len(lines) != 1 || lines[0].Name != "Pad" || lines[0].Quantity != 2 || !lines[0].Price.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("lines = %+v", lines)
	}

	if err := json.Unmarshal([]byte(`{"id":1}`), &c); err == nil {
		t.Fatal("Unmarshal object: want error")
	}
}
