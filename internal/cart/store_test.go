package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/pricing"
)

func product(id, price string) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "product " + id,
		PriceUSD: decimal.RequireFromString(price),
		Image:    "/img/" + id + ".png",
	}
}

type countingRecorder struct {
	ops []string
}

func (r *countingRecorder) RecordCartMutation(op string) {
	r.ops = append(r.ops, op)
}

func TestAddSameProductIncrementsQuantity(t *testing.T) {
	s := NewStore(nil)
	p := product("1", "19.99")

	s.Add(p)
	s.Add(p)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "product 1", items[0].Name)
	assert.Equal(t, "/img/1.png", items[0].ImageRef)
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	s := NewStore(nil)
	s.Add(product("2", "49.99"))
	s.Add(product("1", "19.99"))
	s.Add(product("2", "49.99"))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "2", items[0].ProductID)
	assert.Equal(t, "1", items[1].ProductID)
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, 2, s.Len())
}

func TestRemoveOnEmptyCartIsNoop(t *testing.T) {
	s := NewStore(nil)
	s.Remove("missing")
	assert.Equal(t, 0, s.Len())
	assert.True(t, s.Subtotal().IsZero())
}

func TestRemoveDeletesLine(t *testing.T) {
	s := NewStore(nil)
	s.Add(product("1", "19.99"))
	s.Add(product("2", "49.99"))

	s.Remove("1")

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].ProductID)
}

func TestSetQuantity(t *testing.T) {
	s := NewStore(nil)
	s.Add(product("1", "19.99"))

	s.SetQuantity("1", 5)
	assert.Equal(t, 5, s.Items()[0].Quantity)

	s.SetQuantity("1", 2)
	assert.Equal(t, 2, s.Items()[0].Quantity, "quantity is set, not incremented")

	s.SetQuantity("missing", 3)
	assert.Equal(t, 1, s.Len())

	s.SetQuantity("1", 0)
	assert.Equal(t, 0, s.Len(), "quantity below one removes the line")

	s.Add(product("1", "19.99"))
	s.SetQuantity("1", -4)
	assert.Equal(t, 0, s.Len())
}

func TestClear(t *testing.T) {
	s := NewStore(nil)
	s.Add(product("1", "19.99"))
	s.Add(product("2", "49.99"))

	s.Clear()

	assert.Empty(t, s.Items())
	assert.True(t, s.Subtotal().IsZero())
}

func TestSubtotal(t *testing.T) {
	cases := []struct {
		name  string
		setup func(s *Store)
		want  string
	}{
		{
			name:  "empty",
			setup: func(*Store) {},
			want:  "0",
		},
		{
			name: "single product twice",
			setup: func(s *Store) {
				s.Add(product("1", "19.99"))
				s.Add(product("1", "19.99"))
			},
			want: "39.98",
		},
		{
			name: "two products",
			setup: func(s *Store) {
				s.Add(product("2", "49.99"))
				s.Add(product("1", "19.99"))
			},
			want: "69.98",
		},
		{
			name: "after quantity change",
			setup: func(s *Store) {
				s.Add(product("4", "59.99"))
				s.Add(product("5", "44.99"))
				s.SetQuantity("5", 3)
			},
			want: "194.96",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStore(nil)
			tc.setup(s)
			assert.True(t, s.Subtotal().Equal(decimal.RequireFromString(tc.want)), "got %s", s.Subtotal())
		})
	}
}

func TestSubtotalIn(t *testing.T) {
	s := NewStore(pricing.DefaultTable())
	s.Add(product("1", "10"))

	assert.True(t, s.SubtotalIn("INR").Equal(decimal.RequireFromString("829.7")))
	assert.True(t, s.SubtotalIn("USD").Equal(decimal.NewFromInt(10)))
	assert.True(t, s.SubtotalIn("XXX").Equal(decimal.NewFromInt(10)))
}

func TestItemsReturnsCopy(t *testing.T) {
	s := NewStore(nil)
	s.Add(product("1", "19.99"))

	items := s.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, s.Items()[0].Quantity)
}

func TestMutationsAreRecorded(t *testing.T) {
	rec := &countingRecorder{}
	s := NewStoreWithMetrics(nil, rec)

	s.Add(product("1", "19.99"))
	s.SetQuantity("1", 3)
	s.SetQuantity("missing", 3)
	s.Remove("missing")
	s.Remove("1")
	s.Clear()

	assert.Equal(t, []string{OpAdd, OpSetQuantity, OpRemove, OpClear}, rec.ops)
}
