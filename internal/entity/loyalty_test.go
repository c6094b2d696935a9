package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateItems(t *testing.T) {
	platea := &TicketOption{ID: 1, Name: "Platea", Price: 100}
	palco := &TicketOption{ID: 2, Name: "Palco", Price: 250}

	tests := []struct {
		name        string
		loyaltyFree bool
		lines       []ReservedLine
		wantItems   []struct {
			optionID  int64
			quantity  int
			unitPrice float64
		}
		wantUsed  bool
		wantTotal float64
	}{
		{
			name:        "no benefit prices every line normally",
			loyaltyFree: false,
			lines: []ReservedLine{
				{Option: platea, Quantity: 2},
				{Option: palco, Quantity: 1},
			},
			wantItems: []struct {
				optionID  int64
				quantity  int
				unitPrice float64
			}{
				{1, 2, 100},
				{2, 1, 250},
			},
			wantUsed:  false,
			wantTotal: 450,
		},
		{
			name:        "single unit line becomes entirely free",
			loyaltyFree: true,
			lines: []ReservedLine{
				{Option: platea, Quantity: 1},
				{Option: palco, Quantity: 2},
			},
			wantItems: []struct {
				optionID  int64
				quantity  int
				unitPrice float64
			}{
				{1, 1, 0},
				{2, 2, 250},
			},
			wantUsed:  true,
			wantTotal: 500,
		},
		{
			name:        "multi unit line splits into free and paid siblings",
			loyaltyFree: true,
			lines: []ReservedLine{
				{Option: platea, Quantity: 3},
			},
			wantItems: []struct {
				optionID  int64
				quantity  int
				unitPrice float64
			}{
				{1, 1, 0},
				{1, 2, 100},
			},
			wantUsed:  true,
			wantTotal: 200,
		},
		{
			name:        "only the first line receives the free unit",
			loyaltyFree: true,
			lines: []ReservedLine{
				{Option: palco, Quantity: 2},
				{Option: platea, Quantity: 1},
			},
			wantItems: []struct {
				optionID  int64
				quantity  int
				unitPrice float64
			}{
				{2, 1, 0},
				{2, 1, 250},
				{1, 1, 100},
			},
			wantUsed:  true,
			wantTotal: 350,
		},
		{
			name:        "no lines consumes nothing",
			loyaltyFree: true,
			lines:       nil,
			wantItems: []struct {
				optionID  int64
				quantity  int
				unitPrice float64
			}{},
			wantUsed:  false,
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, used := AllocateItems(tt.loyaltyFree, tt.lines)

			require.Len(t, items, len(tt.wantItems))
			for i, want := range tt.wantItems {
				assert.Equal(t, want.optionID, items[i].TicketOptionID, "item %d option", i)
				assert.Equal(t, want.quantity, items[i].Quantity, "item %d quantity", i)
				assert.Equal(t, want.unitPrice, items[i].UnitPrice, "item %d unit price", i)
			}
			assert.Equal(t, tt.wantUsed, used)

			res := &Reservation{Items: items}
			assert.Equal(t, tt.wantTotal, res.CalculateTotal())
		})
	}
}

func TestAllocateItemsExactlyOneFreeUnit(t *testing.T) {
	opt := &TicketOption{ID: 1, Name: "General", Price: 50}

	items, used := AllocateItems(true, []ReservedLine{
		{Option: opt, Quantity: 4},
		{Option: opt, Quantity: 2},
	})

	require.True(t, used)
	freeUnits := 0
	for _, item := range items {
		if item.UnitPrice == 0 {
			freeUnits += item.Quantity
		}
	}
	assert.Equal(t, 1, freeUnits)
}
