package entity

// AllocateItems turns reserved lines into priced reservation items, applying
// the loyalty free unit at most once.
//
// With loyaltyFree false every line becomes one item at the option's price.
// With loyaltyFree true the first line, in request order, donates one unit:
// a quantity of 1 is priced zero outright, a larger quantity is split into a
// free item of quantity 1 plus a sibling at the normal price. Every later
// line is priced normally. The returned flag reports whether the benefit was
// consumed.
func AllocateItems(loyaltyFree bool, lines []ReservedLine) ([]*ReservationItem, bool) {
	items := make([]*ReservationItem, 0, len(lines))
	freeUsed := false

	for _, line := range lines {
		opt := line.Option

		if loyaltyFree && !freeUsed {
			if line.Quantity == 1 {
				items = append(items, &ReservationItem{
					TicketOptionID:   opt.ID,
					TicketOptionName: opt.Name,
					Quantity:         1,
					UnitPrice:        0,
				})
			} else {
				items = append(items,
					&ReservationItem{
						TicketOptionID:   opt.ID,
						TicketOptionName: opt.Name,
						Quantity:         1,
						UnitPrice:        0,
					},
					&ReservationItem{
						TicketOptionID:   opt.ID,
						TicketOptionName: opt.Name,
						Quantity:         line.Quantity - 1,
						UnitPrice:        opt.Price,
					})
			}
			freeUsed = true
			continue
		}

		items = append(items, &ReservationItem{
			TicketOptionID:   opt.ID,
			TicketOptionName: opt.Name,
			Quantity:         line.Quantity,
			UnitPrice:        opt.Price,
		})
	}

	return items, freeUsed
}
