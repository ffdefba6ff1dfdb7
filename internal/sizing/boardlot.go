package sizing

// boardLotTier maps a price floor to the minimum tradable share increment
// at and above that price.
type boardLotTier struct {
	startPrice float64
	lot        int64
}

// boardLotTable is the PSE board-lot step function, ascending by price.
var boardLotTable = []boardLotTier{
	{startPrice: 0.0001, lot: 1_000_000},
	{startPrice: 0.01, lot: 100_000},
	{startPrice: 0.05, lot: 10_000},
	{startPrice: 0.5, lot: 1_000},
	{startPrice: 5, lot: 100},
	{startPrice: 50, lot: 10},
	{startPrice: 1_000, lot: 5},
}

// BoardLot returns the board lot for a price, or 0 when the price falls
// under the lowest tier.
func BoardLot(price float64) int64 {
	lot := int64(0)

	for _, tier := range boardLotTable {
		if tier.startPrice <= price {
			lot = tier.lot
		}
	}

	return lot
}

// RoundToBoardLot rounds shares down to the nearest board-lot multiple for
// the price tier. The result never exceeds the input share count; a price
// with no tier yields 0.
func RoundToBoardLot(shares int64, price float64) int64 {
	lot := BoardLot(price)
	if lot <= 0 {
		return 0
	}

	return (shares / lot) * lot
}
