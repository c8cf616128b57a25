package data

// LootEntry is one row of the weighted loot table. An empty Item is junk:
// the roll succeeded but the duck carried nothing worth keeping.
type LootEntry struct {
	Item   string // catalog slug
	Weight int
}

// LootTable is rolled after the flat loot chance passes. Weights are
// relative; the table sums to 100 for readability only.
var LootTable = []LootEntry{
	{Item: "", Weight: 20},
	{Item: "extra_bullet", Weight: 25},
	{Item: "extra_magazine", Weight: 15},
	{Item: "grease", Weight: 10},
	{Item: "sunglasses", Weight: 8},
	{Item: "silencer", Weight: 8},
	{Item: "bread", Weight: 6},
	{Item: "trigger_lock", Weight: 5},
	{Item: "life_insurance", Weight: 2},
	{Item: "ducks_detector", Weight: 1},
}

// LootTotalWeight returns the sum of all weights.
func LootTotalWeight() int {
	total := 0
	for _, e := range LootTable {
		total += e.Weight
	}
	return total
}
