package domain

// Represents a customer order awaiting dispatch. Orders are reference
// data loaded from seeds; the planner groups them into shipments.
type Order struct {
	OrderID     string
	Destination string
	WeightKg    float64
	Priority    string
}
