package entity

// Category is an entry of the product category catalog. Products store the Value.
type Category struct {
	Value     string `json:"value"`
	Label     string `json:"label"`
	SortOrder int    `json:"sort_order"`
}

// DefaultCategories is the catalog seeded into an empty store.
func DefaultCategories() []*Category {
	return []*Category{
		{Value: "saas", Label: "SaaS", SortOrder: 1},
		{Value: "fintech", Label: "Fintech", SortOrder: 2},
		{Value: "ecommerce", Label: "E-commerce", SortOrder: 3},
		{Value: "edtech", Label: "EdTech", SortOrder: 4},
		{Value: "healthtech", Label: "HealthTech", SortOrder: 5},
		{Value: "foodtech", Label: "FoodTech", SortOrder: 6},
		{Value: "other", Label: "Other", SortOrder: 99},
	}
}
