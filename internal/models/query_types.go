// internal/models/query_types.go
package models

// Category is the router's classification of a query.
type Category string

const (
	CategoryGeneral  Category = "general_research"
	CategoryAcademic Category = "academic_research"
	CategoryProduct  Category = "product_research"
	CategoryGeneric  Category = "generic"
)

// Categories lists every category in aggregation precedence order.
func Categories() []Category {
	return []Category{CategoryGeneral, CategoryAcademic, CategoryProduct, CategoryGeneric}
}

// ParseCategory maps a router label to a Category. Unknown labels are
// reported with ok=false.
func ParseCategory(label string) (Category, bool) {
	for _, c := range Categories() {
		if string(c) == label {
			return c, true
		}
	}
	return "", false
}
