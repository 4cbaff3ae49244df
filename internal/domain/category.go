package domain

// Category is one of the fixed set of request topics. It determines which
// request table a finalized request lands in, so the set is closed: user
// input is parsed into a Category and never reaches a query target directly.
type Category string

const (
	CategoryDocuments Category = "documents"
	CategoryDeadlines Category = "deadlines"
	CategoryPayment   Category = "payment"
)

// Categories returns all valid categories in presentation order.
func Categories() []Category {
	return []Category{CategoryDocuments, CategoryDeadlines, CategoryPayment}
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryDocuments, CategoryDeadlines, CategoryPayment:
		return true
	}
	return false
}

// Label returns the user-facing keyboard label for a category.
func (c Category) Label() string {
	switch c {
	case CategoryDocuments:
		return "по документам"
	case CategoryDeadlines:
		return "по срокам"
	case CategoryPayment:
		return "по оплате"
	}
	return string(c)
}

// CategoryFromLabel maps a keyboard label back to its category.
func CategoryFromLabel(label string) (Category, bool) {
	for _, c := range Categories() {
		if c.Label() == label {
			return c, true
		}
	}
	return "", false
}
