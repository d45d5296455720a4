package domain

import "strings"

// Category classifies transactions. Its Type decides which transaction
// type may reference it.
type Category struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Type  TransactionType `json:"type"`
	Color string          `json:"color"`
}

// Validate ensures the category adheres to domain rules
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "category name cannot be empty")
	}
	if !c.Type.Valid() {
		return NewValidationError("type", "category type must be income or expense")
	}
	return nil
}

// UnknownCategory returns the sentinel category used for dangling references
func UnknownCategory(id int64) Category {
	return Category{
		ID:    id,
		Name:  UnknownName,
		Type:  TransactionTypeExpense,
		Color: UnknownColor,
	}
}
