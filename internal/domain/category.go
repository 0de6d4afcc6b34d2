package domain

import (
	"fmt"
	"time"
)

// KnowledgeItem is a single curated question/answer pair inside a category.
// Items are immutable once loaded into a snapshot.
type KnowledgeItem struct {
	ID        string
	Category  string
	Position  int
	Question  string
	Answer    string
	CreatedAt time.Time
}

// Valid reports whether the item carries both required fields. Records that
// fail this check are skipped during candidate generation, never fatal.
func (i *KnowledgeItem) Valid() bool {
	return i != nil && i.Question != "" && i.Answer != ""
}

// Category is a named, admin-curated bucket of question/answer pairs.
// Item order is preserved for deterministic display and tie-breaking.
type Category struct {
	Name            string
	Department      string
	Enabled         bool
	DisabledMessage string
	Position        int
	Items           []KnowledgeItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CategorySettings is the admin-facing enable/disable view of a category.
type CategorySettings struct {
	Enabled bool
	Message string
}

// DepartmentFor maps a category name to the department used by analytics.
// Unknown categories roll up into General.
func DepartmentFor(category string) string {
	if dept, ok := categoryDepartments[category]; ok {
		return dept
	}
	return "General"
}

var categoryDepartments = map[string]string{
	"fixed_qa":            "General",
	"benefits":            "HR",
	"code_of_conduct":     "HR",
	"leave_policy":        "HR",
	"hr_contacts":         "HR",
	"company_overview":    "General",
	"company_timings":     "HR",
	"it_support":          "IT",
	"it_tools":            "IT",
	"department_info":     "General",
	"departments":         "General",
	"company_policies":    "HR",
	"onboarding_training": "HR",
}

// ValidateCategory validates a Category instance
func ValidateCategory(c *Category) error {
	if c == nil {
		return fmt.Errorf("category cannot be nil")
	}

	if c.Name == "" {
		return ErrInvalidCategoryName
	}

	return nil
}
