// Package model defines domain types for savings records, goals and the FIRE plan.
package model

// Category is a savings instrument label.
type Category string

const (
	CategoryFD        Category = "FD"
	CategoryInsurance Category = "Insurance"
	CategoryMF        Category = "MF"
	CategoryPPF       Category = "PPF"
	CategoryCash      Category = "CASH"
	CategoryNPS       Category = "NPS"
	CategoryPF        Category = "PF"
	CategoryOthers    Category = "Others"
)

// AllCategory labels the synthetic aggregate across every category.
const AllCategory Category = "ALL"

// Categories is the closed set of instrument labels in display order.
var Categories = []Category{
	CategoryFD,
	CategoryInsurance,
	CategoryMF,
	CategoryPPF,
	CategoryCash,
	CategoryNPS,
	CategoryPF,
	CategoryOthers,
}

// Valid reports whether c belongs to Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// SavingsRecord is one financial instrument held by the user.
// JSON names match the savings.json layout written by the mobile app.
type SavingsRecord struct {
	Name           string     `json:"savingName"`
	Category       Category   `json:"savingType"`
	Amount         float64    `json:"amount"`
	MaturityAmount float64    `json:"maturityAmount"`
	StartDate      Date       `json:"startDate"`
	EndDate        Date       `json:"endDate"`
	Comments       string     `json:"comments"`
	Attachment     Attachment `json:"file,omitempty"`
}

// Interest is the expected gain of a single record.
func (r SavingsRecord) Interest() float64 {
	return r.MaturityAmount - r.Amount
}
