package models

import "strings"

// Category is a top-level expense category from the fixed taxonomy.
type Category string

const (
	CategoryHousing        Category = "Housing"
	CategoryTransportation Category = "Transportation"
	CategoryFood           Category = "Food"
	CategoryUtilities      Category = "Utilities"
	CategoryHealth         Category = "Health"
	CategoryPersonal       Category = "Personal"
	CategoryEducation      Category = "Education"
	CategoryEntertainment  Category = "Entertainment"
	CategoryTravel         Category = "Travel"
	CategoryEMI            Category = "EMI"
	CategoryMiscellaneous  Category = "Miscellaneous"
)

// TaxonomyEntry pairs a category with its suggested subcategories and the
// number it carries in the classifier prompt.
type TaxonomyEntry struct {
	Number        int
	Category      Category
	SubCategories []string
}

// Taxonomy is the closed category set, in prompt order. The numbering has
// gaps (8 and 11) and is kept as-is because the model has been tuned on it.
var Taxonomy = []TaxonomyEntry{
	{1, CategoryHousing, []string{"Rent", "Taxes", "Insurance", "Utilities", "Repairs", "Improvement", "Fees"}},
	{2, CategoryTransportation, []string{"Payments", "Fuel", "Insurance", "Repairs", "Public", "Parking", "Tolls", "Licensing"}},
	{3, CategoryFood, []string{"Groceries", "Dining", "Coffee", "Delivery", "Snacks"}},
	{4, CategoryUtilities, []string{"Electricity", "Water", "Gas", "Internet", "Cable", "Trash", "Phone"}},
	{5, CategoryHealth, []string{"Insurance", "Dental", "Vision", "Medical", "Prescriptions", "Medications", "Gym", "Wellness"}},
	{6, CategoryPersonal, []string{"Haircuts", "Skincare", "Makeup", "Hygiene", "Clothing"}},
	{7, CategoryEducation, []string{"Tuition", "Books", "Loans", "Courses", "Activities"}},
	{9, CategoryEntertainment, []string{"Subscriptions", "Movies", "Concerts", "Hobbies", "Books"}},
	{10, CategoryTravel, []string{"Flights", "Accommodation", "Transportation", "Insurance", "Food", "Activities", "Souvenirs"}},
	{12, CategoryEMI, []string{"Home loan", "Mobile loan", "Vehicle loan", "Personal loan"}},
	{13, CategoryMiscellaneous, []string{"Gifts", "Pet", "Office", "Services"}},
}

// ParseCategory matches name case-insensitively against the taxonomy and
// returns the canonical spelling.
func ParseCategory(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, e := range Taxonomy {
		if strings.EqualFold(string(e.Category), name) {
			return e.Category, true
		}
	}
	return "", false
}
