package pantry

import "strings"

// Category classifies an ingredient into the fixed storefront taxonomy.
type Category string

const (
	CategoryProduce   Category = "Produce"
	CategoryDairy     Category = "Dairy & Eggs"
	CategoryMeat      Category = "Meat & Protein"
	CategoryStaples   Category = "Pantry Staples"
	CategoryFrozen    Category = "Frozen"
	CategoryBeverages Category = "Beverages"
	CategoryOther     Category = "Other"
)

// AllCategories lists every valid category in display order.
func AllCategories() []Category {
	return []Category{
		CategoryProduce,
		CategoryDairy,
		CategoryMeat,
		CategoryStaples,
		CategoryFrozen,
		CategoryBeverages,
		CategoryOther,
	}
}

// categoryRule maps name keywords to a category. Rules are evaluated in
// order and the first match wins.
type categoryRule struct {
	category Category
	keywords []string
}

var categoryRules = []categoryRule{
	{CategoryMeat, []string{
		"chicken", "beef", "pork", "lamb", "turkey", "bacon", "sausage",
		"ham", "fish", "salmon", "tuna", "shrimp", "tofu", "steak", "mince",
	}},
	{CategoryDairy, []string{
		"milk", "cheese", "yogurt", "yoghurt", "butter", "egg", "cream",
		"mozzarella", "cheddar", "parmesan",
	}},
	{CategoryProduce, []string{
		"apple", "banana", "orange", "berry", "berries", "grape", "lemon",
		"lime", "tomato", "potato", "onion", "garlic", "carrot", "pepper",
		"lettuce", "spinach", "kale", "broccoli", "cucumber", "avocado",
		"mushroom", "zucchini", "celery", "herb", "cilantro", "parsley", "basil",
	}},
	{CategoryStaples, []string{
		"rice", "pasta", "flour", "sugar", "salt", "oil", "vinegar", "sauce",
		"bean", "lentil", "spice", "cumin", "paprika", "oregano", "cereal",
		"oat", "honey", "stock", "broth", "can", "bread", "bagel", "tortilla",
		"bun", "roll", "croissant",
	}},
	{CategoryBeverages, []string{
		"juice", "soda", "coffee", "tea", "water", "wine", "beer", "kombucha",
	}},
	{CategoryFrozen, []string{
		"frozen", "ice cream", "popsicle",
	}},
}

// Categorize classifies an ingredient name by keyword match. It is
// deterministic and total: any input maps to a valid category, with
// CategoryOther as the fallback.
func Categorize(name string) Category {
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category
			}
		}
	}
	return CategoryOther
}

// ParseCategory maps a raw string onto the taxonomy, defaulting to Other.
func ParseCategory(raw string) Category {
	for _, c := range AllCategories() {
		if strings.EqualFold(raw, string(c)) {
			return c
		}
	}
	return CategoryOther
}
