package extraction

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/codewithvis/Spend-Wise/internal/model"
)

// CategorySuggestion is an offline category guess for a transaction
// description, used when Gemini is unavailable or not configured.
type CategorySuggestion struct {
	Category   model.Category
	Confidence float64
}

// merchantMappings maps known merchant keywords to categories.
var merchantMappings = map[string]model.Category{
	// Grocery stores
	"woolworths":  model.CategoryGroceries,
	"coles":       model.CategoryGroceries,
	"aldi":        model.CategoryGroceries,
	"costco":      model.CategoryGroceries,
	"safeway":     model.CategoryGroceries,
	"whole foods": model.CategoryGroceries,
	"trader joe":  model.CategoryGroceries,

	// Fast food & restaurants
	"mcdonalds":  model.CategoryDining,
	"mcdonald's": model.CategoryDining,
	"starbucks":  model.CategoryDining,
	"subway":     model.CategoryDining,
	"kfc":        model.CategoryDining,
	"chipotle":   model.CategoryDining,
	"pizza hut":  model.CategoryDining,

	// Food delivery
	"uber eats": model.CategoryDining,
	"doordash":  model.CategoryDining,
	"deliveroo": model.CategoryDining,
	"grubhub":   model.CategoryDining,

	// Transportation
	"uber":    model.CategoryTransportation,
	"lyft":    model.CategoryTransportation,
	"shell":   model.CategoryTransportation,
	"chevron": model.CategoryTransportation,
	"exxon":   model.CategoryTransportation,
	"opal":    model.CategoryTransportation,
	"myki":    model.CategoryTransportation,

	// Entertainment
	"netflix":     model.CategoryEntertainment,
	"spotify":     model.CategoryEntertainment,
	"disney+":     model.CategoryEntertainment,
	"hulu":        model.CategoryEntertainment,
	"hbo max":     model.CategoryEntertainment,
	"playstation": model.CategoryEntertainment,

	// Shopping
	"amazon":  model.CategoryShopping,
	"ebay":    model.CategoryShopping,
	"target":  model.CategoryShopping,
	"walmart": model.CategoryShopping,
	"ikea":    model.CategoryShopping,

	// Utilities
	"verizon":  model.CategoryUtilities,
	"at&t":     model.CategoryUtilities,
	"t-mobile": model.CategoryUtilities,
	"comcast":  model.CategoryUtilities,
	"pg&e":     model.CategoryUtilities,

	// Travel
	"airbnb":      model.CategoryTravel,
	"booking.com": model.CategoryTravel,
	"expedia":     model.CategoryTravel,
	"marriott":    model.CategoryTravel,
	"hilton":      model.CategoryTravel,
	"delta":       model.CategoryTravel,
	"united":      model.CategoryTravel,
}

// categoryKeywords maps generic keywords to categories for fallback.
var categoryKeywords = map[string]model.Category{
	"grocer":      model.CategoryGroceries,
	"supermarket": model.CategoryGroceries,
	"market":      model.CategoryGroceries,

	"restaurant": model.CategoryDining,
	"cafe":       model.CategoryDining,
	"coffee":     model.CategoryDining,
	"bakery":     model.CategoryDining,
	"pizza":      model.CategoryDining,
	"sushi":      model.CategoryDining,
	"bar":        model.CategoryDining,

	"fuel":    model.CategoryTransportation,
	"petrol":  model.CategoryTransportation,
	"gas":     model.CategoryTransportation,
	"parking": model.CategoryTransportation,
	"toll":    model.CategoryTransportation,
	"taxi":    model.CategoryTransportation,
	"train":   model.CategoryTransportation,
	"transit": model.CategoryTransportation,

	"cinema":  model.CategoryEntertainment,
	"movie":   model.CategoryEntertainment,
	"theatre": model.CategoryEntertainment,
	"concert": model.CategoryEntertainment,
	"gaming":  model.CategoryEntertainment,

	"store":       model.CategoryShopping,
	"shop":        model.CategoryShopping,
	"electronics": model.CategoryShopping,
	"clothing":    model.CategoryShopping,

	"electric":  model.CategoryUtilities,
	"water":     model.CategoryUtilities,
	"internet":  model.CategoryUtilities,
	"phone":     model.CategoryUtilities,
	"broadband": model.CategoryUtilities,

	"hotel":   model.CategoryTravel,
	"flight":  model.CategoryTravel,
	"airline": model.CategoryTravel,
	"airport": model.CategoryTravel,

	"rent":     model.CategoryRent,
	"mortgage": model.CategoryRent,
	"lease":    model.CategoryRent,

	"salary":  model.CategorySalary,
	"payroll": model.CategorySalary,
	"wages":   model.CategorySalary,
}

var (
	// Patterns for cleaning transaction descriptions
	prefixPattern = regexp.MustCompile(`(?i)^(pos |eftpos |visa |mastercard |amex |paypal \*)`)
	suffixPattern = regexp.MustCompile(`(?i)\s+(pty|ltd|inc|corp|llc|au|us|uk|nz|sg)\.?$`)
	longNumbers   = regexp.MustCompile(`\d{6,}`)
	specialChars  = regexp.MustCompile(`[*#]+`)
)

// merchantKeys holds the merchant keywords longest-first so "uber eats"
// matches before "uber".
var merchantKeys = func() []string {
	keys := make([]string, 0, len(merchantMappings))
	for k := range merchantMappings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// SuggestCategoryOffline guesses a category for a transaction description
// without calling any model. Known merchants score highest, then generic
// keywords, then Other.
func SuggestCategoryOffline(description string) CategorySuggestion {
	cleaned := cleanDescription(strings.ToLower(description))

	for _, key := range merchantKeys {
		if strings.Contains(cleaned, key) {
			return CategorySuggestion{Category: merchantMappings[key], Confidence: 0.9}
		}
	}

	for keyword, category := range categoryKeywords {
		if strings.Contains(cleaned, keyword) {
			return CategorySuggestion{Category: category, Confidence: 0.6}
		}
	}

	return CategorySuggestion{Category: model.CategoryOther, Confidence: 0.3}
}

// FormatDescription cleans a raw statement description for display: card
// processor prefixes, reference numbers and corporate suffixes are stripped,
// then each word is title-cased.
func FormatDescription(raw string) string {
	cleaned := cleanDescription(raw)
	if cleaned == "" {
		return strings.TrimSpace(raw)
	}

	caser := cases.Title(language.English)
	words := strings.Fields(cleaned)
	for i, word := range words {
		if len(word) > 2 {
			words[i] = caser.String(strings.ToLower(word))
		} else {
			words[i] = strings.ToUpper(word)
		}
	}
	return strings.Join(words, " ")
}

func cleanDescription(s string) string {
	cleaned := prefixPattern.ReplaceAllString(s, "")
	cleaned = suffixPattern.ReplaceAllString(cleaned, "")
	cleaned = longNumbers.ReplaceAllString(cleaned, "")
	cleaned = specialChars.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}
