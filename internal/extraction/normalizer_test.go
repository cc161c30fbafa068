package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codewithvis/Spend-Wise/internal/model"
)

func TestSuggestCategoryOffline(t *testing.T) {
	tests := []struct {
		description string
		want        model.Category
	}{
		{"WOOLWORTHS 1234 SYDNEY", model.CategoryGroceries},
		{"POS STARBUCKS #4821", model.CategoryDining},
		{"UBER EATS PTY LTD", model.CategoryDining},
		{"NETFLIX.COM", model.CategoryEntertainment},
		{"Shell Service Station", model.CategoryTransportation},
		{"MONTHLY RENT PAYMENT", model.CategoryRent},
		{"ACME CORP PAYROLL", model.CategorySalary},
		{"Corner Cafe", model.CategoryDining},
		{"completely unknown merchant xyz", model.CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got := SuggestCategoryOffline(tt.description)
			assert.Equal(t, tt.want, got.Category)
		})
	}
}

func TestSuggestCategoryOffline_Confidence(t *testing.T) {
	merchant := SuggestCategoryOffline("NETFLIX.COM")
	keyword := SuggestCategoryOffline("some random cafe")
	unknown := SuggestCategoryOffline("zzzz")

	assert.Greater(t, merchant.Confidence, keyword.Confidence)
	assert.Greater(t, keyword.Confidence, unknown.Confidence)
}

func TestFormatDescription(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"POS WOOLWORTHS 123456789 METRO", "Woolworths Metro"},
		{"uber trip sydney", "Uber Trip Sydney"},
		{"ACME PTY", "Acme"},
		{"**REF#123456789**", "Ref"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDescription(tt.in))
		})
	}
}

func TestFormatDescription_FullyStrippedFallsBack(t *testing.T) {
	// A description that cleans down to nothing keeps its raw trimmed form.
	assert.Equal(t, "# 123456789", FormatDescription("  # 123456789  "))
}
