package matcher

import (
	"strings"
	"unicode"

	"github.com/fixly/repairdiag/internal/core/domain"
)

// abbreviations expands the shorthand customers actually type. Expansions are
// applied token-wise after punctuation stripping.
var abbreviations = map[string]string{
	"mbp":  "macbook pro",
	"mba":  "macbook air",
	"1+":   "oneplus",
	"ps5":  "playstation 5",
	"ps4":  "playstation 4",
	"xsx":  "xbox series x",
	"sgs":  "samsung galaxy s",
	"fone": "phone",
}

// Normalize lowercases, strips punctuation, collapses whitespace and expands
// known abbreviations. Apostrophes are removed rather than replaced so
// "won't" becomes "wont" and stays matchable as one token.
func Normalize(text string) string {
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\'' || r == '’':
			// drop
		case r == '+':
			// keep for the "1+" shorthand
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	tokens := strings.Fields(b.String())
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if exp, ok := abbreviations[tok]; ok {
			out = append(out, strings.Fields(exp)...)
			continue
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

// deviceTypeHints maps generic words to a device category. Used when the text
// names no catalog device but still tells us what kind of hardware it is.
var deviceTypeHints = []struct {
	keyword  string
	category domain.DeviceCategory
}{
	{"laptop", domain.CategoryLaptop},
	{"notebook", domain.CategoryLaptop},
	{"macbook", domain.CategoryLaptop},
	{"thinkpad", domain.CategoryLaptop},
	{"tablet", domain.CategoryTablet},
	{"ipad", domain.CategoryTablet},
	{"console", domain.CategoryConsole},
	{"playstation", domain.CategoryConsole},
	{"xbox", domain.CategoryConsole},
	{"nintendo", domain.CategoryConsole},
	{"iphone", domain.CategoryPhone},
	{"phone", domain.CategoryPhone},
	{"smartphone", domain.CategoryPhone},
	{"mobile", domain.CategoryPhone},
}

// DetectDeviceType returns the hardware class hinted at by normalized text,
// or CategoryNone when nothing matches. First hint wins; the order above puts
// the more specific words first.
func DetectDeviceType(normText string) domain.DeviceCategory {
	for _, h := range deviceTypeHints {
		if containsPhrase(normText, h.keyword) {
			return h.category
		}
	}
	return domain.CategoryNone
}
