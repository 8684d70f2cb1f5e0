package funcs

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var TemplateFuncs = map[string]any{
	"formatTime":  formatTime,
	"formatMoney": formatMoney,
	"titleCase":   titleCase,
	"upper":       strings.ToUpper,
	"lower":       strings.ToLower,
	"pluralize":   pluralize,
}

func formatTime(format string, t time.Time) string {
	return t.Format(format)
}

func formatMoney(amount float64) string {
	return "₦" + strconv.FormatFloat(amount, 'f', 2, 64)
}

func titleCase(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}

func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
