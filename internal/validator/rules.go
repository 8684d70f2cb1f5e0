package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	RgxEmail = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+\\/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

	// RgxName allows letters and spaces only, same rule the mobile apps enforce.
	RgxName = regexp.MustCompile(`^[a-zA-Z ]+$`)

	// RgxUserTag is the public username: letters, numbers, underscores and periods.
	RgxUserTag = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)

	// RgxBvn matches a Bank Verification Number, always exactly 11 digits.
	RgxBvn = regexp.MustCompile(`^[0-9]{11}$`)

	RgxHexadecimal = regexp.MustCompile(`^[a-fA-F0-9]+$`)

	RgxAccountNumber = regexp.MustCompile(`^[0-9]{10}$`)
)

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

func MinRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) >= n
}

func MaxRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

func IsEmail(value string) bool {
	if len(value) > 254 {
		return false
	}

	return RgxEmail.MatchString(value)
}
