package detect

import (
	"strconv"
	"strings"
)

const hexDigits = "0123456789abcdefABCDEF"

func onlyOf(s, set string) bool {
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(set, s[i]) < 0 {
			return false
		}
	}
	return true
}

// Suggest 根据长度与字母表给出修复建议，没有建议时返回空串
func Suggest(text string) string {
	s := strings.TrimSpace(text)
	switch {
	case s == "":
		return "input is empty"
	case len(s) == 32 && onlyOf(s, hexDigits):
		return "looks like a UUID without dashes; add dashes (8-4-4-4-12)"
	case len(s) == 36 && strings.Count(s, "-") == 4:
		return "looks like a UUID; check for non-hex characters or misplaced dashes"
	case len(s) == 26 && strings.ContainsAny(strings.ToUpper(s), "ILOU"):
		return "ULID excludes the letters I, L, O and U"
	case len(s) == 26 && s[0] > '7':
		return "26-character ULID/TypeID values must start with 0-7"
	case onlyOf(s, "0123456789"):
		return suggestDecimal(s)
	case strings.IndexByte(s, '_') > 0:
		if i := strings.LastIndexByte(s, '_'); len(s)-i-1 != 26 {
			return "TypeID suffix must be 26 characters"
		}
		return "TypeID prefix must be lowercase letters and underscores"
	}
	return ""
}

func suggestDecimal(s string) string {
	if _, err := strconv.ParseUint(s, 10, 63); err != nil {
		return "number exceeds the 63-bit Snowflake range"
	}
	if len(s) < 15 {
		return "Snowflake IDs have 15 to 19 digits; pass a snowflake hint for shorter values"
	}
	return ""
}
