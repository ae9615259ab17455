package tenderparse

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount parsing recognizes the formats announcement pages actually use:
// "预算金额：200万元", "200万", "100,000.00元", "100.5w" and bare numbers.
var (
	labeledWanRe = regexp.MustCompile(`预算金额[：:]\s*([\d,.]+)\s*(万元|万|[wW])`)
	bareWanRe    = regexp.MustCompile(`([\d,.]+)\s*(万元|万|[wW])`)
	bareYuanRe   = regexp.MustCompile(`([\d,.]+)\s*(元|圆|RMB|￥|¥)?`)
)

var tenThousand = decimal.NewFromInt(10000)

// ParseAmount converts free text into a canonical amount in yuan, the base
// currency unit. Any 万/万元 multiplier is resolved here; it never leaks into
// the returned value. The result is rounded to two decimal places.
//
// The second return value is false when the text holds no parseable amount.
// ParseAmount never panics on malformed input.
func ParseAmount(text string) (decimal.Decimal, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, false
	}

	// Labeled 万-denominated amount, the dominant form on standard pages.
	if m := labeledWanRe.FindStringSubmatch(text); m != nil {
		if n, ok := parseNumber(m[1]); ok {
			return n.Mul(tenThousand).Round(2), true
		}
	}

	// Bare 万-denominated amount anywhere in the text.
	if m := bareWanRe.FindStringSubmatch(text); m != nil {
		if n, ok := parseNumber(m[1]); ok {
			return n.Mul(tenThousand).Round(2), true
		}
	}

	// Yuan-denominated or bare number.
	if m := bareYuanRe.FindStringSubmatch(text); m != nil {
		if n, ok := parseNumber(m[1]); ok {
			// The unit token escaped the regex but the text still says 万:
			// treat the value as 万-denominated rather than storing an
			// implausibly small amount.
			if n.LessThan(tenThousand) && strings.Contains(text, "万") {
				n = n.Mul(tenThousand)
			}
			return n.Round(2), true
		}
	}

	return decimal.Zero, false
}

// parseNumber parses a digit group, tolerating thousands separators.
func parseNumber(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.Trim(s, ".")
	if s == "" {
		return decimal.Zero, false
	}
	n, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return n, true
}
