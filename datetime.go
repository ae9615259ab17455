package tenderparse

import (
	"regexp"
	"strings"
	"time"
)

// dateTimeLayouts are tried in order. Chinese 年月日时分 forms are rewritten
// into the dash form before matching, so one ladder covers both.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
}

var (
	cjkDateSepRe  = regexp.MustCompile(`[年月]`)
	cjkDayRe      = regexp.MustCompile(`[日号]`)
	cjkTimeSepRe  = regexp.MustCompile(`[时分秒]`)
	trailingSepRe = regexp.MustCompile(`[:\s]+$`)
)

// ParseDateTime converts free text into a resolved local instant. Date-only
// inputs resolve to midnight. The second return value is false when the text
// holds no recognizable date.
func ParseDateTime(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	// Page chrome occasionally bleeds into date cells.
	if strings.Contains(text, "阅读次数") || strings.Contains(text, "信息来源") {
		return time.Time{}, false
	}

	normalized := cjkDateSepRe.ReplaceAllString(text, "-")
	normalized = cjkDayRe.ReplaceAllString(normalized, " ")
	normalized = cjkTimeSepRe.ReplaceAllString(normalized, ":")
	normalized = trailingSepRe.ReplaceAllString(normalized, "")
	normalized = strings.TrimSpace(normalized)

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, normalized, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
