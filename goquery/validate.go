package goquery

import (
	"regexp"
	"strings"

	"github.com/hweisong/tenderparse"
)

// projectNameSuffixes are announcement-type boilerplate suffixes trimmed
// off project names.
var projectNameSuffixes = []string{
	"招标公告", "采购公告", "竞争性谈判公告", "单一来源公告",
	"询价公告", "成交公告", "公示", "通知",
	"项目名称：", "项目名称:", "项目名称",
	"名称：", "名称:", "名称",
}

var (
	leakedOrdinalFieldRe = regexp.MustCompile(`\s*\d+\..*$`)
	namePrefixRes        = []*regexp.Regexp{
		regexp.MustCompile(`^公告[：:]\s*`),
		regexp.MustCompile(`^项目名称[：:]\s*`),
		regexp.MustCompile(`^项目[：:]\s*`),
	}
	nameTrailerRes = []*regexp.Regexp{
		regexp.MustCompile(`发布时间.*$`),
		regexp.MustCompile(`\d{4}-\d{2}-\d{2}.*$`),
		regexp.MustCompile(`采购项目$`),
	}
)

// cleanProjectName truncates a project name at leaked following fields and
// strips announcement-type boilerplate.
func cleanProjectName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}

	// A following numbered field that leaked into the value.
	if idx := strings.Index(name, "项目预算金额"); idx > 0 {
		name = strings.TrimSpace(name[:idx])
	}
	name = strings.TrimSpace(leakedOrdinalFieldRe.ReplaceAllString(name, ""))

	for _, re := range namePrefixRes {
		name = re.ReplaceAllString(name, "")
	}
	for _, re := range nameTrailerRes {
		name = re.ReplaceAllString(name, "")
	}
	for _, suffix := range projectNameSuffixes {
		name = strings.TrimSuffix(name, suffix)
		name = strings.TrimSpace(name)
	}

	return collapseSpaces(name)
}

// areaKeywords are the regional names recognized inside project names. 大厂
// maps to its full autonomous-county name rather than the literal match.
var areaKeywords = []string{
	"邯郸", "石家庄", "保定", "唐山", "邢台", "秦皇岛",
	"张家口", "承德", "沧州", "廊坊", "衡水", "定州", "辛集", "大厂",
}

// repair is the post-hoc validation pass: it cleans already-present values,
// caps lengths and fills area and project name from what is known. It never
// raises the record's status and never fabricates amounts or dates.
func repair(rec *tenderparse.ParsedRecord, hint string, cfg tenderparse.Config) {
	if rec.ProjectName == "" && hint != "" {
		rec.ProjectName = hint
	}
	if rec.ProjectName != "" {
		rec.ProjectName = cleanProjectName(rec.ProjectName)
	}

	truncate(&rec.ProjectName, cfg.MaxProjectNameLen)
	truncate(&rec.PurchaserName, cfg.MaxPartyNameLen)
	truncate(&rec.PurchaserAddress, cfg.MaxAddressLen)
	truncate(&rec.AgentName, cfg.MaxPartyNameLen)
	truncate(&rec.AgentAddress, cfg.MaxAddressLen)
	truncate(&rec.ProjectContactName, cfg.MaxContactNameLen)
	truncate(&rec.TenderMethod, cfg.MaxTenderMethodLen)
	truncate(&rec.Area, cfg.MaxAreaLen)
	truncate(&rec.OpeningVenue, cfg.MaxVenueLen)

	if rec.Area == "" && rec.ProjectName != "" {
		rec.Area = inferArea(rec.ProjectName)
	}
}

// truncate caps s at limit runes. Truncation is always at a rune boundary.
func truncate(s *string, limit int) {
	if limit <= 0 {
		return
	}
	runes := []rune(*s)
	if len(runes) > limit {
		*s = string(runes[:limit])
	}
}

// inferArea scans a project name for a regional keyword.
func inferArea(projectName string) string {
	for _, keyword := range areaKeywords {
		if strings.Contains(projectName, keyword) {
			if strings.Contains(keyword, "厂") {
				return "大厂回族自治县"
			}
			return keyword + "市"
		}
	}
	return ""
}
