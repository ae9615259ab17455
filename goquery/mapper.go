package goquery

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hweisong/tenderparse"
)

// knownFieldLabels are the key labels that may open a key-value pair in the
// basic-info section. They double as stop markers when a value bleeds into
// the next pair.
var knownFieldLabels = []string{
	"项目编号", "项目名称", "招标方式", "采购方式",
	"预算金额", "最高限价", "控制价", "最高投标限价",
	"采购需求", "招标范围", "合同履行期限",
	"是否接受联合体投标", "本项目是否接受联合体",
}

// valueStopLabels extend the field labels with section headings; a value
// never runs past any of these.
var valueStopLabels = append(knownFieldLabels[:len(knownFieldLabels):len(knownFieldLabels)],
	"申请人资格要求", "资格要求", "获取招标文件",
	"提交投标文件截止时间", "公告期限", "其他补充事宜",
	"对本次招标提出询问", "联系方式",
)

// mapBasicInfo maps the basic-info section text onto canonical record
// fields. Explicit line-based mapping runs first and wins; a regex fallback
// afterwards only fills gaps or repairs polluted values.
func mapBasicInfo(content string, rec *tenderparse.ParsedRecord) {
	lines := strings.Split(content, "\n")

	// A single unbroken line holding several key-value pairs is re-split
	// at each known label's offset.
	if len(lines) == 1 && strings.Contains(content, "：") {
		lines = splitRunOnPairs(content)
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		label, value, ok := splitAtColon(line)
		if !ok {
			continue
		}
		value = truncateAtNextLabel(value)
		if label == "" || value == "" {
			continue
		}
		mapField(label, value, rec)
	}

	mapBasicInfoFallback(content, rec)
}

// splitAtColon splits a line at its first colon, full-width or half-width.
func splitAtColon(line string) (label, value string, ok bool) {
	idx := strings.IndexAny(line, "：:")
	if idx <= 0 {
		return "", "", false
	}
	sep := 1
	if line[idx] != ':' {
		sep = len("：")
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+sep:]), true
}

// splitRunOnPairs slices a run-on line between consecutive known-label
// offsets, recovering "key: value key2: value2" on one physical line.
func splitRunOnPairs(content string) []string {
	var offsets []int
	for _, label := range knownFieldLabels {
		if pos := strings.Index(content, label); pos >= 0 {
			offsets = append(offsets, pos)
		}
	}
	if len(offsets) == 0 {
		return []string{content}
	}
	sort.Ints(offsets)

	var pairs []string
	for i, start := range offsets {
		end := len(content)
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		if pair := strings.TrimSpace(content[start:end]); pair != "" {
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

// truncateAtNextLabel cuts a value at the start offset of any known label
// found inside it, preventing bleed across adjacent fields.
func truncateAtNextLabel(value string) string {
	next := -1
	for _, label := range valueStopLabels {
		if idx := strings.Index(value, label); idx > 0 && (next == -1 || idx < next) {
			next = idx
		}
	}
	if next > 0 {
		return strings.TrimSpace(value[:next])
	}
	return strings.TrimSpace(value)
}

// mapField maps one cleaned label onto a canonical field using substring
// containment. The first successful mapping per field wins; later duplicate
// labels are ignored.
func mapField(label, value string, rec *tenderparse.ParsedRecord) {
	label = strings.ReplaceAll(label, " ", "")
	label = strings.Trim(label, "：:")

	switch {
	case strings.Contains(label, "项目编号"):
		if rec.ProjectNo == "" {
			rec.ProjectNo = extractPureProjectNo(value)
		}
	case strings.Contains(label, "项目名称"):
		if rec.ProjectName == "" {
			rec.ProjectName = cleanProjectName(value)
		}
	case strings.Contains(label, "预算金额"):
		if rec.BudgetAmount == nil {
			if amount, ok := tenderparse.ParseAmount(value); ok {
				rec.BudgetAmount = &amount
			}
		}
	case strings.Contains(label, "最高限价"),
		strings.Contains(label, "控制价"),
		strings.Contains(label, "最高投标限价"):
		// A price cap folds into the budget when no budget was given.
		if rec.BudgetAmount == nil {
			if amount, ok := tenderparse.ParseAmount(value); ok {
				rec.BudgetAmount = &amount
			}
		}
	case strings.Contains(label, "招标方式"), strings.Contains(label, "采购方式"):
		if rec.TenderMethod == "" {
			rec.TenderMethod = extractPureTenderMethod(value)
		}
	case strings.Contains(label, "采购需求"):
		if rec.SectionProcurementNeed == "" {
			rec.SectionProcurementNeed = value
		}
	}
}

// extractPureProjectNo strips trailing content belonging to other fields
// from a project number value.
func extractPureProjectNo(value string) string {
	for _, stop := range []string{"项目名称", "招标方式", "采购方式", "预算金额", "最高限价"} {
		if idx := strings.Index(value, stop); idx > 0 {
			return strings.TrimSpace(value[:idx])
		}
	}
	if parts := strings.Fields(value); len(parts) > 1 && projectNoShapeRe.MatchString(parts[0]) {
		return parts[0]
	}
	return strings.TrimSpace(value)
}

// extractPureTenderMethod strips trailing content belonging to other fields
// from a tender method value.
func extractPureTenderMethod(value string) string {
	for _, stop := range []string{"预算金额", "最高限价", "采购需求", "合同履行期限"} {
		if idx := strings.Index(value, stop); idx > 0 {
			return strings.TrimSpace(value[:idx])
		}
	}
	return strings.TrimSpace(value)
}

var (
	projectNoShapeRe  = regexp.MustCompile(`[A-Za-z0-9\-]+`)
	projectNoValueRe  = regexp.MustCompile(`项目编号[：:]\s*([A-Za-z0-9\-]+)`)
	projectNameLineRe = regexp.MustCompile(`项目名称[：:][ \t　]*([^\n：:]+)`)
	budgetValueRe     = regexp.MustCompile(`预算金额[：:]\s*[\d,.]+\s*(?:万元|万|[wW]|元|圆)?`)
	tenderMethodRe    = regexp.MustCompile(`(?:招标方式|采购方式)[：:][ \t　]*([^\n：:]+)`)
)

// isFieldLabel reports whether a candidate value is itself a known field
// label, which happens when the label it followed had no value.
func isFieldLabel(value string) bool {
	for _, label := range valueStopLabels {
		if value == label {
			return true
		}
	}
	return false
}

// mapBasicInfoFallback backfills fields still absent or visibly polluted
// after line-based mapping. A value is polluted when a foreign label leaked
// into it, which happens when line splitting failed.
func mapBasicInfoFallback(content string, rec *tenderparse.ParsedRecord) {
	if rec.ProjectNo == "" || strings.Contains(rec.ProjectNo, "项目名称") || strings.Contains(rec.ProjectNo, "招标方式") {
		if m := projectNoValueRe.FindStringSubmatch(content); m != nil {
			no := strings.TrimSpace(m[1])
			if n := len(no); n > 5 && n < 50 {
				rec.ProjectNo = no
			}
		}
	}

	if rec.ProjectName == "" {
		if m := projectNameLineRe.FindStringSubmatch(content); m != nil {
			name := strings.TrimSpace(m[1])
			if n := len([]rune(name)); n > 2 && n < 100 && !isFieldLabel(name) {
				rec.ProjectName = name
			}
		}
	}

	if rec.BudgetAmount == nil {
		if m := budgetValueRe.FindStringSubmatch(content); m != nil {
			if amount, ok := tenderparse.ParseAmount(m[0]); ok {
				rec.BudgetAmount = &amount
			}
		}
	}

	if rec.TenderMethod == "" || strings.Contains(rec.TenderMethod, "预算金额") || strings.Contains(rec.TenderMethod, "采购需求") {
		if m := tenderMethodRe.FindStringSubmatch(content); m != nil {
			method := strings.TrimSpace(m[1])
			if n := len([]rune(method)); n > 1 && n < 50 && !isFieldLabel(method) {
				rec.TenderMethod = method
			}
		}
	}
}
