package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hweisong/tenderparse"
)

// requiredFieldLabels must all be present for a page to qualify as a
// standard-template announcement.
var requiredFieldLabels = []string{"项目编号：", "项目名称：", "预算金额："}

// standardSectionTitles are the canonical chapter headings of the standard
// template, numbered forms and their bare synonyms.
var standardSectionTitles = []string{
	"项目概况",
	"一、项目基本情况", "项目基本情况",
	"二、申请人资格要求", "申请人资格要求", "资格要求",
	"三、获取招标文件", "获取招标文件",
	"四、提交投标文件截止时间、开标时间和地点", "提交投标文件截止时间",
	"五、公告期限", "公告期限",
	"六、其他补充事宜", "其他补充事宜",
	"七、对本次招标提出询问", "联系方式",
}

// firstChapterHeading is the literal heading whose presence alone marks a
// standard chapter structure.
const firstChapterHeading = "一、项目基本情况"

// Classifier decides which structural family an announcement page belongs
// to. Thresholds come from the configuration because they were tuned
// against a single portal's templates.
type Classifier struct {
	cfg tenderparse.Config
}

// NewClassifier creates a Classifier with the given tunables.
func NewClassifier(cfg tenderparse.Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify inspects the content container and returns the family verdict
// with the evidence used to reach it.
//
// The exclusion vocabulary vetoes a page even when every positive gate
// passes: excluded formats sometimes coincidentally contain standard
// headings, and they must be skipped rather than mis-parsed. Word-style is
// a sub-choice of the cleared gates: it decides how a qualifying page is
// parsed, never whether it qualifies.
func (c *Classifier) Classify(container *goquery.Selection) tenderparse.Verdict {
	fullText := container.Text()

	v := tenderparse.Verdict{
		StrongTagCount:      container.Find("strong").Length(),
		StandardSectionHits: countSectionTitles(fullText),
	}

	// Tabular layouts without a chapter structure are abbreviated
	// announcements, never the standard template.
	if container.Find("table").Length() > 0 && v.StandardSectionHits < c.cfg.MinStandardSections {
		v.Family = tenderparse.FamilyTable
		v.Reason = "表格式简易公告"
		return v
	}

	v.HasRequiredFields = hasAll(fullText, requiredFieldLabels)

	hasStandardSections := v.StandardSectionHits >= c.cfg.MinStandardSections ||
		v.StrongTagCount >= c.cfg.MinStrongTags ||
		strings.Contains(fullText, firstChapterHeading)

	v.Excluded = isExcludedFormat(fullText)

	switch {
	case v.Excluded:
		v.Family = tenderparse.FamilyNonStandard
		v.Reason = "非标准采购方式公告"
	case !v.HasRequiredFields || !hasStandardSections:
		v.Family = tenderparse.FamilyNonStandard
		v.Reason = "缺少标准模板结构"
	case isWordStyle(container):
		v.Family = tenderparse.FamilyWordStyle
	default:
		v.Family = tenderparse.FamilyStandard
	}
	return v
}

// countSectionTitles counts how many canonical headings occur in the text.
func countSectionTitles(text string) int {
	count := 0
	for _, title := range standardSectionTitles {
		if strings.Contains(text, title) {
			count++
		}
	}
	return count
}

func hasAll(text string, labels []string) bool {
	for _, label := range labels {
		if !strings.Contains(text, label) {
			return false
		}
	}
	return true
}

// isExcludedFormat reports whether the text matches the exclusion
// vocabulary: legitimate announcements outside the standard template that
// must be skipped rather than mis-parsed.
func isExcludedFormat(text string) bool {
	// Single-source procurement in any phrasing.
	for _, marker := range []string{
		"单一来源采购",
		"单一来源公告",
		"采用单一来源采购方式原因及相关说明",
		"拟定供应商信息",
		"单一来源方式进行采购",
	} {
		if strings.Contains(text, marker) {
			return true
		}
	}

	// Negotiated procurement, unless it carries the standard structure.
	if strings.Contains(text, "竞争性谈判公告") &&
		!strings.Contains(text, firstChapterHeading) &&
		!strings.Contains(text, "项目编号：") {
		return true
	}
	if strings.Contains(text, "谈判公告") && !strings.Contains(text, firstChapterHeading) {
		return true
	}
	if strings.Contains(text, "磋商公告") && !strings.Contains(text, "项目编号：") {
		return true
	}

	// Inquiry procurement.
	if strings.Contains(text, "询价采购") || strings.Contains(text, "询价公告") {
		return true
	}

	// Framework agreements and solicitation notices.
	if strings.Contains(text, "框架协议") || strings.Contains(text, "征集公告") {
		return true
	}

	return false
}

// isWordStyle reports whether the container carries word-processor export
// markup: paragraph styling classes or list markers instead of heading tags.
func isWordStyle(container *goquery.Selection) bool {
	if container.Find(".MsoNormal").Length() > 0 {
		return true
	}
	htmlText, err := container.Html()
	if err != nil {
		return false
	}
	return strings.Contains(htmlText, "tab-stops") || strings.Contains(htmlText, "mso-list")
}
