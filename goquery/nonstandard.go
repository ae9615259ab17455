package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hweisong/tenderparse"
)

// The non-standard extractor is a best-effort pass over pages outside the
// supported template families. It recovers whatever identity, monetary and
// party fields a text-wide scan can find; absent fields stay absent.

var (
	nsProjectNoRe   = regexp.MustCompile(`[A-Za-z0-9\-]{8,30}`)
	nsBudgetRe      = regexp.MustCompile(`(?:预算|金额|投资)[：:]\s*[\d,.]+\s*(?:万元|万|元)?`)
	nsTableNameRe   = regexp.MustCompile(`采购项目名称[：:]\s*([^\n]+)`)
	nsTableNoRe     = regexp.MustCompile(`采购项目编号[：:]\s*([A-Za-z0-9\-]+)`)
	nsTableBudgetRe = regexp.MustCompile(`预算金额[：:]\s*([^\n]+)`)
	nsTableMethodRe = regexp.MustCompile(`采购方式[：:]\s*([^\n]+)`)
	nsPurchaserRe   = regexp.MustCompile(`采购人名称[：:]\s*([^\n]+)`)
	nsAgentRe       = regexp.MustCompile(`采购代理机构全称[：:]\s*([^\n]+)`)
	nsOpenTimeRe    = regexp.MustCompile(`开标时间[：:]\s*([^\n]+)`)
	nsOpenVenueRe   = regexp.MustCompile(`开标地点[：:]\s*([^\n]+)`)

	sentenceSplitRe = regexp.MustCompile(`[。！!；;]`)
	clauseSplitRe   = regexp.MustCompile(`[。！!；;，,]`)

	hasLettersRe = regexp.MustCompile(`[A-Z]`)
	longDigitsRe = regexp.MustCompile(`\d{4,}`)
	hasCJKRe     = regexp.MustCompile(`\p{Han}`)
)

// extractNonStandard recovers partial fields from a page outside the
// standard families. The hint title, when supplied, always wins for the
// project name.
func extractNonStandard(container *goquery.Selection, rec *tenderparse.ParsedRecord, hint string) {
	if container.Find("table").Length() > 0 {
		extractNonStandardTable(container, rec, hint)
		return
	}

	fullText := flattenedText(container)

	if hint != "" {
		rec.ProjectName = hint
	} else if name := projectNameFromLooseText(container, fullText); name != "" {
		rec.ProjectName = name
	}

	if rec.ProjectNo == "" {
		if candidate := nsProjectNoRe.FindString(fullText); candidate != "" {
			if hasLettersRe.MatchString(candidate) || longDigitsRe.MatchString(candidate) {
				rec.ProjectNo = candidate
			}
		}
	}

	if rec.BudgetAmount == nil {
		if m := nsBudgetRe.FindString(fullText); m != "" {
			if amount, ok := tenderparse.ParseAmount(m); ok {
				rec.BudgetAmount = &amount
			}
		}
	}
}

// extractNonStandardTable recovers fields from an abbreviated tabular
// announcement.
func extractNonStandardTable(container *goquery.Selection, rec *tenderparse.ParsedRecord, hint string) {
	fullText := flattenedText(container)

	if hint != "" {
		rec.ProjectName = hint
	} else if m := nsTableNameRe.FindStringSubmatch(fullText); m != nil {
		rec.ProjectName = cleanProjectName(strings.TrimSpace(m[1]))
	}

	fillString := func(field *string, re *regexp.Regexp) {
		if *field != "" {
			return
		}
		if m := re.FindStringSubmatch(fullText); m != nil {
			*field = strings.TrimSpace(m[1])
		}
	}

	fillString(&rec.ProjectNo, nsTableNoRe)
	fillString(&rec.TenderMethod, nsTableMethodRe)
	fillString(&rec.PurchaserName, nsPurchaserRe)
	fillString(&rec.AgentName, nsAgentRe)
	fillString(&rec.OpeningVenue, nsOpenVenueRe)

	if rec.BudgetAmount == nil {
		if m := nsTableBudgetRe.FindStringSubmatch(fullText); m != nil {
			if amount, ok := tenderparse.ParseAmount(strings.TrimSpace(m[1])); ok {
				rec.BudgetAmount = &amount
			}
		}
	}

	if rec.OpeningTime == nil {
		if m := nsOpenTimeRe.FindStringSubmatch(fullText); m != nil {
			if t, ok := tenderparse.ParseDateTime(strings.TrimSpace(m[1])); ok {
				rec.OpeningTime = &t
			}
		}
	}
}

// projectNameFromLooseText tries, in order: a heading element, the first
// sentence, then any sentence mentioning 项目.
func projectNameFromLooseText(container *goquery.Selection, fullText string) string {
	if heading := container.Find("h1, h2, h3, strong").First(); heading.Length() > 0 {
		title := strings.TrimSpace(heading.Text())
		if n := len([]rune(title)); n > 5 && n < 200 {
			if name := cleanProjectName(title); isPlausibleProjectName(name) {
				return name
			}
		}
	}

	sentences := sentenceSplitRe.Split(fullText, -1)
	if len(sentences) > 0 {
		first := strings.TrimSpace(sentences[0])
		if n := len([]rune(first)); n > 10 && n < 100 {
			if name := cleanProjectName(first); isPlausibleProjectName(name) {
				return name
			}
		}
	}

	for _, sentence := range clauseSplitRe.Split(fullText, -1) {
		sentence = strings.TrimSpace(sentence)
		if !strings.Contains(sentence, "项目") {
			continue
		}
		if n := len([]rune(sentence)); n > 5 && n < 80 {
			if name := cleanProjectName(sentence); isPlausibleProjectName(name) {
				return name
			}
		}
	}
	return ""
}

// isPlausibleProjectName filters out sentences that are clearly page
// furniture rather than a project title.
func isPlausibleProjectName(name string) bool {
	n := len([]rune(name))
	if name == "" || n < 3 || n > 100 {
		return false
	}
	for _, marker := range []string{
		"出让标的", "基本情况", "发布时间", "公告期限",
		"联系方式", "采购人", "代理机构",
	} {
		if strings.Contains(name, marker) {
			return false
		}
	}
	return hasCJKRe.MatchString(name)
}
