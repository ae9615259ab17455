package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hweisong/tenderparse"
	"golang.org/x/net/html"
)

// Word-processor exports mark sections with h2 headings and hold field
// values either in plain "label：value" paragraphs or inside underline
// spans with the label in the preceding text nodes.

// parseWordStyle extracts a word-style document: the basic-info chapter is
// mapped field by field, the remaining chapters are collected into sections
// and processed like their standard-family counterparts.
func parseWordStyle(container *goquery.Selection, rec *tenderparse.ParsedRecord) {
	parseWordBasicInfo(container, rec)

	sections := segmentByHeadings(container)
	for _, title := range sections.Titles() {
		text, _ := sections.Get(title)
		processSection(title, text, rec)
	}
}

// isWordBasicInfoHeading reports whether an h2 opens the basic-info chapter.
func isWordBasicInfoHeading(text string) bool {
	return strings.Contains(text, "项目基本情况") || strings.Contains(text, "一、")
}

// parseWordBasicInfo walks the paragraphs between the basic-info heading
// and the next heading, mapping each onto canonical fields.
func parseWordBasicInfo(container *goquery.Selection, rec *tenderparse.ParsedRecord) {
	var heading *goquery.Selection
	container.Find("h2").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if isWordBasicInfoHeading(strings.TrimSpace(h.Text())) {
			heading = h
			return false
		}
		return true
	})
	if heading == nil || len(heading.Nodes) == 0 {
		return
	}

	var paragraphs []*html.Node
	eachSibling(heading.Nodes[0], func(n *html.Node) bool {
		return isElement(n, "h2")
	}, func(n *html.Node) {
		if !isElement(n, "p") {
			return
		}
		text := strings.TrimSpace(subtreeText(n))
		if text == "" || !strings.ContainsAny(text, "：:") {
			return
		}
		paragraphs = append(paragraphs, n)
	})

	for _, p := range paragraphs {
		if underlines := underlineNodes(p); len(underlines) > 0 {
			parseUnderlinedParagraph(underlines, rec)
			continue
		}
		parsePlainParagraph(strings.TrimSpace(subtreeText(p)), rec)
	}

	// The budget and the price cap sometimes share one line.
	for _, p := range paragraphs {
		text := strings.TrimSpace(subtreeText(p))
		if strings.Contains(text, "项目预算金额") && strings.Contains(text, "最高限价") {
			parseBudgetCapLine(text, rec)
		}
	}
}

// underlineNodes collects the u elements directly under a paragraph.
func underlineNodes(p *html.Node) []*html.Node {
	var nodes []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if isElement(n, "u") {
			nodes = append(nodes, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return nodes
}

var (
	leadingOrdinalRe = regexp.MustCompile(`\d+\.`)
	leadingPunctRe   = regexp.MustCompile(`^[、.]`)
)

// parseUnderlinedParagraph maps each underlined value using the field label
// recovered from the text nodes preceding the underline span.
func parseUnderlinedParagraph(underlines []*html.Node, rec *tenderparse.ParsedRecord) {
	for _, u := range underlines {
		label := precedingText(u)
		label = leadingOrdinalRe.ReplaceAllString(label, "")
		label = strings.TrimRight(label, "：:")
		label = leadingPunctRe.ReplaceAllString(label, "")
		label = strings.TrimSpace(label)

		value := strings.TrimSpace(subtreeText(u))
		if label == "" || value == "" {
			continue
		}
		mapWordField(label, value, rec)
	}
}

// parsePlainParagraph maps a "label：value" paragraph.
func parsePlainParagraph(text string, rec *tenderparse.ParsedRecord) {
	label, value, ok := splitAtColon(text)
	if !ok {
		return
	}
	label = leadingOrdinalRe.ReplaceAllString(label, "")
	if label == "" || value == "" {
		return
	}
	mapWordField(label, value, rec)
}

var (
	wordBudgetRe = regexp.MustCompile(`项目预算金额[：:]\s*([^，,]+)`)
)

// parseBudgetCapLine handles the combined budget and price cap line.
func parseBudgetCapLine(text string, rec *tenderparse.ParsedRecord) {
	if rec.BudgetAmount != nil {
		return
	}
	if m := wordBudgetRe.FindStringSubmatch(text); m != nil {
		if amount, ok := tenderparse.ParseAmount(strings.TrimSpace(m[1])); ok {
			rec.BudgetAmount = &amount
		}
	}
}

// mapWordField maps a word-style field label onto the record. It mirrors
// mapField but covers the labels word exports actually use.
func mapWordField(label, value string, rec *tenderparse.ParsedRecord) {
	label = strings.TrimSpace(label)
	value = strings.TrimSpace(value)

	switch {
	case strings.Contains(label, "项目编号"):
		if rec.ProjectNo == "" {
			rec.ProjectNo = strings.TrimSpace(strings.SplitN(value, "，", 2)[0])
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
		strings.Contains(label, "最高投标限价"),
		strings.Contains(label, "控制价"):
		// Cap only; never overrides an explicit budget.
	case strings.Contains(label, "采购需求"):
		if rec.SectionProcurementNeed == "" {
			rec.SectionProcurementNeed = value
		}
	case strings.Contains(label, "招标方式"), strings.Contains(label, "采购方式"):
		if rec.TenderMethod == "" {
			rec.TenderMethod = value
		}
	}
}

// segmentByHeadings collects the h2-anchored chapters of a word-style
// document, skipping the basic-info chapter handled separately.
func segmentByHeadings(container *goquery.Selection) *SectionMap {
	sections := NewSectionMap()

	container.Find("h2").Each(func(_ int, h *goquery.Selection) {
		title := strings.TrimSpace(h.Text())
		if title == "" || isWordBasicInfoHeading(title) || len(h.Nodes) == 0 {
			return
		}

		var sb strings.Builder
		eachSibling(h.Nodes[0], func(n *html.Node) bool {
			return isElement(n, "h2")
		}, func(n *html.Node) {
			var text string
			if n.Type == html.TextNode {
				text = strings.TrimSpace(n.Data)
			} else if n.Type == html.ElementNode {
				text = strings.TrimSpace(subtreeText(n))
			}
			if text != "" {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
		})

		if text := strings.TrimSpace(sb.String()); text != "" {
			sections.Set(title, text)
		}
	})

	return sections
}
