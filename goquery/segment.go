package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// SectionMap is an ordered mapping from section title to its text span.
// Insertion order matters: duplicate suppression tests whether a new title
// is a substring of an already-recorded one, collapsing synonymous
// numbering like "一、" and "项目基本情况".
type SectionMap struct {
	titles   []string
	sections map[string]string
}

// NewSectionMap returns an empty SectionMap.
func NewSectionMap() *SectionMap {
	return &SectionMap{sections: make(map[string]string)}
}

// Set records a section, replacing any existing text under the same title.
func (m *SectionMap) Set(title, text string) {
	if _, ok := m.sections[title]; !ok {
		m.titles = append(m.titles, title)
	}
	m.sections[title] = text
}

// Append adds text to an existing section or creates it.
func (m *SectionMap) Append(title, text string) {
	if existing, ok := m.sections[title]; ok {
		m.sections[title] = existing + "\n" + text
		return
	}
	m.Set(title, text)
}

// Get returns the text recorded under title.
func (m *SectionMap) Get(title string) (string, bool) {
	text, ok := m.sections[title]
	return text, ok
}

// Titles returns the section titles in insertion order.
func (m *SectionMap) Titles() []string {
	return m.titles
}

// Len returns the number of recorded sections.
func (m *SectionMap) Len() int {
	return len(m.titles)
}

// hasOverlapping reports whether a recorded title contains or is contained
// by the candidate title.
func (m *SectionMap) hasOverlapping(title string) bool {
	for _, existing := range m.titles {
		if strings.Contains(existing, title) || strings.Contains(title, existing) {
			return true
		}
	}
	return false
}

// segmentByMarkers treats every strong element as a section-title anchor
// and collects sibling content until the next anchor.
func segmentByMarkers(container *goquery.Selection) *SectionMap {
	sections := NewSectionMap()

	// Some pages nest the real content one div deeper.
	content := container
	if inner := container.Find("div").First(); inner.Length() > 0 && inner.Find("strong").Length() > 0 {
		content = inner
	}

	strongs := content.Find("strong")
	if strongs.Length() == 0 {
		return sections
	}

	strongs.Each(func(_ int, strong *goquery.Selection) {
		title := strings.TrimSpace(strong.Text())
		if title == "" || len(strong.Nodes) == 0 {
			return
		}

		// A strong inside a paragraph anchors the whole paragraph.
		anchor := strong.Nodes[0]
		if parent := anchor.Parent; parent != nil && isElement(parent, "p") {
			anchor = parent
		}

		var sb strings.Builder
		eachSibling(anchor, isNextAnchor, func(n *html.Node) {
			text := nodeText(n)
			if text == "" {
				return
			}
			sb.WriteString(text)
			if !strings.HasSuffix(text, "\n") && !strings.HasSuffix(text, " ") {
				sb.WriteString(" ")
			}
		})

		text := strings.TrimSpace(strings.ReplaceAll(sb.String(), " ", " "))
		text = collapseLineSpaces(text)
		if text == "" {
			return
		}
		if sections.hasOverlapping(title) {
			return
		}
		sections.Set(title, text)
	})

	return sections
}

// isNextAnchor reports whether n starts the next section: a strong element
// or a paragraph containing one.
func isNextAnchor(n *html.Node) bool {
	if isElement(n, "strong") {
		return true
	}
	return isElement(n, "p") && containsElement(n, "strong")
}

// tableRowLabels maps a label occurring in a table row to the section title
// the row is filed under.
var tableRowLabels = []struct {
	label string
	title string
}{
	{"项目编号：", "项目编号"},
	{"项目名称：", "项目名称"},
	{"预算金额：", "预算金额"},
	{"采购人名称：", "采购人信息"},
	{"采购代理机构全称：", "代理机构信息"},
	{"获取文件时间：", "获取招标文件"},
	{"投标截止时间：", "投标截止时间"},
	{"开标时间：", "开标时间"},
	{"开标地点：", "开标地点"},
}

// segmentByTable files rows of a tabular container under their recognized
// field labels. When no label matches, the whole table becomes a single
// overview section.
func segmentByTable(container *goquery.Selection) *SectionMap {
	sections := NewSectionMap()

	table := container.Find("table").First()
	if table.Length() == 0 {
		return sections
	}

	var all strings.Builder
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		rowText := strings.TrimSpace(row.Text())
		if rowText == "" {
			return
		}
		all.WriteString(rowText)
		all.WriteString("\n")

		for _, entry := range tableRowLabels {
			if strings.Contains(rowText, entry.label) {
				sections.Set(entry.title, rowText)
				break
			}
		}
	})

	if sections.Len() == 0 && all.Len() > 0 {
		sections.Set(sectionTitleOverview, strings.TrimSpace(all.String()))
	}
	return sections
}

// chapterLineRe matches a line that opens a numbered chapter.
var chapterLineRe = regexp.MustCompile(`^\s*[一二三四五六七八九十]、\s*`)

// chapterLineNames are bare chapter headings recognized without numbering.
var chapterLineNames = []string{
	"项目基本情况",
	"申请人资格要求",
	"获取招标文件",
	"提交投标文件截止时间、开标时间和地点",
	"公告期限",
	"其他补充事宜",
	"对本次招标提出询问",
	"联系方式",
	"项目概况",
}

// segmentByLines flattens line-break markup to newlines and treats any line
// matching a chapter pattern as a section header. Lines before the first
// header accumulate into the overview.
func segmentByLines(container *goquery.Selection) *SectionMap {
	sections := NewSectionMap()

	var currentTitle string
	var current strings.Builder

	flush := func() {
		if currentTitle == "" {
			return
		}
		if text := strings.TrimSpace(current.String()); text != "" {
			sections.Set(currentTitle, text)
		}
		current.Reset()
	}

	for _, line := range strings.Split(flattenedText(container), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if isChapterLine(line) {
			flush()
			currentTitle = line
			continue
		}

		if currentTitle != "" {
			current.WriteString(line)
			current.WriteString("\n")
			continue
		}

		// Before the first header everything belongs to the overview.
		sections.Append(sectionTitleOverview, line)
	}
	flush()

	return sections
}

func isChapterLine(line string) bool {
	if chapterLineRe.MatchString(line) {
		return true
	}
	for _, name := range chapterLineNames {
		if strings.HasPrefix(line, name) {
			return true
		}
	}
	return false
}
