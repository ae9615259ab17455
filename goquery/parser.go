package goquery

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hweisong/tenderparse"
)

// Canonical section titles used as SectionMap keys.
const (
	sectionTitleOverview = "项目概况"
)

// containerSelector locates the core announcement body; its absence is
// fatal to the document.
const containerSelector = "div.ewb-copy"

// Ensure Parser implements tenderparse.Parser at compile time.
var _ tenderparse.Parser = (*Parser)(nil)

// Parser wires classification, segmentation, field mapping and the repair
// pass into the parse pipeline. It is stateless and safe for concurrent
// use; each invocation builds its own document tree and record.
type Parser struct {
	cfg        tenderparse.Config
	classifier *Classifier
}

// NewParser creates a Parser with the given tunables.
func NewParser(cfg tenderparse.Config) *Parser {
	return &Parser{
		cfg:        cfg,
		classifier: NewClassifier(cfg),
	}
}

// Parse converts one announcement page into a ParsedRecord. It never
// returns an error and never panics: unexpected failures anywhere in the
// pipeline are converted to a FAILED record at this boundary.
func (p *Parser) Parse(infoID, sourceURL, html, hint string) (rec *tenderparse.ParsedRecord) {
	rec = &tenderparse.ParsedRecord{
		InfoID:    infoID,
		SourceURL: sourceURL,
		ParseTime: time.Now(),
	}

	defer func() {
		if r := recover(); r != nil {
			rec.Status = tenderparse.StatusFailed
			rec.ErrorMessage = fmt.Sprintf("parse panic: %v", r)
			if rec.ProjectName == "" && hint != "" {
				rec.ProjectName = hint
			}
		}
	}()

	if strings.TrimSpace(html) == "" {
		rec.Status = tenderparse.StatusFailed
		rec.ErrorMessage = "empty document"
		if hint != "" {
			rec.ProjectName = hint
		}
		return rec
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		rec.Status = tenderparse.StatusFailed
		rec.ErrorMessage = fmt.Sprintf("malformed document: %v", err)
		if hint != "" {
			rec.ProjectName = hint
		}
		return rec
	}

	// Publish time and area live in the page chrome, outside the content
	// container, and are extracted regardless of the verdict.
	extractIntro(doc, rec)

	container := doc.Find(containerSelector).First()
	if container.Length() == 0 {
		rec.Status = tenderparse.StatusFailed
		rec.ErrorMessage = "missing core content container"
		extractNonStandard(doc.Find("body"), rec, hint)
		return rec
	}

	verdict := p.classifier.Classify(container)
	if !verdict.Standard() && verdict.Family != tenderparse.FamilyWordStyle {
		rec.Status = tenderparse.StatusSkippedNonStandard
		rec.ErrorMessage = verdict.Reason
		extractNonStandard(container, rec, hint)
		return rec
	}

	if verdict.Family == tenderparse.FamilyWordStyle {
		parseWordStyle(container, rec)
	} else {
		sections := segmentByMarkers(container)
		if sections.Len() == 0 {
			if container.Find("table").Length() > 0 {
				sections = segmentByTable(container)
			} else {
				sections = segmentByLines(container)
			}
		}

		for _, title := range sections.Titles() {
			text, _ := sections.Get(title)
			processSection(title, text, rec)
		}

		if rec.BiddingDeadline == nil {
			if overview, ok := sections.Get(sectionTitleOverview); ok {
				extractDeadlineFromOverview(overview, rec)
			}
		}
	}

	// Text-wide backstop for identity fields the section pass missed.
	if rec.ProjectName == "" || rec.ProjectNo == "" {
		mapBasicInfoFallback(container.Text(), rec)
	}

	repair(rec, hint, p.cfg)
	rec.Status = tenderparse.StatusSuccess
	return rec
}

// processSection routes one named section to its record slot and runs the
// section-specific field extraction.
func processSection(title, content string, rec *tenderparse.ParsedRecord) {
	switch {
	case strings.Contains(title, "项目概况"):
		setIfEmpty(&rec.SectionOverview, content)
	case strings.Contains(title, "项目基本情况"), strings.Contains(title, "一、"):
		setIfEmpty(&rec.SectionBasicInfo, content)
		mapBasicInfo(content, rec)
	case strings.Contains(title, "申请人资格要求"),
		strings.Contains(title, "资格要求"),
		strings.Contains(title, "二、"):
		setIfEmpty(&rec.SectionQualification, content)
	case strings.Contains(title, "获取招标文件"), strings.Contains(title, "三、"):
		setIfEmpty(&rec.SectionDocAcquisition, content)
		extractDocTimeRange(content, rec)
	case strings.Contains(title, "提交投标文件"),
		strings.Contains(title, "投标截止时间"),
		strings.Contains(title, "四、"):
		setIfEmpty(&rec.SectionBiddingSchedule, content)
		extractBiddingSchedule(content, rec)
	case strings.Contains(title, "公告期限"), strings.Contains(title, "五、"):
		setIfEmpty(&rec.SectionAnnouncementPeriod, content)
	case strings.Contains(title, "其他补充事宜"),
		strings.Contains(title, "六、"),
		strings.Contains(title, "七、") && !strings.Contains(title, "询问"):
		setIfEmpty(&rec.SectionOtherMatters, content)
	case strings.Contains(title, "对本次招标提出询问"),
		strings.Contains(title, "联系方式"),
		strings.Contains(title, "八、"):
		setIfEmpty(&rec.SectionContact, content)
		extractContacts(content, rec)
	case strings.Contains(title, "采购需求"):
		setIfEmpty(&rec.SectionProcurementNeed, content)
	case strings.Contains(title, "项目编号"):
		mapBasicInfoFallback(content, rec)
	case strings.Contains(title, "预算金额"):
		mapBasicInfoFallback(content, rec)
	case strings.Contains(title, "开标时间"):
		if rec.OpeningTime == nil {
			if m := nsOpenTimeRe.FindStringSubmatch(content); m != nil {
				if t, ok := tenderparse.ParseDateTime(strings.TrimSpace(m[1])); ok {
					rec.OpeningTime = &t
				}
			}
		}
	case strings.Contains(title, "开标地点"):
		if rec.OpeningVenue == "" {
			if m := nsOpenVenueRe.FindStringSubmatch(content); m != nil {
				rec.OpeningVenue = strings.TrimSpace(m[1])
			}
		}
	case strings.Contains(title, "采购人信息"), strings.Contains(title, "代理机构信息"):
		extractContacts(content, rec)
	}
}

func setIfEmpty(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

var (
	docTimeRangeRe = regexp.MustCompile(`时间[：:]\s*(\d{4}-\d{2}-\d{2})\s*至\s*(\d{4}-\d{2}-\d{2})`)
	scheduleTimeRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}`)

	overviewDeadlineRe = regexp.MustCompile(`于\s*(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2})[（(]北京时间[）)]前递交`)
	publishTimeRe      = regexp.MustCompile(`发布时间[：:]\s*(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2})`)
	areaTrailerRe      = regexp.MustCompile(`[0-9\s].*$`)
	readCountRe        = regexp.MustCompile(`阅读次数.*`)

	venueNoiseRes = []*regexp.Regexp{
		regexp.MustCompile(`技术支持电话[：:].*`),
		regexp.MustCompile(`电话[：:].*`),
		regexp.MustCompile(`\d{3}-\d{4}-\d{4}`),
	}
)

// extractDocTimeRange reads the document-acquisition window. The start day
// opens at midnight and the end day closes at 23:59:59.
func extractDocTimeRange(content string, rec *tenderparse.ParsedRecord) {
	m := docTimeRangeRe.FindStringSubmatch(content)
	if m == nil {
		return
	}
	if start, ok := tenderparse.ParseDateTime(m[1] + " 00:00:00"); ok {
		rec.DocAcquisitionStart = &start
	}
	if end, ok := tenderparse.ParseDateTime(m[2] + " 23:59:59"); ok {
		rec.DocAcquisitionEnd = &end
	}
}

// extractBiddingSchedule reads the submission deadline, opening time and
// opening venue from the bidding-schedule section. On this template the
// deadline and the opening time are the same instant.
func extractBiddingSchedule(content string, rec *tenderparse.ParsedRecord) {
	if m := scheduleTimeRe.FindString(content); m != "" {
		if t, ok := tenderparse.ParseDateTime(m + ":00"); ok {
			if rec.BiddingDeadline == nil {
				rec.BiddingDeadline = &t
			}
			if rec.OpeningTime == nil {
				rec.OpeningTime = &t
			}
		}
	}

	if idx := strings.Index(content, "地点："); idx >= 0 && rec.OpeningVenue == "" {
		venue := content[idx+len("地点："):]
		if nl := strings.IndexByte(venue, '\n'); nl >= 0 {
			venue = venue[:nl]
		}
		rec.OpeningVenue = cleanVenue(venue)
	}
}

// cleanVenue strips support-hotline noise that follows the venue on some
// pages and keeps only the first sentence.
func cleanVenue(venue string) string {
	venue = strings.TrimSpace(venue)
	for _, re := range venueNoiseRes {
		venue = re.ReplaceAllString(venue, "")
	}
	if idx := strings.Index(venue, "。"); idx >= 0 {
		venue = venue[:idx]
	}
	return strings.TrimSpace(venue)
}

// extractDeadlineFromOverview recovers the submission deadline from the
// overview's "…前递交" phrasing when the schedule section lacked one.
func extractDeadlineFromOverview(content string, rec *tenderparse.ParsedRecord) {
	if m := overviewDeadlineRe.FindStringSubmatch(content); m != nil {
		if t, ok := tenderparse.ParseDateTime(m[1] + ":00"); ok {
			rec.BiddingDeadline = &t
		}
	}
}

// extractIntro reads the publish time and area from the page header block
// above the content container.
func extractIntro(doc *goquery.Document, rec *tenderparse.ParsedRecord) {
	intro := doc.Find("div.ewb-info-intro").First()
	if intro.Length() == 0 {
		return
	}

	if rec.PublishTime == nil {
		if m := publishTimeRe.FindStringSubmatch(intro.Text()); m != nil {
			if t, ok := tenderparse.ParseDateTime(m[1]); ok {
				rec.PublishTime = &t
			}
		}
	}

	if rec.Area == "" {
		if info := doc.Find("span#infod").First(); info.Length() > 0 {
			rec.Area = strings.Join(strings.Fields(info.Text()), "")
		} else {
			intro.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
				text := span.Text()
				if !strings.Contains(text, "信息来源") {
					return true
				}
				if _, value, ok := splitAtColon(text); ok {
					value = areaTrailerRe.ReplaceAllString(value, "")
					if value != "" {
						rec.Area = value
						return false
					}
				}
				return true
			})
		}
	}

	if rec.Area != "" {
		area := readCountRe.ReplaceAllString(rec.Area, "")
		area = strings.Join(strings.Fields(area), "")
		rec.Area = strings.Trim(area, "：:")
	}
}
