package goquery

import (
	"regexp"
	"strings"

	"github.com/hweisong/tenderparse"
)

// Contact sub-block headers in the order they appear in the contact section.
const (
	blockPurchaser = "采购人信息"
	blockAgent     = "采购代理机构信息"
	blockProject   = "项目联系方式"
)

// extractContacts maps the contact section's three labeled sub-blocks onto
// the purchaser, agent and project contact fields. Line-broken sections are
// scanned sequentially, tracking the current sub-block; run-on sections are
// split at the numeric sub-block markers first. A regex fallback recovers
// anything the scan missed.
func extractContacts(content string, rec *tenderparse.ParsedRecord) {
	if strings.TrimSpace(content) == "" {
		return
	}

	lines := strings.Split(content, "\n")
	if len(lines) == 1 {
		lines = splitNumberedBlocks(content)
	}

	block := ""
	for _, line := range lines {
		line = strings.TrimSpace(strings.ReplaceAll(line, "　", " "))
		if line == "" {
			continue
		}

		switch {
		case strings.Contains(line, blockPurchaser):
			block = blockPurchaser
		case strings.Contains(line, blockAgent):
			block = blockAgent
		case strings.Contains(line, blockProject):
			block = blockProject
		}

		scanContactLine(line, block, rec)
	}

	contactRegexFallback(content, rec)
}

// splitNumberedBlocks splits a run-on contact string at the "1." "2." "3."
// sub-block markers so each chunk can be processed independently.
func splitNumberedBlocks(content string) []string {
	var offsets []int
	for _, marker := range []string{"1.", "2.", "3.", "1．", "2．", "3．"} {
		if pos := strings.Index(content, marker); pos >= 0 {
			offsets = append(offsets, pos)
		}
	}
	if len(offsets) == 0 {
		return []string{content}
	}
	for i := range offsets {
		for j := i + 1; j < len(offsets); j++ {
			if offsets[j] < offsets[i] {
				offsets[i], offsets[j] = offsets[j], offsets[i]
			}
		}
	}

	var chunks []string
	if offsets[0] > 0 {
		chunks = append(chunks, content[:offsets[0]])
	}
	for i, start := range offsets {
		end := len(content)
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		chunks = append(chunks, content[start:end])
	}
	return chunks
}

// contactFieldLabels end a value within a sub-block chunk.
var contactFieldLabels = []string{"名称", "地址", "联系方式", "项目联系人", "电话"}

// scanContactLine attributes one name/address/phone line to the current
// sub-block.
func scanContactLine(line, block string, rec *tenderparse.ParsedRecord) {
	set := func(field *string, value string) {
		if *field == "" && value != "" {
			*field = value
		}
	}

	switch {
	case strings.Contains(line, "项目联系人："), strings.Contains(line, "项目联系人:"):
		set(&rec.ProjectContactName, contactValue(line, "项目联系人"))
		return
	case hasLabel(line, "名称"):
		value := contactValue(line, "名称")
		switch block {
		case blockPurchaser:
			set(&rec.PurchaserName, value)
		case blockAgent:
			set(&rec.AgentName, value)
		}
	case hasLabel(line, "地址"):
		value := contactValue(line, "地址")
		switch block {
		case blockPurchaser:
			set(&rec.PurchaserAddress, value)
		case blockAgent:
			set(&rec.AgentAddress, value)
		}
	case hasLabel(line, "联系方式"), hasLabel(line, "电话"):
		value := contactValue(line, "联系方式")
		if value == "" {
			value = contactValue(line, "电话")
		}
		switch block {
		case blockPurchaser:
			set(&rec.PurchaserPhone, value)
		case blockAgent:
			set(&rec.AgentPhone, value)
		case blockProject:
			set(&rec.ProjectContactPhone, value)
		}
	}
}

// hasLabel reports whether the line carries the label with either colon,
// tolerating the full-width space some templates pad labels with.
func hasLabel(line, label string) bool {
	padded := strings.Join(strings.Split(label, ""), " ")
	return strings.Contains(line, label+"：") || strings.Contains(line, label+":") ||
		strings.Contains(line, padded+"：") || strings.Contains(line, padded+":")
}

// contactValue extracts the value following the label's colon, ending at
// the next known field label or the end of the chunk.
func contactValue(line, label string) string {
	idx := strings.Index(line, label)
	if idx < 0 {
		// Padded form.
		padded := strings.Join(strings.Split(label, ""), " ")
		idx = strings.Index(line, padded)
		if idx < 0 {
			return ""
		}
		label = padded
	}
	rest := line[idx+len(label):]
	rest = strings.TrimLeft(rest, " ：:")

	end := len(rest)
	for _, other := range contactFieldLabels {
		if pos := strings.Index(rest, other+"："); pos > 0 && pos < end {
			end = pos
		}
		if pos := strings.Index(rest, other+":"); pos > 0 && pos < end {
			end = pos
		}
	}
	return collapseSpaces(strings.TrimSpace(rest[:end]))
}

// Sub-block-scoped fallback patterns.
var (
	purchaserNameRe  = regexp.MustCompile(`采购人信息[\s\S]*?名称[：:]\s*([^\n]+?)\s*(?:地址|联系方式|$)`)
	purchaserAddrRe  = regexp.MustCompile(`采购人信息[\s\S]*?地址[：:]\s*([^\n]+?)\s*(?:联系方式|电话|$)`)
	purchaserPhoneRe = regexp.MustCompile(`采购人信息[\s\S]*?(?:联系方式|电话)[：:]\s*([\d-]+)`)
	agentNameRe      = regexp.MustCompile(`采购代理机构信息[\s\S]*?名称[：:]\s*([^\n]+?)\s*(?:地址|联系方式|$)`)
	agentAddrRe      = regexp.MustCompile(`采购代理机构信息[\s\S]*?地址[：:]\s*([^\n]+?)\s*(?:联系方式|电话|$)`)
	agentPhoneRe     = regexp.MustCompile(`采购代理机构信息[\s\S]*?(?:联系方式|电话)[：:]\s*([\d-]+)`)
	projectNameRe    = regexp.MustCompile(`项目联系方式[\s\S]*?项目联系人[：:]\s*([^\n]+?)\s*(?:电话|$)`)
	projectPhoneRe   = regexp.MustCompile(`项目联系方式[\s\S]*?电话[：:]\s*([\d-]+)`)
)

// contactRegexFallback recovers unextracted contact fields using
// sub-block-scoped patterns over the flattened section text.
func contactRegexFallback(content string, rec *tenderparse.ParsedRecord) {
	flat := collapseSpaces(strings.ReplaceAll(content, "　", " "))

	fill := func(field *string, re *regexp.Regexp) {
		if *field != "" {
			return
		}
		if m := re.FindStringSubmatch(flat); m != nil {
			*field = collapseSpaces(strings.TrimSpace(m[1]))
		}
	}

	fill(&rec.PurchaserName, purchaserNameRe)
	fill(&rec.PurchaserAddress, purchaserAddrRe)
	fill(&rec.PurchaserPhone, purchaserPhoneRe)
	fill(&rec.AgentName, agentNameRe)
	fill(&rec.AgentAddress, agentAddrRe)
	fill(&rec.AgentPhone, agentPhoneRe)
	fill(&rec.ProjectContactName, projectNameRe)
	fill(&rec.ProjectContactPhone, projectPhoneRe)
}
