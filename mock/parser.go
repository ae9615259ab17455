package mock

import (
	"github.com/hweisong/tenderparse"
)

var _ tenderparse.Parser = (*Parser)(nil)

// Parser is a mock implementation of tenderparse.Parser.
type Parser struct {
	ParseFn func(infoID, sourceURL, html, hint string) *tenderparse.ParsedRecord
}

func (p *Parser) Parse(infoID, sourceURL, html, hint string) *tenderparse.ParsedRecord {
	return p.ParseFn(infoID, sourceURL, html, hint)
}
