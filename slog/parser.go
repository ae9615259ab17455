package slog

import (
	"log/slog"
	"time"

	"github.com/hweisong/tenderparse"
)

// Ensure LoggingParser implements tenderparse.Parser.
var _ tenderparse.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with debug logging.
type LoggingParser struct {
	next   tenderparse.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next tenderparse.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs the outcome.
func (p *LoggingParser) Parse(infoID, sourceURL, html, hint string) *tenderparse.ParsedRecord {
	begin := time.Now()
	record := p.next.Parse(infoID, sourceURL, html, hint)
	attrs := []any{
		"info_id", infoID,
		"status", string(record.Status),
		"duration", time.Since(begin),
	}
	if record.ErrorMessage != "" {
		attrs = append(attrs, "reason", record.ErrorMessage)
	}
	p.logger.Info("parse", attrs...)
	return record
}
