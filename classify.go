package tenderparse

// Family identifies the authoring template class a document belongs to.
// The family drives which segmentation strategy applies.
type Family string

// Known structural families.
const (
	FamilyStandard    Family = "standard"
	FamilyWordStyle   Family = "word_style"
	FamilyTable       Family = "table"
	FamilyNonStandard Family = "non_standard"
)

// Verdict is the outcome of classifying a document, together with the
// evidence used to reach it. It is internal to the pipeline and never
// persisted.
type Verdict struct {
	Family Family

	// Evidence.
	HasRequiredFields   bool
	StandardSectionHits int
	StrongTagCount      int
	Excluded            bool

	// Reason is a short human-readable explanation for non-standard
	// verdicts, surfaced on skipped records.
	Reason string
}

// Standard reports whether the document cleared every gate for the
// standard template family.
func (v Verdict) Standard() bool {
	return v.Family == FamilyStandard
}
