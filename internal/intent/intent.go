package intent

// ParsedIntent represents the instruction extracted from a triggered message.
type ParsedIntent struct {
	// Instructions is the trimmed text following the trigger keyword,
	// in its original casing. Empty when the keyword had nothing after it.
	Instructions string

	// Keyword is the trigger keyword as configured.
	Keyword string

	// Start and End are the byte offsets of the matched keyword in Raw.
	Start int
	End   int

	// Raw is the original input text.
	Raw string
}

// Matched returns the keyword text exactly as it appeared in Raw.
func (p *ParsedIntent) Matched() string {
	return p.Raw[p.Start:p.End]
}

// Empty reports whether the keyword was found with no instruction after it.
func (p *ParsedIntent) Empty() bool {
	return p.Instructions == ""
}
