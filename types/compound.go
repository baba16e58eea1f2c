package types

// CompoundEntry is a word of the list that splits into two or more other
// words of the same list.
type CompoundEntry struct {
	Word      string   `json:"word"`
	PartCount int      `json:"partCount"`
	Parts     []string `json:"parts"`
}
