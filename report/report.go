// Package report prints the longest compound words of a ranked list.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text2phenotype.com/compound/types"
)

type position struct {
	title string
	none  string
}

var positions = []position{
	{"Longest", "No largest compound words exist in this list."},
	{"Second Longest", "No second largest compound words exist in this list."},
}

// Write renders the longest and second longest entries of ranked (longest
// first) and the number of compound words. Short lists print the matching
// "no ... exist" line instead.
func Write(w io.Writer, ranked []types.CompoundEntry) error {
	var sb strings.Builder
	for i, pos := range positions {
		if i >= len(ranked) {
			sb.WriteString(pos.none + "\n")
			continue
		}
		entry := ranked[i]
		sb.WriteString(fmt.Sprintf("%s compound word found is: \t%q\n", pos.title, entry.Word))
		sb.WriteString(fmt.Sprintf("Concatenated from %d words: %s\n", entry.PartCount, FormatParts(entry.Parts)))
	}
	sb.WriteString(fmt.Sprintf("Number of compound words is %d\n", len(ranked)))

	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatParts renders parts as a bracketed list of quoted words.
func FormatParts(parts []string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = strconv.Quote(p)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
