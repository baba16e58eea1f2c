package types

import "text2phenotype.com/compound/utils"

type BaseResponse struct {
	Tid         string `json:"tid"`
	Fingerprint string `json:"fingerprint"`
	WordCount   int    `json:"wordCount"`
}

type CompoundResponse struct {
	BaseResponse
	CompoundCount int             `json:"compoundCount"`
	Longest       *CompoundEntry  `json:"longest"`
	SecondLongest *CompoundEntry  `json:"secondLongest"`
	Top           []CompoundEntry `json:"top"`
}

// NewCompoundResponse summarizes ranked (longest first). Longest and
// SecondLongest stay nil when the list is too short; Top holds at most top
// entries.
func NewCompoundResponse(tid string, words []string, ranked []CompoundEntry, top int) CompoundResponse {
	resp := CompoundResponse{
		BaseResponse: BaseResponse{
			Tid:         tid,
			Fingerprint: utils.FingerprintHex(words),
			WordCount:   len(words),
		},
		CompoundCount: len(ranked),
		Top:           []CompoundEntry{},
	}
	if len(ranked) > 0 {
		resp.Longest = &ranked[0]
	}
	if len(ranked) > 1 {
		resp.SecondLongest = &ranked[1]
	}
	if top > len(ranked) {
		top = len(ranked)
	}
	if top > 0 {
		resp.Top = append(resp.Top, ranked[:top]...)
	}
	return resp
}
