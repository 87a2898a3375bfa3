package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

// maxDiffBytes bounds the payload size for which a line diff is rendered.
const maxDiffBytes = 64 << 10

// Comparison is the outcome of comparing reference and extracted payloads.
type Comparison struct {
	Equal bool

	ReferenceLen int
	ExtractedLen int

	ReferenceDigest Digest
	ExtractedDigest Digest

	// FirstDiff is the offset of the first differing byte, or -1 when Equal.
	// When one payload is a prefix of the other it is the shorter length.
	FirstDiff int

	reference []byte
	extracted []byte
}

// Compare compares reference and extracted byte-for-byte.
func Compare(reference, extracted []byte) Comparison {
	c := Comparison{
		ReferenceLen:    len(reference),
		ExtractedLen:    len(extracted),
		ReferenceDigest: ComputeDigest(reference),
		ExtractedDigest: ComputeDigest(extracted),
		FirstDiff:       firstDiff(reference, extracted),
		reference:       reference,
		extracted:       extracted,
	}
	c.Equal = c.FirstDiff < 0
	return c
}

func firstDiff(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}

// Describe renders a human-readable explanation of the comparison.
//
// For small text payloads a unified line diff is appended.
func (c Comparison) Describe() string {
	if c.Equal {
		return fmt.Sprintf("contents match (%d bytes, sha256 %s)", c.ReferenceLen, c.ReferenceDigest.Short())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "contents differ at byte %d\n", c.FirstDiff)
	fmt.Fprintf(&b, "  archive:   %d bytes, sha256 %s\n", c.ReferenceLen, c.ReferenceDigest)
	fmt.Fprintf(&b, "  extracted: %d bytes, sha256 %s\n", c.ExtractedLen, c.ExtractedDigest)

	if diff := c.textDiff(); diff != "" {
		b.WriteString(diff)
	}
	return b.String()
}

func (c Comparison) textDiff() string {
	if len(c.reference) > maxDiffBytes || len(c.extracted) > maxDiffBytes {
		return ""
	}
	if !utf8.Valid(c.reference) || !utf8.Valid(c.extracted) {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(c.reference)),
		B:        difflib.SplitLines(string(c.extracted)),
		FromFile: "archive",
		ToFile:   "extracted",
		Context:  2,
	})
	if err != nil {
		return ""
	}
	return diff
}
