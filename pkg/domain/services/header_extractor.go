package services

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
)

var (
	partNumberPattern = regexp.MustCompile(`(?i)PART\s*NUMBER\s*/\s*LEVEL\s*/\s*HAND\s*[:\-]?\s*([A-Z0-9\-]+)\s*/\s*([A-Z0-9\-]+)\s*/\s*([A-Z0-9]+)`)
	rootWidthPattern  = regexp.MustCompile(`(?i)ROOT\s*WIDTH.*?(\d+(?:\.\d+)?)\s*mm`)
	fsmLengthPattern  = regexp.MustCompile(`(?i)FSM\s*LENGTH.*?(\d+(?:\.\d+)?)\s*mm`)
	totalHolesPattern = regexp.MustCompile(`(?i)TOTAL\s*HOLES\s*COUNT.*?(\d+)`)
	kbPcPattern       = regexp.MustCompile(`(?i)KB.*?Spec.*?(\d+)\s*/\s*(\d+)`)
	formatNoPattern   = regexp.MustCompile(`(?i)FORMAT\s*NO\.?\s*[:\-]?\s*([A-Z0-9][A-Z0-9/\-]*)`)
)

// HeaderExtractor scans extracted document text for header labels.
// It is best effort: a label that is missing or malformed leaves its field empty.
type HeaderExtractor struct{}

// NewHeaderExtractor creates a new header extractor
func NewHeaderExtractor() *HeaderExtractor {
	return &HeaderExtractor{}
}

// ExtractHeader returns the header fields found in text
func (h *HeaderExtractor) ExtractHeader(text string) entities.HeaderInfo {
	t := norm.NFKC.String(text)
	var header entities.HeaderInfo

	if m := partNumberPattern.FindStringSubmatch(t); m != nil {
		header.PartNumber = m[1]
		header.Level = m[2]
		header.Hand = strings.ToUpper(m[3])
	}
	if m := rootWidthPattern.FindStringSubmatch(t); m != nil {
		header.RootWidth = ParseMeasurement(m[1])
	}
	if m := fsmLengthPattern.FindStringSubmatch(t); m != nil {
		header.FsmLength = ParseMeasurement(m[1])
	}
	if m := totalHolesPattern.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			header.TotalHoles = entities.NewCount(n)
		}
	}
	if m := kbPcPattern.FindStringSubmatch(t); m != nil {
		header.KBCode = m[1]
		header.PCCode = m[2]
	}
	if m := formatNoPattern.FindStringSubmatch(t); m != nil {
		header.FormatNo = m[1]
	}

	return header
}
