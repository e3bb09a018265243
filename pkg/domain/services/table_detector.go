package services

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
)

var tableLinePattern = regexp.MustCompile(`^\d+\s`)

// Column order of a table line: seq press selector ref x specYZ specDia...
const (
	colPress = 1 + iota
	colSelector
	colRef
	colX
	colSpecYZ
	colSpecDia
)

// TableDetector pulls measurement rows out of extracted document text
type TableDetector struct{}

// NewTableDetector creates a new table detector
func NewTableDetector() *TableDetector {
	return &TableDetector{}
}

// DetectTableRows returns one SpecRow per line that starts with a number.
// Rows are numbered by position. Nothing is invented when no line matches.
func (d *TableDetector) DetectTableRows(text string) ([]entities.SpecRow, error) {
	var rows []entities.SpecRow
	for _, line := range strings.Split(norm.NFKC.String(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !tableLinePattern.MatchString(line) {
			continue
		}
		rows = append(rows, rowFromTokens(len(rows)+1, strings.Fields(line)))
	}

	if len(rows) > entities.MaxRows {
		return nil, fmt.Errorf("%w: detected %d table lines, maximum is %d",
			entities.ErrTooManyRows, len(rows), entities.MaxRows)
	}
	return rows, nil
}

func rowFromTokens(seq int, tokens []string) entities.SpecRow {
	token := func(i int) string {
		if i < len(tokens) {
			return tokens[i]
		}
		return ""
	}

	row := entities.SpecRow{
		Seq:        seq,
		Press:      token(colPress),
		SelectorID: token(colSelector),
		Ref:        token(colRef),
		X:          ParseMeasurement(token(colX)),
		SpecYZ:     ParseMeasurement(token(colSpecYZ)),
	}
	// "9 x 12" is split by the tokenizer, so the tail is rejoined
	if len(tokens) > colSpecDia {
		row.SpecDiaRaw = strings.Join(tokens[colSpecDia:], "")
	}
	return row
}
