package csv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
	"github.com/vsinha/fsminspect/pkg/domain/services"
)

// File names looked up inside a scenario directory
const (
	DocumentTextFile = "document.txt"
	SpecRowsFile     = "spec_rows.csv"
	ActualsFile      = "actuals.csv"
	HeaderFile       = "header.csv"
	AuxiliaryFile    = "aux_checks.csv"
)

// ScenarioFiles names the input files of one inspection. Empty paths are skipped.
type ScenarioFiles struct {
	Text      string
	SpecRows  string
	Actuals   string
	Header    string
	Auxiliary string
}

// ScenarioFilesIn returns the files present in dir
func ScenarioFilesIn(dir string) (ScenarioFiles, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return ScenarioFiles{}, fmt.Errorf("failed to open scenario directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return ScenarioFiles{}, fmt.Errorf("scenario path %s is not a directory", dir)
	}

	existing := func(name string) string {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			return ""
		}
		return path
	}
	return ScenarioFiles{
		Text:      existing(DocumentTextFile),
		SpecRows:  existing(SpecRowsFile),
		Actuals:   existing(ActualsFile),
		Header:    existing(HeaderFile),
		Auxiliary: existing(AuxiliaryFile),
	}, nil
}

// Paths lists the non-empty file paths
func (f ScenarioFiles) Paths() []string {
	var paths []string
	for _, p := range []string{f.Text, f.SpecRows, f.Actuals, f.Header, f.Auxiliary} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// Scenario is the raw input of one inspection before it becomes a document
type Scenario struct {
	Header        entities.HeaderInfo
	HeaderActuals entities.HeaderActuals
	Rows          []entities.SpecRow
	Actuals       map[int]entities.ActualMeasurement
	Auxiliary     []entities.AuxiliaryCheck
}

// ErrNoSpecRows is returned when neither a text layer nor a spec rows CSV yields rows
var ErrNoSpecRows = errors.New("no spec rows found")

// LoadScenario reads every named file. Header and rows come from the
// extracted text first; a header or spec rows CSV overrides them.
func (l *Loader) LoadScenario(files ScenarioFiles) (*Scenario, error) {
	sc := &Scenario{Actuals: map[int]entities.ActualMeasurement{}}

	if files.Text != "" {
		data, err := os.ReadFile(files.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to read document text %s: %w", files.Text, err)
		}
		text := string(data)
		sc.Header = services.NewHeaderExtractor().ExtractHeader(text)
		if sc.Rows, err = services.NewTableDetector().DetectTableRows(text); err != nil {
			return nil, fmt.Errorf("document text %s: %w", files.Text, err)
		}
	}

	if files.Header != "" {
		header, actuals, err := l.LoadHeader(files.Header)
		if err != nil {
			return nil, err
		}
		sc.Header = mergeHeader(sc.Header, header)
		sc.HeaderActuals = actuals
	}

	if files.SpecRows != "" {
		rows, err := l.LoadSpecRows(files.SpecRows)
		if err != nil {
			return nil, err
		}
		sc.Rows = rows
	}

	if len(sc.Rows) == 0 {
		return nil, ErrNoSpecRows
	}

	if files.Actuals != "" {
		actuals, err := l.LoadActuals(files.Actuals)
		if err != nil {
			return nil, err
		}
		sc.Actuals = actuals
	}

	if files.Auxiliary != "" {
		checks, err := l.LoadAuxiliaryChecks(files.Auxiliary)
		if err != nil {
			return nil, err
		}
		sc.Auxiliary = checks
	}

	return sc, nil
}

// Document builds the inspection document, placing each actual in the slot
// of the row with the same sequence number
func (sc *Scenario) Document() (entities.InspectionDocument, error) {
	doc, err := entities.NewInspectionDocument(sc.Header, sc.Rows)
	if err != nil {
		return doc, err
	}

	seqs := make([]int, 0, len(sc.Actuals))
	for seq := range sc.Actuals {
		seqs = append(seqs, seq)
	}
	sort.Ints(seqs)

	for _, seq := range seqs {
		idx, ok := doc.IndexOfSeq(seq)
		if !ok {
			return doc, fmt.Errorf("actual for seq %d has no matching spec row", seq)
		}
		if doc, err = doc.WithActual(idx, sc.Actuals[seq]); err != nil {
			return doc, err
		}
	}

	if doc, err = doc.WithAuxiliaryChecks(sc.Auxiliary); err != nil {
		return doc, err
	}
	return doc.WithHeaderActuals(sc.HeaderActuals), nil
}

// mergeHeader overlays the present fields of override onto base
func mergeHeader(base, override entities.HeaderInfo) entities.HeaderInfo {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setString(&base.PartNumber, override.PartNumber)
	setString(&base.Level, override.Level)
	setString(&base.Hand, override.Hand)
	setString(&base.FormatNo, override.FormatNo)
	setString(&base.KBCode, override.KBCode)
	setString(&base.PCCode, override.PCCode)
	if override.FsmLength.Valid {
		base.FsmLength = override.FsmLength
	}
	if override.RootWidth.Valid {
		base.RootWidth = override.RootWidth
	}
	if override.TotalHoles.Valid {
		base.TotalHoles = override.TotalHoles
	}
	return base
}
