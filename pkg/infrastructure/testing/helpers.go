package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
	"github.com/vsinha/fsminspect/pkg/domain/services"
)

// Sample document layout (span 2000 mm):
//
//	seq 1  x=150   Ø10   edge zone, within tolerance     -> OK
//	seq 2  x=1000  9×12  mid span, within tolerance      -> OK
//	seq 3  x=1850  Ø13   oversize hole                   -> NOK
//	seq 4  x=1200  Ø11.7 no actual entered               -> undetermined
const (
	SampleRowsOK           = 2
	SampleRowsNOK          = 1
	SampleRowsUndetermined = 1
	SamplePartNumber       = "5801A123"
)

// MM converts a literal millimetre value to a present NullDecimal
func MM(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// BuildSampleHeader returns the header of the sample stiffener member
func BuildSampleHeader() entities.HeaderInfo {
	return entities.HeaderInfo{
		PartNumber: SamplePartNumber,
		Level:      "B2",
		Hand:       "L",
		FormatNo:   "QF-75/12",
		FsmLength:  MM("2000"),
		RootWidth:  MM("85.5"),
		TotalHoles: entities.NewCount(24),
		KBCode:     "12",
		PCCode:     "34",
	}
}

// BuildSampleRows returns the four populated spec rows of the sample document
func BuildSampleRows() []entities.SpecRow {
	return []entities.SpecRow{
		{Seq: 1, Press: "PW", SelectorID: "1", Ref: "B", X: MM("150"), SpecYZ: MM("50"), SpecDiaRaw: "10"},
		{Seq: 2, Press: "PW", SelectorID: "2", Ref: "B", X: MM("1000"), SpecYZ: MM("40"), SpecDiaRaw: "9x12"},
		{Seq: 3, Press: "PW", SelectorID: "3", Ref: "T", X: MM("1850"), SpecYZ: MM("60"), SpecDiaRaw: "13"},
		{Seq: 4, Press: "PW", SelectorID: "4", Ref: "T", X: MM("1200"), SpecYZ: MM("30"), SpecDiaRaw: "11.7"},
	}
}

// BuildSampleActuals returns the operator measurements keyed by row slot
func BuildSampleActuals() map[int]entities.ActualMeasurement {
	return map[int]entities.ActualMeasurement{
		0: {ValueFromEdge: MM("150"), Diameter: MM("10.2"), Axis: MM("55.1")},
		1: {ValueFromEdge: MM("1000"), Height: MM("9.2"), Width: MM("12.3"), Axis: MM("44.4")},
		2: {ValueFromEdge: MM("150"), Diameter: MM("13.7"), Axis: MM("66.5")},
	}
}

// BuildSampleHeaderActuals returns header values as the operator would enter them
func BuildSampleHeaderActuals() entities.HeaderActuals {
	return entities.HeaderActuals{
		FsmSerial:  "S-0001",
		Inspectors: []string{"R. Iyer"},
		MatrixUsed: "M-7",
		TotalHoles: entities.NewCount(24),
		KBCode:     "12",
		PCCode:     "34",
		RootWidth:  MM("85.6"),
	}
}

// BuildSampleAuxiliaryChecks returns one passing visual and one passing hole check
func BuildSampleAuxiliaryChecks() []entities.AuxiliaryCheck {
	return []entities.AuxiliaryCheck{
		{Kind: entities.AuxiliaryVisual, Name: "paint finish", Observed: entities.CheckPass},
		{Kind: entities.AuxiliaryHole, Name: "H1", SpecDiaRaw: "13", Actual: entities.ActualMeasurement{Diameter: MM("13.2")}},
	}
}

// BuildSampleDocument builds the sample document with every actual entered
func BuildSampleDocument() entities.InspectionDocument {
	doc, err := entities.NewInspectionDocument(BuildSampleHeader(), BuildSampleRows())
	if err != nil {
		panic(err)
	}
	for i, m := range BuildSampleActuals() {
		doc, err = doc.WithActual(i, m)
		if err != nil {
			panic(err)
		}
	}
	doc, err = doc.WithAuxiliaryChecks(BuildSampleAuxiliaryChecks())
	if err != nil {
		panic(err)
	}
	return doc.WithHeaderActuals(BuildSampleHeaderActuals())
}

// BuildSampleReport evaluates the sample document under the default policy
func BuildSampleReport(id string, generatedAt time.Time) *entities.InspectionReport {
	evaluator := services.NewRowEvaluator(entities.DefaultTolerancePolicy())
	report := evaluator.EvaluateDocument(BuildSampleDocument())
	report.ID = id
	report.GeneratedAt = generatedAt
	return &report
}
