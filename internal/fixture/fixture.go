// Package fixture generates reproducible synthetic demographics, visits and
// event-log inputs, including the dirty values the cleaners must handle.
package fixture

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gyeh/dropoff/internal/model"
)

// File names written by WriteAll.
const (
	DemographicsFile = "demographics.csv"
	VisitsFile       = "visits.csv"
	LogsFile         = "logs.xml"
)

// Config controls the volume and shape of generated data.
type Config struct {
	Patients       int
	LogsPerPatient int     // upper bound; some patients get none
	MissingRate    float64 // chance a nullable cell is left empty
	Seed           int64
}

// DefaultConfig returns the settings used by mkfixture.
func DefaultConfig() Config {
	return Config{
		Patients:       200,
		LogsPerPatient: 4,
		MissingRate:    0.05,
		Seed:           42,
	}
}

// LogEntry is one <log> element.
type LogEntry struct {
	Department  string `xml:"department"`
	Event       string `xml:"event"`
	LogType     string `xml:"log_type"`
	PatientID   string `xml:"patient_id"`
	StaffOnDuty string `xml:"staff_on_duty"`
	Timestamp   string `xml:"timestamp"`
}

type logsDocument struct {
	XMLName xml.Name   `xml:"logs"`
	Logs    []LogEntry `xml:"log"`
}

// Dataset is a generated set of raw inputs.
type Dataset struct {
	Demographics [][]string // header first
	Visits       [][]string // header first
	Logs         []LogEntry
}

// Paths locates the files written by WriteAll.
type Paths struct {
	Demographics string
	Visits       string
	Logs         string
}

var (
	genders     = []string{"M", "F", "Male", "female", " m ", "Other", "x"}
	insurance   = []string{"Private", "Medicare", "Medicaid", "Uninsured"}
	marital     = []string{"Single", "Married", "Divorced", "Widowed"}
	education   = []string{"High School", "Bachelor", "Master", "PhD"}
	employment  = []string{"Employed", "Unemployed", "Retired", "Student"}
	languages   = []string{"English", "Spanish", "Mandarin"}
	visitTypes  = []string{"Routine", "Emergency", "Follow-up"}
	weekdays    = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	departments = []string{"Cardiology", "Oncology", "Pediatrics", "Orthopedics", "Emergency"}
	events      = []string{"check_in", "triage", "lab_order", "imaging", "discharge", "billing"}
)

// Generate builds a dataset from cfg. The same config always yields the
// same dataset.
func Generate(cfg Config) *Dataset {
	rng := rand.New(rand.NewSource(cfg.Seed))
	g := &generator{rng: rng, cfg: cfg}

	ds := &Dataset{
		Demographics: [][]string{append([]string{"patient_id"}, model.DemographicsColumns...)},
		Visits:       [][]string{append([]string(nil), model.VisitsColumns...)},
	}
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	for i := 1; i <= cfg.Patients; i++ {
		id := strconv.Itoa(i)
		age := 18 + rng.Intn(70)
		chronic := rng.Intn(9)
		ds.Demographics = append(ds.Demographics, []string{
			id,
			g.nullable(strconv.Itoa(age)),
			g.nullable(g.pick(genders)),
			fmt.Sprintf("%05d", 10000+rng.Intn(90000)),
			g.nullable(g.pick(insurance)),
			g.pick(marital),
			g.nullable(g.pick(education)),
			g.pick(employment),
			g.nullable(strconv.Itoa(chronic)),
			g.nullable(strconv.Itoa(rng.Intn(2))),
			g.pick(languages),
			g.nullable(g.money(1500 + rng.Float64()*8000)),
		})

		// every 25th patient never visits
		if i%25 == 0 {
			continue
		}

		nLogs := rng.Intn(cfg.LogsPerPatient + 1)
		var critical int
		for j := 0; j < nLogs; j++ {
			logType := "info"
			if rng.Float64() < 0.25 {
				logType = g.pick([]string{"critical", "Critical", "CRITICAL"})
				critical++
			}
			ts := start.Add(time.Duration(rng.Intn(90*24*60)) * time.Minute)
			ds.Logs = append(ds.Logs, LogEntry{
				Department:  g.nullable(g.pick(departments)),
				Event:       g.pick(events),
				LogType:     logType,
				PatientID:   id,
				StaffOnDuty: "S" + strconv.Itoa(100+rng.Intn(50)),
				Timestamp:   ts.Format(model.LogTimestampLayout),
			})
		}

		wait := 5 + rng.Float64()*85
		satisfaction := 1 + rng.Intn(5)
		followUp := rng.Intn(2)
		risk := -0.5 + 0.05*(wait-45) - 0.9*float64(satisfaction-3) + 0.8*float64(critical) - 1.2*float64(followUp) + 0.2*float64(chronic-4)
		dropOff := "0"
		if rng.Float64() < 1/(1+math.Exp(-risk)) {
			dropOff = "1"
		}

		ds.Visits = append(ds.Visits, []string{
			id,
			strconv.Itoa(1 + rng.Intn(12)),
			g.nullable(g.money(50 + rng.Float64()*5000)),
			g.nullable(strconv.FormatFloat(math.Round(wait*10)/10, 'f', -1, 64)),
			g.nullable(g.pick(visitTypes)),
			g.pick(weekdays),
			g.nullable(g.pick(departments)),
			g.nullable(strconv.Itoa(satisfaction)),
			"S" + strconv.Itoa(100+rng.Intn(50)),
			strconv.Itoa(10 + rng.Intn(110)),
			strconv.Itoa(rng.Intn(2)),
			strconv.Itoa(followUp),
			g.nullable(dropOff),
		})
	}

	// a visit and some events for a patient absent from demographics
	orphan := strconv.Itoa(cfg.Patients + 1)
	ds.Visits = append(ds.Visits, []string{orphan, "1", "100", "10", "Routine", "Monday", "Cardiology", "3", "S100", "30", "0", "1", "0"})
	ds.Logs = append(ds.Logs, LogEntry{Department: "Cardiology", Event: "check_in", LogType: "info", PatientID: orphan, Timestamp: start.Format(model.LogTimestampLayout)})
	return ds
}

type generator struct {
	rng *rand.Rand
	cfg Config
}

func (g *generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

func (g *generator) nullable(v string) string {
	if g.rng.Float64() < g.cfg.MissingRate {
		return ""
	}
	return v
}

// money renders amounts in a mix of plain and "$1,234.50" styles.
func (g *generator) money(v float64) string {
	s := strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
	if g.rng.Intn(4) != 0 || v < 1000 {
		return s
	}
	whole, frac := s[:len(s)-3], s[len(s)-3:]
	return "$" + whole[:len(whole)-3] + "," + whole[len(whole)-3:] + frac
}

// WriteCSV writes records with encoding/csv.
func WriteCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteLogs writes entries as a <logs> document.
func WriteLogs(w io.Writer, entries []LogEntry) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(logsDocument{Logs: entries}); err != nil {
		return fmt.Errorf("write logs: %w", err)
	}
	return enc.Close()
}

// WriteAll generates a dataset and writes the three input files into dir.
func WriteAll(dir string, cfg Config) (Paths, *Dataset, error) {
	ds := Generate(cfg)
	paths := Paths{
		Demographics: filepath.Join(dir, DemographicsFile),
		Visits:       filepath.Join(dir, VisitsFile),
		Logs:         filepath.Join(dir, LogsFile),
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, nil, err
	}
	if err := writeFile(paths.Demographics, func(w io.Writer) error { return WriteCSV(w, ds.Demographics) }); err != nil {
		return Paths{}, nil, err
	}
	if err := writeFile(paths.Visits, func(w io.Writer) error { return WriteCSV(w, ds.Visits) }); err != nil {
		return Paths{}, nil, err
	}
	if err := writeFile(paths.Logs, func(w io.Writer) error { return WriteLogs(w, ds.Logs) }); err != nil {
		return Paths{}, nil, err
	}
	return paths, ds, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
