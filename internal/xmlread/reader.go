package xmlread

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// RowTag is the element name of one event record.
const RowTag = "log"

// Record is one raw <log> element. Fields may be given as child elements or as
// attributes of the same name; child elements win.
type Record struct {
	Department  string     `xml:"department"`
	Event       string     `xml:"event"`
	LogType     string     `xml:"log_type"`
	PatientID   string     `xml:"patient_id"`
	StaffOnDuty string     `xml:"staff_on_duty"`
	Timestamp   string     `xml:"timestamp"`
	Attrs       []xml.Attr `xml:",any,attr"`
}

// Open reads every <log> record from the file at path.
func Open(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open logs: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read streams the document and decodes each <log> element wherever it
// appears; the enclosing root element name is not checked.
func Read(r io.Reader) ([]Record, error) {
	dec := xml.NewDecoder(r)
	var out []Record
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("logs: parse xml after %d records: %w", len(out), err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != RowTag {
			continue
		}
		var rec Record
		if err := dec.DecodeElement(&rec, &se); err != nil {
			return nil, fmt.Errorf("logs: decode record %d: %w", len(out)+1, err)
		}
		rec.fillFromAttrs()
		rec.trim()
		out = append(out, rec)
	}
	return out, nil
}

func (r *Record) fillFromAttrs() {
	for _, a := range r.Attrs {
		var dst *string
		switch a.Name.Local {
		case "department":
			dst = &r.Department
		case "event":
			dst = &r.Event
		case "log_type":
			dst = &r.LogType
		case "patient_id":
			dst = &r.PatientID
		case "staff_on_duty":
			dst = &r.StaffOnDuty
		case "timestamp":
			dst = &r.Timestamp
		default:
			continue
		}
		if *dst == "" {
			*dst = a.Value
		}
	}
	r.Attrs = nil
}

func (r *Record) trim() {
	r.Department = strings.TrimSpace(r.Department)
	r.Event = strings.TrimSpace(r.Event)
	r.LogType = strings.TrimSpace(r.LogType)
	r.PatientID = strings.TrimSpace(r.PatientID)
	r.StaffOnDuty = strings.TrimSpace(r.StaffOnDuty)
	r.Timestamp = strings.TrimSpace(r.Timestamp)
}
