package normalize

import (
	"github.com/gyeh/dropoff/internal/csvread"
	"github.com/gyeh/dropoff/internal/model"
)

// meanImputed lists the demographic columns whose nulls take the column mean.
var meanImputed = []string{"age", "avg_monthly_income"}

// Demographics validates the demographics schema and returns one cleaned record
// per input row. No rows are dropped: a null identifier stays empty and simply
// never matches in the join.
func Demographics(t *csvread.Table) ([]model.Demographic, error) {
	idCol, err := t.RequireOneOf(model.DemographicsIDColumns...)
	if err != nil {
		return nil, err
	}
	if err := t.Require(model.DemographicsColumns...); err != nil {
		return nil, err
	}

	means := make(map[string]float64, len(meanImputed))
	for _, col := range meanImputed {
		m, err := columnMean(t, col)
		if err != nil {
			return nil, err
		}
		means[col] = m
	}

	out := make([]model.Demographic, t.Len())
	for r := range t.Rows {
		c := cells{t: t, row: r}
		id, _ := t.Cell(r, idCol)
		d := model.Demographic{
			PatientID:          id,
			Age:                c.numberOr("age", means["age"]),
			Gender:             Gender(t.Cell(r, "gender")),
			ZipCode:            Category(t.Cell(r, "zip_code")),
			InsuranceType:      Category(t.Cell(r, "insurance_type")),
			MaritalStatus:      Category(t.Cell(r, "marital_status")),
			EducationLevel:     Category(t.Cell(r, "education_level")),
			EmploymentStatus:   Category(t.Cell(r, "employment_status")),
			ChronicConditions:  ClampMax(c.countOr("chronic_conditions", model.DefaultNumeric), model.MaxChronicConditions),
			HasMobileApp:       c.flagOr("has_mobile_app", model.DefaultNumeric),
			LanguagePreference: Category(t.Cell(r, "language_preference")),
			AvgMonthlyIncome:   c.numberOr("avg_monthly_income", means["avg_monthly_income"]),
		}
		if c.err != nil {
			return nil, c.err
		}
		out[r] = d
	}
	return out, nil
}

// columnMean averages the non-null values of col. An all-null column has mean 0.
func columnMean(t *csvread.Table, col string) (float64, error) {
	var sum float64
	var n int
	for r := range t.Rows {
		v, ok := t.Cell(r, col)
		if !ok {
			continue
		}
		f, err := ParseNumber(v)
		if err != nil {
			return 0, &ValueError{Dataset: t.Name, Row: r + 1, Column: col, Value: v, Err: err}
		}
		sum += f
		n++
	}
	if n == 0 {
		return model.DefaultNumeric, nil
	}
	return sum / float64(n), nil
}

// cells reads typed values from one table row, keeping the first error.
type cells struct {
	t   *csvread.Table
	row int
	err error
}

func (c *cells) fail(col, v string, err error) {
	if c.err == nil {
		c.err = &ValueError{Dataset: c.t.Name, Row: c.row + 1, Column: col, Value: v, Err: err}
	}
}

func (c *cells) numberOr(col string, def float64) float64 {
	v, ok := c.t.Cell(c.row, col)
	if !ok {
		return def
	}
	f, err := ParseNumber(v)
	if err != nil {
		c.fail(col, v, err)
	}
	return f
}

func (c *cells) countOr(col string, def int64) int64 {
	v, ok := c.t.Cell(c.row, col)
	if !ok {
		return def
	}
	n, err := ParseCount(v)
	if err != nil {
		c.fail(col, v, err)
	}
	return n
}

func (c *cells) flagOr(col string, def int64) int64 {
	v, ok := c.t.Cell(c.row, col)
	if !ok {
		return def
	}
	n, err := ParseFlag(v)
	if err != nil {
		c.fail(col, v, err)
	}
	return n
}
