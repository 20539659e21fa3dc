package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ibnu-portfolio/pkg/models"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// MaxBatchRows caps the rows scored from one upload.
const MaxBatchRows = 5000

var (
	// ErrUnsupportedFile is returned for uploads that are neither .xlsx nor .csv.
	ErrUnsupportedFile = errors.New("unsupported file type, upload .xlsx or .csv")
	// ErrEmptyBatch is returned when a file has no data rows.
	ErrEmptyBatch = errors.New("file needs a header row and at least one data row")
)

// BatchRow is the outcome for one spreadsheet row.
type BatchRow struct {
	Row      int       `json:"row"` // 1-based sheet row
	Estimate *Estimate `json:"estimate,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// BatchReport is the outcome of a whole upload.
type BatchReport struct {
	Header    []string   `json:"header"`
	Rows      []BatchRow `json:"rows"`
	Scored    int        `json:"scored"`
	Fallbacks int        `json:"fallbacks"`
	Rejected  int        `json:"rejected"`
	raw       [][]string
}

// BatchScorer scores spreadsheets of customer profiles with the simulator chain.
type BatchScorer struct {
	estimator *ChurnEstimator
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewBatchScorer validates rows against the estimator's form revision.
func NewBatchScorer(estimator *ChurnEstimator, logger *zap.Logger) (*BatchScorer, error) {
	v, err := NewProfileValidator(estimator.Adapter().Options())
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchScorer{estimator: estimator, validate: v, logger: logger}, nil
}

// ReadRows reads the first sheet of an .xlsx file or a whole .csv file.
func ReadRows(filename string, r io.Reader) ([][]string, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".xlsx"):
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("read sheet rows: %w", err)
		}
		return rows, nil
	case strings.HasSuffix(name, ".csv"):
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		rows, err := cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		return rows, nil
	default:
		return nil, ErrUnsupportedFile
	}
}

// Score scores every data row. Bad rows are reported, not fatal; a ConfigurationDefectError aborts.
func (b *BatchScorer) Score(rows [][]string) (*BatchReport, error) {
	if len(rows) < 2 {
		return nil, ErrEmptyBatch
	}
	if len(rows)-1 > MaxBatchRows {
		return nil, fmt.Errorf("file has %d data rows, limit is %d", len(rows)-1, MaxBatchRows)
	}

	header := rows[0]
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}
	cols := make(map[string]int, len(batchColumns))
	var missing []string
	for _, bc := range batchColumns {
		i := findIndex(normalized, bc.aliases...)
		if i < 0 {
			if !bc.optional {
				missing = append(missing, bc.aliases[0])
			}
			continue
		}
		cols[bc.aliases[0]] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	report := &BatchReport{Header: header, raw: rows}
	for i, row := range rows[1:] {
		out := BatchRow{Row: i + 2}
		profile, err := parseProfileRow(row, cols)
		if err == nil {
			err = b.validate.Struct(profile)
		}
		if err != nil {
			out.Error = err.Error()
			report.Rejected++
			report.Rows = append(report.Rows, out)
			continue
		}

		est, err := b.estimator.Estimate(profile)
		if err != nil {
			return nil, err
		}
		out.Estimate = est
		report.Scored++
		if est.Result.IsFallback() {
			report.Fallbacks++
		}
		report.Rows = append(report.Rows, out)
	}

	b.logger.Info("batch scored",
		zap.Int("rows", len(report.Rows)),
		zap.Int("scored", report.Scored),
		zap.Int("fallbacks", report.Fallbacks),
		zap.Int("rejected", report.Rejected),
	)
	return report, nil
}

// Workbook renders the upload back as .xlsx with the prediction columns appended.
func (r *BatchReport) Workbook() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Predictions"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, 0, len(r.Header)+6)
	for _, h := range r.Header {
		header = append(header, h)
	}
	header = append(header, "label", "probability", "tier", "provenance", "recommendation", "error")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, row := range r.Rows {
		cells := make([]interface{}, 0, len(header))
		raw := r.raw[row.Row-1]
		for c := range r.Header {
			if c < len(raw) {
				cells = append(cells, raw[c])
			} else {
				cells = append(cells, "")
			}
		}
		if row.Estimate != nil {
			res := row.Estimate.Result
			var prob interface{} = ""
			if res.Probability != nil {
				prob = *res.Probability
			}
			cells = append(cells, res.Label, prob, string(res.Tier), string(res.Provenance), res.Recommendation, "")
		} else {
			cells = append(cells, "", "", "", "", "", row.Error)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}

// batchColumns lists the accepted headers per form field: the form name first, then the
// training column name so exported training frames can be scored as-is.
var batchColumns = []struct {
	aliases  []string
	optional bool
}{
	{aliases: []string{"gender"}},
	{aliases: []string{"marital_status"}},
	{aliases: []string{"card_category", "card_type"}},
	{aliases: []string{"tenure", "months_on_book"}},
	{aliases: []string{"products", "total_relationship_count"}},
	{aliases: []string{"inactive_months", "months_inactive_12_mon"}},
	{aliases: []string{"contacts", "contacts_count_12_mon"}},
	{aliases: []string{"trans_ct", "total_trans_ct"}},
	{aliases: []string{"trans_amt", "total_trans_amt"}},
	{aliases: []string{"revolving_bal", "total_revolving_bal"}},
	{aliases: []string{"utilization_ratio", "avg_utilization_ratio"}},
	{aliases: []string{"age", "customer_age"}, optional: true},
	{aliases: []string{"dependents", "dependent_count"}, optional: true},
	{aliases: []string{"education_level"}, optional: true},
	{aliases: []string{"income_category"}, optional: true},
	{aliases: []string{"credit_limit"}, optional: true},
}

// findIndex finds the index of the first candidate in a slice
func findIndex(slice []string, candidates ...string) int {
	for _, candidate := range candidates {
		for i, item := range slice {
			if strings.EqualFold(item, candidate) {
				return i
			}
		}
	}
	return -1
}

func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

func parseProfileRow(row []string, cols map[string]int) (models.CustomerProfile, error) {
	get := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return "", false
		}
		v := strings.TrimSpace(row[i])
		return v, v != ""
	}
	var errs []error
	atoi := func(name string) int {
		s, _ := get(name)
		n, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not an integer", name, s))
		}
		return n
	}
	atof := func(name string) float64 {
		s, _ := get(name)
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a number", name, s))
		}
		return x
	}

	p := models.CustomerProfile{
		Tenure:           atoi("tenure"),
		Products:         atoi("products"),
		InactiveMonths:   atoi("inactive_months"),
		Contacts:         atoi("contacts"),
		TransCount:       atoi("trans_ct"),
		TransAmount:      atof("trans_amt"),
		RevolvingBalance: atof("revolving_bal"),
		UtilizationRatio: atof("utilization_ratio"),
	}
	p.Gender, _ = get("gender")
	p.MaritalStatus, _ = get("marital_status")
	p.CardCategory, _ = get("card_category")

	if _, ok := get("age"); ok {
		n := atoi("age")
		p.Age = &n
	}
	if _, ok := get("dependents"); ok {
		n := atoi("dependents")
		p.Dependents = &n
	}
	if _, ok := get("credit_limit"); ok {
		x := atof("credit_limit")
		p.CreditLimit = &x
	}
	if s, ok := get("education_level"); ok {
		p.EducationLevel = &s
	}
	if s, ok := get("income_category"); ok {
		p.IncomeCategory = &s
	}

	return p, errors.Join(errs...)
}
