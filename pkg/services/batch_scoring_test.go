package services

import (
	"bytes"
	"strings"
	"testing"

	"ibnu-portfolio/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const batchCSV = `gender,marital_status,card_category,tenure,products,inactive_months,contacts,trans_ct,trans_amt,revolving_bal,utilization_ratio
M,Married,Blue,36,2,1,2,40,2000,1000,0.1
F,Single,Gold,10,1,5,4,20,800,200,0.05
M,Married,Diamond,36,2,1,2,40,2000,1000,0.1
F,Single,Blue,abc,2,1,2,40,2000,1000,0.1
`

func newTestBatchScorer(t *testing.T) *BatchScorer {
	t.Helper()
	estimator, _, _ := newTestEstimator(t, staticSource{})
	scorer, err := NewBatchScorer(estimator, nil)
	require.NoError(t, err)
	return scorer
}

func TestBatchScoreCSV(t *testing.T) {
	rows, err := ReadRows("customers.csv", strings.NewReader(batchCSV))
	require.NoError(t, err)

	report, err := newTestBatchScorer(t).Score(rows)
	require.NoError(t, err)

	require.Len(t, report.Rows, 4)
	assert.Equal(t, 2, report.Scored)
	assert.Equal(t, 2, report.Fallbacks)
	assert.Equal(t, 2, report.Rejected)

	first := report.Rows[0]
	assert.Equal(t, 2, first.Row)
	require.NotNil(t, first.Estimate)
	assert.Equal(t, models.RiskTierLow, first.Estimate.Result.Tier)

	second := report.Rows[1].Estimate
	require.NotNil(t, second)
	assert.Equal(t, models.RiskTierHigh, second.Result.Tier)
	assert.Equal(t, "New", second.Features.TenureSegment)

	// an option the form never offers is rejected by validation, not treated as a defect
	assert.Contains(t, report.Rows[2].Error, "formoption")
	assert.Contains(t, report.Rows[3].Error, "tenure")
}

func TestBatchScoreTrainingHeaders(t *testing.T) {
	rows := [][]string{
		{"Gender", "Marital_Status", "Card_Category", "Months_on_book", "Total_Relationship_Count",
			"Months_Inactive_12_mon", "Contacts_Count_12_mon", "Total_Trans_Ct", "Total_Trans_Amt",
			"Total_Revolving_Bal", "Avg_Utilization_Ratio", "Customer_Age"},
		{"F", "Married", "Blue", "50", "3", "1", "1", "90", "6000", "1500", "0.2", "62"},
	}

	report, err := newTestBatchScorer(t).Score(rows)
	require.NoError(t, err)
	require.Equal(t, 1, report.Scored)
	features := report.Rows[0].Estimate.Features
	assert.Equal(t, 62, features.CustomerAge)
	assert.Equal(t, "Senior", features.AgeGroup)
	assert.Equal(t, "Long", features.TenureSegment)
}

func TestBatchScoreRejectsFile(t *testing.T) {
	scorer := newTestBatchScorer(t)

	_, err := scorer.Score([][]string{{"gender"}})
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = scorer.Score([][]string{{"gender", "tenure"}, {"M", "36"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
	assert.Contains(t, err.Error(), "card_category")

	_, err = ReadRows("customers.json", strings.NewReader("{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestBatchWorkbookRoundTrip(t *testing.T) {
	// upload as xlsx
	in := excelize.NewFile()
	defer in.Close()
	for i, line := range strings.Split(strings.TrimSpace(batchCSV), "\n") {
		cells := strings.Split(line, ",")
		row := make([]interface{}, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, in.SetSheetRow(in.GetSheetName(0), cell, &row))
	}
	var upload bytes.Buffer
	require.NoError(t, in.Write(&upload))

	rows, err := ReadRows("customers.XLSX", &upload)
	require.NoError(t, err)
	report, err := newTestBatchScorer(t).Score(rows)
	require.NoError(t, err)

	buf, err := report.Workbook()
	require.NoError(t, err)

	out, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer out.Close()

	got, err := out.GetRows("Predictions")
	require.NoError(t, err)
	require.Len(t, got, 5)

	header := got[0]
	tierCol := findIndex(header, "tier")
	provCol := findIndex(header, "provenance")
	errCol := findIndex(header, "error")
	require.Positive(t, tierCol)

	assert.Equal(t, "LOW", got[1][tierCol])
	assert.Equal(t, "heuristic", got[1][provCol])
	assert.Equal(t, "HIGH", got[2][tierCol])
	require.Greater(t, len(got[3]), errCol)
	assert.NotEmpty(t, got[3][errCol])
}
