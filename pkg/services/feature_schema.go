package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"ibnu-portfolio/pkg/models"
)

// schemaColumn is one column of the frame the pipeline was trained on.
type schemaColumn struct {
	training string // column name as it appeared in the training data
	kind     models.ColumnKind
	labels   []string // trained label set, categorical columns only
	source   string   // form field, "default" or "derived"
}

const (
	sourceDefault = "default"
	sourceDerived = "derived"
)

var trainedSchema = []schemaColumn{
	{training: "Customer_Age", kind: models.Numeric, source: "age"},
	{training: "Gender", kind: models.Categorical, labels: []string{"M", "F"}, source: "gender"},
	{training: "Dependent_count", kind: models.Numeric, source: "dependents"},
	{training: "Education_Level", kind: models.Categorical, labels: []string{"Graduate", "High School", "College", "Doctorate", "Unknown"}, source: "education_level"},
	{training: "Marital_Status", kind: models.Categorical, labels: []string{"Married", "Single", "Divorced", "Unknown"}, source: "marital_status"},
	{training: "Income_Category", kind: models.Categorical, labels: []string{"Less than $40K", "$40K - $60K", "$60K - $80K", "$80K - $120K", "$120K +", "Unknown"}, source: "income_category"},
	{training: "Card_Category", kind: models.Categorical, labels: []string{"Blue", "Silver", "Gold", "Platinum"}, source: "card_category"},
	{training: "Months_on_book", kind: models.Numeric, source: "tenure"},
	{training: "Total_Relationship_Count", kind: models.Numeric, source: "products"},
	{training: "Months_Inactive_12_mon", kind: models.Numeric, source: "inactive_months"},
	{training: "Contacts_Count_12_mon", kind: models.Numeric, source: "contacts"},
	{training: "Credit_Limit", kind: models.Numeric, source: "credit_limit"},
	{training: "Total_Revolving_Bal", kind: models.Numeric, source: "revolving_bal"},
	{training: "Avg_Open_To_Buy", kind: models.Numeric, source: sourceDefault},
	{training: "Total_Amt_Chng_Q4_Q1", kind: models.Numeric, source: sourceDefault},
	{training: "Total_Trans_Amt", kind: models.Numeric, source: "trans_amt"},
	{training: "Total_Trans_Ct", kind: models.Numeric, source: "trans_ct"},
	{training: "Total_Ct_Chng_Q4_Q1", kind: models.Numeric, source: sourceDefault},
	{training: "Avg_Utilization_Ratio", kind: models.Numeric, source: "utilization_ratio"},
	{training: "Age_Group", kind: models.Categorical, labels: []string{"Young", "Adult", "Senior"}, source: sourceDerived},
	{training: "Tenure_Segment", kind: models.Categorical, labels: []string{"New", "Mid", "Long"}, source: sourceDerived},
}

// categoryMappings translate every value the form offers into a trained label.
// Each table must be total over the form's choices; CheckSchema enforces it.
var categoryMappings = map[string]map[string]string{
	"gender": {"M": "M", "F": "F"},
	"marital_status": {
		"Married":  "Married",
		"Single":   "Single",
		"Divorced": "Divorced",
		"Unknown":  "Unknown",
	},
	"card_category": {
		"Blue":     "Blue",
		"Silver":   "Silver",
		"Gold":     "Gold",
		"Platinum": "Platinum",
	},
	"education_level": {
		"Graduate":      "Graduate",
		"High School":   "High School",
		"College":       "College",
		"Doctorate":     "Doctorate",
		"Post-Graduate": "Unknown", // too rare in training data
		"Uneducated":    "Unknown", // too rare in training data
		"Unknown":       "Unknown",
	},
	"income_category": {
		"Less than $40K": "Less than $40K",
		"$40K - $60K":    "$40K - $60K",
		"$60K - $80K":    "$60K - $80K",
		"$80K - $120K":   "$80K - $120K",
		"$120K +":        "$120K +",
		"Unknown":        "Unknown",
	},
}

// FeatureDefaults approximates the population average for columns the form leaves out.
type FeatureDefaults struct {
	CustomerAge      int     `json:"customer_age"`
	DependentCount   int     `json:"dependent_count"`
	EducationLevel   string  `json:"education_level"`
	IncomeCategory   string  `json:"income_category"`
	CreditLimit      float64 `json:"credit_limit"`
	AvgOpenToBuy     float64 `json:"avg_open_to_buy"`
	TotalAmtChngQ4Q1 float64 `json:"total_amt_chng_q4_q1"`
	TotalCtChngQ4Q1  float64 `json:"total_ct_chng_q4_q1"`
}

// DefaultFeatureValues is the constant table used since the first simulator release.
var DefaultFeatureValues = FeatureDefaults{
	CustomerAge:      45,
	DependentCount:   2,
	EducationLevel:   "Graduate",
	IncomeCategory:   "$60K - $80K",
	CreditLimit:      10000,
	AvgOpenToBuy:     9000,
	TotalAmtChngQ4Q1: 0.7,
	TotalCtChngQ4Q1:  0.6,
}

// columnName normalizes a training column name to the casing the pipeline expects.
func columnName(training string) string {
	return strings.ToLower(training)
}

// SchemaColumns returns the ordered column names the adapter produces.
func SchemaColumns() []string {
	names := make([]string, len(trainedSchema))
	for i, c := range trainedSchema {
		names[i] = columnName(c.training)
	}
	return names
}

// TrainedLabels returns the label set of a categorical column, or nil.
func TrainedLabels(column string) []string {
	for _, c := range trainedSchema {
		if columnName(c.training) == column {
			return slices.Clone(c.labels)
		}
	}
	return nil
}

// CheckSchema verifies that the form, the mapping tables and the defaults cover the trained schema.
// It is run before the adapter serves anything; every problem found is reported.
func CheckSchema(options FormOptions, defaults FeatureDefaults) error {
	var errs []error
	defect := func(field, value, reason string) {
		errs = append(errs, &ConfigurationDefectError{Field: field, Value: value, Reason: reason})
	}

	for _, field := range options.Categorical {
		mapping, ok := categoryMappings[field.Name]
		if !ok {
			defect(field.Name, "", "no mapping table")
			continue
		}
		labels := TrainedLabels(field.Name)
		for _, v := range field.Values {
			target, ok := mapping[v]
			if !ok {
				defect(field.Name, v, "offered value has no mapping")
				continue
			}
			if !slices.Contains(labels, target) {
				defect(field.Name, v, fmt.Sprintf("maps to %q outside the trained labels", target))
			}
		}
		if field.Default != "" && !slices.Contains(field.Values, field.Default) {
			defect(field.Name, field.Default, "form default is not an offered value")
		}
	}

	for _, name := range options.CollectedOptional {
		if !options.Collects(name) {
			defect(name, "", "collected optional field is not declared")
		}
	}

	if !slices.Contains(TrainedLabels("education_level"), defaults.EducationLevel) {
		defect("education_level", defaults.EducationLevel, "default outside the trained labels")
	}
	if !slices.Contains(TrainedLabels("income_category"), defaults.IncomeCategory) {
		defect("income_category", defaults.IncomeCategory, "default outside the trained labels")
	}

	declared := func(name string) bool {
		for _, f := range options.Categorical {
			if f.Name == name {
				return true
			}
		}
		_, ok := options.NumericByName(name)
		return ok
	}
	for _, c := range trainedSchema {
		switch c.source {
		case sourceDefault, sourceDerived:
		case "":
			defect(columnName(c.training), "", "column has no source")
		default:
			if !declared(c.source) {
				defect(columnName(c.training), c.source, "source field is not declared by the form")
			}
		}
	}

	return errors.Join(errs...)
}
