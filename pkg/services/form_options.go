package services

import "slices"

// CategoricalField is a select input of the simulator form.
type CategoricalField struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Values   []string `json:"values"`
	Default  string   `json:"default"`
	Optional bool     `json:"optional"`
}

// NumericField is a slider or number input of the simulator form.
type NumericField struct {
	Name     string  `json:"name"`
	Label    string  `json:"label"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Step     float64 `json:"step"`
	Default  float64 `json:"default"`
	Integer  bool    `json:"integer"`
	Optional bool    `json:"optional"`
}

// FormOptions describes what the current form revision offers.
type FormOptions struct {
	Categorical       []CategoricalField `json:"categorical"`
	Numeric           []NumericField     `json:"numeric"`
	CollectedOptional []string           `json:"collected_optional"` // optional fields rendered by this revision
}

// DefaultFormOptions returns the simulator form of the bank churn project.
// Optional fields are declared but not collected unless listed in collected.
func DefaultFormOptions(collected ...string) FormOptions {
	return FormOptions{
		Categorical: []CategoricalField{
			{Name: "gender", Label: "Gender", Values: []string{"M", "F"}, Default: "M"},
			{Name: "marital_status", Label: "Marital Status", Values: []string{"Married", "Single", "Divorced", "Unknown"}, Default: "Married"},
			{Name: "card_category", Label: "Card Type", Values: []string{"Blue", "Silver", "Gold", "Platinum"}, Default: "Blue"},
			{
				Name:     "education_level",
				Label:    "Education",
				Values:   []string{"Graduate", "High School", "College", "Doctorate", "Post-Graduate", "Uneducated", "Unknown"},
				Default:  "Graduate",
				Optional: true,
			},
			{
				Name:     "income_category",
				Label:    "Income",
				Values:   []string{"Less than $40K", "$40K - $60K", "$60K - $80K", "$80K - $120K", "$120K +", "Unknown"},
				Default:  "$60K - $80K",
				Optional: true,
			},
		},
		Numeric: []NumericField{
			{Name: "tenure", Label: "Tenure (months)", Min: 0, Max: 100, Step: 1, Default: 36, Integer: true},
			{Name: "products", Label: "Total Products (relationship)", Min: 1, Max: 6, Step: 1, Default: 2, Integer: true},
			{Name: "inactive_months", Label: "Inactive Months (12 mo)", Min: 0, Max: 12, Step: 1, Default: 1, Integer: true},
			{Name: "contacts", Label: "Complaints (12 mo)", Min: 0, Max: 6, Step: 1, Default: 2, Integer: true},
			{Name: "trans_ct", Label: "Total Transactions (1 yr)", Min: 0, Max: 150, Step: 1, Default: 40, Integer: true},
			{Name: "trans_amt", Label: "Transaction Amount ($)", Min: 0, Max: 20000, Step: 1, Default: 2000},
			{Name: "revolving_bal", Label: "Revolving Balance ($)", Min: 0, Max: 3000, Step: 1, Default: 1000},
			{Name: "utilization_ratio", Label: "Utilization Ratio", Min: 0, Max: 1, Step: 0.01, Default: 0.1},
			{Name: "age", Label: "Age", Min: 18, Max: 100, Step: 1, Default: 45, Integer: true, Optional: true},
			{Name: "dependents", Label: "Dependents", Min: 0, Max: 5, Step: 1, Default: 2, Integer: true, Optional: true},
			{Name: "credit_limit", Label: "Credit Limit ($)", Min: 1000, Max: 50000, Step: 100, Default: 10000, Optional: true},
		},
		CollectedOptional: collected,
	}
}

// Collects reports whether the field is rendered by this form revision.
func (o FormOptions) Collects(name string) bool {
	for _, f := range o.Categorical {
		if f.Name == name {
			return !f.Optional || slices.Contains(o.CollectedOptional, name)
		}
	}
	for _, f := range o.Numeric {
		if f.Name == name {
			return !f.Optional || slices.Contains(o.CollectedOptional, name)
		}
	}
	return false
}

// Offers reports whether value is one of the choices of a categorical field.
func (o FormOptions) Offers(name, value string) bool {
	for _, f := range o.Categorical {
		if f.Name == name {
			return slices.Contains(f.Values, value)
		}
	}
	return false
}

// CollectedCategorical returns the select inputs rendered by this revision.
func (o FormOptions) CollectedCategorical() []CategoricalField {
	var out []CategoricalField
	for _, f := range o.Categorical {
		if o.Collects(f.Name) {
			out = append(out, f)
		}
	}
	return out
}

// CollectedNumeric returns the numeric inputs rendered by this revision.
func (o FormOptions) CollectedNumeric() []NumericField {
	var out []NumericField
	for _, f := range o.Numeric {
		if o.Collects(f.Name) {
			out = append(out, f)
		}
	}
	return out
}

// NumericByName looks up a numeric field declaration.
func (o FormOptions) NumericByName(name string) (NumericField, bool) {
	for _, f := range o.Numeric {
		if f.Name == name {
			return f, true
		}
	}
	return NumericField{}, false
}
