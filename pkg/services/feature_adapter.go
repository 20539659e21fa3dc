package services

import (
	"ibnu-portfolio/pkg/models"
)

// Bucket boundaries for the derived categorical columns.
const (
	ageYoungBelow  = 30
	ageAdultBelow  = 50
	tenureNewBelow = 24
	tenureMidBelow = 48
)

// FeatureAdapter turns a sparse form submission into the full vector the pipeline was trained on.
type FeatureAdapter struct {
	options  FormOptions
	defaults FeatureDefaults
}

// NewFeatureAdapter runs the schema-completeness check and returns an adapter only if it passes.
func NewFeatureAdapter(options FormOptions, defaults FeatureDefaults) (*FeatureAdapter, error) {
	if err := CheckSchema(options, defaults); err != nil {
		return nil, err
	}
	return &FeatureAdapter{options: options, defaults: defaults}, nil
}

// Options returns the form revision the adapter was checked against.
func (a *FeatureAdapter) Options() FormOptions {
	return a.options
}

// Adapt builds the feature vector. Numeric ranges are enforced when the form is bound, not here.
func (a *FeatureAdapter) Adapt(p models.CustomerProfile) (models.FeatureVector, error) {
	gender, err := mapCategory("gender", p.Gender)
	if err != nil {
		return models.FeatureVector{}, err
	}
	marital, err := mapCategory("marital_status", p.MaritalStatus)
	if err != nil {
		return models.FeatureVector{}, err
	}
	card, err := mapCategory("card_category", p.CardCategory)
	if err != nil {
		return models.FeatureVector{}, err
	}

	education := a.defaults.EducationLevel
	if p.EducationLevel != nil {
		if education, err = mapCategory("education_level", *p.EducationLevel); err != nil {
			return models.FeatureVector{}, err
		}
	}
	income := a.defaults.IncomeCategory
	if p.IncomeCategory != nil {
		if income, err = mapCategory("income_category", *p.IncomeCategory); err != nil {
			return models.FeatureVector{}, err
		}
	}

	age := a.defaults.CustomerAge
	if p.Age != nil {
		age = *p.Age
	}
	dependents := a.defaults.DependentCount
	if p.Dependents != nil {
		dependents = *p.Dependents
	}
	creditLimit := a.defaults.CreditLimit
	if p.CreditLimit != nil {
		creditLimit = *p.CreditLimit
	}
	// open-to-buy never exceeds the limit it is drawn from
	openToBuy := min(a.defaults.AvgOpenToBuy, creditLimit)

	return models.FeatureVector{
		CustomerAge:            age,
		Gender:                 gender,
		DependentCount:         dependents,
		EducationLevel:         education,
		MaritalStatus:          marital,
		IncomeCategory:         income,
		CardCategory:           card,
		MonthsOnBook:           p.Tenure,
		TotalRelationshipCount: p.Products,
		MonthsInactive12Mon:    p.InactiveMonths,
		ContactsCount12Mon:     p.Contacts,
		CreditLimit:            creditLimit,
		TotalRevolvingBal:      p.RevolvingBalance,
		AvgOpenToBuy:           openToBuy,
		TotalAmtChngQ4Q1:       a.defaults.TotalAmtChngQ4Q1,
		TotalTransAmt:          p.TransAmount,
		TotalTransCt:           p.TransCount,
		TotalCtChngQ4Q1:        a.defaults.TotalCtChngQ4Q1,
		AvgUtilizationRatio:    p.UtilizationRatio,
		AgeGroup:               AgeGroup(age),
		TenureSegment:          TenureSegment(p.Tenure),
	}, nil
}

// AgeGroup buckets a raw age: under 30 Young, under 50 Adult, otherwise Senior.
func AgeGroup(age int) string {
	switch {
	case age < ageYoungBelow:
		return "Young"
	case age < ageAdultBelow:
		return "Adult"
	default:
		return "Senior"
	}
}

// TenureSegment buckets months on book: under 24 New, under 48 Mid, otherwise Long.
func TenureSegment(months int) string {
	switch {
	case months < tenureNewBelow:
		return "New"
	case months < tenureMidBelow:
		return "Mid"
	default:
		return "Long"
	}
}

func mapCategory(field, value string) (string, error) {
	target, ok := categoryMappings[field][value]
	if !ok {
		return "", &ConfigurationDefectError{Field: field, Value: value, Reason: "value has no mapping"}
	}
	return target, nil
}
