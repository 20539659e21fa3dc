package services

import (
	"errors"
	"reflect"
	"testing"

	"ibnu-portfolio/pkg/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptDefaultProfile(t *testing.T) {
	adapter := newTestAdapter(t)

	got, err := adapter.Adapt(defaultProfile())
	require.NoError(t, err)

	want := models.FeatureVector{
		CustomerAge:            45,
		Gender:                 "M",
		DependentCount:         2,
		EducationLevel:         "Graduate",
		MaritalStatus:          "Married",
		IncomeCategory:         "$60K - $80K",
		CardCategory:           "Blue",
		MonthsOnBook:           36,
		TotalRelationshipCount: 2,
		MonthsInactive12Mon:    1,
		ContactsCount12Mon:     2,
		CreditLimit:            10000,
		TotalRevolvingBal:      1000,
		AvgOpenToBuy:           9000,
		TotalAmtChngQ4Q1:       0.7,
		TotalTransAmt:          2000,
		TotalTransCt:           40,
		TotalCtChngQ4Q1:        0.6,
		AvgUtilizationRatio:    0.1,
		AgeGroup:               "Adult",
		TenureSegment:          "Mid",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Adapt() mismatch (-want +got):\n%s", diff)
	}
}

func TestAdaptOptionalOverrides(t *testing.T) {
	adapter := newTestAdapter(t, "age", "dependents", "education_level", "income_category", "credit_limit")

	p := defaultProfile()
	p.Age = ptr(25)
	p.Dependents = ptr(0)
	p.EducationLevel = ptr("Doctorate")
	p.IncomeCategory = ptr("$120K +")
	p.CreditLimit = ptr(25000.0)

	got, err := adapter.Adapt(p)
	require.NoError(t, err)
	assert.Equal(t, 25, got.CustomerAge)
	assert.Equal(t, "Young", got.AgeGroup)
	assert.Equal(t, 0, got.DependentCount)
	assert.Equal(t, "Doctorate", got.EducationLevel)
	assert.Equal(t, "$120K +", got.IncomeCategory)
	assert.Equal(t, 25000.0, got.CreditLimit)
}

func TestAdaptOpenToBuyWithinCreditLimit(t *testing.T) {
	adapter := newTestAdapter(t)

	tests := []struct {
		limit float64
		want  float64
	}{
		{limit: 1000, want: 1000},
		{limit: 8999.5, want: 8999.5},
		{limit: 9000, want: 9000},
		{limit: 25000, want: 9000},
	}
	for _, tt := range tests {
		p := defaultProfile()
		p.CreditLimit = ptr(tt.limit)
		got, err := adapter.Adapt(p)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.AvgOpenToBuy, "credit_limit=%v", tt.limit)
		assert.LessOrEqual(t, got.AvgOpenToBuy, got.CreditLimit)
	}
}

func TestAgeGroup(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{18, "Young"},
		{25, "Young"},
		{29, "Young"},
		{30, "Adult"},
		{40, "Adult"},
		{49, "Adult"},
		{50, "Senior"},
		{65, "Senior"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AgeGroup(tt.age), "age %d", tt.age)
	}
}

func TestTenureSegment(t *testing.T) {
	tests := []struct {
		months int
		want   string
	}{
		{0, "New"},
		{10, "New"},
		{23, "New"},
		{24, "Mid"},
		{30, "Mid"},
		{47, "Mid"},
		{48, "Long"},
		{50, "Long"},
		{100, "Long"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TenureSegment(tt.months), "tenure %d", tt.months)
	}
}

func TestAdaptEducationCleanup(t *testing.T) {
	adapter := newTestAdapter(t, "education_level")

	for _, value := range DefaultFormOptions().Categorical[3].Values {
		p := defaultProfile()
		p.EducationLevel = ptr(value)

		got, err := adapter.Adapt(p)
		require.NoError(t, err)

		switch value {
		case "Post-Graduate", "Uneducated":
			assert.Equal(t, "Unknown", got.EducationLevel, value)
		default:
			assert.Equal(t, value, got.EducationLevel, value)
		}
	}
}

// Every combination of offered categories, crossed with the numeric bounds, yields a
// vector with every column set to a trained value.
func TestAdaptTotality(t *testing.T) {
	options := DefaultFormOptions("age", "dependents", "education_level", "income_category", "credit_limit")
	adapter, err := NewFeatureAdapter(options, DefaultFeatureValues)
	require.NoError(t, err)

	values := func(name string) []string {
		for _, f := range options.Categorical {
			if f.Name == name {
				return f.Values
			}
		}
		t.Fatalf("no field %s", name)
		return nil
	}

	count := 0
	for _, gender := range values("gender") {
		for _, marital := range values("marital_status") {
			for _, card := range values("card_category") {
				for _, edu := range values("education_level") {
					for _, income := range values("income_category") {
						for _, extreme := range []bool{false, true} {
							p := models.CustomerProfile{
								Gender:         gender,
								MaritalStatus:  marital,
								CardCategory:   card,
								EducationLevel: ptr(edu),
								IncomeCategory: ptr(income),
							}
							if extreme {
								p.Tenure, p.Products, p.InactiveMonths, p.Contacts = 100, 6, 12, 6
								p.TransCount, p.TransAmount, p.RevolvingBalance, p.UtilizationRatio = 150, 20000, 3000, 1
								p.Age, p.Dependents, p.CreditLimit = ptr(100), ptr(5), ptr(50000.0)
							} else {
								p.Products = 1
								p.Age, p.Dependents, p.CreditLimit = ptr(18), ptr(0), ptr(1000.0)
							}

							v, err := adapter.Adapt(p)
							require.NoError(t, err)
							assertPopulated(t, v)
							count++
						}
					}
				}
			}
		}
	}
	assert.Equal(t, 2*4*4*7*6*2, count)
}

func assertPopulated(t *testing.T, v models.FeatureVector) {
	t.Helper()
	for _, col := range v.Columns() {
		if col.Kind != models.Categorical {
			continue
		}
		labels := TrainedLabels(col.Name)
		assert.Contains(t, labels, col.Label, "column %s", col.Name)
	}
}

func TestAdaptDeterministic(t *testing.T) {
	adapter := newTestAdapter(t)
	p := defaultProfile()

	first, err := adapter.Adapt(p)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := adapter.Adapt(p)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestAdaptUnmappedValue(t *testing.T) {
	adapter := newTestAdapter(t)
	p := defaultProfile()
	p.CardCategory = "Diamond"

	_, err := adapter.Adapt(p)
	var defect *ConfigurationDefectError
	require.True(t, errors.As(err, &defect))
	assert.Equal(t, "card_category", defect.Field)
	assert.Equal(t, "Diamond", defect.Value)
}

func TestSchemaColumnsMatchVector(t *testing.T) {
	var names []string
	for _, col := range (models.FeatureVector{}).Columns() {
		names = append(names, col.Name)
	}
	assert.Equal(t, SchemaColumns(), names)

	// json names follow the same casing
	typ := reflect.TypeOf(models.FeatureVector{})
	require.Equal(t, len(names), typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		assert.Equal(t, names[i], typ.Field(i).Tag.Get("json"))
	}
}

func TestCheckSchema(t *testing.T) {
	assert.NoError(t, CheckSchema(DefaultFormOptions(), DefaultFeatureValues))
	assert.NoError(t, CheckSchema(DefaultFormOptions("age", "education_level"), DefaultFeatureValues))

	t.Run("offered value without mapping", func(t *testing.T) {
		options := DefaultFormOptions()
		options.Categorical[2].Values = append(options.Categorical[2].Values, "Diamond")

		err := CheckSchema(options, DefaultFeatureValues)
		var defect *ConfigurationDefectError
		require.True(t, errors.As(err, &defect))
		assert.Equal(t, "card_category", defect.Field)
		assert.Equal(t, "Diamond", defect.Value)

		_, err = NewFeatureAdapter(options, DefaultFeatureValues)
		assert.Error(t, err)
	})

	t.Run("field without mapping table", func(t *testing.T) {
		options := DefaultFormOptions()
		options.Categorical = append(options.Categorical, CategoricalField{Name: "region", Values: []string{"North"}})
		assert.Error(t, CheckSchema(options, DefaultFeatureValues))
	})

	t.Run("undeclared collected field", func(t *testing.T) {
		assert.Error(t, CheckSchema(DefaultFormOptions("favourite_colour"), DefaultFeatureValues))
	})

	t.Run("default outside trained labels", func(t *testing.T) {
		defaults := DefaultFeatureValues
		defaults.EducationLevel = "Post-Graduate"
		assert.Error(t, CheckSchema(DefaultFormOptions(), defaults))
	})

	t.Run("reports every defect", func(t *testing.T) {
		options := DefaultFormOptions()
		options.Categorical[0].Values = append(options.Categorical[0].Values, "X")
		options.Categorical[1].Values = append(options.Categorical[1].Values, "Widowed")

		err := CheckSchema(options, DefaultFeatureValues)
		require.Error(t, err)
		assert.Len(t, err.(interface{ Unwrap() []error }).Unwrap(), 2)
	})
}

func TestFormOptions(t *testing.T) {
	options := DefaultFormOptions("age")

	assert.True(t, options.Collects("gender"))
	assert.True(t, options.Collects("age"))
	assert.False(t, options.Collects("dependents"))
	assert.False(t, options.Collects("unknown"))

	assert.True(t, options.Offers("card_category", "Gold"))
	assert.False(t, options.Offers("card_category", "Diamond"))
	assert.False(t, options.Offers("tenure", "36"))

	var numeric []string
	for _, f := range options.CollectedNumeric() {
		numeric = append(numeric, f.Name)
	}
	assert.Contains(t, numeric, "age")
	assert.NotContains(t, numeric, "credit_limit")
	assert.Len(t, options.CollectedCategorical(), 3)

	tenure, ok := options.NumericByName("tenure")
	require.True(t, ok)
	assert.Equal(t, 36.0, tenure.Default)
}
