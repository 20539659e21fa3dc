package models

// CustomerProfile is one submission of the churn simulator form.
// Optional attributes are pointers: nil means the current form revision does not collect them.
type CustomerProfile struct {
	Gender           string  `json:"gender" form:"gender" binding:"required,formoption=gender"`
	MaritalStatus    string  `json:"marital_status" form:"marital_status" binding:"required,formoption=marital_status"`
	CardCategory     string  `json:"card_category" form:"card_category" binding:"required,formoption=card_category"`
	Tenure           int     `json:"tenure" form:"tenure" binding:"min=0,max=100"`                   // months on book
	Products         int     `json:"products" form:"products" binding:"min=1,max=6"`                 // relationship count
	InactiveMonths   int     `json:"inactive_months" form:"inactive_months" binding:"min=0,max=12"`  // last 12 months
	Contacts         int     `json:"contacts" form:"contacts" binding:"min=0,max=6"`                 // complaints, last 12 months
	TransCount       int     `json:"trans_ct" form:"trans_ct" binding:"min=0,max=150"`               // transactions, last year
	TransAmount      float64 `json:"trans_amt" form:"trans_amt" binding:"min=0,max=20000"`           // USD
	RevolvingBalance float64 `json:"revolving_bal" form:"revolving_bal" binding:"min=0,max=3000"`    // USD
	UtilizationRatio float64 `json:"utilization_ratio" form:"utilization_ratio" binding:"min=0,max=1"`

	Age            *int     `json:"age,omitempty" form:"age" binding:"omitempty,min=18,max=100"`
	Dependents     *int     `json:"dependents,omitempty" form:"dependents" binding:"omitempty,min=0,max=5"`
	EducationLevel *string  `json:"education_level,omitempty" form:"education_level" binding:"omitempty,formoption=education_level"`
	IncomeCategory *string  `json:"income_category,omitempty" form:"income_category" binding:"omitempty,formoption=income_category"`
	CreditLimit    *float64 `json:"credit_limit,omitempty" form:"credit_limit" binding:"omitempty,min=1000,max=50000"`
}

// ColumnKind tells the classifier how a feature column is encoded.
type ColumnKind int

const (
	Numeric ColumnKind = iota
	Categorical
)

func (k ColumnKind) String() string {
	if k == Categorical {
		return "categorical"
	}
	return "numeric"
}

// Column is a single named, typed cell of a FeatureVector.
type Column struct {
	Name   string
	Kind   ColumnKind
	Number float64
	Label  string
}

// FeatureVector is the complete record the trained pipeline expects.
// Field order mirrors the training frame; json names are the lower-cased column names.
type FeatureVector struct {
	CustomerAge            int     `json:"customer_age"`
	Gender                 string  `json:"gender"`
	DependentCount         int     `json:"dependent_count"`
	EducationLevel         string  `json:"education_level"`
	MaritalStatus          string  `json:"marital_status"`
	IncomeCategory         string  `json:"income_category"`
	CardCategory           string  `json:"card_category"`
	MonthsOnBook           int     `json:"months_on_book"`
	TotalRelationshipCount int     `json:"total_relationship_count"`
	MonthsInactive12Mon    int     `json:"months_inactive_12_mon"`
	ContactsCount12Mon     int     `json:"contacts_count_12_mon"`
	CreditLimit            float64 `json:"credit_limit"`
	TotalRevolvingBal      float64 `json:"total_revolving_bal"`
	AvgOpenToBuy           float64 `json:"avg_open_to_buy"`
	TotalAmtChngQ4Q1       float64 `json:"total_amt_chng_q4_q1"`
	TotalTransAmt          float64 `json:"total_trans_amt"`
	TotalTransCt           int     `json:"total_trans_ct"`
	TotalCtChngQ4Q1        float64 `json:"total_ct_chng_q4_q1"`
	AvgUtilizationRatio    float64 `json:"avg_utilization_ratio"`
	AgeGroup               string  `json:"age_group"`
	TenureSegment          string  `json:"tenure_segment"`
}

// Columns returns the vector in training order.
func (v FeatureVector) Columns() []Column {
	num := func(name string, x float64) Column { return Column{Name: name, Kind: Numeric, Number: x} }
	cat := func(name, s string) Column { return Column{Name: name, Kind: Categorical, Label: s} }

	return []Column{
		num("customer_age", float64(v.CustomerAge)),
		cat("gender", v.Gender),
		num("dependent_count", float64(v.DependentCount)),
		cat("education_level", v.EducationLevel),
		cat("marital_status", v.MaritalStatus),
		cat("income_category", v.IncomeCategory),
		cat("card_category", v.CardCategory),
		num("months_on_book", float64(v.MonthsOnBook)),
		num("total_relationship_count", float64(v.TotalRelationshipCount)),
		num("months_inactive_12_mon", float64(v.MonthsInactive12Mon)),
		num("contacts_count_12_mon", float64(v.ContactsCount12Mon)),
		num("credit_limit", v.CreditLimit),
		num("total_revolving_bal", v.TotalRevolvingBal),
		num("avg_open_to_buy", v.AvgOpenToBuy),
		num("total_amt_chng_q4_q1", v.TotalAmtChngQ4Q1),
		num("total_trans_amt", v.TotalTransAmt),
		num("total_trans_ct", float64(v.TotalTransCt)),
		num("total_ct_chng_q4_q1", v.TotalCtChngQ4Q1),
		num("avg_utilization_ratio", v.AvgUtilizationRatio),
		cat("age_group", v.AgeGroup),
		cat("tenure_segment", v.TenureSegment),
	}
}

// Provenance records which path produced a prediction.
type Provenance string

const (
	ProvenanceModel     Provenance = "model"
	ProvenanceHeuristic Provenance = "heuristic"
)

// RiskTier is the bucket a churn probability falls into.
type RiskTier string

const (
	RiskTierLow    RiskTier = "LOW"
	RiskTierMedium RiskTier = "MEDIUM"
	RiskTierHigh   RiskTier = "HIGH"
)

// PredictionResult is produced once per submission and discarded after rendering.
type PredictionResult struct {
	Label          int        `json:"label"`                     // 0 = retained, 1 = churned
	Probability    *float64   `json:"probability,omitempty"`     // nil when the classifier only labels
	Provenance     Provenance `json:"provenance"`                // model or heuristic
	Tier           RiskTier   `json:"tier,omitempty"`            // empty without a probability
	FallbackReason string     `json:"fallback_reason,omitempty"` // why the heuristic ran
	Recommendation string     `json:"recommendation"`
}

// IsFallback reports whether the heuristic produced the result.
func (r PredictionResult) IsFallback() bool {
	return r.Provenance == ProvenanceHeuristic
}

// Stage is one step of a submission's lifecycle.
type Stage string

const (
	StageIdle           Stage = "idle"
	StageAdapting       Stage = "adapting"
	StageInferring      Stage = "inferring"
	StageModelSucceeded Stage = "model_succeeded"
	StageModelFailed    Stage = "model_failed"
	StageFallback       Stage = "fallback"
	StageResultReady    Stage = "result_ready"
)
