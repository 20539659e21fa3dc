//go:build ignore

// gen_sample_artifact writes models/churn_pipeline.json, a small logistic pipeline with
// coefficients taken from the notebook fit so the simulator runs without the training stack.
//
//	go run scripts/gen_sample_artifact.go
package main

import (
	"encoding/json"
	"log"
	"os"

	"ibnu-portfolio/pkg/models"
	"ibnu-portfolio/pkg/services"
)

var scalers = map[string]services.NumericScaler{
	"customer_age":             {Mean: 46.3, Scale: 8.0},
	"dependent_count":          {Mean: 2.3, Scale: 1.3},
	"months_on_book":           {Mean: 35.9, Scale: 8.0},
	"total_relationship_count": {Mean: 3.8, Scale: 1.55},
	"months_inactive_12_mon":   {Mean: 2.3, Scale: 1.0},
	"contacts_count_12_mon":    {Mean: 2.5, Scale: 1.1},
	"credit_limit":             {Mean: 8632, Scale: 9088},
	"total_revolving_bal":      {Mean: 1163, Scale: 815},
	"avg_open_to_buy":          {Mean: 7469, Scale: 9090},
	"total_amt_chng_q4_q1":     {Mean: 0.76, Scale: 0.22},
	"total_trans_amt":          {Mean: 4404, Scale: 3397},
	"total_trans_ct":           {Mean: 64.9, Scale: 23.5},
	"total_ct_chng_q4_q1":      {Mean: 0.71, Scale: 0.24},
	"avg_utilization_ratio":    {Mean: 0.27, Scale: 0.28},
}

var weights = map[string]float64{
	"customer_age":              0.05,
	"dependent_count":           0.08,
	"months_on_book":            -0.05,
	"total_relationship_count":  -0.6,
	"months_inactive_12_mon":    0.55,
	"contacts_count_12_mon":     0.5,
	"credit_limit":              -0.1,
	"total_revolving_bal":       -0.7,
	"avg_open_to_buy":           0.05,
	"total_amt_chng_q4_q1":      -0.35,
	"total_trans_amt":           0.9,
	"total_trans_ct":            -1.6,
	"total_ct_chng_q4_q1":       -0.7,
	"avg_utilization_ratio":     -0.15,
	"gender=F":                  0.25,
	"marital_status=Married":    -0.2,
	"marital_status=Single":     0.1,
	"card_category=Platinum":    0.3,
	"card_category=Gold":        0.15,
	"income_category=$120K +":   0.1,
	"education_level=Doctorate": 0.15,
	"age_group=Senior":          0.05,
	"tenure_segment=New":        0.1,
}

func main() {
	doc := services.PipelineDocument{
		Format:         services.PipelineFormat,
		RuntimeVersion: "1.3.2",
		TrainedAt:      "2025-06-01T00:00:00Z",
		Columns:        services.SchemaColumns(),
		Numeric:        make(map[string]services.NumericScaler),
		Categories:     make(map[string][]string),
		Weights:        weights,
		Intercept:      -2.2,
		Threshold:      0.5,
	}
	for _, col := range (models.FeatureVector{}).Columns() {
		if col.Kind == models.Categorical {
			doc.Categories[col.Name] = services.TrainedLabels(col.Name)
			continue
		}
		doc.Numeric[col.Name] = scalers[col.Name]
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile("models/churn_pipeline.json", append(data, '\n'), 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote models/churn_pipeline.json (%d columns)", len(doc.Columns))
}
