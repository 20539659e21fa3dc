package main

import (
	"strings"

	"ibnu-portfolio/pkg/models"
	"ibnu-portfolio/pkg/services"

	"github.com/spf13/cobra"
)

func newScoreCmd(c *cli) *cobra.Command {
	var (
		p            models.CustomerProfile
		age          int
		dependents   int
		education    string
		income       string
		creditLimit  float64
		showFeatures bool
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one customer profile and print the result as JSON",
		Example: `  churnctl score --trans-ct 20 --inactive 4 --revolving-bal 100
  churnctl score --gender F --card Gold --age 52 --features`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("age") {
				p.Age = &age
			}
			if flags.Changed("dependents") {
				p.Dependents = &dependents
			}
			if flags.Changed("education") {
				p.EducationLevel = &education
			}
			if flags.Changed("income") {
				p.IncomeCategory = &income
			}
			if flags.Changed("credit-limit") {
				p.CreditLimit = &creditLimit
			}

			estimator, _, err := c.estimator()
			if err != nil {
				return err
			}
			validate, err := services.NewProfileValidator(estimator.Adapter().Options())
			if err != nil {
				return err
			}
			if err := validate.Struct(p); err != nil {
				return err
			}

			est, err := estimator.Estimate(p)
			if err != nil {
				return err
			}
			if showFeatures {
				return printJSON(cmd.OutOrStdout(), est)
			}
			return printJSON(cmd.OutOrStdout(), est.Result)
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.Gender, "gender", "M", "M or F")
	f.StringVar(&p.MaritalStatus, "marital", "Married", "Married, Single, Divorced or Unknown")
	f.StringVar(&p.CardCategory, "card", "Blue", "Blue, Silver, Gold or Platinum")
	f.IntVar(&p.Tenure, "tenure", 36, "months on book")
	f.IntVar(&p.Products, "products", 2, "total relationship count")
	f.IntVar(&p.InactiveMonths, "inactive", 1, "inactive months in the last 12")
	f.IntVar(&p.Contacts, "contacts", 2, "complaints in the last 12 months")
	f.IntVar(&p.TransCount, "trans-ct", 40, "transactions in the last year")
	f.Float64Var(&p.TransAmount, "trans-amt", 2000, "transaction amount in the last year")
	f.Float64Var(&p.RevolvingBalance, "revolving-bal", 1000, "revolving balance")
	f.Float64Var(&p.UtilizationRatio, "utilization", 0.1, "average utilization ratio")
	f.IntVar(&age, "age", 0, "customer age (optional)")
	f.IntVar(&dependents, "dependents", 0, "dependent count (optional)")
	f.StringVar(&education, "education", "", "education level (optional): "+strings.Join(categoricalValues("education_level"), ", "))
	f.StringVar(&income, "income", "", "income category (optional)")
	f.Float64Var(&creditLimit, "credit-limit", 0, "credit limit (optional)")
	f.BoolVar(&showFeatures, "features", false, "print the feature vector and trace too")
	return cmd
}

func categoricalValues(name string) []string {
	for _, f := range services.DefaultFormOptions().Categorical {
		if f.Name == name {
			return f.Values
		}
	}
	return nil
}
