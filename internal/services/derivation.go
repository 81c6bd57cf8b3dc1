package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/semwett0301/rcruit-flow-sub001/internal/models"
)

const (
	SeniorityJunior = "Junior"
	SeniorityMedior = "Medior"
	SenioritySenior = "Senior"
)

// DerivedFields are the display values computed from a CandidateForm before
// the email prompt is built.
type DerivedFields struct {
	FirstName    string `json:"firstName"`
	Seniority    string `json:"seniority"`
	SalaryLine   string `json:"salaryLine"`
	TravelClause string `json:"travelClause"`
}

var amountPrinter = message.NewPrinter(language.English)

// FirstName returns the first space-delimited token. Hyphenated names stay whole.
func FirstName(fullName string) string {
	for _, token := range strings.Split(strings.TrimSpace(fullName), " ") {
		if token != "" {
			return token
		}
	}
	return ""
}

// Seniority bands years of experience. Each band includes its lower bound.
func Seniority(yearsOfExperience int) string {
	switch {
	case yearsOfExperience >= 5:
		return SenioritySenior
	case yearsOfExperience >= 3:
		return SeniorityMedior
	default:
		return SeniorityJunior
	}
}

// SalaryLine renders the salary indication, e.g. "€60,000 all-in per year".
func SalaryLine(currency string, period models.SalaryPeriod, grossAmount int) string {
	amount := amountPrinter.Sprintf("%d", grossAmount)
	if period == models.SalaryPeriodYear {
		return fmt.Sprintf("%s%s all-in per year", currency, amount)
	}
	return fmt.Sprintf("%s%s gross / month", currency, amount)
}

// TravelClause composes the commute sentence. Missing minutes or on-site days
// render as 0. No options yields "".
func TravelClause(options []models.TravelOption) string {
	if len(options) == 0 {
		return ""
	}

	parts := make([]string, 0, len(options))
	for _, opt := range options {
		if opt.Mode == models.TravelModeRemote {
			parts = append(parts, "only remote")
			continue
		}
		parts = append(parts, fmt.Sprintf("%d minutes by %s with %d on-site days",
			intOrZero(opt.MinutesOfRoad), opt.Mode.Label(), intOrZero(opt.OnSiteDays)))
	}

	return "willing to commute up to " + strings.Join(parts, " or ") + "."
}

// DeriveFields computes every display field for form.
func DeriveFields(form *models.CandidateForm, currency string) DerivedFields {
	return DerivedFields{
		FirstName:    FirstName(form.CandidateName),
		Seniority:    Seniority(form.YearsOfExperience),
		SalaryLine:   SalaryLine(currency, form.SalaryPeriod, form.GrossSalary),
		TravelClause: TravelClause(form.TravelOptions),
	}
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
