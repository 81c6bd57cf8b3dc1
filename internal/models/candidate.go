package models

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

type TravelMode string

const (
	TravelModeCar             TravelMode = "car"
	TravelModePublicTransport TravelMode = "public transport"
	TravelModeBicycle         TravelMode = "bicycle"
	TravelModeWalk            TravelMode = "on walk"
	TravelModeRemote          TravelMode = "remote"
)

var travelModeLabels = map[TravelMode]string{
	TravelModeCar:             "Car",
	TravelModePublicTransport: "Public transport",
	TravelModeBicycle:         "Bicycle",
	TravelModeWalk:            "On walk",
	TravelModeRemote:          "Remote",
}

// Valid reports whether m is one of the known travel modes.
func (m TravelMode) Valid() bool {
	_, ok := travelModeLabels[m]
	return ok
}

// Label is the display form used in outreach copy.
func (m TravelMode) Label() string {
	if label, ok := travelModeLabels[m]; ok {
		return label
	}
	return string(m)
}

// TravelOption is one acceptable commute. Remote options ignore minutes and days.
type TravelOption struct {
	Mode          TravelMode `json:"mode" validate:"required,travel_mode"`
	MinutesOfRoad *int       `json:"minutesOfRoad,omitempty" validate:"omitempty,gte=0"`
	OnSiteDays    *int       `json:"onSiteDays,omitempty" validate:"omitempty,gte=0,lte=5"`
}

type SalaryPeriod string

const (
	SalaryPeriodYear  SalaryPeriod = "year"
	SalaryPeriodMonth SalaryPeriod = "month"
)

// CandidateForm is the recruiter-completed profile used to compose outreach.
// Exactly one of JobDescriptionText and JobDescriptionFile must be set.
type CandidateForm struct {
	CandidateName         string   `json:"candidateName" validate:"required"`
	CurrentEmployer       *string  `json:"currentEmployer,omitempty"`
	CurrentPosition       *string  `json:"currentPosition,omitempty"`
	Age                   int      `json:"age" validate:"gte=18"`
	Location              string   `json:"location" validate:"required"`
	HardSkills            []string `json:"hardSkills" validate:"omitempty,dive,required"`
	ExperienceDescription string   `json:"experienceDescription"`
	YearsOfExperience     int      `json:"yearsOfExperience" validate:"gte=0"`
	Degree                *Degree  `json:"degree,omitempty"`

	RecruiterName      string         `json:"recruiterName" validate:"required"`
	ContactName        string         `json:"contactName" validate:"required"`
	TargetRoles        []string       `json:"targetRoles" validate:"required,min=1,dive,required"`
	Ambitions          *string        `json:"ambitions,omitempty"`
	TravelOptions      []TravelOption `json:"travelOptions,omitempty" validate:"omitempty,dive"`
	GrossSalary        int            `json:"grossSalary" validate:"gte=0"`
	SalaryPeriod       SalaryPeriod   `json:"salaryPeriod" validate:"required,oneof=year month"`
	HoursAWeek         int            `json:"hoursAWeek" validate:"oneof=8 16 24 32 40"`
	JobDescriptionText string         `json:"jobDescriptionText,omitempty" validate:"required_without=JobDescriptionFile,excluded_with=JobDescriptionFile,notblank"`
	JobDescriptionFile string         `json:"jobDescriptionFile,omitempty" validate:"required_without=JobDescriptionText"`
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Empty values are left to the required_* rules; present values must not be blank.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return fl.Field().Len() == 0 || validators.NotBlank(fl)
	})
	_ = v.RegisterValidation("travel_mode", func(fl validator.FieldLevel) bool {
		return TravelMode(fl.Field().String()).Valid()
	})
	return v
}

// Validate validates the CandidateForm using the validator.
func (f *CandidateForm) Validate() error {
	return formValidator.Struct(f)
}

// FieldErrors flattens a validation error into "field: rule" strings.
func FieldErrors(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			fields = append(fields, fmt.Sprintf("%s: %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		fields = append(fields, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
	}
	return fields
}
