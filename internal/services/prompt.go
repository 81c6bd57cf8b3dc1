package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/semwett0301/rcruit-flow-sub001/internal/models"
)

// Markers that bound the serialized candidate form inside the email prompt.
const (
	FormBlockStart = `CANDIDATE FORM (JSON):
"""`
	FormBlockEnd = `"""`
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCVExtractionSystemPrompt creates the system prompt for structured CV extraction
func (pb *PromptBuilder) BuildCVExtractionSystemPrompt() string {
	return `You are an expert technical recruiter who extracts structured candidate data from CVs.
You always answer with a single JSON object and nothing else. No markdown, no code fences, no commentary.
If a value is not present in the CV, use null for optional fields and never guess.`
}

// BuildCVExtractionPrompt creates the user prompt for a CV. The CV text is
// delimited with triple double-quotes.
func (pb *PromptBuilder) BuildCVExtractionPrompt(cvText string) string {
	levels := make([]string, len(models.DegreeLevels))
	for i, level := range models.DegreeLevels {
		levels[i] = fmt.Sprintf("%q", string(level))
	}

	return fmt.Sprintf(`Extract the candidate profile from the CV below.

Return exactly one JSON object with exactly these nine fields:
{
  "name": "<full name of the candidate>",
  "currentEmployer": "<current employer or null>",
  "currentPosition": "<current job title or null>",
  "age": <age in years as an integer>,
  "location": "<city and country of residence>",
  "hardSkills": ["<technical skill>", "..."],
  "experienceDescription": "<two or three sentences summarising the professional experience>",
  "yearsOfExperience": <total years of professional experience as an integer>,
  "degree": {"level": <one of %s>, "program": "<name of the study program>"} or null
}

Rules:
- The degree level MUST be one of: %s. Do not invent other levels.
- Use the highest completed degree.
- hardSkills lists only concrete technical skills found in the CV.
- Do not add fields that are not listed above.

CV:
"""
%s
"""`,
		strings.Join(levels, " | "), strings.Join(levels, ", "), cvText)
}

// BuildEmailSystemPrompt creates the system prompt for outreach email generation
func (pb *PromptBuilder) BuildEmailSystemPrompt() string {
	return `You are an experienced recruiter writing a short, personal outreach email that introduces a candidate to a hiring contact.
Write plain text only. Do not return JSON and do not use markdown formatting.
Only use facts that are present in the input. Never invent employers, skills, degrees, numbers or other details.`
}

// BuildEmailPrompt creates the user prompt for an outreach email. The form is
// embedded verbatim as JSON between FormBlockStart and FormBlockEnd.
func (pb *PromptBuilder) BuildEmailPrompt(form *models.CandidateForm, derived DerivedFields, jobDescription string) (string, error) {
	formJSON, err := json.MarshalIndent(form, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize candidate form: %w", err)
	}

	travel := derived.TravelClause
	if travel == "" {
		travel = "(none, omit the travel sentence)"
	}

	return fmt.Sprintf(`Write an email from %s to %s presenting the candidate described below.

%s
%s
%s

DERIVED FIELDS:
- First name: %s
- Seniority: %s
- Salary indication: %s
- Travel clause: %s

JOB DESCRIPTION:
"""
%s
"""

Follow this skeleton. Replace every placeholder and keep the order:

[GREETING] Greet %s.
[ATTACHMENT] State that the CV of %s is attached.
[SKILLS] One bullet list with the technical and soft skills that match the job description.
[MOTIVATION] One sentence on why %s, a %s candidate, is motivated for the target roles.
[SALARY] Mention the salary indication "%s" and the availability of %d hours a week. Add the travel clause if one is given.
[CALL TO ACTION] Ask %s to reply to schedule an introduction, and sign with %s.

Return only the email text.`,
		form.RecruiterName, form.ContactName,
		FormBlockStart, string(formJSON), FormBlockEnd,
		derived.FirstName, derived.Seniority, derived.SalaryLine, travel,
		jobDescription,
		form.ContactName,
		derived.FirstName,
		derived.FirstName, derived.Seniority,
		derived.SalaryLine, form.HoursAWeek,
		form.ContactName, form.RecruiterName,
	), nil
}

// ExtractFormJSON returns the serialized form embedded in an email prompt.
func ExtractFormJSON(prompt string) (string, bool) {
	_, rest, ok := strings.Cut(prompt, FormBlockStart)
	if !ok {
		return "", false
	}
	body, _, ok := strings.Cut(rest, FormBlockEnd)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(body), true
}
