// Package advisor turns user career profiles into model prompts and model
// output back into JSON, and relays follow-up chat to the completion service.
package advisor

// UserProfile is the inbound career profile. Every field is optional; absent
// fields serialize as null so the prompt always carries the full key set.
type UserProfile struct {
	Name             *string  `json:"name"`
	Background       *string  `json:"background"`
	Skills           []string `json:"skills"`
	Interests        []string `json:"interests"`
	Goals            []string `json:"goals"`
	ExperienceLevel  *string  `json:"experience_level"`
	TimePerWeekHours *int     `json:"time_per_week_hours"`
}

// AdvicePayload is the shape the prompt asks the model to produce. It is not
// enforced: the model's JSON is returned as-is.
type AdvicePayload struct {
	CareerPaths []CareerPath `json:"career_paths"`
	NextSkills  []NextSkill  `json:"next_skills"`
	Resources   []Resource   `json:"resources"`
	Plan        Plan         `json:"plan_30_60_90"`
}

type CareerPath struct {
	Title  string `json:"title"`
	Match  int    `json:"match"`
	WhyFit string `json:"why_fit"`
	Salary string `json:"salary"`
	Growth string `json:"growth"`
}

type NextSkill struct {
	Skill string `json:"skill"`
	Why   string `json:"why"`
}

type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Why   string `json:"why"`
	Type  string `json:"type"`
}

type Plan struct {
	Days0To30  PlanPhase `json:"days_0_30"`
	Days31To60 PlanPhase `json:"days_31_60"`
	Days61To90 PlanPhase `json:"days_61_90"`
}

type PlanPhase struct {
	Title string   `json:"title"`
	Tasks []string `json:"tasks"`
}

// ChatTurn is one caller-supplied message of a chat history.
type ChatTurn struct {
	Role  string   `json:"role"`
	Parts []string `json:"parts"`
}
