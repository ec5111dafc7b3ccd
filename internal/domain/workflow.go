package domain

import "time"

// WorkflowRun is a single GitHub Actions run. Conclusion is nil while the
// run has not completed. Jobs is only populated on request.
type WorkflowRun struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	HeadBranch string         `json:"head_branch"`
	HeadSHA    string         `json:"head_sha"`
	Status     string         `json:"status"`
	Conclusion *string        `json:"conclusion"`
	Event      string         `json:"event,omitempty"`
	RunNumber  int            `json:"run_number"`
	HTMLURL    string         `json:"html_url"`
	CreatedAt  time.Time      `json:"created_at"`
	Jobs       []*WorkflowJob `json:"jobs,omitempty"`
}

// WorkflowJob is one job of a workflow run.
type WorkflowJob struct {
	ID          int64           `json:"id"`
	RunID       int64           `json:"run_id"`
	Name        string          `json:"name"`
	Status      string          `json:"status"`
	Conclusion  *string         `json:"conclusion"`
	HTMLURL     string          `json:"html_url,omitempty"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Steps       []*WorkflowStep `json:"steps"`
}

// WorkflowStep is one step of a workflow job.
type WorkflowStep struct {
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	Conclusion *string `json:"conclusion"`
	Number     int64   `json:"number"`
}

// Failed reports whether the step concluded with a failure.
func (s *WorkflowStep) Failed() bool {
	return s.Conclusion != nil && *s.Conclusion == "failure"
}

// BuildDiagnosis is the result of inspecting a workflow run for failures.
type BuildDiagnosis struct {
	RunID       int64          `json:"run_id"`
	Jobs        []*WorkflowJob `json:"jobs"`
	FailedSteps []FailedStep   `json:"failed_steps"`
}

// FailedStep names a failed step together with the job that ran it.
type FailedStep struct {
	Job  string `json:"job"`
	Step string `json:"step"`
	// Number is the step number inside the job.
	Number int64 `json:"number"`
}
