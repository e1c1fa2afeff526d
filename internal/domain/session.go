package domain

import (
	"fmt"
	"time"
)

// Step represents where a user is in the report conversation
type Step string

const (
	StepIdle                 Step = "idle"
	StepChoosingDepartment   Step = "choosing_department"
	StepConfirmingDepartment Step = "confirming_department"
	StepEnteringPassword     Step = "entering_password"

	StepPlan                Step = "waiting_for_plan"
	StepServiced            Step = "waiting_for_serviced"
	StepServiced1           Step = "waiting_for_serviced1"
	StepReadyTech           Step = "waiting_for_ready_tech"
	StepClosedOrders        Step = "waiting_for_closed_orders"
	StepOwn                 Step = "waiting_for_own"
	StepNewClients          Step = "waiting_for_new_clients"
	StepWorkers             Step = "waiting_for_workers"
	StepWorkedHours         Step = "waiting_for_worked_hours"
	StepEmployeePerformance Step = "waiting_for_employee_performance"
	StepLoadPercentage      Step = "waiting_for_load_percentage"
	StepProblems            Step = "waiting_for_problems"
	StepPlans               Step = "waiting_for_plans"
	StepNotes               Step = "waiting_for_notes"

	StepDone Step = "done"
)

// Session holds a user's in-progress report
type Session struct {
	UserID     int64
	Department Department
	Step       Step
	Answers    Answers
}

// NewSession returns an unstarted session
func NewSession(userID int64) Session {
	return Session{UserID: userID, Step: StepIdle, Answers: Answers{}}
}

// Clone returns a copy that does not share the answers map
func (s Session) Clone() Session {
	s.Answers = s.Answers.Clone()
	return s
}

// Missing returns the chain fields that have no answer yet, in chain order
func (s Session) Missing() []Field {
	var missing []Field
	for _, q := range s.Department.Chain() {
		if _, ok := s.Answers[q.Field]; !ok {
			missing = append(missing, q.Field)
		}
	}
	return missing
}

// ReportStatus tracks a report through the archive
type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportDelivered ReportStatus = "delivered"
	ReportFailed    ReportStatus = "failed"
)

// Report is a completed session ready to be written to the spreadsheet
type Report struct {
	ID          int64
	UserID      int64
	ChatID      int64
	Department  Department
	Answers     Answers
	SubmittedAt time.Time
	Status      ReportStatus
	Column      int
	Attempts    int
}

// Validate checks that the report answers exactly the department's chain
func (r *Report) Validate() error {
	if !r.Department.Valid() {
		return fmt.Errorf("unknown department %q", r.Department)
	}
	s := Session{Department: r.Department, Answers: r.Answers}
	if missing := s.Missing(); len(missing) > 0 {
		return fmt.Errorf("report for %s is missing fields %v", r.Department, missing)
	}
	if len(r.Answers) != len(r.Department.Chain()) {
		return fmt.Errorf("report for %s has %d answers, want %d", r.Department, len(r.Answers), len(r.Department.Chain()))
	}
	return nil
}
