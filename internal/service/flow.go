package service

import (
	"fmt"

	"reportbot/internal/domain"
)

// InputKind distinguishes how a user reached the bot
type InputKind int

const (
	InputText InputKind = iota
	InputButton
	InputStart
	InputStop
)

// Input is one inbound user action
type Input struct {
	Kind    InputKind
	Payload string
}

// Callback payloads of the confirmation keyboard
const (
	PayloadConfirm  = "confirm"
	PayloadReselect = "reselect"
)

// Keyboard selects the markup sent with a reply
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardDepartments
	KeyboardConfirm
	KeyboardMain
)

// Reply is the single message sent back for an input
type Reply struct {
	Text     string
	Keyboard Keyboard
}

// Effect is a side effect the caller must apply after a transition
type Effect int

const (
	EffectNone Effect = iota
	EffectRecordSubmission
	EffectSubmit
	EffectReset
)

// Outcome is the result of one transition
type Outcome struct {
	Session domain.Session
	Reply   Reply
	Effect  Effect
	// Completed holds the finished session when Effect is EffectSubmit
	Completed *domain.Session
}

// Guards are the checks a transition consults without owning them
type Guards struct {
	CanSubmit     func(domain.Department) bool
	CheckPassword func(domain.Department, string) bool
}

// Messages
const (
	MsgWelcome          = "Hi, you have entered the system to submit a daily report. Please choose the department you want to report for."
	MsgChooseDepartment = "Please choose the department you want to report for."
	MsgAlreadySubmitted = "You have already submitted a report for %s today. Please choose another department."
	MsgConfirmChoice    = "You have chosen %s. Confirm your choice?"
	MsgEnterPassword    = "Enter the password for the selected department:"
	MsgPasswordCorrect  = "Password correct. Let's start reporting."
	MsgWrongPassword    = "Incorrect password. Please try again:"
	MsgNotInteger       = "Please enter a numeric value only. Try again:"
	MsgNotDecimal       = "Please enter a valid numeric value. Try again:"
	MsgReportSent       = "Your report has been successfully sent!"
	MsgStopped          = "Reporting stopped."
)

// Transition computes the next session state and reply for an input. It has
// no side effects; the caller applies Outcome.Effect.
func Transition(s domain.Session, in Input, g Guards) Outcome {
	switch in.Kind {
	case InputStop:
		return Outcome{
			Session: domain.NewSession(s.UserID),
			Reply:   Reply{Text: MsgStopped, Keyboard: KeyboardMain},
			Effect:  EffectReset,
		}
	case InputStart:
		return start(s)
	}

	switch s.Step {
	case domain.StepChoosingDepartment:
		return chooseDepartment(s, in, g)
	case domain.StepConfirmingDepartment:
		return confirmDepartment(s, in)
	case domain.StepEnteringPassword:
		return enterPassword(s, in, g)
	}

	if q, ok := s.Department.Question(s.Step); ok {
		return answer(s, q, in)
	}

	// Idle, done, or a step that does not belong to the department
	return start(s)
}

func start(s domain.Session) Outcome {
	next := domain.NewSession(s.UserID)
	next.Step = domain.StepChoosingDepartment
	return Outcome{
		Session: next,
		Reply:   Reply{Text: MsgWelcome, Keyboard: KeyboardDepartments},
	}
}

func chooseDepartment(s domain.Session, in Input, g Guards) Outcome {
	department, ok := domain.ParseDepartment(in.Payload)
	if in.Kind != InputButton || !ok {
		return Outcome{
			Session: s,
			Reply:   Reply{Text: MsgChooseDepartment, Keyboard: KeyboardDepartments},
		}
	}

	if !g.CanSubmit(department) {
		return Outcome{
			Session: s,
			Reply:   Reply{Text: fmt.Sprintf(MsgAlreadySubmitted, department.Name()), Keyboard: KeyboardDepartments},
		}
	}

	s.Department = department
	s.Step = domain.StepConfirmingDepartment
	return Outcome{
		Session: s,
		Reply:   Reply{Text: fmt.Sprintf(MsgConfirmChoice, department.Name()), Keyboard: KeyboardConfirm},
	}
}

func confirmDepartment(s domain.Session, in Input) Outcome {
	if in.Kind == InputButton {
		switch in.Payload {
		case PayloadConfirm:
			s.Step = domain.StepEnteringPassword
			return Outcome{
				Session: s,
				Reply:   Reply{Text: MsgEnterPassword},
				Effect:  EffectRecordSubmission,
			}
		case PayloadReselect:
			s.Department = ""
			s.Step = domain.StepChoosingDepartment
			return Outcome{
				Session: s,
				Reply:   Reply{Text: MsgChooseDepartment, Keyboard: KeyboardDepartments},
			}
		}
	}

	return Outcome{
		Session: s,
		Reply:   Reply{Text: fmt.Sprintf(MsgConfirmChoice, s.Department.Name()), Keyboard: KeyboardConfirm},
	}
}

func enterPassword(s domain.Session, in Input, g Guards) Outcome {
	if in.Kind != InputText || !g.CheckPassword(s.Department, in.Payload) {
		return Outcome{Session: s, Reply: Reply{Text: MsgWrongPassword}}
	}

	first, ok := s.Department.FirstQuestion()
	if !ok {
		return start(s)
	}

	s.Step = first.Step
	return Outcome{
		Session: s,
		Reply:   Reply{Text: MsgPasswordCorrect + "\n\n" + first.Prompt},
	}
}

func answer(s domain.Session, q domain.Question, in Input) Outcome {
	if in.Kind != InputText {
		return Outcome{Session: s, Reply: Reply{Text: q.Prompt}}
	}

	value, err := domain.ParseAnswer(q.Kind, in.Payload)
	if err != nil {
		return Outcome{Session: s, Reply: Reply{Text: invalidMessage(q.Kind)}}
	}

	s = s.Clone()
	s.Answers[q.Field] = value

	next, ok := s.Department.NextQuestion(s.Step)
	if !ok {
		s.Step = domain.StepDone
		return Outcome{
			Session:   domain.NewSession(s.UserID),
			Reply:     Reply{Text: MsgReportSent, Keyboard: KeyboardMain},
			Effect:    EffectSubmit,
			Completed: &s,
		}
	}

	s.Step = next.Step
	return Outcome{Session: s, Reply: Reply{Text: next.Prompt}}
}

func invalidMessage(kind domain.Kind) string {
	if kind == domain.KindDecimal {
		return MsgNotDecimal
	}
	return MsgNotInteger
}
