package domain

// Department is a report category. The value doubles as the callback payload
// of its keyboard button.
type Department string

const (
	DepartmentServiceA   Department = "rem1"
	DepartmentServiceB   Department = "rem2"
	DepartmentWash       Department = "wash"
	DepartmentInspection Department = "to"
	DepartmentBreakup    Department = "breakup"
)

// Departments lists every department in keyboard order
var Departments = []Department{
	DepartmentServiceA,
	DepartmentServiceB,
	DepartmentWash,
	DepartmentInspection,
	DepartmentBreakup,
}

const (
	// FirstColumn is the first spreadsheet column (C) that holds report data
	FirstColumn = 3
	// MaxColumn is the last column a Google sheet can have (ZZZ)
	MaxColumn = 18278
)

// Field names a collected answer
type Field string

const (
	FieldPlan                Field = "plan"
	FieldServiced            Field = "serviced"
	FieldServiced1           Field = "serviced1"
	FieldReadyTech           Field = "ready_tech"
	FieldClosedOrders        Field = "closed_orders"
	FieldOwn                 Field = "own"
	FieldNewClients          Field = "new_clients"
	FieldWorkers             Field = "workers"
	FieldWorkedHours         Field = "worked_hours"
	FieldEmployeePerformance Field = "employee_performance"
	FieldLoadPercentage      Field = "load_percentage"
	FieldProblems            Field = "problems"
	FieldPlans               Field = "plans"
	FieldNotes               Field = "notes"
)

// Question is one step of a department's field chain
type Question struct {
	Step   Step
	Field  Field
	Kind   Kind
	Prompt string
}

// Cell places a field relative to the allocated column and the department's
// start row. Alt fields go one column to the right.
type Cell struct {
	Field     Field
	RowOffset int
	Alt       bool
}

type departmentSpec struct {
	name            string
	label           string
	defaultPassword string
	startRow        int
	chain           []Question
	layout          []Cell
}

// Prompts shared by several departments
const (
	promptOwn                 = "Number of own vehicles:"
	promptNewClients          = "Number of new clients:"
	promptWorkers             = "Number of employees:"
	promptWorkedHours         = "Number of worked hours:"
	promptEmployeePerformance = "Employee performance:"
	promptProblems            = "Problems detected today (if none, send '-'):"
	promptPlans               = "Plans for solving (if none, send '-'):"
	promptNotes               = "Add notes (if none, send '-'):"
)

var serviceChain = []Question{
	{StepPlan, FieldPlan, KindInt, "Planned arrival at work"},
	{StepServiced, FieldServiced, KindInt, "Readiness plan (departure)"},
	{StepReadyTech, FieldReadyTech, KindInt, "Quantity of ready equipment"},
	{StepClosedOrders, FieldClosedOrders, KindInt, "Number of closed orders"},
	{StepOwn, FieldOwn, KindInt, promptOwn},
	{StepNewClients, FieldNewClients, KindInt, promptNewClients},
	{StepWorkers, FieldWorkers, KindInt, promptWorkers},
	{StepWorkedHours, FieldWorkedHours, KindDecimal, promptWorkedHours},
	{StepEmployeePerformance, FieldEmployeePerformance, KindDecimal, promptEmployeePerformance},
	{StepProblems, FieldProblems, KindText, promptProblems},
	{StepPlans, FieldPlans, KindText, promptPlans},
	{StepNotes, FieldNotes, KindText, promptNotes},
}

var serviceLayout = []Cell{
	{FieldPlan, 1, true},
	{FieldServiced, 2, true},
	{FieldReadyTech, 3, false},
	{FieldOwn, 4, false},
	{FieldClosedOrders, 5, false},
	{FieldNewClients, 6, false},
	{FieldWorkers, 7, false},
	{FieldWorkedHours, 8, false},
	{FieldEmployeePerformance, 9, false},
	{FieldProblems, 10, false},
	{FieldPlans, 11, false},
	{FieldNotes, 12, false},
}

var (
	serviceA = departmentSpec{
		name:            "service1",
		label:           "Service 1",
		defaultPassword: "1",
		startRow:        4,
		chain:           serviceChain,
		layout:          serviceLayout,
	}
	serviceB = departmentSpec{
		name:            "service2",
		label:           "Service 2",
		defaultPassword: "2",
		startRow:        18,
		chain:           serviceChain,
		layout:          serviceLayout,
	}
	wash = departmentSpec{
		name:            "wash",
		label:           "Wash",
		defaultPassword: "3",
		startRow:        32,
		chain: []Question{
			{StepServiced, FieldServiced, KindInt, "Number of washes from 17:00 to 08:00"},
			{StepServiced1, FieldServiced1, KindInt, "Actual number of washes from 08:00 to 17:00"},
			{StepOwn, FieldOwn, KindInt, promptOwn},
			{StepNewClients, FieldNewClients, KindInt, promptNewClients},
			{StepWorkedHours, FieldWorkedHours, KindDecimal, promptWorkedHours},
			{StepEmployeePerformance, FieldEmployeePerformance, KindDecimal, promptEmployeePerformance},
			{StepProblems, FieldProblems, KindText, promptProblems},
			{StepPlans, FieldPlans, KindText, promptPlans},
			{StepNotes, FieldNotes, KindText, promptNotes},
		},
		layout: []Cell{
			{FieldServiced, 1, false},
			{FieldServiced1, 2, false},
			{FieldOwn, 3, false},
			{FieldNewClients, 4, false},
			{FieldWorkedHours, 5, false},
			{FieldEmployeePerformance, 6, false},
			{FieldProblems, 7, false},
			{FieldPlans, 8, false},
			{FieldNotes, 9, false},
		},
	}
	inspection = departmentSpec{
		name:            "ТО",
		label:           "ТО",
		defaultPassword: "4",
		startRow:        43,
		chain: []Question{
			{StepPlan, FieldPlan, KindInt, "Planned TO records"},
			{StepServiced, FieldServiced, KindInt, "Actual amount TO"},
			{StepOwn, FieldOwn, KindInt, "Quantity of own vehicles"},
			{StepNewClients, FieldNewClients, KindInt, promptNewClients},
			{StepWorkers, FieldWorkers, KindInt, promptWorkers},
			{StepWorkedHours, FieldWorkedHours, KindDecimal, promptWorkedHours},
			{StepEmployeePerformance, FieldEmployeePerformance, KindDecimal, promptEmployeePerformance},
			{StepProblems, FieldProblems, KindText, promptProblems},
			{StepPlans, FieldPlans, KindText, promptPlans},
			{StepNotes, FieldNotes, KindText, promptNotes},
		},
		layout: []Cell{
			{FieldPlan, 1, true},
			{FieldServiced, 2, false},
			{FieldOwn, 3, false},
			{FieldNewClients, 4, false},
			{FieldWorkers, 5, false},
			{FieldWorkedHours, 6, false},
			{FieldEmployeePerformance, 7, false},
			{FieldProblems, 8, false},
			{FieldPlans, 9, false},
			{FieldNotes, 10, false},
		},
	}
	breakup = departmentSpec{
		name:            "breakup",
		label:           "Breakup",
		defaultPassword: "5",
		startRow:        55,
		chain: []Question{
			{StepPlan, FieldPlan, KindInt, "Planned breakup records"},
			{StepServiced, FieldServiced, KindInt, "Actual amount breakup"},
			{StepLoadPercentage, FieldLoadPercentage, KindDecimal, "Load percentage"},
			{StepNewClients, FieldNewClients, KindInt, promptNewClients},
			{StepNotes, FieldNotes, KindText, promptNotes},
		},
		layout: []Cell{
			{FieldPlan, 1, true},
			{FieldServiced, 2, false},
			{FieldLoadPercentage, 3, false},
			{FieldNewClients, 4, false},
			{FieldNotes, 5, false},
		},
	}
)

func (d Department) spec() *departmentSpec {
	switch d {
	case DepartmentServiceA:
		return &serviceA
	case DepartmentServiceB:
		return &serviceB
	case DepartmentWash:
		return &wash
	case DepartmentInspection:
		return &inspection
	case DepartmentBreakup:
		return &breakup
	}
	return nil
}

// ParseDepartment maps a callback payload to a department
func ParseDepartment(payload string) (Department, bool) {
	d := Department(payload)
	return d, d.Valid()
}

// Valid reports whether d is one of the known departments
func (d Department) Valid() bool {
	return d.spec() != nil
}

// Name returns the descriptive name shown in messages
func (d Department) Name() string {
	if s := d.spec(); s != nil {
		return s.name
	}
	return "department"
}

// Label returns the keyboard button text
func (d Department) Label() string {
	if s := d.spec(); s != nil {
		return s.label
	}
	return string(d)
}

// DefaultPassword returns the built-in password, used unless overridden by
// configuration
func (d Department) DefaultPassword() string {
	if s := d.spec(); s != nil {
		return s.defaultPassword
	}
	return ""
}

// StartRow returns the first row of the department's block in the sheet
func (d Department) StartRow() int {
	if s := d.spec(); s != nil {
		return s.startRow
	}
	return 0
}

// Chain returns the ordered questions asked for the department
func (d Department) Chain() []Question {
	if s := d.spec(); s != nil {
		return s.chain
	}
	return nil
}

// Layout returns the cell offsets of every field of the department
func (d Department) Layout() []Cell {
	if s := d.spec(); s != nil {
		return s.layout
	}
	return nil
}

// FirstQuestion returns the first question of the chain
func (d Department) FirstQuestion() (Question, bool) {
	chain := d.Chain()
	if len(chain) == 0 {
		return Question{}, false
	}
	return chain[0], true
}

// Question returns the question asked at step
func (d Department) Question(step Step) (Question, bool) {
	for _, q := range d.Chain() {
		if q.Step == step {
			return q, true
		}
	}
	return Question{}, false
}

// NextQuestion returns the question following step. ok is false when step is
// the last one in the chain.
func (d Department) NextQuestion(step Step) (Question, bool) {
	chain := d.Chain()
	for i, q := range chain {
		if q.Step == step && i+1 < len(chain) {
			return chain[i+1], true
		}
	}
	return Question{}, false
}
