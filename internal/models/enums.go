package models

// Role is a user's system-wide role.
type Role string

const (
	RoleManager Role = "MP"  // project manager: owns projects, recruits, assigns
	RoleTester  Role = "TST" // tester: registers on projects, files bugs
)

func (r Role) Valid() bool {
	return r == RoleManager || r == RoleTester
}

// Severity describes how badly a bug breaks the project.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Priority describes how urgently a bug should be picked up.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Status is a bug's resolution state. A bug starts Open; status only
// changes once the bug has been assigned, and may then move freely
// among the four values.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusFixed      Status = "Fixed"
	StatusClosed     Status = "Closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusFixed, StatusClosed:
		return true
	}
	return false
}
