package model

import "time"

type UrgencyLevel string

const (
	UrgencyUrgent       UrgencyLevel = "URGENT"
	UrgencyImportant    UrgencyLevel = "IMPORTANT"
	UrgencyNotUrgent    UrgencyLevel = "NOT_URGENT"
	UrgencyNotImportant UrgencyLevel = "NOT_IMPORTANT"
)

func (u UrgencyLevel) Valid() bool {
	switch u {
	case UrgencyUrgent, UrgencyImportant, UrgencyNotUrgent, UrgencyNotImportant:
		return true
	}
	return false
}

type TaskCategory string

const (
	CategoryExpansion       TaskCategory = "EXPANSION"
	CategorySupport         TaskCategory = "SUPPORT"
	CategoryMonitoring      TaskCategory = "MONITORING"
	CategoryCentralProjects TaskCategory = "CENTRAL_PROJECTS"
)

func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryExpansion, CategorySupport, CategoryMonitoring, CategoryCentralProjects:
		return true
	}
	return false
}

type TaskStatus string

const (
	StatusPending  TaskStatus = "PENDING"
	StatusResolved TaskStatus = "RESOLVED"
)

func (s TaskStatus) Valid() bool {
	return s == StatusPending || s == StatusResolved
}

type Task struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Requester   string       `json:"requester"`
	Urgency     UrgencyLevel `json:"urgency"`
	Category    TaskCategory `json:"category"`
	Status      TaskStatus   `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	ResolvedAt  *time.Time   `json:"resolvedAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TaskFilter holds the optional query filters for listing tasks.
// Nil fields are not applied.
type TaskFilter struct {
	Urgency  *UrgencyLevel
	Category *TaskCategory
	Status   *TaskStatus
	Search   *string
	DateFrom *time.Time
	DateTo   *time.Time
}

// TaskUpdate is a partial update; nil fields keep their current value.
type TaskUpdate struct {
	Description *string       `json:"description"`
	Requester   *string       `json:"requester"`
	Urgency     *UrgencyLevel `json:"urgency"`
	Category    *TaskCategory `json:"category"`
	Status      *TaskStatus   `json:"status"`
}

// TaskStats is the dashboard payload: overall counters plus breakdowns
// of the pending backlog.
type TaskStats struct {
	TotalTasks      int             `json:"totalTasks"`
	PendingTasks    int             `json:"pendingTasks"`
	ResolvedTasks   int             `json:"resolvedTasks"`
	UrgentTasks     int             `json:"urgentTasks"`
	TasksByCategory []CategoryCount `json:"tasksByCategory"`
	TasksByUrgency  []UrgencyCount  `json:"tasksByUrgency"`
	RecentTasks     []Task          `json:"recentTasks"`
}

type CategoryCount struct {
	Category TaskCategory `json:"category"`
	Count    int          `json:"count"`
}

type UrgencyCount struct {
	Urgency UrgencyLevel `json:"urgency"`
	Count   int          `json:"count"`
}
