package domain

// AssignmentStatus is the lifecycle state of an assignment
type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "assigned"
	AssignmentReceived   AssignmentStatus = "received_from_inventory"
	AssignmentPacked     AssignmentStatus = "packed"
	AssignmentDispatched AssignmentStatus = "dispatched"
	AssignmentDelivered  AssignmentStatus = "delivered"
	AssignmentCancelled  AssignmentStatus = "cancelled"
)

// assignmentOrder maps each forward status to its position in the lifecycle
var assignmentOrder = map[AssignmentStatus]int{
	AssignmentAssigned:   0,
	AssignmentReceived:   1,
	AssignmentPacked:     2,
	AssignmentDispatched: 3,
	AssignmentDelivered:  4,
}

// Valid reports whether s is a known assignment status
func (s AssignmentStatus) Valid() bool {
	if s == AssignmentCancelled {
		return true
	}
	_, ok := assignmentOrder[s]
	return ok
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Forward moves advance one step at a time; cancellation is allowed any time
// before dispatch.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	if next == AssignmentCancelled {
		pos, ok := assignmentOrder[s]
		return ok && pos < assignmentOrder[AssignmentDispatched]
	}

	from, okFrom := assignmentOrder[s]
	to, okTo := assignmentOrder[next]
	return okFrom && okTo && to == from+1
}

// CountsAsDemand reports whether an assignment in this status still
// contributes material demand to shortage reports. Dispatched and delivered
// kits have consumed their stock; cancelled ones never will.
func (s AssignmentStatus) CountsAsDemand() bool {
	switch s {
	case AssignmentAssigned, AssignmentReceived, AssignmentPacked:
		return true
	}
	return false
}

// JobStatus is the lifecycle state of a processing job
type JobStatus string

const (
	JobAssigned   JobStatus = "assigned"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
)

// Valid reports whether s is a known job status
func (s JobStatus) Valid() bool {
	switch s {
	case JobAssigned, JobInProgress, JobCompleted, JobCancelled:
		return true
	}
	return false
}

// Active reports whether the job's targets count as in-flight supply
func (s JobStatus) Active() bool {
	return s == JobAssigned || s == JobInProgress
}

// CanTransitionTo reports whether the job lifecycle allows moving to next
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobAssigned:
		return next == JobInProgress || next == JobCancelled
	case JobInProgress:
		return next == JobCompleted || next == JobCancelled
	}
	return false
}

// RequestStatus is the review state of a material request
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Valid reports whether s is a known request status
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}
