// Package policy decides whether a caller may read or mutate an entity.
// It depends on nothing but the models and can be evaluated without a
// store or a transport.
package policy

import (
	"errors"

	"github.com/employeest/employeest-api/internal/models"
)

// ErrDenied is returned by Authorize when the caller lacks the capability.
var ErrDenied = errors.New("permission denied")

type Capability int

const (
	CanRead Capability = iota
	CanWrite
)

func (c Capability) String() string {
	if c == CanWrite {
		return "write"
	}
	return "read"
}

// Caller is the authenticated identity making a request.
type Caller struct {
	ID   uint64
	Role models.UserRole
}

// IsStaff reports elevated read access (topemployee, admin).
func (c Caller) IsStaff() bool { return c.Role.IsStaff() }

// IsAdmin reports whether the caller may use administrative tooling.
func (c Caller) IsAdmin() bool { return c.Role == models.RoleAdmin }

// IsBusinessOwner reports whether the caller holds the owner role.
func (c Caller) IsBusinessOwner() bool { return c.Role == models.RoleOwner }

// CanViewBusinessStatistics gates the cross-tenant rollups.
func (c Caller) CanViewBusinessStatistics() bool {
	return c.Role == models.RoleOwner || c.Role == models.RoleAdmin
}

// Resource is an entity the policy can be evaluated against.
type Resource interface {
	allows(c Caller, capability Capability) bool
}

// Allowed evaluates the rule set of r for the given caller and capability.
func Allowed(c Caller, r Resource, capability Capability) bool {
	if r == nil {
		return false
	}
	return r.allows(c, capability)
}

// Authorize is Allowed expressed as an error.
func Authorize(c Caller, r Resource, capability Capability) error {
	if !Allowed(c, r, capability) {
		return ErrDenied
	}
	return nil
}

// TaskResource carries the relationships the task rules look at.
type TaskResource struct {
	ProjectOwnerID uint64
	AssigneeID     *uint64
}

// ForTask builds a TaskResource. The task's Project must be loaded.
func ForTask(t models.Task) TaskResource {
	return TaskResource{ProjectOwnerID: t.Project.OwnerID, AssigneeID: t.AssigneeID}
}

func (r TaskResource) allows(c Caller, capability Capability) bool {
	related := r.ProjectOwnerID == c.ID || (r.AssigneeID != nil && *r.AssigneeID == c.ID)
	if capability == CanWrite {
		return related
	}
	return related || c.IsStaff()
}

// ProjectResource: reads are open to any authenticated caller, writes are
// reserved to the owner.
type ProjectResource struct {
	OwnerID uint64
}

func ForProject(p models.Project) ProjectResource {
	return ProjectResource{OwnerID: p.OwnerID}
}

func (r ProjectResource) allows(c Caller, capability Capability) bool {
	if capability == CanRead {
		return true
	}
	return r.OwnerID == c.ID
}

// WorkLogResource: only the author, for every capability.
type WorkLogResource struct {
	AuthorID uint64
}

func ForWorkLog(w models.WorkLog) WorkLogResource {
	return WorkLogResource{AuthorID: w.UserID}
}

func (r WorkLogResource) allows(c Caller, _ Capability) bool {
	return r.AuthorID == c.ID
}

// TeamResource follows the project rules: open reads, owner-only writes.
type TeamResource struct {
	OwnerID uint64
}

func ForTeam(t models.Team) TeamResource {
	return TeamResource{OwnerID: t.OwnerID}
}

func (r TeamResource) allows(c Caller, capability Capability) bool {
	return ProjectResource(r).allows(c, capability)
}
