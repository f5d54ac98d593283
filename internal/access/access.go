// Package access makes authorization decisions for project resources.
// A single policy table maps every guarded capability to the membership
// requirement that grants it; the guard resolves resources and
// memberships per request and never caches or mutates.
package access

// Capability identifies a guarded operation.
type Capability string

const (
	CapProjectView   Capability = "project.view"
	CapProjectUpdate Capability = "project.update"
	CapProjectDelete Capability = "project.delete"

	CapMemberList   Capability = "member.list"
	CapMemberAdd    Capability = "member.add"
	CapMemberUpdate Capability = "member.update"
	CapMemberRemove Capability = "member.remove"

	CapTaskList   Capability = "task.list"
	CapTaskCreate Capability = "task.create"
	CapTaskView   Capability = "task.view"
	CapTaskUpdate Capability = "task.update"
	CapTaskDelete Capability = "task.delete"

	CapCommentList   Capability = "comment.list"
	CapCommentCreate Capability = "comment.create"
	CapCommentUpdate Capability = "comment.update"
	CapCommentDelete Capability = "comment.delete"
)

// Requirement is the membership level a capability demands.
type Requirement int

const (
	// RequireMember grants the capability to every project member.
	RequireMember Requirement = iota + 1

	// RequireOwner grants the capability to project owners only.
	RequireOwner

	// RequireOwnerOrAssignee grants the capability to project owners
	// and to the task's current assignee.
	RequireOwnerOrAssignee

	// RequireAuthor grants the capability to the comment's author only,
	// with no owner fallback. A comment whose author account was deleted
	// can no longer be modified by anyone.
	RequireAuthor
)

// policy maps each capability to its requirement. Unknown capabilities
// are denied.
var policy = map[Capability]Requirement{
	CapProjectView:   RequireMember,
	CapMemberList:    RequireMember,
	CapTaskList:      RequireMember,
	CapTaskCreate:    RequireMember,
	CapTaskView:      RequireMember,
	CapTaskUpdate:    RequireMember,
	CapCommentList:   RequireMember,
	CapCommentCreate: RequireMember,

	CapProjectUpdate: RequireOwner,
	CapProjectDelete: RequireOwner,
	CapMemberAdd:     RequireOwner,
	CapMemberUpdate:  RequireOwner,
	CapMemberRemove:  RequireOwner,

	CapTaskDelete: RequireOwnerOrAssignee,

	CapCommentUpdate: RequireAuthor,
	CapCommentDelete: RequireAuthor,
}
