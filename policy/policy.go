// Package policy decides whether an authenticated caller may act on a project or task
package policy

import (
	"github.com/taskboard-api/apperrors"
	"github.com/taskboard-api/models"
)

// Caller is the authenticated user behind a request. Profile is nil for
// accounts that never had one created
type Caller struct {
	User    models.User
	Profile *models.UserProfile
}

// ID returns the caller's user id
func (c *Caller) ID() uint { return c.User.ID }

// HasRole reports whether the caller's profile carries role
func (c *Caller) HasRole(role models.Role) bool {
	return c.Profile != nil && c.Profile.Role == role
}

// Action is the kind of operation being authorized
type Action int

const (
	// Read covers retrieve and list style requests
	Read Action = iota
	// Write covers update, delete and custom mutations on an existing object
	Write
	// Create covers creation of a new top-level object
	Create
)

// Membership describes the caller's relationship to a project
type Membership struct {
	Manager bool
	Member  bool
}

// Any reports whether the caller belongs to the project in any capacity
func (m Membership) Any() bool { return m.Manager || m.Member }

// ProjectAccess applies the project policy. project may be nil for Create
func ProjectAccess(c *Caller, project *models.Project, m Membership, action Action) error {
	switch action {
	case Create:
		if !c.HasRole(models.RoleProjectManager) {
			return apperrors.Forbidden()
		}
		return nil
	case Read:
		if !m.Any() {
			return apperrors.Forbidden()
		}
		return nil
	default:
		if project == nil || !project.IsManagedBy(c.ID()) {
			return apperrors.Forbidden()
		}
		return nil
	}
}

// TaskAccess applies the task policy. m describes the caller's relationship
// to the task's project
func TaskAccess(c *Caller, task *models.Task, m Membership, action Action) error {
	switch action {
	case Read:
		if !m.Any() {
			return apperrors.Forbidden()
		}
		return nil
	case Create:
		// creating a task needs some membership in the target project
		if !m.Any() {
			return apperrors.Forbidden()
		}
		return nil
	default:
		if m.Manager || task.IsAssignedTo(c.ID()) {
			return nil
		}
		return apperrors.Forbidden()
	}
}
