package policy

// Package policy is the single access-control decision point. Every handler
// and service consults Can instead of scattering role checks per endpoint.
// The function is pure: no I/O, no clock, no persistence.

import "docvault/internal/model"

// Action enumerates the operations the policy can decide on.
type Action string

const (
	ActionCreate   Action = "create"
	ActionRead     Action = "read"
	ActionDelete   Action = "delete"
	ActionSign     Action = "sign"
	ActionDownload Action = "download"
	ActionListAll  Action = "list-all"
)

// Can reports whether actor may perform action on doc.
//
// doc may be nil for actions that are not bound to a single document
// (ActionCreate, ActionListAll). Anonymous access is rejected before the
// policy is ever consulted; an Actor with an empty ID is always denied.
//
// Rules:
//   - create: any authenticated actor
//   - read/download/delete: managers, or the document's owner
//   - sign: managers only (a manager may sign their own document)
//   - list-all: managers only; non-managers are scoped to their own documents
func Can(actor model.Actor, doc *model.Document, action Action) bool {
	if actor.ID == "" {
		return false
	}

	switch action {
	case ActionCreate:
		return true
	case ActionRead, ActionDownload, ActionDelete:
		if actor.Role == model.RoleManager {
			return true
		}
		return doc != nil && doc.OwnerID == actor.ID
	case ActionSign, ActionListAll:
		return actor.Role == model.RoleManager
	}
	return false
}
