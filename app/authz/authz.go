package authz

import (
	"context"
	"net/http"
)

// RoleHeader carries the caller's role on every request
const RoleHeader = "Role"

type Role string

const (
	RoleEditor Role = "redacteur"
	RoleReader Role = "gebruiker"
)

type Action string

const (
	PostCreate       Action = "post:create"
	PostUpdate       Action = "post:update"
	PostDelete       Action = "post:delete"
	PostRead         Action = "post:read"
	PostList         Action = "post:list"
	PostListByStatus Action = "post:list-by-status"
	PostChangeStatus Action = "post:change-status"

	NotificationRead Action = "notification:read"

	ReviewCreate Action = "review:create"
	ReviewRead   Action = "review:read"

	CommentCreate Action = "comment:create"
	CommentRead   Action = "comment:read"
	CommentUpdate Action = "comment:update"
	CommentDelete Action = "comment:delete"
)

// AllActions lists every guarded action
var AllActions = []Action{
	PostCreate, PostUpdate, PostDelete, PostRead, PostList, PostListByStatus, PostChangeStatus,
	NotificationRead,
	ReviewCreate, ReviewRead,
	CommentCreate, CommentRead, CommentUpdate, CommentDelete,
}

// Principal is the caller as seen by the policy
type Principal struct {
	Role Role
}

// Policy maps roles to the actions they may perform. Unknown roles may do nothing.
type Policy struct {
	grants map[Role]map[Action]bool
}

func NewPolicy(grants map[Role][]Action) *Policy {
	p := &Policy{grants: make(map[Role]map[Action]bool, len(grants))}
	for role, actions := range grants {
		set := make(map[Action]bool, len(actions))
		for _, action := range actions {
			set[action] = true
		}
		p.grants[role] = set
	}
	return p
}

// DefaultPolicy gives editors everything and readers reading plus comments
func DefaultPolicy() *Policy {
	return NewPolicy(map[Role][]Action{
		RoleEditor: AllActions,
		RoleReader: {
			PostRead, PostList,
			CommentCreate, CommentRead, CommentUpdate, CommentDelete,
		},
	})
}

func (p *Policy) Allows(principal Principal, action Action) bool {
	return p.grants[principal.Role][action]
}

// PrincipalFromRequest reads the role header; a missing header yields a
// principal with no grants.
func PrincipalFromRequest(r *http.Request) Principal {
	return Principal{Role: Role(r.Header.Get(RoleHeader))}
}

type contextKey struct{}

func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, principal)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(contextKey{}).(Principal)
	return principal, ok
}
