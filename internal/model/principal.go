package model

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleWorker  Role = "WORKER"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleAdmin, RoleManager, RoleWorker:
		return Role(raw), true
	default:
		return "", false
	}
}

// Principal is the authenticated caller extracted from the access token.
type Principal struct {
	UserID uuid.UUID
	Name   string
	Role   Role
	TeamID *uuid.UUID // set for team-scoped managers and workers
}

func (p Principal) IsAdmin() bool   { return p.Role == RoleAdmin }
func (p Principal) IsManager() bool { return p.Role == RoleManager }
func (p Principal) IsWorker() bool  { return p.Role == RoleWorker }

// CanManage reports whether the principal may save or recompute settlements
// and edit advances for the given team.
func (p Principal) CanManage(teamID uuid.UUID) bool {
	if p.IsAdmin() {
		return true
	}
	return p.IsManager() && p.TeamID != nil && *p.TeamID == teamID
}
