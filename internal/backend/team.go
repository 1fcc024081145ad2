package backend

import (
	"context"
	"net/http"
	"strings"
)

// Lookup returns the registered user for tgID. Unregistered users yield an
// error for which IsNotFound is true.
func (c *Client) Lookup(ctx context.Context, tgID int64) (User, error) {
	var u User
	err := c.do(ctx, request{op: "auth.lookup", method: http.MethodGet, path: "/auth", query: caller(tgID)}, &u)
	return u, err
}

// Register creates the user record.
func (c *Client) Register(ctx context.Context, tgID int64, name string, role Role) error {
	body := map[string]string{
		"telegram_id": formatID(tgID),
		"name":        name,
		"role":        string(role),
	}
	return c.do(ctx, request{op: "auth.register", method: http.MethodPost, path: "/auth", body: body}, nil)
}

// CreateTeam creates a team managed by the caller.
func (c *Client) CreateTeam(ctx context.Context, tgID int64, name, description string) (Team, error) {
	body := map[string]string{"name": name, "description": description}
	var t Team
	err := c.do(ctx, request{op: "team.create", method: http.MethodPost, path: "/team", query: caller(tgID), body: body}, &t)
	return t, err
}

// DeleteTeam removes the caller's team.
func (c *Client) DeleteTeam(ctx context.Context, tgID int64) error {
	return c.do(ctx, request{op: "team.delete", method: http.MethodDelete, path: "/team", query: caller(tgID)}, nil)
}

// JoinTeam redeems an invite code.
func (c *Client) JoinTeam(ctx context.Context, tgID int64, inviteCode string) (Team, error) {
	body := map[string]string{
		"telegram_id": formatID(tgID),
		"invite_code": inviteCode,
	}
	var resp struct {
		Message string `json:"message"`
		Team    Team   `json:"team"`
	}
	err := c.do(ctx, request{op: "team.join", method: http.MethodPost, path: "/team/join", body: body}, &resp)
	return resp.Team, err
}

// MyTeam returns the caller's team.
func (c *Client) MyTeam(ctx context.Context, tgID int64) (Team, error) {
	var t Team
	err := c.do(ctx, request{op: "team.my", method: http.MethodGet, path: "/team/my", query: caller(tgID)}, &t)
	return t, err
}

// InviteCode returns the invite code of the caller's team.
func (c *Client) InviteCode(ctx context.Context, tgID int64) (string, error) {
	var code string
	err := c.do(ctx, request{op: "team.invite", method: http.MethodGet, path: "/team/invite", query: caller(tgID)}, &code)
	return strings.Trim(strings.TrimSpace(code), `"`), err
}

// Members lists the users of the caller's team.
func (c *Client) Members(ctx context.Context, tgID int64) ([]User, error) {
	var users []User
	err := c.do(ctx, request{op: "team.members", method: http.MethodGet, path: "/team/members", query: caller(tgID)}, &users)
	return users, err
}

// KickMember removes a member, identified by telegram id, from the caller's team.
func (c *Client) KickMember(ctx context.Context, tgID int64, member string) error {
	q := caller(tgID)
	q.Set("kick_telegram_id", member)
	return c.do(ctx, request{op: "team.kick", method: http.MethodGet, path: "/team/kick", query: q}, nil)
}

// LeaveTeam removes the caller from their team.
func (c *Client) LeaveTeam(ctx context.Context, tgID int64) error {
	return c.do(ctx, request{op: "team.leave", method: http.MethodGet, path: "/team/leave", query: caller(tgID)}, nil)
}
