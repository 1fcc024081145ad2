package flow

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/m3rciful/teamboard/core/logger"
	"github.com/m3rciful/teamboard/internal/backend"
	"github.com/m3rciful/teamboard/internal/conversation"
	"github.com/m3rciful/teamboard/internal/menu"
)

// turn is the handling of one inbound event for one chat.
type turn struct {
	m       *Machine
	ctx     context.Context
	conv    *conversation.Conversation
	from    conversation.State
	started time.Time

	failed bool
	err    error
}

func (t *turn) id() int64 { return t.conv.ChatID }

func (t *turn) self() string { return strconv.FormatInt(t.conv.ChatID, 10) }

func (t *turn) api() Backend { return t.m.backend }

func (t *turn) send(msg menu.Message) {
	if err := t.m.messenger.Send(t.ctx, t.id(), msg); err != nil {
		logger.Warn(t.ctx, "flow", "flow.send",
			slog.String("status", "fail"),
			slog.Int64("chat_id", t.id()),
			slog.String("err", err.Error()),
		)
	}
}

// fail renders a rejection. The journal marks the event as failed.
func (t *turn) fail(msg menu.Message) {
	t.failed = true
	t.send(msg)
}

// backendFailed reports a backend error to the user.
func (t *turn) backendFailed(err error) {
	if t.err == nil {
		t.err = err
	}
	attrs := []slog.Attr{
		slog.String("status", "fail"),
		slog.Int64("chat_id", t.id()),
		slog.Int("http_code", backend.StatusOf(err)),
		slog.String("err", err.Error()),
	}
	var be *backend.Error
	if errors.As(err, &be) {
		attrs = append(attrs, slog.String("op", be.Op), slog.String("err_code", be.Code()))
	}
	logger.Info(t.ctx, "flow", "backend.rejected", attrs...)
	t.fail(menu.Error(err.Error()))
}

func (t *turn) viewer() menu.Viewer {
	return menu.Viewer{
		Name:     t.conv.DisplayName,
		Role:     t.conv.Role,
		TeamName: t.conv.TeamName,
		HasTeam:  t.conv.HasTeam(),
	}
}

func (t *turn) isManager() bool { return t.conv.Role == backend.RoleManager }

// stableMenu is the menu shown after a rejection outside any specific context.
func (t *turn) stableMenu() menu.Message {
	if t.conv.Registered() {
		return menu.Main(t.viewer())
	}
	return menu.Welcome()
}

func (t *turn) showMain() {
	t.conv.Reset()
	t.send(menu.Main(t.viewer()))
}

// adopt caches the backend profile of a registered user.
func (t *turn) adopt(u backend.User) {
	role := u.Role
	if !role.Valid() {
		logger.Warn(t.ctx, "flow", "profile.role",
			slog.Int64("chat_id", t.id()),
			slog.String("role", string(u.Role)),
		)
		role = backend.RoleMember
	}
	t.conv.Role = role
	t.conv.DisplayName = u.Name
	if u.TeamID != nil && *u.TeamID != 0 {
		id := *u.TeamID
		t.conv.TeamID = &id
	} else {
		t.conv.SetTeam(nil)
	}
}

// refreshTeam re-reads membership. Any error means no team.
func (t *turn) refreshTeam() {
	team, err := t.api().MyTeam(t.ctx, t.id())
	if err != nil {
		logger.Debug(t.ctx, "flow", "team.refresh",
			slog.Int64("chat_id", t.id()),
			slog.Int("http_code", backend.StatusOf(err)),
			slog.String("err", err.Error()),
		)
		t.conv.SetTeam(nil)
		return
	}
	t.conv.SetTeam(&team)
}

// ensureRegistered rehydrates the cached profile when it is missing. It
// returns false after handing the chat over to the start procedure.
func (t *turn) ensureRegistered() bool {
	if t.conv.Registered() {
		return true
	}
	user, err := t.api().Lookup(t.ctx, t.id())
	switch {
	case err == nil:
		t.adopt(user)
		if t.conv.HasTeam() {
			t.refreshTeam()
		}
		if t.conv.State == conversation.StateInitial {
			t.conv.Enter(conversation.StateAuthorized)
		}
		return true
	case backend.IsNotFound(err):
		code, _ := t.conv.Get(conversation.KeyInviteCode)
		t.beginRegistration(code)
	default:
		t.backendFailed(err)
		t.conv.Begin(conversation.StateInitial)
		t.send(menu.Welcome())
	}
	return false
}
