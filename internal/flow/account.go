package flow

import (
	"github.com/m3rciful/teamboard/internal/action"
	"github.com/m3rciful/teamboard/internal/backend"
	"github.com/m3rciful/teamboard/internal/conversation"
	"github.com/m3rciful/teamboard/internal/menu"
)

// startProcedure handles /start, its deep-link invite code and the Start
// button.
func (t *turn) startProcedure(code string) {
	user, err := t.api().Lookup(t.ctx, t.id())
	switch {
	case err == nil:
		t.adopt(user)
		t.conv.Reset()
		switch {
		case code == "":
			t.refreshTeam()
		case t.conv.HasTeam():
			t.refreshTeam()
			t.send(menu.AlreadyInTeam)
		default:
			t.join(code)
		}
		t.send(menu.Main(t.viewer()))
	case backend.IsNotFound(err):
		t.beginRegistration(code)
	default:
		t.backendFailed(err)
		t.conv.Begin(conversation.StateInitial)
		t.send(menu.Welcome())
	}
}

func (t *turn) beginRegistration(code string) {
	t.conv.Role = ""
	t.conv.DisplayName = ""
	t.conv.SetTeam(nil)
	t.conv.Begin(conversation.StateAwaitingName)
	if code != "" {
		t.conv.Set(conversation.KeyInviteCode, code)
	}
	t.send(menu.AskName)
}

func (t *turn) onName(text string) {
	if !t.required(text) {
		return
	}
	t.conv.Set(conversation.KeyName, text)
	t.conv.Enter(conversation.StateAwaitingRole)
	t.send(menu.RoleSelection(text))
}

func (t *turn) onRole(a action.SelectRole) {
	name, _ := t.conv.Get(conversation.KeyName)
	if err := t.api().Register(t.ctx, t.id(), name, a.Role); err != nil {
		t.backendFailed(err)
		t.send(menu.RoleSelection(name))
		return
	}
	code, _ := t.conv.Get(conversation.KeyInviteCode)
	t.conv.Role = a.Role
	t.conv.DisplayName = name
	t.conv.SetTeam(nil)
	t.conv.Reset()
	t.send(menu.Registered)
	if code != "" {
		t.join(code)
	}
	t.send(menu.Main(t.viewer()))
}

// join redeems an invite code and re-reads membership on success.
func (t *turn) join(code string) bool {
	if _, err := t.api().JoinTeam(t.ctx, t.id(), code); err != nil {
		t.backendFailed(err)
		return false
	}
	t.send(menu.Joined)
	t.refreshTeam()
	return true
}

func (t *turn) onInviteCode(text string) {
	if !t.required(text) {
		return
	}
	t.conv.Reset()
	if !t.join(text) {
		t.send(menu.TeamJoin())
		return
	}
	t.send(menu.Main(t.viewer()))
}

func (t *turn) onLeaveTeam() {
	t.conv.Reset()
	if t.conv.Role != backend.RoleMember {
		t.fail(menu.ManagerCannotLeave)
		t.send(menu.Profile(t.viewer()))
		return
	}
	t.send(menu.ConfirmLeave())
}

func (t *turn) onConfirmLeaveTeam() {
	t.conv.Reset()
	if t.conv.Role != backend.RoleMember {
		t.fail(menu.ManagerCannotLeave)
		t.send(menu.Profile(t.viewer()))
		return
	}
	if err := t.api().LeaveTeam(t.ctx, t.id()); err != nil {
		t.backendFailed(err)
		t.send(menu.Profile(t.viewer()))
		return
	}
	t.send(menu.LeftTeam)
	t.refreshTeam()
	t.send(menu.Main(t.viewer()))
}
