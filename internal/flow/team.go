package flow

import (
	"github.com/m3rciful/teamboard/internal/action"
	"github.com/m3rciful/teamboard/internal/conversation"
	"github.com/m3rciful/teamboard/internal/menu"
)

func (t *turn) onCreateTeam() {
	if !t.managerOnly(menu.OnlyManagerCreatesTeam) {
		return
	}
	t.conv.Begin(conversation.StateAwaitingTeamName)
	t.send(menu.AskTeamName)
}

func (t *turn) onTeamName(text string) {
	if !t.required(text) {
		return
	}
	t.conv.Set(conversation.KeyTeamName, text)
	t.conv.Enter(conversation.StateAwaitingTeamDescription)
	t.send(menu.AskTeamDescription)
}

func (t *turn) onTeamDescription(text string) {
	name, _ := t.conv.Get(conversation.KeyTeamName)
	t.conv.Reset()
	if _, err := t.api().CreateTeam(t.ctx, t.id(), name, optional(text)); err != nil {
		t.backendFailed(err)
		t.send(menu.Main(t.viewer()))
		return
	}
	t.send(menu.TeamCreated)
	t.refreshTeam()
	t.send(menu.Main(t.viewer()))
}

func (t *turn) onTeamInfo() {
	t.conv.Reset()
	team, err := t.api().MyTeam(t.ctx, t.id())
	if err != nil {
		t.backendFailed(err)
		t.send(menu.TeamManagement())
		return
	}
	t.conv.SetTeam(&team)
	t.send(menu.TeamInfo(team))
}

func (t *turn) onTeamInvite() {
	t.conv.Reset()
	code, err := t.api().InviteCode(t.ctx, t.id())
	if err != nil {
		t.backendFailed(err)
		t.send(menu.TeamManagement())
		return
	}
	t.send(menu.Invite(code, t.m.username()))
}

func (t *turn) onTeamMembers() {
	t.conv.Reset()
	members, err := t.api().Members(t.ctx, t.id())
	if err != nil {
		t.backendFailed(err)
		t.send(menu.TeamManagement())
		return
	}
	t.send(menu.Members(members, t.viewer(), t.self()))
}

func (t *turn) onConfirmTeamDelete() {
	t.conv.Reset()
	if err := t.api().DeleteTeam(t.ctx, t.id()); err != nil {
		t.backendFailed(err)
		t.send(menu.TeamManagement())
		return
	}
	t.send(menu.TeamDeleted)
	t.refreshTeam()
	t.send(menu.Main(t.viewer()))
}

func (t *turn) onKick(a action.KickMember) {
	if !t.managerOnly(menu.OnlyManager) {
		return
	}
	t.conv.Reset()
	if err := t.api().KickMember(t.ctx, t.id(), a.Member); err != nil {
		t.backendFailed(err)
		t.send(menu.TeamManagement())
		return
	}
	t.send(menu.MemberKicked)
	t.dispatch(action.TeamMembers)
}
