package menu

import (
	"strings"

	"github.com/m3rciful/teamboard/core/telegram/format"
	"github.com/m3rciful/teamboard/internal/action"
	"github.com/m3rciful/teamboard/internal/backend"
)

// TeamJoin offers to enter an invite code.
func TeamJoin() Message {
	return Message{
		Text: "*Join a team*\nChoose an action:",
		Keyboard: [][]Button{
			row(btn("🔗 Enter invite code", action.EnterInviteCode)),
			back(action.BackToMain),
		},
	}
}

// TeamManagement is the manager's team menu.
func TeamManagement() Message {
	return Message{
		Text: "*Team management*\nChoose an action:",
		Keyboard: [][]Button{
			row(btn("📋 Team info", action.TeamInfo)),
			row(btn("🔗 Get invite link", action.TeamInvite)),
			row(btn("👥 Members", action.TeamMembers)),
			row(btn("❌ Delete team", action.TeamDelete)),
			back(action.BackToMain),
		},
	}
}

// TeamInfo describes a team.
func TeamInfo(t backend.Team) Message {
	desc := "_No description_"
	if strings.TrimSpace(t.Description) != "" {
		desc = esc(t.Description)
	}
	return Message{
		Text: "*Team info*\nName: " + esc(format.Or(t.Name, "n/a")) + "\nDescription: " + desc,
		Keyboard: [][]Button{
			back(action.ManageTeam),
		},
	}
}

// Invite shows the invite code and, when the bot username is known, a deep
// link that joins the team on /start.
func Invite(code, botUsername string) Message {
	var b strings.Builder
	b.WriteString("*Team invite code:*\n")
	b.WriteString(format.Code(code))
	if botUsername != "" {
		b.WriteString("\n\nOr share this link:\n")
		b.WriteString(esc("https://t.me/" + botUsername + "?start=" + code))
	}
	return Message{
		Text: b.String(),
		Keyboard: [][]Button{
			back(action.ManageTeam),
		},
	}
}

// Members lists the team. Managers get a kick button per member, except
// for themselves.
func Members(members []backend.User, v Viewer, self string) Message {
	var b strings.Builder
	b.WriteString("*Team members:*\n\n")
	if len(members) == 0 {
		b.WriteString("_No members yet_\n")
	}
	var kb [][]Button
	for _, m := range members {
		name := format.Or(m.Name, "n/a")
		b.WriteString("👤 " + esc(name) + "\n")
		id := m.TelegramID.String()
		if v.IsManager() && id != "" && id != self {
			kb = append(kb, row(btn("❌ Remove "+name, action.KickMember{Member: id})))
		}
	}
	kb = append(kb, back(action.ManageTeam))
	return Message{Text: b.String(), Keyboard: kb}
}

// ConfirmTeamDelete asks the manager to confirm deleting the team.
func ConfirmTeamDelete() Message {
	return Message{
		Text: "⚠️ *Are you sure you want to delete the team?*\nThis cannot be undone.",
		Keyboard: [][]Button{
			row(
				btn("✅ Yes, delete", action.ConfirmTeamDelete),
				btn("❌ No, cancel", action.ManageTeam),
			),
		},
	}
}
