package menu

import (
	"strings"

	"github.com/m3rciful/teamboard/internal/action"
	"github.com/m3rciful/teamboard/internal/backend"
)

// Welcome is shown to users that have not started registration.
func Welcome() Message {
	return Message{
		Text: "👋 Welcome to the team task and meeting manager!\n\nPress *Start* to sign up or sign in.",
		Keyboard: [][]Button{
			row(btn("Start", action.Start)),
		},
	}
}

// RoleSelection asks a new user for their role.
func RoleSelection(name string) Message {
	return Message{
		Text: "Nice to meet you, " + esc(name) + "! Choose your role:",
		Keyboard: [][]Button{
			row(
				btn("👨‍💼 Manager", action.SelectRole{Role: backend.RoleManager}),
				btn("👥 Member", action.SelectRole{Role: backend.RoleMember}),
			),
		},
	}
}

// Main renders the main menu for the viewer's role and membership.
func Main(v Viewer) Message {
	var kb [][]Button
	switch {
	case v.IsManager() && v.HasTeam:
		kb = append(kb,
			row(btn("👥 Manage team", action.ManageTeam)),
			row(btn("📋 Manage tasks", action.ManageTasks)),
			row(btn("📅 Manage meetings", action.ManageMeetings)),
		)
	case v.IsManager():
		kb = append(kb, row(btn("📝 Create team", action.CreateTeam)))
	case v.HasTeam:
		kb = append(kb,
			row(btn("📋 My tasks", action.MyTasks)),
			row(btn("📅 My meetings", action.MyMeetings)),
		)
	default:
		kb = append(kb, row(btn("🤝 Join a team", action.JoinTeam)))
	}
	kb = append(kb, row(btn("👤 My profile", action.MyProfile)))

	var b strings.Builder
	b.WriteString("🏠 *Main menu*\n")
	switch {
	case v.HasTeam && v.TeamName != "":
		b.WriteString("\nYour team: " + esc(v.TeamName))
	case v.HasTeam:
		b.WriteString("\nYou are a member of a team")
	case v.IsManager():
		b.WriteString("\n\n_Create your team to get started_")
	default:
		b.WriteString("\n\n_Join a team to get started_")
	}
	return Message{Text: b.String(), Keyboard: kb}
}

// Profile renders the viewer's profile.
func Profile(v Viewer) Message {
	role := "Member"
	if v.IsManager() {
		role = "Manager"
	}
	var b strings.Builder
	b.WriteString("*👤 Profile*\n\n")
	b.WriteString("*Name:* " + esc(v.Name) + "\n")
	b.WriteString("*Role:* " + role + "\n")

	var kb [][]Button
	if v.HasTeam {
		if v.TeamName != "" {
			b.WriteString("*Team:* " + esc(v.TeamName) + "\n")
		}
		if v.Role == backend.RoleMember {
			kb = append(kb, row(btn("🚪 Leave team", action.LeaveTeam)))
		}
	} else {
		b.WriteString("_No active team_\n")
	}
	kb = append(kb, back(action.BackToMain))
	return Message{Text: b.String(), Keyboard: kb}
}

// ConfirmLeave asks a member to confirm leaving the team.
func ConfirmLeave() Message {
	return Message{
		Text: "⚠️ *Are you sure you want to leave the team?*",
		Keyboard: [][]Button{
			row(
				btn("✅ Yes, leave", action.ConfirmLeaveTeam),
				btn("❌ No, stay", action.MyProfile),
			),
		},
	}
}
