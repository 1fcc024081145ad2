package flow

import (
	"log/slog"

	"github.com/m3rciful/teamboard/core/logger"
	"github.com/m3rciful/teamboard/internal/action"
	"github.com/m3rciful/teamboard/internal/conversation"
	"github.com/m3rciful/teamboard/internal/menu"
)

// continuations are only valid in the state that offered the button.
var continuations = map[action.Kind]conversation.State{
	action.KindSelectRole:     conversation.StateAwaitingRole,
	action.KindSelectTaskType: conversation.StateAwaitingTaskType,
	action.KindAssign:         conversation.StateAwaitingTaskAssignee,
	action.KindMeetingType:    conversation.StateAwaitingMeetingType,
	action.KindSelectRoom:     conversation.StateAwaitingMeetingRoom,
	action.KindSelectSlot:     conversation.StateAwaitingMeetingSlot,
}

// onCallback decodes and dispatches a button payload and returns its
// journal label.
func (t *turn) onCallback(data string) string {
	a, err := action.Decode(data)
	if err != nil {
		logger.Info(t.ctx, "flow", "callback.decode",
			slog.String("status", "fail"),
			slog.String("payload", logger.SanitizeLimit(data, 64)),
			slog.String("err", err.Error()),
		)
		t.fail(menu.BadAction)
		t.send(t.stableMenu())
		return "invalid"
	}
	label := string(a.Kind())

	if want, ok := continuations[a.Kind()]; ok && t.conv.State != want {
		t.send(menu.HintExpired)
		if t.conv.Registered() || t.ensureRegistered() {
			t.showMain()
		}
		return label
	}

	switch a.Kind() {
	case action.KindStart:
		t.startProcedure("")
		return label
	case action.KindSelectRole:
		t.onRole(a.(action.SelectRole))
		return label
	}
	if !t.ensureRegistered() {
		return label
	}
	t.dispatch(a)
	return label
}

// dispatch runs an action for a registered user.
func (t *turn) dispatch(a action.Action) {
	switch a := a.(type) {
	case action.Simple:
		t.dispatchSimple(a)
	case action.SelectTaskType:
		t.onTaskType(a)
	case action.Assign:
		t.onAssign(a)
	case action.ShowTaskStatus:
		t.conv.Reset()
		t.send(menu.TaskStatuses(a.TaskID))
	case action.SetTaskStatus:
		t.onSetStatus(a)
	case action.DeleteTask:
		t.conv.Reset()
		t.send(menu.ConfirmTaskDelete(a.TaskID))
	case action.ConfirmDeleteTask:
		t.onConfirmDeleteTask(a)
	case action.KickMember:
		t.onKick(a)
	case action.SelectMeetingType:
		t.onMeetingType(a)
	case action.SelectRoom:
		t.onRoom(a)
	case action.SelectSlot:
		t.onSlot(a)
	case action.DeleteMeeting:
		t.onDeleteMeeting(a)
	default:
		t.fail(menu.BadAction)
		t.send(t.stableMenu())
	}
}

func (t *turn) dispatchSimple(a action.Simple) {
	switch a {
	case action.BackToMain:
		t.showMain()
	case action.MyProfile:
		t.conv.Reset()
		t.send(menu.Profile(t.viewer()))

	case action.CreateTeam:
		t.onCreateTeam()
	case action.JoinTeam:
		t.conv.Reset()
		t.send(menu.TeamJoin())
	case action.EnterInviteCode:
		t.conv.Begin(conversation.StateAwaitingInviteCode)
		t.send(menu.AskInviteCode)
	case action.ManageTeam:
		t.conv.Reset()
		t.send(menu.TeamManagement())
	case action.TeamInfo:
		t.onTeamInfo()
	case action.TeamInvite:
		t.onTeamInvite()
	case action.TeamMembers:
		t.onTeamMembers()
	case action.TeamDelete:
		t.conv.Reset()
		t.send(menu.ConfirmTeamDelete())
	case action.ConfirmTeamDelete:
		t.onConfirmTeamDelete()
	case action.LeaveTeam:
		t.onLeaveTeam()
	case action.ConfirmLeaveTeam:
		t.onConfirmLeaveTeam()

	case action.ManageTasks:
		t.conv.Reset()
		t.send(menu.TaskManagement())
	case action.MyTasks:
		t.conv.Reset()
		t.showMyTasks()
	case action.IssuedTasks:
		t.conv.Reset()
		t.showIssuedTasks()
	case action.CreateTask:
		t.onCreateTask()

	case action.ManageMeetings:
		t.conv.Reset()
		t.send(menu.MeetingManagement())
	case action.MyMeetings:
		t.conv.Reset()
		t.showMeetings()
	case action.CreateMeeting:
		t.onCreateMeeting()

	default:
		t.fail(menu.BadAction)
		t.send(t.stableMenu())
	}
}

// managerOnly rejects non-managers without calling the backend.
func (t *turn) managerOnly(reject menu.Message) bool {
	if t.isManager() {
		return true
	}
	t.conv.Reset()
	t.fail(reject)
	t.send(menu.Main(t.viewer()))
	return false
}
