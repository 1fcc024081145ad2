// Package action defines the typed payloads carried by inline buttons.
//
// Every button carries exactly one Action. Encode turns it into callback
// data; Decode reverses that at the gateway boundary so the rest of the bot
// never parses raw strings.
package action

import "github.com/m3rciful/teamboard/internal/backend"

// Kind names an action variant. It is the first segment of the wire form.
type Kind string

const (
	KindStart             Kind = "start"
	KindBackToMain        Kind = "back_to_main"
	KindMyProfile         Kind = "my_profile"
	KindCreateTeam        Kind = "create_team"
	KindJoinTeam          Kind = "join_team"
	KindEnterInviteCode   Kind = "enter_invite_code"
	KindManageTeam        Kind = "manage_team"
	KindTeamInfo          Kind = "team_info"
	KindTeamInvite        Kind = "team_invite"
	KindTeamMembers       Kind = "team_members"
	KindTeamDelete        Kind = "team_delete"
	KindConfirmTeamDelete Kind = "confirm_team_delete"
	KindLeaveTeam         Kind = "leave_team"
	KindConfirmLeaveTeam  Kind = "confirm_leave_team"
	KindManageTasks       Kind = "manage_tasks"
	KindMyTasks           Kind = "my_tasks"
	KindIssuedTasks       Kind = "issued_tasks"
	KindCreateTask        Kind = "create_task"
	KindManageMeetings    Kind = "manage_meetings"
	KindMyMeetings        Kind = "my_meetings"
	KindCreateMeeting     Kind = "create_meeting"

	KindSelectRole        Kind = "role"
	KindSelectTaskType    Kind = "task_type"
	KindAssign            Kind = "assign"
	KindTaskStatus        Kind = "task_status"
	KindSetStatus         Kind = "set_status"
	KindDeleteTask        Kind = "delete_task"
	KindConfirmDeleteTask Kind = "confirm_delete_task"
	KindKick              Kind = "kick"
	KindMeetingType       Kind = "meeting_type"
	KindSelectRoom        Kind = "room"
	KindSelectSlot        Kind = "slot"
	KindDeleteMeeting     Kind = "delete_meeting"
)

// Action is a decoded button payload. The set of implementations is closed.
type Action interface {
	Kind() Kind
	args() []string
}

// Simple is an action without parameters.
type Simple Kind

func (s Simple) Kind() Kind   { return Kind(s) }
func (Simple) args() []string { return nil }

// Parameterless actions.
var (
	Start             = Simple(KindStart)
	BackToMain        = Simple(KindBackToMain)
	MyProfile         = Simple(KindMyProfile)
	CreateTeam        = Simple(KindCreateTeam)
	JoinTeam          = Simple(KindJoinTeam)
	EnterInviteCode   = Simple(KindEnterInviteCode)
	ManageTeam        = Simple(KindManageTeam)
	TeamInfo          = Simple(KindTeamInfo)
	TeamInvite        = Simple(KindTeamInvite)
	TeamMembers       = Simple(KindTeamMembers)
	TeamDelete        = Simple(KindTeamDelete)
	ConfirmTeamDelete = Simple(KindConfirmTeamDelete)
	LeaveTeam         = Simple(KindLeaveTeam)
	ConfirmLeaveTeam  = Simple(KindConfirmLeaveTeam)
	ManageTasks       = Simple(KindManageTasks)
	MyTasks           = Simple(KindMyTasks)
	IssuedTasks       = Simple(KindIssuedTasks)
	CreateTask        = Simple(KindCreateTask)
	ManageMeetings    = Simple(KindManageMeetings)
	MyMeetings        = Simple(KindMyMeetings)
	CreateMeeting     = Simple(KindCreateMeeting)
)

// SelectRole picks the role during registration.
type SelectRole struct{ Role backend.Role }

func (SelectRole) Kind() Kind       { return KindSelectRole }
func (a SelectRole) args() []string { return []string{string(a.Role)} }

// SelectTaskType picks between a team-wide and a personal task.
type SelectTaskType struct{ Team bool }

func (SelectTaskType) Kind() Kind { return KindSelectTaskType }
func (a SelectTaskType) args() []string {
	if a.Team {
		return []string{"team"}
	}
	return []string{"personal"}
}

// Assign picks the assignee of a personal task by telegram id.
type Assign struct{ Member string }

func (Assign) Kind() Kind       { return KindAssign }
func (a Assign) args() []string { return []string{a.Member} }

// ShowTaskStatus opens the status picker of a task.
type ShowTaskStatus struct{ TaskID uint }

func (ShowTaskStatus) Kind() Kind       { return KindTaskStatus }
func (a ShowTaskStatus) args() []string { return []string{formatUint(a.TaskID)} }

// SetTaskStatus moves a task to a new status.
type SetTaskStatus struct {
	TaskID uint
	Status backend.TaskStatus
}

func (SetTaskStatus) Kind() Kind { return KindSetStatus }
func (a SetTaskStatus) args() []string {
	return []string{string(a.Status), formatUint(a.TaskID)}
}

// DeleteTask asks for confirmation before deleting a task.
type DeleteTask struct{ TaskID uint }

func (DeleteTask) Kind() Kind       { return KindDeleteTask }
func (a DeleteTask) args() []string { return []string{formatUint(a.TaskID)} }

// ConfirmDeleteTask deletes a task.
type ConfirmDeleteTask struct{ TaskID uint }

func (ConfirmDeleteTask) Kind() Kind       { return KindConfirmDeleteTask }
func (a ConfirmDeleteTask) args() []string { return []string{formatUint(a.TaskID)} }

// KickMember removes a member, by telegram id, from the team.
type KickMember struct{ Member string }

func (KickMember) Kind() Kind       { return KindKick }
func (a KickMember) args() []string { return []string{a.Member} }

// SelectMeetingType picks online or offline.
type SelectMeetingType struct{ Type backend.MeetingType }

func (SelectMeetingType) Kind() Kind       { return KindMeetingType }
func (a SelectMeetingType) args() []string { return []string{string(a.Type)} }

// SelectRoom picks the room of an offline meeting.
type SelectRoom struct{ Room string }

func (SelectRoom) Kind() Kind       { return KindSelectRoom }
func (a SelectRoom) args() []string { return []string{a.Room} }

// SelectSlot picks the time slot and completes meeting creation.
type SelectSlot struct{ Slot backend.Slot }

func (SelectSlot) Kind() Kind       { return KindSelectSlot }
func (a SelectSlot) args() []string { return []string{a.Slot.Start, a.Slot.End} }

// DeleteMeeting cancels a meeting.
type DeleteMeeting struct{ MeetingID uint }

func (DeleteMeeting) Kind() Kind       { return KindDeleteMeeting }
func (a DeleteMeeting) args() []string { return []string{formatUint(a.MeetingID)} }
