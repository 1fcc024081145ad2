package flow

import (
	"strconv"
	"time"

	"github.com/m3rciful/teamboard/internal/action"
	"github.com/m3rciful/teamboard/internal/backend"
	"github.com/m3rciful/teamboard/internal/conversation"
	"github.com/m3rciful/teamboard/internal/menu"
)

// DeadlineLayout is the format users type deadlines in. Values are read as UTC.
const DeadlineLayout = "2006-01-02 15:04"

const (
	taskTypeTeam     = "team"
	taskTypePersonal = "personal"
)

func (t *turn) onCreateTask() {
	if !t.managerOnly(menu.OnlyManager) {
		return
	}
	t.conv.Begin(conversation.StateAwaitingTaskType)
	t.send(menu.TaskTypes())
}

func (t *turn) onTaskType(a action.SelectTaskType) {
	kind := taskTypePersonal
	if a.Team {
		kind = taskTypeTeam
	}
	t.conv.Set(conversation.KeyTaskType, kind)
	t.conv.Enter(conversation.StateAwaitingTaskTitle)
	t.send(menu.AskTaskTitle)
}

func (t *turn) onTaskTitle(text string) {
	if !t.required(text) {
		return
	}
	t.conv.Set(conversation.KeyTaskTitle, text)
	t.conv.Enter(conversation.StateAwaitingTaskDescription)
	t.send(menu.AskTaskDescription)
}

func (t *turn) onTaskDescription(text string) {
	t.conv.Set(conversation.KeyTaskDescription, optional(text))
	t.conv.Enter(conversation.StateAwaitingTaskDeadline)
	t.send(menu.AskTaskDeadline)
}

// ParseDeadline reads a user-typed deadline and normalizes it to UTC.
func ParseDeadline(text string) (time.Time, error) {
	d, err := time.Parse(DeadlineLayout, text)
	if err != nil {
		return time.Time{}, err
	}
	return d.UTC(), nil
}

func (t *turn) onTaskDeadline(text string) {
	deadline, err := ParseDeadline(text)
	if err != nil {
		t.fail(menu.BadDeadline)
		return
	}
	t.conv.Set(conversation.KeyTaskDeadline, deadline.Format(time.RFC3339))

	if kind, _ := t.conv.Get(conversation.KeyTaskType); kind == taskTypeTeam {
		t.createTask("")
		return
	}
	members, err := t.api().Members(t.ctx, t.id())
	if err != nil {
		t.conv.Reset()
		t.backendFailed(err)
		t.send(menu.TaskManagement())
		return
	}
	t.conv.Enter(conversation.StateAwaitingTaskAssignee)
	t.send(menu.Assignees(members))
}

func (t *turn) onAssign(a action.Assign) {
	t.createTask(a.Member)
}

// createTask submits the collected task. An empty assignee makes a team task.
func (t *turn) createTask(assignee string) {
	title, _ := t.conv.Get(conversation.KeyTaskTitle)
	description, _ := t.conv.Get(conversation.KeyTaskDescription)
	rawDeadline, _ := t.conv.Get(conversation.KeyTaskDeadline)
	t.conv.Reset()

	deadline, err := time.Parse(time.RFC3339, rawDeadline)
	if err != nil {
		t.fail(menu.BadDeadline)
		t.send(menu.TaskManagement())
		return
	}
	task := backend.NewTask{
		Title:       title,
		Description: description,
		Deadline:    deadline,
		IsTeam:      assignee == "",
		AssignedTo:  assignee,
	}
	if err := t.api().CreateTask(t.ctx, t.id(), task); err != nil {
		t.backendFailed(err)
		t.send(menu.TaskManagement())
		return
	}
	t.send(menu.TaskCreated)
	t.send(menu.TaskManagement())
}

func (t *turn) showMyTasks() {
	tasks, err := t.api().MyTasks(t.ctx, t.id())
	if err != nil {
		t.backendFailed(err)
		t.send(menu.Main(t.viewer()))
		return
	}
	t.send(menu.MyTasks(tasks, t.m.now()))
}

func (t *turn) showIssuedTasks() {
	tasks, err := t.api().IssuedTasks(t.ctx, t.id())
	if err != nil {
		t.backendFailed(err)
		t.send(menu.TaskManagement())
		return
	}
	t.send(menu.IssuedTasks(tasks, t.m.now()))
}

func (t *turn) onSetStatus(a action.SetTaskStatus) {
	if a.Status == backend.TaskCompleted {
		t.conv.Begin(conversation.StateAwaitingCompletionText)
		t.conv.Set(conversation.KeyTaskID, strconv.FormatUint(uint64(a.TaskID), 10))
		t.conv.Set(conversation.KeyTaskStatus, string(a.Status))
		t.send(menu.AskCompletionText)
		return
	}
	t.conv.Reset()
	t.updateStatus(a.TaskID, a.Status, "")
}

func (t *turn) onCompletionText(text string) {
	raw, _ := t.conv.Get(conversation.KeyTaskID)
	t.conv.Reset()
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		t.fail(menu.BadAction)
		t.send(menu.Main(t.viewer()))
		return
	}
	t.updateStatus(uint(id), backend.TaskCompleted, optional(text))
}

func (t *turn) updateStatus(id uint, status backend.TaskStatus, report string) {
	if err := t.api().UpdateTaskStatus(t.ctx, t.id(), id, status, report); err != nil {
		t.backendFailed(err)
		t.send(menu.Main(t.viewer()))
		return
	}
	t.send(menu.TaskUpdated)
	t.showMyTasks()
}

func (t *turn) onConfirmDeleteTask(a action.ConfirmDeleteTask) {
	t.conv.Reset()
	if err := t.api().DeleteTask(t.ctx, t.id(), a.TaskID); err != nil {
		t.backendFailed(err)
		t.send(menu.TaskManagement())
		return
	}
	t.send(menu.TaskDeleted)
	t.dispatch(action.IssuedTasks)
}
