package menu

import (
	"strings"
	"time"

	"github.com/m3rciful/teamboard/core/telegram/format"
	"github.com/m3rciful/teamboard/internal/action"
	"github.com/m3rciful/teamboard/internal/backend"
)

// TaskManagement is the manager's task menu.
func TaskManagement() Message {
	return Message{
		Text: "*Task management*\nChoose an action:",
		Keyboard: [][]Button{
			row(btn("📝 Create task", action.CreateTask)),
			row(btn("📋 Issued tasks", action.IssuedTasks)),
			back(action.BackToMain),
		},
	}
}

// TaskTypes asks whether the new task is for the whole team.
func TaskTypes() Message {
	return Message{
		Text: "Choose the task type:",
		Keyboard: [][]Button{
			row(
				btn("👥 Team task", action.SelectTaskType{Team: true}),
				btn("👤 Personal task", action.SelectTaskType{Team: false}),
			),
			back(action.ManageTasks),
		},
	}
}

// MyTasks lists tasks assigned to the viewer. Unfinished tasks get a
// status button.
func MyTasks(tasks []backend.Task, now time.Time) Message {
	if len(tasks) == 0 {
		return Message{
			Text:     "*My tasks*\n\n_You have no tasks yet_",
			Keyboard: [][]Button{back(action.BackToMain)},
		}
	}
	var b strings.Builder
	b.WriteString("*My tasks:*\n\n")
	var kb [][]Button
	for _, t := range tasks {
		writeTask(&b, t, now, "")
		if t.Status != backend.TaskCompleted {
			kb = append(kb, row(btn("✏️ Update status: "+taskTitle(t), action.ShowTaskStatus{TaskID: t.ID})))
		}
	}
	kb = append(kb, back(action.BackToMain))
	return Message{Text: b.String(), Keyboard: kb}
}

// IssuedTasks lists tasks created by the manager with delete buttons.
func IssuedTasks(tasks []backend.Task, now time.Time) Message {
	footer := [][]Button{
		row(btn("📝 Create task", action.CreateTask)),
		back(action.ManageTasks),
	}
	if len(tasks) == 0 {
		return Message{
			Text:     "*Issued tasks*\n\n_You have not issued any tasks yet_",
			Keyboard: footer,
		}
	}
	var b strings.Builder
	b.WriteString("*Issued tasks:*\n\n")
	var kb [][]Button
	for _, t := range tasks {
		assignee := "n/a"
		switch {
		case t.IsTeam:
			assignee = "Team"
		case t.AssignedTo != "":
			assignee = t.AssignedTo.String()
		}
		writeTask(&b, t, now, assignee)
		kb = append(kb, row(btn("❌ Delete: "+taskTitle(t), action.DeleteTask{TaskID: t.ID})))
	}
	kb = append(kb, footer...)
	return Message{Text: b.String(), Keyboard: kb}
}

// TaskStatuses offers the statuses a task can move to.
func TaskStatuses(taskID uint) Message {
	return Message{
		Text: "Choose the new task status:",
		Keyboard: [][]Button{
			row(
				btn("🔄 In progress", action.SetTaskStatus{TaskID: taskID, Status: backend.TaskInProgress}),
				btn("✅ Completed", action.SetTaskStatus{TaskID: taskID, Status: backend.TaskCompleted}),
			),
			back(action.MyTasks),
		},
	}
}

// ConfirmTaskDelete asks to confirm deleting a task.
func ConfirmTaskDelete(taskID uint) Message {
	return Message{
		Text: "⚠️ Are you sure you want to delete this task?",
		Keyboard: [][]Button{
			row(
				btn("✅ Yes, delete", action.ConfirmDeleteTask{TaskID: taskID}),
				btn("❌ No, cancel", action.IssuedTasks),
			),
		},
	}
}

// Assignees lists team members to assign a personal task to.
func Assignees(members []backend.User) Message {
	var kb [][]Button
	for _, m := range members {
		id := m.TelegramID.String()
		if id == "" {
			continue
		}
		kb = append(kb, row(btn(format.Or(m.Name, "n/a"), action.Assign{Member: id})))
	}
	kb = append(kb, cancel(action.ManageTasks))
	return Message{Text: "Choose the assignee:", Keyboard: kb}
}

func writeTask(b *strings.Builder, t backend.Task, now time.Time, assignee string) {
	b.WriteString("📌 " + esc(taskTitle(t)) + "\n")
	b.WriteString("Description: " + esc(format.Or(t.Description, "none")) + "\n")
	if assignee != "" {
		b.WriteString("Assignee: " + esc(assignee) + "\n")
	}
	b.WriteString("Status: " + TaskStatusLabel(t.Status) + "\n")
	b.WriteString("Deadline: " + Deadline(t, now) + "\n\n")
}

func taskTitle(t backend.Task) string {
	return format.Or(t.Title, "Untitled")
}
