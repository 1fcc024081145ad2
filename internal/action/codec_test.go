package action

import (
	"errors"
	"testing"

	"github.com/m3rciful/teamboard/internal/backend"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	actions := []Action{
		Start, BackToMain, ConfirmTeamDelete, CreateMeeting,
		SelectRole{Role: backend.RoleManager},
		SelectTaskType{Team: true},
		SelectTaskType{Team: false},
		Assign{Member: "12345"},
		ShowTaskStatus{TaskID: 7},
		SetTaskStatus{TaskID: 7, Status: backend.TaskCompleted},
		DeleteTask{TaskID: 3},
		ConfirmDeleteTask{TaskID: 3},
		KickMember{Member: "99"},
		SelectMeetingType{Type: backend.MeetingOffline},
		SelectRoom{Room: "A-1"},
		SelectSlot{Slot: backend.Slot{Start: "12:00", End: "13:20"}},
		DeleteMeeting{MeetingID: 11},
	}
	for _, a := range actions {
		data := Encode(a)
		got, err := Decode(data)
		if err != nil {
			t.Fatalf("decode %q: %v", data, err)
		}
		if got != a {
			t.Fatalf("round trip of %q = %#v, want %#v", data, got, a)
		}
		if err := Validate(a); err != nil {
			t.Fatalf("validate %q: %v", data, err)
		}
	}
}

func TestEncodeFormat(t *testing.T) {
	got := Encode(SetTaskStatus{TaskID: 42, Status: backend.TaskInProgress})
	if got != "set_status|in_progress|42" {
		t.Fatalf("encode = %q", got)
	}
	if got := Encode(BackToMain); got != "back_to_main" {
		t.Fatalf("encode = %q", got)
	}
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	if _, err := Decode("launch_rockets"); !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
	if _, err := Decode(""); !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected ErrUnknown for empty data, got %v", err)
	}
}

func TestDecodeRejectsBadArguments(t *testing.T) {
	cases := []string{
		"back_to_main|extra",
		"set_status|in_progress",
		"set_status|assigned|1",
		"task_status|abc",
		"task_status|0",
		"role|admin",
		"meeting_type|hybrid",
		"task_type|solo",
		"assign|",
		"slot|12:00",
	}
	for _, data := range cases {
		if _, err := Decode(data); !errors.Is(err, ErrMalformed) {
			t.Fatalf("decode %q: expected ErrMalformed, got %v", data, err)
		}
	}
}

func TestValidateRejectsSeparatorAndOversize(t *testing.T) {
	if err := Validate(SelectRoom{Room: "A|1"}); err == nil {
		t.Fatal("expected error for separator in argument")
	}
	long := make([]byte, MaxDataLen)
	for i := range long {
		long[i] = 'x'
	}
	if err := Validate(SelectRoom{Room: string(long)}); err == nil {
		t.Fatal("expected error for oversized payload")
	}
}
