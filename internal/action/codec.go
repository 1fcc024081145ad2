package action

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/teamboard/internal/backend"
)

// Separator joins the kind and its arguments. Colons cannot be used because
// slot times contain them.
const Separator = "|"

// MaxDataLen is the callback data limit imposed by Telegram.
const MaxDataLen = 64

var (
	// ErrUnknown is returned for payloads with an unregistered kind.
	ErrUnknown = errors.New("unknown action")
	// ErrMalformed is returned for payloads with bad arguments.
	ErrMalformed = errors.New("malformed action")
)

// Encode renders a into its wire form.
func Encode(a Action) string {
	parts := append([]string{string(a.Kind())}, a.args()...)
	return strings.Join(parts, Separator)
}

// Validate reports whether a survives an Encode/Decode round trip within
// the Telegram size limit.
func Validate(a Action) error {
	for _, arg := range a.args() {
		if arg == "" || strings.Contains(arg, Separator) {
			return fmt.Errorf("%w: %s argument %q", ErrMalformed, a.Kind(), arg)
		}
	}
	if n := len(Encode(a)); n > MaxDataLen {
		return fmt.Errorf("%w: %s payload is %d bytes", ErrMalformed, a.Kind(), n)
	}
	return nil
}

type parser struct {
	arity int
	parse func(args []string) (Action, error)
}

var parsers = map[Kind]parser{
	KindSelectRole: {1, func(a []string) (Action, error) {
		role := backend.Role(a[0])
		if !role.Valid() {
			return nil, fmt.Errorf("%w: role %q", ErrMalformed, a[0])
		}
		return SelectRole{Role: role}, nil
	}},
	KindSelectTaskType: {1, func(a []string) (Action, error) {
		switch a[0] {
		case "team":
			return SelectTaskType{Team: true}, nil
		case "personal":
			return SelectTaskType{Team: false}, nil
		}
		return nil, fmt.Errorf("%w: task type %q", ErrMalformed, a[0])
	}},
	KindAssign: {1, func(a []string) (Action, error) {
		return Assign{Member: a[0]}, nil
	}},
	KindTaskStatus: {1, func(a []string) (Action, error) {
		id, err := parseID(a[0])
		return ShowTaskStatus{TaskID: id}, err
	}},
	KindSetStatus: {2, func(a []string) (Action, error) {
		status := backend.TaskStatus(a[0])
		if !status.Valid() {
			return nil, fmt.Errorf("%w: status %q", ErrMalformed, a[0])
		}
		id, err := parseID(a[1])
		return SetTaskStatus{TaskID: id, Status: status}, err
	}},
	KindDeleteTask: {1, func(a []string) (Action, error) {
		id, err := parseID(a[0])
		return DeleteTask{TaskID: id}, err
	}},
	KindConfirmDeleteTask: {1, func(a []string) (Action, error) {
		id, err := parseID(a[0])
		return ConfirmDeleteTask{TaskID: id}, err
	}},
	KindKick: {1, func(a []string) (Action, error) {
		return KickMember{Member: a[0]}, nil
	}},
	KindMeetingType: {1, func(a []string) (Action, error) {
		t := backend.MeetingType(a[0])
		if !t.Valid() {
			return nil, fmt.Errorf("%w: meeting type %q", ErrMalformed, a[0])
		}
		return SelectMeetingType{Type: t}, nil
	}},
	KindSelectRoom: {1, func(a []string) (Action, error) {
		return SelectRoom{Room: a[0]}, nil
	}},
	KindSelectSlot: {2, func(a []string) (Action, error) {
		return SelectSlot{Slot: backend.Slot{Start: a[0], End: a[1]}}, nil
	}},
	KindDeleteMeeting: {1, func(a []string) (Action, error) {
		id, err := parseID(a[0])
		return DeleteMeeting{MeetingID: id}, err
	}},
}

func init() {
	for _, s := range []Simple{
		Start, BackToMain, MyProfile, CreateTeam, JoinTeam, EnterInviteCode,
		ManageTeam, TeamInfo, TeamInvite, TeamMembers, TeamDelete, ConfirmTeamDelete,
		LeaveTeam, ConfirmLeaveTeam, ManageTasks, MyTasks, IssuedTasks, CreateTask,
		ManageMeetings, MyMeetings, CreateMeeting,
	} {
		parsers[s.Kind()] = parser{0, func([]string) (Action, error) { return s, nil }}
	}
}

// Decode parses callback data produced by Encode.
func Decode(data string) (Action, error) {
	parts := strings.Split(strings.TrimSpace(data), Separator)
	kind := Kind(parts[0])
	p, ok := parsers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, parts[0])
	}
	args := parts[1:]
	if len(args) != p.arity {
		return nil, fmt.Errorf("%w: %s wants %d arguments, got %d", ErrMalformed, kind, p.arity, len(args))
	}
	for _, arg := range args {
		if arg == "" {
			return nil, fmt.Errorf("%w: %s has an empty argument", ErrMalformed, kind)
		}
	}
	a, err := p.parse(args)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func parseID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 0)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: id %q", ErrMalformed, s)
	}
	return uint(n), nil
}

func formatUint(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}
