package gateway

import (
	"context"
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/teamboard/core/telegram/helpers"
	"github.com/m3rciful/teamboard/core/telegram/sender"
	"github.com/m3rciful/teamboard/internal/action"
	"github.com/m3rciful/teamboard/internal/menu"
)

type fakeAPI struct {
	calls []string
	sent  []*tele.SendOptions
	fail  error
}

func (f *fakeAPI) Send(to tele.Recipient, what any, opts ...any) (*tele.Message, error) {
	f.calls = append(f.calls, "send:"+to.Recipient()+":"+what.(string))
	for _, o := range opts {
		if so, ok := o.(*tele.SendOptions); ok {
			f.sent = append(f.sent, so)
		}
	}
	return &tele.Message{}, f.fail
}

func (f *fakeAPI) Respond(c *tele.Callback, _ ...*tele.CallbackResponse) error {
	f.calls = append(f.calls, "ack:"+c.ID)
	return f.fail
}

func (f *fakeAPI) Delete(msg tele.Editable) error {
	id, _ := msg.MessageSig()
	f.calls = append(f.calls, "delete:"+id)
	return f.fail
}

type recordingQueue struct {
	ops []string
	err error
}

func (q *recordingQueue) Enqueue(_ context.Context, op, _ string, run func() error) error {
	q.ops = append(q.ops, op)
	if q.err != nil {
		return q.err
	}
	return run()
}

func TestSendBeforeAttach(t *testing.T) {
	g := New()
	if err := g.Send(context.Background(), 1, menu.Notice("hi")); !errors.Is(err, ErrNotAttached) {
		t.Fatalf("err = %v, want ErrNotAttached", err)
	}
}

func TestSendRendersKeyboardAndCounts(t *testing.T) {
	api := &fakeAPI{}
	q := &recordingQueue{}
	g := New()
	g.Attach(api, q)

	ctx := helpers.WithCounters(context.Background())
	msg := menu.Message{
		Text: "*Main menu*",
		Keyboard: [][]menu.Button{
			{{Text: "Teams", Action: action.ManageTeam}},
			{{Text: "Kick", Action: action.KickMember{Member: "bob"}}},
		},
	}
	if err := g.Send(ctx, 42, msg); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := g.Send(ctx, 42, menu.Notice("done")); err != nil {
		t.Fatalf("send notice: %v", err)
	}

	if len(api.sent) != 2 || api.sent[0].ParseMode != tele.ModeMarkdown {
		t.Fatalf("send options = %+v", api.sent)
	}
	kb := api.sent[0].ReplyMarkup.InlineKeyboard
	if len(kb) != 2 || kb[0][0].Data != "manage_team" || kb[1][0].Data != "kick|bob" {
		t.Fatalf("keyboard = %+v", kb)
	}
	if api.sent[1].ReplyMarkup != nil {
		t.Fatal("notice must not carry a keyboard")
	}
	if msgs, withKB := helpers.Counters(ctx); msgs != 2 || !withKB {
		t.Fatalf("counters = %d, %v", msgs, withKB)
	}
	if len(q.ops) != 2 {
		t.Fatalf("queued ops = %v", q.ops)
	}
}

func TestCallsKeepOrderThroughQueue(t *testing.T) {
	api := &fakeAPI{}
	g := New()
	g.Attach(api, &recordingQueue{})

	ctx := context.Background()
	_ = g.Acknowledge(ctx, "cb-1")
	_ = g.Delete(ctx, 42, 77)
	_ = g.Send(ctx, 42, menu.Notice("next"))

	want := []string{"ack:cb-1", "delete:77", "send:42:next"}
	if len(api.calls) != len(want) {
		t.Fatalf("calls = %v", api.calls)
	}
	for i := range want {
		if api.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", api.calls, want)
		}
	}
}

func TestClosedQueueFallsBackToInline(t *testing.T) {
	api := &fakeAPI{}
	g := New()
	g.Attach(api, &recordingQueue{err: sender.ErrQueueClosed})
	if err := g.Send(context.Background(), 1, menu.Notice("late")); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(api.calls) != 1 {
		t.Fatalf("calls = %v", api.calls)
	}
}

func TestSendReportsAPIError(t *testing.T) {
	boom := errors.New("telegram: chat not found (400)")
	g := New()
	g.Attach(&fakeAPI{fail: boom}, nil)
	if err := g.Send(context.Background(), 1, menu.Notice("x")); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
