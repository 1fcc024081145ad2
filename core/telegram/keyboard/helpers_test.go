package keyboard

import "testing"

func TestInlineButtonsRowsKeepsRawData(t *testing.T) {
	m := InlineButtonsRows(
		[]InlineBtn{{Text: "Teams", Data: "teams"}, {Text: "Tasks", Data: "tasks"}},
		nil,
		[]InlineBtn{{Text: "Back", Data: "main_menu"}},
	)
	if len(m.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(m.InlineKeyboard))
	}
	if got := m.InlineKeyboard[0][1]; got.Text != "Tasks" || got.Data != "tasks" || got.Unique != "" {
		t.Fatalf("button = %+v", got)
	}
}
