package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParse(t *testing.T) {
	cases := []struct {
		cb      *tele.Callback
		key     string
		payload string
	}{
		{nil, "", ""},
		{&tele.Callback{Data: "main_menu"}, "main_menu", ""},
		{&tele.Callback{Data: "slot|12:00|13:20"}, "slot", "12:00|13:20"},
		{&tele.Callback{Data: "\fconfirm|7"}, "confirm", "7"},
		{&tele.Callback{Unique: "confirm", Data: "7"}, "confirm", "7"},
	}
	for _, tc := range cases {
		key, payload := Parse(tc.cb)
		if key != tc.key || payload != tc.payload {
			t.Errorf("Parse(%+v) = %q, %q; want %q, %q", tc.cb, key, payload, tc.key, tc.payload)
		}
	}
}
