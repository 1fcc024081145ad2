package telegram

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/teamboard/core/telegram/commands"
)

func nop(tele.Context) error { return nil }

func TestRegistryCommands(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Description: "Start", Handler: nop})
	reg.RegisterCommand("/menu", commands.Command{Description: "Menu", Handler: nop, Aliases: []string{"m"}})
	reg.RegisterCommand("/stats", commands.Command{Description: "Stats", Handler: nop, AdminOnly: true})
	reg.RegisterCommand("help", commands.Command{Description: "no slash", Handler: nop})
	reg.RegisterCommand("/start", commands.Command{Description: "again", Handler: nop})

	if len(reg.Commands()) != 3 {
		t.Fatalf("registered %d commands, want 3", len(reg.Commands()))
	}
	visible := reg.ListCommands(true)
	if len(visible) != 2 || visible[0].Text != "menu" || visible[1].Text != "start" {
		t.Fatalf("visible = %+v", visible)
	}
	if reg.Commands()["/start"].Description != "Start" {
		t.Fatal("duplicate registration replaced the first command")
	}

	for _, text := range []string{"/menu", "/MENU extra", "/menu@teamboard_bot", "/m"} {
		if key, _, ok := reg.LookupCommand(text); !ok || key != "/menu" {
			t.Fatalf("LookupCommand(%q) = %q, %v", text, key, ok)
		}
	}
	if _, _, ok := reg.LookupCommand("/nope"); ok {
		t.Fatal("unknown command resolved")
	}
}

func TestRegistryKeepsDefaultCallbackHandler(t *testing.T) {
	reg := NewRegistry()
	reg.SetCallbackHandler(nil)
	if reg.CallbackHandler() == nil {
		t.Fatal("nil handler replaced the default")
	}
}
