package protocol

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeCommand_Valid(t *testing.T) {
	cases := map[string]string{
		"place":    `{"type":"CMD","cmd_id":"c1","kind":"PLACE_BUILDING","building":"GREENHOUSE","x":4,"y":7}`,
		"remove":   `{"type":"CMD","kind":"REMOVE_BUILDING","building_id":"B4"}`,
		"speed":    `{"type":"CMD","kind":"SET_SPEED","multiplier":3}`,
		"pause":    `{"type":"CMD","kind":"PAUSE"}`,
		"resume":   `{"type":"CMD","protocol_version":"1.0","kind":"RESUME"}`,
		"withdraw": `{"type":"CMD","kind":"WITHDRAW","resource":"TOMATO","count":5}`,
	}
	for name, raw := range cases {
		if _, err := DecodeCommand([]byte(raw)); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}

	cmd, err := DecodeCommand([]byte(cases["place"]))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cmd.Kind != CmdPlaceBuilding || cmd.Building != "GREENHOUSE" || cmd.X != 4 || cmd.Y != 7 || cmd.CmdID != "c1" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestDecodeCommand_Invalid(t *testing.T) {
	cases := map[string]string{
		"not json":        `{"type":`,
		"wrong type":      `{"type":"ACT","kind":"PAUSE"}`,
		"unknown kind":    `{"type":"CMD","kind":"TELEPORT"}`,
		"place missing y": `{"type":"CMD","kind":"PLACE_BUILDING","building":"GREENHOUSE","x":1}`,
		"fractional x":    `{"type":"CMD","kind":"PLACE_BUILDING","building":"GREENHOUSE","x":1.5,"y":1}`,
		"zero speed":      `{"type":"CMD","kind":"SET_SPEED","multiplier":0}`,
		"withdraw zero":   `{"type":"CMD","kind":"WITHDRAW","resource":"TOMATO","count":0}`,
		"remove no id":    `{"type":"CMD","kind":"REMOVE_BUILDING"}`,
		"extra field":     `{"type":"CMD","kind":"PAUSE","force":true}`,
	}
	for name, raw := range cases {
		if _, err := DecodeCommand([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestCommandSchema_IsJSON(t *testing.T) {
	var v map[string]any
	if err := json.Unmarshal([]byte(CommandSchema()), &v); err != nil {
		t.Fatalf("schema is not json: %v", err)
	}
	if !strings.Contains(CommandSchema(), CmdWithdraw) {
		t.Fatalf("schema does not list %s", CmdWithdraw)
	}
}

func TestDecodeBase(t *testing.T) {
	m, err := DecodeBase([]byte(`{"type":"CMD","protocol_version":"1.0","kind":"PAUSE"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Type != TypeCmd || m.ProtocolVersion != Version {
		t.Fatalf("unexpected base: %+v", m)
	}
}
