package commands

import (
	"bytes"
	"testing"
)

func TestCaptionCommand_DrawsText(t *testing.T) {
	input := testImagePNG(t, 120, 60)

	command, err := NewCaptionCommand(map[string]any{"text": "hello banana"})
	if err != nil {
		t.Fatalf("NewCaptionCommand error: %v", err)
	}
	output, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if bytes.Equal(input, output) {
		t.Fatal("expected caption to change the image")
	}

	// Dimensions are untouched; only pixels change.
	before := decodeResult(t, input)
	after := decodeResult(t, output)
	if before.Bounds() != after.Bounds() {
		t.Fatalf("expected bounds %v, got %v", before.Bounds(), after.Bounds())
	}
}

func TestCaptionCommand_TopAndBottomDiffer(t *testing.T) {
	input := testImagePNG(t, 120, 60)

	top, err := NewCaptionCommand(map[string]any{"text": "caption", "position": "top"})
	if err != nil {
		t.Fatalf("NewCaptionCommand(top) error: %v", err)
	}
	bottom, err := NewCaptionCommand(map[string]any{"text": "caption", "position": "bottom"})
	if err != nil {
		t.Fatalf("NewCaptionCommand(bottom) error: %v", err)
	}

	topOut, err := top.Execute(input)
	if err != nil {
		t.Fatalf("Execute(top) error: %v", err)
	}
	bottomOut, err := bottom.Execute(input)
	if err != nil {
		t.Fatalf("Execute(bottom) error: %v", err)
	}

	if bytes.Equal(topOut, bottomOut) {
		t.Fatal("expected different output for top and bottom positions")
	}
}

func TestCaptionCommand_ParamValidation(t *testing.T) {
	if _, err := NewCaptionCommand(map[string]any{}); err == nil {
		t.Error("expected error for missing text")
	}
	if _, err := NewCaptionCommand(map[string]any{"text": "   "}); err == nil {
		t.Error("expected error for blank text")
	}
	if _, err := NewCaptionCommand(map[string]any{"text": "ok", "position": "center"}); err == nil {
		t.Error("expected error for unsupported position")
	}
}
