package pipeline

import (
	"testing"
)

// mockCommand is a trivial command used to exercise the registry and invoker.
type mockCommand struct {
	name   string
	suffix []byte
}

func (c *mockCommand) Name() string {
	return c.name
}

func (c *mockCommand) Execute(imageData []byte) ([]byte, error) {
	return append(append([]byte{}, imageData...), c.suffix...), nil
}

func newMockFactory(name string, suffix []byte) CommandFactory {
	return func(params map[string]any) (Command, error) {
		return &mockCommand{name: name, suffix: suffix}, nil
	}
}

func TestNewCommandRegistry(t *testing.T) {
	registry := NewCommandRegistry()
	if registry == nil {
		t.Fatal("Expected non-nil registry")
	}
	if registry.factories == nil {
		t.Fatal("Expected non-nil factories map")
	}
}

func TestCommandRegistry_Register(t *testing.T) {
	registry := NewCommandRegistry()

	// Test successful registration
	err := registry.Register("TestCommand", newMockFactory("TestCommand", nil))
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Test duplicate registration
	err = registry.Register("TestCommand", newMockFactory("TestCommand", nil))
	if err == nil {
		t.Error("Expected error for duplicate registration")
	}

	// Test empty name
	err = registry.Register("", newMockFactory("", nil))
	if err == nil {
		t.Error("Expected error for empty name")
	}

	// Test nil factory
	err = registry.Register("NilFactory", nil)
	if err == nil {
		t.Error("Expected error for nil factory")
	}
}

func TestCommandRegistry_Create(t *testing.T) {
	registry := NewCommandRegistry()
	if err := registry.Register("Known", newMockFactory("Known", nil)); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	command, err := registry.Create("Known", nil)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if command.Name() != "Known" {
		t.Errorf("Expected command name Known, got %s", command.Name())
	}

	if _, err := registry.Create("Unknown", nil); err == nil {
		t.Error("Expected error for unknown command")
	}
}

func TestCommandRegistry_IsRegistered(t *testing.T) {
	registry := NewCommandRegistry()
	if registry.IsRegistered("Missing") {
		t.Error("Expected IsRegistered to be false for missing command")
	}
	if err := registry.Register("Present", newMockFactory("Present", nil)); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if !registry.IsRegistered("Present") {
		t.Error("Expected IsRegistered to be true for registered command")
	}
}
