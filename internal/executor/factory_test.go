package executor

import (
	"testing"
)

func TestNewExecutor(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		wantErr bool
	}{
		{name: "serial", mode: ModeSerial},
		{name: "mutex", mode: ModeMutex},
		{name: "rwlock", mode: ModeRWLock},
		{name: "unknown", mode: Mode("spin"), wantErr: true},
		{name: "empty", mode: Mode(""), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec, err := NewExecutor(tt.mode)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewExecutor(%q) error = %v, wantErr %v", tt.mode, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if exec.Mode() != tt.mode {
				t.Errorf("Mode() = %v, want %v", exec.Mode(), tt.mode)
			}
		})
	}
}

func TestNewExecutorFromString(t *testing.T) {
	exec, err := NewExecutorFromString("2")
	if err != nil {
		t.Fatalf("NewExecutorFromString(\"2\") error = %v", err)
	}
	if _, ok := exec.(*RWLock); !ok {
		t.Errorf("NewExecutorFromString(\"2\") = %T, want *RWLock", exec)
	}

	if _, err := NewExecutorFromString("bogus"); err == nil {
		t.Error("NewExecutorFromString(\"bogus\") expected error")
	}
}

func TestIsValidMode(t *testing.T) {
	for _, s := range []string{"serial", "mutex", "rwlock", "0", "1", "2"} {
		if !IsValidMode(s) {
			t.Errorf("IsValidMode(%q) = false, want true", s)
		}
	}
	if IsValidMode("3") {
		t.Error("IsValidMode(\"3\") = true, want false")
	}
}

func TestGetDescription(t *testing.T) {
	for _, mode := range Modes() {
		desc := GetDescription(mode)
		if desc == nil {
			t.Fatalf("GetDescription(%v) = nil", mode)
		}
		if desc.Mode != mode || desc.Name == "" || desc.Description == "" {
			t.Errorf("GetDescription(%v) incomplete: %+v", mode, desc)
		}
	}
	if GetDescription(Mode("x")) != nil {
		t.Error("GetDescription for unknown mode should be nil")
	}
}
