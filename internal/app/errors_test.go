package app

import (
	"errors"
	"testing"
)

func TestOperationError_Error(t *testing.T) {
	base := errors.New("no such file")

	tests := []struct {
		name string
		err  *OperationError
		want string
	}{
		{
			name: "op and target",
			err:  NewOperationError("load-options", "zenmode.toml", base),
			want: "load-options zenmode.toml: no such file",
		},
		{
			name: "with context",
			err:  NewOperationError("load-options", "zenmode.toml", base).WithContext("zen target overrides"),
			want: "load-options zenmode.toml (zen target overrides): no such file",
		},
		{
			name: "op only",
			err:  NewOperationError("shutdown", "", base),
			want: "shutdown: no such file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	base := errors.New("boom")
	err := NewOperationError("load-hooks", "hooks.lua", base)

	if !errors.Is(err, base) {
		t.Error("expected errors.Is to reach the underlying error")
	}
}

func TestOperationError_NilReceiver(t *testing.T) {
	var err *OperationError

	if got := err.Error(); got != "" {
		t.Errorf("nil Error() = %q, want empty", got)
	}
	if err.WithContext("ignored") != nil {
		t.Error("WithContext on nil must return nil")
	}
	if err.Unwrap() != nil {
		t.Error("Unwrap on nil must return nil")
	}
}
