package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without wrapped error",
			err:  New(KindNotFound, "object not found"),
			want: "NOT_FOUND: object not found",
		},
		{
			name: "with wrapped error",
			err:  Wrap(fmt.Errorf("db error"), KindInternal, "query failed"),
			want: "INTERNAL: query failed: db error",
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

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap(inner, KindInternal, "msg")

	if !errors.Is(appErr, inner) {
		t.Error("errors.Is should match inner error")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound()
	wrapped := fmt.Errorf("wrapped: %w", appErr)

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("AsAppError should return true for wrapped AppError")
	}
	if got.Kind != KindNotFound {
		t.Errorf("Kind = %q, want NOT_FOUND", got.Kind)
	}

	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("AsAppError should return false for plain error")
	}
}

func TestKind_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindInvalidRequest, http.StatusBadRequest},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindUnprocessable, http.StatusUnprocessableEntity},
		{KindInternal, http.StatusInternalServerError},
		{KindGatewayTimeout, http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		if got := tt.kind.HTTPStatus(); got != tt.want {
			t.Errorf("%s.HTTPStatus() = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestIsKind(t *testing.T) {
	if !IsKind(Forbidden(), KindForbidden) {
		t.Error("IsKind should match the error's own kind")
	}
	if IsKind(Forbidden(), KindNotFound) {
		t.Error("IsKind should not match a different kind")
	}
	if IsKind(errors.New("plain"), KindInternal) {
		t.Error("IsKind should be false for non-AppError")
	}
}
