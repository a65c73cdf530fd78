package exitcode

import (
	"errors"
	"fmt"
	"testing"

	"taskflow/internal/service"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, Success},
		{"validation", &service.ValidationError{Field: "title", Message: "title is required"}, UserError},
		{"list not found", fmt.Errorf("%w: x", service.ErrListNotFound), UserError},
		{"ambiguous", fmt.Errorf("%w: x", service.ErrAmbiguousList), UserError},
		{"task not found", service.ErrTaskNotFound, UserError},
		{"not logged in", service.ErrNotLoggedIn, AuthError},
		{"unauthorized", &service.RequestError{Kind: service.KindUnauthorized}, AuthError},
		{"remote not found", &service.RequestError{Kind: service.KindNotFound}, UserError},
		{"invalid", &service.RequestError{Kind: service.KindInvalid}, UserError},
		{"server", &service.RequestError{Kind: service.KindServer}, BackendError},
		{"network", &service.RequestError{Kind: service.KindNetwork}, BackendError},
		{"wrapped", fmt.Errorf("save: %w", &service.RequestError{Kind: service.KindUnauthorized}), AuthError},
		{"plain", errors.New("boom"), BackendError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromError(tt.err); got != tt.want {
				t.Errorf("FromError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
