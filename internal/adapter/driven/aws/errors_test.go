package aws

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
)

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "simulated"}
}

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"throttling exception", apiError("ThrottlingException"), FailureThrottling},
		{"request limit", apiError("RequestLimitExceeded"), FailureThrottling},
		{"unauthorized", apiError("UnauthorizedOperation"), FailurePermission},
		{"access denied exception", apiError("AccessDeniedException"), FailurePermission},
		{"expired token", apiError("ExpiredTokenException"), FailureCredential},
		{"invalid client token", apiError("InvalidClientTokenId"), FailureCredential},
		{"deadline exceeded", context.DeadlineExceeded, FailureTimeout},
		{"wrapped deadline", fmt.Errorf("describe instances: %w", context.DeadlineExceeded), FailureTimeout},
		{"plain error", errors.New("boom"), FailureOther},
		{"credential chain message", errors.New("failed to retrieve credentials from chain"), FailureCredential},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyError(tc.err); got != tc.want {
				t.Fatalf("ClassifyError = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIsThrottlingErrorWrapped(t *testing.T) {
	err := fmt.Errorf("list functions in us-east-1: %w", apiError("TooManyRequestsException"))
	if !IsThrottlingError(err) {
		t.Fatal("wrapped throttling error must be detected")
	}
	if IsThrottlingError(nil) {
		t.Fatal("nil is not a throttling error")
	}
}

func TestIsAccessDeniedError(t *testing.T) {
	if !IsAccessDeniedError(apiError("AccessDenied")) {
		t.Fatal("AccessDenied must be detected")
	}
	if IsAccessDeniedError(apiError("ThrottlingException")) {
		t.Fatal("throttling is not access denied")
	}
}
