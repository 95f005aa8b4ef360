package aws

import (
	"context"
	"errors"
	"net"
	"slices"
	"strings"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

// FailureKind classifica uma falha de chamada AWS para fins de log e de
// decisão de retentativa.
type FailureKind string

const (
	FailureCredential FailureKind = "credential"
	FailurePermission FailureKind = "permission"
	FailureThrottling FailureKind = "throttling"
	FailureTimeout    FailureKind = "timeout"
	FailureOther      FailureKind = "other"
)

var throttlingCodes = []string{
	"ThrottlingException",
	"Throttling",
	"TooManyRequestsException",
	"RequestLimitExceeded",
	"LimitExceededException",
}

var credentialCodes = []string{
	"UnrecognizedClientException",
	"InvalidClientTokenId",
	"ExpiredToken",
	"ExpiredTokenException",
	"SignatureDoesNotMatch",
}

// ClassifyError reduz um erro de chamada AWS a uma das categorias tratadas
// pelo scanner. Somente throttling e timeout são retentáveis.
func ClassifyError(err error) FailureKind {
	switch {
	case err == nil:
		return FailureOther
	case IsCredentialError(err):
		return FailureCredential
	case IsAccessDeniedError(err):
		return FailurePermission
	case IsThrottlingError(err):
		return FailureThrottling
	case isTimeout(err):
		return FailureTimeout
	default:
		return FailureOther
	}
}

// IsThrottlingError reports whether the call was rate limited and is worth
// retrying once.
func IsThrottlingError(err error) bool {
	if err == nil {
		return false
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 429 {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return slices.Contains(throttlingCodes, apiErr.ErrorCode())
	}
	return false
}

// IsAccessDeniedError reports whether the caller lacks permission for the
// operation. These failures are permanent for the scan cycle.
func IsAccessDeniedError(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "UnauthorizedOperation" ||
			strings.HasPrefix(code, "AccessDenied")
	}
	return false
}

// IsCredentialError reports whether the credential chain itself is broken.
// The scan loop treats these as fatal.
func IsCredentialError(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if slices.Contains(credentialCodes, apiErr.ErrorCode()) {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "failed to retrieve credentials") ||
		strings.Contains(msg, "no ec2 imds role found") ||
		strings.Contains(msg, "failed to refresh cached credentials")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
