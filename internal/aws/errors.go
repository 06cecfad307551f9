package aws

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
)

// FailureKind is the closed set of provider fault categories
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureDenied
	FailureNotFound
	FailureThrottled
	FailureTransport
)

func (k FailureKind) String() string {
	switch k {
	case FailureDenied:
		return "denied"
	case FailureNotFound:
		return "not-found"
	case FailureThrottled:
		return "throttled"
	case FailureTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Failure is a provider fault converted to data at the enumerator boundary
type Failure struct {
	Kind   FailureKind
	Op     string
	Detail string
}

func (f *Failure) Error() string {
	var prefix string
	switch f.Kind {
	case FailureDenied:
		prefix = "Access denied"
	case FailureNotFound:
		prefix = "Resource not found"
	case FailureThrottled:
		prefix = "Request throttled"
	case FailureTransport:
		prefix = "Transport error"
	default:
		prefix = "Client error"
	}
	if f.Op == "" {
		return fmt.Sprintf("%s: %s", prefix, f.Detail)
	}
	return fmt.Sprintf("%s during %s: %s", prefix, f.Op, f.Detail)
}

var deniedCodes = map[string]bool{
	"AccessDenied":                true,
	"AccessDeniedException":       true,
	"UnauthorizedOperation":       true,
	"UnauthorizedAccess":          true,
	"AuthFailure":                 true,
	"AuthorizationError":          true,
	"UnrecognizedClientException": true,
	"InvalidClientTokenId":        true,
	"InvalidAccessKeyId":          true,
	"ExpiredToken":                true,
	"ExpiredTokenException":       true,
	"SignatureDoesNotMatch":       true,
	"OptInRequired":               true,
	"NoCredentialProviders":       true,
	"SharedCredsLoad":             true,
	"MissingAuthenticationToken":  true,
}

var throttledCodes = map[string]bool{
	"Throttling":                             true,
	"ThrottlingException":                    true,
	"ThrottledException":                     true,
	"RequestThrottled":                       true,
	"RequestThrottledException":              true,
	"TooManyRequestsException":               true,
	"RequestLimitExceeded":                   true,
	"SlowDown":                               true,
	"PriorRequestNotComplete":                true,
	"ProvisionedThroughputExceededException": true,
	"BandwidthLimitExceeded":                 true,
	"LimitExceededException":                 true,
}

var transportCodes = map[string]bool{
	request.ErrCodeRequestError:    true,
	request.ErrCodeResponseTimeout: true,
	request.ErrCodeSerialization:   true,
	request.ErrCodeRead:            true,
	request.CanceledErrorCode:      true,
	"RequestTimeout":               true,
	"RequestTimeoutException":      true,
	"ServiceUnavailable":           true,
	"InternalError":                true,
	"InternalFailure":              true,
}

// Classify maps an SDK error to a Failure. The detail keeps the SDK message.
func Classify(op string, err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: kindOf(err), Op: op, Detail: err.Error()}
}

func kindOf(err error) FailureKind {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		code := aerr.Code()
		switch {
		case deniedCodes[code]:
			return FailureDenied
		case throttledCodes[code] || request.IsErrorThrottle(err):
			return FailureThrottled
		case isNotFoundCode(code):
			return FailureNotFound
		case transportCodes[code]:
			return FailureTransport
		}

		var reqErr awserr.RequestFailure
		if errors.As(err, &reqErr) {
			if kind, ok := kindOfStatus(reqErr.StatusCode()); ok {
				return kind
			}
		}

		// Wrapped transport causes such as dial errors
		if orig := aerr.OrigErr(); orig != nil && orig != err {
			if kind := kindOf(orig); kind != FailureUnknown {
				return kind
			}
		}
		return FailureUnknown
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return FailureTransport
	}
	return FailureUnknown
}

func kindOfStatus(status int) (FailureKind, bool) {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return FailureDenied, true
	case status == http.StatusNotFound:
		return FailureNotFound, true
	case status == http.StatusTooManyRequests:
		return FailureThrottled, true
	case status >= http.StatusInternalServerError:
		return FailureTransport, true
	default:
		return FailureUnknown, false
	}
}

func isNotFoundCode(code string) bool {
	return strings.Contains(code, "NotFound") ||
		strings.HasPrefix(code, "NoSuch") ||
		code == "ResourceNotFoundException"
}

// ErrUnsupportedService is matched by UnsupportedServiceError
var ErrUnsupportedService = errors.New("unsupported service")

// UnsupportedServiceError is returned for service names no routine handles
type UnsupportedServiceError struct {
	Name      string
	Supported []string
}

func (e *UnsupportedServiceError) Error() string {
	return fmt.Sprintf("Unsupported service: %s. Supported services are: %s.",
		e.Name, strings.Join(e.Supported, ", "))
}

func (e *UnsupportedServiceError) Unwrap() error {
	return ErrUnsupportedService
}
