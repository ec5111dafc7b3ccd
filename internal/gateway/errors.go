package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/go-github/v62/github"
)

// Kind classifies a gateway failure.
type Kind string

const (
	KindNotFound         Kind = "NotFound"
	KindPermissionDenied Kind = "PermissionDenied"
	KindRateLimited      Kind = "RateLimited"
	KindNetwork          Kind = "NetworkError"
	KindValidation       Kind = "ValidationError"
	KindAPI              Kind = "APIError"
)

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrRateLimited      = &Error{Kind: KindRateLimited}
	ErrNetwork          = &Error{Kind: KindNetwork}
	ErrValidation       = &Error{Kind: KindValidation}
	ErrAPI              = &Error{Kind: KindAPI}
)

// Fine-grained personal access token permissions named in PermissionDenied
// messages.
const (
	permMetadataRead     = "Metadata: read"
	permIssuesRead       = "Issues: read"
	permIssuesWrite      = "Issues: write"
	permPullRequestsRead = "Pull requests: read"
	permContentsRead     = "Contents: read"
	permActionsRead      = "Actions: read"
	permSearch           = "search"
	permNotifications    = "Notifications"
)

// Error is the error type returned by every gateway operation.
type Error struct {
	Kind Kind
	// Op names the gateway operation, e.g. "get repository".
	Op      string
	Status  int
	Message string
	// Permission is the token permission likely missing. Set for
	// PermissionDenied only.
	Permission string
	// RetryAfter is set for RateLimited when GitHub reports a reset time.
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Kind == KindNetwork && e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// request describes the call being classified.
type request struct {
	op         string
	resource   string
	permission string
}

// classify maps a go-github or transport error onto the gateway taxonomy.
func (g *GitHubGateway) classify(req request, err error) error {
	if err == nil {
		return nil
	}

	var (
		rateErr    *github.RateLimitError
		abuseErr   *github.AbuseRateLimitError
		respErr    *github.ErrorResponse
		urlErr     *url.Error
		netErr     net.Error
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
		gatewayErr *Error
	)

	switch {
	case errors.As(err, &gatewayErr):
		return err
	case errors.As(err, &rateErr):
		return &Error{
			Kind:       KindRateLimited,
			Op:         req.op,
			Status:     statusOf(rateErr.Response),
			Message:    fmt.Sprintf("GitHub API rate limit exceeded while trying to %s; resets at %s", req.op, rateErr.Rate.Reset.Time.Format(time.RFC3339)),
			RetryAfter: time.Until(rateErr.Rate.Reset.Time),
			Err:        err,
		}
	case errors.As(err, &abuseErr):
		e := &Error{
			Kind:    KindRateLimited,
			Op:      req.op,
			Status:  statusOf(abuseErr.Response),
			Message: fmt.Sprintf("GitHub secondary rate limit hit while trying to %s", req.op),
			Err:     err,
		}
		if abuseErr.RetryAfter != nil {
			e.RetryAfter = *abuseErr.RetryAfter
			e.Message = fmt.Sprintf("%s; retry after %s", e.Message, abuseErr.RetryAfter.Round(time.Second))
		}
		return e
	case errors.As(err, &respErr):
		return g.classifyResponse(req, respErr)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled),
		errors.As(err, &urlErr), errors.As(err, &netErr):
		return &Error{
			Kind:    KindNetwork,
			Op:      req.op,
			Message: fmt.Sprintf("network failure while trying to %s", req.op),
			Err:     err,
		}
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return &Error{
			Kind:    KindValidation,
			Op:      req.op,
			Message: fmt.Sprintf("unexpected response shape while trying to %s", req.op),
			Err:     err,
		}
	default:
		return &Error{
			Kind:    KindAPI,
			Op:      req.op,
			Message: fmt.Sprintf("failed to %s: %v", req.op, err),
			Err:     err,
		}
	}
}

func (g *GitHubGateway) classifyResponse(req request, respErr *github.ErrorResponse) error {
	status := statusOf(respErr.Response)
	switch status {
	case http.StatusNotFound:
		return &Error{
			Kind:    KindNotFound,
			Op:      req.op,
			Status:  status,
			Message: fmt.Sprintf("%s not found or not visible to this token", req.resource),
			Err:     respErr,
		}
	case http.StatusTooManyRequests:
		return &Error{
			Kind:       KindRateLimited,
			Op:         req.op,
			Status:     status,
			Message:    fmt.Sprintf("GitHub API rate limit exceeded while trying to %s", req.op),
			RetryAfter: retryAfter(respErr.Response),
			Err:        respErr,
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		if status == http.StatusForbidden && respErr.Response != nil &&
			respErr.Response.Header.Get("X-RateLimit-Remaining") == "0" {
			return &Error{
				Kind:       KindRateLimited,
				Op:         req.op,
				Status:     status,
				Message:    fmt.Sprintf("GitHub API rate limit exceeded while trying to %s", req.op),
				RetryAfter: retryAfter(respErr.Response),
				Err:        respErr,
			}
		}
		return &Error{
			Kind:       KindPermissionDenied,
			Op:         req.op,
			Status:     status,
			Message:    g.permissionMessage(req),
			Permission: req.permission,
			Err:        respErr,
		}
	case http.StatusUnprocessableEntity:
		return &Error{
			Kind:    KindValidation,
			Op:      req.op,
			Status:  status,
			Message: fmt.Sprintf("GitHub rejected the request to %s: %s", req.op, respErr.Message),
			Err:     respErr,
		}
	default:
		return &Error{
			Kind:    KindAPI,
			Op:      req.op,
			Status:  status,
			Message: fmt.Sprintf("GitHub API error while trying to %s: %s", req.op, respErr.Message),
			Err:     respErr,
		}
	}
}

func (g *GitHubGateway) permissionMessage(req request) string {
	msg := fmt.Sprintf("permission denied to %s on %s", req.op, req.resource)
	if req.permission != "" {
		msg = fmt.Sprintf("%s; the token needs the %q permission", msg, req.permission)
	}
	if !g.hasToken() {
		msg += "; no token is configured, set GITHUB_TOKEN or sign in"
	}
	return msg
}

// validation reports a locally detected problem with input or response.
func validation(op, format string, args ...any) error {
	return &Error{
		Kind:    KindValidation,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	if v := resp.Header.Get("X-RateLimit-Reset"); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Until(time.Unix(epoch, 0))
		}
	}
	return 0
}
