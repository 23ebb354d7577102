package binanceclient

import (
	"context"
	"errors"
	"net"

	"github.com/adshao/go-binance/v2/common"

	"github.com/JoseManuelOberreuter/Binance-API/internal/ports"
)

// diagnostic returns the log message for an error class.
func diagnostic(class error) string {
	switch class {
	case ports.ErrRateLimited:
		return "Rate limit exceeded, wait before sending more requests"
	case ports.ErrBanned:
		return "IP temporarily banned for exceeding the rate limit"
	case ports.ErrInvalidRequest:
		return "Invalid request"
	case ports.ErrUnauthorized:
		return "Unauthorized, check credentials"
	case ports.ErrForbidden:
		return "Access forbidden"
	case ports.ErrNotFound:
		return "Resource not found"
	case ports.ErrServerError:
		return "Exchange internal server error"
	case ports.ErrNoResponse, ports.ErrTimeout:
		return "No response received from the exchange"
	case ports.ErrRequestSetup:
		return "Failed to set up request"
	case ports.ErrInvalidResponse:
		return "Malformed response from the exchange"
	default:
		return "Unexpected error response"
	}
}

// handleError turns any failure of a REST call into a *ports.DataFetchError
// and logs the classified diagnostic. It never changes control flow.
func (c *Client) handleError(ctx context.Context, err error, op string, capture *responseCapture) error {
	if err == nil {
		return nil
	}

	dispatched, status, body := capture.snapshot()
	fetchErr := &ports.DataFetchError{Op: op, Err: err}
	fields := map[string]interface{}{"operation": op}

	var netErr net.Error
	switch {
	case status != 0 && (status < 200 || status > 299):
		fetchErr.Kind = ports.KindHTTP
		fetchErr.Class = ports.ClassifyStatus(status)
		fetchErr.StatusCode = status
		fetchErr.Body = body
		fields["status"] = status
		fields["body"] = string(body)

		var apiErr *common.APIError
		if errors.As(err, &apiErr) {
			fields["apiErrorCode"] = apiErr.Code
			fields["apiErrorMessage"] = apiErr.Message
		}
	case !dispatched:
		fetchErr.Kind = ports.KindSetup
		fetchErr.Class = ports.ErrRequestSetup
	case (errors.As(err, &netErr) && netErr.Timeout()) || errors.Is(err, context.DeadlineExceeded):
		fetchErr.Kind = ports.KindTransport
		fetchErr.Class = ports.ErrTimeout
	case status == 0:
		fetchErr.Kind = ports.KindTransport
		fetchErr.Class = ports.ErrNoResponse
	default:
		fetchErr.Kind = ports.KindDecode
		fetchErr.Class = ports.ErrInvalidResponse
		fields["status"] = status
	}
	fields["kind"] = string(fetchErr.Kind)

	c.logger.Error(ctx, err, diagnostic(fetchErr.Class), fields)
	return fetchErr
}
