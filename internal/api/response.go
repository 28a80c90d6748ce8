package api

import (
	"encoding/json"
	"net/http"
)

// RawResponse is what the transport returned. Err is set when no status
// code was received.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Err        error
}

// HandleOptions controls side effects of HandleResponse.
type HandleOptions struct {
	// ForceLogout triggers Session.TriggerLogout on 401. The login flow
	// turns it off.
	ForceLogout bool
	Session     Session
	RequestID   string
}

// HandleResponse turns a raw response into a decoded result or a classified
// *Error. Transport failures short-circuit before status classification, so
// a cancelled request never reaches the logout path.
func HandleResponse(resp RawResponse, result any, opts HandleOptions) error {
	if resp.Err != nil {
		e := errorFromTransport(resp.Err)
		e.RequestID = opts.RequestID
		return e
	}

	if ClassifyStatus(resp.StatusCode).IsSuccess() {
		if result == nil || len(resp.Body) == 0 {
			return nil
		}
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return &Error{Kind: ErrDecoding, RequestID: opts.RequestID, Err: err}
		}
		return nil
	}

	if resp.StatusCode == http.StatusUnauthorized && opts.ForceLogout && opts.Session != nil {
		opts.Session.TriggerLogout()
	}

	e := errorFromStatus(resp.StatusCode, resp.Body)
	e.RequestID = opts.RequestID
	return e
}
