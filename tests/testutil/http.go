package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/movable/backend/internal/domain/shared"
	"github.com/movable/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors dto.Response with the data left raw for typed decoding
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Events  []dto.Event     `json:"events"`
	Error   *dto.ErrorInfo  `json:"error"`
}

// APIClient sends JSON requests to a handler as one account.
// A zero account sends no identity headers.
type APIClient struct {
	Handler http.Handler
	Account shared.Account
}

// NewAPIClient creates a client calling handler as account
func NewAPIClient(handler http.Handler, account shared.Account) *APIClient {
	return &APIClient{Handler: handler, Account: account}
}

// As returns a client for the same handler calling as another account
func (c *APIClient) As(account shared.Account) *APIClient {
	return &APIClient{Handler: c.Handler, Account: account}
}

// Do sends the request. A string body is sent verbatim, anything else is JSON encoded.
func (c *APIClient) Do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.Account.UUID != "" {
		req.Header.Set("X-Account-UUID", c.Account.UUID)
		req.Header.Set("X-Account-ID", strconv.Itoa(c.Account.ID))
		req.Header.Set("X-Account-Name", c.Account.Username)
		req.Header.Set("X-Account-Roles", strings.Join(c.Account.Roles, ","))
	}

	w := httptest.NewRecorder()
	c.Handler.ServeHTTP(w, req)
	return w
}

// Decode reads the response envelope and its data as T
func Decode[T any](t *testing.T, w *httptest.ResponseRecorder) (T, Envelope) {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	var data T
	if len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, &data), string(env.Data))
	}
	return data, env
}

// IssueCodes reads the codes of a rejected operation's issue list
func IssueCodes(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()

	var list dto.IssueList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list), w.Body.String())
	codes := make([]string, 0, len(list.Issues))
	for _, issue := range list.Issues {
		codes = append(codes, issue.Code)
	}
	return codes
}
