package common

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veiloq/bitx-connector/pkg/ratelimit"
)

// scriptedTransport returns one canned status per call, failing the test if
// called more often than scripted.
type scriptedTransport struct {
	t        *testing.T
	statuses []int
	calls    int
	bodies   []string
}

func (s *scriptedTransport) Do(req *http.Request) (*http.Response, error) {
	require.Less(s.t, s.calls, len(s.statuses), "unexpected extra request")

	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		require.NoError(s.t, err)
		s.bodies = append(s.bodies, string(body))
	}

	status := s.statuses[s.calls]
	s.calls++
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString("{}")),
		Header:     make(http.Header),
	}, nil
}

func newPolicyClient(transport Doer, retries uint) *PolicyClient {
	return NewPolicyClient(&PolicyConfig{
		Transport:  transport,
		MaxRetries: retries,
		RetryDelay: time.Millisecond,
	})
}

func TestPolicyClientRetriesServerErrors(t *testing.T) {
	transport := &scriptedTransport{t: t, statuses: []int{500, 429, 200}}
	client := newPolicyClient(transport, 3)

	req, err := http.NewRequest(http.MethodGet, "http://example.test/ticker", nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 3, transport.calls)
}

func TestPolicyClientGivesUpAfterMaxRetries(t *testing.T) {
	transport := &scriptedTransport{t: t, statuses: []int{500, 500, 500}}
	client := newPolicyClient(transport, 3)

	req, err := http.NewRequest(http.MethodGet, "http://example.test/ticker", nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.Error(t, err)
	assert.Equal(t, 3, transport.calls)
}

func TestPolicyClientDoesNotRetryClientErrors(t *testing.T) {
	transport := &scriptedTransport{t: t, statuses: []int{404}}
	client := newPolicyClient(transport, 3)

	req, err := http.NewRequest(http.MethodGet, "http://example.test/nope", nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, 1, transport.calls)
}

func TestPolicyClientReplaysBodyOnRetry(t *testing.T) {
	transport := &scriptedTransport{t: t, statuses: []int{500, 200}}
	client := newPolicyClient(transport, 2)

	req, err := http.NewRequest(http.MethodPost, "http://example.test/postorder",
		strings.NewReader("pair=XBTZAR&type=BID"))
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Len(t, transport.bodies, 2)
	assert.Equal(t, "pair=XBTZAR&type=BID", transport.bodies[0])
	assert.Equal(t, transport.bodies[0], transport.bodies[1])
}

func TestPolicyClientHonoursCancelledContext(t *testing.T) {
	transport := &scriptedTransport{t: t, statuses: []int{200}}
	client := NewPolicyClient(&PolicyConfig{
		Transport: transport,
		RateLimit: ratelimit.Rate{Limit: 1, Interval: time.Second},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.test/ticker", nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, transport.calls)
}

func TestDefaultPolicyConfig(t *testing.T) {
	cfg := DefaultPolicyConfig()
	assert.Equal(t, uint(3), cfg.MaxRetries)
	assert.Equal(t, 10, cfg.RateLimit.Limit)
	assert.NotNil(t, cfg.Logger)
}
