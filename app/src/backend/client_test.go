package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"quote-frontend/app/src/domain"
	"quote-frontend/app/src/infra"
	"quote-frontend/app/src/shared/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	results []domain.CallResult
}

func (o *recordingObserver) ObserveProbe(result domain.CallResult) {
	o.results = append(o.results, result)
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(Config{BaseURL: server.URL, Timeout: time.Second}, infra.NewLogger(io.Discard, "test"), opts...)
	return client, server
}

func TestClientNotConfiguredSkipsIO(t *testing.T) {
	t.Log("Шаг 1: клиент без адреса не выполняет запросы")
	client := NewClient(Config{}, infra.NewLogger(io.Discard, "test"))
	ctx := context.Background()

	assert.False(t, client.Configured())

	result := client.Probe(ctx)
	assert.Equal(t, domain.OutcomeNotConfigured, result.Outcome)
	assert.ErrorIs(t, result.Err, domain.ErrBackendNotConfigured)

	quotes, result := client.FetchAll(ctx)
	assert.Nil(t, quotes)
	assert.False(t, result.OK())

	quote, result := client.FetchOne(ctx)
	assert.Empty(t, quote)
	assert.False(t, result.OK())

	submit := client.Submit(ctx, []byte(`{"quote":"x"}`))
	assert.Equal(t, domain.OutcomeNotConfigured, submit.Outcome)

	connected, result := client.DatabaseStatus(ctx)
	assert.False(t, connected)
	assert.Equal(t, domain.OutcomeNotConfigured, result.Outcome)
}

func TestProbeReportsReadiness(t *testing.T) {
	var ready atomic.Bool
	ready.Store(true)
	observer := &recordingObserver{}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, constants.PathReady, r.URL.Path)
		if ready.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}), WithProbeObserver(observer))

	t.Log("Шаг 1: бэкенд готов")
	result := client.Probe(context.Background())
	assert.True(t, result.OK())
	assert.Equal(t, http.StatusOK, result.StatusCode)

	t.Log("Шаг 2: бэкенд отвечает 503")
	ready.Store(false)
	result = client.Probe(context.Background())
	assert.Equal(t, domain.OutcomeBadStatus, result.Outcome)
	assert.ErrorIs(t, result.Err, domain.ErrUnexpectedStatus)

	require.Len(t, observer.results, 2)
	assert.True(t, observer.results[0].OK())
	assert.False(t, observer.results[1].OK())
}

func TestProbeTimeout(t *testing.T) {
	t.Log("Шаг 1: бэкенд отвечает дольше таймаута")
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	client := NewClient(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, infra.NewLogger(io.Discard, "test"))

	result := client.Probe(context.Background())
	assert.Equal(t, domain.OutcomeTimeout, result.Outcome)
	assert.Error(t, result.Err)
}

func TestProbeTransportError(t *testing.T) {
	t.Log("Шаг 1: сервер закрыт, соединение отклоняется")
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(Config{BaseURL: url}, infra.NewLogger(io.Discard, "test"))
	result := client.Probe(context.Background())
	assert.Equal(t, domain.OutcomeTransportError, result.Outcome)
}

func TestDatabaseStatus(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		body      string
		connected bool
		outcome   domain.Outcome
	}{
		{name: "connected", status: http.StatusOK, body: `{"db-connected":"true"}`, connected: true, outcome: domain.OutcomeOK},
		{name: "disconnected", status: http.StatusOK, body: `{"db-connected":"false"}`, outcome: domain.OutcomeOK},
		{name: "missing field", status: http.StatusOK, body: `{}`, outcome: domain.OutcomeMalformed},
		{name: "not json", status: http.StatusOK, body: `yes`, outcome: domain.OutcomeMalformed},
		{name: "bad status", status: http.StatusInternalServerError, body: `{"db-connected":"true"}`, outcome: domain.OutcomeBadStatus},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, constants.PathDatabase, r.URL.Path)
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))

			connected, result := client.DatabaseStatus(context.Background())
			assert.Equal(t, tc.connected, connected)
			assert.Equal(t, tc.outcome, result.Outcome)
		})
	}
}

func TestFetchOneReturnsRawText(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, constants.PathQuote, r.URL.Path)
		_, _ = io.WriteString(w, "Simplicity is prerequisite for reliability.")
	}))

	quote, result := client.FetchOne(context.Background())
	assert.True(t, result.OK())
	assert.Equal(t, "Simplicity is prerequisite for reliability.", quote)
}

func TestFetchOneBadStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	quote, result := client.FetchOne(context.Background())
	assert.Empty(t, quote)
	assert.Equal(t, domain.OutcomeBadStatus, result.Outcome)
	assert.Equal(t, http.StatusInternalServerError, result.StatusCode)
}

func TestFetchAll(t *testing.T) {
	t.Log("Шаг 1: бэкенд возвращает список цитат")
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, constants.PathQuotes, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `["first","second"]`)
	}))

	quotes, result := client.FetchAll(context.Background())
	assert.True(t, result.OK())
	assert.Equal(t, []string{"first", "second"}, quotes)
}

func TestFetchAllNullBodyIsEmptyList(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	}))

	quotes, result := client.FetchAll(context.Background())
	assert.True(t, result.OK())
	assert.NotNil(t, quotes)
	assert.Empty(t, quotes)
}

func TestFetchAllMalformed(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"quotes":[]}`)
	}))

	quotes, result := client.FetchAll(context.Background())
	assert.Nil(t, quotes)
	assert.Equal(t, domain.OutcomeMalformed, result.Outcome)
	assert.ErrorIs(t, result.Err, domain.ErrMalformedResponse)
}

func TestSubmitForwardsPayloadVerbatim(t *testing.T) {
	t.Log("Шаг 1: проверяем, что тело запроса передаётся без изменений")
	payload := []byte(`{"quote": "test - locust", "author": "ignored"}`)
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, constants.PathAddQuote, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, payload, body)
		_, _ = io.WriteString(w, "Quote added\n")
	}))

	result := client.Submit(context.Background(), payload)
	assert.True(t, result.OK())
	assert.Equal(t, "Quote added", result.Message)
}

func TestSubmitSurfacesBackendStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "duplicate quote", http.StatusConflict)
	}))

	result := client.Submit(context.Background(), []byte(`{"quote":"x"}`))
	assert.Equal(t, domain.OutcomeBadStatus, result.Outcome)
	assert.Equal(t, http.StatusConflict, result.StatusCode)
	assert.Equal(t, "duplicate quote", result.Message)
}

func TestHostname(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, constants.PathHostname, r.URL.Path)
		_, _ = io.WriteString(w, `{"backend":"backend-7f9c"}`)
	}))

	name, result := client.Hostname(context.Background())
	assert.True(t, result.OK())
	assert.Equal(t, "backend-7f9c", name)
}

func TestHostnameMissingField(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"frontend":"x"}`)
	}))

	name, result := client.Hostname(context.Background())
	assert.Empty(t, name)
	assert.Equal(t, domain.OutcomeMalformed, result.Outcome)
}

func TestRequestIDPropagates(t *testing.T) {
	var seen string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(constants.RequestIDHeader)
	}))

	ctx := infra.WithCorrelationID(context.Background(), "123e4567-e89b-12d3-a456-426614174000")
	client.Probe(ctx)
	assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", seen)
}

func TestMaxBodyBytesTruncatesResponses(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "0123456789")
	}), WithMaxBodyBytes(4))

	quote, result := client.FetchOne(context.Background())
	assert.True(t, result.OK())
	assert.Equal(t, "0123", quote)
}

func TestNewClientTrimsBaseURLAndDefaultsTimeout(t *testing.T) {
	client := NewClient(Config{BaseURL: " http://backend:5000/ "}, nil)
	assert.True(t, client.Configured())
	assert.Equal(t, "http://backend:5000", client.baseURL)
	assert.Equal(t, constants.BackendTimeout, client.timeout)
}
