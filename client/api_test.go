package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/newus-learner-hub/hubgate/client"
	"github.com/newus-learner-hub/hubgate/client/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T, baseURL string, sleeper *sleepRecorder) *client.API {
	api, err := client.NewAPI(newClient(t, baseURL, sleeper))
	require.NoError(t, err)
	return api
}

func TestAPI_SubmitLead_RecoversFromUnavailableBackend(t *testing.T) {
	srv := newScriptedServer(t,
		jsonReply(503, `{"error":"unavailable"}`),
		jsonReply(503, `{"error":"unavailable"}`),
		jsonReply(200, `{"ok":true,"id":42}`),
	)
	sleeper := &sleepRecorder{}
	api := newAPI(t, srv.URL, sleeper)

	envelope, err := api.SubmitLead(context.Background(), client.Lead{
		FirstName: "A",
		LastName:  "B",
		Email:     "a@b.com",
		Phone:     "123",
		Message:   "hi",
	})
	require.NoError(t, err)

	m, err := envelope.Map()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true, "id": float64(42)}, m)

	assert.Equal(t, int32(3), srv.calls.Load())
	assert.Equal(t, []time.Duration{1000 * time.Millisecond, 2000 * time.Millisecond}, sleeper.Delays())

	req := srv.lastRequest()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/lead", req.Path)

	var body map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, map[string]any{
		"firstName": "A",
		"lastName":  "B",
		"email":     "a@b.com",
		"phone":     "123",
		"message":   "hi",
	}, body)
}

func TestAPI_SubmitLead_ValidationFailsWithoutRequest(t *testing.T) {
	srv := newScriptedServer(t, jsonReply(200, `{"ok":true}`))
	api := newAPI(t, srv.URL, &sleepRecorder{})

	_, err := api.SubmitLead(context.Background(), client.Lead{
		FirstName: "A",
		LastName:  "B",
		Email:     "not-an-email",
		Phone:     "12",
	})

	var validationErr *client.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, schema.SchemaTypeLead, validationErr.Type)
	assert.NotEmpty(t, validationErr.Fields)
	assert.Contains(t, err.Error(), "invalid lead")
	assert.Equal(t, int32(0), srv.calls.Load())
}

func TestAPI_SubscribeNewsletter(t *testing.T) {
	srv := newScriptedServer(t, jsonReply(200, `{"ok":true}`))
	api := newAPI(t, srv.URL, &sleepRecorder{})

	_, err := api.SubscribeNewsletter(context.Background(), client.Subscription{Email: "a@b.com"})
	require.NoError(t, err)

	req := srv.lastRequest()
	assert.Equal(t, "/newsletter", req.Path)
	assert.JSONEq(t, `{"email":"a@b.com"}`, string(req.Body))
}

func TestAPI_SubmitCourseInquiry(t *testing.T) {
	srv := newScriptedServer(t, jsonReply(200, `{"ok":true}`))
	api := newAPI(t, srv.URL, &sleepRecorder{})

	_, err := api.SubmitCourseInquiry(context.Background(), client.CourseInquiry{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "+919876543210",
		Course:   "Data Science",
	})
	require.NoError(t, err)

	req := srv.lastRequest()
	assert.Equal(t, "/course-inquiry", req.Path)
	assert.JSONEq(t, `{"fullName":"Asha Rao","email":"asha@example.com","phone":"+919876543210","course":"Data Science"}`, string(req.Body))
}

func TestAPI_SubmitCourseInquiry_TooManyRequests(t *testing.T) {
	srv := newScriptedServer(t, jsonReply(429, `{"error":"rate limited"}`))
	sleeper := &sleepRecorder{}
	api := newAPI(t, srv.URL, sleeper)

	_, err := api.SubmitCourseInquiry(context.Background(), client.CourseInquiry{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "9876543210",
		Course:   "Data Science",
	})
	require.Error(t, err)

	assert.Equal(t, int32(4), srv.calls.Load())
	assert.Equal(t, "Too many requests. Please try again later.", client.UserMessage(err))
}

func TestAPI_CheckHealth(t *testing.T) {
	srv := newScriptedServer(t, jsonReply(200, `{"status":"ok"}`))
	api := newAPI(t, srv.URL, &sleepRecorder{})

	envelope, err := api.CheckHealth(context.Background())
	require.NoError(t, err)

	req := srv.lastRequest()
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/health", req.Path)

	m, err := envelope.Map()
	require.NoError(t, err)
	assert.Equal(t, "ok", m["status"])
}

// blockingHealthServer holds every /health request until release is
// closed.
type blockingHealthServer struct {
	*httptest.Server

	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func newBlockingHealthServer(t *testing.T) *blockingHealthServer {
	s := &blockingHealthServer{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.calls.Add(1) == 1 {
			close(s.started)
		}

		select {
		case <-s.release:
		case <-r.Context().Done():
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))

	t.Cleanup(s.Close)

	return s
}

func TestHealthMonitor_CoalescesAndCaches(t *testing.T) {
	srv := newBlockingHealthServer(t)
	monitor := client.NewHealthMonitor(newAPI(t, srv.URL, &sleepRecorder{}), time.Minute)

	var wg sync.WaitGroup
	check := func() {
		defer wg.Done()
		_, err := monitor.Check(context.Background())
		assert.NoError(t, err)
	}

	wg.Add(1)
	go check()
	<-srv.started

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go check()
	}

	// give the waiters time to join the in-flight check
	time.Sleep(50 * time.Millisecond)
	close(srv.release)
	wg.Wait()

	assert.Equal(t, int32(1), srv.calls.Load())

	_, err := monitor.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.calls.Load())

	monitor.Invalidate()

	_, err = monitor.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), srv.calls.Load())
}

func TestHealthMonitor_CallerDeadlineDoesNotFailOthers(t *testing.T) {
	srv := newBlockingHealthServer(t)
	monitor := client.NewHealthMonitor(newAPI(t, srv.URL, &sleepRecorder{}), time.Minute)

	patient := make(chan error, 1)
	go func() {
		_, err := monitor.Check(context.Background())
		patient <- err
	}()

	<-srv.started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := monitor.Check(ctx)
	require.Error(t, err)
	assert.Equal(t, "Request timeout", err.Error())
	assert.ErrorIs(t, err, client.ErrTimeout)

	close(srv.release)

	assert.NoError(t, <-patient)
	assert.Equal(t, int32(1), srv.calls.Load())
}

func TestHealthMonitor_FirstCallerDeadlineDoesNotFailOthers(t *testing.T) {
	srv := newBlockingHealthServer(t)
	monitor := client.NewHealthMonitor(newAPI(t, srv.URL, &sleepRecorder{}), time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	impatient := make(chan error, 1)
	go func() {
		_, err := monitor.Check(ctx)
		impatient <- err
	}()

	<-srv.started

	patient := make(chan error, 1)
	go func() {
		_, err := monitor.Check(context.Background())
		patient <- err
	}()

	assert.ErrorIs(t, <-impatient, client.ErrTimeout)

	close(srv.release)

	assert.NoError(t, <-patient)
	assert.Equal(t, int32(1), srv.calls.Load())
}

func TestHealthMonitor_DoesNotCacheFailure(t *testing.T) {
	srv := newScriptedServer(t,
		jsonReply(404, `{"error":"missing"}`),
		jsonReply(200, `{"status":"ok"}`),
	)
	monitor := client.NewHealthMonitor(newAPI(t, srv.URL, &sleepRecorder{}), time.Minute)

	_, err := monitor.Check(context.Background())
	assert.EqualError(t, err, "missing")

	_, err = monitor.Check(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int32(2), srv.calls.Load())
}
