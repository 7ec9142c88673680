package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/newus-learner-hub/hubgate/app/lambda"
	"github.com/newus-learner-hub/hubgate/catalog"
	"github.com/newus-learner-hub/hubgate/client"
	"github.com/newus-learner-hub/hubgate/config"
	"github.com/newus-learner-hub/hubgate/util/conf"
	"github.com/newus-learner-hub/hubgate/util/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zaptest"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootApp.Writer = &stdout
	rootApp.ErrWriter = &stderr
	t.Cleanup(func() {
		rootApp.Writer = nil
		rootApp.ErrWriter = nil
	})

	err := rootApp.RunContext(context.Background(), append([]string{appName, "--log-level", "error"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestLeadCommand(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lead", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"id":42}`))
	}))
	defer server.Close()

	out, _, err := runApp(t, "lead",
		"--first-name", "Ada",
		"--last-name", "Lovelace",
		"--email", "ada@example.com",
		"--phone", "123",
		"--api-url", server.URL,
	)
	require.NoError(t, err)

	assert.Equal(t, "Ada", got["firstName"])
	assert.NotContains(t, got, "message")
	assert.JSONEq(t, `{"ok":true,"id":42}`, out)
}

func TestInquiryCommand_TooManyRequests(t *testing.T) {
	var got client.CourseInquiry
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, _, err := runApp(t, "inquiry",
		"--name", "Ada Lovelace",
		"--email", "ada@example.com",
		"--phone", "+44 20 7946 0958",
		"--course", "ui-ux-design-4",
		"--api-url", server.URL,
		"--max-retries", "0",
	)
	require.Error(t, err)
	assert.Equal(t, "Too many requests. Please try again later.", err.Error())

	assert.Equal(t, "UI/UX Design", got.Course)
	assert.Equal(t, "https://www.newus.in/brochures/ui-ux-design.pdf", got.BrochureURL)
}

func TestCoursesCommand(t *testing.T) {
	out, _, err := runApp(t, "courses", "--type", "Design")
	require.NoError(t, err)

	assert.Contains(t, out, "UI/UX Design")
	assert.Contains(t, out, "/courses/uiux-design-4")
	assert.NotContains(t, out, "Python Programming")
}

func TestCoursesShowCommand_StaleSlug(t *testing.T) {
	out, errOut, err := runApp(t, "courses", "show", "old-name-4")
	require.NoError(t, err)

	assert.Contains(t, errOut, "canonical url: /courses/uiux-design-4")

	var shown struct {
		Name        string `json:"name"`
		URL         string `json:"url"`
		Recommended []struct {
			Name string `json:"name"`
		} `json:"recommended"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "UI/UX Design", shown.Name)
	assert.Len(t, shown.Recommended, 4)
}

func TestResolveCourse(t *testing.T) {
	courses, err := catalog.Default()
	require.NoError(t, err)

	course, ok := resolveCourse(courses, "2")
	require.True(t, ok)
	assert.Equal(t, 2, course.ID)

	course, ok = resolveCourse(courses, "python-programming-5")
	require.True(t, ok)
	assert.Equal(t, 5, course.ID)

	_, ok = resolveCourse(courses, "Cooking")
	assert.False(t, ok)
}

func TestUserError(t *testing.T) {
	assert.NoError(t, userError(nil))

	plain := errors.New("plain")
	assert.Same(t, plain, userError(plain))

	err := userError(&client.HttpError{StatusCode: http.StatusTooManyRequests, Message: "HTTP 429: Too Many Requests"})
	assert.Equal(t, "Too many requests. Please try again later.", err.Error())
}

func TestClientConfig_FlagsOverrideConfig(t *testing.T) {
	defaults, err := conf.Parse[config.Config](conf.ParseOptions{Defaults: config.DefaultConfig})
	require.NoError(t, err)

	var got client.Config
	app := &cli.App{
		Flags: clientFlags,
		Action: func(ctx *cli.Context) error {
			ctx.Context = logging.ContextWithLogger(ctx.Context, zaptest.NewLogger(t))
			got, err = clientConfig(ctx)
			return err
		},
	}

	require.NoError(t, app.Run([]string{"test", "--timeout", "250ms", "--max-retries", "0"}))

	assert.Equal(t, 250*time.Millisecond, got.Timeout)
	assert.Equal(t, 0, got.MaxRetries)
	assert.Equal(t, defaults.Client.BaseURL, got.BaseURL)
	assert.Equal(t, defaults.Client.BaseDelay, got.BaseDelay)
}

func TestLambdaConfig(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want lambda.ProxySource
	}{
		{"default", nil, lambda.ProxySourceApiGatewayV2},
		{"flag", []string{"--lambda-proxy-source", "ALB"}, lambda.ProxySourceAlb},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got lambda.Config
			app := &cli.App{
				Flags: lambdaCmd.Flags,
				Action: func(ctx *cli.Context) error {
					var err error
					got, err = lambdaConfig(ctx, zaptest.NewLogger(t))
					return err
				},
			}

			require.NoError(t, app.Run(append([]string{"test"}, tt.args...)))
			assert.Equal(t, tt.want, got.ProxySource)
		})
	}
}

func TestRun_FlushesSentryBeforeExit(t *testing.T) {
	var calls []string
	origExit, origFlush := osExit, flushSentry
	osExit = func(code int) { calls = append(calls, fmt.Sprintf("exit %d", code)) }
	flushSentry = func() { calls = append(calls, "flush") }

	var stdout, stderr bytes.Buffer
	rootApp.Writer = &stdout
	rootApp.ErrWriter = &stderr
	t.Cleanup(func() {
		osExit, flushSentry = origExit, origFlush
		rootApp.Writer = nil
		rootApp.ErrWriter = nil
	})

	run(context.Background(), []string{appName, "--log-level", "error", "courses", "show", "no-such-course"})
	assert.Equal(t, []string{"flush", "exit 1"}, calls)

	calls = nil
	run(context.Background(), []string{appName, "--log-level", "error", "courses"})
	assert.Empty(t, calls)
}
