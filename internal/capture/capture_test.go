package capture

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-campus-harvester/internal/capture/capturetest"
	"go-campus-harvester/internal/jsonutil"
)

func TestTap_FiltersByURLAndMethod(t *testing.T) {
	page := capturetest.NewPage()
	tap := Open(page, "test", Matcher{URLContains: "api/search", Method: "POST"})

	page.Emit(
		capturetest.Raw("POST", "https://x.com/api/search?page=1", `{"page": 1}`),
		capturetest.Raw("GET", "https://x.com/api/search?page=1", `{"page": "wrong method"}`),
		capturetest.Raw("POST", "https://x.com/api/other", `{"page": "wrong url"}`),
		capturetest.Raw("post", "https://x.com/api/search?page=2", `{"page": 2}`),
	)

	caps := tap.Close()
	require.Len(t, caps, 2)
	assert.Equal(t, 1, caps[0].Seq)
	assert.Equal(t, 2, caps[1].Seq)
	assert.Equal(t, "https://x.com/api/search?page=2", caps[1].URL)

	pageNo, _ := jsonutil.Get(caps[1].Body, "page")
	assert.Equal(t, json.Number("2"), pageNo)
}

func TestTap_SkipsUnparsableBodies(t *testing.T) {
	page := capturetest.NewPage()
	tap := Open(page, "test", Matcher{
		URLContains: "api",
		Method:      "GET",
		Keep: func(body any) (any, error) {
			obj, _ := jsonutil.Map(body)
			if !jsonutil.Truthy(obj["ok"]) {
				return nil, ErrSkip
			}
			return obj["v"], nil
		},
	})

	page.Emit(
		capturetest.Raw("GET", "https://x.com/api", `not json`),
		capturetest.Response{RawURL: "https://x.com/api", Verb: "GET", Err: errors.New("body gone")},
		capturetest.Raw("GET", "https://x.com/api", `{"ok": false, "v": "a"}`),
		capturetest.Raw("GET", "https://x.com/api", `{"ok": true, "v": "b"}`),
	)

	caps := tap.Close()
	require.Len(t, caps, 1)
	assert.Equal(t, "b", caps[0].Body)
	assert.Equal(t, 1, caps[0].Seq)
}

func TestTap_Await(t *testing.T) {
	page := capturetest.NewPage()
	tap := Open(page, "test", Matcher{URLContains: "api", Method: "GET"})
	defer tap.Close()

	page.Emit(capturetest.Raw("GET", "https://x.com/api", `{"n": 1}`))
	assert.True(t, tap.Await(context.Background(), 1, time.Second))
	assert.Len(t, tap.Received(), 1)

	start := time.Now()
	assert.False(t, tap.Await(context.Background(), 2, 20*time.Millisecond))
	assert.Less(t, time.Since(start), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, tap.Await(ctx, 2, time.Minute))
}

func TestTap_CloseUnregisters(t *testing.T) {
	page := capturetest.NewPage()
	tap := Open(page, "test", Matcher{URLContains: "api", Method: "GET"})
	page.Emit(capturetest.Raw("GET", "https://x.com/api", `[1]`))

	caps := tap.Close()
	assert.Len(t, caps, 1)
	assert.Equal(t, 0, page.Listeners())

	page.Emit(capturetest.Raw("GET", "https://x.com/api", `[2]`))
	assert.Len(t, tap.Close(), 1)
	assert.Equal(t, []any{[]any{json.Number("1")}}, Bodies(caps))
}

func TestOptions_WithDefaults(t *testing.T) {
	o := Options{MaxPages: -3}.WithDefaults()
	assert.Equal(t, DefaultNavigationTimeout, o.NavigationTimeout)
	assert.Equal(t, DefaultSettleDelay, o.SettleDelay)
	assert.Equal(t, 0, o.MaxPages)
	assert.False(t, o.PageLimitReached(10000))

	o = Options{NavigationTimeout: time.Second, SettleDelay: time.Millisecond, MaxPages: 3}.WithDefaults()
	assert.Equal(t, time.Second, o.NavigationTimeout)
	assert.Equal(t, time.Millisecond, o.SettleDelay)
	assert.False(t, o.PageLimitReached(3))
	assert.True(t, o.PageLimitReached(4))
}

func TestOutcome_String(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		want    string
	}{
		{"completed", Outcome{Status: Completed}, "completed"},
		{"stopped", Outcome{Status: StoppedEarly, Reason: "no response for page 3"}, "stopped early: no response for page 3"},
		{"failed", Outcome{Status: Failed, Err: errors.New("boom")}, "failed: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.outcome.String())
		})
	}
}

func TestResult_Transitions(t *testing.T) {
	var r Result
	r.Complete()
	assert.False(t, r.Failed())

	r.Stop("limit %d", 5)
	assert.Equal(t, StoppedEarly, r.Outcome.Status)
	assert.Equal(t, "limit 5", r.Outcome.Reason)

	err := errors.New("timeout")
	r.Fail(err)
	assert.True(t, r.Failed())
	assert.ErrorIs(t, r.Err(), err)
}

func TestNavigate(t *testing.T) {
	page := capturetest.NewPage()
	page.GotoErr["https://slow.example"] = capturetest.ErrTimeout

	assert.NoError(t, Navigate(context.Background(), page, "https://ok.example", time.Second))

	err := Navigate(context.Background(), page, "https://slow.example", time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, capturetest.ErrTimeout)
	assert.Contains(t, err.Error(), "https://slow.example")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Navigate(ctx, page, "https://ok.example", time.Second), context.Canceled)
	assert.Equal(t, []string{"https://ok.example", "https://slow.example"}, page.Visited())
}
