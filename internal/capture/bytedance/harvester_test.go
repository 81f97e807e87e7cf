package bytedance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-campus-harvester/internal/capture"
	"go-campus-harvester/internal/capture/capturetest"
)

const (
	landing = "https://jobs.example/campus/position"
	api     = "https://jobs.example/api/v1/search/job/posts?portal_type=2"
)

var fast = capture.Options{SettleDelay: 20 * time.Millisecond}

func searchResponse(ids ...string) capturetest.Response {
	posts := make([]any, 0, len(ids))
	for _, id := range ids {
		posts = append(posts, map[string]any{"id": id, "title": "Engineer " + id})
	}
	return capturetest.JSON("POST", api, map[string]any{
		"code": 0,
		"data": map[string]any{"count": len(ids), "job_post_list": posts},
	})
}

func TestHarvest(t *testing.T) {
	tests := []struct {
		name       string
		responses  []capturetest.Response
		wantIDs    []string
		wantStatus capture.Status
		wantPages  int
	}{
		{
			name:       "single bulk response",
			responses:  []capturetest.Response{searchResponse("1", "2", "3")},
			wantIDs:    []string{"1", "2", "3"},
			wantStatus: capture.Completed,
			wantPages:  1,
		},
		{
			name: "last matching response wins",
			responses: []capturetest.Response{
				searchResponse("1"),
				capturetest.Raw("GET", api, `{"data": {"job_post_list": [{"id": "ignored"}]}}`),
				searchResponse("7", "8"),
			},
			wantIDs:    []string{"7", "8"},
			wantStatus: capture.Completed,
			wantPages:  1,
		},
		{
			name: "response without the list is skipped",
			responses: []capturetest.Response{
				searchResponse("1"),
				capturetest.Raw("POST", api, `{"code": 500, "message": "busy"}`),
			},
			wantIDs:    []string{"1"},
			wantStatus: capture.Completed,
			wantPages:  1,
		},
		{
			name:       "nothing captured",
			responses:  nil,
			wantIDs:    []string{},
			wantStatus: capture.StoppedEarly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := capturetest.NewPage()
			for _, r := range tt.responses {
				page.Route(landing, r)
			}

			h := NewByteDanceHarvester(landing, fast)
			res := h.Harvest(context.Background(), &capturetest.Opener{Page: page})

			assert.Equal(t, "bytedance", res.Source)
			assert.Equal(t, tt.wantStatus, res.Outcome.Status)
			assert.Equal(t, tt.wantPages, res.Pages)

			ids := []string{}
			for _, e := range res.Entries {
				ids = append(ids, e.(map[string]any)["id"].(string))
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.True(t, page.Closed())
			assert.Equal(t, 0, page.Listeners())
		})
	}
}

func TestHarvest_NavigationTimeoutIsFatal(t *testing.T) {
	page := capturetest.NewPage()
	page.Route(landing, searchResponse("1"))
	page.GotoErr[landing] = capturetest.ErrTimeout

	res := NewByteDanceHarvester(landing, fast).Harvest(context.Background(), &capturetest.Opener{Page: page})

	require.True(t, res.Failed())
	assert.ErrorIs(t, res.Err(), capturetest.ErrTimeout)
	assert.Empty(t, res.Entries, "single-shot fetch salvages nothing")
	assert.True(t, page.Closed())
}

func TestHarvest_OpenPageError(t *testing.T) {
	opener := &capturetest.Opener{Err: errors.New("browser gone")}
	res := NewByteDanceHarvester("", fast).Harvest(context.Background(), opener)

	require.True(t, res.Failed())
	assert.Contains(t, res.Err().Error(), "browser gone")
}

func TestNewByteDanceHarvester_Defaults(t *testing.T) {
	h := NewByteDanceHarvester("", capture.Options{})
	assert.Equal(t, DefaultURL, h.url)
	assert.Equal(t, capture.DefaultNavigationTimeout, h.opts.NavigationTimeout)
	assert.Equal(t, "bytedance", h.Name())
}
