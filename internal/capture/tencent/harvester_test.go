package tencent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-campus-harvester/internal/browser"
	"go-campus-harvester/internal/capture"
	"go-campus-harvester/internal/capture/capturetest"
)

const (
	landing   = "https://join.example/post.html"
	listAPI   = "https://join.qq.com/api/v1/position/searchPosition?timestamp=1"
	detailAPI = "https://join.qq.com/api/v1/jobDetails/getJobDetailsByPostId?postId="
)

var fast = capture.Options{SettleDelay: 20 * time.Millisecond}

func listing(postIDs ...any) browser.Response {
	positions := make([]any, 0, len(postIDs))
	for _, id := range postIDs {
		positions = append(positions, map[string]any{"postId": id, "title": "Post"})
	}
	return capturetest.JSON("POST", listAPI, map[string]any{
		"status": 0,
		"data":   map[string]any{"count": 10, "positionList": positions},
	})
}

func detail(postID string) browser.Response {
	return capturetest.JSON("GET", detailAPI+postID, map[string]any{
		"status": 0,
		"data":   map[string]any{"postId": postID, "title": "Detail " + postID},
	})
}

func detailURL(id string) string {
	return "https://join.qq.com/post_detail.html?postid=" + id
}

func batch(rs ...browser.Response) []browser.Response { return rs }

func detailIDs(entries []any) []string {
	out := []string{}
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			out = append(out, "<nil>")
			continue
		}
		out = append(out, m["postId"].(string))
	}
	return out
}

func TestHarvest_TwoPhases(t *testing.T) {
	page := capturetest.NewPage().Route(landing, listing("a1", "a2"))
	page.Next(nextSelector,
		batch(listing("b1", map[string]any{"bad": true})),
		batch(), // a page whose response is lost does not stop paging
		batch(listing("c1")),
	)
	page.Route(detailURL("a1"), detail("a1"))
	page.Route(detailURL("a2"), capturetest.Raw("GET", detailAPI+"a2", `{"status": 500}`))
	page.Route(detailURL("b1"), detail("b1"))
	page.Route(detailURL("c1"), capturetest.Raw("GET", detailAPI+"c1", `{"data": null}`))

	res := NewTencentHarvester(landing, fast).Harvest(context.Background(), &capturetest.Opener{Page: page})

	assert.Equal(t, capture.Completed, res.Outcome.Status)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, []string{"a1", "b1", "<nil>"}, detailIDs(res.Entries), "unparsable detail dropped without placeholder")
	assert.Equal(t, []string{
		landing,
		detailURL("a1"),
		detailURL("a2"),
		detailURL("b1"),
		detailURL("c1"),
	}, page.Visited())
	assert.True(t, page.Closed())
	assert.Equal(t, 0, page.Listeners())
}

func TestHarvest_ListingResponsesIgnoredDuringDetails(t *testing.T) {
	page := capturetest.NewPage().Route(landing, listing("a1"))
	page.Route(detailURL("a1"), listing("zz"), detail("a1"))

	res := NewTencentHarvester(landing, fast).Harvest(context.Background(), &capturetest.Opener{Page: page})

	assert.Equal(t, []string{"a1"}, detailIDs(res.Entries))
	assert.Len(t, page.Visited(), 2)
}

func TestHarvest_DetailNavigationFailureSalvages(t *testing.T) {
	page := capturetest.NewPage().Route(landing, listing("a1", "a2", "a3"))
	page.Route(detailURL("a1"), detail("a1"))
	page.GotoErr[detailURL("a2")] = capturetest.ErrTimeout
	page.Route(detailURL("a3"), detail("a3"))

	res := NewTencentHarvester(landing, fast).Harvest(context.Background(), &capturetest.Opener{Page: page})

	require.True(t, res.Failed())
	assert.ErrorIs(t, res.Err(), capturetest.ErrTimeout)
	assert.Equal(t, []string{"a1"}, detailIDs(res.Entries))
	assert.NotContains(t, page.Visited(), detailURL("a3"))
}

func TestHarvest_ListingClickErrorStillVisitsDetails(t *testing.T) {
	page := capturetest.NewPage().Route(landing, listing("a1"))
	c := page.Next(nextSelector, batch(listing("b1")), batch(listing("c1")))
	c.ClickErr = errors.New("element is not attached")
	c.ClickErrAt = 2
	page.Route(detailURL("a1"), detail("a1"))
	page.Route(detailURL("b1"), detail("b1"))

	res := NewTencentHarvester(landing, fast).Harvest(context.Background(), &capturetest.Opener{Page: page})

	assert.Equal(t, capture.StoppedEarly, res.Outcome.Status)
	assert.Contains(t, res.Outcome.Reason, "click failed")
	assert.Equal(t, []string{"a1", "b1"}, detailIDs(res.Entries))
}

func TestHarvest_ListingNavigationFailure(t *testing.T) {
	page := capturetest.NewPage()
	page.GotoErr[landing] = capturetest.ErrTimeout

	res := NewTencentHarvester(landing, fast).Harvest(context.Background(), &capturetest.Opener{Page: page})

	require.True(t, res.Failed())
	assert.Empty(t, res.Entries)
	assert.Equal(t, []string{landing}, page.Visited())
}

func TestDetailURLs(t *testing.T) {
	body := map[string]any{"data": map[string]any{"positionList": []any{
		map[string]any{"postId": "1001"},
		map[string]any{"postId": ""},
		map[string]any{"title": "no id"},
		"not an object",
	}}}

	got, err := detailURLs(body)
	require.NoError(t, err)
	assert.Equal(t, []string{detailURL("1001")}, got)

	_, err = detailURLs(map[string]any{"data": nil})
	assert.Error(t, err)
}

func TestDetailData(t *testing.T) {
	got, err := detailData(map[string]any{"data": nil})
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = detailData(map[string]any{"status": 1})
	assert.Error(t, err)

	_, err = detailData([]any{})
	assert.Error(t, err)
}
