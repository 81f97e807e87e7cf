package bytedance

import (
	"context"
	"fmt"
	"log"

	"go-campus-harvester/internal/browser"
	"go-campus-harvester/internal/capture"
	"go-campus-harvester/internal/jsonutil"
	"go-campus-harvester/internal/models"
)

// DefaultURL asks the search page for up to 500 campus posts in one request.
const DefaultURL = "https://jobs.bytedance.com/campus/position?keywords=&category=6704215862603155720%2C6704215956018694411%2C6704215862557018372%2C6704215957146962184%2C6704215886108035339%2C6704215897130666254%2C6704215888985327886%2C6704216109274368264%2C6938376045242353957%2C6704215958816295181%2C6704219534724696331%2C6704215963966900491%2C6704217321877014787%2C6704216296701036811%2C6704216635923761412%2C6704219452277262596&location=&project=7503447747358361864%2C7493737120754911496%2C7481474995534301447%2C7468181472685164808&type=&job_hot_flag=&current=1&limit=500&functionCategory=&tag="

const (
	searchEndpoint = "api/v1/search/job/posts"
	searchMethod   = "POST"
)

type ByteDanceHarvester struct {
	url  string
	opts capture.Options
}

func NewByteDanceHarvester(url string, opts capture.Options) *ByteDanceHarvester {
	if url == "" {
		url = DefaultURL
	}
	return &ByteDanceHarvester{url: url, opts: opts.WithDefaults()}
}

func (h *ByteDanceHarvester) Name() string {
	return models.SourceBytedance
}

// Harvest loads the search page once; the site fetches the whole result set
// in a single call. When several matching responses arrive the last wins.
func (h *ByteDanceHarvester) Harvest(ctx context.Context, opener browser.Opener) capture.Result {
	res := capture.Result{Source: h.Name(), Entries: []any{}}
	log.Println("📋 Harvesting ByteDance campus posts...")

	page, err := opener.NewPage()
	if err != nil {
		res.Fail(fmt.Errorf("open page: %w", err))
		return res
	}
	defer page.Close()

	tap := capture.Open(page, h.Name(), capture.Matcher{
		URLContains: searchEndpoint,
		Method:      searchMethod,
		Keep:        postList,
	})

	if err := capture.Navigate(ctx, page, h.url, h.opts.NavigationTimeout); err != nil {
		tap.Close()
		log.Printf("  ❌ ByteDance navigation failed: %v", err)
		h.opts.Screenshots.CaptureAndLog(page, h.Name()+"-navigate", "🚨 ByteDance: navigation failed")
		res.Fail(err)
		return res
	}

	// networkidle usually means the response is in; give a late one a chance.
	tap.Await(ctx, 1, h.opts.SettleDelay)
	caps := tap.Close()
	if len(caps) == 0 {
		log.Println("  ⚠️ ByteDance: no job list response captured")
		res.Stop("no %s response captured", searchEndpoint)
		return res
	}

	res.Entries = caps[len(caps)-1].Body.([]any)
	res.Pages = 1
	res.Complete()
	log.Printf("  ✅ ByteDance: %d posts", len(res.Entries))
	return res
}

// postList pulls data.job_post_list out of a search response.
func postList(body any) (any, error) {
	list, ok := jsonutil.List(body, "data", "job_post_list")
	if !ok {
		return nil, fmt.Errorf("data.job_post_list missing or not a list")
	}
	return list, nil
}
