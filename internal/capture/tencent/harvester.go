package tencent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"go-campus-harvester/internal/browser"
	"go-campus-harvester/internal/capture"
	"go-campus-harvester/internal/jsonutil"
	"go-campus-harvester/internal/models"
)

const DefaultURL = "https://join.qq.com/post.html?query=p_14,p_20"

const (
	listEndpoint   = "join.qq.com/api/v1/position/searchPosition"
	listMethod     = "POST"
	detailEndpoint = "join.qq.com/api/v1/jobDetails/getJobDetailsByPostId"
	detailMethod   = "GET"
	nextSelector   = ".btn-next"
)

type TencentHarvester struct {
	url  string
	opts capture.Options
}

func NewTencentHarvester(url string, opts capture.Options) *TencentHarvester {
	if url == "" {
		url = DefaultURL
	}
	return &TencentHarvester{url: url, opts: opts.WithDefaults()}
}

func (h *TencentHarvester) Name() string {
	return models.SourceTencent
}

// Harvest pages through the listing to collect detail URLs, then visits each
// detail page on the same tab and keeps the detail payloads in visit order.
// Details that fail to parse are dropped, so there may be fewer entries than URLs.
func (h *TencentHarvester) Harvest(ctx context.Context, opener browser.Opener) capture.Result {
	res := capture.Result{Source: h.Name(), Entries: []any{}}
	log.Println("📋 Harvesting Tencent campus posts...")

	page, err := opener.NewPage()
	if err != nil {
		res.Fail(fmt.Errorf("open page: %w", err))
		return res
	}
	defer page.Close()

	urls, pages, stopped, err := h.collectURLs(ctx, page)
	res.Pages = pages
	if err != nil {
		res.Fail(err)
		return res
	}
	log.Printf("  🔗 Tencent: %d detail URLs from %d listing pages", len(urls), pages)

	details, err := h.collectDetails(ctx, page, urls)
	res.Entries = details
	switch {
	case err != nil:
		res.Fail(err)
	case stopped != "":
		res.Stop("%s", stopped)
	default:
		res.Complete()
	}
	log.Printf("  ✅ Tencent: %d of %d details", len(details), len(urls))
	return res
}

// collectURLs runs the listing phase. A non-empty stopped reason means the
// listing ended before the last page but the URLs gathered are still usable.
func (h *TencentHarvester) collectURLs(ctx context.Context, page browser.Page) (urls []string, pages int, stopped string, err error) {
	tap := capture.Open(page, h.Name(), capture.Matcher{
		URLContains: listEndpoint,
		Method:      listMethod,
		Keep:        detailURLs,
	})
	defer func() {
		caps := tap.Close()
		pages = len(caps)
		urls = []string{}
		for _, c := range caps {
			urls = append(urls, c.Body.([]string)...)
		}
	}()

	if err := capture.Navigate(ctx, page, h.url, h.opts.NavigationTimeout); err != nil {
		log.Printf("  ❌ Tencent navigation failed: %v", err)
		h.opts.Screenshots.CaptureAndLog(page, h.Name()+"-listing", "🚨 Tencent: listing navigation failed")
		return nil, 0, "", err
	}
	tap.Await(ctx, 1, h.opts.SettleDelay)

	next := page.Control(nextSelector)
	for pageNum := 2; ; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, "", err
		}

		enabled, err := capture.NextEnabled(next)
		if err != nil {
			log.Printf("  ✗ Tencent listing page %d: %v", pageNum, err)
			return nil, 0, fmt.Sprintf("listing page %d: %v", pageNum, err), nil
		}
		if !enabled {
			return nil, 0, "", nil
		}
		if h.opts.PageLimitReached(pageNum) {
			log.Printf("  ⚠️ Tencent: page limit %d reached", h.opts.MaxPages)
			return nil, 0, fmt.Sprintf("page limit %d reached", h.opts.MaxPages), nil
		}

		before := len(tap.Received())
		if err := next.Click(); err != nil {
			log.Printf("  ✗ Tencent listing page %d: click failed: %v", pageNum, err)
			return nil, 0, fmt.Sprintf("listing page %d: click failed: %v", pageNum, err), nil
		}
		if !tap.Await(ctx, before+1, h.opts.SettleDelay) {
			log.Printf("  ⚠️ Tencent listing page %d: no new response", pageNum)
		}
	}
}

// collectDetails visits every detail URL. A navigation failure ends the phase
// and returns the details captured before it.
func (h *TencentHarvester) collectDetails(ctx context.Context, page browser.Page, urls []string) ([]any, error) {
	tap := capture.Open(page, h.Name(), capture.Matcher{
		URLContains: detailEndpoint,
		Method:      detailMethod,
		Keep:        detailData,
	})

	var failure error
	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			failure = err
			break
		}

		log.Printf("    [%d/%d] %s", i+1, len(urls), u)
		before := len(tap.Received())
		if err := capture.Navigate(ctx, page, u, h.opts.NavigationTimeout); err != nil {
			log.Printf("  ❌ Tencent detail navigation failed: %v", err)
			h.opts.Screenshots.CaptureAndLog(page, h.Name()+"-detail", "🚨 Tencent: detail navigation failed")
			failure = err
			break
		}
		tap.Await(ctx, before+1, h.opts.SettleDelay)
	}

	return capture.Bodies(tap.Close()), failure
}

// detailURLs turns a listing response into detail page URLs. Positions
// without a usable postId are skipped.
func detailURLs(body any) (any, error) {
	positions, ok := jsonutil.List(body, "data", "positionList")
	if !ok {
		return nil, fmt.Errorf("data.positionList missing or not a list")
	}

	urls := make([]string, 0, len(positions))
	for _, p := range positions {
		obj, _ := jsonutil.Map(p)
		id := postID(obj["postId"])
		if id == "" {
			log.Printf("    ⚠️ [tencent] position without postId skipped")
			continue
		}
		urls = append(urls, models.TencentDetailURL(id))
	}
	return urls, nil
}

func postID(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case json.Number:
		return id.String()
	default:
		return ""
	}
}

// detailData keeps the top-level data value of a detail response, null included.
func detailData(body any) (any, error) {
	obj, ok := jsonutil.Map(body)
	if !ok {
		return nil, fmt.Errorf("detail body is %T, not an object", body)
	}
	data, ok := obj["data"]
	if !ok {
		return nil, fmt.Errorf("detail body has no data")
	}
	return data, nil
}
