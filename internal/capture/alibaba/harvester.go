package alibaba

import (
	"context"
	"fmt"
	"log"

	"go-campus-harvester/internal/browser"
	"go-campus-harvester/internal/capture"
	"go-campus-harvester/internal/jsonutil"
	"go-campus-harvester/internal/models"
)

const DefaultURL = "https://talent.alibaba.com/campus/position-list?campusType=freshman&lang=zh"

const (
	searchEndpoint = "talent.alibaba.com/position/search"
	searchMethod   = "POST"
	nextSelector   = "button.next-next"
)

type AlibabaHarvester struct {
	url  string
	opts capture.Options
}

func NewAlibabaHarvester(url string, opts capture.Options) *AlibabaHarvester {
	if url == "" {
		url = DefaultURL
	}
	return &AlibabaHarvester{url: url, opts: opts.WithDefaults()}
}

func (h *AlibabaHarvester) Name() string {
	return models.SourceAlibabaStar
}

// Harvest clicks through the result pages. The n-th accepted search response
// is taken to be page n; when it does not arrive after a click, paging stops
// and what was collected is returned.
func (h *AlibabaHarvester) Harvest(ctx context.Context, opener browser.Opener) capture.Result {
	res := capture.Result{Source: h.Name(), Entries: []any{}}
	log.Println("📋 Harvesting Alibaba campus positions...")

	page, err := opener.NewPage()
	if err != nil {
		res.Fail(fmt.Errorf("open page: %w", err))
		return res
	}
	defer page.Close()

	tap := capture.Open(page, h.Name(), capture.Matcher{
		URLContains: searchEndpoint,
		Method:      searchMethod,
		Keep:        pageDatas,
	})
	defer tap.Close()

	if err := capture.Navigate(ctx, page, h.url, h.opts.NavigationTimeout); err != nil {
		log.Printf("  ❌ Alibaba navigation failed: %v", err)
		h.opts.Screenshots.CaptureAndLog(page, h.Name()+"-navigate", "🚨 Alibaba: navigation failed")
		res.Fail(err)
		return res
	}

	//first page comes with the landing page
	if tap.Await(ctx, 1, h.opts.SettleDelay) {
		h.appendPage(&res, tap.Received()[0])
	} else {
		log.Println("  ⚠️ Alibaba: first page response missing")
	}

	next := page.Control(nextSelector)
	for pageNum := 2; ; pageNum++ {
		if err := ctx.Err(); err != nil {
			res.Fail(err)
			return res
		}

		enabled, err := capture.NextEnabled(next)
		if err != nil {
			log.Printf("  ✗ Alibaba page %d: %v", pageNum, err)
			res.Stop("page %d: %v", pageNum, err)
			return res
		}
		if !enabled {
			break
		}
		if h.opts.PageLimitReached(pageNum) {
			log.Printf("  ⚠️ Alibaba: page limit %d reached", h.opts.MaxPages)
			res.Stop("page limit %d reached", h.opts.MaxPages)
			return res
		}

		if err := next.Click(); err != nil {
			log.Printf("  ✗ Alibaba page %d: click failed: %v", pageNum, err)
			res.Stop("page %d: click failed: %v", pageNum, err)
			return res
		}

		if !tap.Await(ctx, pageNum, h.opts.SettleDelay) {
			if err := ctx.Err(); err != nil {
				res.Fail(err)
				return res
			}
			log.Printf("  ⚠️ Alibaba page %d: no response, stopping", pageNum)
			res.Stop("no response for page %d", pageNum)
			return res
		}
		h.appendPage(&res, tap.Received()[pageNum-1])
	}

	res.Complete()
	log.Printf("  ✅ Alibaba: %d positions over %d pages", len(res.Entries), res.Pages)
	return res
}

func (h *AlibabaHarvester) appendPage(res *capture.Result, c capture.Capture) {
	datas, _ := c.Body.([]any)
	res.Entries = append(res.Entries, datas...)
	res.Pages++
	log.Printf("  ✓ Alibaba page %d: %d positions", res.Pages, len(datas))
}

// pageDatas accepts only successful search responses and returns the page's
// content.datas list, empty when absent.
func pageDatas(body any) (any, error) {
	obj, ok := jsonutil.Map(body)
	if !ok || !jsonutil.Truthy(obj["success"]) {
		return nil, capture.ErrSkip
	}
	if _, ok := obj["content"]; !ok {
		return nil, capture.ErrSkip
	}
	datas, ok := jsonutil.List(obj, "content", "datas")
	if !ok {
		return []any{}, nil
	}
	return datas, nil
}
