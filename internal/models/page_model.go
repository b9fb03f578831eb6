package models

import "errors"

// PageConfig describes one managed account: where to scrape from and where
// selected posts get scheduled. Immutable for the duration of a run.
type PageConfig struct {
	Name            string   `json:"name"`
	AccountName     string   `json:"account_name"`
	Competitors     []string `json:"competitors"`
	CaptionPool     []string `json:"caption_pool"`
	MaxPostsToFetch int      `json:"max_posts_to_fetch"`
	TopPostsCount   int      `json:"top_posts_count"`
	MaxTotalPosts   int      `json:"max_total_posts"`
	SchedulingAccID int64    `json:"scheduling_account_id"`
}

func (p *PageConfig) Validate() error {
	if p.Name == "" {
		return errors.New("page name is empty")
	}
	if len(p.Competitors) == 0 {
		return errors.New("no competitors configured")
	}
	if len(p.CaptionPool) == 0 {
		return errors.New("caption pool is empty")
	}
	if p.MaxPostsToFetch <= 0 {
		return errors.New("max_posts_to_fetch must be positive")
	}
	if p.TopPostsCount <= 0 {
		return errors.New("top_posts_count must be positive")
	}
	if p.TopPostsCount > p.MaxPostsToFetch {
		return errors.New("top_posts_count cannot exceed max_posts_to_fetch")
	}
	if p.SchedulingAccID <= 0 {
		return errors.New("scheduling_account_id must be positive")
	}
	return nil
}

// TotalCap returns the per-run scheduling limit. Zero means uncapped.
func (p *PageConfig) TotalCap() int {
	if p.MaxTotalPosts <= 0 {
		return int(^uint(0) >> 1)
	}
	return p.MaxTotalPosts
}
