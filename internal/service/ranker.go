package service

import (
	"sort"

	"github.com/maheshrc27/beampage/internal/models"
)

// Score computes the engagement score for one post. Comments are weighted
// 3x likes, views 0.1x; the divisor only rescales the magnitude.
func Score(post *models.RawPost) float64 {
	likes := float64(post.LikesCount)
	comments := float64(post.CommentsCount)
	views := float64(post.ViewsCount)
	return (likes + comments*3 + views*0.1) / 1000
}

// Rank scores every post and orders them by descending score. Ties keep
// their original fetch order.
func Rank(posts []models.RawPost) []models.RankedPost {
	ranked := make([]models.RankedPost, 0, len(posts))
	for i := range posts {
		ranked = append(ranked, models.RankedPost{
			RawPost:         posts[i],
			EngagementScore: Score(&posts[i]),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EngagementScore > ranked[j].EngagementScore
	})

	return ranked
}

// TopPosts returns the count best posts. Asking for more than available
// returns everything, never an error.
func TopPosts(posts []models.RawPost, count int) []models.RankedPost {
	if len(posts) == 0 || count <= 0 {
		return nil
	}

	ranked := Rank(posts)
	if count > len(ranked) {
		count = len(ranked)
	}
	return ranked[:count]
}
