package usecase

import (
	"fmt"
	"math"
	"sort"

	"review-enhancer/domain/model"
)

const (
	SortLatest     = "latest"
	SortRatingHigh = "rating_high"
	SortRatingLow  = "rating_low"
	SortPopular    = "popular"
	SortHelpful    = "helpful"
)

// NormalizeSort maps unknown or empty sort modes to SortLatest.
func NormalizeSort(sortBy string) string {
	switch sortBy {
	case SortLatest, SortRatingHigh, SortRatingLow, SortPopular, SortHelpful:
		return sortBy
	}
	return SortLatest
}

func reviewCacheKey(productNo int, sortBy string, photoOnly bool) string {
	return fmt.Sprintf("%d_%s_%t", productNo, sortBy, photoOnly)
}

// sortReviews orders reviews in place. Ties fall back to newest first.
func sortReviews(reviews []model.Review, sortBy string) {
	var primary func(a, b model.Review) int
	switch NormalizeSort(sortBy) {
	case SortRatingHigh:
		primary = func(a, b model.Review) int { return b.Rating - a.Rating }
	case SortRatingLow:
		primary = func(a, b model.Review) int { return a.Rating - b.Rating }
	case SortPopular:
		primary = func(a, b model.Review) int { return b.Hit - a.Hit }
	case SortHelpful:
		primary = func(a, b model.Review) int { return b.ReplyCount - a.ReplyCount }
	default:
		primary = func(model.Review, model.Review) int { return 0 }
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		if c := primary(reviews[i], reviews[j]); c != 0 {
			return c < 0
		}
		return reviews[i].CreatedTime().After(reviews[j].CreatedTime())
	})
}

func filterPhotoReviews(reviews []model.Review) []model.Review {
	out := make([]model.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.HasImages() {
			out = append(out, r)
		}
	}
	return out
}

func newRatingCounts() model.RatingCounts {
	return model.RatingCounts{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// computeStats summarizes ratings. Ratings outside 1..5 count towards the
// average but not the distribution.
func computeStats(reviews []model.Review) model.ReviewStats {
	stats := model.ReviewStats{
		Total:        len(reviews),
		Distribution: newRatingCounts(),
		Percentage:   newRatingCounts(),
	}
	if len(reviews) == 0 {
		return stats
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		if r.Rating >= 1 && r.Rating <= 5 {
			stats.Distribution[r.Rating]++
		}
		if r.HasImages() {
			stats.PhotoReviewCount++
		}
	}
	total := float64(len(reviews))
	stats.Average = round1(float64(sum) / total)
	for i := 1; i <= 5; i++ {
		stats.Percentage[i] = round1(stats.Distribution[i] / total * 100)
	}
	return stats
}

func paginate(payload *model.ReviewPayload, limit, offset int) *model.ReviewPage {
	start := offset
	if start > len(payload.Reviews) {
		start = len(payload.Reviews)
	}
	end := start + limit
	if end > len(payload.Reviews) {
		end = len(payload.Reviews)
	}
	stats := payload.Stats
	return &model.ReviewPage{
		Reviews: payload.Reviews[start:end],
		Stats:   &stats,
		Total:   payload.Total,
		Page: model.Page{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+limit < payload.Total,
		},
	}
}
