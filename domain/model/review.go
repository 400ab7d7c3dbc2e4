package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// Review is a Cafe24 board article on the review board.
type Review struct {
	ArticleNo   int           `json:"article_no"`
	BoardNo     int           `json:"board_no,omitempty"`
	ProductNo   int           `json:"product_no,omitempty"`
	Title       string        `json:"title,omitempty"`
	Content     string        `json:"content,omitempty"`
	Writer      string        `json:"writer,omitempty"`
	MemberID    string        `json:"member_id,omitempty"`
	Rating      int           `json:"rating"`
	CreatedDate string        `json:"created_date"`
	Hit         int           `json:"hit"`
	ReplyCount  int           `json:"reply_count"`
	Images      []ReviewImage `json:"images,omitempty"`
}

// HasImages reports whether the review carries at least one attachment.
func (r Review) HasImages() bool { return len(r.Images) > 0 }

// CreatedTime parses CreatedDate; unparseable dates sort as the zero time.
func (r Review) CreatedTime() time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, r.CreatedDate); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ReviewImage accepts either a bare URL string or an object with a url field.
type ReviewImage struct {
	URL string `json:"url"`
}

func (i *ReviewImage) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		i.URL = s
		return nil
	}
	var obj struct {
		URL    string `json:"url"`
		Src    string `json:"src"`
		Medium string `json:"medium"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	switch {
	case obj.URL != "":
		i.URL = obj.URL
	case obj.Src != "":
		i.URL = obj.Src
	default:
		i.URL = obj.Medium
	}
	return nil
}

// RatingCounts maps rating values 1..5 to a number. Keys serialize as "1".."5".
type RatingCounts map[int]float64

func (rc RatingCounts) MarshalJSON() ([]byte, error) {
	out := make(map[string]float64, 5)
	for i := 1; i <= 5; i++ {
		out[strconv.Itoa(i)] = rc[i]
	}
	return json.Marshal(out)
}

func (rc *RatingCounts) UnmarshalJSON(data []byte) error {
	var in map[string]float64
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*rc = make(RatingCounts, 5)
	for k, v := range in {
		n, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		(*rc)[n] = v
	}
	return nil
}

type ReviewStats struct {
	Average          float64      `json:"average"`
	Total            int          `json:"total"`
	Distribution     RatingCounts `json:"distribution"`
	Percentage       RatingCounts `json:"percentage"`
	PhotoReviewCount int          `json:"photoReviewCount"`
}

// ReviewPayload is the aggregated, cacheable listing for one product.
type ReviewPayload struct {
	Reviews []Review    `json:"reviews"`
	Stats   ReviewStats `json:"stats"`
	Total   int         `json:"total"`
}

type Page struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// ReviewPage is what the storefront widget renders.
type ReviewPage struct {
	Reviews []Review     `json:"reviews"`
	Stats   *ReviewStats `json:"stats,omitempty"`
	Total   int          `json:"total"`
	Page    Page         `json:"page"`
}
