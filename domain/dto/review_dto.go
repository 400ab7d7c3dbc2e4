package dto

// ReviewQuery carries listing options for product and board reviews.
type ReviewQuery struct {
	SortBy    string
	Limit     int
	Offset    int
	PhotoOnly bool
}
