package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"review-enhancer/domain/apperror"
	"review-enhancer/domain/dto"
	"review-enhancer/domain/model"
	"review-enhancer/domain/repository"
	"review-enhancer/infrastructure/logger"
	"review-enhancer/infrastructure/utils"
)

const (
	// fetchLimit is the page size used when aggregating one product.
	fetchLimit = 100
	// DefaultPerPage is used when neither the caller nor configuration sets a limit.
	DefaultPerPage = 20

	reviewBoardType = "review"
)

type IReviewUsecase interface {
	GetProductReviews(ctx context.Context, productNo int, q dto.ReviewQuery) (*model.ReviewPage, error)
	GetAllReviews(ctx context.Context, q dto.ReviewQuery) (*model.ReviewPage, error)
	GetReview(ctx context.Context, articleNo int) (json.RawMessage, error)
	CreateReview(ctx context.Context, body json.RawMessage) (json.RawMessage, error)
	UpdateReview(ctx context.Context, articleNo int, body json.RawMessage) (json.RawMessage, error)
	DeleteReview(ctx context.Context, articleNo int) (json.RawMessage, error)
	ReviewBoardNo(ctx context.Context) (int, error)
}

// ReviewUsecase aggregates product reviews from the mall's review board.
type ReviewUsecase struct {
	mallID   string
	client   repository.ICafe24
	cache    repository.IReviewCache
	settings repository.ISettings
	events   repository.IEventPublisher
	clock    utils.Clock
	perPage  int

	boardMu sync.Mutex
	boardNo int
}

func NewReviewUsecase(
	mallID string,
	client repository.ICafe24,
	cache repository.IReviewCache,
	settings repository.ISettings,
	events repository.IEventPublisher,
	clock utils.Clock,
	perPage int,
) *ReviewUsecase {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &ReviewUsecase{
		mallID:   mallID,
		client:   client,
		cache:    cache,
		settings: settings,
		events:   events,
		clock:    clock,
		perPage:  perPage,
	}
}

func (u *ReviewUsecase) normalize(q dto.ReviewQuery) dto.ReviewQuery {
	q.SortBy = NormalizeSort(q.SortBy)
	if q.Limit <= 0 {
		q.Limit = u.perPage
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// GetProductReviews returns one page of a product's reviews with statistics.
// The full sorted listing is cached per product, sort mode and photo filter.
func (u *ReviewUsecase) GetProductReviews(ctx context.Context, productNo int, q dto.ReviewQuery) (*model.ReviewPage, error) {
	q = u.normalize(q)
	key := reviewCacheKey(productNo, q.SortBy, q.PhotoOnly)

	cached, err := u.cache.Get(ctx, key)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		}).Warn("Review cache read failed, fetching from cafe24")
	}
	if cached != nil {
		logger.GetLogger().WithField("key", key).Debug("Using cached reviews")
		return paginate(cached, q.Limit, q.Offset), nil
	}

	boardNo, err := u.ReviewBoardNo(ctx)
	if err != nil {
		return nil, err
	}

	reviews, err := u.client.ListArticles(ctx, boardNo, dto.ArticleListParams{ProductNo: productNo, Limit: fetchLimit})
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	if q.PhotoOnly {
		reviews = filterPhotoReviews(reviews)
	}
	sortReviews(reviews, q.SortBy)

	payload := &model.ReviewPayload{
		Reviews: reviews,
		Stats:   computeStats(reviews),
		Total:   len(reviews),
	}
	if err := u.cache.Set(ctx, key, payload); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		}).Warn("Review cache write failed")
	}
	return paginate(payload, q.Limit, q.Offset), nil
}

// GetAllReviews lists the review board page by page, uncached and without statistics.
func (u *ReviewUsecase) GetAllReviews(ctx context.Context, q dto.ReviewQuery) (*model.ReviewPage, error) {
	q = u.normalize(q)
	boardNo, err := u.ReviewBoardNo(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := u.client.ListArticles(ctx, boardNo, dto.ArticleListParams{Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	sortReviews(reviews, q.SortBy)
	return &model.ReviewPage{
		Reviews: reviews,
		Total:   len(reviews),
		Page: model.Page{
			Limit:  q.Limit,
			Offset: q.Offset,
			// a full page means the board may have more
			HasMore: len(reviews) >= q.Limit,
		},
	}, nil
}

func (u *ReviewUsecase) GetReview(ctx context.Context, articleNo int) (json.RawMessage, error) {
	boardNo, err := u.ReviewBoardNo(ctx)
	if err != nil {
		return nil, err
	}
	return u.client.GetArticle(ctx, boardNo, articleNo)
}

func (u *ReviewUsecase) CreateReview(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	boardNo, err := u.ReviewBoardNo(ctx)
	if err != nil {
		return nil, err
	}
	res, err := u.client.CreateArticle(ctx, boardNo, body)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, model.EventReviewCreated, map[string]interface{}{"board_no": boardNo})
	return res, nil
}

func (u *ReviewUsecase) UpdateReview(ctx context.Context, articleNo int, body json.RawMessage) (json.RawMessage, error) {
	boardNo, err := u.ReviewBoardNo(ctx)
	if err != nil {
		return nil, err
	}
	res, err := u.client.UpdateArticle(ctx, boardNo, articleNo, body)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, model.EventReviewUpdated, map[string]interface{}{"board_no": boardNo, "article_no": articleNo})
	return res, nil
}

func (u *ReviewUsecase) DeleteReview(ctx context.Context, articleNo int) (json.RawMessage, error) {
	boardNo, err := u.ReviewBoardNo(ctx)
	if err != nil {
		return nil, err
	}
	res, err := u.client.DeleteArticle(ctx, boardNo, articleNo)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, model.EventReviewDeleted, map[string]interface{}{"board_no": boardNo, "article_no": articleNo})
	return res, nil
}

// ReviewBoardNo resolves the review board once per process: stored settings
// first, then the first board of type "review". A discovered number is persisted.
func (u *ReviewUsecase) ReviewBoardNo(ctx context.Context) (int, error) {
	u.boardMu.Lock()
	defer u.boardMu.Unlock()
	if u.boardNo > 0 {
		return u.boardNo, nil
	}

	settings, err := u.settings.GetSettings(ctx, u.mallID)
	if err != nil {
		return 0, fmt.Errorf("load settings: %w", err)
	}
	if settings != nil && settings.ReviewBoardNo > 0 {
		u.boardNo = settings.ReviewBoardNo
		return u.boardNo, nil
	}

	boards, err := u.client.ListBoards(ctx)
	if err != nil {
		return 0, err
	}
	for _, b := range boards {
		if b.BoardType == reviewBoardType {
			u.boardNo = b.BoardNo
			break
		}
	}
	if u.boardNo == 0 {
		return 0, apperror.ErrReviewBoardNotFound
	}

	if settings == nil {
		settings = model.NewDefaultSettings(u.mallID)
	}
	settings.ReviewBoardNo = u.boardNo
	if err := u.settings.SaveSettings(ctx, settings); err != nil {
		logger.GetLogger().WithField("error", err.Error()).Warn("Failed to persist review board number")
	}
	logger.GetLogger().WithField("board_no", u.boardNo).Info("Review board found")
	return u.boardNo, nil
}

func (u *ReviewUsecase) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if u.events == nil {
		return
	}
	event := model.NewEvent(eventType, u.mallID, u.clock.Now(), data)
	if err := u.events.Publish(ctx, event); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		}).Warn("Failed to publish event")
	}
}
