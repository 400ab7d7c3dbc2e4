package persistence

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"review-enhancer/domain/model"
	"review-enhancer/infrastructure/utils"
)

func samplePayload() *model.ReviewPayload {
	return &model.ReviewPayload{
		Reviews: []model.Review{{ArticleNo: 1, Rating: 5, CreatedDate: "2025-05-01T10:00:00+09:00"}},
		Stats: model.ReviewStats{
			Average:      5,
			Total:        1,
			Distribution: model.RatingCounts{5: 1, 4: 0, 3: 0, 2: 0, 1: 0},
			Percentage:   model.RatingCounts{5: 100, 4: 0, 3: 0, 2: 0, 1: 0},
		},
		Total: 1,
	}
}

func TestReviewCacheRepository_GetFreshAndExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &utils.FixedClock{T: now}
	repository := NewReviewCacheRepository(db, 300*time.Second, clock)
	raw, err := json.Marshal(samplePayload())
	require.NoError(t, err)

	query := regexp.QuoteMeta(`SELECT data, cached_at FROM review_cache WHERE cache_key=$1`)
	mock.ExpectQuery(query).WithArgs("10_latest_false").
		WillReturnRows(sqlmock.NewRows([]string{"data", "cached_at"}).AddRow(raw, now.Add(-299*time.Second)))
	mock.ExpectQuery(query).WithArgs("10_latest_false").
		WillReturnRows(sqlmock.NewRows([]string{"data", "cached_at"}).AddRow(raw, now.Add(-300*time.Second)))

	got, err := repository.Get(context.Background(), "10_latest_false")
	require.NoError(t, err)
	require.Equal(t, samplePayload(), got)

	got, err = repository.Get(context.Background(), "10_latest_false")
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewCacheRepository_Set(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repository := NewReviewCacheRepository(db, time.Minute, &utils.FixedClock{T: now})
	raw, err := json.Marshal(samplePayload())
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO review_cache(cache_key, data, cached_at) VALUES ($1,$2,$3)`)).
		WithArgs("10_latest_false", raw, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repository.Set(context.Background(), "10_latest_false", samplePayload()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewCacheRepositoryMSSQL_Miss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewReviewCacheRepositoryMSSQL(db, time.Minute, utils.SystemClock{})
	mock.ExpectQuery(regexp.QuoteMeta(`FROM dbo.review_cache WHERE cache_key=@p1`)).
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"data", "cached_at"}))

	got, err := repository.Get(context.Background(), "k")
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepository_RoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewSettingsRepository(db)
	s := model.NewDefaultSettings("demo")
	s.ReviewBoardNo = 4
	raw, err := json.Marshal(s)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO mall_settings(mall_id, data, updated_at)`)).
		WithArgs("demo", raw).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM mall_settings WHERE mall_id=$1`)).
		WithArgs("demo").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(raw))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM mall_settings WHERE mall_id=$1`)).
		WithArgs("demo").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repository.SaveSettings(context.Background(), s))
	got, err := repository.GetSettings(context.Background(), "demo")
	require.NoError(t, err)
	require.Equal(t, s, got)
	require.NoError(t, repository.DeleteSettings(context.Background(), "demo"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositoryMemory(t *testing.T) {
	ctx := context.Background()
	repository := NewSettingsRepositoryMemory()

	got, err := repository.GetSettings(ctx, "demo")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, repository.SaveSettings(ctx, model.NewDefaultSettings("demo")))
	got, err = repository.GetSettings(ctx, "demo")
	require.NoError(t, err)
	require.Equal(t, model.DefaultMainColor, got.MainColor)

	require.NoError(t, repository.DeleteSettings(ctx, "demo"))
	got, err = repository.GetSettings(ctx, "demo")
	require.NoError(t, err)
	require.Nil(t, got)
}
