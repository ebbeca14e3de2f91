package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_pos/internal/apperr"
)

func TestFeedbackRatingRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.newOrder(t)

	_, err := f.feedback.Create(ctx, FeedbackInput{OrderID: order.ID, Rating: 6})
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
	_, err = f.feedback.Create(ctx, FeedbackInput{OrderID: order.ID, Rating: 0})
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
	_, err = f.feedback.Create(ctx, FeedbackInput{OrderID: 999, Rating: 3})
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	fb, err := f.feedback.Create(ctx, FeedbackInput{OrderID: order.ID, Rating: 5, Comment: ptr("great")})
	require.NoError(t, err)

	_, err = f.feedback.Update(ctx, fb.ID, FeedbackUpdate{Rating: ptr(9)})
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))
	updated, err := f.feedback.Update(ctx, fb.ID, FeedbackUpdate{Rating: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
}

func TestFeedbackStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.newOrder(t)

	empty, err := f.feedback.Statistics(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalFeedback)
	assert.Zero(t, empty.AverageRating)

	for _, r := range []int{5, 4, 4, 1} {
		_, err := f.feedback.Create(ctx, FeedbackInput{OrderID: order.ID, Rating: r})
		require.NoError(t, err)
	}

	stats, err := f.feedback.Statistics(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalFeedback)
	assert.InDelta(t, 3.5, stats.AverageRating, 0.0001)
	assert.EqualValues(t, 2, stats.RatingCounts[4])
	assert.EqualValues(t, 0, stats.RatingCounts[3])

	raw, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":4,"average":3.5,"ratings":{"1":1,"2":0,"3":0,"4":2,"5":1}}`, string(raw))

	byOrder, err := f.feedback.ListByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, byOrder, 4)
	list, err := f.feedback.List(ctx, pageAll)
	require.NoError(t, err)
	assert.Len(t, list, 4)
}
