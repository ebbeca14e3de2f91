package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"restaurant_pos/internal/apperr"
	"restaurant_pos/internal/models"
	"restaurant_pos/internal/store"
)

type FeedbackInput struct {
	OrderID    uint
	CustomerID *uint
	Rating     int
	Comment    *string
}

type FeedbackUpdate struct {
	Rating  *int
	Comment *string
}

type FeedbackStats struct {
	TotalFeedback int64         `json:"total"`
	AverageRating float64       `json:"average"`
	RatingCounts  map[int]int64 `json:"ratings"`
}

type FeedbackService struct {
	db       *gorm.DB
	feedback *store.Repo[models.Feedback]
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db, feedback: store.NewRepo[models.Feedback](db, "feedback")}
}

func (s *FeedbackService) Create(ctx context.Context, in FeedbackInput) (*models.Feedback, error) {
	db := s.db.WithContext(ctx)
	if err := requireRow(db, &models.Order{}, in.OrderID, "order"); err != nil {
		return nil, err
	}
	if err := validRating(in.Rating); err != nil {
		return nil, err
	}
	if in.CustomerID != nil {
		if err := requireRow(db, &models.Customer{}, *in.CustomerID, "customer"); err != nil {
			return nil, err
		}
	}
	fb := &models.Feedback{
		OrderID:      in.OrderID,
		CustomerID:   in.CustomerID,
		Rating:       in.Rating,
		Comment:      in.Comment,
		FeedbackDate: time.Now().UTC(),
	}
	if err := s.feedback.Insert(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

func (s *FeedbackService) Get(ctx context.Context, id uint) (*models.Feedback, error) {
	return s.feedback.Get(ctx, id)
}

// List returns feedback newest first.
func (s *FeedbackService) List(ctx context.Context, page store.Page) ([]models.Feedback, error) {
	return s.feedback.List(ctx, nil, "feedback_date DESC, id DESC", page)
}

func (s *FeedbackService) ListByOrder(ctx context.Context, orderID uint) ([]models.Feedback, error) {
	if err := requireRow(s.db.WithContext(ctx), &models.Order{}, orderID, "order"); err != nil {
		return nil, err
	}
	return s.feedback.List(ctx, store.Filters{"order_id": orderID}, "id", store.Page{})
}

func (s *FeedbackService) Update(ctx context.Context, id uint, in FeedbackUpdate) (*models.Feedback, error) {
	fields := map[string]any{}
	if in.Rating != nil {
		if err := validRating(*in.Rating); err != nil {
			return nil, err
		}
		fields["rating"] = *in.Rating
	}
	if in.Comment != nil {
		fields["comment"] = *in.Comment
	}
	return s.feedback.Update(ctx, id, fields)
}

func (s *FeedbackService) Delete(ctx context.Context, id uint) (*models.Feedback, error) {
	return s.feedback.Delete(ctx, id)
}

// Statistics reports the count, mean rating and the count per rating 1..5.
func (s *FeedbackService) Statistics(ctx context.Context) (*FeedbackStats, error) {
	var rows []struct {
		Rating int
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Feedback{}).
		Select("rating, COUNT(*) AS count").
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, store.Translate(err, "computing feedback statistics")
	}

	stats := &FeedbackStats{RatingCounts: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	var sum int64
	for _, r := range rows {
		stats.RatingCounts[r.Rating] = r.Count
		stats.TotalFeedback += r.Count
		sum += int64(r.Rating) * r.Count
	}
	if stats.TotalFeedback > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalFeedback)
	}
	return stats, nil
}

func validRating(r int) error {
	if r < 1 || r > 5 {
		return apperr.Invalidf("rating must be between 1 and 5")
	}
	return nil
}
