package review

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/models"
	"aesthetx/internal/repositories"
	"aesthetx/internal/services/product"
	"aesthetx/internal/validation"
)

type Input struct {
	Rating    int    `json:"rating"`
	Title     string `json:"title" validate:"max=120"`
	Comment   string `json:"comment" validate:"max=2000"`
	Size      string `json:"size"`
	Recommend bool   `json:"recommend"`
}

type ProductReviews struct {
	Reviews []models.Review      `json:"reviews"`
	Summary models.ReviewSummary `json:"summary"`
}

type Service interface {
	Create(ctx context.Context, userID uint, productRef string, input Input) (*models.Review, error)
	ListForProduct(ctx context.Context, productRef string) (*ProductReviews, error)
	// Delete removes a review. Only its author may delete it unless asAdmin is set.
	Delete(ctx context.Context, userID uint, reviewID uint, asAdmin bool) error
}

type service struct {
	reviews  repositories.ReviewRepository
	products repositories.ProductRepository
	users    repositories.UserRepository
}

func NewService(reviews repositories.ReviewRepository, products repositories.ProductRepository, users repositories.UserRepository) Service {
	return &service{reviews: reviews, products: products, users: users}
}

func (s *service) Create(ctx context.Context, userID uint, productRef string, input Input) (*models.Review, error) {
	if input.Rating < validation.MinRating || input.Rating > validation.MaxRating {
		return nil, apperrors.ErrInvalidRating
	}
	if fields := validation.Struct(input); fields != nil {
		return nil, apperrors.NewValidation(fields)
	}

	p, err := product.Resolve(ctx, s.products, productRef)
	if err != nil {
		return nil, err
	}
	if p.IsHidden {
		return nil, apperrors.ErrProductNotFound
	}

	exists, err := s.reviews.Exists(ctx, p.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("check review: %w", err)
	}
	if exists {
		return nil, apperrors.ErrReviewExists
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}

	r := &models.Review{
		ProductID: p.ID,
		UserID:    userID,
		UserName:  user.Name,
		Rating:    input.Rating,
		Title:     strings.TrimSpace(input.Title),
		Comment:   strings.TrimSpace(input.Comment),
		Size:      strings.TrimSpace(input.Size),
		Recommend: input.Recommend,
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrReviewExists
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	return r, nil
}

func (s *service) ListForProduct(ctx context.Context, productRef string) (*ProductReviews, error) {
	p, err := product.Resolve(ctx, s.products, productRef)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return &ProductReviews{Reviews: reviews, Summary: Summarize(reviews)}, nil
}

func (s *service) Delete(ctx context.Context, userID uint, reviewID uint, asAdmin bool) error {
	r, err := s.reviews.GetByID(ctx, reviewID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.ErrReviewNotFound
	} else if err != nil {
		return err
	}
	if !asAdmin && r.UserID != userID {
		return apperrors.ErrReviewNotFound
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrReviewNotFound
		}
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// Summarize computes the rating breakdown shown above a product's reviews.
func Summarize(reviews []models.Review) models.ReviewSummary {
	sum := models.ReviewSummary{Distribution: map[int]int{}}
	for r := validation.MinRating; r <= validation.MaxRating; r++ {
		sum.Distribution[r] = 0
	}
	if len(reviews) == 0 {
		return sum
	}

	total, recommended := 0, 0
	for _, r := range reviews {
		sum.Distribution[r.Rating]++
		total += r.Rating
		if r.Recommend {
			recommended++
		}
	}
	sum.Count = len(reviews)
	sum.Average = math.Round(float64(total)/float64(sum.Count)*10) / 10
	sum.RecommendPercent = int(math.Round(float64(recommended) * 100 / float64(sum.Count)))
	return sum
}
