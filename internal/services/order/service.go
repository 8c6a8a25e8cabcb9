package order

import (
	"context"
	"errors"
	"log"
	"strings"

	apperrors "aesthetx/internal/errors"
	"aesthetx/internal/events"
	"aesthetx/internal/models"
	"aesthetx/internal/repositories"
)

type Service interface {
	ListMine(ctx context.Context, userID uint, offset, limit int) ([]models.Order, int64, error)
	GetMine(ctx context.Context, userID uint, orderNumber string) (*models.Order, error)
	List(ctx context.Context, filter repositories.OrderFilter, offset, limit int) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, orderNumber, status string) (*models.Order, error)
}

type service struct {
	repo      repositories.OrderRepository
	publisher events.Publisher
}

func NewService(repo repositories.OrderRepository, publisher events.Publisher) Service {
	return &service{repo: repo, publisher: publisher}
}

func (s *service) ListMine(ctx context.Context, userID uint, offset, limit int) ([]models.Order, int64, error) {
	return s.repo.ListByUser(ctx, userID, offset, limit)
}

func (s *service) GetMine(ctx context.Context, userID uint, orderNumber string) (*models.Order, error) {
	o, err := s.repo.GetByNumber(ctx, strings.TrimSpace(orderNumber))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrOrderNotFound
	} else if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, apperrors.ErrOrderNotFound
	}
	return o, nil
}

func (s *service) List(ctx context.Context, filter repositories.OrderFilter, offset, limit int) ([]models.Order, int64, error) {
	if filter.Status != "" && !models.IsValidOrderStatus(filter.Status) {
		return []models.Order{}, 0, nil
	}
	return s.repo.List(ctx, filter, offset, limit)
}

func (s *service) UpdateStatus(ctx context.Context, orderNumber, status string) (*models.Order, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !models.IsValidOrderStatus(status) {
		return nil, apperrors.ErrInvalidStatusTransition.WithMessage("Unknown order status: " + status)
	}

	o, previous, err := s.repo.UpdateStatus(ctx, strings.TrimSpace(orderNumber), status)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil, apperrors.ErrOrderNotFound
	case errors.Is(err, repositories.ErrInvalidTransition):
		return nil, apperrors.ErrInvalidStatusTransition
	case err != nil:
		return nil, err
	}

	log.Printf("order %s moved %s -> %s", o.OrderNumber, previous, status)

	shipping := o.ShippingDetails.Data()
	payload := events.OrderStatusChangedPayload{
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Email:       shipping.Email,
		FullName:    shipping.FullName,
		From:        previous,
		To:          status,
	}
	if err := s.publisher.Publish(ctx, events.TopicOrderStatusChanged, events.EventOrderStatusChanged, o.OrderNumber, payload); err != nil {
		log.Printf("Failed to publish status change for %s: %v", o.OrderNumber, err)
	}
	return o, nil
}
