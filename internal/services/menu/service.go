package menu

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"resto-pos/internal/logger"
	"resto-pos/internal/models"
)

// ErrDuplicateName is returned by Repository.Insert and Update when another
// item already carries the requested name.
var ErrDuplicateName = errors.New("menu item name already taken")

// Repository is the persistence contract of the menu catalog. Lookup methods
// return (nil, nil) when no record matches.
type Repository interface {
	Insert(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	List(ctx context.Context) ([]models.MenuItem, error)
	// Update overwrites the item, reporting whether it existed.
	Update(ctx context.Context, item *models.MenuItem) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service implements the menu catalog, the authoritative price source for
// order placement.
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService creates a new menu service.
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// Create adds a new menu item.
func (s *Service) Create(ctx context.Context, req *models.MenuItemRequest, requestID string) (*models.MenuItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Available:   true,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return nil, models.ConflictError("menu item already exists: %s", req.Name)
		}
		return nil, models.InternalError(err)
	}

	s.logger.Info("menu_item_created", requestID, "Menu item created",
		map[string]interface{}{"item_id": item.ID.String(), "name": item.Name, "price": item.Price})

	return item, nil
}

// Update overwrites a menu item. Orders placed earlier keep their price
// snapshot; only future orders see the new price.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *models.MenuItemRequest, requestID string) (*models.MenuItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Available:   true,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	found, err := s.repo.Update(ctx, item)
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return nil, models.ConflictError("menu item already exists: %s", req.Name)
		}
		return nil, models.InternalError(err)
	}
	if !found {
		return nil, models.NotFoundError("menu item not found: %s", id)
	}

	s.logger.Info("menu_item_updated", requestID, "Menu item updated",
		map[string]interface{}{"item_id": id.String(), "price": item.Price})

	return item, nil
}

// Delete removes a menu item. Existing orders keep their snapshots.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, requestID string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return models.InternalError(err)
	}
	if !deleted {
		return models.NotFoundError("menu item not found: %s", id)
	}

	s.logger.Info("menu_item_deleted", requestID, "Menu item deleted",
		map[string]interface{}{"item_id": id.String()})

	return nil
}

// Get fetches one menu item.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, models.InternalError(err)
	}
	if item == nil {
		return nil, models.NotFoundError("menu item not found: %s", id)
	}
	return item, nil
}

// GetItem is the read-only lookup the order ledger prices against. Unlike
// Get it returns (nil, nil) on a miss so the caller controls the error shape.
func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the whole menu grouped by category, then name.
func (s *Service) List(ctx context.Context) ([]models.MenuItem, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, models.InternalError(err)
	}
	return list, nil
}
