package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nazarkrivolesov/kitchen-2.0/apperr"
	"github.com/nazarkrivolesov/kitchen-2.0/catalog-svc/internal/domain"
)

type DishRepository interface {
	CreateDish(ctx context.Context, dish *domain.Dish) error
	ListDishes(ctx context.Context) ([]domain.Dish, error)
	GetDish(ctx context.Context, id string) (*domain.Dish, error)
	UpdateDish(ctx context.Context, dish *domain.Dish) error
	DeleteDish(ctx context.Context, id string) (int64, error)
	UpdateDishImage(ctx context.Context, id, imageURL string) error
}

type CartStore interface {
	Create(ctx context.Context, cart *domain.Cart) error
	Get(ctx context.Context, id string) (*domain.Cart, error)
	Update(ctx context.Context, id string, fn func(*domain.Cart) error) (*domain.Cart, error)
	Delete(ctx context.Context, id string) error
	PurgeDish(ctx context.Context, dishID string) (int, error)
}

type MenuPublisher interface {
	PublishMenu(ctx context.Context, menu []domain.Dish) error
}

type BlobStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

type DishServiceInterface interface {
	List(ctx context.Context, category domain.Category) ([]domain.Dish, error)
	Get(ctx context.Context, id string) (*domain.Dish, error)
	Create(ctx context.Context, dish *domain.Dish) error
	Update(ctx context.Context, dish *domain.Dish) error
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, id string, image io.Reader) (string, error)
	StoreImage(ctx context.Context, image io.Reader) (string, error)
}

type CartServiceInterface interface {
	Create(ctx context.Context) (*domain.Cart, error)
	Get(ctx context.Context, id string) (*domain.Cart, error)
	Add(ctx context.Context, cartID, dishID string) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, cartID, dishID string, delta int) (*domain.Cart, error)
	Remove(ctx context.Context, cartID, dishID string) (*domain.Cart, error)
	Clear(ctx context.Context, cartID string) (*domain.Cart, error)
}

// storageErr marks collaborator failures as external unless they are one of
// our own sentinels.
func storageErr(service, op string, err error) error {
	if err == nil {
		return nil
	}
	var validation *apperr.ValidationError
	if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrConflict) || errors.As(err, &validation) {
		return err
	}
	return apperr.External(service, op, err)
}

type DishService struct {
	repo      DishRepository
	carts     CartStore
	publisher MenuPublisher
	blobs     BlobStore
	images    ImageProcessor
	logger    zerolog.Logger
}

func NewDishService(repo DishRepository, carts CartStore, publisher MenuPublisher, blobs BlobStore, images ImageProcessor, logger zerolog.Logger) *DishService {
	return &DishService{
		repo:      repo,
		carts:     carts,
		publisher: publisher,
		blobs:     blobs,
		images:    images,
		logger:    logger,
	}
}

func (s *DishService) List(ctx context.Context, category domain.Category) ([]domain.Dish, error) {
	if category != "" && category != domain.CategoryAll && !category.Valid() {
		v := &apperr.ValidationError{}
		v.Add("category", "unknown category")
		return nil, v
	}
	menu, err := s.repo.ListDishes(ctx)
	if err != nil {
		return nil, storageErr("postgres", "list dishes", err)
	}
	return domain.FilterByCategory(menu, category), nil
}

func (s *DishService) Get(ctx context.Context, id string) (*domain.Dish, error) {
	dish, err := s.repo.GetDish(ctx, id)
	return dish, storageErr("postgres", "get dish", err)
}

func (s *DishService) Create(ctx context.Context, dish *domain.Dish) error {
	dish.ID = ""
	dish.Normalize()
	if err := dish.Validate(); err != nil {
		return err
	}
	if err := s.repo.CreateDish(ctx, dish); err != nil {
		return storageErr("postgres", "create dish", err)
	}
	s.logger.Info().Str("dish_id", dish.ID).Str("name", dish.Name).Msg("dish created")
	s.publishMenu(ctx)
	return nil
}

func (s *DishService) Update(ctx context.Context, dish *domain.Dish) error {
	dish.Normalize()
	if err := dish.Validate(); err != nil {
		return err
	}
	if err := s.repo.UpdateDish(ctx, dish); err != nil {
		return storageErr("postgres", "update dish", err)
	}
	s.logger.Info().Str("dish_id", dish.ID).Msg("dish updated")
	s.publishMenu(ctx)
	return nil
}

// Delete removes the dish and then every cart entry for it. Carts are purged
// even when the row is already gone so a retried delete finishes the job.
func (s *DishService) Delete(ctx context.Context, id string) error {
	rows, err := s.repo.DeleteDish(ctx, id)
	if err != nil {
		return storageErr("postgres", "delete dish", err)
	}

	purged, err := s.carts.PurgeDish(ctx, id)
	if err != nil {
		return storageErr("redis", "purge dish from carts", err)
	}
	if rows == 0 {
		return domain.ErrDishNotFound
	}

	s.logger.Info().Str("dish_id", id).Int("carts_purged", purged).Msg("dish deleted")
	s.publishMenu(ctx)
	return nil
}

func (s *DishService) UploadImage(ctx context.Context, id string, image io.Reader) (string, error) {
	if _, err := s.repo.GetDish(ctx, id); err != nil {
		return "", storageErr("postgres", "get dish", err)
	}
	url, err := s.saveImage(ctx, "dish_"+id+"_", image)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdateDishImage(ctx, id, url); err != nil {
		return "", storageErr("postgres", "update dish image", err)
	}
	s.publishMenu(ctx)
	return url, nil
}

// StoreImage uploads an image that is not yet attached to a dish, as the
// admin form does before the dish is saved.
func (s *DishService) StoreImage(ctx context.Context, image io.Reader) (string, error) {
	return s.saveImage(ctx, "upload_", image)
}

func (s *DishService) saveImage(ctx context.Context, prefix string, image io.Reader) (string, error) {
	data, err := s.images.Process(image)
	if err != nil {
		return "", err
	}
	url, err := s.blobs.Save(ctx, prefix+uuid.NewString()+".jpg", data)
	if err != nil {
		return "", apperr.External("blob store", "save image", err)
	}
	return url, nil
}

func (s *DishService) publishMenu(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	menu, err := s.repo.ListDishes(ctx)
	if err == nil {
		err = s.publisher.PublishMenu(ctx, menu)
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("menu snapshot not published")
	}
}

var _ DishServiceInterface = (*DishService)(nil)

type CartService struct {
	carts  CartStore
	dishes DishRepository
	now    func() time.Time
}

func NewCartService(carts CartStore, dishes DishRepository) *CartService {
	return &CartService{carts: carts, dishes: dishes, now: time.Now}
}

func (s *CartService) Create(ctx context.Context) (*domain.Cart, error) {
	cart := domain.NewCart(uuid.NewString(), s.now().UTC())
	if err := s.carts.Create(ctx, cart); err != nil {
		return nil, storageErr("redis", "create cart", err)
	}
	return cart, nil
}

// Get returns the cart with entries for dishes no longer in the catalog
// dropped. Checkout reads carts through here.
func (s *CartService) Get(ctx context.Context, id string) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, id)
	if err != nil {
		return nil, storageErr("redis", "get cart", err)
	}
	if len(cart.Items) == 0 {
		return cart, nil
	}

	menu, err := s.dishes.ListDishes(ctx)
	if err != nil {
		return nil, storageErr("postgres", "list dishes", err)
	}
	inCatalog := make(map[string]bool, len(menu))
	for _, d := range menu {
		inCatalog[d.ID] = true
	}
	var stale []string
	for _, item := range cart.Items {
		if !inCatalog[item.ID] {
			stale = append(stale, item.ID)
		}
	}
	if len(stale) == 0 {
		return cart, nil
	}

	cart, err = s.carts.Update(ctx, id, func(c *domain.Cart) error {
		for _, dishID := range stale {
			c.Remove(dishID)
		}
		return nil
	})
	return cart, storageErr("redis", "prune cart", err)
}

// Add snapshots the current catalog entry into the cart. A delete that lands
// between the lookup and the write is caught by the second lookup and undone.
func (s *CartService) Add(ctx context.Context, cartID, dishID string) (*domain.Cart, error) {
	dish, err := s.dishes.GetDish(ctx, dishID)
	if err != nil {
		return nil, storageErr("postgres", "get dish", err)
	}
	cart, err := s.carts.Update(ctx, cartID, func(c *domain.Cart) error {
		c.Add(*dish)
		return nil
	})
	if err != nil {
		return nil, storageErr("redis", "add to cart", err)
	}

	if _, err := s.dishes.GetDish(ctx, dishID); err != nil {
		if !errors.Is(err, domain.ErrDishNotFound) {
			return nil, storageErr("postgres", "get dish", err)
		}
		if _, err := s.carts.Update(ctx, cartID, func(c *domain.Cart) error {
			c.Remove(dishID)
			return nil
		}); err != nil {
			return nil, storageErr("redis", "remove deleted dish", err)
		}
		return nil, domain.ErrDishNotFound
	}
	return cart, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, cartID, dishID string, delta int) (*domain.Cart, error) {
	cart, err := s.carts.Update(ctx, cartID, func(c *domain.Cart) error {
		c.UpdateQuantity(dishID, delta)
		return nil
	})
	return cart, storageErr("redis", "update quantity", err)
}

func (s *CartService) Remove(ctx context.Context, cartID, dishID string) (*domain.Cart, error) {
	cart, err := s.carts.Update(ctx, cartID, func(c *domain.Cart) error {
		c.Remove(dishID)
		return nil
	})
	return cart, storageErr("redis", "remove from cart", err)
}

func (s *CartService) Clear(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.carts.Update(ctx, cartID, func(c *domain.Cart) error {
		c.Clear()
		return nil
	})
	return cart, storageErr("redis", "clear cart", err)
}

var _ CartServiceInterface = (*CartService)(nil)
