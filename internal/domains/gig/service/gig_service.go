package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gigmarket-backend/internal/domains/gig/model"
	"gigmarket-backend/internal/domains/gig/repository"
	"gigmarket-backend/internal/infrastructure/storage"
	"gigmarket-backend/internal/shared"
	"gigmarket-backend/internal/shared/utils"
	"gigmarket-backend/pkg/logger"
)

// =====================================================
// GIG SERVICE
// =====================================================

type GigService interface {
	Create(ctx context.Context, actor shared.Actor, req *model.CreateGigRequest) (*model.GigResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*model.GigResponse, error)
	GetBySlug(ctx context.Context, slug string) (*model.GigResponse, error)
	Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req *model.UpdateGigRequest) (*model.GigResponse, error)
	List(ctx context.Context, req *model.ListGigsRequest) ([]model.GigResponse, int, error)
	UploadCover(ctx context.Context, actor shared.Actor, id uuid.UUID, file io.Reader) (*model.GigResponse, error)
}

type gigService struct {
	gigRepo repository.GigRepository
	storage storage.ObjectStorage
	now     func() time.Time
}

func NewGigService(gigRepo repository.GigRepository, objectStorage storage.ObjectStorage) GigService {
	return &gigService{
		gigRepo: gigRepo,
		storage: objectStorage,
		now:     time.Now,
	}
}

func (s *gigService) Create(ctx context.Context, actor shared.Actor, req *model.CreateGigRequest) (*model.GigResponse, error) {
	if actor.Role != shared.RoleSeller && !actor.IsAdmin() {
		return nil, model.NewGigError(model.ErrCodeGigForbidden, "only sellers can create gigs", model.ErrGigForbidden)
	}
	if err := req.Validate(); err != nil {
		return nil, model.NewGigError(model.ErrCodeInvalidGig, err.Error(), err)
	}

	now := s.now()
	gig := &model.Gig{
		ID:          uuid.New(),
		SellerID:    actor.ID,
		Title:       req.Title,
		Slug:        utils.GenerateSlug(req.Title),
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		Status:      model.GigStatusDraft,
		Packages:    toPackages(req.Packages),
		Stats: model.GigStats{
			Rating: decimal.Zero,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.gigRepo.Create(ctx, gig); err != nil {
		logger.Error("failed to create gig", err)
		return nil, err
	}

	logger.Info("gig created", map[string]interface{}{
		"gig_id":    gig.ID,
		"seller_id": gig.SellerID,
		"slug":      gig.Slug,
	})

	resp := gig.ToResponse()
	return &resp, nil
}

func (s *gigService) Get(ctx context.Context, id uuid.UUID) (*model.GigResponse, error) {
	gig, err := s.gigRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := gig.ToResponse()
	return &resp, nil
}

func (s *gigService) GetBySlug(ctx context.Context, slug string) (*model.GigResponse, error) {
	gig, err := s.gigRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := gig.ToResponse()
	return &resp, nil
}

func (s *gigService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req *model.UpdateGigRequest) (*model.GigResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewGigError(model.ErrCodeInvalidGig, err.Error(), err)
	}

	gig, err := s.gigRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gig.SellerID != actor.ID && !actor.IsAdmin() {
		return nil, model.NewGigError(model.ErrCodeGigForbidden, "only the owner can edit a gig", model.ErrGigForbidden)
	}

	if req.Title != nil {
		gig.Title = *req.Title
	}
	if req.Description != nil {
		gig.Description = *req.Description
	}
	if req.Category != nil {
		gig.Category = *req.Category
	}
	if req.Tags != nil {
		gig.Tags = req.Tags
	}
	if req.Status != nil {
		gig.Status = *req.Status
	}
	if req.Packages != nil {
		gig.Packages = toPackages(req.Packages)
	}

	if err := s.gigRepo.Update(ctx, gig); err != nil {
		logger.Error("failed to update gig", err)
		return nil, err
	}

	resp := gig.ToResponse()
	return &resp, nil
}

func (s *gigService) List(ctx context.Context, req *model.ListGigsRequest) ([]model.GigResponse, int, error) {
	req.Normalize()

	gigs, total, err := s.gigRepo.List(ctx, req)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]model.GigResponse, 0, len(gigs))
	for _, g := range gigs {
		responses = append(responses, g.ToResponse())
	}
	return responses, total, nil
}

// UploadCover processes the uploaded image into cover and thumbnail
// renditions and stores both.
func (s *gigService) UploadCover(ctx context.Context, actor shared.Actor, id uuid.UUID, file io.Reader) (*model.GigResponse, error) {
	gig, err := s.gigRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gig.SellerID != actor.ID && !actor.IsAdmin() {
		return nil, model.NewGigError(model.ErrCodeGigForbidden, "only the owner can edit a gig", model.ErrGigForbidden)
	}

	processed, err := storage.ProcessCoverImage(file)
	if err != nil {
		return nil, model.NewGigError(model.ErrCodeInvalidGig, "unreadable image", err)
	}

	coverURL, err := s.storage.Upload(ctx, fmt.Sprintf("gigs/%s/cover.jpg", gig.ID), processed.Cover, "image/jpeg")
	if err != nil {
		logger.Error("failed to upload cover", err)
		return nil, err
	}
	thumbURL, err := s.storage.Upload(ctx, fmt.Sprintf("gigs/%s/thumb.jpg", gig.ID), processed.Thumbnail, "image/jpeg")
	if err != nil {
		logger.Error("failed to upload thumbnail", err)
		return nil, err
	}

	gig.CoverImageURL = &coverURL
	gig.ThumbnailURL = &thumbURL
	if err := s.gigRepo.Update(ctx, gig); err != nil {
		return nil, err
	}

	resp := gig.ToResponse()
	return &resp, nil
}

func toPackages(inputs []model.PackageInput) []model.Package {
	packages := make([]model.Package, 0, len(inputs))
	for _, p := range inputs {
		packages = append(packages, model.Package{
			Tier:         p.Tier,
			Title:        p.Title,
			Description:  p.Description,
			Price:        p.Price,
			DeliveryDays: p.DeliveryDays,
			Revisions:    p.Revisions,
		})
	}
	return packages
}
