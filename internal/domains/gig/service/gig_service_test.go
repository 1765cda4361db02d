package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigmarket-backend/internal/domains/gig/model"
	"gigmarket-backend/internal/shared"
)

// =====================================================
// FAKES
// =====================================================

type fakeGigRepository struct {
	gigs   map[uuid.UUID]*model.Gig
	bySlug map[string]uuid.UUID
}

func newFakeGigRepository() *fakeGigRepository {
	return &fakeGigRepository{
		gigs:   make(map[uuid.UUID]*model.Gig),
		bySlug: make(map[string]uuid.UUID),
	}
}

func (f *fakeGigRepository) Create(_ context.Context, gig *model.Gig) error {
	if _, exists := f.bySlug[gig.Slug]; exists {
		return model.ErrDuplicateSlug
	}
	cp := *gig
	f.gigs[gig.ID] = &cp
	f.bySlug[gig.Slug] = gig.ID
	return nil
}

func (f *fakeGigRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Gig, error) {
	gig, ok := f.gigs[id]
	if !ok {
		return nil, model.ErrGigNotFound
	}
	cp := *gig
	return &cp, nil
}

func (f *fakeGigRepository) GetBySlug(_ context.Context, slug string) (*model.Gig, error) {
	id, ok := f.bySlug[slug]
	if !ok {
		return nil, model.ErrGigNotFound
	}
	cp := *f.gigs[id]
	return &cp, nil
}

func (f *fakeGigRepository) Update(_ context.Context, gig *model.Gig) error {
	if _, ok := f.gigs[gig.ID]; !ok {
		return model.ErrGigNotFound
	}
	cp := *gig
	f.gigs[gig.ID] = &cp
	return nil
}

func (f *fakeGigRepository) List(_ context.Context, req *model.ListGigsRequest) ([]*model.Gig, int, error) {
	var out []*model.Gig
	for _, g := range f.gigs {
		if g.Status != model.GigStatusActive {
			continue
		}
		if req.Category != nil && g.Category != *req.Category {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeGigRepository) UpdateStats(_ context.Context, gigID uuid.UUID, rating decimal.Decimal, totalReviews int) error {
	gig, ok := f.gigs[gigID]
	if !ok {
		return model.ErrGigNotFound
	}
	gig.Stats.Rating = rating
	gig.Stats.TotalReviews = totalReviews
	return nil
}

func (f *fakeGigRepository) ListIDsBySeller(_ context.Context, sellerID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for id, g := range f.gigs {
		if g.SellerID == sellerID {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeObjectStorage struct {
	objects map[string][]byte
}

func (f *fakeObjectStorage) Upload(_ context.Context, objectName string, data []byte, _ string) (string, error) {
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[objectName] = data
	return fmt.Sprintf("https://cdn.example.com/%s", objectName), nil
}

func (f *fakeObjectStorage) Remove(_ context.Context, objectName string) error {
	delete(f.objects, objectName)
	return nil
}

// =====================================================
// TESTS
// =====================================================

func createReq() *model.CreateGigRequest {
	return &model.CreateGigRequest{
		Title:       "I will design your logo",
		Description: "A clean, modern logo tailored to your brand and audience.",
		Category:    "design",
		Tags:        []string{"logo", "branding"},
		Packages: []model.PackageInput{
			{
				Tier:         "basic",
				Title:        "Basic logo",
				Price:        decimal.RequireFromString("100.00"),
				DeliveryDays: 3,
				Revisions:    1,
			},
		},
	}
}

func TestCreateGig(t *testing.T) {
	repo := newFakeGigRepository()
	svc := NewGigService(repo, &fakeObjectStorage{})
	seller := shared.Actor{ID: uuid.New(), Role: shared.RoleSeller}

	gig, err := svc.Create(context.Background(), seller, createReq())
	require.NoError(t, err)

	assert.Equal(t, model.GigStatusDraft, gig.Status)
	assert.Equal(t, "i-will-design-your-logo", gig.Slug)
	assert.Equal(t, seller.ID, gig.SellerID)
	require.Len(t, gig.Packages, 1)
	assert.True(t, gig.Stats.Rating.IsZero())
}

func TestCreateGigRequiresSeller(t *testing.T) {
	svc := NewGigService(newFakeGigRepository(), &fakeObjectStorage{})
	buyer := shared.Actor{ID: uuid.New(), Role: shared.RoleBuyer}

	_, err := svc.Create(context.Background(), buyer, createReq())
	assert.ErrorIs(t, err, model.ErrGigForbidden)
}

func TestCreateGigRejectsDuplicateTiers(t *testing.T) {
	svc := NewGigService(newFakeGigRepository(), &fakeObjectStorage{})
	seller := shared.Actor{ID: uuid.New(), Role: shared.RoleSeller}

	req := createReq()
	req.Packages = append(req.Packages, req.Packages[0])

	_, err := svc.Create(context.Background(), seller, req)
	assert.Error(t, err)
}

func TestUpdateGigRequiresOwner(t *testing.T) {
	repo := newFakeGigRepository()
	svc := NewGigService(repo, &fakeObjectStorage{})
	seller := shared.Actor{ID: uuid.New(), Role: shared.RoleSeller}
	ctx := context.Background()

	gig, err := svc.Create(ctx, seller, createReq())
	require.NoError(t, err)

	status := model.GigStatusActive
	other := shared.Actor{ID: uuid.New(), Role: shared.RoleSeller}
	_, err = svc.Update(ctx, other, gig.ID, &model.UpdateGigRequest{Status: &status})
	assert.ErrorIs(t, err, model.ErrGigForbidden)

	updated, err := svc.Update(ctx, seller, gig.ID, &model.UpdateGigRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.GigStatusActive, updated.Status)

	// admins can moderate any gig
	archived := model.GigStatusArchived
	admin := shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}
	moderated, err := svc.Update(ctx, admin, gig.ID, &model.UpdateGigRequest{Status: &archived})
	require.NoError(t, err)
	assert.Equal(t, model.GigStatusArchived, moderated.Status)
}

func TestUploadCoverStoresBothRenditions(t *testing.T) {
	repo := newFakeGigRepository()
	store := &fakeObjectStorage{}
	svc := NewGigService(repo, store)
	seller := shared.Actor{ID: uuid.New(), Role: shared.RoleSeller}
	ctx := context.Background()

	gig, err := svc.Create(ctx, seller, createReq())
	require.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	for x := 0; x < 800; x += 10 {
		for y := 0; y < 600; y += 10 {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	updated, err := svc.UploadCover(ctx, seller, gig.ID, &buf)
	require.NoError(t, err)

	require.NotNil(t, updated.CoverImageURL)
	require.NotNil(t, updated.ThumbnailURL)
	assert.Contains(t, *updated.CoverImageURL, "cover.jpg")
	assert.Contains(t, *updated.ThumbnailURL, "thumb.jpg")
	assert.Len(t, store.objects, 2)
}

func TestUploadCoverRejectsUnreadableImage(t *testing.T) {
	repo := newFakeGigRepository()
	svc := NewGigService(repo, &fakeObjectStorage{})
	seller := shared.Actor{ID: uuid.New(), Role: shared.RoleSeller}
	ctx := context.Background()

	gig, err := svc.Create(ctx, seller, createReq())
	require.NoError(t, err)

	_, err = svc.UploadCover(ctx, seller, gig.ID, bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}
