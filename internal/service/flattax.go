package service

import (
	"context"

	"github.com/midwaywholesale/pricing/internal/api/dto"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
	"github.com/midwaywholesale/pricing/internal/types"
)

type FlatTaxService interface {
	// Core CRUD operations over the flat tax catalog
	CreateFlatTax(ctx context.Context, req dto.CreateFlatTaxRequest) (*dto.FlatTaxResponse, error)
	GetFlatTax(ctx context.Context, id string) (*dto.FlatTaxResponse, error)
	ListFlatTaxes(ctx context.Context, filter *types.FlatTaxFilter) (*dto.ListFlatTaxesResponse, error)
	UpdateFlatTax(ctx context.Context, id string, req dto.UpdateFlatTaxRequest) (*dto.FlatTaxResponse, error)
	DeleteFlatTax(ctx context.Context, id string) error
}

type flatTaxService struct {
	ServiceParams
}

// NewFlatTaxService creates a new instance of FlatTaxService
func NewFlatTaxService(params ServiceParams) FlatTaxService {
	return &flatTaxService{
		ServiceParams: params,
	}
}

// CreateFlatTax creates a new flat tax catalog entry
func (s *flatTaxService) CreateFlatTax(ctx context.Context, req dto.CreateFlatTaxRequest) (*dto.FlatTaxResponse, error) {
	if err := req.Validate(); err != nil {
		s.Logger.Warnw("flat tax creation validation failed",
			"error", err,
			"name", req.Name,
			"tax_type", req.TaxType,
		)
		return nil, err
	}

	flatTax := req.ToFlatTax(ctx)

	if err := s.FlatTaxRepo.Create(ctx, flatTax); err != nil {
		s.Logger.Errorw("failed to create flat tax",
			"error", err,
			"flat_tax_id", flatTax.ID,
			"name", flatTax.Name,
		)
		return nil, err
	}

	return &dto.FlatTaxResponse{FlatTax: flatTax}, nil
}

// GetFlatTax retrieves a flat tax by ID
func (s *flatTaxService) GetFlatTax(ctx context.Context, id string) (*dto.FlatTaxResponse, error) {
	if id == "" {
		return nil, ierr.NewError("flat_tax_id is required").
			WithHint("Flat tax ID is required").
			Mark(ierr.ErrValidation)
	}

	flatTax, err := s.FlatTaxRepo.Get(ctx, id)
	if err != nil {
		s.Logger.Warnw("failed to get flat tax",
			"error", err,
			"flat_tax_id", id,
		)
		return nil, err
	}

	return &dto.FlatTaxResponse{FlatTax: flatTax}, nil
}

// ListFlatTaxes lists flat taxes based on the provided filter
func (s *flatTaxService) ListFlatTaxes(ctx context.Context, filter *types.FlatTaxFilter) (*dto.ListFlatTaxesResponse, error) {
	if filter == nil {
		filter = types.NewFlatTaxFilter()
	}

	if err := filter.Validate(); err != nil {
		s.Logger.Warnw("flat tax filter validation failed",
			"error", err,
			"filter", filter,
		)
		return nil, err
	}

	flatTaxes, err := s.FlatTaxRepo.List(ctx, filter)
	if err != nil {
		s.Logger.Errorw("failed to list flat taxes",
			"error", err,
			"filter", filter,
		)
		return nil, err
	}

	count, err := s.FlatTaxRepo.Count(ctx, filter)
	if err != nil {
		s.Logger.Errorw("failed to count flat taxes",
			"error", err,
			"filter", filter,
		)
		return nil, err
	}

	items := make([]*dto.FlatTaxResponse, len(flatTaxes))
	for i, t := range flatTaxes {
		items[i] = &dto.FlatTaxResponse{FlatTax: t}
	}

	pagination := types.NewPaginationResponse(
		count,
		filter.GetLimit(),
		filter.GetOffset(),
	)

	return &dto.ListFlatTaxesResponse{
		Items:      items,
		Pagination: &pagination,
	}, nil
}

// UpdateFlatTax updates an existing flat tax in place
func (s *flatTaxService) UpdateFlatTax(ctx context.Context, id string, req dto.UpdateFlatTaxRequest) (*dto.FlatTaxResponse, error) {
	if id == "" {
		return nil, ierr.NewError("flat_tax_id is required").
			WithHint("Flat tax ID is required").
			Mark(ierr.ErrValidation)
	}

	if err := req.Validate(); err != nil {
		s.Logger.Warnw("flat tax update validation failed",
			"error", err,
			"flat_tax_id", id,
		)
		return nil, err
	}

	flatTax, err := s.FlatTaxRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Apply updates only for provided fields
	if req.Name != "" {
		flatTax.Name = req.Name
	}

	if req.Amount != nil {
		flatTax.Amount = *req.Amount
	}

	if req.CustomerTiers != nil {
		flatTax.CustomerTiers = req.CustomerTiers
	}

	if req.CountyRestriction != nil {
		flatTax.CountyRestriction = types.ToNillableString(*req.CountyRestriction)
	}

	if req.ZipRestriction != nil {
		flatTax.ZipRestriction = types.ToNillableString(*req.ZipRestriction)
	}

	if req.ApplicableProducts != nil {
		flatTax.ApplicableProducts = req.ApplicableProducts
	}

	if err := s.FlatTaxRepo.Update(ctx, flatTax); err != nil {
		s.Logger.Errorw("failed to update flat tax",
			"error", err,
			"flat_tax_id", id,
		)
		return nil, err
	}

	s.Logger.Infow("flat tax updated successfully",
		"flat_tax_id", id,
		"name", flatTax.Name,
		"tax_type", flatTax.TaxType,
	)

	return &dto.FlatTaxResponse{FlatTax: flatTax}, nil
}

// DeleteFlatTax archives a flat tax, removing it from resolution while
// keeping its history
func (s *flatTaxService) DeleteFlatTax(ctx context.Context, id string) error {
	if id == "" {
		return ierr.NewError("flat_tax_id is required").
			WithHint("Flat tax ID is required").
			Mark(ierr.ErrValidation)
	}

	flatTax, err := s.FlatTaxRepo.Get(ctx, id)
	if err != nil {
		s.Logger.Warnw("failed to get flat tax for deletion",
			"error", err,
			"flat_tax_id", id,
		)
		return err
	}

	if err := s.FlatTaxRepo.Delete(ctx, flatTax); err != nil {
		s.Logger.Errorw("failed to delete flat tax",
			"error", err,
			"flat_tax_id", id,
		)
		return err
	}

	s.Logger.Infow("flat tax archived successfully",
		"flat_tax_id", id,
		"name", flatTax.Name,
	)

	return nil
}
