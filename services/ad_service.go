package services

import (
	"context"
	"fmt"
	"time"

	"unimarket/domain/ads"
	"unimarket/errors"
	"unimarket/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type IAdService interface {
	CreateAd(cmd CreateAdCommand) (ads.Ad, error)
	GetAd(id uuid.UUID) (ads.Ad, error)
	ListAds(filter ads.Filter) ([]ads.Ad, error)
	SearchAds(ctx context.Context, terms string, limit int) ([]ads.Ad, error)
	UpdateAd(userID string, cmd UpdateAdCommand) (ads.Ad, error)
	DeleteAd(userID string, id uuid.UUID) error
	ReportAd(cmd ReportAdCommand) error
}

var validate = validator.New()

type CreateAdCommand struct {
	OwnerID     string   `validate:"required"`
	Title       string   `validate:"required,max=200"`
	Description string   `validate:"required"`
	Type        string   `validate:"required,oneof=IW IS AS"`
	Category    string   `validate:"required,len=2"`
	Location    string   `validate:"required,len=2"`
	Price       *float64 `validate:"omitempty,gte=0"`
	Images      []string
}

type UpdateAdCommand struct {
	ID          uuid.UUID
	Title       string   `validate:"required,max=200"`
	Description string   `validate:"required"`
	Type        string   `validate:"required,oneof=IW IS AS"`
	Category    string   `validate:"required,len=2"`
	Location    string   `validate:"required,len=2"`
	Status      string   `validate:"required,oneof=SO NS DE"`
	Price       *float64 `validate:"omitempty,gte=0"`
	Images      []string
}

type ReportAdCommand struct {
	AdID         uuid.UUID
	ReportedBy   *string
	Reason       ads.ReportReason
	OtherDetails string
}

type AdService struct {
	adRepository     repositories.IAdRepository
	reportRepository repositories.IReportRepository
}

func NewAdService(adRepository repositories.IAdRepository, reportRepository repositories.IReportRepository) *AdService {
	return &AdService{adRepository: adRepository, reportRepository: reportRepository}
}

func (s *AdService) CreateAd(cmd CreateAdCommand) (ads.Ad, error) {
	if err := validate.Struct(cmd); err != nil {
		return ads.Ad{}, fmt.Errorf("%w: %v", errors.ErrInvalidAd, err)
	}

	ad := ads.Ad{
		ID:          uuid.New(),
		Title:       cmd.Title,
		Description: cmd.Description,
		Type:        ads.AdType(cmd.Type),
		Category:    cmd.Category,
		Location:    cmd.Location,
		Status:      ads.StatusNotSold,
		Price:       cmd.Price,
		CreatedAt:   time.Now().UTC(),
		OwnerID:     cmd.OwnerID,
		Images:      cmd.Images,
	}
	if err := s.adRepository.CreateAd(ad); err != nil {
		return ads.Ad{}, err
	}
	return ad, nil
}

func (s *AdService) GetAd(id uuid.UUID) (ads.Ad, error) {
	return s.adRepository.GetAd(id)
}

func (s *AdService) ListAds(filter ads.Filter) ([]ads.Ad, error) {
	return s.adRepository.ListAds(filter)
}

func (s *AdService) SearchAds(ctx context.Context, terms string, limit int) ([]ads.Ad, error) {
	return s.adRepository.SearchAds(ctx, terms, limit)
}

// UpdateAd rewrites the mutable fields of an ad. Only the owner may touch
// it; ownership and creation time never change.
func (s *AdService) UpdateAd(userID string, cmd UpdateAdCommand) (ads.Ad, error) {
	if err := validate.Struct(cmd); err != nil {
		return ads.Ad{}, fmt.Errorf("%w: %v", errors.ErrInvalidAd, err)
	}

	ad, err := s.adRepository.GetAd(cmd.ID)
	if err != nil {
		return ads.Ad{}, err
	}
	if ad.OwnerID != userID {
		return ads.Ad{}, errors.ErrNotAdOwner
	}

	ad.Title = cmd.Title
	ad.Description = cmd.Description
	ad.Type = ads.AdType(cmd.Type)
	ad.Category = cmd.Category
	ad.Location = cmd.Location
	ad.Status = ads.Status(cmd.Status)
	ad.Price = cmd.Price
	ad.Images = cmd.Images

	if err := s.adRepository.UpdateAd(ad); err != nil {
		return ads.Ad{}, err
	}
	return ad, nil
}

// DeleteAd is a soft delete: the ad flips to status DE and drops out of
// listings and search, but the record stays resolvable.
func (s *AdService) DeleteAd(userID string, id uuid.UUID) error {
	ad, err := s.adRepository.GetAd(id)
	if err != nil {
		return err
	}
	if ad.OwnerID != userID {
		return errors.ErrNotAdOwner
	}

	ad.Status = ads.StatusDeleted
	return s.adRepository.UpdateAd(ad)
}

func (s *AdService) ReportAd(cmd ReportAdCommand) error {
	if _, err := s.adRepository.GetAd(cmd.AdID); err != nil {
		return err
	}

	reason := cmd.Reason
	if !ads.ValidReason(reason) {
		reason = ads.ReasonOther
	}

	return s.reportRepository.StoreReport(ads.Report{
		ID:           uuid.New(),
		AdID:         cmd.AdID,
		ReportedBy:   cmd.ReportedBy,
		Reason:       reason,
		OtherDetails: cmd.OtherDetails,
		ReportedAt:   time.Now().UTC(),
	})
}
