package services

import (
	"testing"

	"unimarket/domain/ads"
	"unimarket/errors"
	"unimarket/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newAdFixture(t *testing.T) (*AdService, *mocks.MockIAdRepository, *mocks.MockIReportRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	adRepo := mocks.NewMockIAdRepository(ctrl)
	reportRepo := mocks.NewMockIReportRepository(ctrl)
	return NewAdService(adRepo, reportRepo), adRepo, reportRepo
}

func validCreateCommand() CreateAdCommand {
	return CreateAdCommand{
		OwnerID:     "owner-id",
		Title:       "Calculus textbook",
		Description: "Third edition, barely used",
		Type:        "IS",
		Category:    "BK",
		Location:    "PR",
	}
}

func TestAdService_CreateAd(t *testing.T) {
	t.Run("should create a fresh ad with NS status", func(t *testing.T) {
		req := require.New(t)
		svc, adRepo, _ := newAdFixture(t)

		adRepo.EXPECT().
			CreateAd(gomock.Cond(func(ad ads.Ad) bool {
				return ad.Status == ads.StatusNotSold && ad.OwnerID == "owner-id" && ad.ID != uuid.Nil
			})).
			Return(nil)

		ad, err := svc.CreateAd(validCreateCommand())
		req.NoError(err)
		req.Equal(ads.StatusNotSold, ad.Status)
		req.False(ad.CreatedAt.IsZero())
	})

	t.Run("should reject an unknown ad type", func(t *testing.T) {
		req := require.New(t)
		svc, adRepo, _ := newAdFixture(t)

		adRepo.EXPECT().CreateAd(gomock.Any()).Times(0)

		cmd := validCreateCommand()
		cmd.Type = "XX"
		_, err := svc.CreateAd(cmd)
		req.ErrorIs(err, errors.ErrInvalidAd)
	})

	t.Run("should reject a negative price", func(t *testing.T) {
		req := require.New(t)
		svc, adRepo, _ := newAdFixture(t)

		adRepo.EXPECT().CreateAd(gomock.Any()).Times(0)

		price := -5.0
		cmd := validCreateCommand()
		cmd.Price = &price
		_, err := svc.CreateAd(cmd)
		req.ErrorIs(err, errors.ErrInvalidAd)
	})
}

func TestAdService_UpdateAd(t *testing.T) {
	stored := ads.Ad{ID: uuid.New(), OwnerID: "owner-id", Title: "Old title", Status: ads.StatusNotSold}

	update := UpdateAdCommand{
		ID:          stored.ID,
		Title:       "New title",
		Description: "Updated description",
		Type:        "IS",
		Category:    "BK",
		Location:    "PR",
		Status:      "SO",
	}

	t.Run("owner can update and flip the status", func(t *testing.T) {
		req := require.New(t)
		svc, adRepo, _ := newAdFixture(t)

		adRepo.EXPECT().GetAd(stored.ID).Return(stored, nil)
		adRepo.EXPECT().
			UpdateAd(gomock.Cond(func(ad ads.Ad) bool {
				return ad.Title == "New title" && ad.Status == ads.StatusSold && ad.OwnerID == "owner-id"
			})).
			Return(nil)

		ad, err := svc.UpdateAd("owner-id", update)
		req.NoError(err)
		req.Equal(ads.StatusSold, ad.Status)
	})

	t.Run("a stranger cannot update someone else's ad", func(t *testing.T) {
		req := require.New(t)
		svc, adRepo, _ := newAdFixture(t)

		adRepo.EXPECT().GetAd(stored.ID).Return(stored, nil)
		adRepo.EXPECT().UpdateAd(gomock.Any()).Times(0)

		_, err := svc.UpdateAd("intruder-id", update)
		req.ErrorIs(err, errors.ErrNotAdOwner)
	})
}

func TestAdService_DeleteAd(t *testing.T) {
	stored := ads.Ad{ID: uuid.New(), OwnerID: "owner-id", Status: ads.StatusNotSold}

	t.Run("delete is a status flip, not a removal", func(t *testing.T) {
		req := require.New(t)
		svc, adRepo, _ := newAdFixture(t)

		adRepo.EXPECT().GetAd(stored.ID).Return(stored, nil)
		adRepo.EXPECT().
			UpdateAd(gomock.Cond(func(ad ads.Ad) bool { return ad.Status == ads.StatusDeleted })).
			Return(nil)

		req.NoError(svc.DeleteAd("owner-id", stored.ID))
	})

	t.Run("only the owner may delete", func(t *testing.T) {
		req := require.New(t)
		svc, adRepo, _ := newAdFixture(t)

		adRepo.EXPECT().GetAd(stored.ID).Return(stored, nil)
		adRepo.EXPECT().UpdateAd(gomock.Any()).Times(0)

		req.ErrorIs(svc.DeleteAd("intruder-id", stored.ID), errors.ErrNotAdOwner)
	})
}

func TestAdService_ReportAd(t *testing.T) {
	stored := ads.Ad{ID: uuid.New(), OwnerID: "owner-id"}

	t.Run("stores the report with its reason", func(t *testing.T) {
		req := require.New(t)
		svc, adRepo, reportRepo := newAdFixture(t)

		adRepo.EXPECT().GetAd(stored.ID).Return(stored, nil)
		reportRepo.EXPECT().
			StoreReport(gomock.Cond(func(r ads.Report) bool {
				return r.AdID == stored.ID && r.Reason == ads.ReasonSpam
			})).
			Return(nil)

		req.NoError(svc.ReportAd(ReportAdCommand{AdID: stored.ID, Reason: ads.ReasonSpam}))
	})

	t.Run("an unknown reason falls back to OTHER", func(t *testing.T) {
		req := require.New(t)
		svc, adRepo, reportRepo := newAdFixture(t)

		adRepo.EXPECT().GetAd(stored.ID).Return(stored, nil)
		reportRepo.EXPECT().
			StoreReport(gomock.Cond(func(r ads.Report) bool { return r.Reason == ads.ReasonOther })).
			Return(nil)

		req.NoError(svc.ReportAd(ReportAdCommand{AdID: stored.ID, Reason: "??"}))
	})

	t.Run("reporting a missing ad fails", func(t *testing.T) {
		req := require.New(t)
		svc, adRepo, reportRepo := newAdFixture(t)

		adRepo.EXPECT().GetAd(stored.ID).Return(ads.Ad{}, errors.ErrAdNotFound)
		reportRepo.EXPECT().StoreReport(gomock.Any()).Times(0)

		req.ErrorIs(svc.ReportAd(ReportAdCommand{AdID: stored.ID, Reason: ads.ReasonSpam}), errors.ErrAdNotFound)
	})
}
