package e2e

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type testMarketplaceSuite struct {
	BaseSuite
}

func TestMarketplaceSuite(t *testing.T) {
	suite.Run(t, &testMarketplaceSuite{})
}

type adReply struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Status   string   `json:"status"`
	Owner    string   `json:"owner"`
	Price    *float64 `json:"price"`
	Category string   `json:"category"`
}

func (s *testMarketplaceSuite) signup(t *testing.T, username string) sessionReply {
	var session sessionReply
	status := s.Request(t, http.MethodPost, "/api/users/signup", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "ComplexPass123!",
	}, &session)
	s.Require().Equal(http.StatusCreated, status)
	return session
}

func (s *testMarketplaceSuite) TestAdLifecycle() {
	t := s.T()

	var seller, buyer sessionReply
	var ad adReply

	s.Run("Step 1: seller and buyer sign up", func() {
		s.Header(t, "SIGNUP")
		seller = s.signup(t, "seller")
		buyer = s.signup(t, "buyer")
	})

	s.Run("Step 2: seller publishes an ad", func() {
		s.Header(t, "PUBLISH")
		price := 25.0
		status := s.Request(t, http.MethodPost, "/api/ads", seller.token(), map[string]any{
			"title":       "Desk lamp, almost new",
			"description": "Warm light, adjustable arm, pickup only",
			"type":        "IS",
			"category":    "HO",
			"location":    "PR",
			"price":       price,
		}, &ad)
		s.Require().Equal(http.StatusCreated, status)
		s.Require().Equal("NS", ad.Status)
		s.Require().Equal(seller.User.ID, ad.Owner)
	})

	s.Run("Step 3: the ad is found by full-text search", func() {
		s.Header(t, "SEARCH")
		var result struct {
			Ads []adReply `json:"ads"`
		}
		status := s.Request(t, http.MethodGet, "/api/ads/search?q=lamp", buyer.token(), nil, &result)
		s.Require().Equal(http.StatusOK, status)
		s.Require().Len(result.Ads, 1)
		s.Require().Equal(ad.ID, result.Ads[0].ID)
	})

	s.Run("Step 4: listing filters narrow by category and price", func() {
		s.Header(t, "FILTERS")
		var result struct {
			Ads []adReply `json:"ads"`
		}
		status := s.Request(t, http.MethodGet, "/api/ads?category=HO&min_price=10&max_price=30", buyer.token(), nil, &result)
		s.Require().Equal(http.StatusOK, status)
		s.Require().Len(result.Ads, 1)

		status = s.Request(t, http.MethodGet, "/api/ads?category=BK", buyer.token(), nil, &result)
		s.Require().Equal(http.StatusOK, status)
		s.Require().Empty(result.Ads)
	})

	s.Run("Step 5: the buyer cannot touch the seller's ad", func() {
		s.Header(t, "OWNERSHIP")
		status := s.Request(t, http.MethodDelete, "/api/ads/"+ad.ID, buyer.token(), nil, nil)
		s.Require().Equal(http.StatusForbidden, status)
	})

	s.Run("Step 6: the buyer reports the ad", func() {
		s.Header(t, "REPORT")
		status := s.Request(t, http.MethodPost, "/api/ads/"+ad.ID+"/report", buyer.token(), map[string]string{
			"reason":        "OTHER",
			"other_details": "price seems off",
		}, nil)
		s.Require().Equal(http.StatusCreated, status)
	})

	s.Run("Step 7: the seller deletes the ad and it leaves listings and search", func() {
		s.Header(t, "DELETE")
		status := s.Request(t, http.MethodDelete, "/api/ads/"+ad.ID, seller.token(), nil, nil)
		s.Require().Equal(http.StatusNoContent, status)

		var result struct {
			Ads []adReply `json:"ads"`
		}
		status = s.Request(t, http.MethodGet, "/api/ads?category=HO", buyer.token(), nil, &result)
		s.Require().Equal(http.StatusOK, status)
		s.Require().Empty(result.Ads)

		status = s.Request(t, http.MethodGet, "/api/ads/search?q=lamp", buyer.token(), nil, &result)
		s.Require().Equal(http.StatusOK, status)
		s.Require().Empty(result.Ads)

		// The record itself stays resolvable.
		var deleted adReply
		status = s.Request(t, http.MethodGet, "/api/ads/"+ad.ID, buyer.token(), nil, &deleted)
		s.Require().Equal(http.StatusOK, status)
		s.Require().Equal("DE", deleted.Status)
	})
}
