package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"unimarket/domain/ads"
	"unimarket/errors"
	"unimarket/services"
)

type adResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Status      string   `json:"status"`
	Price       *float64 `json:"price"`
	CreatedAt   string   `json:"created_at"`
	Owner       string   `json:"owner"`
	Images      []string `json:"images"`
}

func toAdResponse(ad ads.Ad) adResponse {
	return adResponse{
		ID:          ad.ID.String(),
		Title:       ad.Title,
		Description: ad.Description,
		Type:        string(ad.Type),
		Category:    ad.Category,
		Location:    ad.Location,
		Status:      string(ad.Status),
		Price:       ad.Price,
		CreatedAt:   ad.CreatedAt.Format(time.RFC3339),
		Owner:       ad.OwnerID,
		Images:      ad.Images,
	}
}

func adListResponse(list []ads.Ad) map[string]any {
	return map[string]any{"ads": lo.Map(list, func(ad ads.Ad, _ int) adResponse {
		return toAdResponse(ad)
	})}
}

type adRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Status      string   `json:"status"`
	Price       *float64 `json:"price"`
	Images      []string `json:"images"`
}

func adIDFromURL(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "adID"))
	if err != nil {
		return uuid.Nil, errors.ErrAdNotFound
	}
	return id, nil
}

func (rt *Router) createAd(w http.ResponseWriter, r *http.Request) {
	var body adRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	ad, err := rt.ads.CreateAd(services.CreateAdCommand{
		OwnerID:     userFrom(r).ID,
		Title:       body.Title,
		Description: body.Description,
		Type:        body.Type,
		Category:    body.Category,
		Location:    body.Location,
		Price:       body.Price,
		Images:      body.Images,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toAdResponse(ad))
}

func (rt *Router) getAd(w http.ResponseWriter, r *http.Request) {
	id, err := adIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	ad, err := rt.ads.GetAd(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toAdResponse(ad))
}

// listAds narrows the listing with optional query parameters: category,
// location, status, min_price and max_price.
func (rt *Router) listAds(w http.ResponseWriter, r *http.Request) {
	filter := ads.Filter{}
	query := r.URL.Query()

	if v := query.Get("category"); v != "" {
		filter.Category = &v
	}
	if v := query.Get("location"); v != "" {
		filter.Location = &v
	}
	if v := query.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := query.Get("min_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid min_price"})
			return
		}
		filter.MinPrice = &price
	}
	if v := query.Get("max_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid max_price"})
			return
		}
		filter.MaxPrice = &price
	}

	list, err := rt.ads.ListAds(filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, adListResponse(list))
}

func (rt *Router) searchAds(w http.ResponseWriter, r *http.Request) {
	terms := r.URL.Query().Get("q")
	if terms == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "missing q parameter"})
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	list, err := rt.ads.SearchAds(r.Context(), terms, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, adListResponse(list))
}

func (rt *Router) updateAd(w http.ResponseWriter, r *http.Request) {
	id, err := adIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var body adRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	ad, err := rt.ads.UpdateAd(userFrom(r).ID, services.UpdateAdCommand{
		ID:          id,
		Title:       body.Title,
		Description: body.Description,
		Type:        body.Type,
		Category:    body.Category,
		Location:    body.Location,
		Status:      body.Status,
		Price:       body.Price,
		Images:      body.Images,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toAdResponse(ad))
}

func (rt *Router) deleteAd(w http.ResponseWriter, r *http.Request) {
	id, err := adIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := rt.ads.DeleteAd(userFrom(r).ID, id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) reportAd(w http.ResponseWriter, r *http.Request) {
	id, err := adIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var body struct {
		Reason       string `json:"reason"`
		OtherDetails string `json:"other_details"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	reporter := userFrom(r).ID
	if err := rt.ads.ReportAd(services.ReportAdCommand{
		AdID:         id,
		ReportedBy:   &reporter,
		Reason:       ads.ReportReason(body.Reason),
		OtherDetails: body.OtherDetails,
	}); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "report received"})
}
