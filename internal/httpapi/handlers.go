package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/thecodersourabh/salvatore-api/cache"
	"github.com/thecodersourabh/salvatore-api/internal/catalog"
	"github.com/thecodersourabh/salvatore-api/internal/store"
)

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.respond(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	s.respond(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// pathID parses the named uuid path parameter, writing a 400 itself on
// failure.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		s.respond(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	u, err := s.accounts.GetUser(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, u)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := s.accounts.GetProfile(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, p)
}

type profileRequest struct {
	DisplayName string   `json:"display_name"`
	Bio         string   `json:"bio"`
	Skills      []string `json:"skills"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respond(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	p, err := s.accounts.UpdateProfile(r.Context(), store.Profile{
		UserID:      id,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Skills:      req.Skills,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, p)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := s.catalog.GetProduct(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, p)
}

type productRequest struct {
	SellerID    uuid.UUID `json:"seller_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PriceCents  int64     `json:"price_cents"`
	Published   bool      `json:"published"`
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respond(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if req.SellerID == uuid.Nil || req.Name == "" {
		s.respond(w, http.StatusBadRequest, map[string]string{"error": "seller_id and name are required"})
		return
	}
	p, err := s.catalog.CreateProduct(r.Context(), store.Product{
		SellerID:    req.SellerID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respond(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	p, err := s.catalog.UpdateProduct(r.Context(), store.Product{
		ID:          id,
		SellerID:    req.SellerID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
		Published:   req.Published,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, p)
}

func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	sl, err := s.catalog.GetService(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, sl)
}

func (s *Server) handleListSellerProducts(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := s.pathID(w, r, "sellerID")
	if !ok {
		return
	}
	f := catalog.Filter{
		Category: r.URL.Query().Get("category"),
		Query:    r.URL.Query().Get("q"),
	}
	list, err := s.catalog.ListBySeller(r.Context(), sellerID, f)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if list == nil {
		list = []store.Product{}
	}
	s.respond(w, http.StatusOK, list)
}

func (s *Server) handleSellerStats(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := s.pathID(w, r, "sellerID")
	if !ok {
		return
	}
	st, err := s.orders.SellerStats(r.Context(), sellerID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, st)
}

func (s *Server) handleRecomputeStats(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := s.pathID(w, r, "sellerID")
	if !ok {
		return
	}
	if err := s.orders.RecomputeStats(r.Context(), sellerID); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	o, err := s.orders.GetOrder(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, o)
}

type orderRequest struct {
	BuyerID    uuid.UUID `json:"buyer_id"`
	SellerID   uuid.UUID `json:"seller_id"`
	ProductID  uuid.UUID `json:"product_id"`
	TotalCents int64     `json:"total_cents"`
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respond(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if req.BuyerID == uuid.Nil || req.SellerID == uuid.Nil || req.ProductID == uuid.Nil {
		s.respond(w, http.StatusBadRequest, map[string]string{"error": "buyer_id, seller_id and product_id are required"})
		return
	}
	o, err := s.orders.PlaceOrder(r.Context(), store.Order{
		BuyerID:    req.BuyerID,
		SellerID:   req.SellerID,
		ProductID:  req.ProductID,
		TotalCents: req.TotalCents,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, o)
}

type debugCacheResponse struct {
	Cache    cache.Stats           `json:"cache"`
	Counters cache.CounterSnapshot `json:"counters"`
}

func (s *Server) handleDebugCache(w http.ResponseWriter, r *http.Request) {
	resp := debugCacheResponse{Cache: s.cache.Stats()}
	if s.metrics != nil {
		resp.Counters = s.metrics.Snapshot()
	}
	s.respond(w, http.StatusOK, resp)
}
