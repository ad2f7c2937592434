package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shadeworks/cache"
	"shadeworks/core/admin"
	"shadeworks/core/catalog"
	"shadeworks/core/quote"
	"shadeworks/internal/errors"
)

// Server routes storefront and back-office requests to the core services
type Server struct {
	quotes   *quote.Service
	rows     catalog.RowStore
	admin    *admin.Service
	cache    *cache.Store
	validate *validator.Validate
	log      *zap.Logger
	router   chi.Router
	version  string
}

// NewServer wires the router. All handlers are thin: parse, call core,
// shape JSON.
func NewServer(quotes *quote.Service, rows catalog.RowStore, adminSvc *admin.Service, cacheStore *cache.Store, log *zap.Logger, version string) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		quotes:   quotes,
		rows:     rows,
		admin:    adminSvc,
		cache:    cacheStore,
		validate: validator.New(),
		log:      log,
		version:  version,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/quote", s.handleQuote)
		r.Get("/products", s.handleListProducts)
		r.Get("/categories", s.handleListCategories)
		r.Get("/hero-banners", s.handleListHeroBanners)
		r.Get("/rooms", s.handleListRooms)
		r.Get("/home", s.handleHomepage)

		r.Route("/admin", func(r chi.Router) {
			r.Put("/products", s.handleUpsertProduct)
			r.Put("/pricing-matrix", s.handleUpsertMatrixRow)
			r.Delete("/pricing-matrix/{id}", s.handleDeleteMatrixRow)
			r.Put("/fabric-pricing", s.handleUpsertFabricRow)
			r.Delete("/fabric-pricing/{id}", s.handleDeleteFabricRow)
			r.Put("/categories", s.handleUpsertCategory)
			r.Put("/hero-banners", s.handleUpsertHeroBanner)
			r.Put("/rooms", s.handleUpsertRoom)
			r.Post("/cache/refresh", s.handleCacheRefresh)
			r.Get("/cache/stats", s.handleCacheStats)
		})
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger tags each request with an id and logs its outcome
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

// handleQuote handles GET /api/v1/quote
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	productID, err := strconv.ParseInt(q.Get("product"), 10, 64)
	if err != nil || productID <= 0 {
		s.writeError(w, errors.Input("product must be a positive integer id"))
		return
	}

	width, err := strconv.ParseFloat(q.Get("width"), 64)
	if err != nil {
		s.writeError(w, errors.InvalidDimension("width must be a number, got %q", q.Get("width")))
		return
	}

	height, err := strconv.ParseFloat(q.Get("height"), 64)
	if err != nil {
		s.writeError(w, errors.InvalidDimension("height must be a number, got %q", q.Get("height")))
		return
	}

	var materialID int64
	if raw := q.Get("material"); raw != "" {
		if materialID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			s.writeError(w, errors.Input("material must be an integer id"))
			return
		}
	}

	result, err := s.quotes.Quote(r.Context(), productID, width, height, materialID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, newQuoteResponse(result), http.StatusOK)
}

// handleListProducts handles GET /api/v1/products (cached)
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := cache.GetOrCompute(r.Context(), s.cache, cache.NamespaceProducts,
		cache.ListKey("products", nil), s.rows.ListProducts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, products, http.StatusOK)
}

// handleListCategories handles GET /api/v1/categories (cached)
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := cache.GetOrCompute(r.Context(), s.cache, cache.NamespaceCategories,
		cache.ListKey("categories", nil), s.rows.ListCategories)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, categories, http.StatusOK)
}

// handleListHeroBanners handles GET /api/v1/hero-banners (cached)
func (s *Server) handleListHeroBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := cache.GetOrCompute(r.Context(), s.cache, cache.NamespaceHeroBanners,
		cache.ListKey("heroBanners", nil), s.rows.ListHeroBanners)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, banners, http.StatusOK)
}

// handleListRooms handles GET /api/v1/rooms (cached)
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := cache.GetOrCompute(r.Context(), s.cache, cache.NamespaceRooms,
		cache.ListKey("rooms", nil), s.rows.ListRooms)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, rooms, http.StatusOK)
}

// handleHomepage handles GET /api/v1/home, the homepage composite
func (s *Server) handleHomepage(w http.ResponseWriter, r *http.Request) {
	home, err := cache.GetOrCompute(r.Context(), s.cache, cache.NamespaceHomepage,
		cache.ListKey("home", nil), func(ctx context.Context) (HomepageResponse, error) {
			banners, err := s.rows.ListHeroBanners(ctx)
			if err != nil {
				return HomepageResponse{}, err
			}
			categories, err := s.rows.ListCategories(ctx)
			if err != nil {
				return HomepageResponse{}, err
			}
			rooms, err := s.rows.ListRooms(ctx)
			if err != nil {
				return HomepageResponse{}, err
			}
			return HomepageResponse{Banners: banners, Categories: categories, Rooms: rooms}, nil
		})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, home, http.StatusOK)
}

// handleUpsertProduct handles PUT /api/v1/admin/products
func (s *Server) handleUpsertProduct(w http.ResponseWriter, r *http.Request) {
	var req UpsertProductRequest
	if !s.decode(w, r, &req) {
		return
	}

	basePrice, err := decimal.NewFromString(req.BasePrice)
	if err != nil {
		s.writeError(w, errors.Input("base_price must be a decimal string"))
		return
	}

	id, err := s.admin.UpsertProduct(r.Context(), catalog.Product{
		ID:        req.ID,
		Name:      req.Name,
		Slug:      req.Slug,
		BasePrice: basePrice,
		MinWidth:  req.MinWidth,
		MaxWidth:  req.MaxWidth,
		MinHeight: req.MinHeight,
		MaxHeight: req.MaxHeight,
		Active:    req.Active,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, IDResponse{ID: id}, http.StatusOK)
}

// handleUpsertMatrixRow handles PUT /api/v1/admin/pricing-matrix
func (s *Server) handleUpsertMatrixRow(w http.ResponseWriter, r *http.Request) {
	var req UpsertMatrixRowRequest
	if !s.decode(w, r, &req) {
		return
	}

	basePrice, err := decimal.NewFromString(req.BasePrice)
	if err != nil {
		s.writeError(w, errors.Input("base_price must be a decimal string"))
		return
	}

	id, err := s.admin.UpsertMatrixRow(r.Context(), catalog.PricingMatrixRow{
		ID:        req.ID,
		ProductID: req.ProductID,
		Width:     catalog.DimensionRange{Min: req.MinWidth, Max: req.MaxWidth},
		Height:    catalog.DimensionRange{Min: req.MinHeight, Max: req.MaxHeight},
		BasePrice: basePrice,
		Active:    req.Active,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, IDResponse{ID: id}, http.StatusOK)
}

// handleDeleteMatrixRow handles DELETE /api/v1/admin/pricing-matrix/{id}
func (s *Server) handleDeleteMatrixRow(w http.ResponseWriter, r *http.Request) {
	id, productID, ok := s.deleteParams(w, r)
	if !ok {
		return
	}
	if err := s.admin.DeleteMatrixRow(r.Context(), id, productID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, IDResponse{ID: id}, http.StatusOK)
}

// handleUpsertFabricRow handles PUT /api/v1/admin/fabric-pricing
func (s *Server) handleUpsertFabricRow(w http.ResponseWriter, r *http.Request) {
	var req UpsertFabricRowRequest
	if !s.decode(w, r, &req) {
		return
	}

	rate, err := decimal.NewFromString(req.PricePerSqft)
	if err != nil {
		s.writeError(w, errors.Input("price_per_sqft must be a decimal string"))
		return
	}

	id, err := s.admin.UpsertFabricRow(r.Context(), catalog.FabricPricingRow{
		ID:           req.ID,
		ProductID:    req.ProductID,
		MaterialID:   req.MaterialID,
		Width:        catalog.DimensionRange{Min: req.MinWidth, Max: req.MaxWidth},
		PricePerSqft: rate,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, IDResponse{ID: id}, http.StatusOK)
}

// handleDeleteFabricRow handles DELETE /api/v1/admin/fabric-pricing/{id}
func (s *Server) handleDeleteFabricRow(w http.ResponseWriter, r *http.Request) {
	id, productID, ok := s.deleteParams(w, r)
	if !ok {
		return
	}
	if err := s.admin.DeleteFabricRow(r.Context(), id, productID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, IDResponse{ID: id}, http.StatusOK)
}

// handleUpsertCategory handles PUT /api/v1/admin/categories
func (s *Server) handleUpsertCategory(w http.ResponseWriter, r *http.Request) {
	var req UpsertCategoryRequest
	if !s.decode(w, r, &req) {
		return
	}
	id, err := s.admin.UpsertCategory(r.Context(), catalog.Category{ID: req.ID, Name: req.Name, Slug: req.Slug})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, IDResponse{ID: id}, http.StatusOK)
}

// handleUpsertHeroBanner handles PUT /api/v1/admin/hero-banners
func (s *Server) handleUpsertHeroBanner(w http.ResponseWriter, r *http.Request) {
	var req UpsertHeroBannerRequest
	if !s.decode(w, r, &req) {
		return
	}
	id, err := s.admin.UpsertHeroBanner(r.Context(), catalog.HeroBanner{
		ID:       req.ID,
		Title:    req.Title,
		ImageURL: req.ImageURL,
		Position: req.Position,
		Active:   req.Active,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, IDResponse{ID: id}, http.StatusOK)
}

// handleUpsertRoom handles PUT /api/v1/admin/rooms
func (s *Server) handleUpsertRoom(w http.ResponseWriter, r *http.Request) {
	var req UpsertRoomRequest
	if !s.decode(w, r, &req) {
		return
	}
	id, err := s.admin.UpsertRoom(r.Context(), catalog.Room{ID: req.ID, Name: req.Name, Slug: req.Slug})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, IDResponse{ID: id}, http.StatusOK)
}

// handleCacheRefresh handles POST /api/v1/admin/cache/refresh
func (s *Server) handleCacheRefresh(w http.ResponseWriter, r *http.Request) {
	s.admin.RefreshAllCaches()
	s.writeJSON(w, map[string]string{"status": "cleared"}, http.StatusOK)
}

// handleCacheStats handles GET /api/v1/admin/cache/stats
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if ns := r.URL.Query().Get("namespace"); ns != "" {
		stats, ok := s.cache.Stats(ns)
		if !ok {
			s.writeError(w, errors.NotFound("cache namespace", ns))
			return
		}
		s.writeJSON(w, stats, http.StatusOK)
		return
	}
	s.writeJSON(w, s.cache.AllStats(), http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "shadeworks",
		"api_version": "v1",
	}, http.StatusOK)
}

// deleteParams parses {id} and the required ?product= scope for row deletes
func (s *Server) deleteParams(w http.ResponseWriter, r *http.Request) (id, productID int64, ok bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, errors.Input("id must be a positive integer"))
		return 0, 0, false
	}
	productID, err = strconv.ParseInt(r.URL.Query().Get("product"), 10, 64)
	if err != nil || productID <= 0 {
		s.writeError(w, errors.Input("product query parameter is required to scope invalidation"))
		return 0, 0, false
	}
	return id, productID, true
}

// decode parses and validates a JSON request body
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, errors.Wrap(errors.TypeInput, "invalid JSON body", err))
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.writeError(w, errors.Wrap(errors.TypeInput, "validation failed", err))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError maps core error types to HTTP statuses
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	errType := errors.TypeInternal
	message := err.Error()

	if e, ok := err.(*errors.Error); ok {
		errType = e.Type
		message = e.Message
		switch e.Type {
		case errors.TypeInput, errors.TypeInvalidDimension:
			status = http.StatusBadRequest
		case errors.TypeNotFound:
			status = http.StatusNotFound
		case errors.TypeStoreUnavailable:
			status = http.StatusServiceUnavailable
		}
	}

	if status >= 500 {
		s.log.Error("request failed", zap.Error(err))
	}

	s.writeJSON(w, ErrorResponse{Error: ErrorBody{Type: string(errType), Message: message}}, status)
}
