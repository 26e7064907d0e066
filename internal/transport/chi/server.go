package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/phonedex/internal/domain"
	"github.com/kailas-cloud/phonedex/internal/domain/search/filter"
	"github.com/kailas-cloud/phonedex/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/phonedex/internal/logger"
	healthuc "github.com/kailas-cloud/phonedex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/phonedex/internal/usecase/search"
	"github.com/kailas-cloud/phonedex/internal/validation"
)

// maxBodyBytes caps request bodies; bulk offer uploads are the largest.
const maxBodyBytes = 4 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Services bundles the use cases behind the HTTP API.
type Services struct {
	Phones    PhoneService
	Offers    OfferService
	Options   OptionService
	Users     UserService
	Search    SearchService
	Health    HealthService
	Validator BodyValidator
	Tokens    TokenParser
}

// Server serves the catalogue HTTP API.
type Server struct {
	phones        PhoneService
	offers        OfferService
	options       OptionService
	users         UserService
	search        SearchService
	health        HealthService
	validator     BodyValidator
	tokens        TokenParser
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, logger *zap.Logger) *Server {
	s := &Server{
		phones:    svc.Phones,
		offers:    svc.Offers,
		options:   svc.Options,
		users:     svc.Users,
		search:    svc.Search,
		health:    svc.Health,
		validator: svc.Validator,
		tokens:    svc.Tokens,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		searchErrorHandler,
		validationHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden),
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	admin := AdminMiddleware(s.tokens)

	r.Get("/", s.Index)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/phones", func(r chi.Router) {
		r.Get("/", s.ListPhones)
		r.Get("/search", s.SearchPhones)
		r.Get("/id/{id}", s.GetPhone)
		r.With(admin).Post("/", s.CreatePhone)
		r.With(admin).Patch("/{id}", s.UpdatePhone)
	})

	r.Route("/offers", func(r chi.Router) {
		r.Get("/findOffers", s.SearchOffers)
		r.Get("/id/{id}", s.GetOffer)
		r.Get("/phone/{phone_slug}", s.OffersByPhoneSlug)
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Get("/phone/id/{id}", s.OffersByPhoneID)
			r.Get("/all", s.ListOffers)
			r.Post("/add", s.AddOffer)
			r.Post("/addBulk", s.AddOffers)
			r.Patch("/update/{id}", s.UpdateOffer)
			r.Delete("/delete/{id}", s.DeleteOffer)
		})
	})

	r.Route("/options", func(r chi.Router) {
		r.Get("/id/{id}", s.GetOption)
		r.Get("/s/{name}", s.ShortOptions)
		r.Get("/m/{name}", s.PageOptions)
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/add", s.CreateOption)
			r.Patch("/update/{id}", s.UpdateOption)
			r.Delete("/delete/{id}", s.DeleteOption)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/create", s.CreateUser)
		r.Post("/login", s.Login)
		r.With(admin).Get("/", s.ListUsers)
	})

	r.NotFound(s.NotFound)
	r.MethodNotAllowed(s.NotFound)
}

// Handler returns a bare router with every endpoint registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "OK"})
}

// NotFound answers unknown routes.
func (s *Server) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]string{"message": "Page not found"},
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// --- Request bodies ---

// readBody reads the request body and checks it against schema.
func (s *Server) readBody(r *http.Request, schema string) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.NewValidationError("body", "unreadable request body")
	}
	if err := s.validator.Validate(schema, body); err != nil {
		return nil, err
	}
	return body, nil
}

// decodeBody validates the request body against schema and decodes it into dest.
func (s *Server) decodeBody(r *http.Request, schema string, dest any) error {
	body, err := s.readBody(r, schema)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return validationBodyError(err)
	}
	return nil
}

func validationBodyError(err error) error {
	return domain.NewValidationError("body", err.Error())
}

// decodePatch decodes a partial-update body: a JSON object of fields to set.
func decodePatch(r *http.Request) (map[string]any, error) {
	var set map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&set); err != nil {
		return nil, domain.NewValidationError("body", "expected a JSON object")
	}
	if len(set) == 0 {
		return nil, domain.NewValidationError("body", "no fields to update")
	}
	return set, nil
}

// --- Responses ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// isSearchError reports whether err came out of filter parsing, request assembly or the search backend.
func isSearchError(err error) bool {
	var (
		pe *filter.ParseError
		ip *request.InvalidPageError
		ql *request.QueryTooLongError
		pr *request.ProfileError
		se *searchuc.Error
	)
	return errors.As(err, &pe) || errors.As(err, &ip) || errors.As(err, &ql) ||
		errors.As(err, &pr) || errors.As(err, &se)
}

// isDomainError reports whether err is a client-facing failure rather than an internal one.
func isDomainError(err error) bool {
	if isSearchError(err) {
		return true
	}
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

var sentinels = []error{
	domain.ErrNotFound,
	domain.ErrAlreadyExists,
	domain.ErrValidation,
	domain.ErrUnauthorized,
	domain.ErrForbidden,
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

// searchErrorHandler answers every search failure with the same opaque body.
func searchErrorHandler(w http.ResponseWriter, err error, _ string) bool {
	if !isSearchError(err) {
		return false
	}
	writeError(w, http.StatusBadRequest, "error")
	return true
}

// validationHandler reports which fields were rejected.
func validationHandler(w http.ResponseWriter, err error, msg string) bool {
	var schemaErr *validation.Error
	if errors.As(err, &schemaErr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": msg,
			"errors":  schemaErr.Issues,
		})
		return true
	}
	var fieldErr *domain.ValidationError
	if errors.As(err, &fieldErr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": msg,
			"errors":  []validation.Issue{{Field: fieldErr.Field, Message: fieldErr.Reason}},
		})
		return true
	}
	return false
}

// log returns the request logger set up by the wide-event middleware.
func (s *Server) log(r *http.Request) *zap.Logger {
	return logpkg.FromContext(r.Context(), s.logger)
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	s.log(r).Warn("domain error", zap.String("path", r.URL.Path), zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.log(r).Error("internal error", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

// handleRouteError answers domain errors with a route's own failure body.
// Internal errors still go through the regular chain.
func (s *Server) handleRouteError(w http.ResponseWriter, r *http.Request, err error, status int, body any) {
	if !isDomainError(err) {
		s.handleDomainError(w, r, err)
		return
	}
	s.log(r).Warn("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeJSON(w, status, body)
}

func message(text string) map[string]string {
	return map[string]string{"message": text}
}
