// Package mock provides a local in-memory HomeShare API server so the smoke
// suite can be exercised without a live deployment.
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homeshare-india/smokecheck/packages/smoke"
)

// Listing is a property record served by the mock API.
type Listing struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description,omitempty"`
	PricePerNight float64                `json:"price_per_night"`
	PropertyType  string                 `json:"property_type"`
	Location      smoke.PropertyLocation `json:"location"`
	Images        []string               `json:"images,omitempty"`
	Amenities     []string               `json:"amenities,omitempty"`
	MaxGuests     int                    `json:"max_guests,omitempty"`
	Bedrooms      int                    `json:"bedrooms,omitempty"`
	Bathrooms     int                    `json:"bathrooms,omitempty"`
	HostName      string                 `json:"host_name,omitempty"`
}

// Server is a mock HomeShare API server
type Server struct {
	mu       sync.RWMutex
	listings []*Listing
	port     int
	delay    time.Duration
	verbose  bool
}

// Option is a functional option for Server
type Option func(*Server)

// WithPort sets the server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

// WithVerbose enables request logging
func WithVerbose(verbose bool) Option {
	return func(s *Server) {
		s.verbose = verbose
	}
}

// NewServer creates a mock server seeded with a few listings
func NewServer(opts ...Option) *Server {
	s := &Server{
		port:     8000,
		listings: seedListings(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func seedListings() []*Listing {
	return []*Listing{
		{
			ID:            uuid.New().String(),
			Title:         "Sea View Apartment",
			Description:   "Two-bedroom apartment overlooking Marine Drive",
			PricePerNight: 3500,
			PropertyType:  "apartment",
			Location:      smoke.PropertyLocation{City: "Mumbai", State: "Maharashtra", Area: "Marine Drive", Pincode: "400020"},
			Amenities:     []string{"WiFi", "AC", "Kitchen"},
			MaxGuests:     4,
			Bedrooms:      2,
			Bathrooms:     2,
			HostName:      "Priya",
		},
		{
			ID:            uuid.New().String(),
			Title:         "Garden Villa",
			Description:   "Quiet villa near Anjuna beach",
			PricePerNight: 8000,
			PropertyType:  "villa",
			Location:      smoke.PropertyLocation{City: "Goa", State: "Goa", Area: "Anjuna", Pincode: "403509"},
			Amenities:     []string{"WiFi", "Pool", "Parking"},
			MaxGuests:     6,
			Bedrooms:      3,
			Bathrooms:     3,
			HostName:      "Rahul",
		},
		{
			ID:            uuid.New().String(),
			Title:         "Heritage Haveli Room",
			PricePerNight: 2200,
			PropertyType:  "room",
			Location:      smoke.PropertyLocation{City: "Jaipur", State: "Rajasthan", Area: "Old City", Pincode: "302002"},
			Amenities:     []string{"WiFi"},
			MaxGuests:     2,
			Bedrooms:      1,
			Bathrooms:     1,
			HostName:      "Meera",
		},
	}
}

// Handler returns the HTTP handler for the mock API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api", s.wrap(s.handleRoot))
	mux.HandleFunc("/api/", s.wrap(s.handleRoot))
	mux.HandleFunc("/api/properties", s.wrap(s.handleProperties))
	mux.HandleFunc("/api/properties/search/cities", s.wrap(s.handleCities))
	mux.HandleFunc("/api/properties/", s.wrap(s.handlePropertyByID))

	return mux
}

// Start runs the server until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("mock HomeShare API listening on :%d", s.port)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
		if s.verbose {
			log.Printf("%s %s", r.Method, r.URL.String())
		}
		next(w, r)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	// The trailing-slash pattern also catches unknown /api/* paths.
	if r.URL.Path != "/api" && r.URL.Path != "/api/" {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "HomeShare India API"})
}

func (s *Server) handleProperties(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listProperties(w, r)
	case http.MethodPost:
		s.createProperty(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "Method Not Allowed"})
	}
}

func (s *Server) listProperties(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid limit"})
			return
		}
		limit = n
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*Listing, 0, len(s.listings))
	for _, l := range s.listings {
		if city != "" && !strings.EqualFold(l.Location.City, city) {
			continue
		}
		matched = append(matched, l)
	}

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	writeJSON(w, http.StatusOK, matched)
}

func (s *Server) createProperty(w http.ResponseWriter, r *http.Request) {
	var payload smoke.PropertyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
		return
	}

	if payload.Title == "" || payload.PricePerNight <= 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "title and price_per_night are required"})
		return
	}

	listing := &Listing{
		ID:            uuid.New().String(),
		Title:         payload.Title,
		Description:   payload.Description,
		PricePerNight: payload.PricePerNight,
		PropertyType:  payload.PropertyType,
		Location:      payload.Location,
		Images:        payload.Images,
		Amenities:     payload.Amenities,
		MaxGuests:     payload.MaxGuests,
		Bedrooms:      payload.Bedrooms,
		Bathrooms:     payload.Bathrooms,
		HostName:      payload.HostName,
	}

	s.mu.Lock()
	s.listings = append(s.listings, listing)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, listing)
}

func (s *Server) handlePropertyByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/properties/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.listings {
		if l.ID == id {
			writeJSON(w, http.StatusOK, l)
			return
		}
	}

	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Property not found"})
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	cities := make([]string, 0)
	for _, l := range s.listings {
		if l.Location.City == "" || seen[l.Location.City] {
			continue
		}
		seen[l.Location.City] = true
		cities = append(cities, l.Location.City)
	}

	writeJSON(w, http.StatusOK, cities)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
