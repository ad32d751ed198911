// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apitest runs an in-process Journey360 backend for tests.
//
// The fake serves the trip, itinerary, safety and chat endpoints plus a
// minimal Identity Toolkit (accounts:signInWithPassword, accounts:signUp,
// token refresh) so that session.FirebaseProvider and api.Client can be
// exercised end to end without network access. Itineraries are generated
// deterministically from the trip's destination and dates.
package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jeranaias/journey360-tui/internal/config"
	"github.com/jeranaias/journey360-tui/internal/geo"
	"github.com/jeranaias/journey360-tui/internal/trip"
)

// APIKey is the identity key the fake accepts.
const APIKey = "test-api-key"

// TokenTTL is the lifetime of minted ID tokens.
const TokenTTL = time.Hour

// centers places generated itineraries near a real city.
var centers = map[string]geo.Point{
	"kyoto":    {Lat: 35.0116, Lng: 135.7681},
	"tokyo":    {Lat: 35.6762, Lng: 139.6503},
	"paris":    {Lat: 48.8566, Lng: 2.3522},
	"goa":      {Lat: 15.2993, Lng: 74.1240},
	"new york": {Lat: 40.7128, Lng: -74.0060},
}

var fallbackCenter = geo.Point{Lat: 51.5074, Lng: -0.1278}

var slots = []string{"Morning", "Afternoon", "Evening"}

type account struct {
	uid      string
	email    string
	password string
}

type canned struct {
	status int
	body   string
}

// Backend is a running fake. Safe for concurrent use.
type Backend struct {
	server *httptest.Server
	secret []byte

	mu          sync.Mutex
	accounts    map[string]*account // by email
	refresh     map[string]string   // refresh token -> uid
	trips       []trip.Trip
	itineraries map[string]*trip.Itinerary
	pending     map[string][]canned
	hits        map[string]int
	delay       map[string]time.Duration
	lastRequest map[string]*http.Request
	lastBody    map[string][]byte
}

// New starts a backend and stops it when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		secret:      []byte("apitest-signing-secret"),
		accounts:    make(map[string]*account),
		refresh:     make(map[string]string),
		itineraries: make(map[string]*trip.Itinerary),
		pending:     make(map[string][]canned),
		hits:        make(map[string]int),
		delay:       make(map[string]time.Duration),
		lastRequest: make(map[string]*http.Request),
		lastBody:    make(map[string][]byte),
	}
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	return b
}

// URL is the backend base URL.
func (b *Backend) URL() string {
	return b.server.URL
}

// IdentityConfig points a FirebaseProvider at the fake identity endpoints.
func (b *Backend) IdentityConfig() config.IdentityConfig {
	return config.IdentityConfig{
		APIKey:   APIKey,
		AuthURL:  b.server.URL + "/identity/v1",
		TokenURL: b.server.URL + "/identity/token",
	}
}

// AddUser registers an account and returns its uid.
func (b *Backend) AddUser(email, password string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(email, password).uid
}

func (b *Backend) addUserLocked(email, password string) *account {
	a := &account{uid: "uid-" + uuid.NewString()[:8], email: strings.ToLower(email), password: password}
	b.accounts[a.email] = a
	return a
}

// MintToken signs an ID token for uid valid for ttl.
func (b *Backend) MintToken(uid, email string, ttl time.Duration) string {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     uid,
		"user_id": uid,
		"email":   email,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	})
	s, err := tok.SignedString(b.secret)
	if err != nil {
		panic(err)
	}
	return s
}

// FailNext makes the next request to path fail with status. A non-empty
// detail is returned as {"detail": detail}; otherwise the body is plain text.
func (b *Backend) FailNext(path string, status int, detail string) {
	body := http.StatusText(status)
	if detail != "" {
		data, _ := json.Marshal(map[string]string{"detail": detail})
		body = string(data)
	}
	b.RespondNext(path, status, body)
}

// RespondNext makes the next request to path return body verbatim.
func (b *Backend) RespondNext(path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[path] = append(b.pending[path], canned{status: status, body: body})
}

// Delay holds requests to path for d or until the client goes away.
func (b *Backend) Delay(path string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delay[path] = d
}

// Hits returns how many requests reached path.
func (b *Backend) Hits(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

// TotalHits counts every request the backend has seen.
func (b *Backend) TotalHits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, h := range b.hits {
		n += h
	}
	return n
}

// LastRequest returns the most recent request to path, or nil.
func (b *Backend) LastRequest(path string) *http.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastRequest[path]
}

// LastBody returns the body of the most recent request to path.
func (b *Backend) LastBody(path string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastBody[path]
}

// PutItinerary stores it as the itinerary for its trip.
func (b *Backend) PutItinerary(it *trip.Itinerary) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.itineraries[it.TripID] = it
}

// Trips returns a copy of every stored trip.
func (b *Backend) Trips() []trip.Trip {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]trip.Trip(nil), b.trips...)
}

// =============================================================================
// ROUTING
// =============================================================================

type ctxKey struct{}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(b.record)

	r.Post("/identity/v1/*", b.handleAccounts)
	r.Post("/identity/token", b.handleRefresh)

	r.Group(func(r chi.Router) {
		r.Use(b.authenticate)
		r.Post("/trip/create", b.handleCreateTrip)
		r.Get("/trips", b.handleListTrips)
		r.Get("/trip/{tripID}/itinerary", b.handleGetItinerary)
		r.Post("/ai/itinerary/generate", b.handleGenerate)
		r.Post("/ai/itinerary/regenerate", b.handleRegenerate)
		r.Get("/ai/itinerary/ar-nearby", b.handleNearby)
		r.Post("/ai/post-trip/summary", b.handleSummary)
		r.Post("/ai/safety/assess", b.handleSafety)
		r.Post("/ai/chat", b.handleChat)
	})
	return r
}

// record counts the request, applies any delay and serves canned responses.
func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		body, _ := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		r.Body = io.NopCloser(bytes.NewReader(body))
		b.mu.Lock()
		b.lastBody[path] = body
		b.hits[path]++
		b.lastRequest[path] = r.Clone(context.Background())
		d := b.delay[path]
		var reply *canned
		if q := b.pending[path]; len(q) > 0 {
			reply = &q[0]
			b.pending[path] = q[1:]
		}
		b.mu.Unlock()

		if id := r.Header.Get("X-Request-ID"); id != "" {
			w.Header().Set("X-Request-ID", id)
		}
		if d > 0 {
			select {
			case <-time.After(d):
			case <-r.Context().Done():
				return
			}
		}
		if reply != nil {
			if strings.HasPrefix(reply.body, "{") || strings.HasPrefix(reply.body, "[") {
				w.Header().Set("Content-Type", "application/json")
			}
			w.WriteHeader(reply.status)
			_, _ = w.Write([]byte(reply.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeDetail(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}
		tok, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return b.secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !tok.Valid {
			writeDetail(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		uid, _ := tok.Claims.GetSubject()
		if uid == "" {
			writeDetail(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, uid)))
	})
}

func uidFrom(r *http.Request) string {
	uid, _ := r.Context().Value(ctxKey{}).(string)
	return uid
}

// =============================================================================
// IDENTITY TOOLKIT
// =============================================================================

func (b *Backend) handleAccounts(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("key") != APIKey {
		writeIdentityError(w, http.StatusBadRequest, "API_KEY_INVALID")
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "INVALID_JSON")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	b.mu.Lock()
	var acct *account
	switch chi.URLParam(r, "*") {
	case "accounts:signInWithPassword":
		a, ok := b.accounts[email]
		if !ok || a.password != req.Password {
			b.mu.Unlock()
			writeIdentityError(w, http.StatusBadRequest, "INVALID_LOGIN_CREDENTIALS")
			return
		}
		acct = a
	case "accounts:signUp":
		switch {
		case !strings.Contains(email, "@"):
			b.mu.Unlock()
			writeIdentityError(w, http.StatusBadRequest, "INVALID_EMAIL")
			return
		case len(req.Password) < 6:
			b.mu.Unlock()
			writeIdentityError(w, http.StatusBadRequest, "WEAK_PASSWORD : Password should be at least 6 characters")
			return
		}
		if _, exists := b.accounts[email]; exists {
			b.mu.Unlock()
			writeIdentityError(w, http.StatusBadRequest, "EMAIL_EXISTS")
			return
		}
		acct = b.addUserLocked(email, req.Password)
	default:
		b.mu.Unlock()
		writeIdentityError(w, http.StatusNotFound, "OPERATION_NOT_ALLOWED")
		return
	}
	refresh := "rt-" + uuid.NewString()
	b.refresh[refresh] = acct.uid
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"localId":      acct.uid,
		"email":        acct.email,
		"idToken":      b.MintToken(acct.uid, acct.email, TokenTTL),
		"refreshToken": refresh,
		"expiresIn":    strconv.Itoa(int(TokenTTL.Seconds())),
	})
}

func (b *Backend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("key") != APIKey {
		writeIdentityError(w, http.StatusBadRequest, "API_KEY_INVALID")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "INVALID_REFRESH_TOKEN")
		return
	}
	b.mu.Lock()
	uid, ok := b.refresh[r.PostForm.Get("refresh_token")]
	var email string
	for _, a := range b.accounts {
		if a.uid == uid {
			email = a.email
		}
	}
	b.mu.Unlock()
	if !ok {
		writeIdentityError(w, http.StatusBadRequest, "INVALID_REFRESH_TOKEN")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"user_id":       uid,
		"id_token":      b.MintToken(uid, email, TokenTTL),
		"refresh_token": r.PostForm.Get("refresh_token"),
		"expires_in":    strconv.Itoa(int(TokenTTL.Seconds())),
	})
}

// =============================================================================
// TRIPS
// =============================================================================

func (b *Backend) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req trip.NewTrip
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "body", "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Destination) == "" {
		writeValidation(w, "destination", "field required")
		return
	}
	t := trip.Trip{
		ID:          "trip-" + uuid.NewString()[:8],
		UserID:      uidFrom(r),
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Days:        tripDays(req.StartDate, req.EndDate),
		Budget:      trip.Amount(req.Budget),
		BudgetLevel: budgetLevel(req.Budget),
		Interests:   req.Interests,
		Pace:        req.Pace,
		Status:      "CREATED",
	}
	if t.Interests == nil {
		t.Interests = []string{}
	}
	b.mu.Lock()
	b.trips = append(b.trips, t)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, t)
}

func (b *Backend) handleListTrips(w http.ResponseWriter, r *http.Request) {
	uid := uidFrom(r)
	b.mu.Lock()
	out := []trip.Trip{}
	for i := len(b.trips) - 1; i >= 0; i-- {
		if b.trips[i].UserID == uid {
			out = append(out, b.trips[i])
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

// ownedTrip returns the caller's trip or writes a 404.
func (b *Backend) ownedTrip(w http.ResponseWriter, r *http.Request, id string) (trip.Trip, bool) {
	uid := uidFrom(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range b.trips {
		if t.ID == id && t.UserID == uid {
			return t, true
		}
	}
	writeDetail(w, http.StatusNotFound, "Trip not found")
	return trip.Trip{}, false
}

func (b *Backend) storedItinerary(w http.ResponseWriter, tripID string) (*trip.Itinerary, bool) {
	b.mu.Lock()
	it, ok := b.itineraries[tripID]
	b.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Itinerary not found")
	}
	return it, ok
}

// =============================================================================
// ITINERARIES
// =============================================================================

func (b *Backend) handleGetItinerary(w http.ResponseWriter, r *http.Request) {
	t, ok := b.ownedTrip(w, r, chi.URLParam(r, "tripID"))
	if !ok {
		return
	}
	if it, ok := b.storedItinerary(w, t.ID); ok {
		writeJSON(w, http.StatusOK, it)
	}
}

func (b *Backend) handleGenerate(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("trip_id")
	if id == "" {
		writeValidation(w, "trip_id", "field required")
		return
	}
	t, ok := b.ownedTrip(w, r, id)
	if !ok {
		return
	}
	it := Generate(t, "")
	b.PutItinerary(it)
	writeJSON(w, http.StatusOK, it)
}

func (b *Backend) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	var req trip.RegenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TripID == "" {
		writeValidation(w, "tripId", "field required")
		return
	}
	t, ok := b.ownedTrip(w, r, req.TripID)
	if !ok {
		return
	}
	if _, ok := b.storedItinerary(w, t.ID); !ok {
		return
	}
	it := Generate(t, req.Instruction)
	b.PutItinerary(it)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":          "Itinerary updated successfully",
		"updatedItinerary": it,
	})
}

func (b *Backend) handleNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errLat != nil || errLng != nil {
		writeValidation(w, "lat", "value is not a valid float")
		return
	}
	radius := 1000.0
	if v, err := strconv.ParseFloat(q.Get("radius"), 64); err == nil && v > 0 {
		radius = v
	}
	t, ok := b.ownedTrip(w, r, q.Get("trip_id"))
	if !ok {
		return
	}
	it, ok := b.storedItinerary(w, t.ID)
	if !ok {
		return
	}

	here := geo.Point{Lat: lat, Lng: lng}
	out := []trip.NearbyPlace{}
	for _, d := range it.Days {
		for _, p := range d.Places {
			pt, ok := p.Coordinate()
			if !ok {
				continue
			}
			if dist := geo.DistanceMeters(here, pt); dist <= radius {
				out = append(out, trip.NearbyPlace{Place: p, DistanceMeters: math.Round(dist)})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceMeters < out[j].DistanceMeters })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleSummary(w http.ResponseWriter, r *http.Request) {
	t, ok := b.ownedTrip(w, r, r.URL.Query().Get("trip_id"))
	if !ok {
		return
	}
	it, ok := b.storedItinerary(w, t.ID)
	if !ok {
		return
	}
	places := 0
	for _, d := range it.Days {
		places += len(d.Places)
	}
	writeJSON(w, http.StatusOK, trip.Summary{
		Text: fmt.Sprintf("## %s recap\n\nYou spent %d days in %s and visited %d places.",
			it.Title(), len(it.Days), t.Destination, places),
	})
}

// =============================================================================
// SAFETY AND CHAT
// =============================================================================

func (b *Backend) handleSafety(w http.ResponseWriter, r *http.Request) {
	loc := strings.TrimSpace(r.URL.Query().Get("location"))
	if loc == "" {
		writeValidation(w, "location", "field required")
		return
	}
	// Mirrors the live backend's loose shape: level/advice/risk_score and a
	// numeric emergency number.
	writeJSON(w, http.StatusOK, map[string]any{
		"level":            "Moderate",
		"advice":           "Stay aware of your surroundings in " + loc + ".",
		"risk_score":       35,
		"ai_insight":       "Crowded transit hubs see occasional pickpocketing.",
		"emergency_number": 112,
		"alerts": []map[string]any{
			{"id": 1, "type": "critical", "title": "Protest near city hall", "time": "10 min ago", "distance": "1.2 km"},
			{"id": 2, "type": "transit", "title": "Metro line 4 delays", "time": "1 hr ago"},
			{"id": "w-3", "type": "info", "title": "Heat advisory", "description": "Carry water."},
		},
	})
}

func (b *Backend) handleChat(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	msg := strings.TrimSpace(q.Get("message"))
	if msg == "" {
		writeValidation(w, "message", "field required")
		return
	}
	reply := "You asked: " + msg
	if id := q.Get("trip_id"); id != "" {
		t, ok := b.ownedTrip(w, r, id)
		if !ok {
			return
		}
		reply += " (trip to " + t.Destination + ")"
	}
	writeJSON(w, http.StatusOK, trip.ChatReply{Reply: reply})
}

// =============================================================================
// GENERATION
// =============================================================================

// Generate builds a deterministic itinerary for t: three geocoded places a
// day around the destination, plus one hotel. A non-empty instruction is
// recorded in GeneratedFrom.
func Generate(t trip.Trip, instruction string) *trip.Itinerary {
	center := fallbackCenter
	dest := strings.ToLower(t.Destination)
	for name, pt := range centers {
		if strings.Contains(dest, name) {
			center = pt
			break
		}
	}
	days := t.Days
	if days < 1 {
		days = 3
	}
	perPlace := math.Round(float64(t.Budget) / float64(days*len(slots)*2))

	it := &trip.Itinerary{
		ID:             "it-" + t.ID,
		TripID:         t.ID,
		UserID:         t.UserID,
		Destination:    t.Destination,
		Budget:         t.Budget,
		CurrencySymbol: "₹",
		SafetyAdvisory: "Generally safe. Keep valuables secure.",
		TravelTips:     []string{"Carry some cash", "Book popular sites early"},
		GeneratedFrom:  instruction,
	}
	start, _ := time.Parse(trip.DateLayout, t.StartDate)
	for d := 1; d <= days; d++ {
		day := trip.Day{Number: d, WeatherNote: "Mild, 22°C"}
		if !start.IsZero() {
			day.Date = start.AddDate(0, 0, d-1).Format(trip.DateLayout)
		}
		for s, slot := range slots {
			lat := trip.Degrees(center.Lat + float64(d)*0.004 + float64(s)*0.001)
			lng := trip.Degrees(center.Lng + float64(s)*0.002)
			day.Places = append(day.Places, trip.Place{
				Name:          fmt.Sprintf("%s %s Stop %d", titleWord(t.Destination), slot, d),
				Category:      "sightseeing",
				Lat:           &lat,
				Lng:           &lng,
				EstimatedCost: trip.Amount(perPlace),
				Duration:      "2 hours",
				TimeSlot:      slot,
			})
			day.TotalDayCost += trip.Amount(perPlace)
		}
		it.Days = append(it.Days, day)
	}

	hlat, hlng := trip.Degrees(center.Lat), trip.Degrees(center.Lng)
	it.TopHotels = []trip.Lodging{{
		Name:  titleWord(t.Destination) + " Central Hotel",
		Lat:   &hlat,
		Lng:   &hlng,
		Price: "₹6,000/night",
		Vibe:  "Boutique",
	}}

	activities := trip.Amount(perPlace) * trip.Amount(days*len(slots))
	stay := t.Budget - activities
	if stay < 0 {
		stay = 0
	}
	it.CostSummary = trip.CostSummary{
		Activities: activities,
		Stay:       stay,
		Total:      activities + stay,
	}
	return it
}

func titleWord(dest string) string {
	name, _, _ := strings.Cut(dest, ",")
	return strings.TrimSpace(name)
}

// tripDays counts the inclusive days between two dates, defaulting to 3.
func tripDays(start, end string) int {
	s, err1 := time.Parse(trip.DateLayout, start)
	e, err2 := time.Parse(trip.DateLayout, end)
	if err1 != nil || err2 != nil {
		return 3
	}
	n := int(e.Sub(s).Hours()/24) + 1
	if n < 1 {
		return 1
	}
	return n
}

func budgetLevel(budget int64) string {
	switch {
	case budget < 30000:
		return "low"
	case budget < 100000:
		return "medium"
	default:
		return "high"
	}
}

// =============================================================================
// RESPONSES
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeValidation mimics a request validation failure: detail is a list.
func writeValidation(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{"loc": []string{"query", field}, "msg": msg, "type": "value_error"}},
	})
}

func writeIdentityError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"code": status, "message": message},
	})
}
