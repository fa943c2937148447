package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/common"
	"github.com/dmitrijs2005/geokeeper/internal/logging"
	"github.com/dmitrijs2005/geokeeper/internal/server/metrics"
	"github.com/dmitrijs2005/geokeeper/internal/server/models"
	"github.com/dmitrijs2005/geokeeper/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- test logger ----

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// ---- fakes ----

type fakeAuth struct {
	loginResp *services.TokenPair
	loginErr  error

	refreshResp *services.TokenPair
	refreshErr  error

	gotUser, gotPass string
}

func (f *fakeAuth) Login(ctx context.Context, userName string, password string) (*services.TokenPair, error) {
	f.gotUser, f.gotPass = userName, password
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	return f.refreshResp, f.refreshErr
}

type fakeCatalog struct {
	listItems []models.Country
	listURLs  map[int64]string
	listErr   error

	replacedWith []models.Country
	replaceN     int
	replaceErr   error

	uploadTask *models.FlagUploadTask
	uploadErr  error
	uploadName string
}

func (f *fakeCatalog) List(ctx context.Context) ([]models.Country, map[int64]string, error) {
	return f.listItems, f.listURLs, f.listErr
}

func (f *fakeCatalog) ReplaceDataset(ctx context.Context, items []models.Country) (int, error) {
	f.replacedWith = items
	if f.replaceErr != nil {
		return 0, f.replaceErr
	}
	return f.replaceN, nil
}

func (f *fakeCatalog) FlagUpload(ctx context.Context, countryName string) (*models.FlagUploadTask, error) {
	f.uploadName = countryName
	return f.uploadTask, f.uploadErr
}

// spyRecorder counts recorder calls so handler tests can assert on them.
type observedRequest struct {
	route  string
	status int
}

type spyRecorder struct {
	mu       sync.Mutex
	requests []observedRequest
	replaces []bool
	sizes    []int
	uploads  []bool
}

func (r *spyRecorder) ObserveRequestDuration(route string, status int, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, observedRequest{route: route, status: status})
}
func (r *spyRecorder) IncCatalogReplace(success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaces = append(r.replaces, success)
}
func (r *spyRecorder) SetCatalogSize(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sizes = append(r.sizes, n)
}
func (r *spyRecorder) IncFlagUpload(success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads = append(r.uploads, success)
}

var _ metrics.Recorder = (*spyRecorder)(nil)

// ---- helpers ----

func newTestServer(a authSvc, c catalogSvc) *HTTPServer {
	return &HTTPServer{
		address:   "127.0.0.1:0",
		auth:      a,
		catalog:   c,
		logger:    nopLogger{},
		jwtSecret: []byte("k"),
		recorder:  metrics.NoopRecorder{},
	}
}

func doJSON(t *testing.T, h http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rd)
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

// ---- tests ----

func TestPing_OK(t *testing.T) {
	s := newTestServer(&fakeAuth{}, &fakeCatalog{})

	w := doJSON(t, s.handlePing, http.MethodGet, "/api/v1/ping", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp["status"])
}

func TestLogin_OK(t *testing.T) {
	a := &fakeAuth{loginResp: &services.TokenPair{AccessToken: "a", RefreshToken: "r"}}
	s := newTestServer(a, &fakeCatalog{})

	w := doJSON(t, s.handleLogin, http.MethodPost, "/api/v1/auth/login",
		loginRequest{Username: "admin", Password: "pass"})

	require.Equal(t, http.StatusOK, w.Code)
	var pair tokenPairResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	assert.Equal(t, "a", pair.AccessToken)
	assert.Equal(t, "r", pair.RefreshToken)
	assert.Equal(t, "admin", a.gotUser)
	assert.Equal(t, "pass", a.gotPass)
}

func TestLogin_Unauthorized(t *testing.T) {
	a := &fakeAuth{loginErr: common.ErrorUnauthorized}
	s := newTestServer(a, &fakeCatalog{})

	w := doJSON(t, s.handleLogin, http.MethodPost, "/api/v1/auth/login",
		loginRequest{Username: "admin", Password: "wrong"})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, common.ErrorUnauthorized.Error(), decodeError(t, w))
}

func TestLogin_InternalOnError(t *testing.T) {
	a := &fakeAuth{loginErr: errors.New("db down")}
	s := newTestServer(a, &fakeCatalog{})

	w := doJSON(t, s.handleLogin, http.MethodPost, "/api/v1/auth/login",
		loginRequest{Username: "admin", Password: "pass"})

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLogin_MalformedBody(t *testing.T) {
	s := newTestServer(&fakeAuth{}, &fakeCatalog{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	s.handleLogin(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefresh_OK(t *testing.T) {
	a := &fakeAuth{refreshResp: &services.TokenPair{AccessToken: "a2", RefreshToken: "r2"}}
	s := newTestServer(a, &fakeCatalog{})

	w := doJSON(t, s.handleRefresh, http.MethodPost, "/api/v1/auth/refresh",
		refreshRequest{RefreshToken: "r1"})

	require.Equal(t, http.StatusOK, w.Code)
	var pair tokenPairResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	assert.Equal(t, "a2", pair.AccessToken)
	assert.Equal(t, "r2", pair.RefreshToken)
}

func TestRefresh_Expired(t *testing.T) {
	a := &fakeAuth{refreshErr: common.ErrRefreshTokenExpired}
	s := newTestServer(a, &fakeCatalog{})

	w := doJSON(t, s.handleRefresh, http.MethodPost, "/api/v1/auth/refresh",
		refreshRequest{RefreshToken: "stale"})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, common.ErrRefreshTokenExpired.Error(), decodeError(t, w))
}

func TestRefresh_UnknownToken(t *testing.T) {
	a := &fakeAuth{refreshErr: common.ErrorNotFound}
	s := newTestServer(a, &fakeCatalog{})

	w := doJSON(t, s.handleRefresh, http.MethodPost, "/api/v1/auth/refresh",
		refreshRequest{RefreshToken: "unknown"})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, common.ErrorUnauthorized.Error(), decodeError(t, w))
}

func TestListCountries_FlagResolution(t *testing.T) {
	c := &fakeCatalog{
		listItems: []models.Country{
			{ID: 1, Name: "Latvia", Region: "Europe", FlagKey: "flags/2025/lv"},
			{ID: 2, Name: "Japan", Region: "Asia", FlagKey: "https://example.com/jp.png"},
		},
		listURLs: map[int64]string{1: "https://storage.local/presigned-lv"},
	}
	s := newTestServer(&fakeAuth{}, c)

	w := doJSON(t, s.handleListCountries, http.MethodGet, "/api/v1/countries", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var out []countryDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "https://storage.local/presigned-lv", out[0].Flag, "presigned URL wins when available")
	assert.Equal(t, "https://example.com/jp.png", out[1].Flag, "stored reference served verbatim otherwise")
}

func TestListCountries_EmptyCatalogIsEmptyArray(t *testing.T) {
	s := newTestServer(&fakeAuth{}, &fakeCatalog{})

	w := doJSON(t, s.handleListCountries, http.MethodGet, "/api/v1/countries", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String(), "an empty catalog is an empty array, not null")
}

func TestListCountries_InternalOnError(t *testing.T) {
	c := &fakeCatalog{listErr: errors.New("db down")}
	s := newTestServer(&fakeAuth{}, c)

	w := doJSON(t, s.handleListCountries, http.MethodGet, "/api/v1/countries", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestReplaceCountries_OK(t *testing.T) {
	c := &fakeCatalog{replaceN: 2}
	rec := &spyRecorder{}
	s := newTestServer(&fakeAuth{}, c)
	s.recorder = rec

	w := doJSON(t, s.handleReplaceCountries, http.MethodPut, "/api/v1/countries",
		[]countryDTO{{Name: "Latvia", Region: "Europe"}, {Name: "Japan", Region: "Asia"}})

	require.Equal(t, http.StatusOK, w.Code)
	var resp replaceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Replaced)

	require.Len(t, c.replacedWith, 2)
	assert.Equal(t, "Latvia", c.replacedWith[0].Name)
	assert.Empty(t, c.replacedWith[0].FlagKey, "flag keys never come from the wire")

	assert.Equal(t, []bool{true}, rec.replaces)
	assert.Equal(t, []int{2}, rec.sizes)
}

func TestReplaceCountries_InvalidArgument(t *testing.T) {
	c := &fakeCatalog{replaceErr: common.ErrorInvalidArgument}
	rec := &spyRecorder{}
	s := newTestServer(&fakeAuth{}, c)
	s.recorder = rec

	w := doJSON(t, s.handleReplaceCountries, http.MethodPut, "/api/v1/countries",
		[]countryDTO{{Name: ""}})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []bool{false}, rec.replaces)
	assert.Empty(t, rec.sizes)
}

func TestReplaceCountries_MalformedBody(t *testing.T) {
	s := newTestServer(&fakeAuth{}, &fakeCatalog{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/countries", strings.NewReader("not an array"))
	w := httptest.NewRecorder()
	s.handleReplaceCountries(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlagUpload_OK(t *testing.T) {
	c := &fakeCatalog{uploadTask: &models.FlagUploadTask{CountryID: 7, URL: "https://storage.local/put-here"}}
	rec := &spyRecorder{}
	s := newTestServer(&fakeAuth{}, c)
	s.recorder = rec

	w := doJSON(t, s.handleFlagUpload, http.MethodPost, "/api/v1/countries/flag",
		flagUploadRequest{Name: "Latvia"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp flagUploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.CountryID)
	assert.Equal(t, "https://storage.local/put-here", resp.URL)
	assert.Equal(t, "Latvia", c.uploadName)
	assert.Equal(t, []bool{true}, rec.uploads)
}

func TestFlagUpload_UnknownCountry(t *testing.T) {
	c := &fakeCatalog{uploadErr: common.ErrorNotFound}
	s := newTestServer(&fakeAuth{}, c)

	w := doJSON(t, s.handleFlagUpload, http.MethodPost, "/api/v1/countries/flag",
		flagUploadRequest{Name: "Atlantis"})

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlagUpload_MissingName(t *testing.T) {
	s := newTestServer(&fakeAuth{}, &fakeCatalog{})

	w := doJSON(t, s.handleFlagUpload, http.MethodPost, "/api/v1/countries/flag",
		flagUploadRequest{})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	s := newTestServer(&fakeAuth{}, &fakeCatalog{})
	h := s.Handler()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/countries", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
