package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/geokeeper/internal/common"
	"github.com/dmitrijs2005/geokeeper/internal/server/models"
)

// countryDTO is the wire shape of a catalog row: a flat object of optional
// strings. The flag field carries a URL on the way out and is ignored on the
// way in; flag images are attached through the upload endpoint, not through
// dataset pushes.
type countryDTO struct {
	Name     string `json:"name"`
	Region   string `json:"region"`
	Capital  string `json:"capital"`
	Currency string `json:"currency"`
	Language string `json:"language"`
	Flag     string `json:"flag"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type replaceResponse struct {
	Replaced int `json:"replaced"`
}

type flagUploadRequest struct {
	Name string `json:"name"`
}

type flagUploadResponse struct {
	CountryID int64  `json:"country_id"`
	URL       string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *HTTPServer) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	pair, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		return
	}

	s.logger.Info(r.Context(), "Login", "username", req.Username)
	writeJSON(w, http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *HTTPServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	pair, err := s.auth.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRefreshTokenExpired):
			writeError(w, http.StatusUnauthorized, common.ErrRefreshTokenExpired.Error())
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
		default:
			s.logger.Error(r.Context(), err.Error())
			writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// handleListCountries serves the public collection: a JSON array in dataset
// order. Flags resolve to presigned GET URLs when the row has an uploaded
// image, otherwise to the stored reference verbatim.
func (s *HTTPServer) handleListCountries(w http.ResponseWriter, r *http.Request) {
	items, flagURLs, err := s.catalog.List(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		return
	}

	out := make([]countryDTO, 0, len(items))
	for _, item := range items {
		flag := flagURLs[item.ID]
		if flag == "" {
			flag = item.FlagKey
		}
		out = append(out, countryDTO{
			Name:     item.Name,
			Region:   item.Region,
			Capital:  item.Capital,
			Currency: item.Currency,
			Language: item.Language,
			Flag:     flag,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleReplaceCountries(w http.ResponseWriter, r *http.Request) {
	var in []countryDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	items := make([]models.Country, 0, len(in))
	for _, dto := range in {
		items = append(items, models.Country{
			Name:     dto.Name,
			Region:   dto.Region,
			Capital:  dto.Capital,
			Currency: dto.Currency,
			Language: dto.Language,
		})
	}

	n, err := s.catalog.ReplaceDataset(r.Context(), items)
	if err != nil {
		s.recorder.IncCatalogReplace(false)
		if errors.Is(err, common.ErrorInvalidArgument) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		return
	}

	s.recorder.IncCatalogReplace(true)
	s.recorder.SetCatalogSize(n)
	s.logger.Info(r.Context(), "Dataset replaced", "rows", n, "admin", adminIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, replaceResponse{Replaced: n})
}

func (s *HTTPServer) handleFlagUpload(w http.ResponseWriter, r *http.Request) {
	var req flagUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "country name is required")
		return
	}

	task, err := s.catalog.FlagUpload(r.Context(), req.Name)
	if err != nil {
		s.recorder.IncFlagUpload(false)
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, common.ErrorNotFound.Error())
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		return
	}

	s.recorder.IncFlagUpload(true)
	writeJSON(w, http.StatusOK, flagUploadResponse{CountryID: task.CountryID, URL: task.URL})
}
