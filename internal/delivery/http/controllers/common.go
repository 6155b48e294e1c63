package controllers

import (
	"fmt"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// BooleanResponse is the success envelope of operations reporting whether they changed state.
type BooleanResponse struct {
	Data  bool              `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// StringResponse is the success envelope of notice reads.
type StringResponse struct {
	Data  string            `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// QueryRequest is the request body of the query endpoints. All filters must hold.
type QueryRequest struct {
	Filters []domain.RawFilter `json:"filters"`
}

// Validate implements helpers.Validator.
func (q QueryRequest) Validate() []string {
	var errs []string
	for i, f := range q.Filters {
		if f.Field == "" || f.Operator == "" {
			errs = append(errs, fmt.Sprintf("filters[%d]: field and operator are required", i))
		}
	}
	return errs
}

// requireIdentity writes a 401 and reports false when the request carries no identity.
func requireIdentity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return domain.Identity{}, false
	}
	return identity, true
}

// pathKey returns the named path value, writing a 400 when it is empty.
func pathKey(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if v == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing "+name)
		return "", false
	}
	return v, true
}
