/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package search

import (
	"fmt"
	"net/http"

	"github.com/acronis/go-hrsearch/httpserver/middleware"
	"github.com/acronis/go-hrsearch/restapi"
)

// RequireQueryParams is a middleware that rejects requests without the listed query parameters with 422.
// A parameter with an empty value is present.
func RequireQueryParams(params ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			for _, param := range params {
				if _, ok := query[param]; ok {
					continue
				}
				reqErr := restapi.NewMalformedRequestError(http.StatusUnprocessableEntity, fmt.Sprintf("%s: Field required", param))
				restapi.RespondMalformedRequestError(rw, ErrDomain, reqErr, middleware.GetLoggerFromContext(r.Context()))
				return
			}
			next.ServeHTTP(rw, r)
		})
	}
}
