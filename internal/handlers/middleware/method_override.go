package middleware

import (
	"net/http"
	"strings"
)

// MethodOverrideField é o campo oculto dos formulários HTML
const MethodOverrideField = "_method"

// MethodOverride troca POST por PUT, PATCH ou DELETE conforme o campo _method.
// Envolve o engine inteiro: o Gin escolhe a rota antes de rodar middlewares.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && isForm(r) {
			switch method := strings.ToUpper(r.PostFormValue(MethodOverrideField)); method {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = method
			}
		}
		next.ServeHTTP(w, r)
	})
}

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}
