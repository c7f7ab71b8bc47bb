package middleware

import "net/http"

// CORS applies the API's cross-origin policy and short-circuits preflight
// requests.
//
// The policy is intentionally wide open (any origin): the API carries its
// auth in the Authorization header, never in cookies, so there is no
// credentialed cross-site request to protect against. The frontend may be
// served from a different origin (file://, another port) during development.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")

		// Preflight: answer immediately, no routing needed.
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
