package handler

import "net/http"

// Health reports liveness. Chain connectivity is not probed here so
// the endpoint stays cheap enough for aggressive load-balancer checks.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
