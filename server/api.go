// See https://developers.mattermost.com/extend/plugins/server/reference/
package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin"

	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/affiliate"
)

// ServeHTTP serves the dialog callback, the region autocomplete, the stats and the metrics.
// The root URL is <siteUrl>/plugins/com.fmartingr.affiliate-links/api/v1/.
func (p *Plugin) ServeHTTP(c *plugin.Context, w http.ResponseWriter, r *http.Request) {
	router := mux.NewRouter()

	// Middleware to require that the user is logged in
	router.Use(p.MattermostAuthorizationRequired)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()

	apiRouter.HandleFunc("/dialog/configure", p.SubmitConfigureDialog).Methods(http.MethodPost)
	apiRouter.HandleFunc("/autocomplete/regions", p.AutocompleteRegions).Methods(http.MethodGet)
	apiRouter.HandleFunc("/stats", p.GetStats).Methods(http.MethodGet)
	apiRouter.HandleFunc("/metrics", p.GetMetrics).Methods(http.MethodGet)

	router.ServeHTTP(w, r)
}

func (p *Plugin) MattermostAuthorizationRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("Mattermost-User-ID")
		if userID == "" {
			http.Error(w, "Not authorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SubmitConfigureDialog stores the values of the configuration dialog
func (p *Plugin) SubmitConfigureDialog(w http.ResponseWriter, r *http.Request) {
	var request model.SubmitDialogRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// The server sets the header after authenticating the request.
	request.UserId = r.Header.Get("Mattermost-User-ID")

	result, err := p.route(r.Context(), dialogSubmission{request: &request})
	if err != nil {
		p.API.LogError("Failed to apply configuration", "team", request.TeamId, "error", err.Error())
		http.Error(w, "Failed to save configuration", http.StatusInternalServerError)
		return
	}

	p.writeJSON(w, result.dialog)
}

// AutocompleteRegions lists the regions matching the typed text
func (p *Plugin) AutocompleteRegions(w http.ResponseWriter, r *http.Request) {
	result, err := p.route(r.Context(), autocompleteInteraction{
		query: r.URL.Query().Get("user_input"),
	})
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	p.writeJSON(w, result.suggestions)
}

// GetStats returns the usage stats of a team the user belongs to
func (p *Plugin) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("Mattermost-User-ID")

	teamID := r.URL.Query().Get("team_id")
	if teamID == "" {
		http.Error(w, "team_id is required", http.StatusBadRequest)
		return
	}

	if member, appErr := p.API.GetTeamMember(teamID, userID); appErr != nil || member == nil {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	stats, err := loadStats(r.Context(), p.store, affiliate.TeamScope(teamID))
	if err != nil {
		p.API.LogError("Failed to load stats", "team", teamID, "error", err.Error())
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	p.writeJSON(w, stats)
}

// GetMetrics exposes the plugin metrics (admin only)
func (p *Plugin) GetMetrics(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("Mattermost-User-ID")

	user, appErr := p.API.GetUser(userID)
	if appErr != nil || !user.IsInRole(model.SystemAdminRoleId) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if p.metrics == nil {
		http.Error(w, "Metrics not initialized", http.StatusServiceUnavailable)
		return
	}

	p.metrics.Handler().ServeHTTP(w, r)
}

func (p *Plugin) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		p.API.LogError("Failed to encode response", "error", err)
	}
}
