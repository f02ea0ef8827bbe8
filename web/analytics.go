package web

import (
	"net/http"
)

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	data := pageData{ActiveTab: tabAnalytics}
	stats, err := h.fetchStats(r.Context(), h.requestBaseURL(r))
	if err != nil {
		data.Error = err.Error()
	}
	data.Stats = stats

	h.mu.Lock()
	data.Analysis = h.analysis
	h.mu.Unlock()
	h.render(w, data)
}

// handleAnalyticsAnalyze asks the remote service for a summary of the task
// list. The latest result stays on the analytics page until replaced.
func (h *Handler) handleAnalyticsAnalyze(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var response analyzeResponse
	if err := h.post(r, "/analyze", emptyRequest{}, &response); err != nil {
		h.setFlash(flash{tab: tabAnalytics, err: err.Error()})
		http.Redirect(w, r, "/web/analytics", http.StatusSeeOther)
		return
	}
	h.mu.Lock()
	h.analysis = &response.Analysis
	h.mu.Unlock()
	http.Redirect(w, r, "/web/analytics", http.StatusSeeOther)
}
