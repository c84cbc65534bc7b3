package main

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marcus-qen/a1bridge/internal/bridge"
	"github.com/marcus-qen/a1bridge/internal/metrics"
	"github.com/marcus-qen/a1bridge/internal/supervision"
)

type healthResponse struct {
	Status string                  `json:"status"`
	Rics   []supervision.RicStatus `json:"rics"`
}

type ricInfo struct {
	ID         string `json:"id"`
	BaseURL    string `json:"base_url"`
	Adapter    string `json:"adapter"`
	Protocol   string `json:"protocol"`
	Controller string `json:"controller,omitempty"`
}

func newHandler(sup *supervision.Supervisor, rics []bridge.RIC) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{
		Registry: metrics.Registry,
	}))

	// Unavailable RICs make the bridge unhealthy; the body says which.
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok", Rics: sup.Statuses()}
		code := http.StatusOK
		if !sup.Healthy() {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, resp)
	})

	mux.HandleFunc("GET /version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": version, "commit": commit, "date": date,
		})
	})

	mux.HandleFunc("GET /api/v1/rics", func(w http.ResponseWriter, r *http.Request) {
		out := make([]ricInfo, 0, len(rics))
		for _, ric := range rics {
			info := ricInfo{
				ID:       ric.Config.ID,
				BaseURL:  ric.Config.BaseURL,
				Adapter:  ric.Config.Adapter,
				Protocol: string(ric.Config.Protocol),
			}
			if ric.Config.Controller != nil {
				info.Controller = ric.Config.Controller.Name
			}
			out = append(out, info)
		}
		writeJSON(w, http.StatusOK, out)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
