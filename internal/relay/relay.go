// Package relay bridges chat-platform webhooks to the dashboard. It is a
// one-way, best-effort notification path: the forward may fail, the chat
// caller never sees that failure.
package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"CandlePulse/internal/metrics"
)

// Relay receives inbound chat webhooks and forwards the user utterance
// to the dashboard's command endpoint.
type Relay struct {
	ForwardURL string
	Client     *http.Client
	Metrics    *metrics.Metrics
}

// NewRelay creates a relay with a short forward timeout.
func NewRelay(forwardURL string, timeout time.Duration, m *metrics.Metrics) *Relay {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Relay{
		ForwardURL: forwardURL,
		Client:     &http.Client{Timeout: timeout},
		Metrics:    m,
	}
}

// webhookRequest is the inbound chat-platform skill payload.
type webhookRequest struct {
	UserRequest struct {
		Utterance string `json:"utterance"`
	} `json:"userRequest"`
}

// skillResponse is the fixed response envelope the chat platform expects.
type skillResponse struct {
	Version  string `json:"version"`
	Template struct {
		Outputs []output `json:"outputs"`
	} `json:"template"`
}

type output struct {
	SimpleText simpleText `json:"simpleText"`
}

type simpleText struct {
	Text string `json:"text"`
}

func envelope(text string) skillResponse {
	resp := skillResponse{Version: "2.0"}
	resp.Template.Outputs = []output{{SimpleText: simpleText{Text: text}}}
	return resp
}

// RegisterRoutes registers the webhook endpoint on the provided mux.
func (rl *Relay) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", rl.HandleWebhook)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// HandleWebhook processes one inbound chat webhook. The caller always gets
// a success envelope; forward failures are logged and swallowed so the
// chat interaction never breaks when the dashboard is unreachable.
func (rl *Relay) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if rl.Metrics != nil {
		rl.Metrics.RelayWebhooksTotal.Inc()
	}

	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[WARN] decode webhook body: %v", err)
		writeEnvelope(w, envelope("요청을 처리하지 못했습니다."))
		return
	}

	utterance := req.UserRequest.Utterance
	rl.forward(utterance)

	writeEnvelope(w, envelope(fmt.Sprintf("전달했습니다: %s", utterance)))
}

// forward posts {"user_msg": utterance} to the dashboard. Best effort.
func (rl *Relay) forward(utterance string) {
	payload, err := json.Marshal(map[string]string{"user_msg": utterance})
	if err != nil {
		log.Printf("[WARN] marshal forward payload: %v", err)
		return
	}

	resp, err := rl.Client.Post(rl.ForwardURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		if rl.Metrics != nil {
			rl.Metrics.RelayForwardFailuresTotal.Inc()
		}
		log.Printf("[WARN] forward to dashboard failed: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		if rl.Metrics != nil {
			rl.Metrics.RelayForwardFailuresTotal.Inc()
		}
		log.Printf("[WARN] forward to dashboard: status %d", resp.StatusCode)
	}
}

func writeEnvelope(w http.ResponseWriter, resp skillResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[ERROR] encode webhook response: %v", err)
	}
}
