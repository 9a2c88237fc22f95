package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dbehnke/linecode/pkg/config"
	"github.com/dbehnke/linecode/pkg/logger"
	"github.com/dbehnke/linecode/pkg/metrics"
)

func newTestAPI(collector *metrics.Collector) *API {
	log := logger.New(logger.Config{Level: "error"})
	cfg := config.WebConfig{MaxTrials: 100, MaxLength: 1000}
	return NewAPI(cfg, log, nil, collector)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	w := httptest.NewRecorder()
	handler(w, req)
	return w.Result()
}

func TestAPI_Status(t *testing.T) {
	api := newTestAPI(metrics.NewCollector())

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()

	api.HandleStatus(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["status"] != "running" {
		t.Errorf("Expected running status, got %v", result["status"])
	}
	if _, ok := result["trials"]; !ok {
		t.Error("Response doesn't contain trials field")
	}
}

func TestAPI_Schemes(t *testing.T) {
	api := newTestAPI(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/schemes", nil)
	w := httptest.NewRecorder()
	api.HandleSchemes(w, req)

	var result []SchemeInfo
	if err := json.NewDecoder(w.Result().Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(result) != 4 {
		t.Fatalf("Expected 4 schemes, got %d", len(result))
	}
	last := result[3]
	if last.Name != "4B/5B" || last.BlockSize != 4 || last.SymbolsPerBlock != 5 {
		t.Errorf("Unexpected 4B/5B info: %+v", last)
	}
	if result[0].Alphabet != "levels" {
		t.Errorf("Expected NRZ to use the levels alphabet, got %q", result[0].Alphabet)
	}
}

func TestAPI_Encode(t *testing.T) {
	api := newTestAPI(nil)

	cases := []struct {
		scheme string
		bits   string
		signal string
	}{
		{"NRZ", "110010", "HHLLHL"},
		{"NRZI", "110010", "LHHHLL"},
		{"Manchester", "110010", "101001011001"},
		{"4B5B", "0000", "11110"},
	}
	for _, tc := range cases {
		resp := postJSON(t, api.HandleEncode, "/api/encode", EncodeRequest{Scheme: tc.scheme, Bits: tc.bits})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", tc.scheme, resp.StatusCode)
		}
		var out CodecResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if out.Signal != tc.signal {
			t.Errorf("%s: expected %s, got %s", tc.scheme, tc.signal, out.Signal)
		}
	}
}

func TestAPI_EncodeErrors(t *testing.T) {
	api := newTestAPI(nil)

	resp := postJSON(t, api.HandleEncode, "/api/encode", EncodeRequest{Scheme: "NRZ", Bits: "10a1"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid bits, got %d", resp.StatusCode)
	}

	resp = postJSON(t, api.HandleEncode, "/api/encode", EncodeRequest{Scheme: "AMI", Bits: "1010"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown scheme, got %d", resp.StatusCode)
	}

	resp = postJSON(t, api.HandleEncode, "/api/encode", EncodeRequest{Scheme: "4B/5B", Bits: "101"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for bad 4B/5B length, got %d", resp.StatusCode)
	}
}

func TestAPI_Decode(t *testing.T) {
	api := newTestAPI(nil)

	resp := postJSON(t, api.HandleDecode, "/api/decode", DecodeRequest{Scheme: "4B/5B", Signal: "101101110111110"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var out CodecResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if out.Bits != "101011110000" {
		t.Errorf("Expected 101011110000, got %s", out.Bits)
	}

	// 00000 is not a 4B/5B codeword
	resp = postJSON(t, api.HandleDecode, "/api/decode", DecodeRequest{Scheme: "4B/5B", Signal: "00000"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for unmapped codeword, got %d", resp.StatusCode)
	}
}

func TestAPI_Simulate(t *testing.T) {
	collector := metrics.NewCollector()
	api := newTestAPI(collector)

	req := SimulateRequest{Length: 200, BER: 0.05, Trials: 20, Seed: 7}
	resp := postJSON(t, api.HandleSimulate, "/api/simulate", req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var first SimulateResponse
	if err := json.NewDecoder(resp.Body).Decode(&first); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(first.Summaries) != 4 {
		t.Fatalf("Expected 4 summaries, got %d", len(first.Summaries))
	}
	for _, s := range first.Summaries {
		if s.Trials != 20 {
			t.Errorf("%s: expected 20 trials, got %d", s.Scheme, s.Trials)
		}
		if float64(s.Min) > s.Mean || s.Mean > float64(s.Max) {
			t.Errorf("%s: mean %v outside [%d,%d]", s.Scheme, s.Mean, s.Min, s.Max)
		}
	}
	if collector.GetTotalTrials() != 80 {
		t.Errorf("Expected 80 trials recorded, got %d", collector.GetTotalTrials())
	}

	// Same seed gives the same result
	resp = postJSON(t, api.HandleSimulate, "/api/simulate", req)
	var second SimulateResponse
	if err := json.NewDecoder(resp.Body).Decode(&second); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	for i := range first.Summaries {
		if first.Summaries[i] != second.Summaries[i] {
			t.Errorf("Expected identical summaries for seed 7, got %+v and %+v", first.Summaries[i], second.Summaries[i])
		}
	}
}

func TestAPI_SimulateSingleScheme(t *testing.T) {
	api := newTestAPI(nil)

	resp := postJSON(t, api.HandleSimulate, "/api/simulate",
		SimulateRequest{Scheme: "NRZ", Message: "110010", BER: 1, Trials: 3, Seed: 1})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var out SimulateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(out.Summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(out.Summaries))
	}
	if out.Summaries[0].Mean != 6 {
		t.Errorf("Expected every NRZ bit inverted at BER 1, mean %v", out.Summaries[0].Mean)
	}
}

func TestAPI_SimulateLimits(t *testing.T) {
	api := newTestAPI(nil)

	cases := []SimulateRequest{
		{Length: 100, BER: 0.01, Trials: 0},
		{Length: 100, BER: 0.01, Trials: 1000},
		{Length: 5000, BER: 0.01, Trials: 10},
		{BER: 0.01, Trials: 10},
		{Length: 100, BER: 1.5, Trials: 10},
		{Length: 100, BER: 0.01, Trials: 10, NoiseModel: "gaussian"},
		{Message: "10x1", BER: 0.01, Trials: 10},
		// shorter than one 4B/5B block
		{Message: "101", BER: 0.01, Trials: 10},
		{Length: 3, BER: 0.01, Trials: 10},
		{Scheme: "NRZ", Message: "101", BER: 0.01, Trials: 10},
	}
	for i, req := range cases {
		resp := postJSON(t, api.HandleSimulate, "/api/simulate", req)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("case %d: expected 400, got %d", i, resp.StatusCode)
		}
	}
}

func TestAPI_Sweep(t *testing.T) {
	api := newTestAPI(nil)

	resp := postJSON(t, api.HandleSweep, "/api/sweep",
		SimulateRequest{Length: 400, BERs: []float64{0.01, 0.1}, Trials: 20, Seed: 3})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var out SweepResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(out.Rows) != 2 || out.Rows[0].BER != 0.01 {
		t.Fatalf("Unexpected rows: %+v", out.Rows)
	}
	if out.Slopes["NRZ"] == nil {
		t.Error("Expected a fitted NRZ slope")
	}

	// One level cannot be fitted
	resp = postJSON(t, api.HandleSweep, "/api/sweep",
		SimulateRequest{Length: 100, BERs: []float64{0.1}, Trials: 5, Seed: 3})
	var single SweepResponse
	if err := json.NewDecoder(resp.Body).Decode(&single); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	for name, slope := range single.Slopes {
		if slope != nil {
			t.Errorf("%s: expected null slope, got %v", name, *slope)
		}
	}
}

func TestAPI_SweepLevelLimit(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	api := NewAPI(config.WebConfig{MaxTrials: 100, MaxLength: 1000, MaxSweepLevels: 3}, log, nil, nil)

	resp := postJSON(t, api.HandleSweep, "/api/sweep",
		SimulateRequest{Length: 100, BERs: []float64{0.001, 0.01, 0.05, 0.1}, Trials: 2, Seed: 1})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for too many sweep levels, got %d", resp.StatusCode)
	}

	resp = postJSON(t, api.HandleSweep, "/api/sweep",
		SimulateRequest{Length: 100, BERs: []float64{0.001, 0.01, 0.1}, Trials: 2, Seed: 1})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 at the sweep level limit, got %d", resp.StatusCode)
	}
}

func TestAPI_MethodNotAllowed(t *testing.T) {
	api := newTestAPI(nil)

	// POST to GET-only endpoint
	req := httptest.NewRequest(http.MethodPost, "/api/status", nil)
	w := httptest.NewRecorder()
	api.HandleStatus(w, req)
	if w.Result().StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Result().StatusCode)
	}

	// GET to POST-only endpoint
	req = httptest.NewRequest(http.MethodGet, "/api/simulate", nil)
	w = httptest.NewRecorder()
	api.HandleSimulate(w, req)
	if w.Result().StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Result().StatusCode)
	}
}
