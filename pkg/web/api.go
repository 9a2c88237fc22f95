package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/dbehnke/linecode/pkg/analysis"
	"github.com/dbehnke/linecode/pkg/channel"
	"github.com/dbehnke/linecode/pkg/config"
	"github.com/dbehnke/linecode/pkg/linecode"
	"github.com/dbehnke/linecode/pkg/logger"
	"github.com/dbehnke/linecode/pkg/metrics"
)

const maxBodyBytes = 1 << 20

// API handles REST API endpoints. Every simulation request runs its own
// sequential harness on a freshly seeded channel.
type API struct {
	config    config.WebConfig
	logger    *logger.Logger
	hub       *WebSocketHub
	collector *metrics.Collector
	started   time.Time
}

// NewAPI creates a new API instance. hub and collector may be nil.
func NewAPI(cfg config.WebConfig, log *logger.Logger, hub *WebSocketHub, collector *metrics.Collector) *API {
	if cfg.MaxTrials <= 0 {
		cfg.MaxTrials = 1000
	}
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = 100000
	}
	if cfg.MaxSweepLevels <= 0 {
		cfg.MaxSweepLevels = 16
	}
	return &API{
		config:    cfg,
		logger:    log,
		hub:       hub,
		collector: collector,
		started:   time.Now(),
	}
}

// SchemeInfo describes a line-coding scheme
type SchemeInfo struct {
	Name            string `json:"name"`
	Alphabet        string `json:"alphabet"`
	BlockSize       int    `json:"block_size"`
	SymbolsPerBlock int    `json:"symbols_per_block"`
}

// EncodeRequest is the body of /api/encode
type EncodeRequest struct {
	Scheme string `json:"scheme"`
	Bits   string `json:"bits"`
}

// DecodeRequest is the body of /api/decode
type DecodeRequest struct {
	Scheme string `json:"scheme"`
	Signal string `json:"signal"`
}

// CodecResponse is returned by /api/encode and /api/decode
type CodecResponse struct {
	Scheme string `json:"scheme"`
	Bits   string `json:"bits"`
	Signal string `json:"signal"`
}

// SimulateRequest is the body of /api/simulate and /api/sweep. Message,
// when set, is used verbatim; otherwise Length random bits are generated.
type SimulateRequest struct {
	Scheme      string    `json:"scheme,omitempty"`
	Message     string    `json:"message,omitempty"`
	Length      int       `json:"length,omitempty"`
	BER         float64   `json:"ber"`
	BERs        []float64 `json:"bers,omitempty"`
	Trials      int       `json:"trials"`
	Seed        uint64    `json:"seed,omitempty"`
	NoiseModel  string    `json:"noise_model,omitempty"`
	BurstLength int       `json:"burst_length,omitempty"`
}

// SimulateResponse is returned by /api/simulate
type SimulateResponse struct {
	Seed      uint64             `json:"seed"`
	Length    int                `json:"length"`
	Summaries []analysis.Summary `json:"summaries"`
}

// SweepResponse is returned by /api/sweep. Slopes that could not be
// fitted are null.
type SweepResponse struct {
	Seed   uint64              `json:"seed"`
	Length int                 `json:"length"`
	Rows   []analysis.SweepRow `json:"rows"`
	Slopes map[string]*float64 `json:"slopes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Warn("Failed to encode response", logger.Error(err))
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, err error) {
	a.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (a *API) countRequest() {
	if a.collector != nil {
		a.collector.APIRequest()
	}
}

func (a *API) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		a.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

// HandleStatus handles the /api/status endpoint
func (a *API) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status":  "running",
		"service": "linecode",
		"version": GetVersionInfo(),
		"uptime":  time.Since(a.started).Round(time.Second).String(),
	}
	if a.hub != nil {
		response["clients"] = a.hub.GetClientCount()
	}
	if a.collector != nil {
		response["trials"] = a.collector.GetTotalTrials()
		response["simulations"] = a.collector.GetSimulations()
		response["sweep_rows"] = a.collector.GetSweepRows()
	}
	a.writeJSON(w, http.StatusOK, response)
}

// HandleSchemes handles the /api/schemes endpoint
func (a *API) HandleSchemes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	schemes := linecode.Schemes()
	out := make([]SchemeInfo, 0, len(schemes))
	for _, s := range schemes {
		out = append(out, SchemeInfo{
			Name:            s.String(),
			Alphabet:        s.Alphabet().String(),
			BlockSize:       s.BlockSize(),
			SymbolsPerBlock: s.EncodedLen(s.BlockSize()),
		})
	}
	a.writeJSON(w, http.StatusOK, out)
}

// HandleEncode handles the /api/encode endpoint
func (a *API) HandleEncode(w http.ResponseWriter, r *http.Request) {
	var req EncodeRequest
	if !a.decodeBody(w, r, &req) {
		return
	}
	a.countRequest()

	scheme, err := linecode.ParseScheme(req.Scheme)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	bits, err := linecode.ParseBits(req.Bits)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	sig, err := scheme.Encode(bits)
	if err != nil {
		a.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	a.writeJSON(w, http.StatusOK, CodecResponse{Scheme: scheme.String(), Bits: bits.String(), Signal: sig.String()})
}

// HandleDecode handles the /api/decode endpoint
func (a *API) HandleDecode(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if !a.decodeBody(w, r, &req) {
		return
	}
	a.countRequest()

	scheme, err := linecode.ParseScheme(req.Scheme)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	sig := linecode.ParseSignal(req.Signal)
	bits, err := scheme.Decode(sig)
	if err != nil {
		a.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	a.writeJSON(w, http.StatusOK, CodecResponse{Scheme: scheme.String(), Bits: bits.String(), Signal: sig.String()})
}

// prepare validates req against the configured limits and builds a
// harness and reference bitstream for it
func (a *API) prepare(req *SimulateRequest) (*analysis.Harness, linecode.Bitstream, error) {
	if req.Trials <= 0 || req.Trials > a.config.MaxTrials {
		return nil, nil, fmt.Errorf("%w: trials must be in [1,%d]", linecode.ErrInvalidInput, a.config.MaxTrials)
	}
	model, err := channel.ParseModel(req.NoiseModel)
	if err != nil {
		return nil, nil, err
	}
	if model == channel.Burst && req.BurstLength <= 0 {
		req.BurstLength = 3
	}
	if req.Seed == 0 {
		req.Seed = uint64(time.Now().UnixNano())
	}

	ch := channel.NewSeeded(req.Seed)
	var ref linecode.Bitstream
	if req.Message != "" {
		ref, err = linecode.ParseBits(req.Message)
		if err != nil {
			return nil, nil, err
		}
	} else {
		if req.Length <= 0 {
			return nil, nil, fmt.Errorf("%w: message or length is required", linecode.ErrInvalidInput)
		}
		if req.Length > a.config.MaxLength {
			return nil, nil, fmt.Errorf("%w: length must be at most %d bits", linecode.ErrInvalidInput, a.config.MaxLength)
		}
		ref = analysis.NewGenerator(ch.Rand()).Bits(req.Length)
	}
	if len(ref) > a.config.MaxLength {
		return nil, nil, fmt.Errorf("%w: message longer than %d bits", linecode.ErrInvalidInput, a.config.MaxLength)
	}
	if minBits := linecode.FourBFiveB.BlockSize(); len(ref) < minBits {
		return nil, nil, fmt.Errorf("%w: message must be at least %d bits", linecode.ErrInvalidInput, minBits)
	}

	opts := []analysis.Option{
		analysis.WithNoise(model, req.BurstLength),
		analysis.WithLogger(a.logger),
	}
	if a.hub != nil {
		opts = append(opts, analysis.WithObserver(a.hub))
	}
	if a.collector != nil {
		opts = append(opts, analysis.WithObserver(a.collector))
	}
	return analysis.NewHarness(ch, opts...), ref, nil
}

// HandleSimulate handles the /api/simulate endpoint. With no scheme set
// every scheme is simulated.
func (a *API) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if !a.decodeBody(w, r, &req) {
		return
	}
	a.countRequest()

	if req.BER < 0 || req.BER > 1 {
		a.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: ber must be in [0,1]", linecode.ErrInvalidInput))
		return
	}
	h, ref, err := a.prepare(&req)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	var sums []analysis.Summary
	if req.Scheme == "" {
		sums, err = h.RunAll(ref, req.BER, req.Trials)
	} else {
		var scheme linecode.Scheme
		scheme, err = linecode.ParseScheme(req.Scheme)
		if err == nil {
			var s analysis.Summary
			s, err = h.Run(scheme, analysis.TrimToBlock(ref, scheme), req.BER, req.Trials)
			sums = []analysis.Summary{s}
		}
	}
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return
	}

	a.logger.Info("Simulation request served",
		logger.Uint64("seed", req.Seed),
		logger.Int("length", len(ref)),
		logger.Float64("ber", req.BER),
		logger.Int("trials", req.Trials))
	a.writeJSON(w, http.StatusOK, SimulateResponse{Seed: req.Seed, Length: len(ref), Summaries: sums})
}

// HandleSweep handles the /api/sweep endpoint
func (a *API) HandleSweep(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if !a.decodeBody(w, r, &req) {
		return
	}
	a.countRequest()

	if len(req.BERs) > a.config.MaxSweepLevels {
		a.writeError(w, http.StatusBadRequest,
			fmt.Errorf("%w: at most %d sweep levels", linecode.ErrInvalidInput, a.config.MaxSweepLevels))
		return
	}
	h, ref, err := a.prepare(&req)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := h.Sweep(ref, req.BERs, req.Trials)
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return
	}

	slopes := make(map[string]*float64, len(res.Slopes))
	for name, v := range res.Slopes {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			slopes[name] = nil
			continue
		}
		v := v
		slopes[name] = &v
	}
	a.writeJSON(w, http.StatusOK, SweepResponse{Seed: req.Seed, Length: len(ref), Rows: res.Rows, Slopes: slopes})
}

func statusFor(err error) int {
	if errors.Is(err, linecode.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
