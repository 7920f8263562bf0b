package ensemble

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportcast/internal/models"
)

// remotePredictRequest is the payload sent to an externally served model.
type remotePredictRequest struct {
	Features []float64 `json:"features"`
	Names    []string  `json:"feature_names"`
}

// remotePredictResponse is the expected reply shape.
type remotePredictResponse struct {
	Probabilities  []float64 `json:"probabilities"`
	PredictedClass int       `json:"predicted_class"`
	Ready          bool      `json:"ready"`
}

// RemoteAdapter attaches an externally served classifier (tree ensemble,
// gradient boosting, a neural network behind a model server) to the registry
// through the same BaseModel contract as the in-process families. The remote
// side owns training; this adapter only speaks the prediction contract.
type RemoteAdapter struct {
	name    string
	classes int
	baseURL string
	client  *http.Client
	timeout time.Duration
	logger  *logrus.Logger
	ready   atomic.Bool
}

// NewRemoteAdapter creates an adapter over a model server exposing
// POST {baseURL}/predict.
func NewRemoteAdapter(name string, classes int, baseURL string, timeout time.Duration, logger *logrus.Logger) *RemoteAdapter {
	return &RemoteAdapter{
		name:    name,
		classes: classes,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		logger:  logger,
	}
}

// Name returns the adapter's unique name.
func (a *RemoteAdapter) Name() string { return a.name }

// Classes returns the outcome class count.
func (a *RemoteAdapter) Classes() int { return a.classes }

// Ready reports the last observed readiness of the remote model. It starts
// false until CheckReady succeeds, keeping the adapter skipped rather than
// erroring the pipeline while the remote side trains.
func (a *RemoteAdapter) Ready() bool { return a.ready.Load() }

// CheckReady probes the remote model's health endpoint and records the
// result.
func (a *RemoteAdapter) CheckReady(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/health", nil)
	if err != nil {
		a.ready.Store(false)
		return false
	}
	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.WithError(err).WithField("adapter", a.name).Debug("Remote model health check failed")
		a.ready.Store(false)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	ok := resp.StatusCode == http.StatusOK
	a.ready.Store(ok)
	return ok
}

// PredictProbabilities calls the remote model and enforces the adapter
// numeric contract on its reply.
func (a *RemoteAdapter) PredictProbabilities(fv *models.FeatureVector) (models.Distribution, error) {
	if !a.ready.Load() {
		return nil, fmt.Errorf("%w: %s", models.ErrAdapterNotReady, a.name)
	}

	payload, err := json.Marshal(remotePredictRequest{Features: fv.Values(), Names: fv.Names()})
	if err != nil {
		return nil, fmt.Errorf("marshal predict request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote model %s: %w", a.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("remote model %s returned %d: %s", a.name, resp.StatusCode, string(body))
	}

	var out remotePredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode predict response: %w", err)
	}
	return sanitizeDistribution(out.Probabilities, a.classes)
}

// Predict returns the most likely class.
func (a *RemoteAdapter) Predict(fv *models.FeatureVector) (int, error) {
	probs, err := a.PredictProbabilities(fv)
	if err != nil {
		return 0, err
	}
	return probs.ArgMax(), nil
}

var _ BaseModel = (*RemoteAdapter)(nil)
