package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"Seabed/internal/calc/anchor"
	"Seabed/internal/calc/loads"
	"Seabed/internal/calc/sizing"

	"github.com/sgostarter/i/l"
)

type Item struct {
	ID     string         `json:"id"`
	Design map[string]any `json:"design"`
	MinFS  loads.Factors  `json:"min_fs"`
	Size   bool           `json:"size"`
}

type ItemResult struct {
	ID         string             `json:"id"`
	Geometry   map[string]float64 `json:"geometry,omitempty"`
	Assessment *anchor.Assessment `json:"assessment,omitempty"`
	Sizing     *sizing.Result     `json:"sizing,omitempty"`
	Error      string             `json:"error,omitempty"`
}

type AnchorBatchInput struct {
	Items   []Item `json:"items"`
	Workers int    `json:"workers"`
}

type AnchorBatchResult struct {
	Results []ItemResult `json:"results"`
	Failed  int          `json:"failed"`
}

const defaultWorkers = 4

// CalculateAnchors evaluates every item concurrently under the given
// engineering settings. Results keep the input order; a failing item is
// reported in place and does not stop the others.
func CalculateAnchors(ctx context.Context, in AnchorBatchInput, s anchor.Settings, logger l.Wrapper) (AnchorBatchResult, error) {
	if len(in.Items) == 0 {
		return AnchorBatchResult{}, fmt.Errorf("no items")
	}
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}
	workers := in.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	out := AnchorBatchResult{Results: make([]ItemResult, len(in.Items))}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, item := range in.Items {
		wg.Add(1)
		go func(i int, item Item) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := evaluate(ctx, item, s, logger)
			if err != nil {
				logger.WithFields(l.StringField("id", item.ID), l.ErrorField(err)).Error("batch item failed")
				res.Error = err.Error()
			}
			res.ID = item.ID
			out.Results[i] = res
		}(i, item)
	}
	wg.Wait()

	for _, r := range out.Results {
		if r.Error != "" {
			out.Failed++
		}
	}
	return out, ctx.Err()
}

func evaluate(ctx context.Context, item Item, s anchor.Settings, logger l.Wrapper) (ItemResult, error) {
	if err := ctx.Err(); err != nil {
		return ItemResult{}, err
	}
	a, err := anchor.FromDesign(item.Design)
	if err != nil {
		return ItemResult{}, err
	}
	a.Logger = logger
	s.Apply(a)
	minFS := s.MinFS(item.MinFS)

	var res ItemResult
	if item.Size {
		sz, err := a.Size(ctx, s.Sizing(anchor.SizeConfig{Targets: minFS}))
		if err != nil && !errors.Is(err, sizing.ErrNoConvergence) {
			return ItemResult{}, err
		}
		res.Sizing = &sz
		a.Geometry = sz.Geometry
	}
	as, err := a.FS(minFS)
	if err != nil {
		return ItemResult{}, err
	}
	res.Assessment = &as
	res.Geometry = a.Geometry.Map(a.Type)
	return res, nil
}
