// Package optim searches tuning space for the values that minimize a metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/san-kum/ropesim/internal/automation"
	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/experiment"
)

// GridSearch tries every combination of the listed parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	logger     *zap.Logger
}

func NewGridSearch(params []string, ranges [][]float64, logger *zap.Logger) *GridSearch {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GridSearch{paramNames: params, ranges: ranges, logger: logger}
}

// ParseAxis reads "name=v1,v2,v3".
func ParseAxis(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("axis %q: want name=v1,v2", s)
	}
	var vals []float64
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("axis %q: %w", s, err)
		}
		vals = append(vals, v)
	}
	return name, vals, nil
}

// Search runs base under every grid point and returns the parameters with the
// lowest value of metricName. Points that fail to build or diverge are
// skipped. Evaluated counts the points that completed.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, reg *experiment.Registry, metricName string) (best map[string]float64, value float64, evaluated int, err error) {
	for _, name := range g.paramNames {
		if err := automation.SetParam(base.Clone(), name, 0); err != nil {
			return nil, 0, 0, err
		}
	}

	value = math.Inf(1)
	err = g.searchRecursive(ctx, 0, make(map[string]float64), base, reg, metricName, &value, &best, &evaluated)
	if err != nil {
		return nil, 0, evaluated, err
	}
	if best == nil {
		return nil, 0, evaluated, fmt.Errorf("no grid point produced metric %q", metricName)
	}
	return best, value, evaluated, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	reg *experiment.Registry,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
	evaluated *int,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := base.Clone()
		for k, v := range current {
			_ = automation.SetParam(cfg, k, v)
		}

		exp, err := experiment.New(cfg, reg, g.logger)
		if err != nil {
			g.logger.Debug("grid point rejected", zap.Any("params", current), zap.Error(err))
			return nil
		}

		result, err := exp.Run(ctx, 0)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			g.logger.Debug("grid point diverged", zap.Any("params", current), zap.Error(err))
			return nil
		}
		*evaluated++

		val, ok := result.Metrics[metricName]
		if ok && val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, reg, metricName, best, bestParams, evaluated); err != nil {
			return err
		}
	}
	return nil
}
