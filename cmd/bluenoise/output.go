package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/viant/bluenoise/engine"
	"github.com/viant/bluenoise/sampler"
	"github.com/viant/bluenoise/store"
)

func writeCSV(w io.Writer, res *sampler.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "x", "y", "z"}); err != nil {
		return err
	}
	for i, p := range res.Points {
		record := []string{strconv.Itoa(res.IDs[i]), formatFloat(p.X()), formatFloat(p.Y()), formatFloat(p.Z())}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float32) string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }

// generateToDB samples into memory and replaces the points table contents in
// one transaction.
func generateToDB(ctx context.Context, path string, cfg sampler.Config, opts ...sampler.Option) (int, error) {
	db, err := engine.Open(path)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	points, err := store.NewSQLiteStore(ctx, db)
	if err != nil {
		return 0, err
	}

	placed := store.NewMemoryStore(cfg.TargetCount)
	if _, err := sampler.Generate(ctx, cfg, append(opts, sampler.WithStore(placed))...); err != nil {
		return 0, err
	}
	if err := points.ReplaceAll(ctx, placed.Objects()); err != nil {
		return 0, fmt.Errorf("replace %s: %w", store.PointsTable, err)
	}
	return points.Len(ctx)
}

