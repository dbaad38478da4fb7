package emitter

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/cloudreaper/reap/types"
)

const measurement = "reclamation"

// InfluxEmitter writes one point per run result to an InfluxDB bucket.
type InfluxEmitter struct {
	client influxdb2.Client
	write  api.WriteAPIBlocking
}

// InfluxConfig locates the bucket to write to.
type InfluxConfig struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

// Enabled reports whether the config points at a server.
func (c InfluxConfig) Enabled() bool { return c.URL != "" }

// NewInfluxEmitter connects to InfluxDB. The connection is lazy; a bad
// URL surfaces on the first write.
func NewInfluxEmitter(cfg InfluxConfig) *InfluxEmitter {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &InfluxEmitter{
		client: client,
		write:  client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
	}
}

// Emit writes the run result as a single point.
func (e *InfluxEmitter) Emit(ctx context.Context, result types.RunResult) error {
	point := influxdb2.NewPoint(
		measurement,
		map[string]string{
			"provider":  result.Provider,
			"kind":      string(result.Kind),
			"operation": string(result.Operation),
			"dry_run":   fmt.Sprintf("%t", result.DryRun),
		},
		map[string]interface{}{
			"reclaimed":        len(result.Accepted),
			"rejected":         len(result.Rejected),
			"errored":          len(result.Errored),
			"duration_seconds": result.Duration.Seconds(),
		},
		time.Now(),
	)
	if err := e.write.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("write influx point: %w", err)
	}
	return nil
}

// Close releases the client's connections.
func (e *InfluxEmitter) Close() error {
	e.client.Close()
	return nil
}
