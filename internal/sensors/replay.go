package sensors

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/litescript/ls-skylens/internal/fusion"
	"github.com/litescript/ls-skylens/internal/mathutil"
)

// Replay streams samples from a recorded IMU CSV log so a captured session
// can be re-run deterministically.
//
// Expected columns (header row required):
//
//	timestamp_ns,accel_x,accel_y,accel_z,gyro_x,gyro_y,gyro_z,mag_x,mag_y,mag_z
//
// Accel in m/s², gyro in rad/s, mag in µT.
type Replay struct {
	Path string

	// Speed scales playback: 1 replays at recorded pace, 0 or less replays
	// as fast as the consumer accepts.
	Speed float64
}

// Name implements Source.
func (r *Replay) Name() string { return "replay:" + r.Path }

// Capabilities implements Source.
func (r *Replay) Capabilities() fusion.Capabilities {
	return fusion.Capabilities{
		Magnetometer:  true,
		Accelerometer: true,
		Gyroscope:     true,
	}
}

// imuRow is one parsed record.
type imuRow struct {
	ts               time.Time
	accel, gyro, mag mathutil.Vec3
}

// Run implements Source. The recorded timestamps are shifted so playback
// starts now; inter-row gaps are preserved (scaled by Speed).
func (r *Replay) Run(ctx context.Context, out chan<- fusion.SensorSample) error {
	f, err := os.Open(r.Path)
	if err != nil {
		return fmt.Errorf("open replay log: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read replay header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"timestamp_ns", "accel_x", "gyro_x", "mag_x"} {
		if _, ok := col[required]; !ok {
			return fmt.Errorf("replay log missing column %q", required)
		}
	}

	var prev time.Time
	base := time.Now()
	var offset time.Duration

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read replay row: %w", err)
		}

		row, err := parseRow(rec, col)
		if err != nil {
			// A malformed row is an invalid sample: drop it and continue.
			continue
		}

		if !prev.IsZero() {
			gap := row.ts.Sub(prev)
			if r.Speed > 0 && gap > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Duration(float64(gap) / r.Speed)):
				}
			}
			offset += gap
		}
		prev = row.ts

		at := base.Add(offset)
		for _, s := range []fusion.SensorSample{
			{Kind: fusion.KindAccelerometer, Time: at, Vec: row.accel},
			{Kind: fusion.KindGyroscope, Time: at, Vec: row.gyro},
			{Kind: fusion.KindMagnetometer, Time: at, Vec: row.mag},
		} {
			if !push(ctx, out, s) {
				return ctx.Err()
			}
		}
	}
}

func parseRow(rec []string, col map[string]int) (imuRow, error) {
	get := func(name string) (float64, error) {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return 0, fmt.Errorf("missing field %q", name)
		}
		return strconv.ParseFloat(rec[i], 64)
	}

	ns, err := get("timestamp_ns")
	if err != nil {
		return imuRow{}, err
	}

	var row imuRow
	row.ts = time.Unix(0, int64(ns))

	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"accel_x", &row.accel.X}, {"accel_y", &row.accel.Y}, {"accel_z", &row.accel.Z},
		{"gyro_x", &row.gyro.X}, {"gyro_y", &row.gyro.Y}, {"gyro_z", &row.gyro.Z},
		{"mag_x", &row.mag.X}, {"mag_y", &row.mag.Y}, {"mag_z", &row.mag.Z},
	} {
		v, err := get(f.name)
		if err != nil {
			return imuRow{}, err
		}
		*f.dst = v
	}

	return row, nil
}
