// Package swisseph wraps the third-party Swiss-Ephemeris cgo binding as
// the authoritative Ephemeris Provider of spec §4.1. The library is
// stateful and not re-entrant, so every call is serialized behind a single
// process-wide mutex (spec §4.1 "Thread safety", §5, §9).
package swisseph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	swe "github.com/tejzpr/go-swisseph"

	"github.com/R3E-Network/consciousness-core/internal/apierrors"
	"github.com/R3E-Network/consciousness-core/internal/astro/angle"
	"github.com/R3E-Network/consciousness-core/internal/ephemeris"
)

// sweFlagSpeed requests speed in addition to position (SEFLG_SPEED in the
// underlying C library).
const sweFlagSpeed = int32(256)

var bodyCode = map[ephemeris.Body]int32{
	ephemeris.Sun:          swe.Sun,
	ephemeris.Moon:         swe.Moon,
	ephemeris.Mercury:      swe.Mercury,
	ephemeris.Venus:        swe.Venus,
	ephemeris.Mars:         swe.Mars,
	ephemeris.Jupiter:      swe.Jupiter,
	ephemeris.Saturn:       swe.Saturn,
	ephemeris.RahuMeanNode: swe.MeanNode,
	ephemeris.KetuMeanNode: swe.MeanNode, // Ketu is the mean node plus 180 degrees, applied in Longitude.
}

// Provider calls the Swiss-Ephemeris cgo binding. The mutex is the system's
// sole serialization point (spec §5 "Ephemeris serialization").
type Provider struct {
	mu sync.Mutex
}

// New resolves the ephemeris data path by probing, in order: an explicit
// override, a conventional relative path, and an absolute fallback. Failure
// to locate the data files is a fatal startup error (spec §4.1), never a
// per-request one, so New returns an error the caller should treat as fatal.
func New(ctx context.Context, pathOverride string) (*Provider, error) {
	path, err := resolveEphePath(pathOverride)
	if err != nil {
		return nil, err
	}
	swe.SetEphePath(path)
	return &Provider{}, nil
}

func resolveEphePath(override string) (string, error) {
	candidates := []string{
		override,
		"./ephe",
		"/usr/share/sweph/ephe",
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			abs, err := filepath.Abs(c)
			if err != nil {
				return c, nil
			}
			return abs, nil
		}
	}
	return "", apierrors.NewConfigError("could not locate ephemeris data files in any of: " + fmt.Sprint(candidates))
}

// Longitude implements ephemeris.Provider.
func (p *Provider) Longitude(ctx context.Context, instant time.Time, body ephemeris.Body) (ephemeris.Result, error) {
	code, ok := bodyCode[body]
	if !ok {
		return ephemeris.Result{}, apierrors.New(apierrors.InvalidInput, "unsupported body for swisseph provider").
			WithDetail("body", body.String())
	}

	jd := angle.ToJulianDay(instant)

	p.mu.Lock()
	res := swe.CalcUT(jd, code, sweFlagSpeed)
	p.mu.Unlock()

	if res.Error != "" {
		return ephemeris.Result{}, apierrors.NewCalculationError(body.String(), instant, fmt.Errorf("%s", res.Error))
	}
	if len(res.Data) < 4 {
		return ephemeris.Result{}, apierrors.NewCalculationError(body.String(), instant,
			fmt.Errorf("swisseph returned insufficient data"))
	}

	lon := angle.Normalize(res.Data[0])
	speed := res.Data[3]
	if body == ephemeris.KetuMeanNode {
		lon = angle.Normalize(lon + 180)
	}

	return ephemeris.Result{
		LongitudeDeg:   lon,
		SpeedDegPerDay: speed,
		HasSpeed:       true,
		Backend:        ephemeris.Ephemeris,
	}, nil
}

// Close releases the underlying library's resources.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	swe.Close()
}
