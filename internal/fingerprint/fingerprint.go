// Package fingerprint canonically encodes an Engine Input and hashes it
// into the cache key used by every tier of internal/cache (spec §4.2).
package fingerprint

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/R3E-Network/consciousness-core/internal/apitypes"
)

// Digest is the hex-encoded BLAKE2b-256 fingerprint of a canonicalized
// Engine Input. It is used directly as a cache key string.
type Digest string

// Of canonically encodes input and returns its fingerprint. Encoding is
// deterministic: field order is fixed, coordinates are rounded to six
// decimal places, numeric time-zone offsets (and UTC/Z) are normalized to
// signed minutes while IANA zone names are kept verbatim, the current-time
// instant is quantized to seconds, and the options
// map is serialized with sorted keys (spec §4.2 "Fingerprint").
func Of(input apitypes.EngineInput, backendMode string) (Digest, error) {
	var b strings.Builder

	b.WriteString("engine_id=")
	b.WriteString(input.EngineID)
	b.WriteByte('\n')

	b.WriteString("birth_data=")
	if input.BirthData != nil {
		zone, err := normalizeZone(input.BirthData.Timezone)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s|%s|%s|%.6f|%.6f",
			input.BirthData.Date,
			normalizeTimeOfDay(input.BirthData.Time),
			zone,
			input.BirthData.Latitude,
			input.BirthData.Longitude,
		)
	} else {
		b.WriteString("<nil>")
	}
	b.WriteByte('\n')

	b.WriteString("current_time=")
	if input.CurrentTime != nil {
		b.WriteString(strconv.FormatInt(input.CurrentTime.Unix(), 10))
	} else {
		b.WriteString("<nil>")
	}
	b.WriteByte('\n')

	b.WriteString("precision=")
	b.WriteString(input.Precision)
	b.WriteByte('\n')

	b.WriteString("backend=")
	b.WriteString(backendMode)
	b.WriteByte('\n')

	b.WriteString("options=")
	b.WriteString(canonicalOptions(input.Options))
	b.WriteByte('\n')

	sum := blake2b.Sum256([]byte(b.String()))
	return Digest(fmt.Sprintf("%x", sum)), nil
}

// normalizeTimeOfDay pads "HH:MM" to "HH:MM:SS" so both forms of the input
// schema (spec §6) canonicalize identically.
func normalizeTimeOfDay(s string) string {
	if strings.Count(s, ":") == 1 {
		return s + ":00"
	}
	return s
}

// normalizeZone reduces an IANA name or numeric offset to a fixed form: the
// IANA name verbatim, or the offset reduced to signed minutes (spec §4.2).
func normalizeZone(zone string) (string, error) {
	trimmed := strings.TrimSpace(zone)
	if trimmed == "" {
		return "", fmt.Errorf("fingerprint: empty timezone")
	}
	if trimmed == "UTC" || trimmed == "Z" {
		return "+0000", nil
	}
	if strings.ContainsAny(trimmed, "+-") && !strings.Contains(trimmed, "/") {
		minutes, err := offsetMinutes(trimmed)
		if err != nil {
			return "", err
		}
		sign := "+"
		if minutes < 0 {
			sign = "-"
			minutes = -minutes
		}
		return fmt.Sprintf("%s%04d", sign, minutes), nil
	}
	// IANA name: kept verbatim, since a single IANA zone can denote
	// different offsets across the year (DST) and the instant already
	// resolved to a UTC timestamp upstream in internal/birthdata.
	return trimmed, nil
}

func offsetMinutes(offset string) (int, error) {
	sign := 1
	rest := offset
	switch {
	case strings.HasPrefix(offset, "+"):
		rest = offset[1:]
	case strings.HasPrefix(offset, "-"):
		sign = -1
		rest = offset[1:]
	}
	parts := strings.SplitN(rest, ":", 2)
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("fingerprint: invalid timezone offset %q: %w", offset, err)
	}
	minutes := 0
	if len(parts) == 2 {
		minutes, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("fingerprint: invalid timezone offset %q: %w", offset, err)
		}
	}
	return sign * (hours*60 + minutes), nil
}

// canonicalOptions renders a JSON-like options map with sorted keys and a
// stable scalar encoding, so two semantically-identical maps always
// produce the same bytes regardless of construction order.
func canonicalOptions(options map[string]interface{}) string {
	if len(options) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(canonicalValue(options[k]))
	}
	b.WriteByte('}')
	return b.String()
}

func canonicalValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int:
		return strconv.Itoa(val)
	case map[string]interface{}:
		return canonicalOptions(val)
	case []interface{}:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = canonicalValue(item)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return fmt.Sprintf("%v", val)
	}
}
