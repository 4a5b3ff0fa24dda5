// Package cache describes HTTP caching strategies and renders them as Cache-Control values.
package cache

import (
	"net/http"
	"strconv"
	"strings"
)

// Mode is the Cache-Control visibility directive.
type Mode string

const (
	Public  Mode = "public"
	Private Mode = "private"
	NoStore Mode = "no-store"
)

// Strategy is a set of Cache-Control directives. Zero durations are omitted.
type Strategy struct {
	Mode                 Mode
	MaxAge               int
	StaleWhileRevalidate int
	SMaxAge              int
	StaleIfError         int
	MustRevalidate       bool
	NoTransform          bool
}

// Short caches for a second and revalidates in the background for nine more.
func Short() Strategy {
	return Strategy{Mode: Public, MaxAge: 1, StaleWhileRevalidate: 9}
}

// Long caches for an hour and revalidates in the background for the rest of the day.
func Long() Strategy {
	return Strategy{Mode: Public, MaxAge: 3600, StaleWhileRevalidate: 82800}
}

// None disables caching.
func None() Strategy {
	return Strategy{Mode: NoStore}
}

// Custom returns s unchanged, defaulting the mode to public.
func Custom(s Strategy) Strategy {
	if s.Mode == "" {
		s.Mode = Public
	}
	return s
}

// Header renders the Cache-Control value.
func (s Strategy) Header() string {
	if s.Mode == NoStore {
		return string(NoStore)
	}
	mode := s.Mode
	if mode == "" {
		mode = Public
	}
	parts := []string{string(mode)}
	if s.MaxAge > 0 {
		parts = append(parts, "max-age="+strconv.Itoa(s.MaxAge))
	}
	if s.SMaxAge > 0 {
		parts = append(parts, "s-maxage="+strconv.Itoa(s.SMaxAge))
	}
	if s.MustRevalidate {
		parts = append(parts, "must-revalidate")
	}
	if s.NoTransform {
		parts = append(parts, "no-transform")
	}
	if s.StaleWhileRevalidate > 0 {
		parts = append(parts, "stale-while-revalidate="+strconv.Itoa(s.StaleWhileRevalidate))
	}
	if s.StaleIfError > 0 {
		parts = append(parts, "stale-if-error="+strconv.Itoa(s.StaleIfError))
	}
	return strings.Join(parts, ", ")
}

// LongHeader is the Cache-Control value for Long.
var LongHeader = Long().Header()

// RouteHeaders copies the loader's Cache-Control onto the document response so HTML and
// JSON responses for the same route are cached alike.
func RouteHeaders(dst, loader http.Header) {
	if dst == nil || loader == nil {
		return
	}
	if v := loader.Get("Cache-Control"); v != "" {
		dst.Set("Cache-Control", v)
	}
}
