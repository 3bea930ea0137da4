// Package domain defines snapshot keys, measures and the store ports
package domain

import (
	"strings"
	"time"

	perr "tubepulse/internal/platform/errors"
	ptime "tubepulse/internal/platform/time"
)

// DimensionKind names the breakdown a snapshot row belongs to; empty is the entity total
type DimensionKind string

// Dimension kinds the ingest pipeline knows how to request
const (
	DimTotal         DimensionKind = ""
	DimDemographic   DimensionKind = "demographic"
	DimDevice        DimensionKind = "device"
	DimTrafficSource DimensionKind = "traffic_source"
)

// Kinds lists the non total dimension kinds
var Kinds = []DimensionKind{DimDemographic, DimDevice, DimTrafficSource}

// ParseDimensionKind accepts a non total kind, case insensitive
func ParseDimensionKind(s string) (DimensionKind, error) {
	k := DimensionKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return DimTotal, perr.WithField(perr.InvalidArgf("unknown dimension kind %q", s), "kind")
}

// Dimension is an optional sub breakdown, e.g. {device, MOBILE}
type Dimension struct {
	Kind  DimensionKind `json:"kind"`
	Value string        `json:"value"`
}

// IsTotal reports whether d is the entity total
func (d Dimension) IsTotal() bool { return d.Kind == DimTotal }

// Key identifies exactly one snapshot row; it is comparable and usable as a map key
// build it with NewKey so Date is always midnight UTC
type Key struct {
	EntityID  string
	Date      time.Time
	Dimension Dimension
}

// NewKey builds a key with the date truncated to its UTC day
func NewKey(entityID string, date time.Time, dim Dimension) Key {
	return Key{EntityID: entityID, Date: ptime.Day(date), Dimension: dim}
}

// String renders the key for logs
func (k Key) String() string {
	s := k.EntityID + "@" + ptime.FormatDate(k.Date)
	if !k.Dimension.IsTotal() {
		s += "/" + string(k.Dimension.Kind) + "=" + k.Dimension.Value
	}
	return s
}

// Measures are the metric values of one snapshot
type Measures struct {
	Views                  int64   `json:"views"`
	WatchMinutes           int64   `json:"watch_minutes"`
	AverageDurationSeconds float64 `json:"average_duration_seconds"`
	SubscribersGained      int64   `json:"subscribers_gained"`
	Likes                  int64   `json:"likes"`
	Comments               int64   `json:"comments"`
	ViewerPercentage       float64 `json:"viewer_percentage,omitempty"`
}

// Snapshot is one persisted daily row
type Snapshot struct {
	Key
	Measures
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the key is storable
func (s Snapshot) Validate() error {
	if strings.TrimSpace(s.EntityID) == "" {
		return perr.WithField(perr.InvalidArgf("snapshot: empty entity id"), "entity_id")
	}
	if s.Date.IsZero() {
		return perr.WithField(perr.InvalidArgf("snapshot %s: zero date", s.EntityID), "date")
	}
	if s.Dimension.IsTotal() != (s.Dimension.Value == "") {
		return perr.WithField(perr.InvalidArgf("snapshot %s: dimension kind and value must both be set", s.Key), "dimension")
	}
	return nil
}
