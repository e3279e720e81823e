package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/renterra/boxrent/internal/booking"
	"github.com/renterra/boxrent/internal/model"
	"github.com/renterra/boxrent/internal/repository"
)

// AvailabilityService answers read-only availability questions for single
// boxes and for box models aggregated across a location.  All reads run
// outside transactions; availability answers are advisory and the booking
// creation transaction is the only authority on conflicts.
type AvailabilityService struct {
	reader repository.Queries
	log    zerolog.Logger
}

// NewAvailabilityService wires an availability service.
func NewAvailabilityService(reader repository.Queries, log zerolog.Logger) *AvailabilityService {
	return &AvailabilityService{reader: reader, log: log}
}

// ModelAvailabilityResult is the aggregated answer for a box model across a
// location.
type ModelAvailabilityResult struct {
	TotalBoxes      int        `json:"total_boxes"`
	AvailableBoxes  int        `json:"available_boxes"`
	IsFullyBooked   bool       `json:"is_fully_booked"`
	NextAvailableAt *time.Time `json:"next_available_at,omitempty"`
}

// BoxAvailability reports whether a single box is free for the requested
// range.  Both range bounds zero means "is the box free at all".
func (s *AvailabilityService) BoxAvailability(ctx context.Context, boxID uint64, reqStart, reqEnd time.Time) (*booking.Availability, error) {
	if _, err := s.reader.GetBox(ctx, boxID); err != nil {
		return nil, err
	}
	open, err := s.reader.OpenBookingsForBox(ctx, boxID, 0)
	if err != nil {
		return nil, err
	}
	av := booking.CalculateAvailability(open, reqStart, reqEnd)
	return &av, nil
}

// ModelAvailability aggregates availability over every active box of the
// given model at a location.  A box with zero open bookings counts as
// available; the model is fully booked only when it has boxes and none is
// free for the requested range.  The hint is the max end instant across all
// outstanding bookings of the model, i.e. when the model is guaranteed
// fully free again.
func (s *AvailabilityService) ModelAvailability(ctx context.Context, locationID uint64, boxModel string, reqStart, reqEnd time.Time) (*ModelAvailabilityResult, error) {
	boxes, err := s.activeBoxes(ctx, locationID, boxModel)
	if err != nil {
		return nil, err
	}

	res := &ModelAvailabilityResult{TotalBoxes: len(boxes)}
	var latest *time.Time
	for i := range boxes {
		open, err := s.reader.OpenBookingsForBox(ctx, boxes[i].ID, 0)
		if err != nil {
			return nil, err
		}
		av := booking.CalculateAvailability(open, reqStart, reqEnd)
		if av.IsAvailable {
			res.AvailableBoxes++
		}
		for j := range open {
			if open[j].IsOpen() && (latest == nil || open[j].EndAt.After(*latest)) {
				end := open[j].EndAt
				latest = &end
			}
		}
	}
	res.IsFullyBooked = res.TotalBoxes > 0 && res.AvailableBoxes == 0
	if res.IsFullyBooked {
		res.NextAvailableAt = latest
	}
	return res, nil
}

// BoxBlockedRanges lists the date ranges during which a box is taken.  The
// ranges are per-booking and unmerged.
func (s *AvailabilityService) BoxBlockedRanges(ctx context.Context, boxID uint64) ([]booking.Range, error) {
	if _, err := s.reader.GetBox(ctx, boxID); err != nil {
		return nil, err
	}
	open, err := s.reader.OpenBookingsForBox(ctx, boxID, 0)
	if err != nil {
		return nil, err
	}
	return booking.BlockedRanges(open), nil
}

// ModelBlockedRanges collects the blocked ranges of every active box of the
// model at the location and compresses them into a minimal merged set for
// calendar display.
func (s *AvailabilityService) ModelBlockedRanges(ctx context.Context, locationID uint64, boxModel string) ([]booking.Range, error) {
	boxes, err := s.activeBoxes(ctx, locationID, boxModel)
	if err != nil {
		return nil, err
	}
	all := make([]booking.Range, 0)
	for i := range boxes {
		open, err := s.reader.OpenBookingsForBox(ctx, boxes[i].ID, 0)
		if err != nil {
			return nil, err
		}
		all = append(all, booking.BlockedRanges(open)...)
	}
	return booking.MergeRanges(all), nil
}

func (s *AvailabilityService) activeBoxes(ctx context.Context, locationID uint64, boxModel string) ([]model.Box, error) {
	if _, err := s.reader.GetLocation(ctx, locationID); err != nil {
		return nil, err
	}
	return s.reader.ActiveBoxesAtLocation(ctx, locationID, boxModel)
}
