package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"antesala/internal/catalog"
	"antesala/internal/reservations"
	"antesala/internal/shared/constants"
	"antesala/pkg/cache"
)

const dashboardListSize = 5

// Service defines the analytics service interface
type Service interface {
	GetDashboard(ctx context.Context, today time.Time) (*Dashboard, error)
	GetRoomStats(ctx context.Context) ([]RoomStat, error)
	GetGuestStats(ctx context.Context) (*GuestStats, error)
	GetCalendar(ctx context.Context, year int, month time.Month) (*CalendarMonth, error)

	// Invalidate drops cached statistics after the reservation list changes
	Invalidate(ctx context.Context) error
}

// service implements the Service interface
type service struct {
	source       Source
	catalog      *catalog.Catalog
	cacheService cache.Service
}

// NewService creates a new analytics service instance. cacheService may be nil.
func NewService(source Source, cat *catalog.Catalog, cacheService cache.Service) Service {
	return &service{source: source, catalog: cat, cacheService: cacheService}
}

// cached serves from Redis when configured, computing and storing on a miss
func cached[T any](ctx context.Context, s *service, key string, ttl time.Duration, compute func() T) (T, error) {
	if s.cacheService == nil {
		return compute(), nil
	}
	var out T
	err := s.cacheService.GetOrSet(ctx, key, ttl, func() (interface{}, error) {
		return compute(), nil
	}, &out)
	if err != nil {
		return out, fmt.Errorf("failed to load cached analytics %s: %w", key, err)
	}
	return out, nil
}

// Dashboard Analytics Implementation

func (s *service) GetDashboard(ctx context.Context, today time.Time) (*Dashboard, error) {
	day := today.Format(reservations.DateLayout)
	dashboard, err := cached(ctx, s, constants.BuildDashboardKey(day), constants.TTL_ANALYTICS_DASHBOARD, func() Dashboard {
		return s.buildDashboard(today)
	})
	if err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (s *service) buildDashboard(today time.Time) Dashboard {
	day := today.Format(reservations.DateLayout)
	list := s.source.List(reservations.SortByCreatedDesc)

	d := Dashboard{
		TotalReservations:  len(list),
		TotalRevenue:       decimal.Zero,
		OutstandingBalance: decimal.Zero,
		Recent:             []ReservationSummary{},
		Upcoming:           []ReservationSummary{},
		GeneratedFor:       day,
	}
	for i, r := range list {
		d.TotalRevenue = d.TotalRevenue.Add(r.Pricing.TotalCost)
		d.OutstandingBalance = d.OutstandingBalance.Add(r.Balance())
		d.TotalGuests += r.GuestCount
		if r.EventDate == day {
			d.EventsToday++
		}
		if r.DepositPaid {
			d.DepositsPaid++
		}
		if i < dashboardListSize {
			d.Recent = append(d.Recent, s.summarize(r))
		}
	}

	byDate := s.source.List(reservations.SortByEventDate)
	for _, r := range reservations.FilterUpcoming(byDate, today) {
		if len(d.Upcoming) == dashboardListSize {
			break
		}
		d.Upcoming = append(d.Upcoming, s.summarize(r))
	}
	return d
}

// Room Analytics Implementation

func (s *service) GetRoomStats(ctx context.Context) ([]RoomStat, error) {
	return cached(ctx, s, constants.CACHE_KEY_ANALYTICS_ROOMS, constants.TTL_ANALYTICS_STATS, s.buildRoomStats)
}

// buildRoomStats counts events per room, busiest first
func (s *service) buildRoomStats() []RoomStat {
	counts := map[string]int{}
	for _, r := range s.source.List(reservations.SortNone) {
		counts[r.RoomType]++
	}

	stats := make([]RoomStat, 0, len(counts))
	for room, n := range counts {
		stats = append(stats, RoomStat{RoomType: room, DisplayName: s.catalog.RoomDisplayName(room), Count: n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].RoomType < stats[j].RoomType
	})
	return stats
}

// Guest Analytics Implementation

func (s *service) GetGuestStats(ctx context.Context) (*GuestStats, error) {
	stats, err := cached(ctx, s, constants.CACHE_KEY_ANALYTICS_GUESTS, constants.TTL_ANALYTICS_STATS, s.buildGuestStats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// buildGuestStats reports the true minimum; an empty list yields all zeros
func (s *service) buildGuestStats() GuestStats {
	list := s.source.List(reservations.SortNone)
	stats := GuestStats{Reservations: len(list), Average: decimal.Zero}
	if len(list) == 0 {
		return stats
	}

	stats.Min = list[0].GuestCount
	for _, r := range list {
		stats.Total += r.GuestCount
		if r.GuestCount > stats.Max {
			stats.Max = r.GuestCount
		}
		if r.GuestCount < stats.Min {
			stats.Min = r.GuestCount
		}
	}
	stats.Average = decimal.NewFromInt(int64(stats.Total)).
		Div(decimal.NewFromInt(int64(len(list)))).
		Round(1)
	return stats
}

// Calendar Analytics Implementation

func (s *service) GetCalendar(ctx context.Context, year int, month time.Month) (*CalendarMonth, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	cal, err := cached(ctx, s, constants.BuildCalendarKey(year, int(month)), constants.TTL_ANALYTICS_CALENDAR, func() CalendarMonth {
		return s.buildCalendar(year, month)
	})
	if err != nil {
		return nil, err
	}
	return &cal, nil
}

func (s *service) buildCalendar(year int, month time.Month) CalendarMonth {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	cal := CalendarMonth{
		Year:         year,
		Month:        int(month),
		FirstWeekday: int(first.Weekday()),
		DaysInMonth:  first.AddDate(0, 1, -1).Day(),
		Days:         []CalendarDay{},
	}

	prefix := first.Format("2006-01-")
	for _, r := range s.source.List(reservations.SortByEventDate) {
		if len(r.EventDate) != len(reservations.DateLayout) || r.EventDate[:len(prefix)] != prefix {
			continue
		}
		if n := len(cal.Days); n > 0 && cal.Days[n-1].Date == r.EventDate {
			cal.Days[n-1].Reservations = append(cal.Days[n-1].Reservations, s.summarize(r))
			continue
		}
		cal.Days = append(cal.Days, CalendarDay{
			Date:         r.EventDate,
			Reservations: []ReservationSummary{s.summarize(r)},
		})
	}
	return cal
}

func (s *service) Invalidate(ctx context.Context) error {
	if s.cacheService == nil {
		return nil
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_ANALYTICS); err != nil {
		return fmt.Errorf("failed to invalidate analytics cache: %w", err)
	}
	return nil
}

func (s *service) summarize(r reservations.Reservation) ReservationSummary {
	return ReservationSummary{
		ID:          r.ID,
		ClientName:  r.ClientName,
		EventDate:   r.EventDate,
		EventTime:   r.EventTime,
		EventType:   catalog.EventTypeDisplayName(r.EventType),
		RoomType:    r.RoomType,
		RoomName:    s.catalog.RoomDisplayName(r.RoomType),
		GuestCount:  r.GuestCount,
		TotalCost:   r.Pricing.TotalCost,
		DepositPaid: r.DepositPaid,
		CreatedAt:   r.CreatedAt,
	}
}
