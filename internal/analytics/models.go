package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReservationSummary is the compact row shown in dashboard lists and the calendar
type ReservationSummary struct {
	ID          string          `json:"id"`
	ClientName  string          `json:"clientName"`
	EventDate   string          `json:"eventDate"`
	EventTime   string          `json:"eventTime"`
	EventType   string          `json:"eventType"`
	RoomType    string          `json:"roomType"`
	RoomName    string          `json:"roomName"`
	GuestCount  int             `json:"guestCount"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	DepositPaid bool            `json:"depositPaid"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Dashboard Analytics
type Dashboard struct {
	TotalReservations  int                  `json:"totalReservations"`
	TotalRevenue       decimal.Decimal      `json:"totalRevenue"`
	TotalGuests        int                  `json:"totalGuests"`
	EventsToday        int                  `json:"eventsToday"`
	DepositsPaid       int                  `json:"depositsPaid"`
	OutstandingBalance decimal.Decimal      `json:"outstandingBalance"`
	Recent             []ReservationSummary `json:"recent"`
	Upcoming           []ReservationSummary `json:"upcoming"`
	GeneratedFor       string               `json:"generatedFor"`
}

// Room Analytics
type RoomStat struct {
	RoomType    string `json:"roomType"`
	DisplayName string `json:"displayName"`
	Count       int    `json:"count"`
}

// Guest Analytics
type GuestStats struct {
	Reservations int             `json:"reservations"`
	Total        int             `json:"total"`
	Average      decimal.Decimal `json:"average"`
	Max          int             `json:"max"`
	Min          int             `json:"min"`
}

// Calendar Analytics
type CalendarDay struct {
	Date         string               `json:"date"`
	Reservations []ReservationSummary `json:"reservations"`
}

type CalendarMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	// FirstWeekday is the weekday of day 1, Sunday being 0
	FirstWeekday int           `json:"firstWeekday"`
	DaysInMonth  int           `json:"daysInMonth"`
	Days         []CalendarDay `json:"days"`
}
