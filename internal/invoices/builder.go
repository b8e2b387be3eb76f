package invoices

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"antesala/internal/catalog"
	"antesala/internal/pricing"
	"antesala/internal/reservations"
)

var whitespace = regexp.MustCompile(`\s+`)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// Number formats the invoice number from the year and the 1-based list position
func Number(year, position int) string {
	return fmt.Sprintf("%d-%03d", year, position)
}

// FileName is the download name of an invoice, without extension
func FileName(number, clientName string) string {
	return "Invoice-" + number + "-" + whitespace.ReplaceAllString(clientName, "-")
}

// Builder turns reservations into invoices
type Builder struct {
	catalog *catalog.Catalog
	venue   Venue
}

func NewBuilder(cat *catalog.Catalog) *Builder {
	return &Builder{catalog: cat, venue: DefaultVenue}
}

// Build formats r. position is its 1-based index in the reservation list.
func (b *Builder) Build(r reservations.Reservation, year, position int) Invoice {
	number := Number(year, position)
	p := r.Pricing

	inv := Invoice{
		Number:        number,
		FileName:      FileName(number, r.ClientName),
		ReservationID: r.ID,
		Venue:         b.venue,
		Client: Client{
			Name:    r.ClientName,
			Company: r.CompanyName,
			Phone:   r.ClientPhone,
			Email:   r.ClientEmail,
		},
		Event: Event{
			Type:       eventLabel(r.EventType),
			Date:       longDate(r.EventDate),
			Time:       twelveHour(r.EventTime),
			Duration:   r.EventDuration,
			Room:       b.catalog.RoomDisplayName(r.RoomType),
			GuestCount: r.GuestCount,
		},
		Totals: Totals{
			Subtotal:          p.SubtotalBeforeTaxes,
			FoodStateTax:      p.Taxes.FoodStateTax,
			FoodCityTax:       p.Taxes.FoodCityTax,
			AlcoholTax:        p.Taxes.AlcoholTax,
			TotalTaxes:        p.Taxes.Total,
			TipPercentage:     p.Tip.Percentage,
			Tip:               p.Tip.Amount,
			Total:             p.TotalCost,
			DepositPercentage: p.DepositPercentage,
			Deposit:           p.DepositAmount,
			DepositPaid:       r.DepositPaid,
			Balance:           r.Balance(),
		},
	}
	if r.TableConfiguration != nil {
		inv.Event.Tables = r.TableConfiguration.Describe()
	}

	if len(p.LineItems) > 0 {
		inv.Rows = b.rowsFromLines(r)
	} else {
		inv.Rows = b.rowsFromTotals(r)
	}
	return inv
}

// rowsFromLines lists food, beverages, entremeses, room, then services
func (b *Builder) rowsFromLines(r reservations.Reservation) []Row {
	p := r.Pricing
	var rows []Row

	for _, l := range p.LinesFor(pricing.LineFood) {
		rows = append(rows, b.foodRow(r, l.Description, l.Amount))
	}
	for _, category := range []pricing.LineCategory{pricing.LineBeverage, pricing.LineEntremeses} {
		for _, l := range p.LinesFor(category) {
			rows = append(rows, Row{
				Description: l.Description,
				Quantity:    strconv.Itoa(l.Quantity),
				Amount:      l.Amount,
			})
		}
	}
	for _, l := range p.LinesFor(pricing.LineRoom) {
		rows = append(rows, b.roomRow(r, l.Amount))
	}
	for _, l := range p.LinesFor(pricing.LineService) {
		rows = append(rows, serviceRow(l.Description, l.Amount))
	}
	return rows
}

// rowsFromTotals covers records that were stored without line items
func (b *Builder) rowsFromTotals(r reservations.Reservation) []Row {
	p := r.Pricing
	var rows []Row

	if p.FoodCost.IsPositive() {
		rows = append(rows, b.foodRow(r, b.catalog.FoodDisplayName(r.FoodType), p.FoodCost))
	}
	if p.DrinkCost.IsPositive() {
		rows = append(rows, Row{Description: "Bebidas", Quantity: "1", Amount: p.DrinkCost})
	}
	if p.EntremesesCost.IsPositive() {
		rows = append(rows, Row{Description: "Entremeses", Quantity: "1", Amount: p.EntremesesCost})
	}
	if p.RoomCost.IsPositive() {
		rows = append(rows, b.roomRow(r, p.RoomCost))
	}

	enabled := r.AdditionalServices.Enabled()
	if len(enabled) > 0 {
		names := make([]string, len(enabled))
		for i, key := range enabled {
			names[i] = catalog.ServiceDisplayName(key)
		}
		row := serviceRow("Servicios Adicionales", p.AdditionalCost)
		row.Details = names
		rows = append(rows, row)
	}
	return rows
}

func (b *Builder) foodRow(r reservations.Reservation, description string, amount decimal.Decimal) Row {
	row := Row{
		Description: description,
		Quantity:    strconv.Itoa(r.GuestCount),
		Amount:      amount,
	}
	if catalog.IsBuffet(r.FoodType) && r.Buffet != nil {
		row.Description = "Buffet"
		row.Details = buffetDetails(*r.Buffet)
	}
	return row
}

func (b *Builder) roomRow(r reservations.Reservation, amount decimal.Decimal) Row {
	return Row{
		Description: fmt.Sprintf("%s - %d hours", b.catalog.RoomDisplayName(r.RoomType), r.EventDuration),
		Quantity:    "1",
		Amount:      amount,
	}
}

func serviceRow(name string, fee decimal.Decimal) Row {
	if fee.IsPositive() {
		return Row{Description: name, Quantity: "1", Amount: fee}
	}
	return Row{Description: name, Quantity: "-", Amount: fee, Included: true}
}

func buffetDetails(bf reservations.Buffet) []string {
	var details []string
	picks := []struct {
		category catalog.BuffetCategory
		id       string
	}{
		{catalog.BuffetRice, bf.Rice},
		{catalog.BuffetProtein, bf.Protein1},
		{catalog.BuffetProtein, bf.Protein2},
		{catalog.BuffetSide, bf.Side},
		{catalog.BuffetSalad, bf.Salad},
	}
	for _, pick := range picks {
		if pick.id != "" {
			details = append(details, catalog.BuffetItemName(pick.category, pick.id))
		}
	}
	if bf.Panecillos {
		details = append(details, catalog.BuffetPanecillosName)
	}
	if bf.AguaRefresco {
		details = append(details, catalog.BuffetAguaRefrescoName)
	}
	return details
}

func eventLabel(eventType string) string {
	if eventType == "" {
		return "Evento"
	}
	return catalog.EventTypeDisplayName(eventType)
}

// longDate renders 2026-11-20 as "20 de noviembre de 2026"
func longDate(date string) string {
	t, err := time.Parse(reservations.DateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

func twelveHour(clock string) string {
	t, err := time.Parse(reservations.TimeLayout, clock)
	if err != nil {
		return clock
	}
	return t.Format("3:04 PM")
}
