package reservations

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"antesala/internal/catalog"
)

// Field describes one draft input. A field is required when Required is set
// or RequiredWhen holds; Check, when present, rejects malformed non-empty values.
type Field struct {
	ID           string
	Label        string
	Required     bool
	RequiredWhen func(Draft) bool
	Value        func(Draft) string
	Check        func(value string) bool
}

func (f Field) required(d Draft) bool {
	if f.Required {
		return true
	}
	return f.RequiredWhen != nil && f.RequiredWhen(d)
}

// ValidationResult lists every missing and malformed field in schema order
type ValidationResult struct {
	OK              bool     `json:"ok"`
	MissingFieldIDs []string `json:"missingFieldIds,omitempty"`
	InvalidFieldIDs []string `json:"invalidFieldIds,omitempty"`
}

// Validator checks drafts against the reservation schema
type Validator struct {
	schema   []Field
	validate *validator.Validate
}

// NewValidator builds the schema against a catalog so unknown rooms and food types are rejected
func NewValidator(cat *catalog.Catalog) *Validator {
	v := &Validator{validate: validator.New()}
	v.schema = v.buildSchema(cat)
	return v
}

// Schema returns the fields in the order they are reported
func (v *Validator) Schema() []Field {
	return append([]Field(nil), v.schema...)
}

// Label returns the display label of a field id
func (v *Validator) Label(fieldID string) string {
	for _, f := range v.schema {
		if f.ID == fieldID {
			return f.Label
		}
	}
	return fieldID
}

// Validate never stops at the first problem
func (v *Validator) Validate(d Draft) ValidationResult {
	return v.validateFields(d, v.schema)
}

// ValidateFields runs only the named schema fields
func (v *Validator) ValidateFields(d Draft, ids ...string) ValidationResult {
	fields := make([]Field, 0, len(ids))
	for _, f := range v.schema {
		for _, id := range ids {
			if f.ID == id {
				fields = append(fields, f)
				break
			}
		}
	}
	return v.validateFields(d, fields)
}

func (v *Validator) validateFields(d Draft, fields []Field) ValidationResult {
	var result ValidationResult
	for _, f := range fields {
		value := strings.TrimSpace(f.Value(d))
		if value == "" {
			if f.required(d) {
				result.MissingFieldIDs = append(result.MissingFieldIDs, f.ID)
			}
			continue
		}
		if f.Check != nil && !f.Check(value) {
			result.InvalidFieldIDs = append(result.InvalidFieldIDs, f.ID)
		}
	}
	result.OK = len(result.MissingFieldIDs) == 0 && len(result.InvalidFieldIDs) == 0
	return result
}

func (v *Validator) buildSchema(cat *catalog.Catalog) []Field {
	isBuffet := func(d Draft) bool { return catalog.IsBuffet(d.FoodType) }
	isOther := func(d Draft) bool { return strings.TrimSpace(d.EventType) == catalog.OtherEventType }

	return []Field{
		{ID: "clientName", Label: "Nombre del Cliente", Required: true,
			Value: func(d Draft) string { return d.ClientName }},
		{ID: "clientEmail", Label: "Correo Electrónico",
			Value: func(d Draft) string { return d.ClientEmail },
			Check: func(s string) bool { return v.validate.Var(s, "email") == nil }},
		{ID: "clientPhone", Label: "Teléfono", Required: true,
			Value: func(d Draft) string { return d.ClientPhone }},
		{ID: "companyName", Label: "Nombre de la Compañía",
			Value: func(d Draft) string { return d.CompanyName }},
		{ID: "eventDate", Label: "Fecha del Evento", Required: true,
			Value: func(d Draft) string { return d.EventDate },
			Check: layoutCheck(DateLayout)},
		{ID: "eventTime", Label: "Hora del Evento", Required: true,
			Value: func(d Draft) string { return d.EventTime },
			Check: layoutCheck(TimeLayout)},
		{ID: "eventType", Label: "Tipo de Evento", Required: true,
			Value: func(d Draft) string { return d.EventType }},
		{ID: "otherEventType", Label: "Especificar Tipo de Evento", RequiredWhen: isOther,
			Value: func(d Draft) string {
				if !isOther(d) {
					return ""
				}
				return d.OtherEventType
			}},
		{ID: "eventDuration", Label: "Duración del Evento", Required: true,
			Value: func(d Draft) string { return d.EventDuration.String() },
			Check: func(s string) bool { _, ok := FormValue(s).positiveInt(); return ok }},
		{ID: "roomType", Label: "Espacio del Evento", Required: true,
			Value: func(d Draft) string { return d.RoomType },
			Check: func(s string) bool { _, ok := cat.FindRoom(s); return ok }},
		{ID: "foodType", Label: "Servicio de Comida", Required: true,
			Value: func(d Draft) string { return d.FoodType },
			Check: func(s string) bool { _, ok := cat.FindFood(s); return ok }},
		{ID: "guestCount", Label: "Número de Invitados", Required: true,
			Value: func(d Draft) string {
				if d.ResolveGuestCount() == 0 {
					return ""
				}
				return "ok"
			}},
		{ID: "tableType", Label: "Configuración de Mesas", Required: true,
			Value: func(d Draft) string { return d.TableType }},
		buffetField("buffetRice", "Arroz (Buffet)", catalog.BuffetRice, isBuffet, func(b Buffet) string { return b.Rice }),
		buffetField("buffetProtein1", "Proteína 1 (Buffet)", catalog.BuffetProtein, isBuffet, func(b Buffet) string { return b.Protein1 }),
		buffetField("buffetProtein2", "Proteína 2 (Buffet)", catalog.BuffetProtein, isBuffet, func(b Buffet) string { return b.Protein2 }),
		buffetField("buffetSide", "Acompañamiento (Buffet)", catalog.BuffetSide, isBuffet, func(b Buffet) string { return b.Side }),
		buffetField("buffetSalad", "Ensalada (Buffet)", catalog.BuffetSalad, isBuffet, func(b Buffet) string { return b.Salad }),
		{ID: "tipPercentage", Label: "Propina",
			Value: func(d Draft) string { return d.TipPercentage.String() },
			Check: percentageCheck},
		{ID: "depositPercentage", Label: "Depósito",
			Value: func(d Draft) string { return d.DepositPercentage.String() },
			Check: percentageCheck},
	}
}

// buffetField only reads its value for buffet drafts, so stale picks on other food types are ignored
func buffetField(id, label string, category catalog.BuffetCategory, isBuffet func(Draft) bool, pick func(Buffet) string) Field {
	return Field{
		ID:           id,
		Label:        label,
		RequiredWhen: isBuffet,
		Value: func(d Draft) string {
			if !isBuffet(d) {
				return ""
			}
			return pick(d.Buffet)
		},
		Check: func(s string) bool { return catalog.IsBuffetOption(category, s) },
	}
}

func layoutCheck(layout string) func(string) bool {
	return func(s string) bool {
		_, err := time.Parse(layout, s)
		return err == nil
	}
}

var maxPercentage = decimal.NewFromInt(100)

func percentageCheck(s string) bool {
	p, ok := FormValue(s).decimal()
	if !ok {
		return false
	}
	return !p.IsNegative() && p.LessThanOrEqual(maxPercentage)
}
