package stock

import (
	"time"

	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
)

// DefaultExpiringSoonDays ventana de "por vencer" (6 meses).
const DefaultExpiringSoonDays = 180

// Alerts estado derivado de un ítem. Nunca se persiste: se recalcula en cada escritura y lectura.
type Alerts struct {
	LowStock     bool `json:"is_low_stock"`
	Expired      bool `json:"is_expired"`
	ExpiringSoon bool `json:"is_expiring_soon"`
}

// Any indica si hay al menos una alerta activa.
func (a Alerts) Any() bool {
	return a.LowStock || a.Expired || a.ExpiringSoon
}

// AlertPolicy parámetros de evaluación de alertas.
type AlertPolicy struct {
	ExpiringSoonDays int
}

// DefaultAlertPolicy política con la ventana de 180 días.
func DefaultAlertPolicy() AlertPolicy {
	return AlertPolicy{ExpiringSoonDays: DefaultExpiringSoonDays}
}

// Evaluate calcula las alertas del ítem para la fecha today (solo se usa la fecha, no la hora).
// Vencido tiene precedencia: un ítem vencido nunca se reporta además como "por vencer".
func (p AlertPolicy) Evaluate(item *entity.InventoryItem, today time.Time) Alerts {
	var a Alerts
	if item == nil {
		return a
	}
	if item.LowStockThreshold != nil {
		a.LowStock = item.Quantity.LessThanOrEqual(*item.LowStockThreshold)
	}
	if item.ExpirationDate != nil {
		exp := dateOnly(*item.ExpirationDate)
		day := dateOnly(today)
		a.Expired = !exp.After(day)
		a.ExpiringSoon = !a.Expired && !exp.After(day.AddDate(0, 0, p.ExpiringSoonDays))
	}
	return a
}

// EvaluateAlerts evalúa con la política por defecto.
func EvaluateAlerts(item *entity.InventoryItem, today time.Time) Alerts {
	return DefaultAlertPolicy().Evaluate(item, today)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
