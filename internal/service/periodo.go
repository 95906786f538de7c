package service

import (
	"time"
)

// Periodo is an inclusive due-date range.
type Periodo struct {
	Inicio time.Time
	Fim    time.Time
}

// Period presets offered by the listing UI.
const (
	PresetHoje           = "Hoje"
	PresetEstaSemana     = "Esta semana"
	PresetEsteMes        = "Este mês"
	PresetEsteAno        = "Este ano"
	PresetUltimos30Dias  = "Últimos 30 dias"
	PresetUltimos12Meses = "Últimos 12 meses"
	PresetTodoOPeriodo   = "Todo o período"
)

// PeriodoFromPreset resolves a named preset relative to now. The second return
// is false for "Todo o período" and unknown presets, meaning no range filter.
func PeriodoFromPreset(preset string, now time.Time) (Periodo, bool) {
	dia := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch preset {
	case PresetHoje:
		return Periodo{Inicio: dia, Fim: dia.AddDate(0, 0, 1).Add(-time.Second)}, true
	case PresetEstaSemana:
		// Weeks start on Sunday, matching the calendar widget.
		inicio := dia.AddDate(0, 0, -int(dia.Weekday()))
		return Periodo{Inicio: inicio, Fim: inicio.AddDate(0, 0, 7).Add(-time.Second)}, true
	case PresetEsteMes:
		inicio := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Periodo{Inicio: inicio, Fim: inicio.AddDate(0, 1, 0).Add(-time.Second)}, true
	case PresetEsteAno:
		inicio := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return Periodo{Inicio: inicio, Fim: inicio.AddDate(1, 0, 0).Add(-time.Second)}, true
	case PresetUltimos30Dias:
		return Periodo{Inicio: dia.AddDate(0, 0, -30), Fim: dia.AddDate(0, 0, 1).Add(-time.Second)}, true
	case PresetUltimos12Meses:
		return Periodo{Inicio: dia.AddDate(-1, 0, 0), Fim: dia.AddDate(0, 0, 1).Add(-time.Second)}, true
	default:
		return Periodo{}, false
	}
}

// PeriodoFromMes resolves explicit month navigation (mes 1-12).
func PeriodoFromMes(mes, ano int, loc *time.Location) Periodo {
	inicio := time.Date(ano, time.Month(mes), 1, 0, 0, 0, 0, loc)
	return Periodo{Inicio: inicio, Fim: inicio.AddDate(0, 1, 0).Add(-time.Second)}
}

// Contem reports whether a yyyy-MM-dd date string falls in the range. Rows
// with unparseable dates are kept, matching the permissive listing behavior.
func (p Periodo) Contem(data string) bool {
	d, err := time.ParseInLocation("2006-01-02", data, p.Inicio.Location())
	if err != nil {
		return true
	}
	return !d.Before(p.Inicio) && !d.After(p.Fim)
}
