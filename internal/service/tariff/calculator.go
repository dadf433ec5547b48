package tariff

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CarparkService/internal/domain"
)

// Calculator считает стоимость стоянки по тарифному расписанию
type Calculator struct {
	schedule domain.RateSchedule
}

// NewCalculator создает калькулятор для расписания
func NewCalculator(schedule domain.RateSchedule) *Calculator {
	return &Calculator{schedule: schedule}
}

// Schedule возвращает тарифное расписание калькулятора
func (c *Calculator) Schedule() domain.RateSchedule {
	return c.schedule
}

// Calculate возвращает итоговую стоимость стоянки [entry, exit)
func (c *Calculator) Calculate(entry, exit time.Time) (float64, error) {
	quote, err := c.Quote(entry, exit)
	if err != nil {
		return 0, err
	}
	return quote.Total, nil
}

// Quote считает стоимость стоянки [entry, exit) с разбивкой по сегментам:
// 1. интервал делится по локальным полуночам;
// 2. в будние дни сутки делятся границами рабочего времени, в выходные - всё по ночному тарифу;
// 3. стоимость каждого сегмента округляется до 2 знаков, итог - сумма округлённых сегментов.
func (c *Calculator) Quote(entry, exit time.Time) (*Quote, error) {
	if exit.Before(entry) {
		return nil, fmt.Errorf("%w: entry=%s, exit=%s", ErrInvalidInterval,
			entry.Format(domain.DateTimeFormat), exit.Format(domain.DateTimeFormat))
	}

	quote := &Quote{
		Entry:    entry,
		Exit:     exit,
		Segments: []Segment{},
	}

	for _, day := range splitByDay(entry, exit, c.schedule.Loc()) {
		for _, segment := range c.splitDay(day) {
			quote.Segments = append(quote.Segments, segment)
			quote.Total += segment.Charge
		}
	}

	quote.Total = roundCharge(quote.Total)
	return quote, nil
}

// splitDay делит часть суток на сегменты по тарифным режимам
func (c *Calculator) splitDay(d dayInterval) []Segment {
	if !c.schedule.IsBusinessDay(d.day) {
		return []Segment{c.newSegment(d.from, d.to, RegimeOutOfHours)}
	}

	open := c.schedule.OpenAt(d.day)
	closing := c.schedule.CloseAt(d.day)

	// Короткий путь: весь интервал в одном режиме
	if !d.to.After(open) || !d.from.Before(closing) {
		return []Segment{c.newSegment(d.from, d.to, RegimeOutOfHours)}
	}
	if !d.from.Before(open) && !d.to.After(closing) {
		return []Segment{c.newSegment(d.from, d.to, RegimeBusinessHours)}
	}

	segments := make([]Segment, 0, 3)

	// до начала рабочего времени
	if d.from.Before(open) {
		segments = append(segments, c.newSegment(d.from, open, RegimeOutOfHours))
	}

	// рабочее время
	segments = append(segments, c.newSegment(laterOf(d.from, open), earlierOf(d.to, closing), RegimeBusinessHours))

	// после окончания рабочего времени
	if d.to.After(closing) {
		segments = append(segments, c.newSegment(closing, d.to, RegimeOutOfHours))
	}

	return segments
}

func (c *Calculator) newSegment(from, to time.Time, regime Regime) Segment {
	rate := c.schedule.OutOfHoursRate
	if regime == RegimeBusinessHours {
		rate = c.schedule.BusinessRate
	}

	minutes := roundMinutes(to.Sub(from))

	return Segment{
		Start:   from,
		End:     to,
		Regime:  regime,
		Minutes: minutes,
		Rate:    rate,
		Charge:  roundCharge(float64(minutes) / 60.0 * rate),
	}
}
