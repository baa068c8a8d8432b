package calendario

import (
	"time"
)

// ContarDiasUteis counts weekdays after inicio up to and including fim,
// skipping Saturdays and Sundays. No holiday calendar is applied. The result
// is negative when fim is before inicio; callers read that as "overdue".
func ContarDiasUteis(inicio, fim time.Time) int {
	sign := 1
	a, b := dateOnly(inicio), dateOnly(fim)
	if b.Before(a) {
		a, b = b, a
		sign = -1
	}

	count := 0
	for d := a.AddDate(0, 0, 1); !d.After(b); d = d.AddDate(0, 0, 1) {
		if isDiaUtil(d) {
			count++
		}
	}
	return sign * count
}

// AdicionarDiasUteis advances inicio by n weekdays. n == 0 returns inicio
// unchanged.
func AdicionarDiasUteis(inicio time.Time, n int) time.Time {
	d := inicio
	for i := 0; i < n; i++ {
		d = d.AddDate(0, 0, 1)
		for !isDiaUtil(d) {
			d = d.AddDate(0, 0, 1)
		}
	}
	return d
}

func isDiaUtil(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
