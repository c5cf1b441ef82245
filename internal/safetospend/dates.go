package safetospend

import "time"

const dateKeyLayout = "2006-01-02"

// DateKey возвращает календарную дату инстанта в заданной таймзоне (YYYY-MM-DD).
// Это единственный тест равенства "расход попал на этот календарный день".
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateKeyLayout)
}

// StartOfZonedDay возвращает локальную полночь календарного дня,
// содержащего инстант, в заданной таймзоне.
func StartOfZonedDay(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// ZonedMidnightFromDateKey интерпретирует голую календарную дату как локальную
// полночь в заданной таймзоне. Все сохраненные даты счетов и зарплат проходят
// через эту функцию перед сравнением с инстантами.
func ZonedMidnightFromDateKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateKeyLayout, key, loc)
}

// ResolveMonthlyDueDate вычисляет дату списания для счета с указанным днем
// месяца: кандидат в текущем месяце, а если он уже прошел — ровно через один
// календарный месяц. Переполнение короткого месяца нормализуется семантикой
// time.Date/AddDate (31-е в 30-дневном месяце перетекает в следующий).
func ResolveMonthlyDueDate(dueDayOfMonth int, todayStart time.Time, loc *time.Location) time.Time {
	year, month, _ := todayStart.In(loc).Date()
	candidate := time.Date(year, month, dueDayOfMonth, 0, 0, 0, 0, loc)
	if candidate.Before(todayStart) {
		return candidate.AddDate(0, 1, 0)
	}
	return candidate
}

// calendarDaysBetween считает разницу в календарных днях между двумя
// инстантами в заданной таймзоне. Считаем по гражданским датам, а не делением
// длительности: переходы на летнее время делают сутки короче или длиннее 24ч.
func calendarDaysBetween(start, end time.Time, loc *time.Location) int {
	startYear, startMonth, startDay := start.In(loc).Date()
	endYear, endMonth, endDay := end.In(loc).Date()

	s := time.Date(startYear, startMonth, startDay, 0, 0, 0, 0, time.UTC)
	e := time.Date(endYear, endMonth, endDay, 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s) / (24 * time.Hour))
}

// withinInclusive проверяет попадание в интервал, включая обе границы.
// Для вывернутого интервала (end раньше start) всегда false.
func withinInclusive(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
