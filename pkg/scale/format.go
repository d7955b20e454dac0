package scale

import (
	"strconv"
	"strings"
	"time"
)

// Locale carries the names used by the {MMMM}, {MMM}, {eeee} and {ee}
// template tokens.
type Locale struct {
	Name        string
	Months      [12]string
	MonthsShort [12]string
	Days        [7]string
	DaysShort   [7]string
	AM, PM      string
}

var (
	LocaleEN = Locale{
		Name:        "en",
		Months:      [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
		MonthsShort: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		Days:        [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		DaysShort:   [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		AM:          "AM",
		PM:          "PM",
	}
	LocaleID = Locale{
		Name:        "id",
		Months:      [12]string{"Januari", "Februari", "Maret", "April", "Mei", "Juni", "Juli", "Agustus", "September", "Oktober", "November", "Desember"},
		MonthsShort: [12]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"},
		Days:        [7]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"},
		DaysShort:   [7]string{"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"},
		AM:          "AM",
		PM:          "PM",
	}
	LocaleDE = Locale{
		Name:        "de",
		Months:      [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
		MonthsShort: [12]string{"Jan", "Feb", "Mär", "Apr", "Mai", "Jun", "Jul", "Aug", "Sep", "Okt", "Nov", "Dez"},
		Days:        [7]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
		DaysShort:   [7]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"},
		AM:          "AM",
		PM:          "PM",
	}
	LocaleJA = Locale{
		Name:        "ja",
		Months:      [12]string{"1月", "2月", "3月", "4月", "5月", "6月", "7月", "8月", "9月", "10月", "11月", "12月"},
		MonthsShort: [12]string{"1月", "2月", "3月", "4月", "5月", "6月", "7月", "8月", "9月", "10月", "11月", "12月"},
		Days:        [7]string{"日曜日", "月曜日", "火曜日", "水曜日", "木曜日", "金曜日", "土曜日"},
		DaysShort:   [7]string{"日", "月", "火", "水", "木", "金", "土"},
		AM:          "午前",
		PM:          "午後",
	}
)

var locales = map[string]Locale{
	"en": LocaleEN,
	"id": LocaleID,
	"de": LocaleDE,
	"ja": LocaleJA,
}

// LookupLocale returns the locale registered under name, falling back to
// English.
func LookupLocale(name string) Locale {
	if l, ok := locales[strings.ToLower(name)]; ok {
		return l
	}
	return LocaleEN
}

func pad(v, width int) string {
	s := strconv.Itoa(v)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// FormatTime renders t with a token template such as
// "{yyyy}-{MM}-{dd} {HH}:{mm}:{ss}.{SSS}". Unknown tokens are copied
// through unchanged, braces included.
func FormatTime(t time.Time, template string, loc Locale) string {
	if loc.Name == "" {
		loc = LocaleEN
	}
	var b strings.Builder
	b.Grow(len(template) + 8)
	for i := 0; i < len(template); {
		if template[i] != '{' {
			b.WriteByte(template[i])
			i++
			continue
		}
		end := strings.IndexByte(template[i:], '}')
		if end < 0 {
			b.WriteString(template[i:])
			break
		}
		tok := template[i+1 : i+end]
		if v, ok := formatToken(t, tok, loc); ok {
			b.WriteString(v)
		} else {
			b.WriteString(template[i : i+end+1])
		}
		i += end + 1
	}
	return b.String()
}

func formatToken(t time.Time, tok string, loc Locale) (string, bool) {
	hour12 := t.Hour() % 12
	if hour12 == 0 {
		hour12 = 12
	}
	switch tok {
	case "yyyy":
		return pad(t.Year(), 4), true
	case "yy":
		return pad(t.Year()%100, 2), true
	case "MMMM":
		return loc.Months[t.Month()-1], true
	case "MMM":
		return loc.MonthsShort[t.Month()-1], true
	case "MM":
		return pad(int(t.Month()), 2), true
	case "M":
		return strconv.Itoa(int(t.Month())), true
	case "dd":
		return pad(t.Day(), 2), true
	case "d":
		return strconv.Itoa(t.Day()), true
	case "eeee":
		return loc.Days[t.Weekday()], true
	case "ee":
		return loc.DaysShort[t.Weekday()], true
	case "e":
		return strconv.Itoa(int(t.Weekday())), true
	case "HH":
		return pad(t.Hour(), 2), true
	case "H":
		return strconv.Itoa(t.Hour()), true
	case "hh":
		return pad(hour12, 2), true
	case "h":
		return strconv.Itoa(hour12), true
	case "mm":
		return pad(t.Minute(), 2), true
	case "m":
		return strconv.Itoa(t.Minute()), true
	case "ss":
		return pad(t.Second(), 2), true
	case "s":
		return strconv.Itoa(t.Second()), true
	case "SSS":
		return pad(t.Nanosecond()/int(time.Millisecond), 3), true
	case "S":
		return strconv.Itoa(t.Nanosecond() / int(time.Millisecond)), true
	case "A":
		if t.Hour() < 12 {
			return loc.AM, true
		}
		return loc.PM, true
	}
	return "", false
}

// FormatMillis formats an epoch-millisecond timestamp in the given
// location.
func FormatMillis(ms float64, template string, loc Locale, tz *time.Location) string {
	return FormatTime(time.UnixMilli(int64(ms)).In(tz), template, loc)
}
