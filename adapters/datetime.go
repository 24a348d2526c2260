package adapters

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	f "github.com/julianladisch/stripes-core/core"
	"github.com/julianladisch/stripes-core/utils/dates"
)

// Style selects how verbose a rendered date is.
type Style int

const (
	StyleShort Style = iota
	StyleMedium
	StyleLong
	StyleFull
)

// localeFormat carries the display conventions of one language. Short
// formats are plain Go layouts (numeric, so locale-safe); the longer ones
// are patterns over named tokens because Go layouts only know English
// month and day names.
//
// Tokens: {d} day, {y} year, {mon} abbreviated month, {month} full month,
// {weekday} full weekday.
type localeFormat struct {
	shortDate  string
	mediumDate string
	longDate   string
	fullDate   string
	timeLayout string
	months     [12]string
	monthsAbbr [12]string
	weekdays   [7]string
}

var localeFormats = map[string]localeFormat{
	"en": {
		shortDate:  "1/2/2006",
		mediumDate: "{mon} {d}, {y}",
		longDate:   "{month} {d}, {y}",
		fullDate:   "{weekday}, {month} {d}, {y}",
		timeLayout: "3:04 PM",
		months:     [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
		monthsAbbr: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		weekdays:   [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	},
	"fr": {
		shortDate:  "02/01/2006",
		mediumDate: "{d} {mon} {y}",
		longDate:   "{d} {month} {y}",
		fullDate:   "{weekday} {d} {month} {y}",
		timeLayout: "15:04",
		months:     [12]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
		monthsAbbr: [12]string{"janv.", "févr.", "mars", "avr.", "mai", "juin", "juil.", "août", "sept.", "oct.", "nov.", "déc."},
		weekdays:   [7]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"},
	},
	"de": {
		shortDate:  "02.01.2006",
		mediumDate: "{d}. {mon} {y}",
		longDate:   "{d}. {month} {y}",
		fullDate:   "{weekday}, {d}. {month} {y}",
		timeLayout: "15:04",
		months:     [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
		monthsAbbr: [12]string{"Jan.", "Feb.", "März", "Apr.", "Mai", "Juni", "Juli", "Aug.", "Sept.", "Okt.", "Nov.", "Dez."},
		weekdays:   [7]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
	},
	"es": {
		shortDate:  "2/1/2006",
		mediumDate: "{d} {mon} {y}",
		longDate:   "{d} de {month} de {y}",
		fullDate:   "{weekday}, {d} de {month} de {y}",
		timeLayout: "15:04",
		months:     [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
		monthsAbbr: [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"},
		weekdays:   [7]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"},
	},
	"ja": {
		shortDate:  "2006/01/02",
		mediumDate: "{y}年{m}月{d}日",
		longDate:   "{y}年{m}月{d}日",
		fullDate:   "{y}年{m}月{d}日",
		timeLayout: "15:04",
	},
}

// DateTimeFormatter renders UTC instants in a tenant's zone with the
// display locale's conventions. It is the presentation half of the
// temporal contract: storage and transport are always UTC.
type DateTimeFormatter struct {
	formats map[string]localeFormat
}

func NewDateTimeFormatter() *DateTimeFormatter {
	return &DateTimeFormatter{formats: localeFormats}
}

func (d *DateTimeFormatter) localeFor(tag language.Tag) localeFormat {
	base, _ := tag.Base()
	if lf, ok := d.formats[base.String()]; ok {
		return lf
	}
	return d.formats["en"]
}

// FormatDate renders the date part of a UTC instant in the given zone.
// A zero time renders empty.
func (d *DateTimeFormatter) FormatDate(t time.Time, zone string, tag language.Tag, style Style) string {
	if t.IsZero() {
		return ""
	}
	local := dates.InZone(t, zone)
	lf := d.localeFor(tag)

	switch style {
	case StyleShort:
		return local.Format(lf.shortDate)
	case StyleMedium:
		return lf.render(lf.mediumDate, local)
	case StyleLong:
		return lf.render(lf.longDate, local)
	default:
		return lf.render(lf.fullDate, local)
	}
}

// FormatTime renders the time-of-day of a UTC instant in the given zone.
func (d *DateTimeFormatter) FormatTime(t time.Time, zone string, tag language.Tag) string {
	if t.IsZero() {
		return ""
	}
	return dates.InZone(t, zone).Format(d.localeFor(tag).timeLayout)
}

// FormatDateTime renders date and time together, short date style.
func (d *DateTimeFormatter) FormatDateTime(t time.Time, zone string, tag language.Tag) string {
	if t.IsZero() {
		return ""
	}
	return d.FormatDate(t, zone, tag, StyleShort) + " " + d.FormatTime(t, zone, tag)
}

// FormatForTenant renders a timestamp with the tenant's zone and default
// locale, the common case for notification and export rendering.
func (d *DateTimeFormatter) FormatForTenant(t time.Time, tenant *f.Tenant, style Style) string {
	zone := ""
	tag := language.English
	if tenant != nil {
		zone = tenant.Timezone
		if parsed, err := language.Parse(tenant.Locale); err == nil {
			tag = parsed
		}
	}
	return d.FormatDate(t, zone, tag, style) + " " + d.FormatTime(t, zone, tag)
}

func (lf localeFormat) render(pattern string, t time.Time) string {
	r := strings.NewReplacer(
		"{d}", strconv.Itoa(t.Day()),
		"{m}", strconv.Itoa(int(t.Month())),
		"{y}", strconv.Itoa(t.Year()),
		"{mon}", lf.monthsAbbr[t.Month()-1],
		"{month}", lf.months[t.Month()-1],
		"{weekday}", lf.weekdays[t.Weekday()],
	)
	return r.Replace(pattern)
}
