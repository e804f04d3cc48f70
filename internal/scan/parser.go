// Пакет scan — сканирование каталогов почтовых очередей и разбор имён PDF-файлов.
package scan

import "regexp"

// ParsedName — поля, извлечённые из имени файла.
// Все поля пустые, если имя не соответствует ожидаемому шаблону —
// это штатная ситуация, а не ошибка.
type ParsedName struct {
	MailType    string
	User        string
	CreatedDate string
	CreatedTime string
}

// filenamePattern — ожидаемая форма имени файла:
//
//	<Type>_<firstname>.<lastname>_<YYYYMMDD>-<HHMMSS[CC]>[-NN].pdf
//
// Примеры:
//
//	MailCert_Andriana.Morris_20260210-10393801.pdf
//	MailCert_Jennifer.Ruiz_20260209-155008-01.pdf
//
// Тип жадный и может содержать подчёркивания; фамилия может содержать
// дефисы; время — 6-8 цифр, необязательный суффикс -NN — порядковый номер,
// а не часть времени. Расширение без учёта регистра.
var filenamePattern = regexp.MustCompile(
	`^(?P<type>.+)_(?P<user>[a-zA-Z]+\.[a-zA-Z-]+)_(?P<date>\d{8})-(?P<time>\d{6,8})(?:-\d+)?\.[pP][dD][fF]$`,
)

// Parse извлекает тип письма, логин, дату и время из имени файла.
// Дата переформатируется YYYYMMDD → YYYY-MM-DD, из группы времени берутся
// первые 6 цифр и переформатируются HHMMSS → HH:MM:SS.
// Если имя не соответствует шаблону — возвращается пустая структура.
func Parse(filename string) ParsedName {
	m := filenamePattern.FindStringSubmatch(filename)
	if m == nil {
		return ParsedName{}
	}

	date := m[filenamePattern.SubexpIndex("date")]
	tm := m[filenamePattern.SubexpIndex("time")]

	return ParsedName{
		MailType:    m[filenamePattern.SubexpIndex("type")],
		User:        m[filenamePattern.SubexpIndex("user")],
		CreatedDate: date[0:4] + "-" + date[4:6] + "-" + date[6:8],
		CreatedTime: tm[0:2] + ":" + tm[2:4] + ":" + tm[4:6],
	}
}
