package formatting

// Pluralize выбирает форму слова для числа: 1 заявка, 2 заявки, 5 заявок
func Pluralize(count int, one, few, many string) string {
	if count < 0 {
		count = -count
	}
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizeReservations возвращает правильное склонение слова "заявка"
func PluralizeReservations(count int) string {
	return Pluralize(count, "заявка", "заявки", "заявок")
}

func PluralizeNotifications(count int) string {
	return Pluralize(count, "уведомление", "уведомления", "уведомлений")
}

func PluralizeMinutes(count int) string {
	return Pluralize(count, "минуту", "минуты", "минут")
}

func PluralizeHours(count int) string {
	return Pluralize(count, "час", "часа", "часов")
}

func PluralizeDays(count int) string {
	return Pluralize(count, "день", "дня", "дней")
}

func PluralizeSlots(count int) string {
	return Pluralize(count, "слот", "слота", "слотов")
}
