package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Шаги заявки на бронирование
	StateReserveLab      UserState = "reserve_lab"
	StateReserveCourse   UserState = "reserve_course"
	StateReserveSection  UserState = "reserve_section"
	StateReserveDuration UserState = "reserve_duration"
	StateReserveNotes    UserState = "reserve_notes"
	StateReserveConfirm  UserState = "reserve_confirm"
	StateReserveSubmit   UserState = "reserve_submit" // заявка отправляется

	// Ввод строки поиска по уведомлениям
	StateNotificationSearch UserState = "notification_search"
)

// Ключи временных данных
const (
	KeyDraft = "draft"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{} // Временные данные для текущего диалога
}

// IsReservation относится ли состояние к диалогу бронирования
func (s UserState) IsReservation() bool {
	switch s {
	case StateReserveLab, StateReserveCourse, StateReserveSection,
		StateReserveDuration, StateReserveNotes, StateReserveConfirm, StateReserveSubmit:
		return true
	}
	return false
}
