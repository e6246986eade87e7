package models

// SessionKeyPrefix — префикс ключа сессии в кэше.
const SessionKeyPrefix = "session_"

// SessionKey строит ключ записи сессии для токена.
func SessionKey(token string) string {
	return SessionKeyPrefix + token
}

// SessionState — итог проверки токена на входе в защищённый маршрут.
//
// Нулевое значение SessionUnknown означает, что проверку не удалось
// довести до конца (инфраструктурная ошибка).
type SessionState int

const (
	SessionUnknown SessionState = iota
	// SessionActive — запись в кэше есть, подпись и срок валидны, пользователь существует.
	SessionActive
	// SessionMissing — записи в кэше нет (logout или истёк TTL).
	SessionMissing
	// SessionSignatureInvalid — подпись, структура или срок токена не прошли проверку.
	SessionSignatureInvalid
	// SessionUserMissing — субъект токена не найден в хранилище.
	SessionUserMissing
)

func (s SessionState) String() string {
	switch s {
	case SessionActive:
		return "active"
	case SessionMissing:
		return "session_missing"
	case SessionSignatureInvalid:
		return "signature_invalid"
	case SessionUserMissing:
		return "user_missing"
	default:
		return "unknown"
	}
}
