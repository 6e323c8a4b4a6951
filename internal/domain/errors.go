// Package domain содержит общие доменные ошибки сервиса и таблицу
// локализованных сообщений для кодов внешнего провайдера.
//
// Обработчики различают виды ошибок через errors.Is, а не по подстрокам
// в тексте сообщения.
package domain

import "errors"

// Ошибки уровня бизнес-логики, которые обработчики переводят в HTTP статусы.
var (
	// ErrNotFound запись (профиль, план, параметр) не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrAccountDisabled учетная запись помечена как удаленная, вход заблокирован.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrNotAuthenticated операция требует аутентифицированного пользователя.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidCredentials неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already in use")
	// ErrWeakPassword пароль короче минимально допустимой длины.
	ErrWeakPassword = errors.New("weak password")
	// ErrEmailRequired пустой email в запросе на восстановление пароля.
	ErrEmailRequired = errors.New("email required")
)

// Коды ошибок провайдера, зафиксированные в таблице локализации.
const (
	CodeInvalidEmail      = "auth/invalid-email"
	CodeUserDisabled      = "auth/user-disabled"
	CodeUserNotFound      = "auth/user-not-found"
	CodeEmailAlreadyInUse = "auth/email-already-in-use"
	CodeWrongPassword     = "auth/wrong-password"
	CodeInvalidCredential = "auth/invalid-credential"
	CodeWeakPassword      = "auth/weak-password"
)

// fallbackMessage возвращается для неизвестных кодов.
const fallbackMessage = "Ocurrió un error, inténtalo de nuevo."

// messagesByCode таблица код → сообщение пользователю.
// Это данные, а не логика: новые коды добавляются строкой в таблицу.
var messagesByCode = map[string]string{
	CodeInvalidEmail:      "El correo electrónico no es válido.",
	CodeUserDisabled:      "Este usuario ha sido deshabilitado.",
	CodeUserNotFound:      "No existe una cuenta con este correo.",
	CodeEmailAlreadyInUse: "Este correo ya está registrado.",
	CodeWrongPassword:     "La contraseña es incorrecta.",
	CodeInvalidCredential: "No existe el usuario.",
	CodeWeakPassword:      "La contraseña es muy débil, usa al menos 6 caracteres.",
}

// codesByErr сопоставляет доменные ошибки кодам провайдера.
var codesByErr = map[error]string{
	ErrEmailTaken:         CodeEmailAlreadyInUse,
	ErrWeakPassword:       CodeWeakPassword,
	ErrInvalidCredentials: CodeInvalidCredential,
	ErrAccountDisabled:    CodeUserDisabled,
	ErrNotFound:           CodeUserNotFound,
}

// MessageByCode возвращает локализованное сообщение для кода провайдера.
// Для неизвестного кода возвращается безопасное сообщение по умолчанию.
func MessageByCode(code string) string {
	if msg, ok := messagesByCode[code]; ok {
		return msg
	}
	return fallbackMessage
}

// UserMessage подбирает локализованное сообщение для доменной ошибки.
func UserMessage(err error) string {
	return MessageByCode(CodeOf(err))
}

// CodeOf возвращает код провайдера для доменной ошибки.
// Для неизвестной ошибки возвращается пустая строка.
func CodeOf(err error) string {
	for domainErr, code := range codesByErr {
		if errors.Is(err, domainErr) {
			return code
		}
	}
	return ""
}
