package domain

// AuthContext идентичность, от имени которой выполняется операция.
// Передается явным значением из middleware в сервисы, вместо чтения
// глобального "текущего пользователя".
type AuthContext struct {
	UserUID string
	Email   string
	Role    string
}

// IsAuthenticated сообщает, есть ли в контексте подтвержденная идентичность.
func (a AuthContext) IsAuthenticated() bool {
	return a.UserUID != ""
}

// IsAdmin сообщает, имеет ли идентичность административную роль.
func (a AuthContext) IsAdmin() bool {
	return a.Role == "admin"
}
