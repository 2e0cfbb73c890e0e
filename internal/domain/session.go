package domain

import "time"

// Identity — пользователь, извлечённый из токена сессии. Токен не проверяется: это делает Store API.
type Identity struct {
	UserID    string
	Name      string
	Email     string
	Token     string
	ExpiresAt *time.Time
}

// LoggedIn повторяет клиентскую проверку: токен есть, id пользователя есть, срок не истёк.
func (i *Identity) LoggedIn(now time.Time) bool {
	if i == nil || i.Token == "" || i.UserID == "" {
		return false
	}
	if i.ExpiresAt != nil && !now.Before(*i.ExpiresAt) {
		return false
	}
	return true
}
