package domain

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User — запись справочника пользователей. Отсутствие пользователя означает гостевой checkout.
type User struct {
	ID    string
	Name  string
	Email string
	Role  string
}
