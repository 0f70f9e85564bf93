package domain

type User struct {
	ID          string
	Username    string
	DisplayName string
}
