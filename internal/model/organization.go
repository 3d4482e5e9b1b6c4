package model

type Organization struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	Description string `json:"description"`
	Plan        string `json:"plan"`
	IsActive    bool   `json:"is_active"`
	Ctime       int64  `json:"ctime"`
	Mtime       int64  `json:"mtime"`
}
