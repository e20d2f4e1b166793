package client

import (
	"encoding/json"
	"os"
)

// Session - полный ответ аутентификации (профиль + токен),
// сохраняется локально между запусками
type Session struct {
	ID        string   `json:"_id"`
	Avatar    string   `json:"avatar"`
	Bio       string   `json:"bio"`
	Email     string   `json:"email"`
	FullName  string   `json:"fullName"`
	Followers []string `json:"followers"`
	Following []string `json:"following"`
	Username  string   `json:"username"`
	Token     string   `json:"token"`
}

func loadSession(path string) *Session {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil
	}

	return &session
}

func saveSession(path string, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

func removeSession(path string) {
	os.Remove(path)
}
