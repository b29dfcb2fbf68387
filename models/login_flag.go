package models

import (
	"strings"
	"time"
)

// LoginScope, giriş bayrağının hangi depoda tutulduğunu belirtir.
//
// Tarayıcıdaki localStorage / sessionStorage ayrımının sunucu tarafı karşılığı:
//   - ScopeDurable: "Beni hatırla" işaretli — kalıcı çerez + SQLite kaydı
//   - ScopeSession: işaretsiz — oturum çerezi + bellek içi kayıt
type LoginScope string

const (
	ScopeDurable LoginScope = "durable"
	ScopeSession LoginScope = "session"
)

// LoginFlag, başarılı girişten sonra saklanan "giriş yapıldı" bayrağıdır.
type LoginFlag struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Scope     LoginScope `json:"scope"`
	CreatedAt time.Time  `json:"created_at"`
}

// LoginRequest, giriş formundan gelen veri.
type LoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// Validate, alanları trim eder; boş alan varsa i18n anahtarlı FieldErrors döner.
func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Password = strings.TrimSpace(r.Password)

	errs := FieldErrors{}
	if r.Username == "" {
		errs[FieldUsername] = "login.fieldsRequired"
	}
	if r.Password == "" {
		errs[FieldPassword] = "login.fieldsRequired"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
