package repository

import (
	"context"

	"github.com/akinalp/kutuphane/models"
)

// LoginFlagRepository, giriş bayraklarının saklandığı depo.
//
// İki implementasyon vardır:
//   - sqliteLoginFlagRepo: kalıcı ("beni hatırla") bayraklar
//   - memoryLoginFlagRepo: oturum kapsamlı bayraklar (TTL ile bellekte)
type LoginFlagRepository interface {
	Save(ctx context.Context, flag *models.LoginFlag) error
	GetByID(ctx context.Context, id string) (*models.LoginFlag, error)
	DeleteByID(ctx context.Context, id string) error
}
