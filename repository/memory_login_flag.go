package repository

import (
	"context"

	"github.com/akinalp/kutuphane/models"
	"github.com/akinalp/kutuphane/pkg"
	"github.com/akinalp/kutuphane/pkg/cache"
)

// memoryLoginFlagRepo, oturum kapsamlı bayrakları TTL cache'te tutar.
// Sunucu yeniden başlarsa ya da TTL dolarsa bayrak kaybolur — tarayıcının
// sessionStorage'ı gibi kısa ömürlüdür.
type memoryLoginFlagRepo struct {
	flags *cache.TTLCache[string, models.LoginFlag]
}

// NewMemoryLoginFlagRepo, constructor. Cache'in ömrü çağırana aittir.
func NewMemoryLoginFlagRepo(flags *cache.TTLCache[string, models.LoginFlag]) LoginFlagRepository {
	return &memoryLoginFlagRepo{flags: flags}
}

func (r *memoryLoginFlagRepo) Save(_ context.Context, flag *models.LoginFlag) error {
	flag.Scope = models.ScopeSession
	r.flags.Set(flag.ID, *flag)
	return nil
}

func (r *memoryLoginFlagRepo) GetByID(_ context.Context, id string) (*models.LoginFlag, error) {
	flag, ok := r.flags.Get(id)
	if !ok {
		return nil, pkg.ErrNotFound
	}
	return &flag, nil
}

func (r *memoryLoginFlagRepo) DeleteByID(_ context.Context, id string) error {
	r.flags.Delete(id)
	return nil
}
