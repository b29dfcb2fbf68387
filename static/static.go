// Package static, sayfaların kullandığı CSS ve JS dosyalarını binary'ye gömer.
//
// JS tarafı yalnızca ince bir köprüdür: DOM event'lerini WebSocket üzerinden
// sunucuya iletir ve gelen HTML parçalarını yerine koyar. Durum, doğrulama
// ve API çağrıları sunucudadır.
package static

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed assets
var assetsFS embed.FS

// Handler, /static/ altındaki dosyaları servis eder.
// Mount: mux.Handle("/static/", static.Handler())
func Handler() http.Handler {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		// Gömülü dizin derleme zamanında vardır; buraya düşmek build hatasıdır.
		panic(err)
	}

	files := http.StripPrefix("/static/", http.FileServerFS(sub))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}
