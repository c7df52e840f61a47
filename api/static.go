package api

import (
	"net/http"
	"os"
	"path/filepath"
)

const missingShell = `<!DOCTYPE html>
<html>
<head><title>Calculadora de Caixa</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Calculadora de Caixa API</h1>
<p>The app shell is not built. Point assets.dir at the built frontend.</p>
<h2>API Endpoints</h2>
<ul>
<li><code>GET /api/state</code> - Lists, totals and display values</li>
<li><code>POST /api/lists/{category}/entries</code> - Add an entry</li>
<li><code>POST /api/calculator/sessions</code> - Open a calculator</li>
<li><code>GET /api/scenarios</code> - Demo reconciliations</li>
</ul>
</body>
</html>`

// ShellHandler serves the app shell from dir. Paths that do not exist fall
// back to index.html for client-side routing. When dir is missing a short
// placeholder page is served instead.
func ShellHandler(dir string) http.Handler {
	if _, err := os.Stat(dir); err != nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(missingShell))
		})
	}

	fileServer := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fullPath := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if _, err := os.Stat(fullPath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}
