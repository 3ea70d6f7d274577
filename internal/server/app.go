package server

import (
	"crypto/subtle"
	"embed"
	"encoding/base64"
	"html/template"
	"net/http"
	"os"
	"time"

	"github.com/deckview/deckview/internal/auth"
	"github.com/deckview/deckview/internal/config"
	"github.com/deckview/deckview/internal/deck"
)

//go:embed templates/*.html
var templatesFS embed.FS

type App struct {
	secret     []byte
	cookieName string
	pages      map[string]*template.Template
	docs       *deck.Provider
	cfg        *config.Store
	assetsDir  string
}

type ViewData struct {
	Authed    bool
	Username  string
	HideNav   bool
	Flash     string
	FlashKind string // ok|err|""

	// deck page fragments, already rendered
	TableHTML template.HTML
	RisksHTML template.HTML

	// editor
	TableSource string
	RisksSource string
	NotesSource string

	// speaker notes
	NotesHTML template.HTML
}

func newApp(cfgStore *config.Store) (*App, error) {
	secretText := os.Getenv("DECKVIEW_JWT_SECRET")
	if secretText == "" {
		// Generate ephemeral secret if not configured.
		s, err := auth.NewRandomSecretB64(32)
		if err != nil {
			return nil, err
		}
		secretText = s
	}
	secretRaw, err := base64.RawURLEncoding.DecodeString(secretText)
	if err != nil {
		// Fallback: accept raw string.
		secretRaw = []byte(secretText)
	}
	if len(secretRaw) < 16 {
		// Avoid trivially weak secrets.
		pad := make([]byte, 16)
		copy(pad, secretRaw)
		secretRaw = pad
	}

	base := template.New("layout.html").Funcs(template.FuncMap{
		"eq": func(a, b string) bool { return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1 },
	})

	pages := map[string]*template.Template{}
	for _, page := range []string{"deck", "login", "edit", "notes"} {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		// Each page file defines the same block names (title/content).
		// Parse layout first, then page to override blocks.
		if _, err := t.ParseFS(templatesFS, "templates/layout.html", "templates/"+page+".html"); err != nil {
			return nil, err
		}
		pages[page] = t
	}

	cfg, err := cfgStore.Get()
	if err != nil {
		return nil, err
	}
	docs := deck.NewProvider(cfg.ContentDir, cfg.TableFile, cfg.RisksFile, cfg.NotesFile)
	_ = docs.Ensure()

	return &App{
		secret:     secretRaw,
		cookieName: auth.DefaultCookieName,
		pages:      pages,
		docs:       docs,
		cfg:        cfgStore,
		assetsDir:  cfg.AssetsDir,
	}, nil
}

func (a *App) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/login", a.handleLogin)
	mux.HandleFunc("/logout", a.requireEditor(a.handleLogout))

	mux.HandleFunc("/", a.handleDeck)
	mux.HandleFunc("/edit", a.requireEditor(a.handleEdit))
	mux.HandleFunc("/notes", a.requireEditor(a.handleNotes))

	// Static assets
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(a.assetsDir))))

	mux.HandleFunc("/api/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{\"ok\":true}\n"))
	})

	return a.withAuthContext(mux)
}

func (a *App) issueCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
		MaxAge:   int((24 * time.Hour).Seconds()),
	})
}

func (a *App) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
		MaxAge:   -1,
	})
}
