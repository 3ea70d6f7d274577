package server

import (
	"crypto/subtle"
	"html"
	"html/template"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/deckview/deckview/internal/auth"
	"github.com/deckview/deckview/internal/deck"
	"github.com/deckview/deckview/internal/logger"
	"github.com/deckview/deckview/internal/render"
)

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func (a *App) handleDeck(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	cfg, _ := a.cfg.Get()

	tableSrc := a.docs.Table()
	risksSrc := a.docs.Risks()

	// ETag covers the raw sources only; a hit skips the render but
	// nothing rendered is ever stored.
	etag := `"` + deck.Fingerprint(tableSrc, risksSrc) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	tableHTML, ok := render.ExtractTableLogos(tableSrc, cfg.HeaderLogos)
	if !ok {
		// Degrade to the verbatim source, escaped.
		tableHTML = `<pre class="raw">` + html.EscapeString(tableSrc) + `</pre>`
	}

	data := a.baseData(r)
	data.TableHTML = template.HTML(tableHTML)
	data.RisksHTML = template.HTML(render.RenderRisks(risksSrc))
	a.renderPage(w, "deck", data)
}

func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		if usernameFrom(r) != "" {
			http.Redirect(w, r, "/edit", http.StatusSeeOther)
			return
		}
		a.renderPage(w, "login", &ViewData{HideNav: true})
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	_ = r.ParseForm()
	username := strings.TrimSpace(r.Form.Get("username"))
	password := r.Form.Get("password")
	if username == "" || password == "" {
		a.renderPage(w, "login", &ViewData{HideNav: true, Flash: "Username and password are required.", FlashKind: "err"})
		return
	}
	cfg, _ := a.cfg.Get()
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.EditorUser)) == 1
	err := auth.VerifyPassword(cfg.EditorPasswordHash, password)
	if !userOK || err != nil {
		if err == nil {
			err = auth.ErrInvalidCredentials
		}
		logger.Info("Failed login attempt for user %s from %s", username, remoteIP(r))
		a.renderPage(w, "login", &ViewData{HideNav: true, Flash: auth.HumanAuthError(err), FlashKind: "err"})
		return
	}
	tok, err := auth.SignHS256(a.secret, username, 24*time.Hour)
	if err != nil {
		a.renderPage(w, "login", &ViewData{HideNav: true, Flash: "Failed to create session.", FlashKind: "err"})
		return
	}
	logger.Info("Editor %s logged in from %s", username, remoteIP(r))
	a.issueCookie(w, tok)
	http.Redirect(w, r, "/edit", http.StatusSeeOther)
}

func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	logger.Info("Editor %s logged out from %s", usernameFrom(r), remoteIP(r))
	a.clearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *App) handleEdit(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		data := a.baseData(r)
		data.TableSource = a.docs.Table()
		data.RisksSource = a.docs.Risks()
		data.NotesSource = a.docs.Notes()
		a.renderPage(w, "edit", data)
	case http.MethodPost:
		_ = r.ParseForm()
		if err := a.docs.SaveTable(r.Form.Get("table")); err != nil {
			logger.Error("Saving table source failed: %v", err)
			http.Redirect(w, r, "/edit?err=1", http.StatusSeeOther)
			return
		}
		if err := a.docs.SaveRisks(r.Form.Get("risks")); err != nil {
			logger.Error("Saving risks source failed: %v", err)
			http.Redirect(w, r, "/edit?err=1", http.StatusSeeOther)
			return
		}
		if err := a.docs.SaveNotes(r.Form.Get("notes")); err != nil {
			logger.Error("Saving notes source failed: %v", err)
			http.Redirect(w, r, "/edit?err=1", http.StatusSeeOther)
			return
		}
		logger.Info("Editor %s updated deck sources from %s", usernameFrom(r), remoteIP(r))
		http.Redirect(w, r, "/edit?ok=1", http.StatusSeeOther)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *App) handleNotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	data := a.baseData(r)
	data.NotesHTML = RenderMarkdown(a.docs.Notes())
	a.renderPage(w, "notes", data)
}

func (a *App) baseData(r *http.Request) *ViewData {
	user := usernameFrom(r)
	data := &ViewData{Authed: user != "", Username: user}
	if r.URL.Query().Get("ok") == "1" {
		data.Flash = "Saved."
		data.FlashKind = "ok"
	}
	if r.URL.Query().Get("err") == "1" {
		data.Flash = "Request failed."
		data.FlashKind = "err"
	}
	return data
}

func (a *App) renderPage(w http.ResponseWriter, page string, data *ViewData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	t := a.pages[page]
	if t == nil {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		logger.Error("renderPage template execution failed for %s: %v", page, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
