// Package handlers maps HTTP requests onto the watchlist's state machine:
// session transitions, form validation, store mutations, and the redirect
// or rendered page each one produces.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/Tristal25/watchlist/pkg/auth"
	"github.com/Tristal25/watchlist/pkg/models"
	"github.com/Tristal25/watchlist/pkg/store"
)

// Handler holds the stores and session manager the routes operate on.
type Handler struct {
	users    *store.UserStore
	movies   *store.MovieStore
	sessions *auth.Manager
	logger   *log.Logger
}

// New creates a Handler.
func New(users *store.UserStore, movies *store.MovieStore, sessions *auth.Manager, logger *log.Logger) *Handler {
	return &Handler{users: users, movies: movies, sessions: sessions, logger: logger}
}

// Mount installs templates, middleware, and all routes on r.
func (h *Handler) Mount(r *gin.Engine) {
	r.SetHTMLTemplate(Templates())
	r.Use(h.sessions.Identify())

	r.GET("/", h.Index)
	r.POST("/", h.sessions.RequireLogin(), h.CreateMovie)
	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/user/logout", h.Logout)
	r.GET("/register", h.RegisterForm)
	r.POST("/register", h.Register)
	r.GET("/user/settings", h.sessions.RequireLogin(), h.SettingsForm)
	r.POST("/user/settings", h.sessions.RequireLogin(), h.Settings)
	r.GET("/movie/edit/:id", h.sessions.RequireLogin(), h.EditForm)
	r.POST("/movie/edit/:id", h.sessions.RequireLogin(), h.UpdateMovie)
	r.POST("/movie/delete/:id", h.sessions.RequireLogin(), h.DeleteMovie)
	r.NoRoute(h.NotFound)
}

// pageData assembles the context every template expects: the signed-in
// user (if any), the name shown in the page title, and the pending flash.
func (h *Handler) pageData(c *gin.Context) gin.H {
	data := gin.H{"Flash": takeFlash(c)}
	if user, ok := auth.CurrentUser(c); ok {
		data["User"] = user
		data["Owner"] = user.Name
		return data
	}
	// Anonymous pages carry the first registered user's name in the
	// title, matching the original behavior.
	if first, err := h.users.First(); err == nil {
		data["Owner"] = first.Name
	}
	return data
}

func (h *Handler) render(c *gin.Context, status int, page string, extra gin.H) {
	data := h.pageData(c)
	for k, v := range extra {
		data[k] = v
	}
	c.HTML(status, page, data)
}

func (h *Handler) serverError(c *gin.Context, err error) {
	h.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	c.String(http.StatusInternalServerError, "internal server error")
}

// Index lists movies: the signed-in user's own entries, or every entry
// for anonymous visitors.
func (h *Handler) Index(c *gin.Context) {
	var (
		movies []models.Movie
		err    error
	)
	if user, ok := auth.CurrentUser(c); ok {
		movies, err = h.movies.ListByOwner(user.Username)
	} else {
		movies, err = h.movies.ListAll()
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "index.html", gin.H{"Movies": movies})
}

// CreateMovie adds an entry owned by the session identity.
func (h *Handler) CreateMovie(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	title := c.PostForm("title")
	year := c.PostForm("year")

	if _, err := h.movies.Create(title, year, user.Username); err != nil {
		if store.IsValidation(err) {
			flashRedirect(c, "/", "Invalid input.")
			return
		}
		h.serverError(c, err)
		return
	}
	flashRedirect(c, "/", "Item created.")
}

// LoginForm renders the login page.
func (h *Handler) LoginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", nil)
}

// Login authenticates the submitted credentials and starts a session.
func (h *Handler) Login(c *gin.Context) {
	count, err := h.users.Count()
	if err != nil {
		h.serverError(c, err)
		return
	}
	if count == 0 {
		flashRedirect(c, "/", "Please register first.")
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		flashRedirect(c, "/login", "Invalid input.")
		return
	}

	user, err := h.users.ByUsername(username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.serverError(c, err)
		return
	}
	if err != nil || !user.ValidatePassword(password) {
		flashRedirect(c, "/login", "Invalid username or password.")
		return
	}

	if err := h.sessions.Login(c, user); err != nil {
		h.serverError(c, err)
		return
	}
	flashRedirect(c, "/", "Login success.")
}

// Logout ends the session. Already-anonymous requests get the same flash
// and redirect with no error.
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Logout(c)
	flashRedirect(c, "/", "Goodbye.")
}

// RegisterForm renders the registration page.
func (h *Handler) RegisterForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", nil)
}

// Register creates a new account with a hashed password.
func (h *Handler) Register(c *gin.Context) {
	name := c.PostForm("name")
	username := c.PostForm("username")
	password := c.PostForm("password")

	if name == "" || username == "" || password == "" {
		flashRedirect(c, "/login", "Invalid input.")
		return
	}

	taken, err := h.users.Exists(username)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if taken {
		flashRedirect(c, "/register", "Username occupied, please choose a different username.")
		return
	}

	user := models.User{Name: name, Username: username}
	if err := user.SetPassword(password); err != nil {
		h.serverError(c, err)
		return
	}
	if err := h.users.Create(&user); err != nil {
		h.serverError(c, err)
		return
	}
	flashRedirect(c, "/", "Account created.")
}

// SettingsForm renders the settings page.
func (h *Handler) SettingsForm(c *gin.Context) {
	h.render(c, http.StatusOK, "settings.html", nil)
}

// Settings updates the signed-in user's display name.
func (h *Handler) Settings(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	name := c.PostForm("name")

	if err := h.users.UpdateName(user.ID, name); err != nil {
		if store.IsValidation(err) {
			flashRedirect(c, "/user/settings", "Invalid input.")
			return
		}
		h.serverError(c, err)
		return
	}
	flashRedirect(c, "/", "Settings updated.")
}

// EditForm renders the edit page for one entry. Any signed-in user may
// edit any entry by id; listing is the only owner-scoped view.
func (h *Handler) EditForm(c *gin.Context) {
	movie, ok := h.movieByParam(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "edit.html", gin.H{"Movie": movie})
}

// UpdateMovie applies an edit form submission.
func (h *Handler) UpdateMovie(c *gin.Context) {
	movie, ok := h.movieByParam(c)
	if !ok {
		return
	}
	title := c.PostForm("title")
	year := c.PostForm("year")

	if _, err := h.movies.Update(movie.ID, title, year); err != nil {
		if store.IsValidation(err) {
			flashRedirect(c, c.Request.URL.Path, "Invalid input.")
			return
		}
		h.serverError(c, err)
		return
	}
	flashRedirect(c, "/", "Item updated.")
}

// DeleteMovie permanently removes an entry by id.
func (h *Handler) DeleteMovie(c *gin.Context) {
	movie, ok := h.movieByParam(c)
	if !ok {
		return
	}
	if err := h.movies.Delete(movie.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.NotFound(c)
			return
		}
		h.serverError(c, err)
		return
	}
	flashRedirect(c, "/", "Item deleted.")
}

// NotFound renders the 404 page for unknown paths and missing records.
func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "404.html", nil)
}

// movieByParam resolves the :id path parameter to a movie, rendering the
// 404 page (and returning false) when the id is malformed or absent.
func (h *Handler) movieByParam(c *gin.Context) (*models.Movie, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.NotFound(c)
		return nil, false
	}
	movie, err := h.movies.Get(uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.NotFound(c)
			return nil, false
		}
		h.serverError(c, err)
		return nil, false
	}
	return movie, true
}
