package main

import (
	"errors"
	"moviesocial/proj/internal/clients/api"
	"moviesocial/proj/internal/domain/models"
	"moviesocial/proj/internal/lib/validator"
	"moviesocial/proj/internal/services/users"
	"moviesocial/proj/internal/views"
	"net/http"
	"strings"
)

func (app *Application) showRegister(w http.ResponseWriter, r *http.Request) {
	app.Http.Render(w, r, http.StatusOK, "register", app.page(w, r, "Register", views.RegisterData{
		Form:   views.RegisterForm{Role: models.RoleCasual},
		Genres: models.Genres,
	}))
}

// register validates locally before calling the API, then signs the new account in.
func (app *Application) register(w http.ResponseWriter, r *http.Request) {
	var form views.RegisterForm
	if err := app.decoder.DecodeForm(r, &form); err != nil {
		app.Http.BadRequest(w, r, "Invalid registration form")
		return
	}
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	if form.Role == "" {
		form.Role = models.RoleCasual
	}
	data := views.RegisterData{Form: form, Genres: models.Genres}
	// Passwords are never echoed back.
	data.Form.Password, data.Form.ConfirmPassword = "", ""

	if errs := validator.ValidateStruct(app.validator, form); errs != nil {
		data.Error = firstError(errs, "confirmPassword", "password", "username", "email", "role", "bio", "favoriteGenre")
		app.Http.Render(w, r, http.StatusUnprocessableEntity, "register", app.page(w, r, "Register", data))
		return
	}
	err := app.services.Users.Register(r.Context(), users.Registration{
		Username:      form.Username,
		Email:         form.Email,
		Password:      form.Password,
		Role:          form.Role,
		Bio:           form.Bio,
		FavoriteGenre: form.FavoriteGenre,
	})
	if err != nil {
		data.Error = api.Message(err, "Registration failed. Please try again.")
		app.Http.Render(w, r, registrationStatus(err), "register", app.page(w, r, "Register", data))
		return
	}
	if _, err := sessionStoreFrom(r).Login(r.Context(), form.Username, form.Password); err != nil {
		app.setFlash(w, "Account created. Please log in.")
		app.redirect(w, r, "/login")
		return
	}
	app.redirect(w, r, "/")
}

// registrationStatus is 400 when the remote service rejected the account and 502 when it could not be reached or failed.
func registrationStatus(err error) int {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func (app *Application) showLogin(w http.ResponseWriter, r *http.Request) {
	if currentSession(r).IsAuthenticated() {
		app.redirect(w, r, "/")
		return
	}
	app.Http.Render(w, r, http.StatusOK, "login", app.page(w, r, "Login", views.LoginData{}))
}

func (app *Application) login(w http.ResponseWriter, r *http.Request) {
	var form views.LoginForm
	if err := app.decoder.DecodeForm(r, &form); err != nil {
		app.Http.BadRequest(w, r, "Invalid login form")
		return
	}
	form.Username = strings.TrimSpace(form.Username)
	data := views.LoginData{Username: form.Username}
	if errs := validator.ValidateStruct(app.validator, form); errs != nil {
		data.Error = "Username and password are required"
		app.Http.Render(w, r, http.StatusUnprocessableEntity, "login", app.page(w, r, "Login", data))
		return
	}
	if _, err := sessionStoreFrom(r).Login(r.Context(), form.Username, form.Password); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, api.ErrUnauthorized) {
			status = http.StatusUnauthorized
		}
		data.Error = api.Message(err, "Login failed. Please try again.")
		app.Http.Render(w, r, status, "login", app.page(w, r, "Login", data))
		return
	}
	app.redirect(w, r, "/")
}

func (app *Application) logout(w http.ResponseWriter, r *http.Request) {
	// The store clears the local session and logs a failed remote logout itself.
	_ = sessionStoreFrom(r).Logout(r.Context())
	app.redirect(w, r, "/")
}
