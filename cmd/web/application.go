package main

import (
	"log/slog"
	"moviesocial/proj/internal/clients/api"
	"moviesocial/proj/internal/config"
	"moviesocial/proj/internal/domain/models"
	"moviesocial/proj/internal/lib/decoder"
	"moviesocial/proj/internal/lib/metrics"
	"moviesocial/proj/internal/lib/validator"
	"moviesocial/proj/internal/services"
	"moviesocial/proj/internal/services/search"
	"moviesocial/proj/internal/views"
	"net/http"

	govalidator "github.com/go-playground/validator/v10"
)

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	api       *api.Client
	services  *services.Services
	validator *govalidator.Validate
	decoder   *decoder.FormDecoder
	metrics   *metrics.Metrics
}

func NewApplication(cfg *config.Config, log *slog.Logger, cache search.Cache, taskExecutor search.TaskExecutor) *Application {
	m := metrics.New()
	client := api.New(log, cfg.API.BaseURL, cfg.API.Timeout, &http.Client{
		Timeout:   cfg.API.Timeout,
		Transport: m.Transport(nil),
	})
	pages, err := views.New(cfg.API.ImageBaseURL)
	if err != nil {
		panic(err)
	}
	v := validator.New()
	if err := v.RegisterValidation("genre", validator.ValidateGenre(models.Genres)); err != nil {
		panic(err)
	}
	return &Application{
		cfg:       cfg,
		log:       log,
		api:       client,
		services:  services.New(log, cfg, client, cache, taskExecutor),
		validator: v,
		decoder:   decoder.New(),
		metrics:   m,
		Http: &Http{
			log:   log,
			cfg:   cfg,
			views: pages,
		},
	}
}
