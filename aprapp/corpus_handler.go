package main

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	log "github.com/sirupsen/logrus"

	"aprgen/rag"
	"aprgen/utils"
)

type CorpusHandler struct {
	Pipeline *rag.Pipeline
}

// r := app.Group("/corpus")
func (p *CorpusHandler) AddRouter(r fiber.Router) error {
	log.Info("CorpusHandler AddRouter")

	r.Post("/reload", p.reloadHandler)
	r.Get("/status", p.statusHandler)
	r.Get("/sources", p.sourcesHandler)

	return nil
}

// POST /corpus/reload
// Downloads and re-embeds the whole bucket, minutes on a big corpus.
// The pipeline lets only one reload run at a time.
func (p *CorpusHandler) reloadHandler(c fiber.Ctx) error {
	if err := p.Pipeline.Reload(context.Background()); err != nil {
		if errors.Is(err, rag.ErrReloadRunning) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		log.Errorf("corpus reload failed: %s", err)
		c.Status(fiber.StatusBadGateway)
		return c.Send(utils.MkErrorLog(fiber.StatusBadGateway, "corpus reload failed: "+err.Error()))
	}
	return c.JSON(p.Pipeline.Status())
}

// GET /corpus/status
func (p *CorpusHandler) statusHandler(c fiber.Ctx) error {
	return c.JSON(p.Pipeline.Status())
}

// GET /corpus/sources
func (p *CorpusHandler) sourcesHandler(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"sources": p.Pipeline.Status().Sources,
	})
}
