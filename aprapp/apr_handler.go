package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"

	"aprgen/apr"
	"aprgen/rag"
	"aprgen/utils"
)

type AprHandler struct {
	Pipeline  *rag.Pipeline
	Ragconfig *RagConfig
	History   *HistoryStore
	Mycache   *cache.Cache
}

type GenerateRequest struct {
	Atividade string `json:"atividade"`
	Local     string `json:"local"`
	Data      string `json:"data"`
}

// GeneratedApr is what the client gets back and what goes to history.
type GeneratedApr struct {
	Id        string    `json:"id"`
	Atividade string    `json:"atividade"`
	Apr       *apr.Apr  `json:"apr"`
	Normas    []string  `json:"normas"`
	CreatedAt time.Time `json:"created_at"`

	DocxFile string `json:"-"`
	XlsxFile string `json:"-"`
}

// r := app.Group("/apr")
func (p *AprHandler) AddRouter(r fiber.Router) error {
	log.Info("AprHandler AddRouter")

	r.Post("/generate", p.generateHandler)
	r.Get("/history", p.historyHandler)
	r.Get("/:id/docx", p.docxHandler)
	r.Get("/:id/xlsx", p.xlsxHandler)

	return nil
}

// POST /apr/generate {"atividade": "...", "local": "...", "data": "..."}
func (p *AprHandler) generateHandler(c fiber.Ctx) error {
	var req GenerateRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body: "+err.Error())
	}
	req.Atividade = strings.TrimSpace(req.Atividade)
	if len(req.Atividade) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "atividade is required")
	}

	data, err := apr.NormalizeDate(req.Data)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if !p.Pipeline.Loaded() {
		return fiber.NewError(fiber.StatusServiceUnavailable,
			"corpus is not loaded, POST /corpus/reload first")
	}

	begin := time.Now()
	ctx := context.Background()

	contexto, err := p.Pipeline.RetrieveContext(ctx, req.Atividade)
	if err != nil {
		log.Errorf("retrieve context failed: %s", err)
		return fiber.NewError(fiber.StatusBadGateway, "retrieval failed: "+err.Error())
	}

	answer, err := p.Pipeline.Llm.Generate(ctx, apr.BuildPrompt(contexto, req.Atividade))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "generation failed: "+err.Error())
	}

	a, err := apr.ParseResponse(answer)
	if err != nil {
		log.Errorf("model answer rejected: %s", err)
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	apr.PostProcess(a, req.Atividade)
	a.DataElaboracao = data
	if req.Local != "" {
		a.Local = req.Local
	}

	record := &GeneratedApr{
		Id:        apr.NewId(),
		Atividade: req.Atividade,
		Apr:       a,
		Normas:    apr.ExtractNorms(a),
		CreatedAt: time.Now(),
	}

	if err = p.writeDocuments(record); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	p.Mycache.Set(record.Id, record, cache.DefaultExpiration)

	// history loss is not fatal, the documents already exist
	if err = p.History.Push(record); err != nil {
		log.Warnf("history push failed: %s", err)
	}

	log.Infof("APR %s generated in %v for: %.60s", record.Id, time.Since(begin), req.Atividade)
	return c.JSON(record)
}

func (p *AprHandler) writeDocuments(record *GeneratedApr) error {
	outdir := p.Ragconfig.OutputPath
	if err := os.MkdirAll(outdir, 0755); err != nil {
		log.Errorf("create output dir '%s' failed: %s", outdir, err)
		return err
	}

	record.DocxFile = path.Join(outdir, "APR_"+record.Id+".docx")
	if err := apr.WriteDocx(record.Apr, record.Normas, record.DocxFile); err != nil {
		return err
	}

	record.XlsxFile = path.Join(outdir, "APR_"+record.Id+".xlsx")
	return apr.WriteXlsx(record.Apr, record.XlsxFile)
}

// Expired cache entries take their rendered files along, the output
// directory stays bounded. Wired via cache.OnEvicted.
func evictDocuments(id string, v interface{}) {
	record, ok := v.(*GeneratedApr)
	if !ok {
		return
	}
	for _, filename := range []string{record.DocxFile, record.XlsxFile} {
		if filename == "" {
			continue
		}
		if err := os.Remove(filename); err != nil && !os.IsNotExist(err) {
			log.Warnf("remove expired document '%s' failed: %s", filename, err)
		}
	}
	log.Debugf("APR %s expired, documents removed", id)
}

// GET /apr/:id/docx
func (p *AprHandler) docxHandler(c fiber.Ctx) error {
	return p.sendDocument(c, "docx")
}

// GET /apr/:id/xlsx
func (p *AprHandler) xlsxHandler(c fiber.Ctx) error {
	return p.sendDocument(c, "xlsx")
}

func (p *AprHandler) sendDocument(c fiber.Ctx, kind string) error {
	id := c.Params("id")
	v, ok := p.Mycache.Get(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown or expired APR id")
	}
	record := v.(*GeneratedApr)

	filename := record.DocxFile
	if kind == "xlsx" {
		filename = record.XlsxFile
	}

	fd, err := os.Open(filename)
	if err != nil {
		log.Errorf("open generated document '%s' failed: %s", filename, err)
		return fiber.NewError(fiber.StatusNotFound, "document file is gone")
	}
	defer fd.Close()

	// => Content-Disposition: attachment; filename=APR_<id>.<kind>
	c.Attachment(path.Base(filename))
	_, err = io.Copy(c, fd)
	return err
}

// GET /apr/history?n=20
func (p *AprHandler) historyHandler(c fiber.Ctx) error {
	n, err := strconv.ParseInt(c.Query("n", "20"), 10, 64)
	if err != nil || n <= 0 {
		n = 20
	}

	records, err := p.History.Recent(n)
	if err != nil {
		log.Errorf("history read failed: %s", err)
		c.Status(fiber.StatusBadGateway)
		return c.Send(utils.MkErrorLog(fiber.StatusBadGateway, "history unavailable: "+err.Error()))
	}
	return c.JSON(records)
}
