package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"aprgen/rag"
	"aprgen/utils"
)

type ApiServer struct {
	Myconfig  *MyConfig
	app       *fiber.App
	pipeline  *rag.Pipeline
	aprHdl    *AprHandler
	corpusHdl *CorpusHandler
	hostHdl   *HostHandler
	history   *HistoryStore

	mycache *cache.Cache
}

func (p *ApiServer) Start() error {
	// generated documents are kept for download for one day
	p.mycache = cache.New(24*time.Hour, 1*time.Hour)
	p.mycache.OnEvicted(evictDocuments)
	p.pipeline = p.newPipeline()
	p.history = &HistoryStore{Redisconfig: &p.Myconfig.RedisConfig}

	log.Info("🚀 API server prepare...")
	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		StrictRouting: true,
		Immutable:     true,
		ServerHeader:  "aprgen",
		AppName:       "Gerador de APR v" + utils.APP_VERSION,
		ReadTimeout:   30 * time.Second,
		// generation waits on two model calls per chunk plus the final one
		WriteTimeout: 600 * time.Second,
		ProxyHeader:  fiber.HeaderXForwardedFor,
		UnescapePath: false, // default false
	})

	p.initRoute(app)

	// add AprHandler
	aprHdl := AprHandler{
		Pipeline:  p.pipeline,
		Ragconfig: &p.Myconfig.RagConfig,
		History:   p.history,
		Mycache:   p.mycache,
	}
	aprHdl.AddRouter(app.Group("/apr"))

	// add CorpusHandler
	corpusHdl := CorpusHandler{Pipeline: p.pipeline}
	corpusHdl.AddRouter(app.Group("/corpus"))

	// add HostHandler
	hostHdl := HostHandler{Mycache: p.mycache}
	hostHdl.AddRouter(app.Group("/host"))

	p.app = app
	p.aprHdl = &aprHdl
	p.corpusHdl = &corpusHdl
	p.hostHdl = &hostHdl

	if p.Myconfig.RagConfig.LoadOnStart {
		go func() {
			if err := p.pipeline.Reload(context.Background()); err != nil {
				log.Errorf("initial corpus load failed: %s", err)
			}
		}()
	}

	ln, err := net.Listen("tcp", "[::]:"+strconv.Itoa(int(p.Myconfig.Port)))
	if err != nil {
		log.Fatalf("net listen port %d error: %s", p.Myconfig.Port, err.Error())
		return err
	}
	if p.Myconfig.SslEnable {
		ln = tls.NewListener(ln, utils.TLSConfig())
	}

	// blocks here while the server runs
	err = app.Listener(ln,
		fiber.ListenConfig{
			DisableStartupMessage: false,
			EnablePrintRoutes:     false,
			ListenerNetwork:       "tcp", // listen ipv4 and ipv6
			BeforeServeFunc: func(app *fiber.App) error {
				log.Info("🚀 API server starting...")
				return nil
			},
		})
	if err != nil {
		log.Fatalf("api server start error: %s", err.Error())
		return err
	}

	log.Debug("api server stop")
	return nil
}

func (p *ApiServer) Stop() error {
	if p.app != nil {
		err := p.app.ShutdownWithTimeout(1 * time.Second)
		p.app = nil
		p.history.Close()
		p.history = nil
		p.aprHdl = nil
		p.corpusHdl = nil
		p.hostHdl = nil
		return err
	}
	return nil
}

func (p *ApiServer) newPipeline() *rag.Pipeline {
	mc := &p.Myconfig.MinioConfig
	oc := &p.Myconfig.OllamaConfig
	rc := &p.Myconfig.RagConfig

	embedding := &rag.Embedding{OllamaUrl: oc.Url, Model: oc.EmbedModel}
	store := &rag.VectorStore{Path: rc.PersistPath}
	if err := store.Open(embedding.Func()); err != nil {
		log.Fatalf("open vector store '%s' failed: %s", rc.PersistPath, err)
	}

	return &rag.Pipeline{
		Loader: &rag.CorpusLoader{
			Addr:     mc.Addr,
			User:     mc.User,
			Password: mc.Password,
			Ssl:      mc.Ssl,
			Bucket:   mc.Bucket,
			Prefix:   mc.Prefix,
			Timeout:  mc.Timeout,
		},
		Store:           store,
		Chunker:         rag.NewChunker(rc.ChunkSize, rc.ChunkOverlap, rc.MaxChunkChars),
		Llm:             &rag.LLM{OllamaUrl: oc.Url, Model: oc.ChatModel, Timeout: oc.Timeout},
		TopK:            rc.TopK,
		ContextMaxChars: rc.ContextMaxChars,
	}
}

func (p *ApiServer) initRoute(app *fiber.App) error {
	app.Use(p.authMiddleware)

	app.Get("/status", func(c fiber.Ctx) error {
		s := fmt.Sprintf(`{ "status": "%s", "runtime": "%s", "corpus_loaded": %v }`,
			"running", START_TIME.Format(time.RFC3339), p.pipeline.Loaded())
		return c.SendString(s)
	})
	app.Get("/version", func(c fiber.Ctx) error {
		return c.SendString(utils.Version("aprgen"))
	})
	app.Get("/config", func(c fiber.Ctx) error {
		b, _ := json.Marshal(p.Myconfig)
		return c.Send(b)
	})

	return nil
}

// Bearer token auth against the bcrypt hash from config. An empty hash
// disables auth (local use).
func (p *ApiServer) authMiddleware(c fiber.Ctx) error {
	log.Trace("🥇 Auth handler: " + c.Path())

	if p.Myconfig.TokenHash == "" {
		return c.Next()
	}

	token := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}
	err := bcrypt.CompareHashAndPassword([]byte(p.Myconfig.TokenHash), []byte(token))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}
	return c.Next()
}
