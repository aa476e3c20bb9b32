package main

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/patrickmn/go-cache"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	log "github.com/sirupsen/logrus"
)

// HostHandler serves machine diagnostics, handy when a reload or a model
// call is slow and the question is whether the box is the problem.
type HostHandler struct {
	Mycache *cache.Cache
}

// r := app.Group("/host")
func (p *HostHandler) AddRouter(r fiber.Router) error {
	log.Info("HostHandler AddRouter")

	r.Get("", p.homeHandler)
	r.Get("/", p.homeHandler)
	r.Get("/os", p.osHandler)
	r.Get("/cpu", p.cpuHandler)
	r.Get("/mem", p.memHandler)
	r.Get("/disk", p.diskHandler)

	return nil
}

// GET /host
func (p *HostHandler) homeHandler(c fiber.Ctx) error {
	c.Response().Header.Set("Content-Type", "text/html")
	c.WriteString(`<html><body><h1>Host Information</h1>
	<a href="/host/os">os</a><br>
	<a href="/host/cpu">cpu</a><br>
	<a href="/host/mem">mem</a><br>
	<a href="/host/disk">disk</a><br>
	</body></html>`)
	return nil
}

// GET /host/os
func (p *HostHandler) osHandler(c fiber.Ctx) error {
	info, err := host.Info()
	if err != nil {
		log.Warnf("get host info failed: %v", err)
		return err
	}

	c.Response().Header.Set("Content-Type", "application/json")
	b, _ := json.MarshalIndent(info, "", " ")
	c.Write(b)
	return nil
}

// GET /host/cpu
// cpu.Info is slow on some platforms, memoize it for a minute
func (p *HostHandler) cpuHandler(c fiber.Ctx) error {
	c.Response().Header.Set("Content-Type", "application/json")

	if b, ok := p.Mycache.Get("host_cpu"); ok {
		c.Write(b.([]byte))
		return nil
	}

	physicalCnt, _ := cpu.Counts(false)
	logicalCnt, _ := cpu.Counts(true)
	infos, _ := cpu.Info()

	b, _ := json.MarshalIndent(fiber.Map{
		"physical": physicalCnt,
		"logical":  logicalCnt,
		"info":     infos,
	}, "", " ")

	p.Mycache.Set("host_cpu", b, 1*time.Minute)
	c.Write(b)
	return nil
}

// GET /host/mem
func (p *HostHandler) memHandler(c fiber.Ctx) error {
	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Warnf("get virtual memory failed: %v", err)
		return err
	}

	c.Response().Header.Set("Content-Type", "application/json")
	b, _ := json.MarshalIndent(vm, "", " ")
	c.Write(b)
	return nil
}

// GET /host/disk
func (p *HostHandler) diskHandler(c fiber.Ctx) error {
	usage, err := disk.Usage("/")
	if err != nil {
		log.Warnf("get disk usage failed: %v", err)
		return err
	}

	c.Response().Header.Set("Content-Type", "application/json")
	b, _ := json.MarshalIndent(usage, "", " ")
	c.Write(b)
	return nil
}
