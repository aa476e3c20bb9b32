package utils

import (
	"fmt"
)

// Global version infomation

const (
	APP_VERSION = "1.0.0"

	// date +%FT%T%z  // date +'%Y%m%d'
	BUILD_TIME = "2026-08-20T00:00:00-0300"

	// go version
	GO_VERSION = "1.24.1"

	APP_BANNER = `
	 █████╗ ██████╗ ██████╗  ██████╗ ███████╗███╗   ██╗
	██╔══██╗██╔══██╗██╔══██╗██╔════╝ ██╔════╝████╗  ██║
	███████║██████╔╝██████╔╝██║  ███╗█████╗  ██╔██╗ ██║
	██╔══██║██╔═══╝ ██╔══██╗██║   ██║██╔══╝  ██║╚██╗██║
	██║  ██║██║     ██║  ██║╚██████╔╝███████╗██║ ╚████║
	╚═╝  ╚═╝╚═╝     ╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚═╝  ╚═══╝
`
)

func Version(app string) string {
	return fmt.Sprintf(`{"app": "%s", "version": "%s", "build_time": "%s", "go_version": "%s"}`,
		app, APP_VERSION, BUILD_TIME, GO_VERSION)
}

func ShowBanner() {
	fmt.Printf("%s\n", APP_BANNER)
	fmt.Printf("aprgen %s  Gerador de APR com RAG\n", APP_VERSION)
}

func ShowBannerForApp(app, version, build_time string) {
	fmt.Printf("%s\n", APP_BANNER)
	fmt.Printf("Gerador de APR - Analise Preliminar de Risco\n")
	fmt.Printf("%s version %s, build on %s\n\n", app, version, build_time)
}
