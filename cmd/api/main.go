// api is the HTTP server entrypoint: wires internal/api's gin router and
// (when RESULT_CACHE_PATH is set) a SQLite-backed simulation result cache.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/brianmickel/adequacy/internal/api"
	"github.com/brianmickel/adequacy/internal/resultcache"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var cache *resultcache.Cache
	if cachePath := os.Getenv("RESULT_CACHE_PATH"); cachePath != "" {
		c, err := resultcache.Open(cachePath)
		if err != nil {
			log.Fatalf("open result cache: %v", err)
		}
		defer c.Close()
		cache = c
		log.Printf("result cache: %s", cachePath)
	} else {
		log.Println("result cache disabled (set RESULT_CACHE_PATH to enable)")
	}

	systemsDir := os.Getenv("SYSTEMS_DIR")
	if systemsDir == "" {
		systemsDir = "data/systems"
	}
	log.Printf("persisting built systems under %s", systemsDir)

	router := api.NewRouter(cache, systemsDir)

	addr := fmt.Sprintf(":%s", port)
	log.Printf("starting adequacy API on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
