package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/matthinz/lunchbot/internal/admin"
	"github.com/matthinz/lunchbot/internal/commands"
	"github.com/matthinz/lunchbot/internal/config"
	"github.com/matthinz/lunchbot/internal/feeds"
	"github.com/matthinz/lunchbot/internal/httpcache"
	"github.com/matthinz/lunchbot/internal/menus"
	"github.com/matthinz/lunchbot/internal/middleware"
	"github.com/matthinz/lunchbot/internal/slack"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	// Subcommands
	if len(os.Args) > 1 && os.Args[1] == "issue-token" {
		commands.IssueToken(os.Args[2:])
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("invalid LUNCH_BOT_TIMEZONE %q: %v", cfg.Timezone, err)
	}

	// ───────────────────────── GIN ─────────────────────────
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	// ───────────────────────── CORE ─────────────────────────
	getter := httpcache.NewGetter(
		httpcache.FileSystemCache(cfg.CacheDir, cfg.CacheTTL),
	)

	provider := menus.NewProvider(getter, cfg.DistrictID, cfg.MenuID)
	fetch := menus.Fetcher(provider.FetchMonth)

	// ───────────────────────── HANDLERS ─────────────────────────
	menuHandler := menus.NewHandler(fetch, loc)
	feedHandler := feeds.NewHandler(fetch, cfg.Timezone)
	slackHandler := slack.NewHandler(fetch, loc, cfg.SlackVerificationToken)

	// ───────────────────────── ROUTES ─────────────────────────
	r.GET("/menu", menuHandler.GetMenu)
	r.GET("/menu.json", menuHandler.GetMenuJSON)
	r.GET("/rss", feedHandler.GetRSS)
	r.GET("/calendar.ics", feedHandler.GetICS)
	r.POST("/slack/lunch", slackHandler.SlashCommand)

	// ───────────────────────── ADMIN ─────────────────────────
	if cfg.JWTSecret != "" {
		adminHandler := admin.NewHandler(cfg.CacheDir)

		adminGroup := r.Group("/admin")
		adminGroup.Use(middleware.AuthMiddleware())
		{
			adminGroup.POST("/cache/purge", adminHandler.PurgeCache)
		}
	}

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ───────────────────────── START ─────────────────────────
	log.Printf("lunchbot listening on http://localhost:%d", cfg.Port)
	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal(err)
	}
}
