package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/bloops-games/sketchy/internal/buildinfo"
	"github.com/bloops-games/sketchy/internal/cache"
	"github.com/bloops-games/sketchy/internal/category"
	"github.com/bloops-games/sketchy/internal/clock"
	"github.com/bloops-games/sketchy/internal/database"
	resultdb "github.com/bloops-games/sketchy/internal/database/result/database"
	roomdb "github.com/bloops-games/sketchy/internal/database/room/database"
	roommodel "github.com/bloops-games/sketchy/internal/database/room/model"
	worddb "github.com/bloops-games/sketchy/internal/database/word/database"
	wordmodel "github.com/bloops-games/sketchy/internal/database/word/model"
	"github.com/bloops-games/sketchy/internal/game"
	"github.com/bloops-games/sketchy/internal/logging"
	"github.com/bloops-games/sketchy/internal/server"
	"github.com/bloops-games/sketchy/internal/shutdown"
	"github.com/bloops-games/sketchy/internal/state"
	"github.com/bloops-games/sketchy/internal/transport/ws"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"
)

var version string

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintf(os.Stdout, buildinfo.GreetingSrv, buildinfo.ProjectName, version, buildinfo.GithubURL)

	ctx, done := shutdown.New()
	defer done()

	config := Config{}
	if err := envconfig.Process("", &config); err != nil {
		logging.DefaultLogger().Fatalf("processing the config: %v", err)
	}

	logger := logging.NewLogger(config.Debug)
	ctx = logging.WithLogger(ctx, logger)

	if err := realMain(ctx, config); err != nil {
		logger.Fatalf("main.realMain: %v", err)
	}
}

func realMain(ctx context.Context, config Config) error {
	logger := logging.FromContext(ctx).Named("main.realMain")

	db, err := database.NewFromEnv(ctx, &config.DB)
	if err != nil {
		return fmt.Errorf("new database from env: %w", err)
	}

	defer db.Close(ctx)

	roomCache, err := cache.NewARC[string, roommodel.Room](config.RoomCacheSize)
	if err != nil {
		return fmt.Errorf("can not create room cache: %w", err)
	}

	wordCache, err := cache.NewARC[category.Category, []wordmodel.Word](config.WordCacheSize)
	if err != nil {
		return fmt.Errorf("can not create word cache: %w", err)
	}

	rooms := roomdb.New(db, roomCache)
	words := worddb.New(db, wordCache)
	results := resultdb.New(db)

	if config.SeedWords {
		n, err := words.Seed(wordmodel.Defaults())
		if err != nil {
			return fmt.Errorf("seed words: %w", err)
		}
		if n > 0 {
			logger.Infof("seeded %d words", n)
		}
	}

	hub := ws.NewHub(ctx)
	manager := game.NewManager(ctx, &config.Game, state.NewStore(), clock.New(config.Game.TickInterval), game.Deps{
		Rosters:  rooms,
		Words:    words,
		Auth:     rooms,
		Notifier: hub,
		Results:  results,
	})

	srv, err := server.New(config.Port)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	router := server.Router(ctx, manager, ws.Handler(ctx, hub, manager, &config.WS))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ServeHTTP(gctx, &http.Server{Handler: router}); err != nil {
			return fmt.Errorf("srv.ServeHTTP: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := manager.Run(gctx); err != nil {
			return fmt.Errorf("manager.Run: %w", err)
		}
		return nil
	})

	return g.Wait()
}
